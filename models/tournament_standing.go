package models

// Standing is a team's derived record inside its group. It is rebuilt from
// the group's matches on every change and has no identity of its own.
type Standing struct {
	GroupID string `json:"group_id"`
	TeamID  string `json:"team_id"`

	MatchesPlayed int `json:"matches_played"`
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	Draws         int `json:"draws"`

	GamesWon       int `json:"games_won"`
	GamesLost      int `json:"games_lost"`
	GameDifference int `json:"game_difference"`

	SetsWon       int `json:"sets_won"`
	SetsLost      int `json:"sets_lost"`
	SetDifference int `json:"set_difference"`

	Points         int  `json:"points"`
	HeadToHeadWins int  `json:"head_to_head_wins"`
	Position       int  `json:"position"`
	Qualified      bool `json:"qualified"`
}
