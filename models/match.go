package models

type MatchStage string

const (
	StageGroup       MatchStage = "GROUP"
	StageElimination MatchStage = "ELIMINATION"
)

type WinnerSlot string

const (
	WinnerTeam1 WinnerSlot = "team1"
	WinnerTeam2 WinnerSlot = "team2"
)

// SetScore holds the games each side took in one set.
type SetScore struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

type Match struct {
	ID          string     `json:"id"`
	Stage       MatchStage `json:"stage"`
	GroupID     string     `json:"group_id,omitempty"`
	Round       int        `json:"round"`
	Position    int        `json:"position"`
	MatchNumber int        `json:"match_number"`

	Team1ID *string `json:"team1_id,omitempty"`
	Team2ID *string `json:"team2_id,omitempty"`

	Score1 *int       `json:"score1,omitempty"`
	Score2 *int       `json:"score2,omitempty"`
	Sets   []SetScore `json:"sets,omitempty"`

	Completed bool        `json:"completed"`
	Winner    *WinnerSlot `json:"winner,omitempty"`
}

// WinnerTeamID returns the id of the winning team, nil until decided.
func (m *Match) WinnerTeamID() *string {
	if m.Winner == nil {
		return nil
	}
	if *m.Winner == WinnerTeam1 {
		return m.Team1ID
	}
	return m.Team2ID
}

func (m *Match) LoserTeamID() *string {
	if m.Winner == nil {
		return nil
	}
	if *m.Winner == WinnerTeam1 {
		return m.Team2ID
	}
	return m.Team1ID
}

// Involves reports whether the team plays in this match.
func (m *Match) Involves(teamID string) bool {
	return (m.Team1ID != nil && *m.Team1ID == teamID) || (m.Team2ID != nil && *m.Team2ID == teamID)
}

// Clone returns a deep copy so callers can mutate it without touching the original.
func (m *Match) Clone() *Match {
	c := *m
	c.Team1ID = cloneString(m.Team1ID)
	c.Team2ID = cloneString(m.Team2ID)
	c.Score1 = cloneInt(m.Score1)
	c.Score2 = cloneInt(m.Score2)
	if m.Winner != nil {
		w := *m.Winner
		c.Winner = &w
	}
	if m.Sets != nil {
		c.Sets = append([]SetScore(nil), m.Sets...)
	}
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

// StringPtr and IntPtr are small helpers for building matches in code and tests.
func StringPtr(s string) *string { return &s }

func IntPtr(i int) *int { return &i }
