package services

import (
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
)

// GroupStandings is one group's table in position order.
type GroupStandings struct {
	GroupID string             `json:"group_id"`
	Number  int                `json:"number"`
	Rows    []*models.Standing `json:"rows"`
}

// Board is the public view of a tournament: what the live page renders.
type Board struct {
	TournamentID string                 `json:"tournament_id"`
	Name         string                 `json:"name"`
	Stage        models.TournamentStage `json:"stage"`
	Version      int64                  `json:"version"`
	ChampionID   *string                `json:"champion_id,omitempty"`
	Standings    []GroupStandings       `json:"standings"`
	Bracket      *brackets.Bracket      `json:"bracket,omitempty"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

func standingsView(t *models.Tournament) []GroupStandings {
	view := make([]GroupStandings, 0, len(t.Groups))
	for _, g := range t.SortedGroups() {
		rows := t.Standings[g.ID]
		if rows == nil {
			rows = []*models.Standing{}
		}
		view = append(view, GroupStandings{GroupID: g.ID, Number: g.Number, Rows: rows})
	}
	return view
}

func bracketView(t *models.Tournament) *brackets.Bracket {
	if len(t.EliminationMatches()) == 0 {
		return nil
	}
	return brackets.BracketFromMatches(t.Matches)
}

func boardView(t *models.Tournament) *Board {
	return &Board{
		TournamentID: t.ID,
		Name:         t.Name,
		Stage:        t.Stage,
		Version:      t.Version,
		ChampionID:   t.ChampionID,
		Standings:    standingsView(t),
		Bracket:      bracketView(t),
		UpdatedAt:    t.UpdatedAt,
	}
}
