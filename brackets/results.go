package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
)

// ResultInput is a reported score. What a score counts (sets or games) is
// decided by the tournament's scoring mode; the recorder only compares.
type ResultInput struct {
	MatchID string            `json:"match_id"`
	Score1  int               `json:"score1"`
	Score2  int               `json:"score2"`
	Sets    []models.SetScore `json:"sets,omitempty"`
}

func validateResult(in ResultInput, mode models.ScoringMode) error {
	if in.Score1 < 0 || in.Score2 < 0 {
		return fmt.Errorf("%w: scores must be non-negative, got %d-%d", ErrInvalidScore, in.Score1, in.Score2)
	}
	if in.Score1 == in.Score2 {
		return fmt.Errorf("%w: %d-%d", ErrTiedScoreNotAllowed, in.Score1, in.Score2)
	}
	if len(in.Sets) == 0 {
		return nil
	}

	sets1, sets2, games1, games2 := 0, 0, 0, 0
	for i, set := range in.Sets {
		if set.Team1 < 0 || set.Team2 < 0 || set.Team1 == set.Team2 {
			return fmt.Errorf("%w: set %d has invalid games %d-%d", ErrInvalidScore, i+1, set.Team1, set.Team2)
		}
		games1 += set.Team1
		games2 += set.Team2
		if set.Team1 > set.Team2 {
			sets1++
		} else {
			sets2++
		}
	}

	if mode == models.ScoringGames {
		if games1 != in.Score1 || games2 != in.Score2 {
			return fmt.Errorf("%w: set games add up to %d-%d but score is %d-%d", ErrInvalidScore, games1, games2, in.Score1, in.Score2)
		}
		return nil
	}
	if sets1 != in.Score1 || sets2 != in.Score2 {
		return fmt.Errorf("%w: sets won are %d-%d but score is %d-%d", ErrInvalidScore, sets1, sets2, in.Score1, in.Score2)
	}
	return nil
}

func applyResult(m *models.Match, in ResultInput) {
	winner := models.WinnerTeam1
	if in.Score2 > in.Score1 {
		winner = models.WinnerTeam2
	}
	m.Score1 = models.IntPtr(in.Score1)
	m.Score2 = models.IntPtr(in.Score2)
	m.Sets = append([]models.SetScore(nil), in.Sets...)
	m.Winner = &winner
	m.Completed = true
}

// nextMatch finds the slot a winner of m moves into: the match in the
// following round at position ceil(position/2). Nil for the final.
func nextMatch(matches []*models.Match, m *models.Match) *models.Match {
	nextPos := (m.Position + 1) / 2
	for _, candidate := range matches {
		if candidate.Stage == models.StageElimination && candidate.Round == m.Round+1 && candidate.Position == nextPos {
			return candidate
		}
	}
	return nil
}

// advanceWinner moves the winner of m into team1 of the next match when m
// sits at an odd position, team2 when even. It refuses to swap a team that
// has already played the next match.
func advanceWinner(matches []*models.Match, m *models.Match) (*models.Match, error) {
	winnerID := m.WinnerTeamID()
	if winnerID == nil {
		return nil, fmt.Errorf("%w: match %s has no winner", ErrMatchNotReady, m.ID)
	}
	next := nextMatch(matches, m)
	if next == nil {
		return nil, nil
	}

	slot := &next.Team1ID
	if m.Position%2 == 0 {
		slot = &next.Team2ID
	}
	if *slot != nil && **slot == *winnerID {
		return next, nil
	}
	if next.Completed {
		return nil, fmt.Errorf("%w: match %s already played", ErrAdvancementLocked, next.ID)
	}
	*slot = models.StringPtr(*winnerID)
	return next, nil
}
