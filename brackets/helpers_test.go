package brackets_test

import (
	"fmt"
	"testing"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/stretchr/testify/require"
)

// newTestTournament builds a group-stage tournament whose groups hold the
// given team ids, in order.
func newTestTournament(settings models.Settings, groups ...[]string) *models.Tournament {
	t := &models.Tournament{
		ID:        "t1",
		Name:      "Test Open",
		Stage:     models.StageGroupPlay,
		Settings:  settings,
		Standings: make(map[string][]*models.Standing),
	}
	for i, ids := range groups {
		t.Groups = append(t.Groups, &models.Group{
			ID:       fmt.Sprintf("g%d", i+1),
			Number:   i + 1,
			Capacity: len(ids),
			TeamIDs:  append([]string(nil), ids...),
		})
		for _, id := range ids {
			t.Teams = append(t.Teams, &models.Team{
				ID:             id,
				Name:           "Team " + id,
				ParticipantIDs: []string{id + "-a", id + "-b"},
			})
		}
	}
	return t
}

func findMatch(t *testing.T, tour *models.Tournament, a, b string) *models.Match {
	t.Helper()
	for _, m := range tour.Matches {
		if m.Team1ID == nil || m.Team2ID == nil {
			continue
		}
		if (*m.Team1ID == a && *m.Team2ID == b) || (*m.Team1ID == b && *m.Team2ID == a) {
			return m
		}
	}
	t.Fatalf("no match between %s and %s", a, b)
	return nil
}

// play records a result given from a's point of view.
func play(t *testing.T, e *brackets.Engine, tour *models.Tournament, a, b string, scoreA, scoreB int) *models.Tournament {
	t.Helper()
	m := findMatch(t, tour, a, b)
	in := brackets.ResultInput{MatchID: m.ID, Score1: scoreA, Score2: scoreB}
	if *m.Team1ID != a {
		in.Score1, in.Score2 = scoreB, scoreA
	}
	next, _, err := e.RecordResult(tour, in)
	require.NoError(t, err)
	return next
}

// playGroupInOrder makes every earlier member of each group beat every
// later member 2-0, so member order is also the final table.
func playGroupInOrder(t *testing.T, e *brackets.Engine, tour *models.Tournament) *models.Tournament {
	t.Helper()
	for _, g := range tour.Groups {
		for i := 0; i < len(g.TeamIDs); i++ {
			for j := i + 1; j < len(g.TeamIDs); j++ {
				tour = play(t, e, tour, g.TeamIDs[i], g.TeamIDs[j], 2, 0)
			}
		}
	}
	return tour
}

func teamIDs(standings []*models.Standing) []string {
	ids := make([]string, len(standings))
	for i, s := range standings {
		ids[i] = s.TeamID
	}
	return ids
}

func matchAt(tour *models.Tournament, round, position int) *models.Match {
	for _, m := range tour.EliminationMatches() {
		if m.Round == round && m.Position == position {
			return m
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
