package brackets_test

import (
	"fmt"
	"testing"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupWithTeams(n int) (*models.Group, []*models.Team) {
	g := &models.Group{ID: "g1", Number: 1, Capacity: n}
	teams := make([]*models.Team, n)
	for i := range teams {
		id := fmt.Sprintf("T%d", i+1)
		teams[i] = &models.Team{ID: id}
		g.TeamIDs = append(g.TeamIDs, id)
	}
	return g, teams
}

func TestRoundRobinCompleteness(t *testing.T) {
	gen := brackets.NewRoundRobinGenerator()

	for n := 2; n <= 7; n++ {
		t.Run(fmt.Sprintf("%d teams", n), func(t *testing.T) {
			g, teams := groupWithTeams(n)
			matches, err := gen.GenerateBracket(brackets.GenerateBracketParams{Group: g, Teams: teams})
			require.NoError(t, err)
			assert.Len(t, matches, n*(n-1)/2)

			pairs := make(map[[2]string]int)
			for i, m := range matches {
				require.NotNil(t, m.Team1ID)
				require.NotNil(t, m.Team2ID)
				assert.NotEqual(t, *m.Team1ID, *m.Team2ID)
				assert.Equal(t, models.StageGroup, m.Stage)
				assert.Equal(t, "g1", m.GroupID)
				assert.Equal(t, 1, m.Round)
				assert.Equal(t, i+1, m.MatchNumber)
				assert.Equal(t, i+1, m.Position)
				assert.False(t, m.Completed)

				a, b := *m.Team1ID, *m.Team2ID
				if a > b {
					a, b = b, a
				}
				pairs[[2]string{a, b}]++
			}
			assert.Len(t, pairs, n*(n-1)/2)
			for pair, count := range pairs {
				assert.Equal(t, 1, count, "pair %v", pair)
			}
		})
	}
}

func TestRoundRobinRejectsTooFewTeams(t *testing.T) {
	g, teams := groupWithTeams(1)
	_, err := brackets.NewRoundRobinGenerator().GenerateBracket(brackets.GenerateBracketParams{Group: g, Teams: teams})
	assert.ErrorIs(t, err, brackets.ErrInvalidTeamPair)
}

func TestRoundRobinRejectsDuplicateTeam(t *testing.T) {
	g, teams := groupWithTeams(3)
	teams = append(teams, teams[0])
	_, err := brackets.NewRoundRobinGenerator().GenerateBracket(brackets.GenerateBracketParams{Group: g, Teams: teams})
	assert.ErrorIs(t, err, brackets.ErrInvalidTeamPair)
}

func TestRoundRobinSkipsPlaceholderTeams(t *testing.T) {
	g, teams := groupWithTeams(4)
	teams[3].Bye = true
	matches, err := brackets.NewRoundRobinGenerator().GenerateBracket(brackets.GenerateBracketParams{Group: g, Teams: teams})
	require.NoError(t, err)
	assert.Len(t, matches, 3)
	for _, m := range matches {
		assert.False(t, m.Involves("T4"))
	}
}

func TestScheduleGroupIsNotRepeatable(t *testing.T) {
	e := brackets.NewEngine(nil)
	tour := newTestTournament(models.DefaultSettings(), []string{"A", "B", "C", "D"})

	scheduled, err := e.ScheduleGroup(tour, "g1")
	require.NoError(t, err)
	assert.Len(t, scheduled.GroupMatches("g1"), 6)
	assert.Empty(t, tour.Matches, "input snapshot must stay untouched")

	require.Len(t, scheduled.Standings["g1"], 4)
	for _, row := range scheduled.Standings["g1"] {
		assert.Zero(t, row.MatchesPlayed)
	}

	_, err = e.ScheduleGroup(scheduled, "g1")
	assert.ErrorIs(t, err, brackets.ErrDuplicateScheduling)
	assert.Equal(t, brackets.KindDuplicateScheduling, brackets.KindOf(err))

	_, err = e.ScheduleAllGroups(scheduled)
	assert.ErrorIs(t, err, brackets.ErrDuplicateScheduling)
}

func TestScheduleAllGroupsWithShortLastGroup(t *testing.T) {
	e := brackets.NewEngine(nil)
	tour := newTestTournament(models.DefaultSettings(),
		[]string{"A1", "A2", "A3", "A4"},
		[]string{"B1", "B2", "B3"},
	)

	scheduled, err := e.ScheduleAllGroups(tour)
	require.NoError(t, err)
	assert.Len(t, scheduled.GroupMatches("g1"), 6)
	assert.Len(t, scheduled.GroupMatches("g2"), 3)
}

func TestScheduleUnknownGroup(t *testing.T) {
	e := brackets.NewEngine(nil)
	tour := newTestTournament(models.DefaultSettings(), []string{"A", "B"})
	_, err := e.ScheduleGroup(tour, "nope")
	assert.ErrorIs(t, err, brackets.ErrGroupNotFound)
}
