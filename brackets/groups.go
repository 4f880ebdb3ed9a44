package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-brackets/models"
)

// AssignGroups draws teams into groups of at most capacity members.
//
// The number of groups is the fewest that respect capacity, and group sizes
// differ by at most one, so no group drops below two teams. Without seeds
// the teams fill groups in registration order and the trailing groups are
// the short ones. When every team carries a seed the teams are dealt
// serpentine (1→A, 2→B, 3→C, 4→C, 5→B, ...) so top seeds land in
// different groups.
func AssignGroups(teams []*models.Team, capacity int) ([]*models.Group, error) {
	if capacity < 2 {
		return nil, fmt.Errorf("group capacity must be at least 2, got %d", capacity)
	}
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: %d teams cannot form a group", ErrInvalidTeamPair, len(teams))
	}

	numGroups := (len(teams) + capacity - 1) / capacity
	if len(teams)/numGroups < 2 {
		return nil, fmt.Errorf("%w: %d teams cannot be split into groups of 2 to %d", ErrInvalidTeamPair, len(teams), capacity)
	}
	groups := make([]*models.Group, numGroups)
	for i := range groups {
		groups[i] = &models.Group{
			ID:       fmt.Sprintf("group-%d", i+1),
			Number:   i + 1,
			Capacity: capacity,
			TeamIDs:  make([]string, 0, capacity),
		}
	}

	if !allSeeded(teams) {
		base, extra := len(teams)/numGroups, len(teams)%numGroups
		next := 0
		for i, g := range groups {
			size := base
			if i < extra {
				size++
			}
			for _, team := range teams[next : next+size] {
				g.TeamIDs = append(g.TeamIDs, team.ID)
			}
			next += size
		}
		return groups, nil
	}

	ordered := append([]*models.Team(nil), teams...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return *ordered[i].Seed < *ordered[j].Seed
	})
	for i, team := range ordered {
		lap := i / numGroups
		idx := i % numGroups
		if lap%2 == 1 {
			idx = numGroups - 1 - idx
		}
		groups[idx].TeamIDs = append(groups[idx].TeamIDs, team.ID)
	}
	return groups, nil
}

func allSeeded(teams []*models.Team) bool {
	for _, t := range teams {
		if t.Seed == nil {
			return false
		}
	}
	return true
}
