package models

import (
	"sort"
	"time"
)

// TournamentStage tracks the one-way transition group stage → elimination → completed.
type TournamentStage string

const (
	StageGroupPlay       TournamentStage = "group_stage"
	StageEliminationPlay TournamentStage = "elimination"
	StageCompleted       TournamentStage = "completed"
)

// Tournament is the versioned snapshot persisted as a single document.
// It is the only source of truth for teams, matches and standings.
type Tournament struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Version  int64           `json:"version"`
	Stage    TournamentStage `json:"stage"`
	Settings Settings        `json:"settings"`
	Teams    []*Team         `json:"teams"`
	Groups   []*Group        `json:"groups"`
	Matches  []*Match        `json:"matches"`

	// Standings are keyed by group id, each list ordered by position.
	Standings map[string][]*Standing `json:"standings"`

	ChampionID *string   `json:"champion_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (t *Tournament) TeamByID(id string) *Team {
	for _, team := range t.Teams {
		if team.ID == id {
			return team
		}
	}
	return nil
}

func (t *Tournament) GroupByID(id string) *Group {
	for _, g := range t.Groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

func (t *Tournament) MatchByID(id string) *Match {
	for _, m := range t.Matches {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// GroupMatches returns the group's matches in match number order.
func (t *Tournament) GroupMatches(groupID string) []*Match {
	matches := make([]*Match, 0)
	for _, m := range t.Matches {
		if m.Stage == StageGroup && m.GroupID == groupID {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchNumber < matches[j].MatchNumber
	})
	return matches
}

// EliminationMatches returns bracket matches ordered by round, then position.
func (t *Tournament) EliminationMatches() []*Match {
	matches := make([]*Match, 0)
	for _, m := range t.Matches {
		if m.Stage == StageElimination {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].Position < matches[j].Position
	})
	return matches
}

// GroupTeams resolves a group's member ids to teams, keeping member order.
func (t *Tournament) GroupTeams(g *Group) []*Team {
	teams := make([]*Team, 0, len(g.TeamIDs))
	for _, id := range g.TeamIDs {
		if team := t.TeamByID(id); team != nil {
			teams = append(teams, team)
		}
	}
	return teams
}

// SortedGroups returns groups ordered by group number.
func (t *Tournament) SortedGroups() []*Group {
	groups := append([]*Group(nil), t.Groups...)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Number < groups[j].Number
	})
	return groups
}

// Clone returns a deep copy. Engine operations only ever mutate clones.
func (t *Tournament) Clone() *Tournament {
	c := *t
	c.Teams = make([]*Team, len(t.Teams))
	for i, team := range t.Teams {
		tc := *team
		tc.ParticipantIDs = append([]string(nil), team.ParticipantIDs...)
		tc.Seed = cloneInt(team.Seed)
		c.Teams[i] = &tc
	}
	c.Groups = make([]*Group, len(t.Groups))
	for i, g := range t.Groups {
		gc := *g
		gc.TeamIDs = append([]string(nil), g.TeamIDs...)
		c.Groups[i] = &gc
	}
	c.Matches = make([]*Match, len(t.Matches))
	for i, m := range t.Matches {
		c.Matches[i] = m.Clone()
	}
	c.Standings = make(map[string][]*Standing, len(t.Standings))
	for groupID, rows := range t.Standings {
		copied := make([]*Standing, len(rows))
		for i, row := range rows {
			rc := *row
			copied[i] = &rc
		}
		c.Standings[groupID] = copied
	}
	c.ChampionID = cloneString(t.ChampionID)
	return &c
}
