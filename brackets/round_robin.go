package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket creates the group-stage matches: every team of the group
// plays every other team exactly once. Group matches all belong to round 1;
// position and match number only fix the display order.
func (g *RoundRobinGenerator) GenerateBracket(params GenerateBracketParams) ([]*models.Match, error) {
	group := params.Group
	if group == nil {
		return nil, ErrGroupNotFound
	}

	teams := make([]*models.Team, 0, len(params.Teams))
	seen := make(map[string]struct{}, len(params.Teams))
	for _, team := range params.Teams {
		if team == nil || team.Bye {
			continue
		}
		if _, dup := seen[team.ID]; dup {
			return nil, fmt.Errorf("%w: team %s listed twice in group %d", ErrInvalidTeamPair, team.ID, group.Number)
		}
		seen[team.ID] = struct{}{}
		teams = append(teams, team)
	}

	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: group %d has %d playable teams, min 2 required", ErrInvalidTeamPair, group.Number, len(teams))
	}

	matches := make([]*models.Match, 0, len(teams)*(len(teams)-1)/2)
	matchOrder := 0

	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			matchOrder++
			matches = append(matches, &models.Match{
				ID:          fmt.Sprintf("G%d_M%d", group.Number, matchOrder),
				Stage:       models.StageGroup,
				GroupID:     group.ID,
				Round:       1,
				Position:    matchOrder,
				MatchNumber: matchOrder,
				Team1ID:     models.StringPtr(teams[i].ID),
				Team2ID:     models.StringPtr(teams[j].ID),
			})
		}
	}

	return matches, nil
}
