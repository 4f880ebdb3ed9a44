package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-brackets/models"
)

type teamStats struct {
	models.Standing
	order          int
	headToHeadWins map[string]int
}

// CalculateStandings rebuilds a group's table from scratch out of its
// matches. The result is ordered by position and never patched in place:
// the same matches always give the same table.
//
// Ranking, each step consulted only when all previous ones are equal:
// points, wins, score difference, score won, head-to-head (only for a
// tie of exactly two teams), then member order of the group.
func CalculateStandings(group *models.Group, teams []*models.Team, matches []*models.Match, settings models.Settings) ([]*models.Standing, error) {
	if group == nil {
		return nil, ErrGroupNotFound
	}

	stats := make(map[string]*teamStats, len(teams))
	ordered := make([]*teamStats, 0, len(teams))
	for _, team := range teams {
		if team == nil || team.Bye {
			continue
		}
		entry := &teamStats{
			Standing: models.Standing{
				GroupID: group.ID,
				TeamID:  team.ID,
			},
			order:          len(ordered),
			headToHeadWins: make(map[string]int),
		}
		stats[team.ID] = entry
		ordered = append(ordered, entry)
	}

	for _, m := range matches {
		if m.Stage != models.StageGroup || m.GroupID != group.ID || !m.Completed {
			continue
		}
		if m.Team1ID == nil || m.Team2ID == nil || m.Score1 == nil || m.Score2 == nil {
			return nil, fmt.Errorf("%w: completed match %s is missing teams or scores", ErrInvalidScore, m.ID)
		}
		home, okHome := stats[*m.Team1ID]
		away, okAway := stats[*m.Team2ID]
		if !okHome || !okAway || home == away {
			return nil, fmt.Errorf("%w: match %s does not pair two members of group %d", ErrInvalidTeamPair, m.ID, group.Number)
		}
		s1, s2 := *m.Score1, *m.Score2
		if s1 == s2 {
			return nil, fmt.Errorf("%w: match %s is tied %d-%d", ErrTiedScoreNotAllowed, m.ID, s1, s2)
		}

		home.credit(s1, s2, settings.ScoringMode)
		away.credit(s2, s1, settings.ScoringMode)
		home.creditSets(m.Sets, true, settings.ScoringMode)
		away.creditSets(m.Sets, false, settings.ScoringMode)

		winner, loser := home, away
		if s2 > s1 {
			winner, loser = away, home
		}
		winner.Wins++
		loser.Losses++
		winner.headToHeadWins[loser.TeamID]++
	}

	for _, entry := range ordered {
		entry.Points = entry.Wins * settings.PointsPerWin
		entry.GameDifference = entry.GamesWon - entry.GamesLost
		entry.SetDifference = entry.SetsWon - entry.SetsLost
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if c := compareRecords(&ordered[i].Standing, &ordered[j].Standing, settings.ScoringMode); c != 0 {
			return c > 0
		}
		return ordered[i].order < ordered[j].order
	})
	applyHeadToHead(ordered, settings.ScoringMode)

	standings := make([]*models.Standing, 0, len(ordered))
	for i, entry := range ordered {
		entry.Position = i + 1
		entry.Qualified = entry.Position <= settings.AdvancePerGroup
		row := entry.Standing
		standings = append(standings, &row)
	}
	return standings, nil
}

func (s *teamStats) credit(own, opponent int, mode models.ScoringMode) {
	s.MatchesPlayed++
	if mode == models.ScoringGames {
		s.GamesWon += own
		s.GamesLost += opponent
		return
	}
	s.SetsWon += own
	s.SetsLost += opponent
}

// creditSets fills the secondary unit from per-set detail when present.
func (s *teamStats) creditSets(sets []models.SetScore, isTeam1 bool, mode models.ScoringMode) {
	for _, set := range sets {
		own, opponent := set.Team1, set.Team2
		if !isTeam1 {
			own, opponent = set.Team2, set.Team1
		}
		if mode == models.ScoringGames {
			if own > opponent {
				s.SetsWon++
			} else if opponent > own {
				s.SetsLost++
			}
			continue
		}
		s.GamesWon += own
		s.GamesLost += opponent
	}
}

// compareRecords applies tie-break steps 1-4. Positive means a ranks above b.
func compareRecords(a, b *models.Standing, mode models.ScoringMode) int {
	if a.Points != b.Points {
		return a.Points - b.Points
	}
	if a.Wins != b.Wins {
		return a.Wins - b.Wins
	}
	if d := scoreDifference(a, mode) - scoreDifference(b, mode); d != 0 {
		return d
	}
	return scoreWon(a, mode) - scoreWon(b, mode)
}

func scoreDifference(s *models.Standing, mode models.ScoringMode) int {
	if mode == models.ScoringGames {
		return s.GamesWon - s.GamesLost
	}
	return s.SetsWon - s.SetsLost
}

func scoreWon(s *models.Standing, mode models.ScoringMode) int {
	if mode == models.ScoringGames {
		return s.GamesWon
	}
	return s.SetsWon
}

// applyHeadToHead walks runs of teams still level after steps 1-4. A run
// of exactly two is decided by their direct match; longer runs keep the
// member order they already have.
func applyHeadToHead(ordered []*teamStats, mode models.ScoringMode) {
	start := 0
	for start < len(ordered) {
		end := start + 1
		for end < len(ordered) && compareRecords(&ordered[start].Standing, &ordered[end].Standing, mode) == 0 {
			end++
		}

		tied := ordered[start:end]
		for _, team := range tied {
			team.HeadToHeadWins = 0
			for _, other := range tied {
				if other != team {
					team.HeadToHeadWins += team.headToHeadWins[other.TeamID]
				}
			}
		}
		if len(tied) == 2 && tied[1].HeadToHeadWins > tied[0].HeadToHeadWins {
			tied[0], tied[1] = tied[1], tied[0]
		}

		start = end
	}
}
