package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-brackets/models"
)

// Qualifier is a team that made it out of its group.
type Qualifier struct {
	TeamID      string
	GroupNumber int
	GroupRank   int

	// Record is the team's final group standing. Only consulted with
	// cross-group seeding.
	Record *models.Standing
}

type SeededTeam struct {
	Seed int
	Qualifier
}

type SingleEliminationGenerator struct {
	crossGroupSeeding bool
	scoringMode       models.ScoringMode
}

func NewSingleEliminationGenerator(settings models.Settings) BracketGenerator {
	return &SingleEliminationGenerator{
		crossGroupSeeding: settings.CrossGroupSeeding,
		scoringMode:       settings.ScoringMode,
	}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket lays out every round of a seeded single-elimination
// bracket. Round 1 pairs seed s with seed P+1-s, where P is the bracket
// size rounded up to a power of two; the slots follow the standard bracket
// order so the top two seeds can only meet in the final. Missing opponents
// become byes for the highest seeds, already completed and advanced.
func (g *SingleEliminationGenerator) GenerateBracket(params GenerateBracketParams) ([]*models.Match, error) {
	n := len(params.Qualifiers)
	if n < 2 {
		return nil, fmt.Errorf("%w: found %d", ErrInsufficientQualifiers, n)
	}

	seeded := SeedQualifiers(params.Qualifiers, g.crossGroupSeeding, g.scoringMode)
	bySeed := make(map[int]SeededTeam, n)
	seenTeams := make(map[string]struct{}, n)
	for _, s := range seeded {
		if _, dup := seenTeams[s.TeamID]; dup {
			return nil, fmt.Errorf("%w: team %s qualified twice", ErrInvalidTeamPair, s.TeamID)
		}
		seenTeams[s.TeamID] = struct{}{}
		bySeed[s.Seed] = s
	}

	size := nextPowerOfTwo(n)
	numRounds := 0
	for s := size; s > 1; s >>= 1 {
		numRounds++
	}

	matches := make([]*models.Match, 0, size-1)
	order := seedingOrder(size)
	matchNumber := 0

	for pos := 1; pos <= size/2; pos++ {
		top := bySeed[order[2*(pos-1)]]
		bottomSeed := order[2*(pos-1)+1]

		matchNumber++
		bm := &models.Match{
			ID:          matchUID(1, pos),
			Stage:       models.StageElimination,
			Round:       1,
			Position:    pos,
			MatchNumber: matchNumber,
			Team1ID:     models.StringPtr(top.TeamID),
		}
		if bottom, ok := bySeed[bottomSeed]; ok {
			bm.Team2ID = models.StringPtr(bottom.TeamID)
		} else {
			winner := models.WinnerTeam1
			bm.Completed = true
			bm.Winner = &winner
		}
		matches = append(matches, bm)
	}

	for r := 2; r <= numRounds; r++ {
		for pos := 1; pos <= size>>r; pos++ {
			matchNumber++
			matches = append(matches, &models.Match{
				ID:          matchUID(r, pos),
				Stage:       models.StageElimination,
				Round:       r,
				Position:    pos,
				MatchNumber: matchNumber,
			})
		}
	}

	for _, m := range matches {
		if m.Round == 1 && HasBye(m) {
			if _, err := advanceWinner(matches, m); err != nil {
				return nil, fmt.Errorf("failed to advance bye for match %s: %w", m.ID, err)
			}
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].Position < matches[j].Position
	})

	return matches, nil
}

// SeedQualifiers gives every qualifier its overall seed: all group winners
// first, then all runners-up, and so on; within a rank by group number, or
// by group record first when crossGroup is set.
func SeedQualifiers(qualifiers []Qualifier, crossGroup bool, mode models.ScoringMode) []SeededTeam {
	ordered := append([]Qualifier(nil), qualifiers...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.GroupRank != b.GroupRank {
			return a.GroupRank < b.GroupRank
		}
		if crossGroup && a.Record != nil && b.Record != nil {
			if c := compareRecords(a.Record, b.Record, mode); c != 0 {
				return c > 0
			}
		}
		if a.GroupNumber != b.GroupNumber {
			return a.GroupNumber < b.GroupNumber
		}
		return a.TeamID < b.TeamID
	})

	seeded := make([]SeededTeam, len(ordered))
	for i, q := range ordered {
		seeded[i] = SeededTeam{Seed: i + 1, Qualifier: q}
	}
	return seeded
}

// HasBye reports a first-round match with exactly one team present.
func HasBye(m *models.Match) bool {
	if m == nil || m.Stage != models.StageElimination || m.Round != 1 {
		return false
	}
	return (m.Team1ID == nil) != (m.Team2ID == nil)
}

// ByeAdvancingTeam returns the team that walks through a bye match.
func ByeAdvancingTeam(m *models.Match) *string {
	if !HasBye(m) {
		return nil
	}
	if m.Team1ID != nil {
		return m.Team1ID
	}
	return m.Team2ID
}

// Round is one column of the bracket.
type Round struct {
	Number  int             `json:"number"`
	Name    string          `json:"name"`
	Matches []*models.Match `json:"matches"`
}

type Bracket struct {
	Size   int     `json:"size"`
	Byes   int     `json:"byes"`
	Rounds []Round `json:"rounds"`
}

// BracketFromMatches groups elimination matches into rounds for display.
func BracketFromMatches(matches []*models.Match) *Bracket {
	byRound := make(map[int][]*models.Match)
	maxRound := 0
	for _, m := range matches {
		if m.Stage != models.StageElimination {
			continue
		}
		byRound[m.Round] = append(byRound[m.Round], m)
		if m.Round > maxRound {
			maxRound = m.Round
		}
	}

	b := &Bracket{Rounds: make([]Round, 0, maxRound)}
	for r := 1; r <= maxRound; r++ {
		ms := byRound[r]
		sort.Slice(ms, func(i, j int) bool { return ms[i].Position < ms[j].Position })
		if r == 1 {
			b.Size = len(ms) * 2
			for _, m := range ms {
				if HasBye(m) {
					b.Byes++
				}
			}
		}
		b.Rounds = append(b.Rounds, Round{Number: r, Name: roundName(r, maxRound), Matches: ms})
	}
	return b
}

func roundName(round, total int) string {
	switch total - round {
	case 0:
		return "Final"
	case 1:
		return "Semifinal"
	case 2:
		return "Quarterfinal"
	default:
		return fmt.Sprintf("Round of %d", 1<<(total-round+1))
	}
}

func matchUID(round, position int) string {
	return fmt.Sprintf("R%dM%d", round, position)
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// seedingOrder lists seeds by bracket slot: 2 → [1 2], 4 → [1 4 2 3],
// 8 → [1 8 4 5 2 7 3 6].
func seedingOrder(size int) []int {
	order := []int{1}
	for n := 2; n <= size; n <<= 1 {
		next := make([]int, 0, n)
		for _, s := range order {
			next = append(next, s, n+1-s)
		}
		order = next
	}
	return order
}
