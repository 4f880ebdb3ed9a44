package brackets

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-brackets/models"
)

// Engine runs the bracket operations on tournament snapshots. Each method
// takes a snapshot, works on a deep copy and returns the new snapshot; on
// error the input is untouched and nothing is returned. The engine does no
// I/O and no locking: callers serialize calls per tournament.
type Engine struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, now: time.Now}
}

// ScheduleGroup generates the round robin for one group and an initial
// all-zero table for it. A group that already has matches is rejected.
func (e *Engine) ScheduleGroup(t *models.Tournament, groupID string) (*models.Tournament, error) {
	if t.Stage != models.StageGroupPlay {
		return nil, fmt.Errorf("%w: tournament is in stage %s", ErrDuplicateScheduling, t.Stage)
	}
	next := t.Clone()
	if err := e.scheduleGroup(next, groupID); err != nil {
		return nil, err
	}
	next.UpdatedAt = e.now()
	return next, nil
}

// ScheduleAllGroups schedules every group that has no matches yet. It fails
// with ErrDuplicateScheduling when there is nothing left to schedule.
func (e *Engine) ScheduleAllGroups(t *models.Tournament) (*models.Tournament, error) {
	if t.Stage != models.StageGroupPlay {
		return nil, fmt.Errorf("%w: tournament is in stage %s", ErrDuplicateScheduling, t.Stage)
	}
	next := t.Clone()
	scheduled := 0
	for _, g := range next.SortedGroups() {
		if len(next.GroupMatches(g.ID)) > 0 {
			continue
		}
		if err := e.scheduleGroup(next, g.ID); err != nil {
			return nil, err
		}
		scheduled++
	}
	if scheduled == 0 {
		return nil, fmt.Errorf("%w: all %d groups are already scheduled", ErrDuplicateScheduling, len(next.Groups))
	}
	next.UpdatedAt = e.now()
	return next, nil
}

func (e *Engine) scheduleGroup(t *models.Tournament, groupID string) error {
	group := t.GroupByID(groupID)
	if group == nil {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	if existing := t.GroupMatches(groupID); len(existing) > 0 {
		return fmt.Errorf("%w: group %d has %d matches", ErrDuplicateScheduling, group.Number, len(existing))
	}

	matches, err := NewRoundRobinGenerator().GenerateBracket(GenerateBracketParams{
		Group: group,
		Teams: t.GroupTeams(group),
	})
	if err != nil {
		return fmt.Errorf("failed to schedule group %d: %w", group.Number, err)
	}
	t.Matches = append(t.Matches, matches...)

	if err := e.recomputeGroup(t, group); err != nil {
		return err
	}
	e.logger.Debug("group scheduled",
		slog.String("tournament_id", t.ID),
		slog.Int("group", group.Number),
		slog.Int("matches", len(matches)))
	return nil
}

// RecordResult applies a score to a match. Group results rebuild that
// group's standings; elimination results move the winner on and, for the
// final, crown the champion.
func (e *Engine) RecordResult(t *models.Tournament, in ResultInput) (*models.Tournament, *models.Match, error) {
	if err := validateResult(in, t.Settings.ScoringMode); err != nil {
		return nil, nil, err
	}

	next := t.Clone()
	m := next.MatchByID(in.MatchID)
	if m == nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrMatchNotFound, in.MatchID)
	}
	if m.Team1ID == nil || m.Team2ID == nil {
		return nil, nil, fmt.Errorf("%w: match %s is missing a team", ErrMatchNotReady, m.ID)
	}
	if *m.Team1ID == *m.Team2ID {
		return nil, nil, fmt.Errorf("%w: match %s pairs team %s with itself", ErrInvalidTeamPair, m.ID, *m.Team1ID)
	}

	switch m.Stage {
	case models.StageGroup:
		if next.Stage != models.StageGroupPlay {
			return nil, nil, fmt.Errorf("%w: group stage is closed", ErrAdvancementLocked)
		}
		group := next.GroupByID(m.GroupID)
		if group == nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrGroupNotFound, m.GroupID)
		}
		if !group.HasTeam(*m.Team1ID) || !group.HasTeam(*m.Team2ID) {
			return nil, nil, fmt.Errorf("%w: match %s references a team outside group %d", ErrInvalidTeamPair, m.ID, group.Number)
		}
		applyResult(m, in)
		if err := e.recomputeGroup(next, group); err != nil {
			return nil, nil, err
		}

	case models.StageElimination:
		if next.Stage == models.StageGroupPlay {
			return nil, nil, fmt.Errorf("%w: bracket has not been built", ErrMatchNotReady)
		}
		applyResult(m, in)
		following, err := advanceWinner(next.Matches, m)
		if err != nil {
			return nil, nil, err
		}
		if following == nil {
			next.ChampionID = models.StringPtr(*m.WinnerTeamID())
			next.Stage = models.StageCompleted
		}

	default:
		return nil, nil, fmt.Errorf("%w: match %s has unknown stage %q", ErrMatchNotReady, m.ID, m.Stage)
	}

	next.UpdatedAt = e.now()
	e.logger.Debug("result recorded",
		slog.String("tournament_id", next.ID),
		slog.String("match_id", m.ID),
		slog.String("stage", string(m.Stage)),
		slog.Int("score1", in.Score1),
		slog.Int("score2", in.Score2))
	return next, m, nil
}

// RecomputeStandings rebuilds the tables of every group from its matches.
// Useful after loading a snapshot written by an older version.
func (e *Engine) RecomputeStandings(t *models.Tournament) (*models.Tournament, error) {
	next := t.Clone()
	for _, g := range next.SortedGroups() {
		if err := e.recomputeGroup(next, g); err != nil {
			return nil, err
		}
	}
	return next, nil
}

func (e *Engine) recomputeGroup(t *models.Tournament, g *models.Group) error {
	standings, err := CalculateStandings(g, t.GroupTeams(g), t.GroupMatches(g.ID), t.Settings)
	if err != nil {
		return fmt.Errorf("failed to compute standings for group %d: %w", g.Number, err)
	}
	if t.Standings == nil {
		t.Standings = make(map[string][]*models.Standing)
	}
	t.Standings[g.ID] = standings
	return nil
}

// Qualifiers extracts the qualified teams of every group. It fails with
// ErrStandingsIncomplete while any group match is unplayed or any stored
// table disagrees with the group's matches.
func (e *Engine) Qualifiers(t *models.Tournament) ([]Qualifier, error) {
	qualifiers := make([]Qualifier, 0)
	for _, g := range t.SortedGroups() {
		matches := t.GroupMatches(g.ID)
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: group %d has not been scheduled", ErrStandingsIncomplete, g.Number)
		}
		for _, m := range matches {
			if !m.Completed {
				return nil, fmt.Errorf("%w: group %d match %s is not completed", ErrStandingsIncomplete, g.Number, m.ID)
			}
		}

		stored := t.Standings[g.ID]
		fresh, err := CalculateStandings(g, t.GroupTeams(g), matches, t.Settings)
		if err != nil {
			return nil, err
		}
		if !sameTable(stored, fresh) {
			return nil, fmt.Errorf("%w: group %d standings are out of date", ErrStandingsIncomplete, g.Number)
		}

		for _, row := range stored {
			if !row.Qualified {
				continue
			}
			record := *row
			qualifiers = append(qualifiers, Qualifier{
				TeamID:      row.TeamID,
				GroupNumber: g.Number,
				GroupRank:   row.Position,
				Record:      &record,
			})
		}
	}
	return qualifiers, nil
}

func sameTable(a, b []*models.Standing) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if *a[i] != *b[i] {
			return false
		}
	}
	return true
}

// BuildBracket closes the group stage and lays out the elimination rounds.
// It runs once per tournament; byes are completed and advanced right away.
func (e *Engine) BuildBracket(t *models.Tournament) (*models.Tournament, *Bracket, error) {
	if t.Stage != models.StageGroupPlay || len(t.EliminationMatches()) > 0 {
		return nil, nil, ErrDuplicateBracket
	}

	qualifiers, err := e.Qualifiers(t)
	if err != nil {
		return nil, nil, err
	}

	matches, err := NewSingleEliminationGenerator(t.Settings).GenerateBracket(GenerateBracketParams{
		Qualifiers: qualifiers,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate bracket for tournament %s: %w", t.ID, err)
	}

	next := t.Clone()
	next.Matches = append(next.Matches, matches...)
	next.Stage = models.StageEliminationPlay
	next.UpdatedAt = e.now()

	bracket := BracketFromMatches(next.Matches)
	e.logger.Info("bracket built",
		slog.String("tournament_id", next.ID),
		slog.Int("qualifiers", len(qualifiers)),
		slog.Int("size", bracket.Size),
		slog.Int("byes", bracket.Byes),
		slog.Int("rounds", len(bracket.Rounds)))
	return next, bracket, nil
}
