package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/metrics"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/repositories"
	"github.com/Dosada05/tournament-brackets/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const publishTimeout = 10 * time.Second

// Broadcaster pushes live updates to viewers; *brackets.Hub implements it.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message brackets.WebSocketMessage)
}

// Publisher stores the public board and snapshot archive; *storage.Publisher
// implements it.
type Publisher interface {
	PublishBoard(ctx context.Context, tournamentID string, board interface{}) (*storage.UploadResult, error)
	Archive(ctx context.Context, t *models.Tournament) (*storage.UploadResult, error)
}

type TeamInput struct {
	ID             string   `json:"id,omitempty"`
	Name           string   `json:"name"`
	ParticipantIDs []string `json:"participant_ids"`
	Seed           *int     `json:"seed,omitempty"`
}

type CreateTournamentInput struct {
	Name  string      `json:"name"`
	Teams []TeamInput `json:"teams"`

	// Groups optionally fixes the draw as lists of team ids. Without it
	// teams are drawn into groups of the configured capacity.
	Groups [][]string `json:"groups,omitempty"`

	// Settings overrides the server defaults field by field.
	Settings json.RawMessage `json:"settings,omitempty"`
}

// TournamentServiceConfig wires the service. Hub and Publisher are optional;
// leave them nil (not a typed nil pointer) to disable live updates or R2.
type TournamentServiceConfig struct {
	Repo        repositories.SnapshotRepository
	Engine      *brackets.Engine
	Locker      Locker
	Hub         Broadcaster
	Publisher   Publisher
	Metrics     metrics.Metrics
	Defaults    models.Settings
	LockTimeout time.Duration
	Logger      *slog.Logger
}

// TournamentService runs engine operations against stored snapshots. Every
// change happens under the tournament's lock inside one repository
// transaction; viewers and object storage are updated after commit.
type TournamentService struct {
	repo        repositories.SnapshotRepository
	engine      *brackets.Engine
	locker      Locker
	hub         Broadcaster
	publisher   Publisher
	metrics     metrics.Metrics
	defaults    models.Settings
	lockTimeout time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

func NewTournamentService(cfg TournamentServiceConfig) *TournamentService {
	s := &TournamentService{
		repo:        cfg.Repo,
		engine:      cfg.Engine,
		locker:      cfg.Locker,
		hub:         cfg.Hub,
		publisher:   cfg.Publisher,
		metrics:     cfg.Metrics,
		defaults:    cfg.Defaults,
		lockTimeout: cfg.LockTimeout,
		logger:      cfg.Logger,
		now:         time.Now,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.engine == nil {
		s.engine = brackets.NewEngine(s.logger)
	}
	if s.locker == nil {
		s.locker = NewLocalLocker()
	}
	if s.metrics == nil {
		s.metrics = metrics.Noop{}
	}
	if s.defaults == (models.Settings{}) {
		s.defaults = models.DefaultSettings()
	}
	if s.lockTimeout <= 0 {
		s.lockTimeout = 5 * time.Second
	}
	return s
}

func (s *TournamentService) CreateTournament(ctx context.Context, in CreateTournamentInput) (*models.Tournament, error) {
	start := s.now()
	t, err := s.newTournament(in)
	if err == nil {
		err = s.repo.Create(ctx, t)
	}
	s.observe("create", start, err)
	if err != nil {
		return nil, s.translateError(err)
	}

	s.logger.InfoContext(ctx, "tournament created",
		slog.String("tournament_id", t.ID),
		slog.Int("teams", len(t.Teams)),
		slog.Int("groups", len(t.Groups)))
	s.afterCommit(ctx, t)
	return t, nil
}

func (s *TournamentService) newTournament(in CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrTournamentNameRequired)
	}

	settings, err := models.ParseSettings(in.Settings, s.defaults)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	if len(in.Teams) < 2 {
		return nil, fmt.Errorf("%w: %w (got %d)", ErrValidationFailed, ErrNotEnoughTeams, len(in.Teams))
	}
	teams := make([]*models.Team, 0, len(in.Teams))
	seen := make(map[string]struct{}, len(in.Teams))
	for i, ti := range in.Teams {
		id := strings.TrimSpace(ti.ID)
		if id == "" {
			id = uuid.NewString()
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%w: %w: %s", ErrValidationFailed, ErrDuplicateTeam, id)
		}
		seen[id] = struct{}{}

		teamName := strings.TrimSpace(ti.Name)
		if teamName == "" {
			teamName = fmt.Sprintf("Team %d", i+1)
		}
		teams = append(teams, &models.Team{
			ID:             id,
			Name:           teamName,
			ParticipantIDs: append([]string(nil), ti.ParticipantIDs...),
			Seed:           ti.Seed,
		})
	}

	var groups []*models.Group
	if len(in.Groups) > 0 {
		groups, err = explicitGroups(in.Groups, seen, settings.GroupCapacity)
	} else {
		groups, err = brackets.AssignGroups(teams, settings.GroupCapacity)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	now := s.now().UTC()
	return &models.Tournament{
		ID:        uuid.NewString(),
		Name:      name,
		Stage:     models.StageGroupPlay,
		Settings:  settings,
		Teams:     teams,
		Groups:    groups,
		Matches:   []*models.Match{},
		Standings: make(map[string][]*models.Standing),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func explicitGroups(draw [][]string, known map[string]struct{}, capacity int) ([]*models.Group, error) {
	placed := make(map[string]struct{}, len(known))
	groups := make([]*models.Group, 0, len(draw))
	for i, ids := range draw {
		if len(ids) > capacity {
			return nil, fmt.Errorf("%w: group %d has %d teams, capacity is %d", ErrGroupOverCapacity, i+1, len(ids), capacity)
		}
		if len(ids) < 2 {
			return nil, fmt.Errorf("%w: group %d has %d", ErrGroupTooSmall, i+1, len(ids))
		}
		g := &models.Group{ID: fmt.Sprintf("group-%d", i+1), Number: i + 1, Capacity: capacity}
		for _, id := range ids {
			if _, ok := known[id]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, id)
			}
			if _, dup := placed[id]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateTeam, id)
			}
			placed[id] = struct{}{}
			g.TeamIDs = append(g.TeamIDs, id)
		}
		groups = append(groups, g)
	}
	for id := range known {
		if _, ok := placed[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrTeamWithoutGroup, id)
		}
	}
	return groups, nil
}

func (s *TournamentService) GetTournament(ctx context.Context, id string) (*models.Tournament, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.translateError(err)
	}
	return t, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context, limit, offset int) ([]repositories.SnapshotSummary, error) {
	list, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, s.translateError(err)
	}
	return list, nil
}

// ScheduleGroups generates round-robin matches for one group, or for every
// unscheduled group when groupID is empty.
func (s *TournamentService) ScheduleGroups(ctx context.Context, id, groupID string) (*models.Tournament, error) {
	t, err := s.mutate(ctx, "schedule", id, func(cur *models.Tournament) (*models.Tournament, error) {
		if groupID == "" {
			return s.engine.ScheduleAllGroups(cur)
		}
		return s.engine.ScheduleGroup(cur, groupID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "groups scheduled",
		slog.String("tournament_id", id),
		slog.String("group_id", groupID),
		slog.Int("matches", len(t.Matches)))
	s.afterCommit(ctx, t, brackets.WebSocketMessage{Type: brackets.EventStandingsUpdated, Payload: standingsView(t)})
	return t, nil
}

// RecordResult applies a score and returns the updated snapshot and match.
func (s *TournamentService) RecordResult(ctx context.Context, id string, in brackets.ResultInput) (*models.Tournament, *models.Match, error) {
	var recorded *models.Match
	t, err := s.mutate(ctx, "record_result", id, func(cur *models.Tournament) (*models.Tournament, error) {
		next, m, err := s.engine.RecordResult(cur, in)
		if err != nil {
			return nil, err
		}
		recorded = m
		return next, nil
	})
	if err != nil {
		return nil, nil, err
	}

	events := []brackets.WebSocketMessage{{Type: brackets.EventMatchUpdated, Payload: recorded}}
	if recorded.Stage == models.StageGroup {
		s.metrics.IncStandingsRecomputed()
		g := t.GroupByID(recorded.GroupID)
		events = append(events, brackets.WebSocketMessage{
			Type:    brackets.EventStandingsUpdated,
			Payload: GroupStandings{GroupID: g.ID, Number: g.Number, Rows: t.Standings[g.ID]},
		})
	} else {
		events = append(events, brackets.WebSocketMessage{Type: brackets.EventBracketUpdated, Payload: bracketView(t)})
	}

	s.logger.DebugContext(ctx, "result stored",
		slog.String("tournament_id", id),
		slog.String("match_id", recorded.ID),
		slog.Int64("version", t.Version))
	if t.ChampionID != nil && t.Stage == models.StageCompleted {
		s.logger.InfoContext(ctx, "tournament completed",
			slog.String("tournament_id", id),
			slog.String("champion_id", *t.ChampionID))
	}
	s.afterCommit(ctx, t, events...)
	return t, recorded, nil
}

// RecomputeStandings rebuilds every group table from its matches.
func (s *TournamentService) RecomputeStandings(ctx context.Context, id string) ([]GroupStandings, error) {
	t, err := s.mutate(ctx, "recompute", id, s.engine.RecomputeStandings)
	if err != nil {
		return nil, err
	}
	view := standingsView(t)
	s.afterCommit(ctx, t, brackets.WebSocketMessage{Type: brackets.EventStandingsUpdated, Payload: view})
	return view, nil
}

func (s *TournamentService) GetStandings(ctx context.Context, id string) ([]GroupStandings, error) {
	t, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	return standingsView(t), nil
}

// BuildBracket closes the group stage and seeds the elimination bracket.
func (s *TournamentService) BuildBracket(ctx context.Context, id string) (*brackets.Bracket, error) {
	var bracket *brackets.Bracket
	t, err := s.mutate(ctx, "build_bracket", id, func(cur *models.Tournament) (*models.Tournament, error) {
		next, b, err := s.engine.BuildBracket(cur)
		if err != nil {
			return nil, err
		}
		bracket = b
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, t, brackets.WebSocketMessage{Type: brackets.EventBracketUpdated, Payload: bracket})
	return bracket, nil
}

func (s *TournamentService) GetBracket(ctx context.Context, id string) (*brackets.Bracket, error) {
	t, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	b := bracketView(t)
	if b == nil {
		return nil, ErrBracketNotBuilt
	}
	return b, nil
}

func (s *TournamentService) GetBoard(ctx context.Context, id string) (*Board, error) {
	t, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	return boardView(t), nil
}

func (s *TournamentService) mutate(ctx context.Context, op, id string, fn repositories.MutateFunc) (*models.Tournament, error) {
	start := s.now()

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	unlock, err := s.locker.Lock(lockCtx, "tournament:"+id)
	cancel()
	if err != nil {
		s.observe(op, start, err)
		return nil, err
	}
	defer unlock()

	t, err := s.repo.Mutate(ctx, id, fn)
	s.observe(op, start, err)
	if err != nil {
		if kind := brackets.KindOf(err); kind != "" {
			s.logger.DebugContext(ctx, "operation rejected",
				slog.String("op", op),
				slog.String("tournament_id", id),
				slog.String("kind", string(kind)),
				slog.Any("error", err))
		}
		return nil, s.translateError(err)
	}
	return t, nil
}

func (s *TournamentService) observe(op string, start time.Time, err error) {
	s.metrics.ObserveOperationDuration(op, s.now().Sub(start).Seconds())
	switch kind := brackets.KindOf(err); {
	case err == nil:
		s.metrics.IncOperation(op, "ok")
	case kind != "":
		s.metrics.IncRejection(string(kind))
		s.metrics.IncOperation(op, "rejected")
	case errors.Is(err, ErrValidationFailed):
		s.metrics.IncOperation(op, "rejected")
	default:
		s.metrics.IncOperation(op, "error")
	}
}

func (s *TournamentService) translateError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrSnapshotNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrSnapshotVersionConflict):
		return fmt.Errorf("%w: %v", ErrTournamentConflict, err)
	}
	return err
}

// afterCommit fans the committed snapshot out to viewers and object storage.
// Failures are logged and counted; the snapshot is already durable.
func (s *TournamentService) afterCommit(ctx context.Context, t *models.Tournament, events ...brackets.WebSocketMessage) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	var g errgroup.Group
	if s.hub != nil && len(events) > 0 {
		g.Go(func() error {
			room := brackets.RoomFor(t.ID)
			for _, ev := range events {
				s.hub.BroadcastToRoom(room, ev)
			}
			return nil
		})
	}
	if s.publisher != nil {
		board := boardView(t)
		g.Go(func() error {
			if _, err := s.publisher.PublishBoard(pubCtx, t.ID, board); err != nil {
				s.metrics.IncPublishFailure("board")
				return fmt.Errorf("publish board: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			if _, err := s.publisher.Archive(pubCtx, t); err != nil {
				s.metrics.IncPublishFailure("archive")
				return fmt.Errorf("archive snapshot: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.WarnContext(ctx, "post-commit publication failed",
			slog.String("tournament_id", t.ID),
			slog.Int64("version", t.Version),
			slog.Any("error", err))
	}
}
