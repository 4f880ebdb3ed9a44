package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/lib/pq"
)

var (
	ErrSnapshotNotFound        = errors.New("tournament not found")
	ErrSnapshotConflict        = errors.New("tournament already exists")
	ErrSnapshotVersionConflict = errors.New("tournament was modified concurrently")
)

const defaultListLimit = 50

// MutateFunc receives a private copy of the stored snapshot and returns the
// snapshot to persist. Returning an error aborts the transaction.
type MutateFunc func(current *models.Tournament) (*models.Tournament, error)

// SnapshotSummary is a listing row; the payload is not decoded.
type SnapshotSummary struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Stage     models.TournamentStage `json:"stage"`
	Version   int64                  `json:"version"`
	UpdatedAt time.Time              `json:"updated_at"`
}

type SnapshotRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context, limit, offset int) ([]SnapshotSummary, error)
	Mutate(ctx context.Context, id string, fn MutateFunc) (*models.Tournament, error)
	Delete(ctx context.Context, id string) error
}

type postgresSnapshotRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &postgresSnapshotRepository{db: db, now: time.Now}
}

func (r *postgresSnapshotRepository) Create(ctx context.Context, t *models.Tournament) error {
	now := r.now().UTC()
	t.Version = 1
	t.CreatedAt = now
	t.UpdatedAt = now

	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode tournament %s: %w", t.ID, err)
	}

	query := `
		INSERT INTO tournament_snapshots (id, name, stage, version, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = r.db.ExecContext(ctx, query, t.ID, t.Name, t.Stage, t.Version, payload, now, now)
	return r.handleSnapshotError(err)
}

func (r *postgresSnapshotRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `SELECT version, payload FROM tournament_snapshots WHERE id = $1`
	return r.load(ctx, r.db, query, id)
}

func (r *postgresSnapshotRepository) List(ctx context.Context, limit, offset int) ([]SnapshotSummary, error) {
	query := `
		SELECT id, name, stage, version, updated_at
		FROM tournament_snapshots
		ORDER BY updated_at DESC, id
		LIMIT $1 OFFSET $2`
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	summaries := make([]SnapshotSummary, 0)
	for rows.Next() {
		var s SnapshotSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Stage, &s.Version, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tournament rows: %w", err)
	}
	return summaries, nil
}

// Mutate loads the snapshot under a row lock, applies fn and writes the
// result back with version+1. The UPDATE is guarded by the version read so a
// writer that bypassed the lock is detected rather than overwritten.
func (r *postgresSnapshotRepository) Mutate(ctx context.Context, id string, fn MutateFunc) (result *models.Tournament, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			result = nil
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
			result = nil
		}
	}()

	current, err := r.load(ctx, tx, `SELECT version, payload FROM tournament_snapshots WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, err
	}
	readVersion := current.Version

	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, fmt.Errorf("mutation of tournament %s returned no snapshot", id)
	}

	next.ID = id
	next.Version = readVersion + 1
	next.UpdatedAt = r.now().UTC()
	payload, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tournament %s: %w", id, err)
	}

	query := `
		UPDATE tournament_snapshots
		SET name = $3, stage = $4, version = $5, payload = $6, updated_at = $7
		WHERE id = $1 AND version = $2`
	res, err := tx.ExecContext(ctx, query, id, readVersion, next.Name, next.Stage, next.Version, payload, next.UpdatedAt)
	if err != nil {
		return nil, r.handleSnapshotError(err)
	}
	if err := checkAffectedRows(res, ErrSnapshotVersionConflict); err != nil {
		return nil, err
	}
	return next, nil
}

func (r *postgresSnapshotRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tournament_snapshots WHERE id = $1`, id)
	if err != nil {
		return r.handleSnapshotError(err)
	}
	return checkAffectedRows(res, ErrSnapshotNotFound)
}

func (r *postgresSnapshotRepository) load(ctx context.Context, exec SQLExecutor, query, id string) (*models.Tournament, error) {
	var (
		version int64
		payload []byte
	)
	err := exec.QueryRowContext(ctx, query, id).Scan(&version, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, r.handleSnapshotError(err)
	}

	t := &models.Tournament{}
	if err := json.Unmarshal(payload, t); err != nil {
		return nil, fmt.Errorf("failed to decode tournament %s: %w", id, err)
	}
	t.Version = version
	if t.Standings == nil {
		t.Standings = make(map[string][]*models.Standing)
	}
	return t, nil
}

func (r *postgresSnapshotRepository) handleSnapshotError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return ErrSnapshotConflict
		case "22P02": // invalid_text_representation, e.g. a malformed uuid
			return ErrSnapshotNotFound
		}
	}
	return err
}
