package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tournamentID = "3f0b6a4e-2b8c-4c55-9a4e-0c3c1f1b9d11"

func newMockRepo(t *testing.T) (*postgresSnapshotRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	return &postgresSnapshotRepository{db: db, now: func() time.Time { return fixed }}, mock
}

func storedPayload(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(&models.Tournament{
		ID:       tournamentID,
		Name:     "Beach Open",
		Stage:    models.StageGroupPlay,
		Settings: models.DefaultSettings(),
		Teams:    []*models.Team{{ID: "A"}, {ID: "B"}},
		Groups:   []*models.Group{{ID: "group-1", Number: 1, TeamIDs: []string{"A", "B"}}},
	})
	require.NoError(t, err)
	return payload
}

var selectForUpdate = regexp.QuoteMeta(`SELECT version, payload FROM tournament_snapshots WHERE id = $1 FOR UPDATE`)

func TestMutateBumpsVersion(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectForUpdate).
		WithArgs(tournamentID).
		WillReturnRows(sqlmock.NewRows([]string{"version", "payload"}).AddRow(int64(3), storedPayload(t)))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tournament_snapshots`)).
		WithArgs(tournamentID, int64(3), "Beach Open (renamed)", sqlmock.AnyArg(), int64(4), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := repo.Mutate(context.Background(), tournamentID, func(cur *models.Tournament) (*models.Tournament, error) {
		assert.Equal(t, int64(3), cur.Version)
		assert.Len(t, cur.Teams, 2)
		next := cur.Clone()
		next.Name = "Beach Open (renamed)"
		return next, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMutateDetectsVersionConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectForUpdate).
		WithArgs(tournamentID).
		WillReturnRows(sqlmock.NewRows([]string{"version", "payload"}).AddRow(int64(3), storedPayload(t)))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE tournament_snapshots`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	got, err := repo.Mutate(context.Background(), tournamentID, func(cur *models.Tournament) (*models.Tournament, error) {
		return cur, nil
	})
	assert.ErrorIs(t, err, ErrSnapshotVersionConflict)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMutateRollsBackWhenFnFails(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("engine rejected")

	mock.ExpectBegin()
	mock.ExpectQuery(selectForUpdate).
		WithArgs(tournamentID).
		WillReturnRows(sqlmock.NewRows([]string{"version", "payload"}).AddRow(int64(1), storedPayload(t)))
	mock.ExpectRollback()

	_, err := repo.Mutate(context.Background(), tournamentID, func(*models.Tournament) (*models.Tournament, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMutateMissingTournament(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(selectForUpdate).
		WithArgs(tournamentID).
		WillReturnRows(sqlmock.NewRows([]string{"version", "payload"}))
	mock.ExpectRollback()

	_, err := repo.Mutate(context.Background(), tournamentID, func(cur *models.Tournament) (*models.Tournament, error) {
		t.Fatal("fn must not run for a missing tournament")
		return cur, nil
	})
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAndGet(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tournament_snapshots`)).
		WithArgs(tournamentID, "Beach Open", sqlmock.AnyArg(), int64(1), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tour := &models.Tournament{ID: tournamentID, Name: "Beach Open", Stage: models.StageGroupPlay}
	require.NoError(t, repo.Create(context.Background(), tour))
	assert.Equal(t, int64(1), tour.Version)
	assert.False(t, tour.CreatedAt.IsZero())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT version, payload FROM tournament_snapshots WHERE id = $1`)).
		WithArgs(tournamentID).
		WillReturnRows(sqlmock.NewRows([]string{"version", "payload"}).AddRow(int64(7), storedPayload(t)))

	got, err := repo.GetByID(context.Background(), tournamentID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Version)
	assert.Equal(t, "Beach Open", got.Name)
	assert.NotNil(t, got.Standings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tournament_snapshots`)).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.Tournament{ID: tournamentID})
	assert.ErrorIs(t, err, ErrSnapshotConflict)
}

func TestDeleteMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tournament_snapshots`)).
		WithArgs(tournamentID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), tournamentID), ErrSnapshotNotFound)
}

func TestList(t *testing.T) {
	repo, mock := newMockRepo(t)
	updated := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM tournament_snapshots`)).
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "stage", "version", "updated_at"}).
			AddRow(tournamentID, "Beach Open", "elimination", int64(5), updated))

	got, err := repo.List(context.Background(), 0, -1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.StageEliminationPlay, got[0].Stage)
	assert.Equal(t, int64(5), got[0].Version)
}
