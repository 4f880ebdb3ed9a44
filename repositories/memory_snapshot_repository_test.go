package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedMemoryRepo() (*MemorySnapshotRepository, *time.Time) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := NewMemorySnapshotRepository()
	repo.now = func() time.Time { return now }
	return repo, &now
}

func TestMemoryRepo_CreateCopiesSnapshot(t *testing.T) {
	ctx := context.Background()
	repo, _ := newClockedMemoryRepo()

	in := &models.Tournament{ID: "t1", Name: "Open", Stage: models.StageGroupPlay}
	require.NoError(t, repo.Create(ctx, in))
	assert.Equal(t, int64(1), in.Version)

	in.Name = "changed after create"
	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Open", got.Name)

	assert.ErrorIs(t, repo.Create(ctx, &models.Tournament{ID: "t1"}), ErrSnapshotConflict)
}

func TestMemoryRepo_MutateBumpsVersion(t *testing.T) {
	ctx := context.Background()
	repo, now := newClockedMemoryRepo()
	require.NoError(t, repo.Create(ctx, &models.Tournament{ID: "t1", Name: "Open"}))

	*now = now.Add(time.Minute)
	next, err := repo.Mutate(ctx, "t1", func(cur *models.Tournament) (*models.Tournament, error) {
		cur.Name = "Open 2025"
		return cur, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.Version)
	assert.Equal(t, *now, next.UpdatedAt)

	boom := errors.New("boom")
	_, err = repo.Mutate(ctx, "t1", func(cur *models.Tournament) (*models.Tournament, error) {
		cur.Name = "lost"
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.Mutate(ctx, "t1", func(cur *models.Tournament) (*models.Tournament, error) {
		return nil, nil
	})
	assert.Error(t, err)

	got, err := repo.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Open 2025", got.Name)
	assert.Equal(t, int64(2), got.Version)

	_, err = repo.Mutate(ctx, "missing", func(cur *models.Tournament) (*models.Tournament, error) { return cur, nil })
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestMemoryRepo_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo, now := newClockedMemoryRepo()
	for _, id := range []string{"a", "b", "c"} {
		*now = now.Add(time.Second)
		require.NoError(t, repo.Create(ctx, &models.Tournament{ID: id, Name: id}))
	}

	page, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].ID)
	assert.Equal(t, "b", page[1].ID)

	page, err = repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].ID)

	page, err = repo.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMemoryRepo_Delete(t *testing.T) {
	ctx := context.Background()
	repo, _ := newClockedMemoryRepo()
	require.NoError(t, repo.Create(ctx, &models.Tournament{ID: "t1"}))

	require.NoError(t, repo.Delete(ctx, "t1"))
	assert.ErrorIs(t, repo.Delete(ctx, "t1"), ErrSnapshotNotFound)
	_, err := repo.GetByID(ctx, "t1")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}
