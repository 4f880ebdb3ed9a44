package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/tournament-brackets/models"
)

// MemorySnapshotRepository keeps snapshots in process memory. bracketctl
// uses it to drive the service against snapshot files; tests use it in
// place of PostgreSQL. Snapshots are copied on the way in and out.
type MemorySnapshotRepository struct {
	mu    sync.Mutex
	items map[string]*models.Tournament
	now   func() time.Time
}

func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{items: make(map[string]*models.Tournament), now: time.Now}
}

// Put stores t as is, keeping its version. It replaces any existing snapshot.
func (r *MemorySnapshotRepository) Put(t *models.Tournament) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[t.ID] = t.Clone()
}

func (r *MemorySnapshotRepository) Create(ctx context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[t.ID]; ok {
		return ErrSnapshotConflict
	}
	now := r.now().UTC()
	t.Version = 1
	t.CreatedAt = now
	t.UpdatedAt = now
	r.items[t.ID] = t.Clone()
	return nil
}

func (r *MemorySnapshotRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.items[id]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return t.Clone(), nil
}

// List orders like the postgres listing: most recently updated first.
func (r *MemorySnapshotRepository) List(ctx context.Context, limit, offset int) ([]SnapshotSummary, error) {
	r.mu.Lock()
	all := make([]SnapshotSummary, 0, len(r.items))
	for _, t := range r.items {
		all = append(all, SnapshotSummary{ID: t.ID, Name: t.Name, Stage: t.Stage, Version: t.Version, UpdatedAt: t.UpdatedAt})
	}
	r.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].UpdatedAt.Equal(all[j].UpdatedAt) {
			return all[i].UpdatedAt.After(all[j].UpdatedAt)
		}
		return all[i].ID < all[j].ID
	})
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []SnapshotSummary{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *MemorySnapshotRepository) Mutate(ctx context.Context, id string, fn MutateFunc) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[id]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	next, err := fn(cur.Clone())
	if err != nil {
		return nil, err
	}
	if next == nil {
		return nil, fmt.Errorf("mutation of tournament %s returned no snapshot", id)
	}
	next.ID = cur.ID
	next.Version = cur.Version + 1
	next.UpdatedAt = r.now().UTC()
	r.items[id] = next.Clone()
	return next, nil
}

func (r *MemorySnapshotRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrSnapshotNotFound
	}
	delete(r.items, id)
	return nil
}
