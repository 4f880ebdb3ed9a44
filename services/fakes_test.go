package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/repositories"
	"github.com/Dosada05/tournament-brackets/storage"
	"github.com/stretchr/testify/require"
)

func storedVersion(t *testing.T, repo *repositories.MemorySnapshotRepository, id string) int64 {
	t.Helper()
	tour, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return tour.Version
}

type recordingHub struct {
	mu       sync.Mutex
	rooms    []string
	messages []brackets.WebSocketMessage
}

func (h *recordingHub) BroadcastToRoom(roomID string, message brackets.WebSocketMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rooms = append(h.rooms, roomID)
	h.messages = append(h.messages, message)
}

func (h *recordingHub) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.messages))
	for i, m := range h.messages {
		out[i] = m.Type
	}
	return out
}

func (h *recordingHub) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rooms = nil
	h.messages = nil
}

type failingPublisher struct{}

func (failingPublisher) PublishBoard(context.Context, string, interface{}) (*storage.UploadResult, error) {
	return nil, errors.New("bucket unavailable")
}

func (failingPublisher) Archive(context.Context, *models.Tournament) (*storage.UploadResult, error) {
	return nil, errors.New("bucket unavailable")
}
