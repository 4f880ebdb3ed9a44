package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/repositories"
	"github.com/Dosada05/tournament-brackets/services"
	"github.com/Dosada05/tournament-brackets/storage"
)

func isMsgpack(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".msgpack")
}

func loadSnapshot(path string) (*models.Tournament, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if isMsgpack(path) {
		return storage.DecodeSnapshot(data)
	}

	t := &models.Tournament{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	if t.Standings == nil {
		t.Standings = make(map[string][]*models.Standing)
	}
	return t, nil
}

// saveSnapshot replaces path atomically so an interrupted run never leaves a
// half-written snapshot.
func saveSnapshot(path string, t *models.Tournament) error {
	var (
		data []byte
		err  error
	)
	if isMsgpack(path) {
		data, err = storage.EncodeSnapshot(t)
	} else {
		data, err = json.MarshalIndent(t, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".bracketctl-*")
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// session runs service operations against one snapshot held in memory.
type session struct {
	repo *repositories.MemorySnapshotRepository
	svc  *services.TournamentService
	id   string
}

func newSession(logger *slog.Logger, t *models.Tournament) *session {
	repo := repositories.NewMemorySnapshotRepository()
	if t != nil {
		repo.Put(t)
	}
	s := &session{
		repo: repo,
		svc: services.NewTournamentService(services.TournamentServiceConfig{
			Repo:   repo,
			Engine: brackets.NewEngine(logger),
			Logger: logger,
		}),
	}
	if t != nil {
		s.id = t.ID
	}
	return s
}

func openSession(logger *slog.Logger, path string) (*session, error) {
	t, err := loadSnapshot(path)
	if err != nil {
		return nil, err
	}
	return newSession(logger, t), nil
}

func (s *session) save(ctx context.Context, path string) (*models.Tournament, error) {
	t, err := s.svc.GetTournament(ctx, s.id)
	if err != nil {
		return nil, err
	}
	if err := saveSnapshot(path, t); err != nil {
		return nil, err
	}
	return t, nil
}
