package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeMsgpack = "application/x-msgpack"
)

func BoardKey(tournamentID string) string {
	return fmt.Sprintf("public/%s/bracket.json", tournamentID)
}

func ArchiveKey(tournamentID string, version int64) string {
	return fmt.Sprintf("archive/%s/v%d.msgpack", tournamentID, version)
}

// Publisher writes the public board and the versioned archive of a
// tournament to object storage.
type Publisher struct {
	uploader FileUploader
}

func NewPublisher(uploader FileUploader) *Publisher {
	return &Publisher{uploader: uploader}
}

// PublishBoard overwrites the public JSON board of a tournament.
func (p *Publisher) PublishBoard(ctx context.Context, tournamentID string, board interface{}) (*UploadResult, error) {
	data, err := json.Marshal(board)
	if err != nil {
		return nil, fmt.Errorf("failed to encode board for tournament %s: %w", tournamentID, err)
	}
	return p.uploader.Upload(ctx, BoardKey(tournamentID), contentTypeJSON, bytes.NewReader(data))
}

// Archive stores the snapshot under its version. Versions are never overwritten
// by a different snapshot because every committed change bumps the version.
func (p *Publisher) Archive(ctx context.Context, t *models.Tournament) (*UploadResult, error) {
	data, err := EncodeSnapshot(t)
	if err != nil {
		return nil, err
	}
	return p.uploader.Upload(ctx, ArchiveKey(t.ID, t.Version), contentTypeMsgpack, bytes.NewReader(data))
}

// EncodeSnapshot packs a tournament with msgpack, reusing its json field names.
func EncodeSnapshot(t *models.Tournament) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("failed to pack tournament %s: %w", t.ID, err)
	}
	return buf.Bytes(), nil
}

func DecodeSnapshot(data []byte) (*models.Tournament, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	t := &models.Tournament{}
	if err := dec.Decode(t); err != nil {
		return nil, fmt.Errorf("failed to unpack tournament: %w", err)
	}
	return t, nil
}
