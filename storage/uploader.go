package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// MemoryUploader keeps objects in memory. Used by tests and by local runs
// without R2 credentials.
type MemoryUploader struct {
	mu            sync.Mutex
	objects       map[string][]byte
	contentTypes  map[string]string
	publicBaseURL string
}

func NewMemoryUploader(publicBaseURL string) *MemoryUploader {
	return &MemoryUploader{
		objects:       make(map[string][]byte),
		contentTypes:  make(map[string]string),
		publicBaseURL: publicBaseURL,
	}
}

func (m *MemoryUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = buf.Bytes()
	m.contentTypes[key] = contentType
	return &UploadResult{Key: key, Location: m.GetPublicURL(key), ETag: fmt.Sprintf("%d", buf.Len())}, nil
}

func (m *MemoryUploader) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.contentTypes, key)
	return nil
}

func (m *MemoryUploader) GetPublicURL(key string) string {
	return publicURL(m.publicBaseURL, key)
}

// Object returns a stored object and its content type.
func (m *MemoryUploader) Object(key string) ([]byte, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, m.contentTypes[key], ok
}

// Keys lists stored keys in sorted order.
func (m *MemoryUploader) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
