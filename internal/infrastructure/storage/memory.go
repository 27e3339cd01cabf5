package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

var _ catalogapp.ObjectStorage = (*MemoryObjectStorage)(nil)

// MemoryObjectStorage keeps objects in process memory and serves them under
// BaseURL. It backs tests and deployments with object storage disabled.
type MemoryObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryObjectStorage creates an empty store
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost/images"
	}
	return &MemoryObjectStorage{BaseURL: baseURL, objects: make(map[string]memoryObject)}
}

// PutObject stores the object, reading at most size bytes
func (m *MemoryObjectStorage) PutObject(_ context.Context, key string, body io.Reader, size int64, contentType string) error {
	if key == "" {
		return errEmptyKey
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(body, size)); err != nil {
		return fmt.Errorf("failed to read object: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: buf.Bytes(), contentType: contentType}
	return nil
}

// PresignGet returns BaseURL/key. The URL is not signed.
func (m *MemoryObjectStorage) PresignGet(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", errEmptyKey
	}
	return url.JoinPath(m.BaseURL, key)
}

// DeleteObject removes the object. Missing keys are ignored.
func (m *MemoryObjectStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Object returns a stored object's bytes and content type
func (m *MemoryObjectStorage) Object(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj.data, obj.contentType, ok
}
