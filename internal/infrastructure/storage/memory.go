// Package storage provides object storage implementations for job attachments.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	attachmentapp "github.com/bos/backend/internal/application/attachment"
)

// Ensure MemoryObjectStorage implements ObjectStorageService
var _ attachmentapp.ObjectStorageService = (*MemoryObjectStorage)(nil)

type memoryObject struct {
	data        []byte
	contentType string
}

// MemoryObjectStorage keeps uploaded objects in a map. It backs development
// runs without a storage backend and the handler/integration tests, where a
// no-op fake would hide truncated or lost uploads.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject

	// BaseURL is the base URL for generated download URLs
	BaseURL string
}

// NewMemoryObjectStorage creates an empty in-memory object store
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		objects: make(map[string]memoryObject),
		BaseURL: "https://storage.local",
	}
}

// Upload reads the body into memory. The declared size must match the bytes
// actually read, mirroring how S3 rejects a short body against ContentLength.
func (s *MemoryObjectStorage) Upload(ctx context.Context, storageKey, contentType string, body io.Reader, size int64) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	if body == nil {
		return errors.New("upload body is required")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read upload body: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("upload size mismatch: declared %d bytes, read %d", size, len(data))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[storageKey] = memoryObject{data: data, contentType: contentType}
	return nil
}

// GenerateDownloadURL returns a synthetic URL. No existence check is done,
// matching S3 presigning which signs without touching the object.
func (s *MemoryObjectStorage) GenerateDownloadURL(
	ctx context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)
	return url, expiresAt, nil
}

// DeleteObject removes an object. Deleting a missing key succeeds, as S3 does.
func (s *MemoryObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

// ObjectExists checks whether an object was stored under the key
func (s *MemoryObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

// GetObject returns the stored bytes and content type for assertions in tests
func (s *MemoryObjectStorage) GetObject(storageKey string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[storageKey]
	if !ok {
		return nil, "", false
	}
	return obj.data, obj.contentType, true
}

// Len returns the number of stored objects
func (s *MemoryObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
