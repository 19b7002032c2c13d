// Package memory provides an in-memory Storage implementation for
// development and tests.
package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/espengetz/brandprotocol/internal/storage"
)

// Storage is an in-memory object store.
type Storage struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
}

type object struct {
	data        []byte
	contentType string
}

// New creates an empty in-memory store. Returned URLs are prefixed with
// baseURL.
func New(baseURL string) *Storage {
	if baseURL == "" {
		baseURL = "memory://objects"
	}
	return &Storage{
		objects: make(map[string]object),
		baseURL: baseURL,
	}
}

// Upload stores an object in memory.
func (s *Storage) Upload(_ context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	data, err := io.ReadAll(input.Data)
	if err != nil {
		return nil, fmt.Errorf("read upload data: %w", err)
	}

	s.mu.Lock()
	s.objects[input.Key] = object{data: data, contentType: input.ContentType}
	s.mu.Unlock()

	return &storage.UploadResult{
		Key: input.Key,
		URL: s.baseURL + "/" + input.Key,
	}, nil
}

// Delete removes an object.
func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("object %s not found", key)
	}
	delete(s.objects, key)
	return nil
}

// GetURL returns the public URL for a key.
func (s *Storage) GetURL(_ context.Context, key string) (string, error) {
	return s.baseURL + "/" + key, nil
}

// Get returns a stored object's bytes and content type. Test helper.
func (s *Storage) Get(key string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj.data, obj.contentType, ok
}

// Len returns the number of stored objects. Test helper.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
