// Package fs provides a dao.Service backed by any viant/afs storage (local
// files, mem://, cloud buckets). Every record is one JSON file named after its
// key under the store's base URL.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/courtside/service/dao"
)

// Store implements a filesystem-based record storage
type Store[K comparable, T any] struct {
	baseURL     string
	fs          afs.Service
	keySelector func(*T) K
	mu          sync.RWMutex
}

var _ dao.Service[string, struct{}] = (*Store[string, struct{}])(nil)

// Save persists a record to the filesystem
func (s *Store[K, T]) Save(ctx context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	if isZero(key) {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	URL := s.recordURL(key)
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save record to %s: %w", URL, err)
	}
	return nil
}

// Load retrieves a record from the filesystem
func (s *Store[K, T]) Load(ctx context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	URL := s.recordURL(key)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check if record exists: %w", err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}
	var ret T
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record %s: %w", URL, err)
	}
	return &ret, nil
}

// Delete removes a record from the filesystem
func (s *Store[K, T]) Delete(ctx context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	URL := s.recordURL(key)
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to check if record exists: %w", err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	if err := s.fs.Delete(ctx, URL); err != nil {
		return fmt.Errorf("failed to delete record file: %w", err)
	}
	return nil
}

// List returns all records stored under the base URL
func (s *Store[K, T]) List(ctx context.Context) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to list record files: %w", err)
	}
	var ret []*T
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			log.Printf("[fs] failed to read %s: %v", object.URL(), err)
			continue
		}
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			log.Printf("[fs] failed to unmarshal %s: %v", object.URL(), err)
			continue
		}
		ret = append(ret, &item)
	}
	return ret, nil
}

func (s *Store[K, T]) recordURL(key K) string {
	return url.Join(s.baseURL, fmt.Sprintf("%v.json", key))
}

func isZero[K comparable](key K) bool {
	var zero K
	return key == zero
}

// New creates a store rooted at baseURL, creating the location when missing.
// Relative paths are resolved against the local file system.
func New[K comparable, T any](ctx context.Context, fs afs.Service, baseURL string, keySelector func(*T) K) (*Store[K, T], error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	if fs == nil {
		fs = afs.New()
	}
	baseURL = url.Normalize(baseURL, file.Scheme)
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory %s: %w", baseURL, err)
		}
	}
	return &Store[K, T]{
		baseURL:     strings.TrimRight(baseURL, "/"),
		fs:          fs,
		keySelector: keySelector,
	}, nil
}

// Namespace returns baseURL joined with the location and collection names.
func Namespace(baseURL string, elements ...string) string {
	return strings.TrimRight(baseURL, "/") + "/" + path.Join(elements...)
}
