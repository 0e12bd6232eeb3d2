// Package store persists whole JSON documents to disk. One Store owns one
// document; every mutation goes through a full load-modify-overwrite cycle
// guarded by the store's mutex.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Skotchmaster/shop_cli/internal/logging"
)

// Store reads and writes a single JSON document of type T. A missing or
// empty file reads as the zero value of T, so first-run bootstrap needs no
// special casing. Saves overwrite the whole document.
//
// The mutex makes read-modify-write cycles within one process serializable;
// concurrent processes writing the same file still race (last writer wins).
type Store[T any] struct {
	path string
	mu   sync.Mutex
}

func New[T any](path string) *Store[T] {
	return &Store[T]{path: path}
}

func (s *Store[T]) Path() string { return s.path }

// Load decodes the document. Absent or empty files yield the zero value.
func (s *Store[T]) Load(ctx context.Context) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save overwrites the document with v.
func (s *Store[T]) Save(ctx context.Context, v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, v)
}

// Update runs fn on the freshly loaded document and persists its result,
// all under the store mutex. Returning an error from fn aborts without
// writing. This is the transactional boundary for every mutation of a
// persisted collection.
func (s *Store[T]) Update(ctx context.Context, fn func(T) (T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.load(ctx)
	if err != nil {
		return err
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	return s.save(ctx, next)
}

// EnsureExists creates the document with the given initial value when the
// file is missing. Existing files are left untouched.
func (s *Store[T]) EnsureExists(ctx context.Context, initial T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}
	return s.save(ctx, initial)
}

func (s *Store[T]) load(ctx context.Context) (T, error) {
	var v T

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.FromContext(ctx).Debug("store_load_missing", "path", s.path)
			return v, nil
		}
		return v, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return v, nil
}

// save writes to a temp file in the same directory and renames it over the
// target, so a crash mid-write never leaves a truncated document behind.
func (s *Store[T]) save(ctx context.Context, v T) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}

	logging.FromContext(ctx).Debug("store_save", "path", s.path, "bytes", len(data))
	return nil
}
