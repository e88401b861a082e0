package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// DocumentStore keeps a whole collection as one JSON array file and performs
// a full read-modify-write cycle on every operation.
//
// Operations on one DocumentStore are serialized by a mutex, and writes land
// in a temporary file that is renamed over the document, so a crash mid-write
// leaves either the old or the new array on disk. Two DocumentStores (or two
// processes) pointed at the same file still race.
type DocumentStore[R any] struct {
	mu     sync.Mutex
	path   string
	schema Schema
	opts   options
}

// NewDocumentStore returns a store backed by the JSON array at path. The
// parent directory is created if needed; the document itself is created by
// the first append.
func NewDocumentStore[R any](path string, schema Schema, opts ...Option) (*DocumentStore[R], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %w", ErrStorageUnavailable, err)
	}
	return &DocumentStore[R]{
		path:   path,
		schema: schema,
		opts:   buildOptions(opts),
	}, nil
}

// Path returns the document location.
func (s *DocumentStore[R]) Path() string {
	return s.path
}

func (s *DocumentStore[R]) List(ctx context.Context) ([]R, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, _, err := s.load()
	if err != nil {
		return nil, err
	}

	records := make([]R, 0, len(docs))
	for _, doc := range docs {
		rec, err := decode[R](doc)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *DocumentStore[R]) Get(ctx context.Context, key string) (R, error) {
	var zero R
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, _, err := s.load()
	if err != nil {
		return zero, err
	}
	i := s.index(docs, key)
	if i < 0 {
		return zero, ErrNotFound
	}
	return decode[R](docs[i])
}

func (s *DocumentStore[R]) Append(ctx context.Context, rec R) (R, error) {
	if err := ctx.Err(); err != nil {
		return rec, err
	}
	doc, err := encode(rec)
	if err != nil {
		return rec, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, _, err := s.load()
	if err != nil {
		return rec, err
	}
	docs = append(docs, doc)
	if err := s.save(docs); err != nil {
		return rec, err
	}
	return rec, nil
}

func (s *DocumentStore[R]) Update(ctx context.Context, key string, patch any) (R, error) {
	var zero R
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	patchDoc, err := encode(patch)
	if err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, exists, err := s.load()
	if err != nil {
		return zero, err
	}
	if !exists {
		return zero, ErrNotFound
	}
	i := s.index(docs, key)
	if i < 0 {
		return zero, ErrNotFound
	}

	docs[i] = merge(docs[i], patchDoc, s.schema, s.opts.now())
	if err := s.save(docs); err != nil {
		return zero, err
	}
	return decode[R](docs[i])
}

func (s *DocumentStore[R]) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, exists, err := s.load()
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	i := s.index(docs, key)
	if i < 0 {
		return ErrNotFound
	}

	kept := make([]document, 0, len(docs)-1)
	kept = append(kept, docs[:i]...)
	kept = append(kept, docs[i+1:]...)
	return s.save(kept)
}

// Ping checks that the document, if present, is a readable JSON array.
func (s *DocumentStore[R]) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _, err := s.load()
	return err
}

func (s *DocumentStore[R]) index(docs []document, key string) int {
	for i, doc := range docs {
		if keyOf(doc, s.schema.KeyField) == key {
			return i
		}
	}
	return -1
}

// load reads the whole document. A missing file reads as an empty array and
// reports exists=false.
func (s *DocumentStore[R]) load() (docs []document, exists bool, err error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: read %s: %w", ErrStorageUnavailable, s.path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&docs); err != nil {
		slog.Error("document is not a JSON array", "collection", s.schema.Name, "path", s.path, "error", err)
		return nil, true, fmt.Errorf("%w: parse %s: %w", ErrStorageUnavailable, s.path, err)
	}
	return docs, true, nil
}

// save writes docs to a temporary file and renames it over the document.
func (s *DocumentStore[R]) save(docs []document) error {
	if docs == nil {
		docs = []document{}
	}
	raw, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrStorageUnavailable, s.schema.Name, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStorageUnavailable, tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: replace %s: %w", ErrStorageUnavailable, s.path, err)
	}
	return nil
}
