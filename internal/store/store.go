// Package store persists homogeneous record collections keyed by a string
// identifier. Records travel through the store in their persisted JSON form,
// so key comparison is always exact string equality on the stored key field.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when no record matches the requested key.
	ErrNotFound = errors.New("record not found")
	// ErrStorageUnavailable is returned when the backing storage cannot be
	// read or written.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidPatch is returned when a record or patch does not encode to a
	// JSON object.
	ErrInvalidPatch = errors.New("value must encode to a JSON object")
)

// TimestampLayout is the layout used for the updated field stamp.
const TimestampLayout = time.RFC3339Nano

// Store is the record-store contract shared by every backend.
type Store[R any] interface {
	// List returns every record in insertion order.
	List(ctx context.Context) ([]R, error)
	// Get returns the first record whose key equals key.
	Get(ctx context.Context, key string) (R, error)
	// Append adds rec verbatim and returns it as given. Duplicate keys are
	// not rejected.
	Append(ctx context.Context, rec R) (R, error)
	// Update merges the fields present in patch over the stored record,
	// keeps the original key and stamps Schema.UpdatedField with the
	// current time.
	Update(ctx context.Context, key string, patch any) (R, error)
	// Delete removes the first record whose key equals key.
	Delete(ctx context.Context, key string) error
}

// Pinger reports whether a backend can currently serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Schema describes one collection.
type Schema struct {
	// Name identifies the collection in logs and in shared backends.
	Name string
	// KeyField is the JSON field holding the record key.
	KeyField string
	// UpdatedField is stamped on every update. Empty disables stamping.
	UpdatedField string
}

type options struct {
	now func() time.Time
}

// Option configures a backend.
type Option func(*options)

// WithClock replaces time.Now for update stamping.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type document = map[string]any

// encode flattens v into its JSON object form.
func encode(v any) (document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}
	return decodeDocument(raw)
}

func decodeDocument(raw []byte) (document, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}
	if doc == nil {
		return nil, ErrInvalidPatch
	}
	return doc, nil
}

// decode re-parses a stored document into R.
func decode[R any](doc document) (R, error) {
	var rec R
	raw, err := json.Marshal(doc)
	if err != nil {
		return rec, fmt.Errorf("%w: encode record: %w", ErrStorageUnavailable, err)
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("%w: decode record: %w", ErrStorageUnavailable, err)
	}
	return rec, nil
}

// keyOf returns the stringified key of doc.
func keyOf(doc document, field string) string {
	switch v := doc[field].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// merge returns old with patch fields laid over it. The key field keeps its
// original value and the updated field is stamped with now.
func merge(old, patch document, schema Schema, now time.Time) document {
	merged := make(document, len(old)+len(patch)+1)
	for k, v := range old {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	merged[schema.KeyField] = old[schema.KeyField]
	if schema.UpdatedField != "" {
		merged[schema.UpdatedField] = now.UTC().Format(TimestampLayout)
	}
	return merged
}
