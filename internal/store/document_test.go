package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID        string  `json:"id"`
	Content   string  `json:"content"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

type notePatch struct {
	ID      *string `json:"id,omitempty"`
	Content *string `json:"content,omitempty"`
}

var noteSchema = Schema{Name: "notes", KeyField: "id", UpdatedField: "updated_at"}

type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newNoteStore(t *testing.T) (*DocumentStore[note], *tickingClock) {
	t.Helper()
	clock := &tickingClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	s, err := NewDocumentStore[note](filepath.Join(t.TempDir(), "notes.json"), noteSchema, WithClock(clock.Now))
	require.NoError(t, err)
	return s, clock
}

func strPtr(s string) *string { return &s }

func TestDocumentStore_Scenario(t *testing.T) {
	ctx := context.Background()
	s, _ := newNoteStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("[]"), 0o644))

	got, err := s.Append(ctx, note{ID: "a", Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, note{ID: "a", Content: "hi"}, got)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []note{{ID: "a", Content: "hi"}}, all)

	got, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, note{ID: "a", Content: "hi"}, got)

	updated, err := s.Update(ctx, "a", notePatch{Content: strPtr("bye")})
	require.NoError(t, err)
	assert.Equal(t, "a", updated.ID)
	assert.Equal(t, "bye", updated.Content)
	require.NotNil(t, updated.UpdatedAt)

	require.NoError(t, s.Delete(ctx, "a"))
	all, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentStore_ListPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newNoteStore(t)

	for _, id := range []string{"c", "a", "b"} {
		_, err := s.Append(ctx, note{ID: id, Content: id})
		require.NoError(t, err)
	}

	first, err := s.List(ctx)
	require.NoError(t, err)
	second, err := s.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, "c", first[0].ID)
	assert.Equal(t, "a", first[1].ID)
	assert.Equal(t, "b", first[2].ID)
}

func TestDocumentStore_UpdateKeepsKeyAndAdvancesStamp(t *testing.T) {
	ctx := context.Background()
	s, _ := newNoteStore(t)
	_, err := s.Append(ctx, note{ID: "k", Content: "one"})
	require.NoError(t, err)

	first, err := s.Update(ctx, "k", notePatch{ID: strPtr("other"), Content: strPtr("two")})
	require.NoError(t, err)
	assert.Equal(t, "k", first.ID)
	assert.Equal(t, "two", first.Content)

	second, err := s.Update(ctx, "k", notePatch{})
	require.NoError(t, err)
	assert.Equal(t, "two", second.Content, "absent patch fields keep old values")

	t1, err := time.Parse(TimestampLayout, *first.UpdatedAt)
	require.NoError(t, err)
	t2, err := time.Parse(TimestampLayout, *second.UpdatedAt)
	require.NoError(t, err)
	assert.True(t, t2.After(t1))

	_, err = s.Get(ctx, "other")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentStore_UpdateKeepsUnknownFields(t *testing.T) {
	ctx := context.Background()
	s, _ := newNoteStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte(`[{"id":"x","content":"c","extra":"kept"}]`), 0o644))

	_, err := s.Update(ctx, "x", notePatch{Content: strPtr("d")})
	require.NoError(t, err)

	raw, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"extra": "kept"`)
}

func TestDocumentStore_DeleteRemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	s, _ := newNoteStore(t)
	for _, id := range []string{"a", "b", "a"} {
		_, err := s.Append(ctx, note{ID: id, Content: id})
		require.NoError(t, err)
	}

	require.NoError(t, s.Delete(ctx, "a"))
	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, "a", all[1].ID)

	err = s.Delete(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	after, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, after)
}

func TestDocumentStore_MissingDocument(t *testing.T) {
	ctx := context.Background()
	s, _ := newNoteStore(t)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Update(ctx, "a", notePatch{Content: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "a"), ErrNotFound)

	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "reads and misses must not create the document")
}

func TestDocumentStore_EmptyArray(t *testing.T) {
	ctx := context.Background()
	s, _ := newNoteStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("[]"), 0o644))

	_, err := s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Update(ctx, "a", notePatch{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "a"), ErrNotFound)
}

func TestDocumentStore_KeyIsExactString(t *testing.T) {
	ctx := context.Background()
	s, _ := newNoteStore(t)
	_, err := s.Append(ctx, note{ID: "3f1c2b9e-0000-4000-8000-00000000abcd", Content: "x"})
	require.NoError(t, err)

	_, err = s.Get(ctx, "3F1C2B9E-0000-4000-8000-00000000ABCD")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentStore_CorruptDocument(t *testing.T) {
	ctx := context.Background()
	s, _ := newNoteStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte(`[{"id":"a"`), 0o644))

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	_, err = s.Append(ctx, note{ID: "b"})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, s.Ping(ctx), ErrStorageUnavailable)
}

func TestDocumentStore_NonObjectPatch(t *testing.T) {
	ctx := context.Background()
	s, _ := newNoteStore(t)
	_, err := s.Append(ctx, note{ID: "a"})
	require.NoError(t, err)

	_, err = s.Update(ctx, "a", []string{"nope"})
	assert.ErrorIs(t, err, ErrInvalidPatch)
}

func TestDocumentStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s, _ := newNoteStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Append(ctx, note{ID: fmt.Sprintf("n%d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestDocumentStore_CanceledContext(t *testing.T) {
	s, _ := newNoteStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
