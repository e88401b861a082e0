package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newGormNoteStore connects to TEST_DATABASE_DSN and gives each test its own
// collection name so runs do not interfere.
func newGormNoteStore(t *testing.T) *GormStore[note] {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&RecordRow{}))

	schema := noteSchema
	schema.Name = "notes-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		db.Where("collection = ?", schema.Name).Delete(&RecordRow{})
	})

	clock := &tickingClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewGormStore[note](db, schema, WithClock(clock.Now))
}

func TestGormStore_Scenario(t *testing.T) {
	ctx := context.Background()
	s := newGormNoteStore(t)

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = s.Append(ctx, note{ID: "a", Content: "hi"})
	require.NoError(t, err)
	_, err = s.Append(ctx, note{ID: "b", Content: "there"})
	require.NoError(t, err)

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Content)

	updated, err := s.Update(ctx, "a", notePatch{ID: strPtr("z"), Content: strPtr("bye")})
	require.NoError(t, err)
	assert.Equal(t, "a", updated.ID)
	assert.Equal(t, "bye", updated.Content)
	assert.NotNil(t, updated.UpdatedAt)

	all, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "a"), ErrNotFound)
	_, err = s.Update(ctx, "a", notePatch{})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, s.Ping(ctx))
}
