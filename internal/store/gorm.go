package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordRow is one stored record in the shared records table. The
// auto-increment ID preserves insertion order.
type RecordRow struct {
	ID         uint64         `gorm:"primaryKey;autoIncrement"`
	Collection string         `gorm:"size:50;not null;index:idx_records_collection_key"`
	RecordKey  string         `gorm:"size:255;not null;index:idx_records_collection_key"`
	Body       datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (RecordRow) TableName() string { return "records" }

// GormStore keeps a collection as rows of the records table. Every mutation
// runs in its own transaction with the target row locked.
type GormStore[R any] struct {
	db     *gorm.DB
	schema Schema
	opts   options
}

func NewGormStore[R any](db *gorm.DB, schema Schema, opts ...Option) *GormStore[R] {
	return &GormStore[R]{
		db:     db,
		schema: schema,
		opts:   buildOptions(opts),
	}
}

func (s *GormStore[R]) List(ctx context.Context) ([]R, error) {
	var rows []RecordRow
	if err := s.db.WithContext(ctx).
		Where("collection = ?", s.schema.Name).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, unavailable(err)
	}

	records := make([]R, 0, len(rows))
	for _, row := range rows {
		rec, err := s.decodeRow(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *GormStore[R]) Get(ctx context.Context, key string) (R, error) {
	var zero R
	row, err := s.first(s.db.WithContext(ctx), key, false)
	if err != nil {
		return zero, err
	}
	return s.decodeRow(row)
}

func (s *GormStore[R]) Append(ctx context.Context, rec R) (R, error) {
	doc, err := encode(rec)
	if err != nil {
		return rec, err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return rec, fmt.Errorf("%w: %w", ErrInvalidPatch, err)
	}

	row := RecordRow{
		Collection: s.schema.Name,
		RecordKey:  keyOf(doc, s.schema.KeyField),
		Body:       datatypes.JSON(body),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return rec, unavailable(err)
	}
	return rec, nil
}

func (s *GormStore[R]) Update(ctx context.Context, key string, patch any) (R, error) {
	var zero R
	patchDoc, err := encode(patch)
	if err != nil {
		return zero, err
	}

	var merged document
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.first(tx, key, true)
		if err != nil {
			return err
		}
		old, err := decodeDocument(row.Body)
		if err != nil {
			return fmt.Errorf("%w: stored body: %w", ErrStorageUnavailable, err)
		}

		merged = merge(old, patchDoc, s.schema, s.opts.now())
		body, err := json.Marshal(merged)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidPatch, err)
		}
		if err := tx.Model(&row).Update("body", datatypes.JSON(body)).Error; err != nil {
			return unavailable(err)
		}
		return nil
	})
	if err != nil {
		return zero, err
	}
	return decode[R](merged)
}

func (s *GormStore[R]) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.first(tx, key, true)
		if err != nil {
			return err
		}
		if err := tx.Delete(&RecordRow{}, row.ID).Error; err != nil {
			return unavailable(err)
		}
		return nil
	})
}

func (s *GormStore[R]) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return unavailable(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

func (s *GormStore[R]) first(tx *gorm.DB, key string, lock bool) (RecordRow, error) {
	var row RecordRow
	q := tx.Where("collection = ? AND record_key = ?", s.schema.Name, key).Order("id")
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return row, ErrNotFound
		}
		return row, unavailable(err)
	}
	return row, nil
}

func (s *GormStore[R]) decodeRow(row RecordRow) (R, error) {
	var zero R
	doc, err := decodeDocument(row.Body)
	if err != nil {
		return zero, fmt.Errorf("%w: row %d: %w", ErrStorageUnavailable, row.ID, err)
	}
	return decode[R](doc)
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
