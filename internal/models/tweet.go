package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	TweetKeyField     = "tweet_id"
	TweetUpdatedField = "updated_at"
)

// AuthorSnapshot is a by-value copy of the author taken when the tweet was
// created. Later edits or deletion of the user do not reach it.
type AuthorSnapshot struct {
	UserID    uuid.UUID
	Key       string
	Email     string
	FirstName string
	LastName  string
	BirthDate *time.Time
}

// Tweet is the typed view of a tweet record. Key holds tweet_id exactly as
// stored.
type Tweet struct {
	ID        uuid.UUID
	Key       string
	Content   string
	CreatedAt time.Time
	UpdatedAt *time.Time
	By        AuthorSnapshot
}

type AuthorRecord struct {
	UserID    string  `json:"user_id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	BirthDate *string `json:"birth_date"`
}

// TweetRecord is the persisted form of a tweet.
type TweetRecord struct {
	TweetID   string       `json:"tweet_id"`
	Content   string       `json:"content"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt *string      `json:"updated_at"`
	By        AuthorRecord `json:"by"`
}

// TweetPatch only reaches content; created_at and the author snapshot are
// fixed at creation.
type TweetPatch struct {
	Content *string `json:"content,omitempty"`
}

// SnapshotOf copies the public fields of u.
func SnapshotOf(u User) AuthorSnapshot {
	return AuthorSnapshot{
		UserID:    u.ID,
		Key:       u.Key,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		BirthDate: u.BirthDate,
	}
}

func (a AuthorSnapshot) Record() AuthorRecord {
	return AuthorRecord{
		UserID:    keyOr(a.Key, a.UserID),
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		BirthDate: formatDate(a.BirthDate),
	}
}

func (r AuthorRecord) Snapshot() (AuthorSnapshot, error) {
	id, err := uuid.Parse(r.UserID)
	if err != nil {
		return AuthorSnapshot{}, fmt.Errorf("author %q: invalid user_id: %w", r.UserID, err)
	}
	birth, err := parseDate(r.BirthDate)
	if err != nil {
		return AuthorSnapshot{}, fmt.Errorf("author %q: %w", r.UserID, err)
	}
	return AuthorSnapshot{
		UserID:    id,
		Key:       r.UserID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		BirthDate: birth,
	}, nil
}

func (t Tweet) Record() TweetRecord {
	var updated *string
	if t.UpdatedAt != nil {
		s := FormatTimestamp(*t.UpdatedAt)
		updated = &s
	}
	return TweetRecord{
		TweetID:   keyOr(t.Key, t.ID),
		Content:   t.Content,
		CreatedAt: FormatTimestamp(t.CreatedAt),
		UpdatedAt: updated,
		By:        t.By.Record(),
	}
}

func (r TweetRecord) Tweet() (Tweet, error) {
	id, err := uuid.Parse(r.TweetID)
	if err != nil {
		return Tweet{}, fmt.Errorf("tweet %q: invalid tweet_id: %w", r.TweetID, err)
	}
	created, err := ParseTimestamp(r.CreatedAt)
	if err != nil {
		return Tweet{}, fmt.Errorf("tweet %q: created_at: %w", r.TweetID, err)
	}
	var updated *time.Time
	if r.UpdatedAt != nil && *r.UpdatedAt != "" {
		u, err := ParseTimestamp(*r.UpdatedAt)
		if err != nil {
			return Tweet{}, fmt.Errorf("tweet %q: updated_at: %w", r.TweetID, err)
		}
		updated = &u
	}
	by, err := r.By.Snapshot()
	if err != nil {
		return Tweet{}, fmt.Errorf("tweet %q: %w", r.TweetID, err)
	}
	return Tweet{
		ID:        id,
		Key:       r.TweetID,
		Content:   r.Content,
		CreatedAt: created,
		UpdatedAt: updated,
		By:        by,
	}, nil
}
