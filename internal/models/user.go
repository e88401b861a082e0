package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserKeyField is the key of the users collection.
const UserKeyField = "user_id"

// User is the typed view of a user record. Key holds user_id exactly as
// stored; it may differ from ID.String() in letter case.
type User struct {
	ID           uuid.UUID
	Key          string
	Email        string
	FirstName    string
	LastName     string
	BirthDate    *time.Time
	PasswordHash string
}

// UserRecord is the persisted form of a user; every value is a string.
type UserRecord struct {
	UserID       string  `json:"user_id"`
	Email        string  `json:"email"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	BirthDate    *string `json:"birth_date"`
	PasswordHash string  `json:"password_hash,omitempty"`
}

// UserPatch carries the persisted fields an update may change. Nil fields are
// omitted from the patch and keep their stored value.
type UserPatch struct {
	Email        *string `json:"email,omitempty"`
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	BirthDate    *string `json:"birth_date,omitempty"`
	PasswordHash *string `json:"password_hash,omitempty"`
}

func (u User) Record() UserRecord {
	return UserRecord{
		UserID:       keyOr(u.Key, u.ID),
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		BirthDate:    formatDate(u.BirthDate),
		PasswordHash: u.PasswordHash,
	}
}

// User parses the stored strings back into typed values.
func (r UserRecord) User() (User, error) {
	id, err := uuid.Parse(r.UserID)
	if err != nil {
		return User{}, fmt.Errorf("user %q: invalid user_id: %w", r.UserID, err)
	}
	birth, err := parseDate(r.BirthDate)
	if err != nil {
		return User{}, fmt.Errorf("user %q: %w", r.UserID, err)
	}
	return User{
		ID:           id,
		Key:          r.UserID,
		Email:        r.Email,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		BirthDate:    birth,
		PasswordHash: r.PasswordHash,
	}, nil
}

// keyOr returns key, or the canonical form of id when no stored key is known.
func keyOr(key string, id uuid.UUID) string {
	if key != "" {
		return key
	}
	return id.String()
}
