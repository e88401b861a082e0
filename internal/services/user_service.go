package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/store"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/validate"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid user, email or password")

// UsersSchema describes the users collection. Users carry no update stamp.
var UsersSchema = store.Schema{Name: "users", KeyField: models.UserKeyField}

type UserService struct {
	users store.Store[models.UserRecord]
	cost  int
}

func NewUserService(users store.Store[models.UserRecord]) *UserService {
	return &UserService{users: users, cost: bcrypt.DefaultCost}
}

// Register validates req, hashes the password and appends the user. The
// email is not checked for uniqueness and the caller-supplied user_id is not
// checked for duplicates.
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("parse user_id: %w", err)
	}
	hash, err := hashPassword(req.Password, s.cost)
	if err != nil {
		return nil, err
	}

	rec := models.UserRecord{
		UserID:       req.UserID,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		BirthDate:    req.BirthDate,
		PasswordHash: hash,
	}
	if _, err := s.users.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	slog.Info("user registered", "user_id", id.String())

	return toUser(rec)
}

// Login checks the credentials against the stored hash. It issues no token
// or session.
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*models.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	rec, err := s.users.Get(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !strings.EqualFold(rec.Email, req.Email) || rec.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := checkPassword(rec.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return toUser(rec)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	recs, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(recs))
	for _, rec := range recs {
		u, err := toUser(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	if err := validate.ID(models.UserKeyField, userID); err != nil {
		return nil, err
	}
	rec, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUser(rec)
}

// Update merges the non-nil fields of req over the stored user. A new
// password is re-hashed before it is stored.
func (s *UserService) Update(ctx context.Context, userID string, req *dto.UpdateUserRequest) (*models.User, error) {
	if err := validate.ID(models.UserKeyField, userID); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	patch := models.UserPatch{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
	}
	if req.Password != nil {
		hash, err := hashPassword(*req.Password, s.cost)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	rec, err := s.users.Update(ctx, userID, patch)
	if err != nil {
		return nil, err
	}
	return toUser(rec)
}

func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := validate.ID(models.UserKeyField, userID); err != nil {
		return err
	}
	return s.users.Delete(ctx, userID)
}

// bcrypt only reads the first 72 bytes and rejects longer input, while a
// valid password may be 64 multi-byte characters. Passwords are therefore
// digested to a fixed 44-byte string before hashing and checking.
func digestPassword(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(digestPassword(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), digestPassword(password))
}

// toUser parses a stored record. A record that no longer parses means the
// document was edited by hand and is reported as a storage problem.
func toUser(rec models.UserRecord) (*models.User, error) {
	u, err := rec.User()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrStorageUnavailable, err)
	}
	return &u, nil
}
