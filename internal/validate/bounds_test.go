package validate_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register() dto.RegisterRequest {
	return dto.RegisterRequest{
		UserID:    "ce4038a8-0a32-4e93-9112-1bb10f537a4b",
		Email:     "grace@example.com",
		Password:  "hopper-1906",
		FirstName: "Grace",
		LastName:  "Hopper",
	}
}

func tweet() dto.CreateTweetRequest {
	return dto.CreateTweetRequest{
		TweetID: "0b6e4f8e-3c1a-4d2b-9e7f-5a6b7c8d9e0f",
		Content: "hello",
		By: &dto.AuthorPayload{
			UserID:    "ce4038a8-0a32-4e93-9112-1bb10f537a4b",
			Email:     "grace@example.com",
			FirstName: "Grace",
			LastName:  "Hopper",
		},
	}
}

// failedRule returns the rule that failed on field, or "" when it passed.
func failedRule(t *testing.T, err error, field string) string {
	t.Helper()
	if err == nil {
		return ""
	}
	var verr *validate.ValidationError
	require.True(t, errors.As(err, &verr), "unexpected error %v", err)
	for _, f := range verr.Fields {
		if f.Field == field {
			return f.Rule
		}
	}
	return ""
}

func TestRegisterRequest_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		mutate func(*dto.RegisterRequest)
		rule   string
	}{
		{"password 7", "password", func(r *dto.RegisterRequest) { r.Password = strings.Repeat("p", 7) }, "min"},
		{"password 8", "password", func(r *dto.RegisterRequest) { r.Password = strings.Repeat("p", 8) }, ""},
		{"password 64", "password", func(r *dto.RegisterRequest) { r.Password = strings.Repeat("p", 64) }, ""},
		{"password 65", "password", func(r *dto.RegisterRequest) { r.Password = strings.Repeat("p", 65) }, "max"},
		{"password 64 two-byte", "password", func(r *dto.RegisterRequest) { r.Password = strings.Repeat("é", 64) }, ""},
		{"password 65 two-byte", "password", func(r *dto.RegisterRequest) { r.Password = strings.Repeat("é", 65) }, "max"},
		{"password 4 two-byte", "password", func(r *dto.RegisterRequest) { r.Password = strings.Repeat("é", 4) }, "min"},
		{"first name empty", "first_name", func(r *dto.RegisterRequest) { r.FirstName = "" }, "required"},
		{"first name 1", "first_name", func(r *dto.RegisterRequest) { r.FirstName = "G" }, ""},
		{"first name 50", "first_name", func(r *dto.RegisterRequest) { r.FirstName = strings.Repeat("g", 50) }, ""},
		{"first name 51", "first_name", func(r *dto.RegisterRequest) { r.FirstName = strings.Repeat("g", 51) }, "max"},
		{"last name 50 multi-byte", "last_name", func(r *dto.RegisterRequest) { r.LastName = strings.Repeat("ü", 50) }, ""},
		{"last name 51 multi-byte", "last_name", func(r *dto.RegisterRequest) { r.LastName = strings.Repeat("ü", 51) }, "max"},
		{"last name empty", "last_name", func(r *dto.RegisterRequest) { r.LastName = "" }, "required"},
		{"user id upper case", "user_id", func(r *dto.RegisterRequest) { r.UserID = strings.ToUpper(r.UserID) }, ""},
		{"user id without hyphens", "user_id", func(r *dto.RegisterRequest) { r.UserID = strings.ReplaceAll(r.UserID, "-", "") }, validate.RuleUUID},
		{"email invalid", "email", func(r *dto.RegisterRequest) { r.Email = "grace" }, "email"},
		{"birth date valid", "birth_date", func(r *dto.RegisterRequest) { d := "1906-12-09"; r.BirthDate = &d }, ""},
		{"birth date invalid", "birth_date", func(r *dto.RegisterRequest) { d := "09/12/1906"; r.BirthDate = &d }, "datetime"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := register()
			tt.mutate(&req)
			assert.Equal(t, tt.rule, failedRule(t, validate.Struct(req), tt.field))
		})
	}
}

func TestUpdateUserRequest_Bounds(t *testing.T) {
	short := strings.Repeat("p", 7)
	long := strings.Repeat("é", 64)
	empty := ""

	assert.NoError(t, validate.Struct(dto.UpdateUserRequest{}))
	assert.NoError(t, validate.Struct(dto.UpdateUserRequest{Password: &long}))
	assert.Equal(t, "min", failedRule(t, validate.Struct(dto.UpdateUserRequest{Password: &short}), "password"))
	assert.Equal(t, "min", failedRule(t, validate.Struct(dto.UpdateUserRequest{FirstName: &empty}), "first_name"))
}

func TestCreateTweetRequest_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		mutate func(*dto.CreateTweetRequest)
		rule   string
	}{
		{"content empty", "content", func(r *dto.CreateTweetRequest) { r.Content = "" }, "required"},
		{"content 1", "content", func(r *dto.CreateTweetRequest) { r.Content = "x" }, ""},
		{"content 256", "content", func(r *dto.CreateTweetRequest) { r.Content = strings.Repeat("x", 256) }, ""},
		{"content 257", "content", func(r *dto.CreateTweetRequest) { r.Content = strings.Repeat("x", 257) }, "max"},
		{"content 256 multi-byte", "content", func(r *dto.CreateTweetRequest) { r.Content = strings.Repeat("日", 256) }, ""},
		{"content 257 multi-byte", "content", func(r *dto.CreateTweetRequest) { r.Content = strings.Repeat("日", 257) }, "max"},
		{"tweet id upper case", "tweet_id", func(r *dto.CreateTweetRequest) { r.TweetID = strings.ToUpper(r.TweetID) }, ""},
		{"tweet id invalid", "tweet_id", func(r *dto.CreateTweetRequest) { r.TweetID = "tweet-1" }, validate.RuleUUID},
		{"created_at offset", "created_at", func(r *dto.CreateTweetRequest) { s := "2024-03-01T12:30:00+02:00"; r.CreatedAt = &s }, ""},
		{"created_at naive", "created_at", func(r *dto.CreateTweetRequest) { s := "2024-03-01T12:30:00"; r.CreatedAt = &s }, ""},
		{"created_at fractional", "created_at", func(r *dto.CreateTweetRequest) { s := "2024-03-01T12:30:00.123456"; r.CreatedAt = &s }, ""},
		{"created_at invalid", "created_at", func(r *dto.CreateTweetRequest) { s := "yesterday"; r.CreatedAt = &s }, validate.RuleTimestamp},
		{"author name 51", "by.first_name", func(r *dto.CreateTweetRequest) { r.By.FirstName = strings.Repeat("a", 51) }, "max"},
		{"author id upper case", "by.user_id", func(r *dto.CreateTweetRequest) { r.By.UserID = strings.ToUpper(r.By.UserID) }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tweet()
			tt.mutate(&req)
			assert.Equal(t, tt.rule, failedRule(t, validate.Struct(req), tt.field))
		})
	}
}

func TestUpdateTweetRequest_Bounds(t *testing.T) {
	assert.NoError(t, validate.Struct(dto.UpdateTweetRequest{Content: strings.Repeat("x", 256)}))
	assert.Equal(t, "max", failedRule(t, validate.Struct(dto.UpdateTweetRequest{Content: strings.Repeat("x", 257)}), "content"))
	assert.Equal(t, "required", failedRule(t, validate.Struct(dto.UpdateTweetRequest{}), "content"))
}

func TestTimestampMessage(t *testing.T) {
	req := tweet()
	bad := "yesterday"
	req.CreatedAt = &bad

	var verr *validate.ValidationError
	require.ErrorAs(t, validate.Struct(req), &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "invalid datetime format, expected ISO-8601", verr.Fields[0].Message)
}
