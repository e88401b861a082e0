package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/store"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/validate"
	"github.com/google/uuid"
)

// TweetsSchema describes the tweets collection; updates stamp updated_at.
var TweetsSchema = store.Schema{
	Name:         "tweets",
	KeyField:     models.TweetKeyField,
	UpdatedField: models.TweetUpdatedField,
}

type TweetService struct {
	tweets store.Store[models.TweetRecord]
	now    func() time.Time
}

func NewTweetService(tweets store.Store[models.TweetRecord]) *TweetService {
	return &TweetService{tweets: tweets, now: time.Now}
}

// Create stores a tweet with the author snapshot taken from the request.
// created_at defaults to now and is never changed afterwards.
func (s *TweetService) Create(ctx context.Context, req *dto.CreateTweetRequest) (*models.Tweet, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	author := models.AuthorRecord{
		UserID:    req.By.UserID,
		Email:     req.By.Email,
		FirstName: req.By.FirstName,
		LastName:  req.By.LastName,
		BirthDate: req.By.BirthDate,
	}
	if _, err := author.Snapshot(); err != nil {
		return nil, fmt.Errorf("parse author: %w", err)
	}

	created := s.now()
	if req.CreatedAt != nil && *req.CreatedAt != "" {
		t, err := models.ParseTimestamp(*req.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		created = t
	}
	if _, err := uuid.Parse(req.TweetID); err != nil {
		return nil, fmt.Errorf("parse tweet_id: %w", err)
	}

	rec := models.TweetRecord{
		TweetID:   req.TweetID,
		Content:   req.Content,
		CreatedAt: models.FormatTimestamp(created),
		By:        author,
	}
	if _, err := s.tweets.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create tweet: %w", err)
	}
	return toTweet(rec)
}

func (s *TweetService) List(ctx context.Context) ([]models.Tweet, error) {
	recs, err := s.tweets.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Tweet, 0, len(recs))
	for _, rec := range recs {
		t, err := toTweet(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

func (s *TweetService) Get(ctx context.Context, tweetID string) (*models.Tweet, error) {
	if err := validate.ID(models.TweetKeyField, tweetID); err != nil {
		return nil, err
	}
	rec, err := s.tweets.Get(ctx, tweetID)
	if err != nil {
		return nil, err
	}
	return toTweet(rec)
}

func (s *TweetService) Update(ctx context.Context, tweetID string, req *dto.UpdateTweetRequest) (*models.Tweet, error) {
	if err := validate.ID(models.TweetKeyField, tweetID); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	rec, err := s.tweets.Update(ctx, tweetID, models.TweetPatch{Content: &req.Content})
	if err != nil {
		return nil, err
	}
	return toTweet(rec)
}

func (s *TweetService) Delete(ctx context.Context, tweetID string) error {
	if err := validate.ID(models.TweetKeyField, tweetID); err != nil {
		return err
	}
	return s.tweets.Delete(ctx, tweetID)
}

func toTweet(rec models.TweetRecord) (*models.Tweet, error) {
	t, err := rec.Tweet()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrStorageUnavailable, err)
	}
	return &t, nil
}
