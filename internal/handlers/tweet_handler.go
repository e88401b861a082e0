package handlers

import (
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type TweetHandler struct {
	tweetService *services.TweetService
}

func NewTweetHandler(tweetService *services.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

func (h *TweetHandler) List(c *fiber.Ctx) error {
	tweets, err := h.tweetService.List(c.UserContext())
	if err != nil {
		return respondError(c, "Tweet", err)
	}
	out := make([]dto.TweetResponse, 0, len(tweets))
	for _, t := range tweets {
		out = append(out, tweetResponse(t))
	}
	return c.JSON(out)
}

func (h *TweetHandler) Get(c *fiber.Ctx) error {
	tweet, err := h.tweetService.Get(c.UserContext(), c.Params("tweet_id"))
	if err != nil {
		return respondError(c, "Tweet", err)
	}
	return c.JSON(tweetResponse(*tweet))
}

func (h *TweetHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTweetRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	tweet, err := h.tweetService.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, "Tweet", err)
	}
	return c.Status(fiber.StatusCreated).JSON(tweetResponse(*tweet))
}

func (h *TweetHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTweetRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	tweet, err := h.tweetService.Update(c.UserContext(), c.Params("tweet_id"), &req)
	if err != nil {
		return respondError(c, "Tweet", err)
	}
	return c.JSON(tweetResponse(*tweet))
}

func (h *TweetHandler) Delete(c *fiber.Ctx) error {
	if err := h.tweetService.Delete(c.UserContext(), c.Params("tweet_id")); err != nil {
		return respondError(c, "Tweet", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func tweetResponse(t models.Tweet) dto.TweetResponse {
	rec := t.Record()
	return dto.TweetResponse{
		TweetID:   rec.TweetID,
		Content:   rec.Content,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		By: dto.UserResponse{
			UserID:    rec.By.UserID,
			Email:     rec.By.Email,
			FirstName: rec.By.FirstName,
			LastName:  rec.By.LastName,
			BirthDate: rec.By.BirthDate,
		},
	}
}
