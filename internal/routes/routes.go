package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/config"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/handlers"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	userHandler *handlers.UserHandler,
	tweetHandler *handlers.TweetHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/", healthHandler.Home)

	api := app.Group("/api")

	// Per-IP sliding window across the whole API
	api.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimitPerMin,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: true, Message: "Too many requests",
			})
		},
	}))

	api.Get("/health", healthHandler.Check)

	// Users
	users := api.Group("/users")
	users.Post("/signup", userHandler.Register)
	users.Post("/login", userHandler.Login)
	users.Get("/", userHandler.List)
	users.Get("/:user_id", userHandler.Get)
	users.Put("/:user_id", userHandler.Update)
	users.Delete("/:user_id", userHandler.Delete)

	// Tweets
	tweets := api.Group("/tweets")
	tweets.Get("/", tweetHandler.List)
	tweets.Post("/", tweetHandler.Create)
	tweets.Get("/:tweet_id", tweetHandler.Get)
	tweets.Put("/:tweet_id", tweetHandler.Update)
	tweets.Delete("/:tweet_id", tweetHandler.Delete)
}
