package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/services"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/store"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/validate"
	"github.com/gofiber/fiber/v2"
)

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}

// respondError maps service and store errors to a status code and body.
func respondError(c *fiber.Ctx, collection string, err error) error {
	var verr *validate.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: "Validation failed", Details: verr.Fields,
		})
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: collection + " not found",
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, store.ErrStorageUnavailable):
		slog.Error("storage unavailable",
			"collection", collection,
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err.Error(),
		)
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Storage unavailable",
		})
	default:
		// Handled by the app-level error handler, which hides the details.
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// ErrorHandler is the app-level fallback. Details of 5xx errors are logged and
// never returned to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= 500 {
		slog.Error("unhandled server error",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"error", err.Error(),
		)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}
