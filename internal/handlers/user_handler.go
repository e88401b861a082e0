package handlers

import (
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/models"
	"github.com/ahmetcoskunkizilkaya/twitter-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.userService.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, "User", err)
	}
	return c.Status(fiber.StatusCreated).JSON(userResponse(*user))
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.userService.Login(c.UserContext(), &req)
	if err != nil {
		return respondError(c, "User", err)
	}
	return c.JSON(userResponse(*user))
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.userService.List(c.UserContext())
	if err != nil {
		return respondError(c, "User", err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	return c.JSON(out)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	user, err := h.userService.Get(c.UserContext(), c.Params("user_id"))
	if err != nil {
		return respondError(c, "User", err)
	}
	return c.JSON(userResponse(*user))
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.userService.Update(c.UserContext(), c.Params("user_id"), &req)
	if err != nil {
		return respondError(c, "User", err)
	}
	return c.JSON(userResponse(*user))
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	if err := h.userService.Delete(c.UserContext(), c.Params("user_id")); err != nil {
		return respondError(c, "User", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func userResponse(u models.User) dto.UserResponse {
	rec := u.Record()
	return dto.UserResponse{
		UserID:    rec.UserID,
		Email:     rec.Email,
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		BirthDate: rec.BirthDate,
	}
}
