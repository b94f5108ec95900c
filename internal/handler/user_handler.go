package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"civicwatch/internal/domain"
	"civicwatch/internal/middleware"
	"civicwatch/internal/service/user"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid user ID")
	}

	u, err := h.userService.GetByID(c.Context(), id)
	if err != nil {
		if err == user.ErrNotFound {
			return middleware.NotFound("User not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(u)
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid user ID")
	}

	var input domain.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	u, err := h.userService.Update(c.Context(), id, middleware.GetCurrentUserID(c), input)
	if err != nil {
		switch err {
		case user.ErrNotFound:
			return middleware.NotFound("User not found")
		case user.ErrForbidden:
			return middleware.Forbidden("You can only update your own profile")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(u)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid user ID")
	}

	err = h.userService.Delete(c.Context(), id, middleware.GetCurrentUserID(c), middleware.IsAdmin(c))
	if err != nil {
		switch err {
		case user.ErrNotFound:
			return middleware.NotFound("User not found")
		case user.ErrForbidden:
			return middleware.Forbidden("You can only delete your own account")
		}
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	result, err := h.userService.List(c.Context(), params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
