package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"civicwatch/internal/domain"
	"civicwatch/internal/middleware"
	"civicwatch/internal/service/status"
)

type StatusHandler struct {
	statusService status.Service
}

func NewStatusHandler(statusService status.Service) *StatusHandler {
	return &StatusHandler{statusService: statusService}
}

func (h *StatusHandler) Update(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return middleware.BadRequest("Invalid post ID")
	}

	var input domain.UpdateStatusInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	record, err := h.statusService.Set(c.Context(), postID, input.Status, middleware.GetCurrentUserID(c))
	if err != nil {
		switch err {
		case status.ErrPostNotFound:
			return middleware.NotFound("Post not found")
		case status.ErrInvalidStatus:
			return middleware.BadRequest("Invalid status value")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(record)
}

func (h *StatusHandler) Get(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return middleware.BadRequest("Invalid post ID")
	}

	record, err := h.statusService.Get(c.Context(), postID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(record)
}
