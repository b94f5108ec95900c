package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"civicwatch/internal/middleware"
	"civicwatch/internal/service/notification"
)

type NotificationHandler struct {
	notificationService notification.Service
}

func NewNotificationHandler(notificationService notification.Service) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)
	unreadOnly := c.QueryBool("unread_only")

	result, err := h.notificationService.List(c.Context(), middleware.GetCurrentUserID(c), unreadOnly, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.notificationService.UnreadCount(c.Context(), middleware.GetCurrentUserID(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"unread_count": count,
	})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	if err := h.notificationService.MarkRead(c.Context(), id, middleware.GetCurrentUserID(c)); err != nil {
		switch err {
		case notification.ErrNotFound:
			return middleware.NotFound("Notification not found")
		case notification.ErrForbidden:
			return middleware.Forbidden("You can only read your own notifications")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Notification marked as read",
	})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkAllRead(c.Context(), middleware.GetCurrentUserID(c)); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "All notifications marked as read",
	})
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid notification ID")
	}

	if err := h.notificationService.Delete(c.Context(), id, middleware.GetCurrentUserID(c)); err != nil {
		switch err {
		case notification.ErrNotFound:
			return middleware.NotFound("Notification not found")
		case notification.ErrForbidden:
			return middleware.Forbidden("You can only delete your own notifications")
		}
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
