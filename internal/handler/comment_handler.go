package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"civicwatch/internal/domain"
	"civicwatch/internal/middleware"
	"civicwatch/internal/service/social"
)

type CommentHandler struct {
	socialService social.Service
}

func NewCommentHandler(socialService social.Service) *CommentHandler {
	return &CommentHandler{socialService: socialService}
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return middleware.BadRequest("Invalid post ID")
	}

	var input domain.CreateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	comment, err := h.socialService.CreateComment(c.Context(), postID, middleware.GetCurrentUserID(c), input)
	if err != nil {
		switch err {
		case social.ErrPostNotFound:
			return middleware.NotFound("Post not found")
		case social.ErrEmptyContent:
			return middleware.BadRequest("Comment content is required")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *CommentHandler) List(c *fiber.Ctx) error {
	postID, err := uuid.Parse(c.Params("postId"))
	if err != nil {
		return middleware.BadRequest("Invalid post ID")
	}

	params := getPaginationParams(c)

	result, err := h.socialService.ListComments(c.Context(), postID, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return middleware.BadRequest("Invalid comment ID")
	}

	var input domain.UpdateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	comment, err := h.socialService.UpdateComment(c.Context(), commentID, middleware.GetCurrentUserID(c), input)
	if err != nil {
		switch err {
		case social.ErrCommentNotFound:
			return middleware.NotFound("Comment not found")
		case social.ErrForbidden:
			return middleware.Forbidden("You can only edit your own comments")
		case social.ErrEmptyContent:
			return middleware.BadRequest("Comment content is required")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(comment)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return middleware.BadRequest("Invalid comment ID")
	}

	if err := h.socialService.DeleteComment(c.Context(), commentID, middleware.GetCurrentUserID(c)); err != nil {
		switch err {
		case social.ErrCommentNotFound:
			return middleware.NotFound("Comment not found")
		case social.ErrForbidden:
			return middleware.Forbidden("You can only delete your own comments")
		}
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
