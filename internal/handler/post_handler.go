package handler

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"civicwatch/internal/domain"
	"civicwatch/internal/middleware"
	"civicwatch/internal/service/post"
	"civicwatch/internal/service/social"
)

const maxImageSize = 10 * 1024 * 1024

type PostHandler struct {
	postService   post.Service
	socialService social.Service
}

func NewPostHandler(postService post.Service, socialService social.Service) *PostHandler {
	return &PostHandler{
		postService:   postService,
		socialService: socialService,
	}
}

// Create takes a multipart form: an "image" file, a "description" field and
// an optional "location" field holding either "lat,lng" or a JSON object.
func (h *PostHandler) Create(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	file, err := c.FormFile("image")
	if err != nil {
		return middleware.BadRequest("Report image is required")
	}
	if file.Size > maxImageSize {
		return middleware.BadRequest("Image size must be less than 10MB")
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	input := domain.CreatePostInput{
		Description: c.FormValue("description"),
	}
	if loc := c.FormValue("location"); loc != "" {
		if json.Valid([]byte(loc)) {
			input.Location = json.RawMessage(loc)
		} else {
			// Bare "lat,lng" form values arrive unquoted.
			quoted, _ := json.Marshal(loc)
			input.Location = quoted
		}
	}

	fileReader, err := file.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read image")
	}
	defer fileReader.Close()

	created, err := h.postService.Create(c.Context(), userID, input, file.Filename, file.Size, mimeType, fileReader)
	if err != nil {
		switch err {
		case post.ErrEmptyDescription:
			return middleware.BadRequest("Report description is required")
		case post.ErrMissingImage:
			return middleware.BadRequest("Report image is required")
		case domain.ErrInvalidLocation:
			return middleware.BadRequest(err.Error())
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *PostHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid post ID")
	}

	p, err := h.postService.GetByID(c.Context(), id)
	if err != nil {
		if err == post.ErrNotFound {
			return middleware.NotFound("Post not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(p)
}

func (h *PostHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	var departmentID *uuid.UUID
	if deptStr := c.Query("department_id"); deptStr != "" {
		deptID, err := uuid.Parse(deptStr)
		if err != nil {
			return middleware.BadRequest("Invalid department ID")
		}
		departmentID = &deptID
	}

	result, err := h.postService.List(c.Context(), departmentID, params)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid post ID")
	}

	var input domain.UpdatePostInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	updated, err := h.postService.Update(c.Context(), id, middleware.GetCurrentUserID(c), input)
	if err != nil {
		switch err {
		case post.ErrNotFound:
			return middleware.NotFound("Post not found")
		case post.ErrForbidden:
			return middleware.Forbidden("You can only update your own reports")
		case post.ErrEmptyDescription:
			return middleware.BadRequest("Report description is required")
		case domain.ErrInvalidLocation:
			return middleware.BadRequest(err.Error())
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid post ID")
	}

	if err := h.postService.Delete(c.Context(), id, middleware.GetCurrentUserID(c)); err != nil {
		switch err {
		case post.ErrNotFound:
			return middleware.NotFound("Post not found")
		case post.ErrForbidden:
			return middleware.Forbidden("You can only delete your own reports")
		}
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *PostHandler) Like(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid post ID")
	}

	result, err := h.socialService.Like(c.Context(), id, middleware.GetCurrentUserID(c))
	if err != nil {
		if err == social.ErrPostNotFound {
			return middleware.NotFound("Post not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *PostHandler) Unlike(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid post ID")
	}

	result, err := h.socialService.Unlike(c.Context(), id, middleware.GetCurrentUserID(c))
	if err != nil {
		if err == social.ErrPostNotFound {
			return middleware.NotFound("Post not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()
	if page := c.QueryInt("page"); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size"); pageSize > 0 {
		params.PageSize = pageSize
	}
	params.Validate()
	return params
}
