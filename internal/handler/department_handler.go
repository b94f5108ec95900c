package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"civicwatch/internal/domain"
	"civicwatch/internal/middleware"
	"civicwatch/internal/service/department"
)

type DepartmentHandler struct {
	departmentService department.Service
}

func NewDepartmentHandler(departmentService department.Service) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departmentService}
}

func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	var input domain.CreateDepartmentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	dept, err := h.departmentService.Create(c.Context(), input)
	if err != nil {
		switch err {
		case department.ErrEmptyName:
			return middleware.BadRequest("Department name is required")
		case department.ErrNameTaken:
			return middleware.Conflict("Department name already exists")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dept)
}

func (h *DepartmentHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid department ID")
	}

	dept, err := h.departmentService.GetByID(c.Context(), id)
	if err != nil {
		if err == department.ErrNotFound {
			return middleware.NotFound("Department not found")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(dept)
}

func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	departments, err := h.departmentService.List(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": departments,
	})
}

func (h *DepartmentHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid department ID")
	}

	var input domain.CreateDepartmentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	dept, err := h.departmentService.Update(c.Context(), id, input)
	if err != nil {
		switch err {
		case department.ErrNotFound:
			return middleware.NotFound("Department not found")
		case department.ErrEmptyName:
			return middleware.BadRequest("Department name is required")
		}
		return err
	}

	return c.Status(fiber.StatusOK).JSON(dept)
}

func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.BadRequest("Invalid department ID")
	}

	if err := h.departmentService.Delete(c.Context(), id); err != nil {
		if err == department.ErrNotFound {
			return middleware.NotFound("Department not found")
		}
		return err
	}

	return c.Status(fiber.StatusNoContent).SendString("")
}
