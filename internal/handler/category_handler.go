package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"contacts-admin/internal/models"
	"contacts-admin/internal/repository"
	"contacts-admin/internal/utils"
)

type CategoryHandler struct {
	categoryRepo *repository.CategoryRepository
}

func NewCategoryHandler(categoryRepo *repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categoryRepo: categoryRepo}
}

func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.categoryRepo.FindAll(c.UserContext())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve categories", err)
	}
	return utils.SuccessResponse(c, "Categories retrieved successfully", categories)
}

func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req models.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Category name is required", nil)
	}

	category := &models.Category{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
	}
	if err := h.categoryRepo.Create(c.UserContext(), category); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create category", err)
	}

	return utils.CreatedResponse(c, "Category created successfully", category)
}
