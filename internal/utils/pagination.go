package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"contacts-admin/internal/models"
)

// PaginationParams represents pagination query parameters
type PaginationParams struct {
	Page   int                  `json:"page"`
	Limit  int                  `json:"limit"`
	Filter models.ContactFilter `json:"filter"`
}

// PaginationMeta contains pagination metadata
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        int   `json:"from"`
	To          int   `json:"to"`
	HasMore     bool  `json:"has_more"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

var limitOptions = []int{10, 25, 50, 100}

// GetPaginationParams extracts page, limit, search and category_id from the
// query string. Unknown limits fall back to 25.
func GetPaginationParams(c *fiber.Ctx) PaginationParams {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "25"))

	if page < 1 {
		page = 1
	}

	isValidLimit := false
	for _, validLimit := range limitOptions {
		if limit == validLimit {
			isValidLimit = true
			break
		}
	}
	if !isValidLimit {
		limit = 25
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Filter: GetContactFilter(c),
	}
}

// GetContactFilter reads the search and category_id query parameters.
func GetContactFilter(c *fiber.Ctx) models.ContactFilter {
	categoryID, _ := strconv.Atoi(c.Query("category_id", "0"))
	if categoryID < 0 {
		categoryID = 0
	}
	return models.ContactFilter{
		Search:     strings.TrimSpace(c.Query("search", "")),
		CategoryID: categoryID,
	}
}

// CalculatePagination calculates pagination metadata
func CalculatePagination(page, limit int, total int64) PaginationMeta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 25
	}

	lastPage := int(math.Ceil(float64(total) / float64(limit)))
	from := (page-1)*limit + 1
	to := page * limit

	if total == 0 {
		from = 0
		to = 0
	} else if to > int(total) {
		to = int(total)
	}

	return PaginationMeta{
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
		LastPage:    lastPage,
		From:        from,
		To:          to,
		HasMore:     page < lastPage,
	}
}

// PaginatedResponseBuilder creates a paginated response
func PaginatedResponseBuilder(c *fiber.Ctx, message string, data interface{}, pagination PaginationMeta) error {
	return c.JSON(PaginatedResponse{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	})
}

// GetOffset calculates offset for SQL queries
func GetOffset(page, limit int) int {
	return (page - 1) * limit
}
