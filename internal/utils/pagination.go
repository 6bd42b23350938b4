package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/pms-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// NewPaginationParams clamps page and limit into the allowed range.
func NewPaginationParams(page, limit int) PaginationParams {
	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// GetPaginationParams extracts and validates pagination parameters from the request
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	return NewPaginationParams(page, limit)
}

// Response builds the pagination metadata for a result set.
func (p PaginationParams) Response(total int64) PaginationResponse {
	return PaginationResponse{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
	}
}
