package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/leocodeio/gitsprint-api/internal/constants"
)

// PaginationParams is the page window resolved from the query string.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse is the paging block echoed next to list results.
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// GetPaginationParams reads page and limit from the query string, clamping
// both to the configured bounds.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	offset := (page - 1) * limit

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: offset,
	}
}
