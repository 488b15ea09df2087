// Package helpers holds small request-parsing utilities shared by the
// controllers.
package helpers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 1 // pages are 1-based
)

// ParsePaginationParams extracts the page and limit query parameters,
// falling back to defaults for missing or invalid values and capping the
// page size.
func ParsePaginationParams(c *gin.Context) (page, limit int64) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = DefaultPage
	}

	limit, err = strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil || limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return page, limit
}
