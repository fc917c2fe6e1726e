// Package pagination holds the page/limit conventions shared by list endpoints.
package pagination

import (
	"fmt"
	"math"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Normalize applies the default page and limit and caps limit at MaxLimit.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset returns the row offset for a normalized page and limit.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// Page is embedded into list responses.
type Page struct {
	TotalCount int64  `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
	Showing    string `json:"showing"`
}

// NewPage builds the pagination block for a result set of total rows.
func NewPage(page, limit int, total int64) Page {
	page, limit = Normalize(page, limit)

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	showing := fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return Page{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Showing:    showing,
	}
}
