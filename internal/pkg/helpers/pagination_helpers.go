package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultPage     = 0 // Pages are 0-based
)

// AllowedPageSizes are the page sizes offered by the dashboard
var AllowedPageSizes = []int{10, 20, 50, 100}

// IsAllowedPageSize reports whether size is one of AllowedPageSizes
func IsAllowedPageSize(size int) bool {
	for _, allowed := range AllowedPageSizes {
		if size == allowed {
			return true
		}
	}
	return false
}

// CalculateSkipLimit converts a 0-based page index into the API's skip/limit pair.
func CalculateSkipLimit(page, size int) (skip, limit int) {
	if !IsAllowedPageSize(size) {
		size = DefaultPageSize
	}
	if page < 0 {
		page = DefaultPage
	}
	return page * size, size
}

// TotalPages returns ceil(totalItems/size); zero items means zero pages.
func TotalPages(totalItems, size int) int {
	if size <= 0 || totalItems <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalItems) / float64(size)))
}

// CalculateWindow returns the 1-based first and last record numbers shown on a page.
// Both are zero when there is nothing to show.
func CalculateWindow(page, size, totalItems int) (start, end int) {
	if totalItems <= 0 || size <= 0 {
		return 0, 0
	}
	start = page*size + 1
	end = (page + 1) * size
	if end > totalItems {
		end = totalItems
	}
	if start > end {
		start = end
	}
	return start, end
}

// ParsePaginationParams extracts the 0-based page index and page size from the query.
// Invalid values fall back to the first page of DefaultPageSize.
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		page = DefaultPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil || !IsAllowedPageSize(size) {
		size = DefaultPageSize
	}

	return page, size
}
