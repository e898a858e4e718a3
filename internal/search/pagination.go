package search

import (
	"strconv"
	"strings"
)

// TotalPages parses the upstream result count and returns the number of
// pages of pageSize items. Unparseable counts mean no results.
func TotalPages(totalResults string, pageSize int) int {
	total, err := strconv.Atoi(strings.TrimSpace(totalResults))
	if err != nil {
		return 0
	}
	return PageCount(total, pageSize)
}

// PageCount is ceil(total / pageSize) with pageSize clamped to at least 1
func PageCount(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return (total + pageSize - 1) / pageSize
}
