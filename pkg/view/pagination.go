package view

import "errors"

// Limits are the page sizes a listing accepts, in the order the selector shows them.
var Limits = []int{30, 20, 10, 5}

const DefaultLimit = 30

var (
	ErrInvalidLimit = errors.New("limit must be one of 30, 20, 10, 5")
	ErrInvalidPage  = errors.New("current page out of range")
)

// ValidLimit reports whether n is one of Limits.
func ValidLimit(n int) bool {
	for _, l := range Limits {
		if l == n {
			return true
		}
	}
	return false
}

// Pagination is recomputed on every list fetch and never persisted.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Limit       int `json:"limit"`
}

func (p Pagination) Validate() error {
	if !ValidLimit(p.Limit) {
		return ErrInvalidLimit
	}
	if p.TotalPages < 0 || p.CurrentPage < 1 || p.CurrentPage > max(p.TotalPages, 1) {
		return ErrInvalidPage
	}
	return nil
}

// NewPagination clamps page into [1, max(totalPages,1)] for total items at limit per page.
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 && total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	if page < 1 {
		page = 1
	}
	if page > max(totalPages, 1) {
		page = max(totalPages, 1)
	}
	return Pagination{CurrentPage: page, TotalPages: totalPages, Limit: limit}
}
