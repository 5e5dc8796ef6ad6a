package utils

import (
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
	MaxLimit     = 100
)

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination links to the neighbouring pages; either side is nil at the edges.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePage reads page and limit query values, falling back to defaults for
// missing or non-positive input and capping limit at MaxLimit.
func ParsePage(pageStr, limitStr string) Page {
	p := Page{Page: DefaultPage, Limit: DefaultLimit}

	if n, err := strconv.Atoi(strings.TrimSpace(pageStr)); err == nil && n > 0 {
		p.Page = n
	}

	if n, err := strconv.Atoi(strings.TrimSpace(limitStr)); err == nil && n > 0 {
		p.Limit = n
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	return p
}

// Paginate builds the navigation block for a page of a result set with total items.
func Paginate(p Page, total int) Pagination {
	var out Pagination

	if p.Page*p.Limit < total {
		out.Next = &PageRef{Page: p.Page + 1, Limit: p.Limit}
	}
	if p.Offset() > 0 {
		out.Prev = &PageRef{Page: p.Page - 1, Limit: p.Limit}
	}

	return out
}
