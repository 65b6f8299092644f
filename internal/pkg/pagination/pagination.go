// internal/pkg/pagination/pagination.go
package pagination

import "strconv"

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps page*limit well inside int range
	MaxPage = 1_000_000
)

// Params is a resolved page request
type Params struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Cursor points at an adjacent page
type Cursor struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Links holds the neighbouring pages that exist for a result set
type Links struct {
	Next *Cursor `json:"next,omitempty"`
	Prev *Cursor `json:"prev,omitempty"`
}

// Parse reads raw page/limit query values, falling back to defaults on
// missing, non-numeric or non-positive input.
func Parse(rawPage, rawLimit string) Params {
	page, err := strconv.Atoi(rawPage)
	if err != nil || page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}

	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit}
}

// Offset is the number of rows to skip
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Links computes next/prev for a result set of total rows
func (p Params) Links(total int64) Links {
	var links Links

	end := int64(p.Page * p.Limit)
	if end < total {
		links.Next = &Cursor{Page: p.Page + 1, Limit: p.Limit}
	}
	if p.Offset() > 0 {
		links.Prev = &Cursor{Page: p.Page - 1, Limit: p.Limit}
	}

	return links
}
