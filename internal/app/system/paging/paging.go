// internal/app/system/paging/paging.go

// Package paging parses page/limit query parameters for offset pagination.
// List endpoints take 1-based ?page= and ?limit=; responses carry
// {page, limit, total} meta.
package paging

import (
	"net/http"
	"strconv"
)

// DefaultLimit is the page size when ?limit= is absent or invalid.
const DefaultLimit = 10

// MaxLimit caps the page size a caller may request.
const MaxLimit = 100

// Params holds a parsed pagination window.
type Params struct {
	Page  int
	Limit int
}

// Parse extracts page/limit from the request, clamping to sane bounds.
func Parse(r *http.Request) Params {
	p := Params{Page: 1, Limit: DefaultLimit}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			p.Page = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			p.Limit = n
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Skip returns the number of documents to skip for Mongo Find options.
func (p Params) Skip() int64 { return int64(p.Page-1) * int64(p.Limit) }

// Limit64 returns the limit as int64 for Mongo Find options.
func (p Params) Limit64() int64 { return int64(p.Limit) }
