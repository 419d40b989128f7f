package domain

import "math"

// Pagination defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Common sort keys.
const (
	SortCreatedAt = "created_at"
	SortUpdatedAt = "updated_at"
	SortName      = "name"
)

// DeletedScope selects records by soft-delete state.
type DeletedScope int

const (
	// ScopeLive selects records with no delete timestamp.
	ScopeLive DeletedScope = iota
	// ScopeAll selects live and soft-deleted records.
	ScopeAll
	// ScopeDeleted selects only soft-deleted records.
	ScopeDeleted
)

// Includes reports whether a record with the given state is in scope.
func (s DeletedScope) Includes(deleted bool) bool {
	switch s {
	case ScopeAll:
		return true
	case ScopeDeleted:
		return deleted
	default:
		return !deleted
	}
}

// PageRequest describes which slice of a listing to return.
type PageRequest struct {
	Page  int
	Limit int
	Sort  string
	Desc  bool
}

// DefaultPageRequest returns page 1 of 10, newest first.
func DefaultPageRequest() PageRequest {
	return PageRequest{Page: DefaultPage, Limit: DefaultLimit, Sort: SortCreatedAt, Desc: true}
}

// Validate checks page and limit bounds.
func (p PageRequest) Validate() error {
	if p.Page < 1 {
		return Invalid("page", "must be at least 1")
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return Invalid("limit", "must be between 1 and 100")
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return Invalid("page", "is too large")
	}
	return nil
}

// Offset returns the number of rows to skip. It saturates at math.MaxInt
// instead of overflowing.
func (p PageRequest) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// NewPage builds a page and computes TotalPages = ceil(total / limit).
func NewPage[T any](items []T, total int, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: TotalPages(total, req.Limit),
	}
}

// TotalPages returns ceil(total / limit), or 0 when limit is not positive.
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
