// Package memstore is an in-memory implementation of the service store
// interfaces. It mirrors the PostgreSQL adapter's filter and uniqueness
// semantics, including the live-only unique indexes, and is used by tests and
// by embedders that do not need persistence.
package memstore

import (
	"cmp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

// Store holds every entity kind behind one lock.
type Store struct {
	mu              sync.RWMutex
	applications    map[uuid.UUID]domain.Application
	responsibles    map[uuid.UUID]domain.Responsible
	permissions     map[uuid.UUID]domain.Permission
	userPermissions map[uuid.UUID]domain.UserPermission
}

// New creates an empty store.
func New() *Store {
	return &Store{
		applications:    make(map[uuid.UUID]domain.Application),
		responsibles:    make(map[uuid.UUID]domain.Responsible),
		permissions:     make(map[uuid.UUID]domain.Permission),
		userPermissions: make(map[uuid.UUID]domain.UserPermission),
	}
}

// Applications returns the application store view.
func (s *Store) Applications() *Applications { return &Applications{s: s} }

// Responsibles returns the responsible store view.
func (s *Store) Responsibles() *Responsibles { return &Responsibles{s: s} }

// Permissions returns the permission store view.
func (s *Store) Permissions() *Permissions { return &Permissions{s: s} }

// UserPermissions returns the grant store view.
func (s *Store) UserPermissions() *UserPermissions { return &UserPermissions{s: s} }

func containsFold(term string, fields ...string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func optString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func optTime(p *time.Time) time.Time {
	if p == nil {
		return time.Time{}
	}
	return *p
}

// sortKey extracts the comparable value for a sort field: either a time or
// a string.
type sortKey struct {
	t time.Time
	s string
}

func compareKeys(a, b sortKey) int {
	if c := a.t.Compare(b.t); c != 0 {
		return c
	}
	return cmp.Compare(a.s, b.s)
}

// paginate sorts items by the requested key, breaking ties by id, and slices
// out the requested page.
func paginate[T any](items []T, page domain.PageRequest, key func(T, string) sortKey, id func(T) uuid.UUID) []T {
	slices.SortFunc(items, func(a, b T) int {
		c := compareKeys(key(a, page.Sort), key(b, page.Sort))
		if c == 0 {
			c = cmp.Compare(id(a).String(), id(b).String())
		}
		if page.Desc {
			return -c
		}
		return c
	})

	offset := page.Offset()
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := min(offset+page.Limit, len(items))
	return items[offset:end]
}

func lifecycleKey(l domain.Lifecycle, sort string) sortKey {
	if sort == domain.SortUpdatedAt {
		return sortKey{t: optTime(l.UpdatedAt)}
	}
	return sortKey{t: l.CreatedAt}
}

func ptr[T any](v T) *T { return &v }
