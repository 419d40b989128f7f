// Package service holds the lifecycle and uniqueness policy for every entity.
// Services validate input, run live-record duplicate checks, apply soft-delete
// transitions and only then hand the record to a store.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

// ApplicationStore persists applications. GetByID returns soft-deleted rows
// too and reports domain.ErrNotFound when the id does not exist.
type ApplicationStore interface {
	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error)
	Update(ctx context.Context, app *domain.Application) error
	List(ctx context.Context, filter domain.ApplicationFilter, page domain.PageRequest) ([]*domain.Application, error)
	Count(ctx context.Context, filter domain.ApplicationFilter) (int, error)
}

// ResponsibleStore persists responsibles. Every lookup is tenant scoped.
type ResponsibleStore interface {
	Create(ctx context.Context, r *domain.Responsible) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Responsible, error)
	Update(ctx context.Context, r *domain.Responsible) error
	List(ctx context.Context, filter domain.ResponsibleFilter, page domain.PageRequest) ([]*domain.Responsible, error)
	Count(ctx context.Context, filter domain.ResponsibleFilter) (int, error)
}

// PermissionStore persists permissions.
type PermissionStore interface {
	Create(ctx context.Context, p *domain.Permission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Permission, error)
	Update(ctx context.Context, p *domain.Permission) error
	List(ctx context.Context, filter domain.PermissionFilter, page domain.PageRequest) ([]*domain.Permission, error)
	Count(ctx context.Context, filter domain.PermissionFilter) (int, error)
}

// UserPermissionStore persists grants. Every lookup is tenant scoped.
type UserPermissionStore interface {
	Create(ctx context.Context, up *domain.UserPermission) error
	GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.UserPermission, error)
	Update(ctx context.Context, up *domain.UserPermission) error
	List(ctx context.Context, filter domain.UserPermissionFilter, page domain.PageRequest) ([]*domain.UserPermission, error)
	Count(ctx context.Context, filter domain.UserPermissionFilter) (int, error)
}

// StatsCache caches statistics snapshots per generation. Invalidate starts a
// new generation, so a snapshot computed before an invalidation is never
// served after it. Implementations handle their own failures; a miss is
// always safe.
type StatsCache interface {
	// Get loads the snapshot of the key's current generation into dst. On a
	// miss it returns the generation a freshly computed snapshot belongs to.
	// A negative generation means the result must not be stored.
	Get(ctx context.Context, key string, dst any) (gen int64, ok bool)
	// Set stores value as the snapshot of generation gen.
	Set(ctx context.Context, key string, gen int64, value any)
	Invalidate(ctx context.Context, key string)
}

// Option configures a service.
type Option func(*options)

type options struct {
	now   func() time.Time
	cache StatsCache
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithStatsCache caches Statistics results until the next mutation.
func WithStatsCache(cache StatsCache) Option {
	return func(o *options) { o.cache = cache }
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// cacheGet must run before the snapshot is computed; the generation it
// returns is what cacheSet stores under.
func (o options) cacheGet(ctx context.Context, key string, dst any) (int64, bool) {
	if o.cache == nil {
		return -1, false
	}
	return o.cache.Get(ctx, key, dst)
}

func (o options) cacheSet(ctx context.Context, key string, gen int64, value any) {
	if o.cache != nil && gen >= 0 {
		o.cache.Set(ctx, key, gen, value)
	}
}

func (o options) cacheInvalidate(ctx context.Context, key string) {
	if o.cache != nil {
		o.cache.Invalidate(ctx, key)
	}
}

// validatePage checks bounds and the sort key against the allowed set.
// An empty sort key falls back to created_at.
func validatePage(page *domain.PageRequest, allowedSorts ...string) error {
	if err := page.Validate(); err != nil {
		return err
	}
	if page.Sort == "" {
		page.Sort = domain.SortCreatedAt
		return nil
	}
	for _, s := range allowedSorts {
		if page.Sort == s {
			return nil
		}
	}
	return domain.Invalid("sort", "unsupported sort field "+page.Sort)
}

func boolPtr(b bool) *bool { return &b }
