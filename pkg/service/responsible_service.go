package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
	"github.com/tendant/simple-access-slim/pkg/validation"
)

func responsibleStatsKey(tenantID string) string {
	return "stats:responsibles:" + tenantID
}

// ResponsibleService manages responsibles. Every operation is confined to the
// caller's tenant; records of other tenants are reported as not found.
type ResponsibleService struct {
	store ResponsibleStore
	opts  options
}

// NewResponsibleService creates a new responsible service.
func NewResponsibleService(store ResponsibleStore, opts ...Option) *ResponsibleService {
	return &ResponsibleService{store: store, opts: newOptions(opts)}
}

// Create registers a responsible in the tenant.
func (s *ResponsibleService) Create(ctx context.Context, tenantID string, in domain.NewResponsibleInput) (*domain.Responsible, error) {
	if err := validation.TenantID(tenantID); err != nil {
		return nil, err
	}
	if err := validation.NewResponsible(&in); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, tenantID, &in.Code, &in.Name, nil); err != nil {
		return nil, err
	}

	r := &domain.Responsible{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Code:       in.Code,
		Name:       in.Name,
		CategoryID: in.CategoryID,
		Lifecycle:  domain.Lifecycle{CreatedAt: s.opts.now()},
	}

	if err := s.store.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create responsible: %w", err)
	}

	s.opts.cacheInvalidate(ctx, responsibleStatsKey(tenantID))
	return r, nil
}

// Get returns a responsible of the tenant.
func (s *ResponsibleService) Get(ctx context.Context, tenantID string, id uuid.UUID, includeDeleted bool) (*domain.Responsible, error) {
	r, err := s.store.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	// Stores filter by tenant; this guards adapters that do not.
	if r.TenantID != tenantID {
		return nil, domain.NotFound(domain.EntityResponsible)
	}
	if r.IsDeleted() && !includeDeleted {
		return nil, domain.NotFound(domain.EntityResponsible)
	}
	return r, nil
}

// Update applies a partial update to a live responsible.
func (s *ResponsibleService) Update(ctx context.Context, tenantID string, id uuid.UUID, in domain.UpdateResponsibleInput) (*domain.Responsible, error) {
	if err := validation.UpdateResponsible(&in); err != nil {
		return nil, err
	}

	r, err := s.Get(ctx, tenantID, id, false)
	if err != nil {
		return nil, err
	}

	var code, name *string
	if in.Code != nil && *in.Code != r.Code {
		code = in.Code
	}
	if in.Name != nil && *in.Name != r.Name {
		name = in.Name
	}
	if err := s.ensureUnique(ctx, tenantID, code, name, &r.ID); err != nil {
		return nil, err
	}

	if in.Code != nil {
		r.Code = *in.Code
	}
	if in.Name != nil {
		r.Name = *in.Name
	}
	if in.CategoryID != nil {
		category := *in.CategoryID
		r.CategoryID = &category
	}
	if in.ClearCategory {
		r.CategoryID = nil
	}
	r.Touch(s.opts.now())

	if err := s.store.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("update responsible: %w", err)
	}

	s.opts.cacheInvalidate(ctx, responsibleStatsKey(tenantID))
	return r, nil
}

// Delete soft-deletes a responsible.
func (s *ResponsibleService) Delete(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Responsible, error) {
	r, err := s.Get(ctx, tenantID, id, true)
	if err != nil {
		return nil, err
	}

	if err := r.MarkDeleted(domain.EntityResponsible, s.opts.now()); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("delete responsible: %w", err)
	}

	s.opts.cacheInvalidate(ctx, responsibleStatsKey(tenantID))
	return r, nil
}

// Restore brings a soft-deleted responsible back if its code and name are
// still free in the tenant.
func (s *ResponsibleService) Restore(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Responsible, error) {
	r, err := s.Get(ctx, tenantID, id, true)
	if err != nil {
		return nil, err
	}
	if !r.IsDeleted() {
		return nil, domain.NotDeleted(domain.EntityResponsible)
	}

	if err := s.ensureUnique(ctx, tenantID, &r.Code, &r.Name, &r.ID); err != nil {
		return nil, err
	}

	if err := r.MarkRestored(domain.EntityResponsible, s.opts.now()); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, r); err != nil {
		return nil, fmt.Errorf("restore responsible: %w", err)
	}

	s.opts.cacheInvalidate(ctx, responsibleStatsKey(tenantID))
	return r, nil
}

// List returns one page of the tenant's responsibles. The filter's tenant is
// always overwritten with tenantID.
func (s *ResponsibleService) List(ctx context.Context, tenantID string, filter domain.ResponsibleFilter, page domain.PageRequest) (domain.Page[*domain.Responsible], error) {
	if err := validation.TenantID(tenantID); err != nil {
		return domain.Page[*domain.Responsible]{}, err
	}
	if err := validatePage(&page, domain.SortCreatedAt, domain.SortUpdatedAt, domain.SortName, domain.SortCode); err != nil {
		return domain.Page[*domain.Responsible]{}, err
	}
	filter.TenantID = tenantID

	items, err := s.store.List(ctx, filter, page)
	if err != nil {
		return domain.Page[*domain.Responsible]{}, fmt.Errorf("list responsibles: %w", err)
	}

	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return domain.Page[*domain.Responsible]{}, fmt.Errorf("count responsibles: %w", err)
	}

	return domain.NewPage(items, total, page), nil
}

// Statistics returns aggregate counts for the tenant.
func (s *ResponsibleService) Statistics(ctx context.Context, tenantID string) (*domain.ResponsibleStats, error) {
	if err := validation.TenantID(tenantID); err != nil {
		return nil, err
	}

	key := responsibleStatsKey(tenantID)
	var cached domain.ResponsibleStats
	gen, hit := s.opts.cacheGet(ctx, key, &cached)
	if hit {
		return &cached, nil
	}

	stats := &domain.ResponsibleStats{}
	counts := []struct {
		dst    *int
		filter domain.ResponsibleFilter
	}{
		{&stats.Total, domain.ResponsibleFilter{TenantID: tenantID, Scope: domain.ScopeAll}},
		{&stats.Live, domain.ResponsibleFilter{TenantID: tenantID, Scope: domain.ScopeLive}},
		{&stats.Deleted, domain.ResponsibleFilter{TenantID: tenantID, Scope: domain.ScopeDeleted}},
		{&stats.WithCategory, domain.ResponsibleFilter{TenantID: tenantID, Scope: domain.ScopeLive, HasCategory: boolPtr(true)}},
	}

	for _, c := range counts {
		n, err := s.store.Count(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("responsible statistics: %w", err)
		}
		*c.dst = n
	}
	stats.WithoutCategory = stats.Live - stats.WithCategory

	s.opts.cacheSet(ctx, key, gen, stats)
	return stats, nil
}

func (s *ResponsibleService) ensureUnique(ctx context.Context, tenantID string, code, name *string, exclude *uuid.UUID) error {
	if code != nil {
		n, err := s.store.Count(ctx, domain.ResponsibleFilter{TenantID: tenantID, Scope: domain.ScopeLive, Code: code, ExcludeID: exclude})
		if err != nil {
			return fmt.Errorf("check responsible code: %w", err)
		}
		if n > 0 {
			return domain.Duplicate(domain.EntityResponsible, "code", *code)
		}
	}

	if name != nil {
		n, err := s.store.Count(ctx, domain.ResponsibleFilter{TenantID: tenantID, Scope: domain.ScopeLive, Name: name, ExcludeID: exclude})
		if err != nil {
			return fmt.Errorf("check responsible name: %w", err)
		}
		if n > 0 {
			return domain.Duplicate(domain.EntityResponsible, "name", *name)
		}
	}

	return nil
}
