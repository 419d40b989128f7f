package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
	"github.com/tendant/simple-access-slim/pkg/validation"
)

const applicationStatsKey = "stats:applications"

// ApplicationService manages the application lifecycle.
type ApplicationService struct {
	store ApplicationStore
	opts  options
}

// NewApplicationService creates a new application service.
func NewApplicationService(store ApplicationStore, opts ...Option) *ApplicationService {
	return &ApplicationService{store: store, opts: newOptions(opts)}
}

// Create registers a new, live application.
func (s *ApplicationService) Create(ctx context.Context, in domain.NewApplicationInput) (*domain.Application, error) {
	if err := validation.NewApplication(&in); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, &in.Name, &in.DisplayName, nil); err != nil {
		return nil, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	app := &domain.Application{
		ID:          uuid.New(),
		Name:        in.Name,
		DisplayName: in.DisplayName,
		Description: in.Description,
		Active:      active,
		Lifecycle:   domain.Lifecycle{CreatedAt: s.opts.now()},
	}

	if err := s.store.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}

	s.opts.cacheInvalidate(ctx, applicationStatsKey)
	return app, nil
}

// Get returns an application. Soft-deleted applications are reported as not
// found unless includeDeleted is set.
func (s *ApplicationService) Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Application, error) {
	app, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.IsDeleted() && !includeDeleted {
		return nil, domain.NotFound(domain.EntityApplication)
	}
	return app, nil
}

// Update applies a partial update to a live application.
func (s *ApplicationService) Update(ctx context.Context, id uuid.UUID, in domain.UpdateApplicationInput) (*domain.Application, error) {
	if err := validation.UpdateApplication(&in); err != nil {
		return nil, err
	}

	app, err := s.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}

	// Only changed unique fields are re-checked.
	var name, displayName *string
	if in.Name != nil && *in.Name != app.Name {
		name = in.Name
	}
	if in.DisplayName != nil && *in.DisplayName != app.DisplayName {
		displayName = in.DisplayName
	}
	if err := s.ensureUnique(ctx, name, displayName, &app.ID); err != nil {
		return nil, err
	}

	if in.Name != nil {
		app.Name = *in.Name
	}
	if in.DisplayName != nil {
		app.DisplayName = *in.DisplayName
	}
	if in.Description != nil {
		if *in.Description == "" {
			app.Description = nil
		} else {
			desc := *in.Description
			app.Description = &desc
		}
	}
	if in.Active != nil {
		app.Active = *in.Active
	}
	app.Touch(s.opts.now())

	if err := s.store.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}

	s.opts.cacheInvalidate(ctx, applicationStatsKey)
	return app, nil
}

// Delete soft-deletes an application.
func (s *ApplicationService) Delete(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	app, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := app.MarkDeleted(domain.EntityApplication, s.opts.now()); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("delete application: %w", err)
	}

	s.opts.cacheInvalidate(ctx, applicationStatsKey)
	return app, nil
}

// Restore brings a soft-deleted application back. Its name and display name
// must not have been taken by a live application in the meantime.
func (s *ApplicationService) Restore(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	app, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !app.IsDeleted() {
		return nil, domain.NotDeleted(domain.EntityApplication)
	}

	if err := s.ensureUnique(ctx, &app.Name, &app.DisplayName, &app.ID); err != nil {
		return nil, err
	}

	if err := app.MarkRestored(domain.EntityApplication, s.opts.now()); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("restore application: %w", err)
	}

	s.opts.cacheInvalidate(ctx, applicationStatsKey)
	return app, nil
}

// List returns one page of applications.
func (s *ApplicationService) List(ctx context.Context, filter domain.ApplicationFilter, page domain.PageRequest) (domain.Page[*domain.Application], error) {
	if err := validatePage(&page, domain.SortCreatedAt, domain.SortUpdatedAt, domain.SortName, domain.SortDisplayName); err != nil {
		return domain.Page[*domain.Application]{}, err
	}

	items, err := s.store.List(ctx, filter, page)
	if err != nil {
		return domain.Page[*domain.Application]{}, fmt.Errorf("list applications: %w", err)
	}

	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return domain.Page[*domain.Application]{}, fmt.Errorf("count applications: %w", err)
	}

	return domain.NewPage(items, total, page), nil
}

// Statistics returns aggregate counts over all applications.
func (s *ApplicationService) Statistics(ctx context.Context) (*domain.ApplicationStats, error) {
	var cached domain.ApplicationStats
	gen, hit := s.opts.cacheGet(ctx, applicationStatsKey, &cached)
	if hit {
		return &cached, nil
	}

	stats := &domain.ApplicationStats{}
	counts := []struct {
		dst    *int
		filter domain.ApplicationFilter
	}{
		{&stats.Total, domain.ApplicationFilter{Scope: domain.ScopeAll}},
		{&stats.Live, domain.ApplicationFilter{Scope: domain.ScopeLive}},
		{&stats.Deleted, domain.ApplicationFilter{Scope: domain.ScopeDeleted}},
		{&stats.Active, domain.ApplicationFilter{Scope: domain.ScopeLive, Active: boolPtr(true)}},
		{&stats.WithDescription, domain.ApplicationFilter{Scope: domain.ScopeLive, HasDescription: boolPtr(true)}},
	}

	for _, c := range counts {
		n, err := s.store.Count(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("application statistics: %w", err)
		}
		*c.dst = n
	}
	stats.Inactive = stats.Live - stats.Active
	stats.WithoutDescription = stats.Live - stats.WithDescription

	s.opts.cacheSet(ctx, applicationStatsKey, gen, stats)
	return stats, nil
}

// ensureUnique rejects values already held by a live application other than
// exclude. Nil values are not checked.
func (s *ApplicationService) ensureUnique(ctx context.Context, name, displayName *string, exclude *uuid.UUID) error {
	if name != nil {
		n, err := s.store.Count(ctx, domain.ApplicationFilter{Scope: domain.ScopeLive, Name: name, ExcludeID: exclude})
		if err != nil {
			return fmt.Errorf("check application name: %w", err)
		}
		if n > 0 {
			return domain.Duplicate(domain.EntityApplication, "name", *name)
		}
	}

	if displayName != nil {
		n, err := s.store.Count(ctx, domain.ApplicationFilter{Scope: domain.ScopeLive, DisplayName: displayName, ExcludeID: exclude})
		if err != nil {
			return fmt.Errorf("check application display name: %w", err)
		}
		if n > 0 {
			return domain.Duplicate(domain.EntityApplication, "display_name", *displayName)
		}
	}

	return nil
}
