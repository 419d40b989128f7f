package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
	"github.com/tendant/simple-access-slim/pkg/validation"
)

// PermissionService manages permissions. A permission belongs to a live
// application and its code is unique among the application's live permissions.
type PermissionService struct {
	store PermissionStore
	apps  ApplicationStore
	opts  options
}

// NewPermissionService creates a new permission service.
func NewPermissionService(store PermissionStore, apps ApplicationStore, opts ...Option) *PermissionService {
	return &PermissionService{store: store, apps: apps, opts: newOptions(opts)}
}

// Create defines a permission on an application.
func (s *PermissionService) Create(ctx context.Context, in domain.NewPermissionInput) (*domain.Permission, error) {
	if err := validation.NewPermission(&in); err != nil {
		return nil, err
	}

	if err := s.requireLiveApplication(ctx, in.ApplicationID); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, in.ApplicationID, in.Code, nil); err != nil {
		return nil, err
	}

	p := &domain.Permission{
		ID:            uuid.New(),
		ApplicationID: in.ApplicationID,
		Code:          in.Code,
		Name:          in.Name,
		Description:   in.Description,
		Lifecycle:     domain.Lifecycle{CreatedAt: s.opts.now()},
	}

	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create permission: %w", err)
	}
	return p, nil
}

// Get returns a permission.
func (s *PermissionService) Get(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Permission, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsDeleted() && !includeDeleted {
		return nil, domain.NotFound(domain.EntityPermission)
	}
	return p, nil
}

// Update applies a partial update to a live permission.
func (s *PermissionService) Update(ctx context.Context, id uuid.UUID, in domain.UpdatePermissionInput) (*domain.Permission, error) {
	if err := validation.UpdatePermission(&in); err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if in.Code != nil && *in.Code != p.Code {
		if err := s.ensureUnique(ctx, p.ApplicationID, *in.Code, &p.ID); err != nil {
			return nil, err
		}
		p.Code = *in.Code
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		if *in.Description == "" {
			p.Description = nil
		} else {
			desc := *in.Description
			p.Description = &desc
		}
	}
	p.Touch(s.opts.now())

	if err := s.store.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update permission: %w", err)
	}
	return p, nil
}

// Delete soft-deletes a permission.
func (s *PermissionService) Delete(ctx context.Context, id uuid.UUID) (*domain.Permission, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.MarkDeleted(domain.EntityPermission, s.opts.now()); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("delete permission: %w", err)
	}
	return p, nil
}

// Restore brings a soft-deleted permission back. The owning application must
// be live and the code still free.
func (s *PermissionService) Restore(ctx context.Context, id uuid.UUID) (*domain.Permission, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsDeleted() {
		return nil, domain.NotDeleted(domain.EntityPermission)
	}

	if err := s.requireLiveApplication(ctx, p.ApplicationID); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, p.ApplicationID, p.Code, &p.ID); err != nil {
		return nil, err
	}

	if err := p.MarkRestored(domain.EntityPermission, s.opts.now()); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("restore permission: %w", err)
	}
	return p, nil
}

// List returns one page of permissions.
func (s *PermissionService) List(ctx context.Context, filter domain.PermissionFilter, page domain.PageRequest) (domain.Page[*domain.Permission], error) {
	if err := validatePage(&page, domain.SortCreatedAt, domain.SortUpdatedAt, domain.SortName, domain.SortCode); err != nil {
		return domain.Page[*domain.Permission]{}, err
	}

	items, err := s.store.List(ctx, filter, page)
	if err != nil {
		return domain.Page[*domain.Permission]{}, fmt.Errorf("list permissions: %w", err)
	}

	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return domain.Page[*domain.Permission]{}, fmt.Errorf("count permissions: %w", err)
	}

	return domain.NewPage(items, total, page), nil
}

func (s *PermissionService) requireLiveApplication(ctx context.Context, id uuid.UUID) error {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if app.IsDeleted() {
		return domain.NotFound(domain.EntityApplication)
	}
	return nil
}

func (s *PermissionService) ensureUnique(ctx context.Context, applicationID uuid.UUID, code string, exclude *uuid.UUID) error {
	n, err := s.store.Count(ctx, domain.PermissionFilter{
		Scope:         domain.ScopeLive,
		ApplicationID: &applicationID,
		Code:          &code,
		ExcludeID:     exclude,
	})
	if err != nil {
		return fmt.Errorf("check permission code: %w", err)
	}
	if n > 0 {
		return domain.Duplicate(domain.EntityPermission, "code", code)
	}
	return nil
}
