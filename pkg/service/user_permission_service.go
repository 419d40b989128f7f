package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
	"github.com/tendant/simple-access-slim/pkg/validation"
)

// UserPermissionService grants and revokes permissions for users of a tenant.
// Revoking is a soft delete; a revoked grant can be restored.
type UserPermissionService struct {
	store       UserPermissionStore
	permissions PermissionStore
	apps        ApplicationStore
	opts        options
}

// NewUserPermissionService creates a new user permission service.
func NewUserPermissionService(store UserPermissionStore, permissions PermissionStore, apps ApplicationStore, opts ...Option) *UserPermissionService {
	return &UserPermissionService{
		store:       store,
		permissions: permissions,
		apps:        apps,
		opts:        newOptions(opts),
	}
}

// Grant gives a user a live permission inside the tenant.
func (s *UserPermissionService) Grant(ctx context.Context, tenantID string, in domain.GrantInput) (*domain.UserPermission, error) {
	if err := validation.TenantID(tenantID); err != nil {
		return nil, err
	}
	if err := validation.Grant(&in); err != nil {
		return nil, err
	}

	if err := s.requireLivePermission(ctx, in.PermissionID); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, tenantID, in.UserID, in.PermissionID); err != nil {
		return nil, err
	}

	up := &domain.UserPermission{
		ID:           uuid.New(),
		TenantID:     tenantID,
		UserID:       in.UserID,
		PermissionID: in.PermissionID,
		GrantedBy:    in.GrantedBy,
		Lifecycle:    domain.Lifecycle{CreatedAt: s.opts.now()},
	}

	if err := s.store.Create(ctx, up); err != nil {
		return nil, fmt.Errorf("grant permission: %w", err)
	}
	return up, nil
}

// Get returns a grant of the tenant.
func (s *UserPermissionService) Get(ctx context.Context, tenantID string, id uuid.UUID, includeDeleted bool) (*domain.UserPermission, error) {
	up, err := s.store.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if up.TenantID != tenantID || (up.IsDeleted() && !includeDeleted) {
		return nil, domain.NotFound(domain.EntityUserPermission)
	}
	return up, nil
}

// Revoke soft-deletes a grant.
func (s *UserPermissionService) Revoke(ctx context.Context, tenantID string, id uuid.UUID) (*domain.UserPermission, error) {
	up, err := s.Get(ctx, tenantID, id, true)
	if err != nil {
		return nil, err
	}

	if err := up.MarkDeleted(domain.EntityUserPermission, s.opts.now()); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, up); err != nil {
		return nil, fmt.Errorf("revoke permission: %w", err)
	}
	return up, nil
}

// Restore re-activates a revoked grant.
func (s *UserPermissionService) Restore(ctx context.Context, tenantID string, id uuid.UUID) (*domain.UserPermission, error) {
	up, err := s.Get(ctx, tenantID, id, true)
	if err != nil {
		return nil, err
	}
	if !up.IsDeleted() {
		return nil, domain.NotDeleted(domain.EntityUserPermission)
	}

	if err := s.requireLivePermission(ctx, up.PermissionID); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, tenantID, up.UserID, up.PermissionID); err != nil {
		return nil, err
	}

	if err := up.MarkRestored(domain.EntityUserPermission, s.opts.now()); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, up); err != nil {
		return nil, fmt.Errorf("restore grant: %w", err)
	}
	return up, nil
}

// List returns one page of the tenant's grants.
func (s *UserPermissionService) List(ctx context.Context, tenantID string, filter domain.UserPermissionFilter, page domain.PageRequest) (domain.Page[*domain.UserPermission], error) {
	if err := validation.TenantID(tenantID); err != nil {
		return domain.Page[*domain.UserPermission]{}, err
	}
	if err := validatePage(&page, domain.SortCreatedAt, domain.SortUpdatedAt); err != nil {
		return domain.Page[*domain.UserPermission]{}, err
	}
	filter.TenantID = tenantID

	items, err := s.store.List(ctx, filter, page)
	if err != nil {
		return domain.Page[*domain.UserPermission]{}, fmt.Errorf("list grants: %w", err)
	}

	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return domain.Page[*domain.UserPermission]{}, fmt.Errorf("count grants: %w", err)
	}

	return domain.NewPage(items, total, page), nil
}

// Check reports whether the user holds a live grant for the permission code
// of the named application. Deleted applications and permissions grant nothing.
func (s *UserPermissionService) Check(ctx context.Context, tenantID, userID, applicationName, permissionCode string) (bool, error) {
	if err := validation.TenantID(tenantID); err != nil {
		return false, err
	}
	userID = validation.Clean(userID)
	if err := validation.UserID(userID); err != nil {
		return false, err
	}
	applicationName = validation.Clean(applicationName)
	permissionCode = validation.Clean(permissionCode)

	one := domain.PageRequest{Page: 1, Limit: 1, Sort: domain.SortCreatedAt}

	apps, err := s.apps.List(ctx, domain.ApplicationFilter{Scope: domain.ScopeLive, Name: &applicationName}, one)
	if err != nil {
		return false, fmt.Errorf("check permission: %w", err)
	}
	if len(apps) == 0 {
		return false, nil
	}

	perms, err := s.permissions.List(ctx, domain.PermissionFilter{
		Scope:         domain.ScopeLive,
		ApplicationID: &apps[0].ID,
		Code:          &permissionCode,
	}, one)
	if err != nil {
		return false, fmt.Errorf("check permission: %w", err)
	}
	if len(perms) == 0 {
		return false, nil
	}

	n, err := s.store.Count(ctx, domain.UserPermissionFilter{
		TenantID:     tenantID,
		Scope:        domain.ScopeLive,
		UserID:       &userID,
		PermissionID: &perms[0].ID,
	})
	if err != nil {
		return false, fmt.Errorf("check permission: %w", err)
	}
	return n > 0, nil
}

func (s *UserPermissionService) requireLivePermission(ctx context.Context, id uuid.UUID) error {
	p, err := s.permissions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.IsDeleted() {
		return domain.NotFound(domain.EntityPermission)
	}
	return nil
}

func (s *UserPermissionService) ensureUnique(ctx context.Context, tenantID, userID string, permissionID uuid.UUID) error {
	n, err := s.store.Count(ctx, domain.UserPermissionFilter{
		TenantID:     tenantID,
		Scope:        domain.ScopeLive,
		UserID:       &userID,
		PermissionID: &permissionID,
	})
	if err != nil {
		return fmt.Errorf("check grant: %w", err)
	}
	if n > 0 {
		return domain.Duplicate(domain.EntityUserPermission, "permission_id", permissionID.String())
	}
	return nil
}
