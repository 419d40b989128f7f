package memstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

// UserPermissions implements service.UserPermissionStore.
type UserPermissions struct{ s *Store }

func (us *UserPermissions) Create(ctx context.Context, up *domain.UserPermission) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()
	if _, ok := us.s.permissions[up.PermissionID]; !ok {
		return domain.NotFound(domain.EntityPermission)
	}
	if err := us.checkUnique(up); err != nil {
		return err
	}
	us.s.userPermissions[up.ID] = *up
	return nil
}

func (us *UserPermissions) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.UserPermission, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()
	up, ok := us.s.userPermissions[id]
	if !ok || up.TenantID != tenantID {
		return nil, domain.NotFound(domain.EntityUserPermission)
	}
	return &up, nil
}

func (us *UserPermissions) Update(ctx context.Context, up *domain.UserPermission) error {
	us.s.mu.Lock()
	defer us.s.mu.Unlock()
	existing, ok := us.s.userPermissions[up.ID]
	if !ok || existing.TenantID != up.TenantID {
		return domain.NotFound(domain.EntityUserPermission)
	}
	if err := us.checkUnique(up); err != nil {
		return err
	}
	us.s.userPermissions[up.ID] = *up
	return nil
}

func (us *UserPermissions) List(ctx context.Context, filter domain.UserPermissionFilter, page domain.PageRequest) ([]*domain.UserPermission, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()
	matched := us.match(filter)
	out := make([]*domain.UserPermission, 0, len(matched))
	for _, up := range paginate(matched, page, userPermissionKey, func(up domain.UserPermission) uuid.UUID { return up.ID }) {
		out = append(out, ptr(up))
	}
	return out, nil
}

func (us *UserPermissions) Count(ctx context.Context, filter domain.UserPermissionFilter) (int, error) {
	us.s.mu.RLock()
	defer us.s.mu.RUnlock()
	return len(us.match(filter)), nil
}

func (us *UserPermissions) match(f domain.UserPermissionFilter) []domain.UserPermission {
	var out []domain.UserPermission
	for _, up := range us.s.userPermissions {
		switch {
		case up.TenantID != f.TenantID:
		case !f.Scope.Includes(up.IsDeleted()):
		case f.UserID != nil && up.UserID != *f.UserID:
		case f.PermissionID != nil && up.PermissionID != *f.PermissionID:
		default:
			out = append(out, up)
		}
	}
	return out
}

func (us *UserPermissions) checkUnique(up *domain.UserPermission) error {
	if up.IsDeleted() {
		return nil
	}
	for _, other := range us.s.userPermissions {
		if other.ID == up.ID || other.IsDeleted() {
			continue
		}
		if other.TenantID == up.TenantID && other.UserID == up.UserID && other.PermissionID == up.PermissionID {
			return domain.Duplicate(domain.EntityUserPermission, "permission_id", up.PermissionID.String())
		}
	}
	return nil
}

func userPermissionKey(up domain.UserPermission, sort string) sortKey {
	return lifecycleKey(up.Lifecycle, sort)
}
