package memstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

// Permissions implements service.PermissionStore.
type Permissions struct{ s *Store }

func (ps *Permissions) Create(ctx context.Context, p *domain.Permission) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()
	if _, ok := ps.s.applications[p.ApplicationID]; !ok {
		return domain.NotFound(domain.EntityApplication)
	}
	if err := ps.checkUnique(p); err != nil {
		return err
	}
	ps.s.permissions[p.ID] = *p
	return nil
}

func (ps *Permissions) GetByID(ctx context.Context, id uuid.UUID) (*domain.Permission, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()
	p, ok := ps.s.permissions[id]
	if !ok {
		return nil, domain.NotFound(domain.EntityPermission)
	}
	return &p, nil
}

func (ps *Permissions) Update(ctx context.Context, p *domain.Permission) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()
	if _, ok := ps.s.permissions[p.ID]; !ok {
		return domain.NotFound(domain.EntityPermission)
	}
	if err := ps.checkUnique(p); err != nil {
		return err
	}
	ps.s.permissions[p.ID] = *p
	return nil
}

func (ps *Permissions) List(ctx context.Context, filter domain.PermissionFilter, page domain.PageRequest) ([]*domain.Permission, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()
	matched := ps.match(filter)
	out := make([]*domain.Permission, 0, len(matched))
	for _, p := range paginate(matched, page, permissionKey, func(p domain.Permission) uuid.UUID { return p.ID }) {
		out = append(out, ptr(p))
	}
	return out, nil
}

func (ps *Permissions) Count(ctx context.Context, filter domain.PermissionFilter) (int, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()
	return len(ps.match(filter)), nil
}

func (ps *Permissions) match(f domain.PermissionFilter) []domain.Permission {
	var out []domain.Permission
	for _, p := range ps.s.permissions {
		switch {
		case !f.Scope.Includes(p.IsDeleted()):
		case f.ExcludeID != nil && p.ID == *f.ExcludeID:
		case f.ApplicationID != nil && p.ApplicationID != *f.ApplicationID:
		case f.Code != nil && p.Code != *f.Code:
		case !containsFold(f.Search, p.Code, p.Name):
		default:
			out = append(out, p)
		}
	}
	return out
}

func (ps *Permissions) checkUnique(p *domain.Permission) error {
	if p.IsDeleted() {
		return nil
	}
	for _, other := range ps.s.permissions {
		if other.ID == p.ID || other.ApplicationID != p.ApplicationID || other.IsDeleted() {
			continue
		}
		if other.Code == p.Code {
			return domain.Duplicate(domain.EntityPermission, "code", p.Code)
		}
	}
	return nil
}

func permissionKey(p domain.Permission, sort string) sortKey {
	switch sort {
	case domain.SortCode:
		return sortKey{s: p.Code}
	case domain.SortName:
		return sortKey{s: p.Name}
	}
	return lifecycleKey(p.Lifecycle, sort)
}
