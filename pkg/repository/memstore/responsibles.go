package memstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

// Responsibles implements service.ResponsibleStore.
type Responsibles struct{ s *Store }

func (rs *Responsibles) Create(ctx context.Context, r *domain.Responsible) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	if err := rs.checkUnique(r); err != nil {
		return err
	}
	rs.s.responsibles[r.ID] = *r
	return nil
}

func (rs *Responsibles) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Responsible, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()
	r, ok := rs.s.responsibles[id]
	if !ok || r.TenantID != tenantID {
		return nil, domain.NotFound(domain.EntityResponsible)
	}
	return &r, nil
}

func (rs *Responsibles) Update(ctx context.Context, r *domain.Responsible) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	existing, ok := rs.s.responsibles[r.ID]
	if !ok || existing.TenantID != r.TenantID {
		return domain.NotFound(domain.EntityResponsible)
	}
	if err := rs.checkUnique(r); err != nil {
		return err
	}
	rs.s.responsibles[r.ID] = *r
	return nil
}

func (rs *Responsibles) List(ctx context.Context, filter domain.ResponsibleFilter, page domain.PageRequest) ([]*domain.Responsible, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()
	matched := rs.match(filter)
	out := make([]*domain.Responsible, 0, len(matched))
	for _, r := range paginate(matched, page, responsibleKey, func(r domain.Responsible) uuid.UUID { return r.ID }) {
		out = append(out, ptr(r))
	}
	return out, nil
}

func (rs *Responsibles) Count(ctx context.Context, filter domain.ResponsibleFilter) (int, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()
	return len(rs.match(filter)), nil
}

func (rs *Responsibles) match(f domain.ResponsibleFilter) []domain.Responsible {
	var out []domain.Responsible
	for _, r := range rs.s.responsibles {
		switch {
		case r.TenantID != f.TenantID:
		case !f.Scope.Includes(r.IsDeleted()):
		case f.ExcludeID != nil && r.ID == *f.ExcludeID:
		case f.Code != nil && r.Code != *f.Code:
		case f.Name != nil && r.Name != *f.Name:
		case f.CategoryID != nil && (r.CategoryID == nil || *r.CategoryID != *f.CategoryID):
		case f.HasCategory != nil && (r.CategoryID != nil) != *f.HasCategory:
		case !containsFold(f.Search, r.Code, r.Name):
		default:
			out = append(out, r)
		}
	}
	return out
}

func (rs *Responsibles) checkUnique(r *domain.Responsible) error {
	if r.IsDeleted() {
		return nil
	}
	for _, other := range rs.s.responsibles {
		if other.ID == r.ID || other.TenantID != r.TenantID || other.IsDeleted() {
			continue
		}
		if other.Code == r.Code {
			return domain.Duplicate(domain.EntityResponsible, "code", r.Code)
		}
		if other.Name == r.Name {
			return domain.Duplicate(domain.EntityResponsible, "name", r.Name)
		}
	}
	return nil
}

func responsibleKey(r domain.Responsible, sort string) sortKey {
	switch sort {
	case domain.SortCode:
		return sortKey{s: r.Code}
	case domain.SortName:
		return sortKey{s: r.Name}
	}
	return lifecycleKey(r.Lifecycle, sort)
}
