package memstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

// Applications implements service.ApplicationStore.
type Applications struct{ s *Store }

func (a *Applications) Create(ctx context.Context, app *domain.Application) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if err := a.checkUnique(app); err != nil {
		return err
	}
	a.s.applications[app.ID] = *app
	return nil
}

func (a *Applications) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	app, ok := a.s.applications[id]
	if !ok {
		return nil, domain.NotFound(domain.EntityApplication)
	}
	return &app, nil
}

func (a *Applications) Update(ctx context.Context, app *domain.Application) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	if _, ok := a.s.applications[app.ID]; !ok {
		return domain.NotFound(domain.EntityApplication)
	}
	if err := a.checkUnique(app); err != nil {
		return err
	}
	a.s.applications[app.ID] = *app
	return nil
}

func (a *Applications) List(ctx context.Context, filter domain.ApplicationFilter, page domain.PageRequest) ([]*domain.Application, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	matched := a.match(filter)
	out := make([]*domain.Application, 0, len(matched))
	for _, app := range paginate(matched, page, applicationKey, func(app domain.Application) uuid.UUID { return app.ID }) {
		out = append(out, ptr(app))
	}
	return out, nil
}

func (a *Applications) Count(ctx context.Context, filter domain.ApplicationFilter) (int, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	return len(a.match(filter)), nil
}

func (a *Applications) match(f domain.ApplicationFilter) []domain.Application {
	var out []domain.Application
	for _, app := range a.s.applications {
		switch {
		case !f.Scope.Includes(app.IsDeleted()):
		case f.ExcludeID != nil && app.ID == *f.ExcludeID:
		case f.Name != nil && app.Name != *f.Name:
		case f.DisplayName != nil && app.DisplayName != *f.DisplayName:
		case f.Active != nil && app.Active != *f.Active:
		case f.HasDescription != nil && (app.Description != nil) != *f.HasDescription:
		case !containsFold(f.Search, app.Name, app.DisplayName, optString(app.Description)):
		default:
			out = append(out, app)
		}
	}
	return out
}

// checkUnique mirrors the live-only unique indexes on name and display_name.
func (a *Applications) checkUnique(app *domain.Application) error {
	if app.IsDeleted() {
		return nil
	}
	for _, other := range a.s.applications {
		if other.ID == app.ID || other.IsDeleted() {
			continue
		}
		if other.Name == app.Name {
			return domain.Duplicate(domain.EntityApplication, "name", app.Name)
		}
		if other.DisplayName == app.DisplayName {
			return domain.Duplicate(domain.EntityApplication, "display_name", app.DisplayName)
		}
	}
	return nil
}

func applicationKey(app domain.Application, sort string) sortKey {
	switch sort {
	case domain.SortName:
		return sortKey{s: app.Name}
	case domain.SortDisplayName:
		return sortKey{s: app.DisplayName}
	}
	return lifecycleKey(app.Lifecycle, sort)
}
