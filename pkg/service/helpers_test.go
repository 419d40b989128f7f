package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
	"github.com/tendant/simple-access-slim/pkg/repository/memstore"
)

// stepClock advances by one second on every reading so each write gets a
// distinct, increasing timestamp.
type stepClock struct {
	t time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

// mapCache is an in-process StatsCache with per-key generations.
type mapCache struct {
	gens      map[string]int64
	snapshots map[string]cachedSnapshot
}

type cachedSnapshot struct {
	gen  int64
	data []byte
}

func newMapCache() *mapCache {
	return &mapCache{gens: make(map[string]int64), snapshots: make(map[string]cachedSnapshot)}
}

func (c *mapCache) Get(_ context.Context, key string, dst any) (int64, bool) {
	gen := c.gens[key]
	snap, ok := c.snapshots[key]
	if !ok || snap.gen != gen {
		return gen, false
	}
	return gen, json.Unmarshal(snap.data, dst) == nil
}

func (c *mapCache) Set(_ context.Context, key string, gen int64, value any) {
	b, err := json.Marshal(value)
	if err == nil {
		c.snapshots[key] = cachedSnapshot{gen: gen, data: b}
	}
}

func (c *mapCache) Invalidate(_ context.Context, key string) {
	c.gens[key]++
}

// cached reports whether key holds a snapshot of its current generation.
func (c *mapCache) cached(key string) bool {
	snap, ok := c.snapshots[key]
	return ok && snap.gen == c.gens[key]
}

// hookedApplications runs hook once, right after the Count call numbered at.
type hookedApplications struct {
	ApplicationStore
	calls int
	at    int
	hook  func()
}

func (h *hookedApplications) Count(ctx context.Context, f domain.ApplicationFilter) (int, error) {
	n, err := h.ApplicationStore.Count(ctx, f)
	h.calls++
	if h.calls == h.at && h.hook != nil {
		hook := h.hook
		h.hook = nil
		hook()
	}
	return n, err
}

type hookedResponsibles struct {
	ResponsibleStore
	calls int
	at    int
	hook  func()
}

func (h *hookedResponsibles) Count(ctx context.Context, f domain.ResponsibleFilter) (int, error) {
	n, err := h.ResponsibleStore.Count(ctx, f)
	h.calls++
	if h.calls == h.at && h.hook != nil {
		hook := h.hook
		h.hook = nil
		hook()
	}
	return n, err
}

var errStoreDown = errors.New("store unavailable")

// failingApplications fails every Count, which every write path hits first.
type failingApplications struct {
	ApplicationStore
}

func (failingApplications) Count(context.Context, domain.ApplicationFilter) (int, error) {
	return 0, errStoreDown
}

// blindApplications hides live rows from the duplicate pre-check, as when a
// concurrent request commits between check and write.
type blindApplications struct {
	ApplicationStore
}

func (blindApplications) Count(context.Context, domain.ApplicationFilter) (int, error) {
	return 0, nil
}

type fixture struct {
	clock           *stepClock
	cache           *mapCache
	store           *memstore.Store
	applications    *ApplicationService
	responsibles    *ResponsibleService
	permissions     *PermissionService
	userPermissions *UserPermissionService
}

func newFixture() *fixture {
	clock := newStepClock()
	cache := newMapCache()
	store := memstore.New()
	opts := []Option{WithClock(clock.now), WithStatsCache(cache)}

	apps := store.Applications()
	perms := store.Permissions()
	return &fixture{
		clock:           clock,
		cache:           cache,
		store:           store,
		applications:    NewApplicationService(apps, opts...),
		responsibles:    NewResponsibleService(store.Responsibles(), opts...),
		permissions:     NewPermissionService(perms, apps, opts...),
		userPermissions: NewUserPermissionService(store.UserPermissions(), perms, apps, opts...),
	}
}

func (f *fixture) createApplication(t *testing.T, name, displayName string) *domain.Application {
	t.Helper()
	app, err := f.applications.Create(context.Background(), domain.NewApplicationInput{Name: name, DisplayName: displayName})
	if err != nil {
		t.Fatalf("Create(%s) error = %v", name, err)
	}
	return app
}

func (f *fixture) createPermission(t *testing.T, appID uuid.UUID, code string) *domain.Permission {
	t.Helper()
	p, err := f.permissions.Create(context.Background(), domain.NewPermissionInput{ApplicationID: appID, Code: code, Name: code})
	if err != nil {
		t.Fatalf("Create permission %s error = %v", code, err)
	}
	return p
}

func wantKind(t *testing.T, err error, kind domain.ErrorKind) *domain.Error {
	t.Helper()
	var de *domain.Error
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want %s", err, kind)
	}
	if de.Kind != kind {
		t.Fatalf("error kind = %s (%v), want %s", de.Kind, err, kind)
	}
	return de
}

func strPtr(s string) *string { return &s }
