package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
	"github.com/tendant/simple-access-slim/pkg/repository/memstore"
)

func TestApplicationService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	app := f.createApplication(t, "billing", "Billing App")
	if !app.Active {
		t.Error("Active = false, want default true")
	}
	if app.DeletedAt != nil || app.UpdatedAt != nil || app.CreatedAt.IsZero() {
		t.Errorf("lifecycle = %+v, want live with only CreatedAt", app.Lifecycle)
	}
	got, err := f.applications.Get(ctx, app.ID, false)
	if err != nil || got.Name != "billing" || got.DisplayName != "Billing App" {
		t.Fatalf("Get() = %+v, %v", got, err)
	}

	tests := []struct {
		name      string
		in        domain.NewApplicationInput
		wantField string
	}{
		{name: "duplicate name", in: domain.NewApplicationInput{Name: "billing", DisplayName: "Other"}, wantField: "name"},
		{name: "duplicate display name", in: domain.NewApplicationInput{Name: "other", DisplayName: "Billing App"}, wantField: "display_name"},
		{name: "name checked first", in: domain.NewApplicationInput{Name: "billing", DisplayName: "Billing App"}, wantField: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.applications.Create(ctx, tt.in)
			de := wantKind(t, err, domain.KindDuplicateKey)
			if de.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", de.Field, tt.wantField)
			}
		})
	}

	// Uniqueness is case sensitive.
	if _, err := f.applications.Create(ctx, domain.NewApplicationInput{Name: "billing2", DisplayName: "billing app"}); err != nil {
		t.Errorf("Create(different case display name) error = %v", err)
	}
}

func TestApplicationService_DeleteFreesName(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	app := f.createApplication(t, "billing", "Billing App")
	if _, err := f.applications.Delete(ctx, app.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	reused := f.createApplication(t, "billing", "Billing App")
	if reused.ID == app.ID {
		t.Fatal("reused application has the deleted id")
	}

	_, err := f.applications.Restore(ctx, app.ID)
	de := wantKind(t, err, domain.KindDuplicateKey)
	if de.Field != "name" {
		t.Errorf("Field = %q, want name", de.Field)
	}

	got, err := f.applications.Get(ctx, app.ID, true)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.IsDeleted() {
		t.Error("rejected restore changed the record")
	}
}

func TestApplicationService_DeleteRestoreTransitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	app := f.createApplication(t, "billing", "Billing App")

	_, err := f.applications.Restore(ctx, app.ID)
	wantKind(t, err, domain.KindNotDeleted)

	deleted, err := f.applications.Delete(ctx, app.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.DeletedAt == nil {
		t.Fatal("DeletedAt not set")
	}

	_, err = f.applications.Delete(ctx, app.ID)
	wantKind(t, err, domain.KindAlreadyDeleted)

	_, err = f.applications.Get(ctx, app.ID, false)
	wantKind(t, err, domain.KindNotFound)

	restored, err := f.applications.Restore(ctx, app.ID)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if restored.DeletedAt != nil || restored.UpdatedAt == nil || !restored.UpdatedAt.After(restored.CreatedAt) {
		t.Errorf("restored lifecycle = %+v", restored.Lifecycle)
	}

	_, err = f.applications.Restore(ctx, app.ID)
	wantKind(t, err, domain.KindNotDeleted)

	_, err = f.applications.Delete(ctx, uuid.New())
	wantKind(t, err, domain.KindNotFound)
}

func TestApplicationService_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	app := f.createApplication(t, "billing", "Billing App")
	f.createApplication(t, "crm", "CRM")

	// Same name and a new description: no duplicate against itself.
	updated, err := f.applications.Update(ctx, app.ID, domain.UpdateApplicationInput{
		Name:        strPtr("billing"),
		Description: strPtr("Invoices and payments"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Description == nil || *updated.Description != "Invoices and payments" {
		t.Errorf("Description = %v", updated.Description)
	}
	if updated.UpdatedAt == nil || !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Errorf("UpdatedAt = %v, want after CreatedAt %v", updated.UpdatedAt, updated.CreatedAt)
	}

	_, err = f.applications.Update(ctx, app.ID, domain.UpdateApplicationInput{DisplayName: strPtr("CRM")})
	de := wantKind(t, err, domain.KindDuplicateKey)
	if de.Field != "display_name" {
		t.Errorf("Field = %q, want display_name", de.Field)
	}

	cleared, err := f.applications.Update(ctx, app.ID, domain.UpdateApplicationInput{Description: strPtr("")})
	if err != nil {
		t.Fatalf("Update(clear description) error = %v", err)
	}
	if cleared.Description != nil {
		t.Errorf("Description = %q, want cleared", *cleared.Description)
	}
	if cleared.DisplayName != "Billing App" {
		t.Errorf("untouched DisplayName = %q", cleared.DisplayName)
	}

	if _, err := f.applications.Delete(ctx, app.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	_, err = f.applications.Update(ctx, app.ID, domain.UpdateApplicationInput{Active: new(bool)})
	wantKind(t, err, domain.KindNotFound)
}

func TestApplicationService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	var first *domain.Application
	for i := 0; i < 25; i++ {
		app := f.createApplication(t, fmt.Sprintf("app-%02d", i), fmt.Sprintf("App %02d", i))
		if i == 0 {
			first = app
		}
	}
	if _, err := f.applications.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	page, err := f.applications.List(ctx, domain.ApplicationFilter{}, domain.PageRequest{Page: 1, Limit: 10, Desc: true})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if page.Total != 24 || page.TotalPages != 3 || len(page.Items) != 10 {
		t.Errorf("live page = total %d, pages %d, items %d", page.Total, page.TotalPages, len(page.Items))
	}
	// Empty sort falls back to created_at.
	if page.Items[0].Name != "app-24" {
		t.Errorf("first item = %s, want app-24", page.Items[0].Name)
	}

	all, err := f.applications.List(ctx, domain.ApplicationFilter{Scope: domain.ScopeAll}, domain.PageRequest{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("List(all) error = %v", err)
	}
	if all.Total != 25 || all.TotalPages != 3 || len(all.Items) != 5 {
		t.Errorf("all page 3 = total %d, pages %d, items %d", all.Total, all.TotalPages, len(all.Items))
	}

	onlyDeleted, err := f.applications.List(ctx, domain.ApplicationFilter{Scope: domain.ScopeDeleted}, domain.DefaultPageRequest())
	if err != nil {
		t.Fatalf("List(deleted) error = %v", err)
	}
	if onlyDeleted.Total != 1 || onlyDeleted.Items[0].ID != first.ID {
		t.Errorf("deleted page = %+v", onlyDeleted)
	}

	search, err := f.applications.List(ctx, domain.ApplicationFilter{Search: "APP 1"}, domain.DefaultPageRequest())
	if err != nil {
		t.Fatalf("List(search) error = %v", err)
	}
	if search.Total != 10 {
		t.Errorf("search total = %d, want 10 (App 10..App 19)", search.Total)
	}

	_, err = f.applications.List(ctx, domain.ApplicationFilter{}, domain.PageRequest{Page: 1, Limit: 101})
	wantKind(t, err, domain.KindInvalid)

	_, err = f.applications.List(ctx, domain.ApplicationFilter{}, domain.PageRequest{Page: 1, Limit: 10, Sort: "code"})
	wantKind(t, err, domain.KindInvalid)

	for _, huge := range []domain.PageRequest{{Page: math.MaxInt, Limit: 10}, {Page: 1<<62 + 1, Limit: 4}} {
		_, err = f.applications.List(ctx, domain.ApplicationFilter{}, huge)
		de := wantKind(t, err, domain.KindInvalid)
		if de.Field != "page" {
			t.Errorf("List(page %d) field = %q, want page", huge.Page, de.Field)
		}
	}
}

func TestApplicationService_Statistics(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.createApplication(t, "billing", "Billing")
	crm, err := f.applications.Create(ctx, domain.NewApplicationInput{
		Name:        "crm",
		DisplayName: "CRM",
		Description: strPtr("Customers"),
		Active:      new(bool),
	})
	if err != nil {
		t.Fatalf("Create(crm) error = %v", err)
	}
	old := f.createApplication(t, "legacy", "Legacy")
	if _, err := f.applications.Delete(ctx, old.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	stats, err := f.applications.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	want := domain.ApplicationStats{Total: 3, Live: 2, Deleted: 1, Active: 1, Inactive: 1, WithDescription: 1, WithoutDescription: 1}
	if *stats != want {
		t.Errorf("Statistics() = %+v, want %+v", *stats, want)
	}

	// Cached until the next mutation.
	if !f.cache.cached(applicationStatsKey) {
		t.Fatal("statistics not cached")
	}
	if _, err := f.applications.Delete(ctx, crm.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if f.cache.cached(applicationStatsKey) {
		t.Error("statistics cache not invalidated by delete")
	}

	stats, err = f.applications.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if stats.Live != 1 || stats.Deleted != 2 {
		t.Errorf("Statistics() after delete = %+v", *stats)
	}
}

func TestApplicationService_StoreErrorsAreNotClassified(t *testing.T) {
	ctx := context.Background()
	svc := NewApplicationService(failingApplications{memstore.New().Applications()})

	_, err := svc.Create(ctx, domain.NewApplicationInput{Name: "billing", DisplayName: "Billing"})
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("Create() error = %v, want wrapped store error", err)
	}
	if _, ok := domain.KindOf(err); ok {
		t.Errorf("store failure classified as %v", err)
	}
}

func TestApplicationService_UniqueIndexBackstop(t *testing.T) {
	ctx := context.Background()
	store := memstore.New().Applications()
	svc := NewApplicationService(blindApplications{store})

	if _, err := svc.Create(ctx, domain.NewApplicationInput{Name: "billing", DisplayName: "Billing"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := svc.Create(ctx, domain.NewApplicationInput{Name: "billing", DisplayName: "Billing 2"})
	wantKind(t, err, domain.KindDuplicateKey)

	n, err := store.Count(ctx, domain.ApplicationFilter{Scope: domain.ScopeAll})
	if err != nil || n != 1 {
		t.Errorf("Count() = %d, %v, want 1 (rejected write persisted nothing)", n, err)
	}
}

func TestApplicationService_StatisticsNotStaleAfterConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	store := &hookedApplications{ApplicationStore: memstore.New().Applications()}
	svc := NewApplicationService(store, WithStatsCache(newMapCache()))

	// A create commits after the last count of the snapshot but before it is cached.
	store.at = store.calls + 5
	store.hook = func() {
		if _, err := svc.Create(ctx, domain.NewApplicationInput{Name: "billing", DisplayName: "Billing"}); err != nil {
			t.Errorf("Create() error = %v", err)
		}
	}

	first, err := svc.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if store.hook != nil {
		t.Fatal("write did not run during Statistics")
	}
	if first.Total != 0 {
		t.Errorf("first Total = %d, want 0 (counted before the write)", first.Total)
	}

	second, err := svc.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if second.Total != 1 || second.Live != 1 {
		t.Errorf("Statistics() after write = %+v, want total 1", *second)
	}
}
