package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

const responsibleColumns = `id, tenant_id, code, name, category_id, created_at, updated_at, deleted_at`

var responsibleSorts = map[string]string{
	domain.SortCreatedAt: "created_at",
	domain.SortUpdatedAt: "updated_at",
	domain.SortName:      "name",
	domain.SortCode:      "code",
}

// ResponsiblesRepository handles responsible persistence. Every query carries
// the tenant predicate.
type ResponsiblesRepository struct {
	db *sql.DB
}

// NewResponsiblesRepository creates a new responsibles repository.
func NewResponsiblesRepository(db *sql.DB) *ResponsiblesRepository {
	return &ResponsiblesRepository{db: db}
}

// Create creates a new responsible.
func (r *ResponsiblesRepository) Create(ctx context.Context, resp *domain.Responsible) error {
	query := `
		INSERT INTO responsibles (id, tenant_id, code, name, category_id, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		resp.ID,
		resp.TenantID,
		resp.Code,
		resp.Name,
		resp.CategoryID,
		resp.CreatedAt,
		resp.UpdatedAt,
		resp.DeletedAt,
	)
	return mapWriteError(domain.EntityResponsible, err)
}

// GetByID retrieves a responsible of the tenant, including soft-deleted ones.
func (r *ResponsiblesRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.Responsible, error) {
	query := `SELECT ` + responsibleColumns + ` FROM responsibles WHERE tenant_id = $1 AND id = $2`

	resp, err := scanResponsible(r.db.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		return nil, mapReadError(domain.EntityResponsible, err)
	}
	return resp, nil
}

// Update writes every mutable column of a responsible in its tenant.
func (r *ResponsiblesRepository) Update(ctx context.Context, resp *domain.Responsible) error {
	query := `
		UPDATE responsibles
		SET code = $1, name = $2, category_id = $3, updated_at = $4, deleted_at = $5
		WHERE tenant_id = $6 AND id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		resp.Code,
		resp.Name,
		resp.CategoryID,
		resp.UpdatedAt,
		resp.DeletedAt,
		resp.TenantID,
		resp.ID,
	)
	if err != nil {
		return mapWriteError(domain.EntityResponsible, err)
	}
	return requireAffected(domain.EntityResponsible, result)
}

// List retrieves one page of the tenant's responsibles.
func (r *ResponsiblesRepository) List(ctx context.Context, filter domain.ResponsibleFilter, page domain.PageRequest) ([]*domain.Responsible, error) {
	w := responsibleWhere(filter)
	query := `SELECT ` + responsibleColumns + ` FROM responsibles` + w.sql() + w.page(page, responsibleSorts)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*domain.Responsible
	for rows.Next() {
		resp, err := scanResponsible(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, resp)
	}

	return list, rows.Err()
}

// Count counts the tenant's responsibles matching the filter.
func (r *ResponsiblesRepository) Count(ctx context.Context, filter domain.ResponsibleFilter) (int, error) {
	w := responsibleWhere(filter)
	query := `SELECT COUNT(*) FROM responsibles` + w.sql()

	var n int
	if err := r.db.QueryRowContext(ctx, query, w.args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func responsibleWhere(f domain.ResponsibleFilter) *whereBuilder {
	w := &whereBuilder{}
	// Always present, even when empty, so a missing tenant matches nothing.
	w.add("tenant_id = ?", f.TenantID)
	w.scope(f.Scope)
	w.search(f.Search, "code", "name")
	if f.Code != nil {
		w.add("code = ?", *f.Code)
	}
	if f.Name != nil {
		w.add("name = ?", *f.Name)
	}
	if f.CategoryID != nil {
		w.add("category_id = ?", *f.CategoryID)
	}
	if f.HasCategory != nil {
		w.add(nullCheck("category_id", *f.HasCategory))
	}
	if f.ExcludeID != nil {
		w.add("id <> ?", *f.ExcludeID)
	}
	return w
}

func scanResponsible(row rowScanner) (*domain.Responsible, error) {
	var resp domain.Responsible
	err := row.Scan(
		&resp.ID,
		&resp.TenantID,
		&resp.Code,
		&resp.Name,
		&resp.CategoryID,
		&resp.CreatedAt,
		&resp.UpdatedAt,
		&resp.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
