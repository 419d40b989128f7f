package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

const permissionColumns = `id, application_id, code, name, description, created_at, updated_at, deleted_at`

var permissionSorts = map[string]string{
	domain.SortCreatedAt: "created_at",
	domain.SortUpdatedAt: "updated_at",
	domain.SortName:      "name",
	domain.SortCode:      "code",
}

// PermissionsRepository handles permission persistence.
type PermissionsRepository struct {
	db *sql.DB
}

// NewPermissionsRepository creates a new permissions repository.
func NewPermissionsRepository(db *sql.DB) *PermissionsRepository {
	return &PermissionsRepository{db: db}
}

// Create creates a new permission.
func (r *PermissionsRepository) Create(ctx context.Context, p *domain.Permission) error {
	query := `
		INSERT INTO permissions (id, application_id, code, name, description, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.ApplicationID, p.Code, p.Name, p.Description, p.CreatedAt, p.UpdatedAt, p.DeletedAt,
	)
	return mapWriteError(domain.EntityPermission, err)
}

// GetByID retrieves a permission by ID, including soft-deleted ones.
func (r *PermissionsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Permission, error) {
	query := `SELECT ` + permissionColumns + ` FROM permissions WHERE id = $1`

	p, err := scanPermission(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapReadError(domain.EntityPermission, err)
	}
	return p, nil
}

// Update writes every mutable column of a permission.
func (r *PermissionsRepository) Update(ctx context.Context, p *domain.Permission) error {
	query := `
		UPDATE permissions
		SET code = $1, name = $2, description = $3, updated_at = $4, deleted_at = $5
		WHERE id = $6
	`
	result, err := r.db.ExecContext(ctx, query,
		p.Code, p.Name, p.Description, p.UpdatedAt, p.DeletedAt, p.ID,
	)
	if err != nil {
		return mapWriteError(domain.EntityPermission, err)
	}
	return requireAffected(domain.EntityPermission, result)
}

// List retrieves one page of permissions.
func (r *PermissionsRepository) List(ctx context.Context, filter domain.PermissionFilter, page domain.PageRequest) ([]*domain.Permission, error) {
	w := permissionWhere(filter)
	query := `SELECT ` + permissionColumns + ` FROM permissions` + w.sql() + w.page(page, permissionSorts)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*domain.Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	return list, rows.Err()
}

// Count counts permissions matching the filter.
func (r *PermissionsRepository) Count(ctx context.Context, filter domain.PermissionFilter) (int, error) {
	w := permissionWhere(filter)
	query := `SELECT COUNT(*) FROM permissions` + w.sql()

	var n int
	if err := r.db.QueryRowContext(ctx, query, w.args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func permissionWhere(f domain.PermissionFilter) *whereBuilder {
	w := &whereBuilder{}
	w.scope(f.Scope)
	w.search(f.Search, "code", "name")
	if f.ApplicationID != nil {
		w.add("application_id = ?", *f.ApplicationID)
	}
	if f.Code != nil {
		w.add("code = ?", *f.Code)
	}
	if f.ExcludeID != nil {
		w.add("id <> ?", *f.ExcludeID)
	}
	return w
}

func scanPermission(row rowScanner) (*domain.Permission, error) {
	var p domain.Permission
	err := row.Scan(
		&p.ID, &p.ApplicationID, &p.Code, &p.Name, &p.Description,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
