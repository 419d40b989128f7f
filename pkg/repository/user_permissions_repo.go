package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

const userPermissionColumns = `id, tenant_id, user_id, permission_id, granted_by, created_at, updated_at, deleted_at`

var userPermissionSorts = map[string]string{
	domain.SortCreatedAt: "created_at",
	domain.SortUpdatedAt: "updated_at",
}

// UserPermissionsRepository handles grant persistence.
type UserPermissionsRepository struct {
	db *sql.DB
}

// NewUserPermissionsRepository creates a new user permissions repository.
func NewUserPermissionsRepository(db *sql.DB) *UserPermissionsRepository {
	return &UserPermissionsRepository{db: db}
}

// Create creates a new grant.
func (r *UserPermissionsRepository) Create(ctx context.Context, up *domain.UserPermission) error {
	query := `
		INSERT INTO user_permissions (id, tenant_id, user_id, permission_id, granted_by, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		up.ID, up.TenantID, up.UserID, up.PermissionID, up.GrantedBy, up.CreatedAt, up.UpdatedAt, up.DeletedAt,
	)
	return mapWriteError(domain.EntityUserPermission, err)
}

// GetByID retrieves a grant of the tenant, including revoked ones.
func (r *UserPermissionsRepository) GetByID(ctx context.Context, tenantID string, id uuid.UUID) (*domain.UserPermission, error) {
	query := `SELECT ` + userPermissionColumns + ` FROM user_permissions WHERE tenant_id = $1 AND id = $2`

	up, err := scanUserPermission(r.db.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		return nil, mapReadError(domain.EntityUserPermission, err)
	}
	return up, nil
}

// Update writes the lifecycle columns of a grant.
func (r *UserPermissionsRepository) Update(ctx context.Context, up *domain.UserPermission) error {
	query := `
		UPDATE user_permissions
		SET granted_by = $1, updated_at = $2, deleted_at = $3
		WHERE tenant_id = $4 AND id = $5
	`
	result, err := r.db.ExecContext(ctx, query, up.GrantedBy, up.UpdatedAt, up.DeletedAt, up.TenantID, up.ID)
	if err != nil {
		return mapWriteError(domain.EntityUserPermission, err)
	}
	return requireAffected(domain.EntityUserPermission, result)
}

// List retrieves one page of the tenant's grants.
func (r *UserPermissionsRepository) List(ctx context.Context, filter domain.UserPermissionFilter, page domain.PageRequest) ([]*domain.UserPermission, error) {
	w := userPermissionWhere(filter)
	query := `SELECT ` + userPermissionColumns + ` FROM user_permissions` + w.sql() + w.page(page, userPermissionSorts)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*domain.UserPermission
	for rows.Next() {
		up, err := scanUserPermission(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, up)
	}

	return list, rows.Err()
}

// Count counts the tenant's grants matching the filter.
func (r *UserPermissionsRepository) Count(ctx context.Context, filter domain.UserPermissionFilter) (int, error) {
	w := userPermissionWhere(filter)
	query := `SELECT COUNT(*) FROM user_permissions` + w.sql()

	var n int
	if err := r.db.QueryRowContext(ctx, query, w.args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func userPermissionWhere(f domain.UserPermissionFilter) *whereBuilder {
	w := &whereBuilder{}
	w.add("tenant_id = ?", f.TenantID)
	w.scope(f.Scope)
	if f.UserID != nil {
		w.add("user_id = ?", *f.UserID)
	}
	if f.PermissionID != nil {
		w.add("permission_id = ?", *f.PermissionID)
	}
	return w
}

func scanUserPermission(row rowScanner) (*domain.UserPermission, error) {
	var up domain.UserPermission
	err := row.Scan(
		&up.ID, &up.TenantID, &up.UserID, &up.PermissionID, &up.GrantedBy,
		&up.CreatedAt, &up.UpdatedAt, &up.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &up, nil
}
