package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

const applicationColumns = `id, name, display_name, description, active, created_at, updated_at, deleted_at`

var applicationSorts = map[string]string{
	domain.SortCreatedAt:   "created_at",
	domain.SortUpdatedAt:   "updated_at",
	domain.SortName:        "name",
	domain.SortDisplayName: "display_name",
}

// ApplicationsRepository handles application persistence.
type ApplicationsRepository struct {
	db *sql.DB
}

// NewApplicationsRepository creates a new applications repository.
func NewApplicationsRepository(db *sql.DB) *ApplicationsRepository {
	return &ApplicationsRepository{db: db}
}

// Create creates a new application.
func (r *ApplicationsRepository) Create(ctx context.Context, app *domain.Application) error {
	return r.CreateTx(ctx, r.db, app)
}

// CreateTx creates a new application within a transaction.
func (r *ApplicationsRepository) CreateTx(ctx context.Context, q Querier, app *domain.Application) error {
	query := `
		INSERT INTO applications (id, name, display_name, description, active, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := q.ExecContext(ctx, query,
		app.ID,
		app.Name,
		app.DisplayName,
		app.Description,
		app.Active,
		app.CreatedAt,
		app.UpdatedAt,
		app.DeletedAt,
	)
	return mapWriteError(domain.EntityApplication, err)
}

// GetByID retrieves an application by ID, including soft-deleted ones.
func (r *ApplicationsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	app, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapReadError(domain.EntityApplication, err)
	}
	return app, nil
}

// Update writes every mutable column, including the lifecycle timestamps.
func (r *ApplicationsRepository) Update(ctx context.Context, app *domain.Application) error {
	query := `
		UPDATE applications
		SET name = $1, display_name = $2, description = $3, active = $4, updated_at = $5, deleted_at = $6
		WHERE id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		app.Name,
		app.DisplayName,
		app.Description,
		app.Active,
		app.UpdatedAt,
		app.DeletedAt,
		app.ID,
	)
	if err != nil {
		return mapWriteError(domain.EntityApplication, err)
	}
	return requireAffected(domain.EntityApplication, result)
}

// List retrieves one page of applications matching the filter.
func (r *ApplicationsRepository) List(ctx context.Context, filter domain.ApplicationFilter, page domain.PageRequest) ([]*domain.Application, error) {
	w := applicationWhere(filter)
	query := `SELECT ` + applicationColumns + ` FROM applications` + w.sql() + w.page(page, applicationSorts)

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	return apps, rows.Err()
}

// Count counts applications matching the filter.
func (r *ApplicationsRepository) Count(ctx context.Context, filter domain.ApplicationFilter) (int, error) {
	w := applicationWhere(filter)
	query := `SELECT COUNT(*) FROM applications` + w.sql()

	var n int
	if err := r.db.QueryRowContext(ctx, query, w.args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func applicationWhere(f domain.ApplicationFilter) *whereBuilder {
	w := &whereBuilder{}
	w.scope(f.Scope)
	w.search(f.Search, "name", "display_name", "description")
	if f.Name != nil {
		w.add("name = ?", *f.Name)
	}
	if f.DisplayName != nil {
		w.add("display_name = ?", *f.DisplayName)
	}
	if f.Active != nil {
		w.add("active = ?", *f.Active)
	}
	if f.HasDescription != nil {
		w.add(nullCheck("description", *f.HasDescription))
	}
	if f.ExcludeID != nil {
		w.add("id <> ?", *f.ExcludeID)
	}
	return w
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*domain.Application, error) {
	var app domain.Application
	err := row.Scan(
		&app.ID,
		&app.Name,
		&app.DisplayName,
		&app.Description,
		&app.Active,
		&app.CreatedAt,
		&app.UpdatedAt,
		&app.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}
