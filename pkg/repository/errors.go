package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// uniqueIndexes maps the partial unique indexes created by the migrations to
// the entity and field they guard.
var uniqueIndexes = map[string]struct{ entity, field string }{
	"applications_name_live_key":            {domain.EntityApplication, "name"},
	"applications_display_name_live_key":    {domain.EntityApplication, "display_name"},
	"responsibles_tenant_code_live_key":     {domain.EntityResponsible, "code"},
	"responsibles_tenant_name_live_key":     {domain.EntityResponsible, "name"},
	"permissions_application_code_live_key": {domain.EntityPermission, "code"},
	"user_permissions_grant_live_key":       {domain.EntityUserPermission, "permission_id"},
}

// mapWriteError turns a unique_violation raised by the database into a
// DuplicateKey error. This covers two requests that both passed the service's
// pre-check. Other errors are returned untouched.
func mapWriteError(entity string, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		if idx, ok := uniqueIndexes[pqErr.Constraint]; ok {
			return domain.Duplicate(idx.entity, idx.field, "")
		}
		return domain.Duplicate(entity, "key", "")
	}
	return err
}

// mapReadError turns sql.ErrNoRows into a NotFound error for entity.
func mapReadError(entity string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(entity)
	}
	return err
}

// requireAffected reports NotFound when an update touched no rows.
func requireAffected(entity string, result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.NotFound(entity)
	}
	return nil
}
