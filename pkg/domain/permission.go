package domain

import "github.com/google/uuid"

// Permission is a named capability defined by an application.
type Permission struct {
	ID            uuid.UUID
	ApplicationID uuid.UUID
	Code          string
	Name          string
	Description   *string
	Lifecycle
}

// NewPermissionInput holds the fields for creating a permission.
type NewPermissionInput struct {
	ApplicationID uuid.UUID
	Code          string
	Name          string
	Description   *string
}

// UpdatePermissionInput holds a partial update.
type UpdatePermissionInput struct {
	Code        *string
	Name        *string
	Description *string
}

// PermissionFilter selects permissions.
type PermissionFilter struct {
	Scope         DeletedScope
	ApplicationID *uuid.UUID
	Search        string
	Code          *string
	ExcludeID     *uuid.UUID
}
