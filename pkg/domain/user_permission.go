package domain

import "github.com/google/uuid"

// UserPermission grants a permission to a user inside a tenant. A revoked
// grant is a soft-deleted one.
type UserPermission struct {
	ID           uuid.UUID
	TenantID     string
	UserID       string
	PermissionID uuid.UUID
	GrantedBy    *string
	Lifecycle
}

// GrantInput holds the fields for granting a permission.
type GrantInput struct {
	UserID       string
	PermissionID uuid.UUID
	GrantedBy    *string
}

// UserPermissionFilter selects grants within a tenant.
type UserPermissionFilter struct {
	TenantID     string
	Scope        DeletedScope
	UserID       *string
	PermissionID *uuid.UUID
}
