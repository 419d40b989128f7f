package domain

import "github.com/google/uuid"

// SortCode orders responsibles and permissions by code.
const SortCode = "code"

// Responsible is a tenant-scoped owner of operational duties.
type Responsible struct {
	ID         uuid.UUID
	TenantID   string
	Code       string
	Name       string
	CategoryID *uuid.UUID
	Lifecycle
}

// NewResponsibleInput holds the fields for creating a responsible.
type NewResponsibleInput struct {
	Code       string
	Name       string
	CategoryID *uuid.UUID
}

// UpdateResponsibleInput holds a partial update. ClearCategory removes the
// category reference.
type UpdateResponsibleInput struct {
	Code          *string
	Name          *string
	CategoryID    *uuid.UUID
	ClearCategory bool
}

// ResponsibleFilter selects responsibles within a single tenant.
type ResponsibleFilter struct {
	TenantID    string
	Scope       DeletedScope
	Search      string // case-insensitive substring over code and name
	Code        *string
	Name        *string
	CategoryID  *uuid.UUID
	HasCategory *bool
	ExcludeID   *uuid.UUID
}

// ResponsibleStats are aggregate counts for one tenant.
type ResponsibleStats struct {
	Total           int `json:"total"`
	Live            int `json:"live"`
	Deleted         int `json:"deleted"`
	WithCategory    int `json:"with_category"`
	WithoutCategory int `json:"without_category"`
}
