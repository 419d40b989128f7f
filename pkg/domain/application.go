package domain

import (
	"github.com/google/uuid"
)

// Sort keys accepted for applications.
const SortDisplayName = "display_name"

// Application is a registered client system that owns permissions.
type Application struct {
	ID          uuid.UUID
	Name        string
	DisplayName string
	Description *string
	Active      bool
	Lifecycle
}

// NewApplicationInput holds the fields for creating an application.
type NewApplicationInput struct {
	Name        string
	DisplayName string
	Description *string
	Active      *bool // defaults to true
}

// UpdateApplicationInput holds a partial update. Nil fields are left unchanged;
// a Description pointing at an empty string clears it.
type UpdateApplicationInput struct {
	Name        *string
	DisplayName *string
	Description *string
	Active      *bool
}

// ApplicationFilter selects applications for listing and counting.
type ApplicationFilter struct {
	Scope          DeletedScope
	Search         string // case-insensitive substring over name, display name, description
	Name           *string
	DisplayName    *string
	Active         *bool
	HasDescription *bool
	ExcludeID      *uuid.UUID
}

// ApplicationStats are aggregate counts over all applications.
type ApplicationStats struct {
	Total              int `json:"total"`
	Live               int `json:"live"`
	Deleted            int `json:"deleted"`
	Active             int `json:"active"`
	Inactive           int `json:"inactive"`
	WithDescription    int `json:"with_description"`
	WithoutDescription int `json:"without_description"`
}
