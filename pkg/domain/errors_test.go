package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_IsMatchesKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "not found", err: NotFound(EntityApplication), target: ErrNotFound},
		{name: "duplicate", err: Duplicate(EntityResponsible, "code", "OPS-01"), target: ErrDuplicateKey},
		{name: "already deleted", err: AlreadyDeleted(EntityPermission), target: ErrAlreadyDeleted},
		{name: "not deleted", err: NotDeleted(EntityUserPermission), target: ErrNotDeleted},
		{name: "invalid", err: Invalid("limit", "must be between 1 and 100"), target: ErrInvalid},
		{name: "wrapped", err: fmt.Errorf("update application: %w", NotFound(EntityApplication)), target: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.target)
			}
		})
	}

	if errors.Is(NotFound(EntityApplication), ErrDuplicateKey) {
		t.Error("NotFound matched ErrDuplicateKey")
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{err: NotFound(EntityResponsible), want: "responsible not found"},
		{err: Duplicate(EntityApplication, "name", "billing"), want: `application with name "billing" already exists`},
		{err: Duplicate(EntityApplication, "name", ""), want: "application with this name already exists"},
		{err: AlreadyDeleted(EntityApplication), want: "application is already deleted"},
		{err: NotDeleted(EntityApplication), want: "application is not deleted"},
		{err: Invalid("page", "must be at least 1"), want: "page: must be at least 1"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf(fmt.Errorf("wrap: %w", Duplicate(EntityApplication, "display_name", "Billing")))
	if !ok || kind != KindDuplicateKey {
		t.Errorf("KindOf() = %q, %v, want duplicate_key", kind, ok)
	}

	if _, ok := KindOf(errors.New("connection refused")); ok {
		t.Error("KindOf() ok = true for a plain error")
	}
	if !IsKind(AlreadyDeleted(EntityApplication), KindAlreadyDeleted) {
		t.Error("IsKind() = false for AlreadyDeleted")
	}
}
