package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies business-rule failures. The HTTP layer switches on it
// to pick a status code.
type ErrorKind string

const (
	KindNotFound       ErrorKind = "not_found"
	KindDuplicateKey   ErrorKind = "duplicate_key"
	KindAlreadyDeleted ErrorKind = "already_deleted"
	KindNotDeleted     ErrorKind = "not_deleted"
	KindInvalid        ErrorKind = "invalid"
)

// Sentinel errors, one per kind. errors.Is matches any *Error of the same kind.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrAlreadyDeleted = errors.New("already deleted")
	ErrNotDeleted     = errors.New("not deleted")
	ErrInvalid        = errors.New("invalid input")
)

// Entity names used in error values.
const (
	EntityApplication    = "application"
	EntityResponsible    = "responsible"
	EntityPermission     = "permission"
	EntityUserPermission = "user_permission"
)

// Error is a business-rule rejection.
type Error struct {
	Kind   ErrorKind
	Entity string
	Field  string // offending field for DuplicateKey and Invalid
	Value  string
	Reason string // human readable detail for Invalid
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case KindNotFound:
		return fmt.Sprintf("%s not found", e.Entity)
	case KindDuplicateKey:
		if e.Value != "" {
			return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
		}
		return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
	case KindAlreadyDeleted:
		return fmt.Sprintf("%s is already deleted", e.Entity)
	case KindNotDeleted:
		return fmt.Sprintf("%s is not deleted", e.Entity)
	case KindInvalid:
		if e.Reason != "" {
			return fmt.Sprintf("%s: %s", e.Field, e.Reason)
		}
		return fmt.Sprintf("%s is invalid", e.Field)
	}
	return string(e.Kind)
}

// Is lets errors.Is(err, ErrNotFound) and friends match by kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	return kindSentinel(e.Kind) == target
}

func kindSentinel(kind ErrorKind) error {
	switch kind {
	case KindNotFound:
		return ErrNotFound
	case KindDuplicateKey:
		return ErrDuplicateKey
	case KindAlreadyDeleted:
		return ErrAlreadyDeleted
	case KindNotDeleted:
		return ErrNotDeleted
	case KindInvalid:
		return ErrInvalid
	}
	return nil
}

// NotFound reports a missing (or out-of-scope) entity.
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Entity: entity}
}

// Duplicate reports a live record already holding value in field.
func Duplicate(entity, field, value string) *Error {
	return &Error{Kind: KindDuplicateKey, Entity: entity, Field: field, Value: value}
}

// AlreadyDeleted reports a delete against a soft-deleted entity.
func AlreadyDeleted(entity string) *Error {
	return &Error{Kind: KindAlreadyDeleted, Entity: entity}
}

// NotDeleted reports a restore against a live entity.
func NotDeleted(entity string) *Error {
	return &Error{Kind: KindNotDeleted, Entity: entity}
}

// Invalid reports a validation failure on field.
func Invalid(field, reason string) *Error {
	return &Error{Kind: KindInvalid, Field: field, Reason: reason}
}

// KindOf returns the kind of a business error and false for anything else.
func KindOf(err error) (ErrorKind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// IsKind reports whether err is a business error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
