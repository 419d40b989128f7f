// Package validation cleans and checks request input before it reaches the
// services. Every failure is a domain.Invalid error naming the field.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tendant/simple-access-slim/pkg/domain"
)

var (
	applicationNamePattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)
	responsibleCodePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
	permissionCodePattern  = regexp.MustCompile(`^[a-z0-9]+(?:[:._-][a-z0-9]+)*$`)
)

// Field limits.
const (
	MaxApplicationName = 100
	MaxDisplayName     = 150
	MaxDescription     = 500
	MaxResponsibleCode = 50
	MaxName            = 150
	MaxPermissionCode  = 100
	MaxUserID          = 100
	MaxTenantID        = 100
)

// Clean trims whitespace and removes control characters (except newline and tab).
func Clean(input string) string {
	return strings.TrimSpace(removeControlChars(input))
}

// ValidateStringLength validates that a string is within the specified length
// constraints, counted in runes.
func ValidateStringLength(field, value string, min, max int) error {
	length := utf8.RuneCountInString(value)

	if min > 0 && length < min {
		if min == 1 {
			return domain.Invalid(field, "is required")
		}
		return domain.Invalid(field, fmt.Sprintf("must be at least %d characters long", min))
	}

	if max > 0 && length > max {
		return domain.Invalid(field, fmt.Sprintf("must be at most %d characters long", max))
	}

	return nil
}

// ApplicationName validates a slug-like application name.
func ApplicationName(name string) error {
	if err := ValidateStringLength("name", name, 2, MaxApplicationName); err != nil {
		return err
	}
	if !applicationNamePattern.MatchString(name) {
		return domain.Invalid("name", "must contain lowercase letters, digits, '-' or '_'")
	}
	return nil
}

// ResponsibleCode validates a responsible code.
func ResponsibleCode(code string) error {
	if err := ValidateStringLength("code", code, 1, MaxResponsibleCode); err != nil {
		return err
	}
	if !responsibleCodePattern.MatchString(code) {
		return domain.Invalid("code", "must contain letters, digits, '.', '-' or '_'")
	}
	return nil
}

// PermissionCode validates a permission code such as "invoices:read".
func PermissionCode(code string) error {
	if err := ValidateStringLength("code", code, 1, MaxPermissionCode); err != nil {
		return err
	}
	if !permissionCodePattern.MatchString(code) {
		return domain.Invalid("code", "must contain lowercase letters, digits, ':', '.', '-' or '_'")
	}
	return nil
}

// TenantID validates a tenant identifier taken from the caller's context.
func TenantID(tenantID string) error {
	return ValidateStringLength("tenant_id", tenantID, 1, MaxTenantID)
}

// UserID validates a user identifier.
func UserID(userID string) error {
	return ValidateStringLength("user_id", userID, 1, MaxUserID)
}

// cleanOptional cleans *s in place. An optional field that is empty after
// cleaning is normalized to nil.
func cleanOptional(s **string) {
	if *s == nil {
		return
	}
	v := Clean(**s)
	if v == "" {
		*s = nil
		return
	}
	*s = &v
}

// cleanPatch cleans *s in place but keeps an empty value, which callers use
// to mean "clear this field".
func cleanPatch(s *string) {
	if s != nil {
		*s = Clean(*s)
	}
}

// removeControlChars removes control characters except newline and tab.
func removeControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		// Keep newline, carriage return, and tab
		if r == '\n' || r == '\r' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}
