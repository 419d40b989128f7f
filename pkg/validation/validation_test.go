package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

func stringPtr(s string) *string { return &s }

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trims", input: "  billing  ", want: "billing"},
		{name: "strips null bytes", input: "bill\x00ing", want: "billing"},
		{name: "keeps tabs inside", input: "a\tb", want: "a\tb"},
		{name: "empty", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.want {
				t.Errorf("Clean() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplicationName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "simple", input: "billing"},
		{name: "with hyphen", input: "billing-api"},
		{name: "with underscore", input: "billing_v2"},
		{name: "too short", input: "b", wantErr: true},
		{name: "uppercase", input: "Billing", wantErr: true},
		{name: "space", input: "billing api", wantErr: true},
		{name: "leading hyphen", input: "-billing", wantErr: true},
		{name: "double hyphen", input: "billing--api", wantErr: true},
		{name: "too long", input: strings.Repeat("a", MaxApplicationName+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ApplicationName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplicationName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalid) {
				t.Errorf("error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestResponsibleCode(t *testing.T) {
	valid := []string{"OPS-01", "ops.team", "A", "x_1"}
	invalid := []string{"", "-OPS", "OPS 01", "OPS/01", strings.Repeat("A", MaxResponsibleCode+1)}

	for _, code := range valid {
		if err := ResponsibleCode(code); err != nil {
			t.Errorf("ResponsibleCode(%q) error = %v", code, err)
		}
	}
	for _, code := range invalid {
		if err := ResponsibleCode(code); err == nil {
			t.Errorf("ResponsibleCode(%q) error = nil, want invalid", code)
		}
	}
}

func TestPermissionCode(t *testing.T) {
	valid := []string{"invoices:read", "admin", "reports.export-csv"}
	invalid := []string{"", "Invoices:Read", "invoices::read", ":read", "read:"}

	for _, code := range valid {
		if err := PermissionCode(code); err != nil {
			t.Errorf("PermissionCode(%q) error = %v", code, err)
		}
	}
	for _, code := range invalid {
		if err := PermissionCode(code); err == nil {
			t.Errorf("PermissionCode(%q) error = nil, want invalid", code)
		}
	}
}

func TestValidateStringLength_CountsRunes(t *testing.T) {
	// 150 multi-byte runes fit even though the byte length is larger.
	if err := ValidateStringLength("display_name", strings.Repeat("é", 150), 1, 150); err != nil {
		t.Errorf("ValidateStringLength() error = %v", err)
	}

	err := ValidateStringLength("display_name", "", 1, 150)
	var de *domain.Error
	if !errors.As(err, &de) || de.Field != "display_name" || de.Reason != "is required" {
		t.Errorf("ValidateStringLength(empty) = %v, want display_name is required", err)
	}
}

func TestNewApplication(t *testing.T) {
	in := domain.NewApplicationInput{
		Name:        "  billing ",
		DisplayName: " Billing App ",
		Description: stringPtr("   "),
	}
	if err := NewApplication(&in); err != nil {
		t.Fatalf("NewApplication() error = %v", err)
	}
	if in.Name != "billing" || in.DisplayName != "Billing App" {
		t.Errorf("cleaned input = %+v", in)
	}
	if in.Description != nil {
		t.Errorf("blank description = %q, want nil", *in.Description)
	}

	missing := domain.NewApplicationInput{Name: "billing"}
	err := NewApplication(&missing)
	var de *domain.Error
	if !errors.As(err, &de) || de.Field != "display_name" {
		t.Errorf("NewApplication(no display name) = %v, want invalid display_name", err)
	}
}

func TestUpdateApplication_EmptyDescriptionKept(t *testing.T) {
	in := domain.UpdateApplicationInput{Description: stringPtr("  ")}
	if err := UpdateApplication(&in); err != nil {
		t.Fatalf("UpdateApplication() error = %v", err)
	}
	if in.Description == nil || *in.Description != "" {
		t.Errorf("Description = %v, want pointer to empty string", in.Description)
	}

	bad := domain.UpdateApplicationInput{DisplayName: stringPtr(" ")}
	if err := UpdateApplication(&bad); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("UpdateApplication(blank display name) = %v, want ErrInvalid", err)
	}
}

func TestUpdateResponsible_CategoryConflict(t *testing.T) {
	id := uuid.New()
	in := domain.UpdateResponsibleInput{CategoryID: &id, ClearCategory: true}
	err := UpdateResponsible(&in)

	var de *domain.Error
	if !errors.As(err, &de) || de.Field != "category_id" {
		t.Errorf("UpdateResponsible() = %v, want invalid category_id", err)
	}
}

func TestNewPermission(t *testing.T) {
	tests := []struct {
		name      string
		in        domain.NewPermissionInput
		wantField string
	}{
		{name: "valid", in: domain.NewPermissionInput{ApplicationID: uuid.New(), Code: "invoices:read", Name: "Read"}},
		{name: "missing application", in: domain.NewPermissionInput{Code: "invoices:read", Name: "Read"}, wantField: "application_id"},
		{name: "bad code", in: domain.NewPermissionInput{ApplicationID: uuid.New(), Code: "Invoices", Name: "Read"}, wantField: "code"},
		{name: "missing name", in: domain.NewPermissionInput{ApplicationID: uuid.New(), Code: "invoices:read"}, wantField: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPermission(&tt.in)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("NewPermission() error = %v", err)
				}
				return
			}
			var de *domain.Error
			if !errors.As(err, &de) || de.Field != tt.wantField {
				t.Errorf("NewPermission() = %v, want invalid %s", err, tt.wantField)
			}
		})
	}
}

func TestGrant(t *testing.T) {
	in := domain.GrantInput{UserID: " alice ", PermissionID: uuid.New(), GrantedBy: stringPtr(" ")}
	if err := Grant(&in); err != nil {
		t.Fatalf("Grant() error = %v", err)
	}
	if in.UserID != "alice" || in.GrantedBy != nil {
		t.Errorf("cleaned grant = %+v", in)
	}

	if err := Grant(&domain.GrantInput{UserID: "alice"}); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("Grant(no permission) = %v, want ErrInvalid", err)
	}
	if err := Grant(&domain.GrantInput{PermissionID: uuid.New()}); !errors.Is(err, domain.ErrInvalid) {
		t.Errorf("Grant(no user) = %v, want ErrInvalid", err)
	}
}
