package common

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "valid", body: `{"name":"billing"}`},
		{name: "empty", body: "", wantField: "body"},
		{name: "malformed", body: `{"name":`, wantField: "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst struct {
				Name string `json:"name"`
			}
			err := DecodeJSON(req, &dst)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("DecodeJSON() error = %v", err)
				}
				if dst.Name != "billing" {
					t.Errorf("Name = %q", dst.Name)
				}
				return
			}
			var de *domain.Error
			if !errors.As(err, &de) || de.Kind != domain.KindInvalid || de.Field != tt.wantField {
				t.Errorf("DecodeJSON() error = %v, want invalid %s", err, tt.wantField)
			}
		})
	}
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("a", 100)+`"}`))
	req.Body = http.MaxBytesReader(rec, req.Body, 16)

	var dst map[string]any
	err := DecodeJSON(req, &dst)
	if _, ok := domain.KindOf(err); ok {
		t.Fatalf("DecodeJSON() error = %v, want the max bytes error", err)
	}

	WriteError(rec, nil, err)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestPathUUID(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "valid", raw: id.String()},
		{name: "garbage", raw: "not-a-uuid", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.raw)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			got, err := PathUUID(req, "id")
			if tt.wantErr {
				if !domain.IsKind(err, domain.KindInvalid) {
					t.Errorf("PathUUID() error = %v, want invalid", err)
				}
				return
			}
			if err != nil || got != id {
				t.Errorf("PathUUID() = %v, %v", got, err)
			}
		})
	}
}

func TestScope(t *testing.T) {
	tests := []struct {
		query   string
		want    domain.DeletedScope
		wantErr bool
	}{
		{query: "", want: domain.ScopeLive},
		{query: "include_deleted=true", want: domain.ScopeAll},
		{query: "include_deleted=false", want: domain.ScopeLive},
		{query: "only_deleted=true", want: domain.ScopeDeleted},
		{query: "only_deleted=true&include_deleted=true", want: domain.ScopeDeleted},
		{query: "include_deleted=maybe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got, err := Scope(req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Scope() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Scope() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPageRequest(t *testing.T) {
	tests := []struct {
		query     string
		want      domain.PageRequest
		wantField string
	}{
		{query: "", want: domain.PageRequest{Page: 1, Limit: 10, Sort: domain.SortCreatedAt, Desc: true}},
		{query: "page=2&limit=50&sort=name&order=asc", want: domain.PageRequest{Page: 2, Limit: 50, Sort: domain.SortName}},
		{query: "order=DESC", want: domain.PageRequest{Page: 1, Limit: 10, Sort: domain.SortCreatedAt, Desc: true}},
		{query: "page=0", wantField: "page"},
		{query: "limit=101", wantField: "limit"},
		{query: "limit=0", wantField: "limit"},
		{query: "page=abc", wantField: "page"},
		{query: "order=sideways", wantField: "order"},
		{query: "page=9223372036854775807", wantField: "page"},
		{query: "page=4611686018427387905&limit=4", wantField: "page"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			got, err := PageRequest(req)
			if tt.wantField != "" {
				var de *domain.Error
				if !errors.As(err, &de) || de.Field != tt.wantField {
					t.Errorf("PageRequest() error = %v, want invalid %s", err, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("PageRequest() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("PageRequest() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestQueryParams(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/?search=+ops+&active=false&application_id="+id.String()+"&bad_id=x", nil)

	if s := QueryString(req, "search"); s == nil || *s != "ops" {
		t.Errorf("QueryString(search) = %v", s)
	}
	if s := QueryString(req, "missing"); s != nil {
		t.Errorf("QueryString(missing) = %q, want nil", *s)
	}

	b, err := QueryBool(req, "active")
	if err != nil || b == nil || *b {
		t.Errorf("QueryBool(active) = %v, %v", b, err)
	}

	got, err := QueryUUID(req, "application_id")
	if err != nil || got == nil || *got != id {
		t.Errorf("QueryUUID(application_id) = %v, %v", got, err)
	}
	if _, err := QueryUUID(req, "bad_id"); !domain.IsKind(err, domain.KindInvalid) {
		t.Errorf("QueryUUID(bad_id) error = %v, want invalid", err)
	}
	if got, err := QueryUUID(req, "missing"); got != nil || err != nil {
		t.Errorf("QueryUUID(missing) = %v, %v", got, err)
	}
}
