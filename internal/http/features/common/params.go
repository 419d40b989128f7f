package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/pkg/domain"
)

// DecodeJSON decodes the request body into dst. An empty body is invalid.
// A body over the configured size limit returns the *http.MaxBytesError.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return domain.Invalid("body", "is required")
		}
		return domain.Invalid("body", "invalid JSON")
	}
	return nil
}

// PathUUID parses a UUID URL parameter.
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, domain.Invalid(name, "must be a valid UUID")
	}
	return id, nil
}

// QueryUUID parses an optional UUID query parameter.
func QueryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.Invalid(name, "must be a valid UUID")
	}
	return &id, nil
}

// QueryString returns an optional, trimmed query parameter.
func QueryString(r *http.Request, name string) *string {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	return &raw
}

// QueryBool parses an optional boolean query parameter.
func QueryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.Invalid(name, "must be true or false")
	}
	return &b, nil
}

// Scope reads include_deleted and only_deleted. only_deleted wins when both
// are set.
func Scope(r *http.Request) (domain.DeletedScope, error) {
	only, err := QueryBool(r, "only_deleted")
	if err != nil {
		return domain.ScopeLive, err
	}
	if only != nil && *only {
		return domain.ScopeDeleted, nil
	}
	include, err := QueryBool(r, "include_deleted")
	if err != nil {
		return domain.ScopeLive, err
	}
	if include != nil && *include {
		return domain.ScopeAll, nil
	}
	return domain.ScopeLive, nil
}

// IncludeDeleted reads the include_deleted flag used by single-record reads.
func IncludeDeleted(r *http.Request) (bool, error) {
	b, err := QueryBool(r, "include_deleted")
	if err != nil || b == nil {
		return false, err
	}
	return *b, nil
}

// PageRequest reads page, limit, sort and order. Bounds are checked here;
// the sort whitelist is checked by the service.
func PageRequest(r *http.Request) (domain.PageRequest, error) {
	q := r.URL.Query()
	req := domain.DefaultPageRequest()

	var err error
	if req.Page, err = queryInt(q.Get("page"), "page", domain.DefaultPage); err != nil {
		return req, err
	}
	if req.Limit, err = queryInt(q.Get("limit"), "limit", domain.DefaultLimit); err != nil {
		return req, err
	}
	if sort := strings.TrimSpace(q.Get("sort")); sort != "" {
		req.Sort = sort
	}
	switch strings.ToLower(q.Get("order")) {
	case "", "desc":
		req.Desc = true
	case "asc":
		req.Desc = false
	default:
		return req, domain.Invalid("order", "must be asc or desc")
	}

	return req, req.Validate()
}

func queryInt(raw, field string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Invalid(field, fmt.Sprintf("must be a number, got %q", raw))
	}
	return n, nil
}
