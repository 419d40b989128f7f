package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tendant/simple-access-slim/pkg/auth"
)

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: []byte("test-secret-key-with-32-characters"),
		Issuer: "simple-access",
	})
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return tokens
}

func TestAuth(t *testing.T) {
	tokens := newTestTokens(t)
	token, err := tokens.Issue("svc-billing", "t1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	var gotTenant, gotSubject string
	handler := Auth(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTenant, _ = GetTenantID(r.Context())
		gotSubject, _ = GetSubject(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid token", header: "Bearer " + token.AccessToken, wantStatus: http.StatusOK},
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTenant, gotSubject = "", ""
			req := httptest.NewRequest(http.MethodGet, "/v1/responsibles", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && (gotTenant != "t1" || gotSubject != "svc-billing") {
				t.Errorf("context = (%q, %q), want (t1, svc-billing)", gotTenant, gotSubject)
			}
		})
	}
}

func TestGetTenantID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := GetTenantID(req.Context()); ok {
		t.Error("GetTenantID() ok = true on empty context")
	}
	ctx := WithTenant(req.Context(), "t2", "alice")
	if tenant, ok := GetTenantID(ctx); !ok || tenant != "t2" {
		t.Errorf("GetTenantID() = (%q, %v), want (t2, true)", tenant, ok)
	}
}
