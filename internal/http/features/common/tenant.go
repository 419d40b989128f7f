package common

import (
	"net/http"

	"github.com/tendant/simple-access-slim/internal/http/middleware"
	"github.com/tendant/simple-access-slim/internal/httputil"
)

// RequireTenant returns the tenant of the authenticated caller. It writes a
// 401 and returns false when the request carries none.
func RequireTenant(w http.ResponseWriter, r *http.Request) (string, bool) {
	tenantID, ok := middleware.GetTenantID(r.Context())
	if !ok {
		httputil.Error(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return tenantID, true
}
