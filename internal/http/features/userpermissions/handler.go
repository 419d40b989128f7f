package userpermissions

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/internal/http/features/common"
	"github.com/tendant/simple-access-slim/internal/http/middleware"
	"github.com/tendant/simple-access-slim/internal/httputil"
	"github.com/tendant/simple-access-slim/pkg/domain"
	"github.com/tendant/simple-access-slim/pkg/service"
)

// Handler handles permission grants for the caller's tenant.
type Handler struct {
	logger  *slog.Logger
	service *service.UserPermissionService
}

// NewHandler creates a new grant handler.
func NewHandler(logger *slog.Logger, svc *service.UserPermissionService) *Handler {
	return &Handler{logger: logger, service: svc}
}

// GrantRequest represents a grant request. The grantor is taken from the token.
type GrantRequest struct {
	UserID       string    `json:"user_id"`
	PermissionID uuid.UUID `json:"permission_id"`
}

// Response represents a grant in API responses. revoked_at is set once the grant is revoked.
type Response struct {
	ID           uuid.UUID  `json:"id"`
	TenantID     string     `json:"tenant_id"`
	UserID       string     `json:"user_id"`
	PermissionID uuid.UUID  `json:"permission_id"`
	GrantedBy    *string    `json:"granted_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	RevokedAt    *time.Time `json:"revoked_at"`
}

// CheckResponse is the result of a permission check.
type CheckResponse struct {
	Allowed bool `json:"allowed"`
}

func toResponse(up *domain.UserPermission) Response {
	return Response{
		ID:           up.ID,
		TenantID:     up.TenantID,
		UserID:       up.UserID,
		PermissionID: up.PermissionID,
		GrantedBy:    up.GrantedBy,
		CreatedAt:    up.CreatedAt,
		UpdatedAt:    up.UpdatedAt,
		RevokedAt:    up.DeletedAt,
	}
}

// List returns a page of grants in the caller's tenant.
// GET /v1/user-permissions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := common.RequireTenant(w, r)
	if !ok {
		return
	}
	page, err := common.PageRequest(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	scope, err := common.Scope(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	permissionID, err := common.QueryUUID(r, "permission_id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	filter := domain.UserPermissionFilter{
		Scope:        scope,
		UserID:       common.QueryString(r, "user_id"),
		PermissionID: permissionID,
	}
	result, err := h.service.List(r.Context(), tenantID, filter, page)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, common.NewListResponse(result, toResponse))
}

// Grant gives a user a permission. The token subject is recorded as the
// grantor.
// POST /v1/user-permissions
func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := common.RequireTenant(w, r)
	if !ok {
		return
	}
	var req GrantRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	in := domain.GrantInput{UserID: req.UserID, PermissionID: req.PermissionID}
	if subject, ok := middleware.GetSubject(r.Context()); ok {
		in.GrantedBy = &subject
	}

	up, err := h.service.Grant(r.Context(), tenantID, in)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	h.logger.Info("permission granted",
		"tenant_id", tenantID,
		"user_id", up.UserID,
		"permission_id", up.PermissionID,
	)
	httputil.JSON(w, http.StatusCreated, toResponse(up))
}

// Revoke soft-deletes a grant.
// DELETE /v1/user-permissions/{id}
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := common.RequireTenant(w, r)
	if !ok {
		return
	}
	id, err := common.PathUUID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	up, err := h.service.Revoke(r.Context(), tenantID, id)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	h.logger.Info("permission revoked", "tenant_id", tenantID, "user_permission_id", up.ID)
	httputil.JSON(w, http.StatusOK, toResponse(up))
}

// Restore re-activates a revoked grant.
// POST /v1/user-permissions/{id}/restore
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := common.RequireTenant(w, r)
	if !ok {
		return
	}
	id, err := common.PathUUID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	up, err := h.service.Restore(r.Context(), tenantID, id)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(up))
}

// Check reports whether a user holds a live permission.
// GET /v1/user-permissions/check?user_id=&application=&permission=
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := common.RequireTenant(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	allowed, err := h.service.Check(r.Context(), tenantID, q.Get("user_id"), q.Get("application"), q.Get("permission"))
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, CheckResponse{Allowed: allowed})
}
