package permissions

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-access-slim/internal/http/features/common"
	"github.com/tendant/simple-access-slim/internal/httputil"
	"github.com/tendant/simple-access-slim/pkg/domain"
	"github.com/tendant/simple-access-slim/pkg/service"
)

// Handler handles permission requests.
type Handler struct {
	logger  *slog.Logger
	service *service.PermissionService
}

// NewHandler creates a new permission handler.
func NewHandler(logger *slog.Logger, svc *service.PermissionService) *Handler {
	return &Handler{logger: logger, service: svc}
}

// CreateRequest represents a permission create request.
type CreateRequest struct {
	ApplicationID uuid.UUID `json:"application_id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
}

// UpdateRequest represents a partial permission update.
type UpdateRequest struct {
	Code        *string `json:"code"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// Response represents a permission in API responses.
type Response struct {
	ID            uuid.UUID  `json:"id"`
	ApplicationID uuid.UUID  `json:"application_id"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Description   *string    `json:"description"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at"`
}

func toResponse(p *domain.Permission) Response {
	return Response{
		ID:            p.ID,
		ApplicationID: p.ApplicationID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		DeletedAt:     p.DeletedAt,
	}
}

// List returns a page of permissions, optionally for one application.
// GET /v1/permissions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
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
	applicationID, err := common.QueryUUID(r, "application_id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	filter := domain.PermissionFilter{
		Scope:         scope,
		ApplicationID: applicationID,
		Search:        r.URL.Query().Get("search"),
	}
	result, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, common.NewListResponse(result, toResponse))
}

// Create defines a permission on a live application.
// POST /v1/permissions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	p, err := h.service.Create(r.Context(), domain.NewPermissionInput{
		ApplicationID: req.ApplicationID,
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
	})
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	h.logger.Info("permission created", "permission_id", p.ID, "application_id", p.ApplicationID, "code", p.Code)
	httputil.JSON(w, http.StatusCreated, toResponse(p))
}

// Get returns one permission.
// GET /v1/permissions/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathUUID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	includeDeleted, err := common.IncludeDeleted(r)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	p, err := h.service.Get(r.Context(), id, includeDeleted)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(p))
}

// Update applies a partial update.
// PATCH /v1/permissions/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathUUID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	var req UpdateRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	p, err := h.service.Update(r.Context(), id, domain.UpdatePermissionInput{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(p))
}

// Delete soft-deletes a permission.
// DELETE /v1/permissions/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathUUID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	p, err := h.service.Delete(r.Context(), id)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	h.logger.Info("permission deleted", "permission_id", p.ID)
	httputil.JSON(w, http.StatusOK, toResponse(p))
}

// Restore brings a soft-deleted permission back.
// POST /v1/permissions/{id}/restore
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathUUID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	p, err := h.service.Restore(r.Context(), id)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	h.logger.Info("permission restored", "permission_id", p.ID)
	httputil.JSON(w, http.StatusOK, toResponse(p))
}
