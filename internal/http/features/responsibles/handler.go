package responsibles

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

// Handler handles responsible requests for the caller's tenant.
type Handler struct {
	logger  *slog.Logger
	service *service.ResponsibleService
}

// NewHandler creates a new responsible handler.
func NewHandler(logger *slog.Logger, svc *service.ResponsibleService) *Handler {
	return &Handler{logger: logger, service: svc}
}

// CreateRequest represents a responsible create request.
type CreateRequest struct {
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	CategoryID *uuid.UUID `json:"category_id"`
}

// UpdateRequest is a partial update. Set clear_category to drop the category.
type UpdateRequest struct {
	Code          *string    `json:"code"`
	Name          *string    `json:"name"`
	CategoryID    *uuid.UUID `json:"category_id"`
	ClearCategory bool       `json:"clear_category"`
}

// Response represents a responsible in API responses.
type Response struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   string     `json:"tenant_id"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	CategoryID *uuid.UUID `json:"category_id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at"`
}

func toResponse(r *domain.Responsible) Response {
	return Response{
		ID:         r.ID,
		TenantID:   r.TenantID,
		Code:       r.Code,
		Name:       r.Name,
		CategoryID: r.CategoryID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		DeletedAt:  r.DeletedAt,
	}
}

// List returns a page of the caller's responsibles.
// GET /v1/responsibles
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
	categoryID, err := common.QueryUUID(r, "category_id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	hasCategory, err := common.QueryBool(r, "has_category")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	filter := domain.ResponsibleFilter{
		Scope:       scope,
		Search:      r.URL.Query().Get("search"),
		CategoryID:  categoryID,
		HasCategory: hasCategory,
	}
	result, err := h.service.List(r.Context(), tenantID, filter, page)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, common.NewListResponse(result, toResponse))
}

// Create registers a responsible in the caller's tenant.
// POST /v1/responsibles
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := common.RequireTenant(w, r)
	if !ok {
		return
	}
	var req CreateRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	resp, err := h.service.Create(r.Context(), tenantID, domain.NewResponsibleInput{
		Code:       req.Code,
		Name:       req.Name,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	h.logger.Info("responsible created", "tenant_id", tenantID, "responsible_id", resp.ID, "code", resp.Code)
	httputil.JSON(w, http.StatusCreated, toResponse(resp))
}

// Get returns one responsible.
// GET /v1/responsibles/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := common.RequireTenant(w, r)
	if !ok {
		return
	}
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

	resp, err := h.service.Get(r.Context(), tenantID, id, includeDeleted)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(resp))
}

// Update applies a partial update.
// PATCH /v1/responsibles/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := common.RequireTenant(w, r)
	if !ok {
		return
	}
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

	resp, err := h.service.Update(r.Context(), tenantID, id, domain.UpdateResponsibleInput{
		Code:          req.Code,
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
	})
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(resp))
}

// Delete soft-deletes a responsible.
// DELETE /v1/responsibles/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := common.RequireTenant(w, r)
	if !ok {
		return
	}
	id, err := common.PathUUID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	resp, err := h.service.Delete(r.Context(), tenantID, id)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	h.logger.Info("responsible deleted", "tenant_id", tenantID, "responsible_id", resp.ID)
	httputil.JSON(w, http.StatusOK, toResponse(resp))
}

// Restore brings a soft-deleted responsible back.
// POST /v1/responsibles/{id}/restore
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

	resp, err := h.service.Restore(r.Context(), tenantID, id)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	h.logger.Info("responsible restored", "tenant_id", tenantID, "responsible_id", resp.ID)
	httputil.JSON(w, http.StatusOK, toResponse(resp))
}

// Stats returns aggregate counts for the caller's tenant.
// GET /v1/responsibles/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := common.RequireTenant(w, r)
	if !ok {
		return
	}
	stats, err := h.service.Statistics(r.Context(), tenantID)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, stats)
}
