package applications

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

// Handler handles application requests.
type Handler struct {
	logger  *slog.Logger
	service *service.ApplicationService
}

// NewHandler creates a new application handler.
func NewHandler(logger *slog.Logger, svc *service.ApplicationService) *Handler {
	return &Handler{logger: logger, service: svc}
}

// CreateRequest represents an application create request.
type CreateRequest struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// UpdateRequest represents a partial application update. Omitted fields are left unchanged.
type UpdateRequest struct {
	Name        *string `json:"name"`
	DisplayName *string `json:"display_name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// Response represents an application in API responses.
type Response struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name"`
	Description *string    `json:"description"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

func toResponse(app *domain.Application) Response {
	return Response{
		ID:          app.ID,
		Name:        app.Name,
		DisplayName: app.DisplayName,
		Description: app.Description,
		Active:      app.Active,
		CreatedAt:   app.CreatedAt,
		UpdatedAt:   app.UpdatedAt,
		DeletedAt:   app.DeletedAt,
	}
}

// List returns a page of applications.
// GET /v1/applications
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
	active, err := common.QueryBool(r, "active")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	filter := domain.ApplicationFilter{
		Scope:  scope,
		Search: r.URL.Query().Get("search"),
		Active: active,
	}
	result, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	httputil.JSON(w, http.StatusOK, common.NewListResponse(result, toResponse))
}

// Create registers an application.
// POST /v1/applications
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	app, err := h.service.Create(r.Context(), domain.NewApplicationInput{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	h.logger.Info("application created", "application_id", app.ID, "name", app.Name)
	httputil.JSON(w, http.StatusCreated, toResponse(app))
}

// Get returns one application.
// GET /v1/applications/{id}
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

	app, err := h.service.Get(r.Context(), id, includeDeleted)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(app))
}

// Update applies a partial update.
// PATCH /v1/applications/{id}
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

	app, err := h.service.Update(r.Context(), id, domain.UpdateApplicationInput{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Active:      req.Active,
	})
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, toResponse(app))
}

// Delete soft-deletes an application.
// DELETE /v1/applications/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathUUID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	app, err := h.service.Delete(r.Context(), id)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	h.logger.Info("application deleted", "application_id", app.ID)
	httputil.JSON(w, http.StatusOK, toResponse(app))
}

// Restore brings a soft-deleted application back.
// POST /v1/applications/{id}/restore
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathUUID(r, "id")
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	app, err := h.service.Restore(r.Context(), id)
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}

	h.logger.Info("application restored", "application_id", app.ID)
	httputil.JSON(w, http.StatusOK, toResponse(app))
}

// Stats returns aggregate counts.
// GET /v1/applications/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		common.WriteError(w, h.logger, err)
		return
	}
	httputil.JSON(w, http.StatusOK, stats)
}
