// Package models expone la administración de models, themes, settings y
// usuarios del back office.
package models

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	httperrors "github.com/dropDatabas3/musenest/internal/httpx/errors"
	"github.com/dropDatabas3/musenest/internal/httpx/helpers"
	"github.com/dropDatabas3/musenest/internal/httpx/middlewares"
	svcmodels "github.com/dropDatabas3/musenest/internal/httpx/services/models"
	svcpublic "github.com/dropDatabas3/musenest/internal/httpx/services/public"
	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

// Controller maneja los endpoints de administración de models.
type Controller struct {
	service *svcmodels.Service
	public  *svcpublic.Service
}

func NewController(service *svcmodels.Service, public *svcpublic.Service) *Controller {
	return &Controller{service: service, public: public}
}

// Create maneja POST /api/v1/admin/models (solo owner).
func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Models.Create"))

	var req dto.CreateModelRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	m, err := c.service.Create(ctx, req)
	if err != nil {
		log.Debug("model create failed", logger.Err(err))
		writeModelsError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, m)
}

// List maneja GET /api/v1/admin/models.
func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	p := helpers.ParsePage(r)
	items, total, err := c.service.List(r.Context(), core.ListParams{Limit: p.PerPage, Offset: p.Offset()})
	if err != nil {
		writeModelsError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.NewPagedResponse(items, total, p))
}

// Get maneja GET /api/v1/admin/models/{id}.
func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	m, err := c.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeModelsError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, m)
}

// Update maneja PATCH /api/v1/admin/models/{id}.
func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateModelRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	m, err := c.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeModelsError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, m)
}

// SetStatus maneja PUT /api/v1/admin/models/{id}/status.
func (c *Controller) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.SetModelStatusRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := c.service.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		writeModelsError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListThemes maneja GET /api/v1/admin/themes.
func (c *Controller) ListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := c.service.ListThemes(r.Context())
	if err != nil {
		writeModelsError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, themes)
}

// PreviewTheme maneja GET /api/v1/admin/themes/{slug}/preview?page=home.
// Renderiza el sitio del model de la sesión con ese theme sin asignarlo.
func (c *Controller) PreviewTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	m, err := c.service.Get(ctx, middlewares.GetModelID(ctx))
	if err != nil {
		writeModelsError(w, err)
		return
	}
	html, err := c.public.PreviewTheme(ctx, m, chi.URLParam(r, "slug"), r.URL.Query().Get("page"))
	if err != nil {
		if errors.Is(err, svcpublic.ErrUnknownPage) {
			httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("page"))
			return
		}
		writeModelsError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// settingsETag serializa los settings de forma estable para el ETag.
func settingsETag(settings []core.SiteSetting) string {
	b, _ := json.Marshal(settings)
	return helpers.ETag(b)
}

// ListSettings maneja GET /api/v1/admin/settings. Devuelve todos los
// settings del model con un ETag para el update en bloque.
func (c *Controller) ListSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings, err := c.service.ListSettings(ctx, middlewares.GetModelID(ctx))
	if err != nil {
		writeModelsError(w, err)
		return
	}
	w.Header().Set("ETag", settingsETag(settings))
	helpers.WriteJSON(w, http.StatusOK, settings)
}

// BulkUpsertSettings maneja PUT /api/v1/admin/settings. Requiere If-Match
// contra el ETag del GET; con ETag viejo responde 412.
func (c *Controller) BulkUpsertSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	modelID := middlewares.GetModelID(ctx)

	if r.Header.Get("If-Match") == "" {
		httperrors.WriteError(w, httperrors.ErrPreconditionRequired)
		return
	}
	current, err := c.service.ListSettings(ctx, modelID)
	if err != nil {
		writeModelsError(w, err)
		return
	}
	if !helpers.IfMatchOK(r, settingsETag(current)) {
		httperrors.WriteError(w, httperrors.ErrPreconditionFailed)
		return
	}

	var req dto.BulkSettingsRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	updated, err := c.service.BulkUpsertSettings(ctx, modelID, req)
	if err != nil {
		writeModelsError(w, err)
		return
	}
	w.Header().Set("ETag", settingsETag(updated))
	helpers.WriteJSON(w, http.StatusOK, updated)
}

// UpsertSetting maneja PUT /api/v1/admin/settings/{key}.
func (c *Controller) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.UpsertSettingRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	st, err := c.service.UpsertSetting(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "key"), req)
	if err != nil {
		writeModelsError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, st)
}

// DeleteSetting maneja DELETE /api/v1/admin/settings/{key}.
func (c *Controller) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := c.service.DeleteSetting(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "key")); err != nil {
		writeModelsError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateUser maneja POST /api/v1/admin/users (owner o admin).
func (c *Controller) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateUserRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	u, err := c.service.CreateUser(ctx, middlewares.GetModelID(ctx), req)
	if err != nil {
		writeModelsError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, u)
}

// ListUsers maneja GET /api/v1/admin/users.
func (c *Controller) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	users, err := c.service.ListUsers(ctx, middlewares.GetModelID(ctx))
	if err != nil {
		writeModelsError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, users)
}

// writeModelsError mapea errores del service a la respuesta HTTP.
func writeModelsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svcmodels.ErrInvalidSlug),
		errors.Is(err, svcmodels.ErrInvalidEmail),
		errors.Is(err, svcmodels.ErrInvalidStatus),
		errors.Is(err, svcmodels.ErrInvalidRole),
		errors.Is(err, svcmodels.ErrInvalidSetting),
		errors.Is(err, svcmodels.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, svcmodels.ErrUnknownTheme):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, svcmodels.ErrSlugTaken):
		httperrors.WriteError(w, httperrors.ErrSlugTaken)
	case errors.Is(err, svcmodels.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrAlreadyExists.WithDetail(err.Error()))
	case errors.Is(err, svcmodels.ErrWeakPassword):
		httperrors.WriteError(w, httperrors.ErrPasswordTooWeak)
	case errors.Is(err, core.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	default:
		httperrors.WriteError(w, err)
	}
}
