// Package public expone el sitio renderizado de cada model, el contenido
// JSON de solo lectura y el formulario de contacto.
package public

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	httperrors "github.com/dropDatabas3/musenest/internal/httpx/errors"
	"github.com/dropDatabas3/musenest/internal/httpx/helpers"
	"github.com/dropDatabas3/musenest/internal/httpx/middlewares"
	svcgallery "github.com/dropDatabas3/musenest/internal/httpx/services/gallery"
	svc "github.com/dropDatabas3/musenest/internal/httpx/services/public"
	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

// Controller maneja las rutas públicas. El model ya viene resuelto por
// slug en el contexto (middleware ResolveModel).
type Controller struct {
	service *svc.Service
	gallery *svcgallery.Service
}

func NewController(service *svc.Service, gallery *svcgallery.Service) *Controller {
	return &Controller{service: service, gallery: gallery}
}

// RenderPage maneja GET /m/{slug} y GET /m/{slug}/{page}.
func (c *Controller) RenderPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	m := middlewares.GetModel(ctx)
	if m == nil {
		httperrors.WriteError(w, httperrors.ErrModelNotFound)
		return
	}

	html, err := c.service.RenderPage(ctx, m, chi.URLParam(r, "page"))
	if err != nil {
		if errors.Is(err, svc.ErrUnknownPage) {
			httperrors.WriteError(w, httperrors.ErrNotFound)
			return
		}
		logger.From(ctx).Error("page render failed", logger.Err(err))
		httperrors.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// ServeImage maneja GET /m/{slug}/images/{id}. Solo sirve imágenes
// aprobadas del model.
func (c *Controller) ServeImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	m := middlewares.GetModel(ctx)
	if m == nil {
		httperrors.WriteError(w, httperrors.ErrModelNotFound)
		return
	}

	img, data, err := c.gallery.OpenImage(ctx, m.ID, chi.URLParam(r, "id"))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrImageNotFound)
		return
	}
	if img.Status != core.ImageStatusApproved {
		httperrors.WriteError(w, httperrors.ErrImageNotFound)
		return
	}
	w.Header().Set("Content-Type", img.MimeType)
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(data)
}

// Gallery maneja GET /api/v1/public/{slug}/gallery.
func (c *Controller) Gallery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	m := middlewares.GetModel(ctx)
	sections, err := c.service.Gallery(ctx, m.ID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, sections)
}

// Testimonials maneja GET /api/v1/public/{slug}/testimonials.
func (c *Controller) Testimonials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	m := middlewares.GetModel(ctx)
	p := helpers.ParsePage(r)
	items, total, err := c.service.Testimonials(ctx, m.ID, core.ListParams{Limit: p.PerPage, Offset: p.Offset()})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.NewPagedResponse(items, total, p))
}

// Rates maneja GET /api/v1/public/{slug}/rates.
func (c *Controller) Rates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	m := middlewares.GetModel(ctx)
	items, err := c.service.Rates(ctx, m.ID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, items)
}

// FAQ maneja GET /api/v1/public/{slug}/faq.
func (c *Controller) FAQ(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	m := middlewares.GetModel(ctx)
	items, err := c.service.FAQ(ctx, m.ID)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, items)
}

// Calendar maneja GET /api/v1/public/{slug}/calendar?from=&to=.
func (c *Controller) Calendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	m := middlewares.GetModel(ctx)

	now := time.Now().UTC()
	from, to := now, now.AddDate(0, 3, 0)
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("from"))
			return
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("to"))
			return
		}
		to = t
	}

	events, err := c.service.Calendar(ctx, m.ID, from, to)
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, events)
}

// SubmitInquiry maneja POST /api/v1/public/{slug}/inquiries (rate limited).
func (c *Controller) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	m := middlewares.GetModel(ctx)

	var req dto.InquiryRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	q, err := c.service.SubmitInquiry(ctx, m, req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields)
		case errors.Is(err, svc.ErrInvalidEmail):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("email"))
		default:
			httperrors.WriteError(w, err)
		}
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, dto.InquiryResponse{ID: q.ID, Status: q.Status})
}
