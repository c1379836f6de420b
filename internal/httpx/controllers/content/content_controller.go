// Package content expone la administración de testimonials, rate cards,
// calendario y FAQ.
package content

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	httperrors "github.com/dropDatabas3/musenest/internal/httpx/errors"
	"github.com/dropDatabas3/musenest/internal/httpx/helpers"
	"github.com/dropDatabas3/musenest/internal/httpx/middlewares"
	svc "github.com/dropDatabas3/musenest/internal/httpx/services/content"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

// Controller maneja los endpoints de contenido del back office.
type Controller struct {
	service *svc.Service
}

func NewController(service *svc.Service) *Controller {
	return &Controller{service: service}
}

// parseRange lee ?from y ?to (RFC3339). Sin parámetros devuelve el
// rango [ahora, ahora+3 meses).
func parseRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	from, to := now, now.AddDate(0, 3, 0)

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, err
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return from, to, err
		}
		to = t
	}
	return from, to, nil
}

// ---- Testimonials ----

// CreateTestimonial maneja POST /api/v1/admin/testimonials.
func (c *Controller) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateTestimonialRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	t, err := c.service.CreateTestimonial(ctx, middlewares.GetModelID(ctx), req)
	if err != nil {
		writeContentError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, t)
}

// ListTestimonials maneja GET /api/v1/admin/testimonials.
func (c *Controller) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := helpers.ParsePage(r)
	approvedOnly := r.URL.Query().Get("approved") == "true"

	items, total, err := c.service.ListTestimonials(ctx, middlewares.GetModelID(ctx), approvedOnly,
		core.ListParams{Limit: p.PerPage, Offset: p.Offset()})
	if err != nil {
		writeContentError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.NewPagedResponse(items, total, p))
}

// UpdateTestimonial maneja PATCH /api/v1/admin/testimonials/{id}.
func (c *Controller) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.UpdateTestimonialRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	t, err := c.service.UpdateTestimonial(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		writeContentError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, t)
}

// DeleteTestimonial maneja DELETE /api/v1/admin/testimonials/{id}.
func (c *Controller) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := c.service.DeleteTestimonial(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id")); err != nil {
		writeContentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Rate cards ----

// CreateRateCard maneja POST /api/v1/admin/rates.
func (c *Controller) CreateRateCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateRateCardRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	rc, err := c.service.CreateRateCard(ctx, middlewares.GetModelID(ctx), req)
	if err != nil {
		writeContentError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, rc)
}

// ListRateCards maneja GET /api/v1/admin/rates.
func (c *Controller) ListRateCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	activeOnly := r.URL.Query().Get("active") == "true"
	items, err := c.service.ListRateCards(ctx, middlewares.GetModelID(ctx), activeOnly)
	if err != nil {
		writeContentError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, items)
}

// UpdateRateCard maneja PATCH /api/v1/admin/rates/{id}.
func (c *Controller) UpdateRateCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.UpdateRateCardRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	rc, err := c.service.UpdateRateCard(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		writeContentError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, rc)
}

// DeleteRateCard maneja DELETE /api/v1/admin/rates/{id}.
func (c *Controller) DeleteRateCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := c.service.DeleteRateCard(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id")); err != nil {
		writeContentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Calendario ----

// CreateEvent maneja POST /api/v1/admin/calendar.
func (c *Controller) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateEventRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	ev, err := c.service.CreateEvent(ctx, middlewares.GetModelID(ctx), req)
	if err != nil {
		writeContentError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, ev)
}

// ListEvents maneja GET /api/v1/admin/calendar?from=&to=.
func (c *Controller) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	from, to, err := parseRange(r)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("from/to deben ser RFC3339"))
		return
	}
	events, err := c.service.ListEvents(ctx, middlewares.GetModelID(ctx), from, to)
	if err != nil {
		writeContentError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, events)
}

// UpdateEvent maneja PATCH /api/v1/admin/calendar/{id}.
func (c *Controller) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.UpdateEventRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	ev, err := c.service.UpdateEvent(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		writeContentError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ev)
}

// DeleteEvent maneja DELETE /api/v1/admin/calendar/{id}.
func (c *Controller) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := c.service.DeleteEvent(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id")); err != nil {
		writeContentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- FAQ ----

// CreateFAQ maneja POST /api/v1/admin/faq.
func (c *Controller) CreateFAQ(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateFAQRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	f, err := c.service.CreateFAQ(ctx, middlewares.GetModelID(ctx), req)
	if err != nil {
		writeContentError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, f)
}

// ListFAQ maneja GET /api/v1/admin/faq.
func (c *Controller) ListFAQ(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	publishedOnly := r.URL.Query().Get("published") == "true"
	items, err := c.service.ListFAQ(ctx, middlewares.GetModelID(ctx), publishedOnly)
	if err != nil {
		writeContentError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, items)
}

// UpdateFAQ maneja PATCH /api/v1/admin/faq/{id}.
func (c *Controller) UpdateFAQ(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.UpdateFAQRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	f, err := c.service.UpdateFAQ(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		writeContentError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, f)
}

// DeleteFAQ maneja DELETE /api/v1/admin/faq/{id}.
func (c *Controller) DeleteFAQ(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := c.service.DeleteFAQ(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id")); err != nil {
		writeContentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeContentError mapea errores del service a la respuesta HTTP.
func writeContentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrInvalidRating),
		errors.Is(err, svc.ErrInvalidRange),
		errors.Is(err, svc.ErrInvalidKind),
		errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrOverlap):
		httperrors.WriteError(w, httperrors.ErrConflict.WithDetail(err.Error()))
	case errors.Is(err, core.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	default:
		httperrors.WriteError(w, err)
	}
}
