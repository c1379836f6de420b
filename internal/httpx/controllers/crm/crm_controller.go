// Package crm expone contactos, inquiries y el asistente de respuestas.
package crm

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	httperrors "github.com/dropDatabas3/musenest/internal/httpx/errors"
	"github.com/dropDatabas3/musenest/internal/httpx/helpers"
	"github.com/dropDatabas3/musenest/internal/httpx/middlewares"
	svc "github.com/dropDatabas3/musenest/internal/httpx/services/crm"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

// Controller maneja los endpoints del CRM.
type Controller struct {
	service *svc.Service
}

func NewController(service *svc.Service) *Controller {
	return &Controller{service: service}
}

// ---- Contactos ----

// CreateContact maneja POST /api/v1/admin/crm/contacts.
func (c *Controller) CreateContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateContactRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	contact, err := c.service.CreateContact(ctx, middlewares.GetModelID(ctx), req)
	if err != nil {
		writeCRMError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, contact)
}

// ListContacts maneja GET /api/v1/admin/crm/contacts?q=.
func (c *Controller) ListContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := helpers.ParsePage(r)
	items, total, err := c.service.ListContacts(ctx, middlewares.GetModelID(ctx),
		r.URL.Query().Get("q"), core.ListParams{Limit: p.PerPage, Offset: p.Offset()})
	if err != nil {
		writeCRMError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.NewPagedResponse(items, total, p))
}

// GetContact maneja GET /api/v1/admin/crm/contacts/{id}.
func (c *Controller) GetContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contact, err := c.service.GetContact(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		writeCRMError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, contact)
}

// UpdateContact maneja PATCH /api/v1/admin/crm/contacts/{id}.
func (c *Controller) UpdateContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.UpdateContactRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	contact, err := c.service.UpdateContact(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		writeCRMError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, contact)
}

// DeleteContact maneja DELETE /api/v1/admin/crm/contacts/{id}.
func (c *Controller) DeleteContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := c.service.DeleteContact(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id")); err != nil {
		writeCRMError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Inquiries ----

// ListInquiries maneja GET /api/v1/admin/crm/inquiries?status=.
func (c *Controller) ListInquiries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := helpers.ParsePage(r)
	items, total, err := c.service.ListInquiries(ctx, middlewares.GetModelID(ctx),
		r.URL.Query().Get("status"), core.ListParams{Limit: p.PerPage, Offset: p.Offset()})
	if err != nil {
		writeCRMError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.NewPagedResponse(items, total, p))
}

// GetInquiry maneja GET /api/v1/admin/crm/inquiries/{id}.
func (c *Controller) GetInquiry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q, err := c.service.GetInquiry(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		writeCRMError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, q)
}

// SetInquiryStatus maneja PUT /api/v1/admin/crm/inquiries/{id}/status.
func (c *Controller) SetInquiryStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.SetInquiryStatusRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := c.service.SetInquiryStatus(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id"), req.Status); err != nil {
		writeCRMError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SuggestReply maneja POST /api/v1/admin/crm/inquiries/{id}/suggest-reply.
func (c *Controller) SuggestReply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp, err := c.service.SuggestReply(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		writeCRMError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

// assistRequest es el body del endpoint libre del asistente.
type assistRequest struct {
	Message string `json:"message"`
}

// Assist maneja POST /api/v1/admin/ai/assistant.
func (c *Controller) Assist(w http.ResponseWriter, r *http.Request) {
	var req assistRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	reply, err := c.service.Assist(req.Message)
	if err != nil {
		writeCRMError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// writeCRMError mapea errores del service a la respuesta HTTP.
func writeCRMError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrInvalidEmail),
		errors.Is(err, svc.ErrInvalidStatus),
		errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrEmailTaken):
		httperrors.WriteError(w, httperrors.ErrAlreadyExists.WithDetail(err.Error()))
	case errors.Is(err, core.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	default:
		httperrors.WriteError(w, err)
	}
}
