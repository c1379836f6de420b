// Package gallery expone la administración de la galería: secciones,
// imágenes, uploads con moderación, operaciones batch y la cola de review.
package gallery

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/musenest/internal/batch"
	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	httperrors "github.com/dropDatabas3/musenest/internal/httpx/errors"
	"github.com/dropDatabas3/musenest/internal/httpx/helpers"
	"github.com/dropDatabas3/musenest/internal/httpx/middlewares"
	svc "github.com/dropDatabas3/musenest/internal/httpx/services/gallery"
	"github.com/dropDatabas3/musenest/internal/media"
	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

// Controller maneja los endpoints de galería del back office.
type Controller struct {
	service        *svc.Service
	maxUploadBytes int64
}

func NewController(service *svc.Service, maxUploadBytes int64) *Controller {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Controller{service: service, maxUploadBytes: maxUploadBytes}
}

// ---- Secciones ----

// CreateSection maneja POST /api/v1/admin/gallery/sections.
func (c *Controller) CreateSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateSectionRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	sec, err := c.service.CreateSection(ctx, middlewares.GetModelID(ctx), req)
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, sec)
}

// ListSections maneja GET /api/v1/admin/gallery/sections.
func (c *Controller) ListSections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sections, err := c.service.ListSections(ctx, middlewares.GetModelID(ctx))
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, sections)
}

// UpdateSection maneja PATCH /api/v1/admin/gallery/sections/{id}.
func (c *Controller) UpdateSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.UpdateSectionRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	sec, err := c.service.UpdateSection(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, sec)
}

// DeleteSection maneja DELETE /api/v1/admin/gallery/sections/{id}.
func (c *Controller) DeleteSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := c.service.DeleteSection(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id")); err != nil {
		writeGalleryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderSections maneja PUT /api/v1/admin/gallery/sections/order.
func (c *Controller) ReorderSections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.ReorderRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if len(req.OrderedIDs) == 0 {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("ordered_ids"))
		return
	}
	if err := c.service.ReorderSections(ctx, middlewares.GetModelID(ctx), req.OrderedIDs); err != nil {
		writeGalleryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Imágenes ----

// Upload maneja POST /api/v1/admin/gallery/images (multipart, field "file").
// La moderación corre en el acto y la respuesta incluye su resultado.
func (c *Controller) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Gallery.Upload"))

	up, err := media.ReadImageUpload(r, "file", c.maxUploadBytes)
	if err != nil {
		switch {
		case errors.Is(err, media.ErrFileTooLarge):
			httperrors.WriteError(w, httperrors.ErrFileTooLarge)
		case errors.Is(err, media.ErrUnsupportedType):
			httperrors.WriteError(w, httperrors.ErrUnsupportedMediaType)
		case errors.Is(err, media.ErrMissingFile):
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("file"))
		default:
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid multipart body"))
		}
		return
	}

	var sectionID *string
	if v := r.FormValue("section_id"); v != "" {
		sectionID = &v
	}

	resp, err := c.service.Upload(ctx, middlewares.GetModelID(ctx), sectionID, up)
	if err != nil {
		log.Warn("upload failed", logger.Err(err))
		writeGalleryError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, resp)
}

// ListImages maneja GET /api/v1/admin/gallery/images?section_id=&status=.
func (c *Controller) ListImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := helpers.ParsePage(r)

	var f core.ImageListFilter
	if v := r.URL.Query().Get("section_id"); v != "" {
		f.SectionID = &v
	}
	f.Status = r.URL.Query().Get("status")

	items, total, err := c.service.ListImages(ctx, middlewares.GetModelID(ctx), f,
		core.ListParams{Limit: p.PerPage, Offset: p.Offset()})
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.NewPagedResponse(items, total, p))
}

// GetImage maneja GET /api/v1/admin/gallery/images/{id}.
func (c *Controller) GetImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	img, err := c.service.GetImage(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, img)
}

// UpdateImage maneja PATCH /api/v1/admin/gallery/images/{id}.
func (c *Controller) UpdateImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.UpdateImageRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	img, err := c.service.UpdateImage(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id"), req)
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, img)
}

// SetImageStatus maneja PUT /api/v1/admin/gallery/images/{id}/status.
func (c *Controller) SetImageStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.SetImageStatusRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := c.service.SetImageStatus(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id"), req.Status); err != nil {
		writeGalleryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteImage maneja DELETE /api/v1/admin/gallery/images/{id} (soft delete).
func (c *Controller) DeleteImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := c.service.DeleteImage(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id")); err != nil {
		writeGalleryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderImages maneja PUT /api/v1/admin/gallery/sections/{id}/images/order.
func (c *Controller) ReorderImages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.ReorderRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if len(req.OrderedIDs) == 0 {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("ordered_ids"))
		return
	}
	if err := c.service.ReorderImages(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id"), req.OrderedIDs); err != nil {
		writeGalleryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- Batch ----

// SubmitBatch maneja POST /api/v1/admin/gallery/batch.
func (c *Controller) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.BatchRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	job, err := c.service.SubmitBatch(ctx, middlewares.GetModelID(ctx), req)
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusAccepted, job)
}

// GetBatch maneja GET /api/v1/admin/gallery/batch/{id}.
func (c *Controller) GetBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	job, err := c.service.GetBatch(middlewares.GetModelID(ctx), chi.URLParam(r, "id"))
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, job)
}

// ---- Moderación ----

// ListPendingReviews maneja GET /api/v1/admin/moderation/reviews.
func (c *Controller) ListPendingReviews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p := helpers.ParsePage(r)
	items, total, err := c.service.ListPendingReviews(ctx, middlewares.GetModelID(ctx),
		core.ListParams{Limit: p.PerPage, Offset: p.Offset()})
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, helpers.NewPagedResponse(items, total, p))
}

// ResolveReview maneja PUT /api/v1/admin/moderation/reviews/{id}.
func (c *Controller) ResolveReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.ModerationReviewRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	err := c.service.ResolveReview(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "id"),
		req.Status, middlewares.GetUserID(ctx))
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- AI ----

// Classify maneja POST /api/v1/admin/ai/classify/{imageID}.
func (c *Controller) Classify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	labels, err := c.service.ClassifyImage(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "imageID"), 5)
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, labels)
}

// Quality maneja POST /api/v1/admin/ai/quality/{imageID}.
func (c *Controller) Quality(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := c.service.AssessQuality(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "imageID"))
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, report)
}

// Moderate maneja POST /api/v1/admin/ai/moderate/{imageID}.
func (c *Controller) Moderate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	review, err := c.service.Remoderate(ctx, middlewares.GetModelID(ctx), chi.URLParam(r, "imageID"))
	if err != nil {
		writeGalleryError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, review)
}

// writeGalleryError mapea errores del service a la respuesta HTTP.
func writeGalleryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrInvalidSlug),
		errors.Is(err, svc.ErrInvalidVisibility),
		errors.Is(err, svc.ErrInvalidStatus):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrSlugTaken):
		httperrors.WriteError(w, httperrors.ErrSlugTaken)
	case errors.Is(err, svc.ErrUnknownSection):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail(err.Error()))
	case errors.Is(err, batch.ErrInvalidAction), errors.Is(err, batch.ErrEmptyBatch):
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
	case errors.Is(err, batch.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrJobNotFound)
	case errors.Is(err, core.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	default:
		httperrors.WriteError(w, err)
	}
}
