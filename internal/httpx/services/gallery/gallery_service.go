// Package gallery implementa la gestión de galería del back office:
// secciones, imágenes con upload y moderación simulada, reordenamiento
// y operaciones batch.
package gallery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/musenest/internal/ai"
	"github.com/dropDatabas3/musenest/internal/batch"
	"github.com/dropDatabas3/musenest/internal/cache"
	"github.com/dropDatabas3/musenest/internal/httpx"
	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	"github.com/dropDatabas3/musenest/internal/media"
	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/store/core"
	"github.com/dropDatabas3/musenest/internal/validation"
)

// Errores del servicio.
var (
	ErrInvalidSlug       = fmt.Errorf("invalid slug")
	ErrSlugTaken         = fmt.Errorf("slug already taken")
	ErrInvalidVisibility = fmt.Errorf("invalid visibility")
	ErrInvalidStatus     = fmt.Errorf("invalid status")
	ErrUnknownSection    = fmt.Errorf("unknown section")
)

// Deps contiene las dependencias del servicio.
type Deps struct {
	Store     core.Store
	Media     media.Storage
	Cache     cache.Client
	Moderator *ai.Moderator
	Quality   *ai.QualityAssessor
	Batch     *batch.Engine
}

type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	return &Service{deps: deps}
}

// ---- Secciones ----

// CreateSection crea una sección de galería.
func (s *Service) CreateSection(ctx context.Context, modelID string, in dto.CreateSectionRequest) (*core.GallerySection, error) {
	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	if !validation.ValidSlug(slug) {
		return nil, ErrInvalidSlug
	}
	vis := in.Visibility
	if vis == "" {
		vis = "public"
	}
	if vis != "public" && vis != "hidden" {
		return nil, ErrInvalidVisibility
	}

	existing, err := s.deps.Store.GallerySections().ListByModel(ctx, modelID)
	if err != nil {
		return nil, err
	}

	sec := &core.GallerySection{
		ID:         uuid.NewString(),
		ModelID:    modelID,
		Title:      strings.TrimSpace(in.Title),
		Slug:       slug,
		SortOrder:  len(existing),
		Visibility: vis,
	}
	if sec.Title == "" {
		sec.Title = slug
	}
	if err := s.deps.Store.GallerySections().Create(ctx, sec); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	s.invalidate(ctx, modelID)
	return sec, nil
}

// ListSections devuelve las secciones del model ordenadas.
func (s *Service) ListSections(ctx context.Context, modelID string) ([]core.GallerySection, error) {
	return s.deps.Store.GallerySections().ListByModel(ctx, modelID)
}

// UpdateSection edita título o visibilidad.
func (s *Service) UpdateSection(ctx context.Context, modelID, id string, in dto.UpdateSectionRequest) (*core.GallerySection, error) {
	sec, err := s.deps.Store.GallerySections().GetByID(ctx, modelID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		sec.Title = strings.TrimSpace(*in.Title)
	}
	if in.Visibility != nil {
		if *in.Visibility != "public" && *in.Visibility != "hidden" {
			return nil, ErrInvalidVisibility
		}
		sec.Visibility = *in.Visibility
	}
	if err := s.deps.Store.GallerySections().Update(ctx, sec); err != nil {
		return nil, err
	}
	s.invalidate(ctx, modelID)
	return sec, nil
}

// DeleteSection borra una sección. Las imágenes quedan sin sección.
func (s *Service) DeleteSection(ctx context.Context, modelID, id string) error {
	if err := s.deps.Store.GallerySections().Delete(ctx, modelID, id); err != nil {
		return err
	}
	s.invalidate(ctx, modelID)
	return nil
}

// ReorderSections fija el orden de las secciones del model.
func (s *Service) ReorderSections(ctx context.Context, modelID string, orderedIDs []string) error {
	if err := s.deps.Store.GallerySections().Reorder(ctx, modelID, orderedIDs); err != nil {
		return err
	}
	s.invalidate(ctx, modelID)
	return nil
}

// ---- Imágenes ----

// Upload guarda el binario en el backend de media, registra la imagen y
// corre el pipeline de moderación en el acto. El estado inicial sale del
// resultado de moderación.
func (s *Service) Upload(ctx context.Context, modelID string, sectionID *string, up *media.Upload) (*dto.UploadResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("gallery"),
		logger.Op("Upload"),
		logger.ModelID(modelID),
	)

	if sectionID != nil {
		if _, err := s.deps.Store.GallerySections().GetByID(ctx, modelID, *sectionID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return nil, ErrUnknownSection
			}
			return nil, err
		}
	}

	imageID := uuid.NewString()
	key := media.ObjectKey(modelID, imageID, up.Filename)
	if err := s.deps.Media.Put(ctx, key, bytes.NewReader(up.Data), up.ContentType); err != nil {
		return nil, err
	}

	res := s.deps.Moderator.Moderate(imageID, up.Filename)
	httpx.RecordModeration(res.ModerationStatus)

	img := &core.GalleryImage{
		ID:         imageID,
		ModelID:    modelID,
		SectionID:  sectionID,
		Filename:   up.Filename,
		StorageKey: key,
		MimeType:   up.ContentType,
		SizeBytes:  up.Size,
		Caption:    res.GeneratedCaption,
		Status:     res.ModerationStatus,
	}
	if err := s.deps.Store.GalleryImages().Create(ctx, img); err != nil {
		// la imagen no quedó registrada, no dejamos el objeto huérfano
		_ = s.deps.Media.Delete(ctx, key)
		return nil, err
	}

	review := &core.ModerationReview{
		ID:                  uuid.NewString(),
		ModelID:             modelID,
		ImageID:             imageID,
		NudityScore:         res.NudityScore,
		PoseClass:           res.PoseClassification,
		Caption:             res.GeneratedCaption,
		Status:              res.ModerationStatus,
		HumanReviewRequired: res.HumanReviewRequired,
		Confidence:          res.ConfidenceScore,
	}
	if err := s.deps.Store.Moderation().Create(ctx, review); err != nil {
		log.Warn("moderation review persist failed", logger.Err(err))
	}

	s.invalidate(ctx, modelID)
	log.Info("image uploaded",
		logger.ImageID(imageID), logger.String("status", img.Status))

	return &dto.UploadResponse{Image: *img, Moderation: res}, nil
}

// GetImage devuelve una imagen del model.
func (s *Service) GetImage(ctx context.Context, modelID, id string) (*core.GalleryImage, error) {
	return s.deps.Store.GalleryImages().GetByID(ctx, modelID, id)
}

// ListImages pagina imágenes con filtros.
func (s *Service) ListImages(ctx context.Context, modelID string, f core.ImageListFilter, p core.ListParams) ([]core.GalleryImage, int64, error) {
	return s.deps.Store.GalleryImages().List(ctx, modelID, f, p)
}

// UpdateImage edita metadata de una imagen.
func (s *Service) UpdateImage(ctx context.Context, modelID, id string, in dto.UpdateImageRequest) (*core.GalleryImage, error) {
	img, err := s.deps.Store.GalleryImages().GetByID(ctx, modelID, id)
	if err != nil {
		return nil, err
	}
	if in.SectionID != nil {
		if *in.SectionID == "" {
			img.SectionID = nil
		} else {
			if _, err := s.deps.Store.GallerySections().GetByID(ctx, modelID, *in.SectionID); err != nil {
				if errors.Is(err, core.ErrNotFound) {
					return nil, ErrUnknownSection
				}
				return nil, err
			}
			img.SectionID = in.SectionID
		}
	}
	if in.Caption != nil {
		img.Caption = *in.Caption
	}
	if in.AltText != nil {
		img.AltText = *in.AltText
	}
	if err := s.deps.Store.GalleryImages().Update(ctx, img); err != nil {
		return nil, err
	}
	s.invalidate(ctx, modelID)
	return img, nil
}

// SetImageStatus cambia el estado de moderación a mano.
func (s *Service) SetImageStatus(ctx context.Context, modelID, id, status string) error {
	switch status {
	case core.ImageStatusPending, core.ImageStatusApproved,
		core.ImageStatusFlagged, core.ImageStatusRejected:
	default:
		return ErrInvalidStatus
	}
	if err := s.deps.Store.GalleryImages().SetStatus(ctx, modelID, id, status); err != nil {
		return err
	}
	s.invalidate(ctx, modelID)
	return nil
}

// DeleteImage es un soft delete: la imagen deja de listarse pero el
// binario queda en el backend hasta una purga posterior.
func (s *Service) DeleteImage(ctx context.Context, modelID, id string) error {
	if err := s.deps.Store.GalleryImages().SoftDelete(ctx, modelID, id); err != nil {
		return err
	}
	s.invalidate(ctx, modelID)
	return nil
}

// ReorderImages fija el orden de las imágenes de una sección.
func (s *Service) ReorderImages(ctx context.Context, modelID, sectionID string, orderedIDs []string) error {
	if err := s.deps.Store.GalleryImages().Reorder(ctx, modelID, sectionID, orderedIDs); err != nil {
		return err
	}
	s.invalidate(ctx, modelID)
	return nil
}

// OpenImage devuelve el binario de una imagen para servirlo.
func (s *Service) OpenImage(ctx context.Context, modelID, id string) (*core.GalleryImage, []byte, error) {
	img, err := s.deps.Store.GalleryImages().GetByID(ctx, modelID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.deps.Media.Get(ctx, img.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, err
	}
	return img, data, nil
}

// AssessQuality corre la evaluación de calidad simulada sobre una imagen.
func (s *Service) AssessQuality(ctx context.Context, modelID, id string) (*ai.QualityReport, error) {
	if _, err := s.deps.Store.GalleryImages().GetByID(ctx, modelID, id); err != nil {
		return nil, err
	}
	rep := s.deps.Quality.Assess(id)
	return &rep, nil
}

// ClassifyImage corre el clasificador simulado sobre una imagen.
func (s *Service) ClassifyImage(ctx context.Context, modelID, id string, maxLabels int) ([]ai.Label, error) {
	if _, err := s.deps.Store.GalleryImages().GetByID(ctx, modelID, id); err != nil {
		return nil, err
	}
	return ai.NewClassifier().Classify(id, maxLabels), nil
}

// ---- Batch ----

// SubmitBatch lanza una operación batch sobre imágenes del model.
// Cada item re-verifica ownership: IDs de otro model cuentan como fallo.
func (s *Service) SubmitBatch(ctx context.Context, modelID string, in dto.BatchRequest) (batch.Job, error) {
	job, err := s.deps.Batch.Submit(ctx, modelID, in.Action, in.ImageIDs, s.batchItemFunc(modelID, in.Action))
	if err != nil {
		return batch.Job{}, err
	}
	httpx.RecordBatchJob(in.Action)
	return job, nil
}

// GetBatch devuelve el estado de un job del model.
func (s *Service) GetBatch(modelID, jobID string) (batch.Job, error) {
	return s.deps.Batch.Get(modelID, jobID)
}

func (s *Service) batchItemFunc(modelID, action string) batch.ItemFunc {
	return func(ctx context.Context, imageID string) error {
		switch action {
		case batch.ActionApprove:
			return s.deps.Store.GalleryImages().SetStatus(ctx, modelID, imageID, core.ImageStatusApproved)
		case batch.ActionReject:
			return s.deps.Store.GalleryImages().SetStatus(ctx, modelID, imageID, core.ImageStatusRejected)
		case batch.ActionDelete:
			return s.deps.Store.GalleryImages().SoftDelete(ctx, modelID, imageID)
		case batch.ActionRestore:
			return s.deps.Store.GalleryImages().Restore(ctx, modelID, imageID)
		case batch.ActionModerate:
			return s.remoderate(ctx, modelID, imageID)
		}
		return fmt.Errorf("unsupported action %q", action)
	}
}

// remoderate vuelve a correr el pipeline y actualiza estado y review.
func (s *Service) remoderate(ctx context.Context, modelID, imageID string) error {
	img, err := s.deps.Store.GalleryImages().GetByID(ctx, modelID, imageID)
	if err != nil {
		return err
	}
	res := s.deps.Moderator.Moderate(imageID, img.Filename)
	httpx.RecordModeration(res.ModerationStatus)

	if err := s.deps.Store.GalleryImages().SetStatus(ctx, modelID, imageID, res.ModerationStatus); err != nil {
		return err
	}
	return s.deps.Store.Moderation().Create(ctx, &core.ModerationReview{
		ID:                  uuid.NewString(),
		ModelID:             modelID,
		ImageID:             imageID,
		NudityScore:         res.NudityScore,
		PoseClass:           res.PoseClassification,
		Caption:             res.GeneratedCaption,
		Status:              res.ModerationStatus,
		HumanReviewRequired: res.HumanReviewRequired,
		Confidence:          res.ConfidenceScore,
	})
}

// Remoderate corre el pipeline de moderación otra vez sobre una imagen y
// devuelve la review resultante.
func (s *Service) Remoderate(ctx context.Context, modelID, imageID string) (*core.ModerationReview, error) {
	if err := s.remoderate(ctx, modelID, imageID); err != nil {
		return nil, err
	}
	s.invalidate(ctx, modelID)
	return s.deps.Store.Moderation().GetLatestByImage(ctx, modelID, imageID)
}

// ---- Moderación ----

// ListPendingReviews pagina las reviews que esperan decisión humana.
func (s *Service) ListPendingReviews(ctx context.Context, modelID string, p core.ListParams) ([]core.ModerationReview, int64, error) {
	return s.deps.Store.Moderation().ListPending(ctx, modelID, p)
}

// ResolveReview aplica la decisión humana sobre una review pendiente y
// propaga el estado a la imagen.
func (s *Service) ResolveReview(ctx context.Context, modelID, reviewID, status, reviewerID string) error {
	if status != core.ImageStatusApproved && status != core.ImageStatusRejected {
		return ErrInvalidStatus
	}
	review, err := s.deps.Store.Moderation().GetByID(ctx, modelID, reviewID)
	if err != nil {
		return err
	}
	// solo reviews todavía en cola; una ya decidida no se reabre
	if review.ReviewedBy != nil || !review.HumanReviewRequired {
		return core.ErrNotFound
	}
	if err := s.deps.Store.Moderation().SetReviewed(ctx, modelID, reviewID, status, reviewerID); err != nil {
		return err
	}
	if err := s.deps.Store.GalleryImages().SetStatus(ctx, modelID, review.ImageID, status); err != nil {
		return err
	}
	s.invalidate(ctx, modelID)
	return nil
}

// invalidate borra las páginas públicas cacheadas del model.
func (s *Service) invalidate(ctx context.Context, modelID string) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.DeletePrefix(ctx, "page:"+modelID+":"); err != nil {
		logger.From(ctx).Warn("page cache invalidation failed",
			logger.ModelID(modelID), logger.Err(err))
	}
}
