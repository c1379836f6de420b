package dto

import (
	"github.com/dropDatabas3/musenest/internal/ai"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

// CreateSectionRequest crea una sección de galería.
type CreateSectionRequest struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Visibility string `json:"visibility,omitempty"` // public|hidden
}

// UpdateSectionRequest actualiza una sección.
type UpdateSectionRequest struct {
	Title      *string `json:"title,omitempty"`
	Visibility *string `json:"visibility,omitempty"`
}

// ReorderRequest fija el orden de un conjunto de IDs.
type ReorderRequest struct {
	OrderedIDs []string `json:"ordered_ids"`
}

// UpdateImageRequest edita metadata de una imagen.
type UpdateImageRequest struct {
	SectionID *string `json:"section_id,omitempty"`
	Caption   *string `json:"caption,omitempty"`
	AltText   *string `json:"alt_text,omitempty"`
}

// SetImageStatusRequest cambia el estado de moderación manualmente.
type SetImageStatusRequest struct {
	Status string `json:"status"` // approved|flagged|rejected|pending
}

// UploadResponse es la respuesta de subir una imagen: la imagen creada
// más el resultado del pipeline de moderación que corrió en el acto.
type UploadResponse struct {
	Image      core.GalleryImage   `json:"image"`
	Moderation ai.ModerationResult `json:"moderation"`
}

// BatchRequest lanza una operación batch sobre imágenes.
type BatchRequest struct {
	Action   string   `json:"action"` // approve|reject|delete|restore|moderate
	ImageIDs []string `json:"image_ids"`
}

// ModerationReviewRequest resuelve una review pendiente.
type ModerationReviewRequest struct {
	Status string `json:"status"` // approved|rejected
}
