package core

import (
	"context"
	"time"
)

// ListParams son los parámetros comunes de listado paginado.
type ListParams struct {
	Limit  int
	Offset int
}

// ModelRepository maneja los tenants de la plataforma.
type ModelRepository interface {
	Create(ctx context.Context, m *Model) error
	// CreateWithOwner inserta el model y su usuario owner atómicamente:
	// si el owner falla, el model no queda persistido.
	CreateWithOwner(ctx context.Context, m *Model, owner *ModelUser) error
	GetByID(ctx context.Context, id string) (*Model, error)
	GetBySlug(ctx context.Context, slug string) (*Model, error)
	List(ctx context.Context, p ListParams) ([]Model, int64, error)
	Update(ctx context.Context, m *Model) error
	SetStatus(ctx context.Context, id, status string) error
}

// ModelUserRepository maneja los usuarios del back office.
type ModelUserRepository interface {
	Create(ctx context.Context, u *ModelUser) error
	GetByID(ctx context.Context, id string) (*ModelUser, error)
	GetByEmail(ctx context.Context, email string) (*ModelUser, error)
	ListByModel(ctx context.Context, modelID string) ([]ModelUser, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
}

// ThemeSetRepository maneja el catálogo de themes (global, no por tenant).
type ThemeSetRepository interface {
	Create(ctx context.Context, t *ThemeSet) error
	GetByID(ctx context.Context, id string) (*ThemeSet, error)
	GetBySlug(ctx context.Context, slug string) (*ThemeSet, error)
	List(ctx context.Context) ([]ThemeSet, error)
}

// SiteSettingRepository maneja settings clave/valor por model.
type SiteSettingRepository interface {
	Upsert(ctx context.Context, s *SiteSetting) error
	BulkUpsert(ctx context.Context, modelID string, items []SiteSetting) error
	Get(ctx context.Context, modelID, key string) (*SiteSetting, error)
	ListByModel(ctx context.Context, modelID string) ([]SiteSetting, error)
	Delete(ctx context.Context, modelID, key string) error
}

// GallerySectionRepository maneja secciones de galería.
type GallerySectionRepository interface {
	Create(ctx context.Context, s *GallerySection) error
	GetByID(ctx context.Context, modelID, id string) (*GallerySection, error)
	ListByModel(ctx context.Context, modelID string) ([]GallerySection, error)
	Update(ctx context.Context, s *GallerySection) error
	Delete(ctx context.Context, modelID, id string) error
	Reorder(ctx context.Context, modelID string, orderedIDs []string) error
}

// ImageListFilter restringe listados de imágenes.
type ImageListFilter struct {
	SectionID *string
	Status    string // vacío = todos
}

// GalleryImageRepository maneja imágenes. Delete es soft delete.
type GalleryImageRepository interface {
	Create(ctx context.Context, img *GalleryImage) error
	GetByID(ctx context.Context, modelID, id string) (*GalleryImage, error)
	List(ctx context.Context, modelID string, f ImageListFilter, p ListParams) ([]GalleryImage, int64, error)
	Update(ctx context.Context, img *GalleryImage) error
	SetStatus(ctx context.Context, modelID, id, status string) error
	SoftDelete(ctx context.Context, modelID, id string) error
	// Restore revierte un soft delete y deja la imagen en pending.
	// Sobre una imagen no borrada devuelve ErrNotFound.
	Restore(ctx context.Context, modelID, id string) error
	Reorder(ctx context.Context, modelID, sectionID string, orderedIDs []string) error
}

// TestimonialRepository maneja testimonials. Delete es soft delete.
type TestimonialRepository interface {
	Create(ctx context.Context, t *Testimonial) error
	GetByID(ctx context.Context, modelID, id string) (*Testimonial, error)
	List(ctx context.Context, modelID string, approvedOnly bool, p ListParams) ([]Testimonial, int64, error)
	Update(ctx context.Context, t *Testimonial) error
	SoftDelete(ctx context.Context, modelID, id string) error
}

// RateCardRepository maneja rate cards.
type RateCardRepository interface {
	Create(ctx context.Context, rc *RateCard) error
	GetByID(ctx context.Context, modelID, id string) (*RateCard, error)
	List(ctx context.Context, modelID string, activeOnly bool) ([]RateCard, error)
	Update(ctx context.Context, rc *RateCard) error
	Delete(ctx context.Context, modelID, id string) error
}

// CalendarEventRepository maneja eventos de calendario.
type CalendarEventRepository interface {
	Create(ctx context.Context, ev *CalendarEvent) error
	GetByID(ctx context.Context, modelID, id string) (*CalendarEvent, error)
	ListRange(ctx context.Context, modelID string, from, to time.Time) ([]CalendarEvent, error)
	Update(ctx context.Context, ev *CalendarEvent) error
	Delete(ctx context.Context, modelID, id string) error
}

// FAQRepository maneja entradas de FAQ.
type FAQRepository interface {
	Create(ctx context.Context, f *FAQEntry) error
	GetByID(ctx context.Context, modelID, id string) (*FAQEntry, error)
	List(ctx context.Context, modelID string, publishedOnly bool) ([]FAQEntry, error)
	Update(ctx context.Context, f *FAQEntry) error
	Delete(ctx context.Context, modelID, id string) error
}

// CRMContactRepository maneja contactos del CRM.
type CRMContactRepository interface {
	Create(ctx context.Context, c *CRMContact) error
	GetByID(ctx context.Context, modelID, id string) (*CRMContact, error)
	GetByEmail(ctx context.Context, modelID, email string) (*CRMContact, error)
	List(ctx context.Context, modelID, search string, p ListParams) ([]CRMContact, int64, error)
	Update(ctx context.Context, c *CRMContact) error
	Delete(ctx context.Context, modelID, id string) error
}

// CRMInquiryRepository maneja inquiries entrantes.
type CRMInquiryRepository interface {
	Create(ctx context.Context, q *CRMInquiry) error
	GetByID(ctx context.Context, modelID, id string) (*CRMInquiry, error)
	List(ctx context.Context, modelID, status string, p ListParams) ([]CRMInquiry, int64, error)
	SetStatus(ctx context.Context, modelID, id, status string) error
	CountSince(ctx context.Context, modelID string, since time.Time) (int64, error)
}

// ModerationRepository guarda resultados del pipeline de moderación.
type ModerationRepository interface {
	Create(ctx context.Context, r *ModerationReview) error
	GetByID(ctx context.Context, modelID, id string) (*ModerationReview, error)
	GetLatestByImage(ctx context.Context, modelID, imageID string) (*ModerationReview, error)
	ListPending(ctx context.Context, modelID string, p ListParams) ([]ModerationReview, int64, error)
	SetReviewed(ctx context.Context, modelID, id, status, reviewerID string) error
}

// AnalyticsRepository guarda y agrega eventos de tracking.
type AnalyticsRepository interface {
	Record(ctx context.Context, ev *AnalyticsEvent) error
	CountByKind(ctx context.Context, modelID string, from, to time.Time) (map[string]int64, error)
	TopPaths(ctx context.Context, modelID string, from, to time.Time, limit int) ([]PathCount, error)
	ListRange(ctx context.Context, modelID string, from, to time.Time) ([]AnalyticsEvent, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// PathCount es una fila de agregación de page views por path.
type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// Store agrupa todos los repositorios del dominio.
type Store interface {
	Models() ModelRepository
	ModelUsers() ModelUserRepository
	ThemeSets() ThemeSetRepository
	SiteSettings() SiteSettingRepository
	GallerySections() GallerySectionRepository
	GalleryImages() GalleryImageRepository
	Testimonials() TestimonialRepository
	RateCards() RateCardRepository
	CalendarEvents() CalendarEventRepository
	FAQs() FAQRepository
	CRMContacts() CRMContactRepository
	CRMInquiries() CRMInquiryRepository
	Moderation() ModerationRepository
	Analytics() AnalyticsRepository

	Ping(ctx context.Context) error
	Close() error
}
