package core

import "time"

// Model es el tenant de la plataforma: una cuenta con su slug, theme y contenido.
type Model struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	ThemeSetID  *string   `json:"theme_set_id,omitempty"`
	Status      string    `json:"status"` // active|suspended
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Estados de un model.
const (
	ModelStatusActive    = "active"
	ModelStatusSuspended = "suspended"
)

// ModelUser es un usuario del back office, siempre ligado a un model.
type ModelUser struct {
	ID           string     `json:"id"`
	ModelID      string     `json:"model_id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"` // owner|admin|editor
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Roles de usuario de back office.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// ThemeSet es una colección nombrada de templates de página + paleta por defecto.
type ThemeSet struct {
	ID        string            `json:"id"`
	Slug      string            `json:"slug"`
	Name      string            `json:"name"`
	Palette   map[string]string `json:"palette"`
	Templates map[string]string `json:"templates"` // page type -> HTML con placeholders
	CreatedAt time.Time         `json:"created_at"`
}

// SiteSetting es un par clave/valor de configuración de sitio por model.
type SiteSetting struct {
	ModelID   string    `json:"model_id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Type      string    `json:"type"` // text|json|bool|number|color
	UpdatedAt time.Time `json:"updated_at"`
}

// GallerySection agrupa imágenes dentro de la galería de un model.
type GallerySection struct {
	ID         string    `json:"id"`
	ModelID    string    `json:"model_id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	SortOrder  int       `json:"sort_order"`
	Visibility string    `json:"visibility"` // public|hidden
	CreatedAt  time.Time `json:"created_at"`
}

// Estados de moderación de una imagen.
const (
	ImageStatusPending  = "pending"
	ImageStatusApproved = "approved"
	ImageStatusFlagged  = "flagged"
	ImageStatusRejected = "rejected"
)

// GalleryImage es una imagen subida, con metadata y estado de moderación.
// StorageKey identifica el objeto en el backend de media (fs o s3).
type GalleryImage struct {
	ID         string     `json:"id"`
	ModelID    string     `json:"model_id"`
	SectionID  *string    `json:"section_id,omitempty"`
	Filename   string     `json:"filename"`
	StorageKey string     `json:"storage_key"`
	MimeType   string     `json:"mime_type"`
	SizeBytes  int64      `json:"size_bytes"`
	Caption    string     `json:"caption"`
	AltText    string     `json:"alt_text"`
	SortOrder  int        `json:"sort_order"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// Testimonial es una reseña de un cliente del model.
type Testimonial struct {
	ID         string     `json:"id"`
	ModelID    string     `json:"model_id"`
	AuthorName string     `json:"author_name"`
	Quote      string     `json:"quote"`
	Rating     int        `json:"rating"` // 1..5
	Approved   bool       `json:"approved"`
	SortOrder  int        `json:"sort_order"`
	CreatedAt  time.Time  `json:"created_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

// RateCard es un paquete de servicio con precio.
type RateCard struct {
	ID              string    `json:"id"`
	ModelID         string    `json:"model_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int64     `json:"price_cents"`
	Currency        string    `json:"currency"`
	SortOrder       int       `json:"sort_order"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// Tipos de evento de calendario.
const (
	EventKindAvailable = "available"
	EventKindBooked    = "booked"
	EventKindBlocked   = "blocked"
)

// CalendarEvent es un bloque de disponibilidad o booking.
type CalendarEvent struct {
	ID        string    `json:"id"`
	ModelID   string    `json:"model_id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Kind      string    `json:"kind"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FAQEntry es una pregunta frecuente publicable.
type FAQEntry struct {
	ID        string    `json:"id"`
	ModelID   string    `json:"model_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	SortOrder int       `json:"sort_order"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
}

// CRMContact es un contacto del back office.
type CRMContact struct {
	ID        string    `json:"id"`
	ModelID   string    `json:"model_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Tags      []string  `json:"tags"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Estados de una inquiry.
const (
	InquiryStatusNew      = "new"
	InquiryStatusRead     = "read"
	InquiryStatusReplied  = "replied"
	InquiryStatusArchived = "archived"
)

// CRMInquiry es un mensaje entrante, normalmente del formulario público de contacto.
type CRMInquiry struct {
	ID        string    `json:"id"`
	ModelID   string    `json:"model_id"`
	ContactID *string   `json:"contact_id,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Source    string    `json:"source"` // contact_form|manual
	FromName  string    `json:"from_name"`
	FromEmail string    `json:"from_email"`
	CreatedAt time.Time `json:"created_at"`
}

// ModerationReview es el resultado del pipeline de moderación sobre una imagen.
type ModerationReview struct {
	ID                  string    `json:"id"`
	ModelID             string    `json:"model_id"`
	ImageID             string    `json:"image_id"`
	NudityScore         float64   `json:"nudity_score"`
	PoseClass           string    `json:"pose_class"`
	Caption             string    `json:"caption"`
	Status              string    `json:"status"` // approved|flagged|rejected
	HumanReviewRequired bool      `json:"human_review_required"`
	Confidence          float64   `json:"confidence"`
	ReviewedBy          *string   `json:"reviewed_by,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// Tipos de evento de analytics.
const (
	AnalyticsPageView = "page_view"
	AnalyticsInquiry  = "inquiry"
	AnalyticsBooking  = "booking"
)

// AnalyticsEvent es un evento liviano de tracking por model.
type AnalyticsEvent struct {
	ID         string    `json:"id"`
	ModelID    string    `json:"model_id"`
	Kind       string    `json:"kind"`
	Path       string    `json:"path"`
	OccurredAt time.Time `json:"occurred_at"`
}
