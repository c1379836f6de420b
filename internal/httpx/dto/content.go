package dto

import "time"

// CreateTestimonialRequest crea un testimonial.
type CreateTestimonialRequest struct {
	AuthorName string `json:"author_name"`
	Quote      string `json:"quote"`
	Rating     int    `json:"rating"` // 1..5
	Approved   bool   `json:"approved"`
}

// UpdateTestimonialRequest actualiza un testimonial.
type UpdateTestimonialRequest struct {
	AuthorName *string `json:"author_name,omitempty"`
	Quote      *string `json:"quote,omitempty"`
	Rating     *int    `json:"rating,omitempty"`
	Approved   *bool   `json:"approved,omitempty"`
	SortOrder  *int    `json:"sort_order,omitempty"`
}

// CreateRateCardRequest crea un paquete de servicio.
type CreateRateCardRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceCents      int64  `json:"price_cents"`
	Currency        string `json:"currency"`
	Active          bool   `json:"active"`
}

// UpdateRateCardRequest actualiza un paquete.
type UpdateRateCardRequest struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	PriceCents      *int64  `json:"price_cents,omitempty"`
	Currency        *string `json:"currency,omitempty"`
	Active          *bool   `json:"active,omitempty"`
	SortOrder       *int    `json:"sort_order,omitempty"`
}

// CreateEventRequest crea un evento de calendario.
type CreateEventRequest struct {
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Kind     string    `json:"kind"` // available|booked|blocked
	Notes    string    `json:"notes,omitempty"`
}

// UpdateEventRequest actualiza un evento.
type UpdateEventRequest struct {
	Title    *string    `json:"title,omitempty"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
	Kind     *string    `json:"kind,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}

// CreateFAQRequest crea una entrada de FAQ.
type CreateFAQRequest struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Published bool   `json:"published"`
}

// UpdateFAQRequest actualiza una entrada de FAQ.
type UpdateFAQRequest struct {
	Question  *string `json:"question,omitempty"`
	Answer    *string `json:"answer,omitempty"`
	Published *bool   `json:"published,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}
