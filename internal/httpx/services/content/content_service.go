// Package content implementa la gestión de contenido editorial del back
// office: testimonials, rate cards, calendario y FAQ.
package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/musenest/internal/cache"
	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

// Errores del servicio.
var (
	ErrInvalidRating = fmt.Errorf("rating must be 1..5")
	ErrInvalidRange  = fmt.Errorf("ends_at must be after starts_at")
	ErrInvalidKind   = fmt.Errorf("invalid event kind")
	ErrMissingFields = fmt.Errorf("missing required fields")
	ErrOverlap       = fmt.Errorf("event overlaps an existing one")
)

// Deps contiene las dependencias del servicio.
type Deps struct {
	Store core.Store
	Cache cache.Client
}

type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	return &Service{deps: deps}
}

// ---- Testimonials ----

func (s *Service) CreateTestimonial(ctx context.Context, modelID string, in dto.CreateTestimonialRequest) (*core.Testimonial, error) {
	if strings.TrimSpace(in.AuthorName) == "" || strings.TrimSpace(in.Quote) == "" {
		return nil, ErrMissingFields
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}
	t := &core.Testimonial{
		ID:         uuid.NewString(),
		ModelID:    modelID,
		AuthorName: strings.TrimSpace(in.AuthorName),
		Quote:      strings.TrimSpace(in.Quote),
		Rating:     in.Rating,
		Approved:   in.Approved,
	}
	if err := s.deps.Store.Testimonials().Create(ctx, t); err != nil {
		return nil, err
	}
	s.invalidate(ctx, modelID)
	return t, nil
}

func (s *Service) ListTestimonials(ctx context.Context, modelID string, approvedOnly bool, p core.ListParams) ([]core.Testimonial, int64, error) {
	return s.deps.Store.Testimonials().List(ctx, modelID, approvedOnly, p)
}

func (s *Service) UpdateTestimonial(ctx context.Context, modelID, id string, in dto.UpdateTestimonialRequest) (*core.Testimonial, error) {
	t, err := s.deps.Store.Testimonials().GetByID(ctx, modelID, id)
	if err != nil {
		return nil, err
	}
	if in.AuthorName != nil {
		t.AuthorName = strings.TrimSpace(*in.AuthorName)
	}
	if in.Quote != nil {
		t.Quote = strings.TrimSpace(*in.Quote)
	}
	if in.Rating != nil {
		if *in.Rating < 1 || *in.Rating > 5 {
			return nil, ErrInvalidRating
		}
		t.Rating = *in.Rating
	}
	if in.Approved != nil {
		t.Approved = *in.Approved
	}
	if in.SortOrder != nil {
		t.SortOrder = *in.SortOrder
	}
	if err := s.deps.Store.Testimonials().Update(ctx, t); err != nil {
		return nil, err
	}
	s.invalidate(ctx, modelID)
	return t, nil
}

func (s *Service) DeleteTestimonial(ctx context.Context, modelID, id string) error {
	if err := s.deps.Store.Testimonials().SoftDelete(ctx, modelID, id); err != nil {
		return err
	}
	s.invalidate(ctx, modelID)
	return nil
}

// ---- Rate cards ----

func (s *Service) CreateRateCard(ctx context.Context, modelID string, in dto.CreateRateCardRequest) (*core.RateCard, error) {
	if strings.TrimSpace(in.Title) == "" || in.PriceCents <= 0 {
		return nil, ErrMissingFields
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	rc := &core.RateCard{
		ID:              uuid.NewString(),
		ModelID:         modelID,
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		DurationMinutes: in.DurationMinutes,
		PriceCents:      in.PriceCents,
		Currency:        currency,
		Active:          in.Active,
	}
	if err := s.deps.Store.RateCards().Create(ctx, rc); err != nil {
		return nil, err
	}
	s.invalidate(ctx, modelID)
	return rc, nil
}

func (s *Service) ListRateCards(ctx context.Context, modelID string, activeOnly bool) ([]core.RateCard, error) {
	return s.deps.Store.RateCards().List(ctx, modelID, activeOnly)
}

func (s *Service) UpdateRateCard(ctx context.Context, modelID, id string, in dto.UpdateRateCardRequest) (*core.RateCard, error) {
	rc, err := s.deps.Store.RateCards().GetByID(ctx, modelID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		rc.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		rc.Description = *in.Description
	}
	if in.DurationMinutes != nil {
		rc.DurationMinutes = *in.DurationMinutes
	}
	if in.PriceCents != nil {
		if *in.PriceCents <= 0 {
			return nil, ErrMissingFields
		}
		rc.PriceCents = *in.PriceCents
	}
	if in.Currency != nil {
		rc.Currency = strings.ToUpper(strings.TrimSpace(*in.Currency))
	}
	if in.Active != nil {
		rc.Active = *in.Active
	}
	if in.SortOrder != nil {
		rc.SortOrder = *in.SortOrder
	}
	if err := s.deps.Store.RateCards().Update(ctx, rc); err != nil {
		return nil, err
	}
	s.invalidate(ctx, modelID)
	return rc, nil
}

func (s *Service) DeleteRateCard(ctx context.Context, modelID, id string) error {
	if err := s.deps.Store.RateCards().Delete(ctx, modelID, id); err != nil {
		return err
	}
	s.invalidate(ctx, modelID)
	return nil
}

// ---- Calendario ----

// CreateEvent valida el rango y el solapamiento contra eventos existentes.
func (s *Service) CreateEvent(ctx context.Context, modelID string, in dto.CreateEventRequest) (*core.CalendarEvent, error) {
	if !in.EndsAt.After(in.StartsAt) {
		return nil, ErrInvalidRange
	}
	if !validKind(in.Kind) {
		return nil, ErrInvalidKind
	}
	if err := s.checkOverlap(ctx, modelID, "", in.StartsAt, in.EndsAt); err != nil {
		return nil, err
	}

	ev := &core.CalendarEvent{
		ID:       uuid.NewString(),
		ModelID:  modelID,
		Title:    strings.TrimSpace(in.Title),
		StartsAt: in.StartsAt.UTC(),
		EndsAt:   in.EndsAt.UTC(),
		Kind:     in.Kind,
		Notes:    in.Notes,
	}
	if err := s.deps.Store.CalendarEvents().Create(ctx, ev); err != nil {
		return nil, err
	}
	s.invalidate(ctx, modelID)
	return ev, nil
}

func (s *Service) ListEvents(ctx context.Context, modelID string, from, to time.Time) ([]core.CalendarEvent, error) {
	return s.deps.Store.CalendarEvents().ListRange(ctx, modelID, from, to)
}

func (s *Service) UpdateEvent(ctx context.Context, modelID, id string, in dto.UpdateEventRequest) (*core.CalendarEvent, error) {
	ev, err := s.deps.Store.CalendarEvents().GetByID(ctx, modelID, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		ev.Title = strings.TrimSpace(*in.Title)
	}
	if in.StartsAt != nil {
		ev.StartsAt = in.StartsAt.UTC()
	}
	if in.EndsAt != nil {
		ev.EndsAt = in.EndsAt.UTC()
	}
	if !ev.EndsAt.After(ev.StartsAt) {
		return nil, ErrInvalidRange
	}
	if in.Kind != nil {
		if !validKind(*in.Kind) {
			return nil, ErrInvalidKind
		}
		ev.Kind = *in.Kind
	}
	if in.Notes != nil {
		ev.Notes = *in.Notes
	}
	if in.StartsAt != nil || in.EndsAt != nil {
		if err := s.checkOverlap(ctx, modelID, ev.ID, ev.StartsAt, ev.EndsAt); err != nil {
			return nil, err
		}
	}
	if err := s.deps.Store.CalendarEvents().Update(ctx, ev); err != nil {
		return nil, err
	}
	s.invalidate(ctx, modelID)
	return ev, nil
}

func (s *Service) DeleteEvent(ctx context.Context, modelID, id string) error {
	if err := s.deps.Store.CalendarEvents().Delete(ctx, modelID, id); err != nil {
		return err
	}
	s.invalidate(ctx, modelID)
	return nil
}

func validKind(k string) bool {
	switch k {
	case core.EventKindAvailable, core.EventKindBooked, core.EventKindBlocked:
		return true
	}
	return false
}

// checkOverlap rechaza rangos que pisan otro evento del model.
// excludeID permite actualizar un evento sin chocar consigo mismo.
func (s *Service) checkOverlap(ctx context.Context, modelID, excludeID string, from, to time.Time) error {
	existing, err := s.deps.Store.CalendarEvents().ListRange(ctx, modelID, from, to)
	if err != nil {
		return err
	}
	for _, ev := range existing {
		if ev.ID == excludeID {
			continue
		}
		if ev.StartsAt.Before(to) && from.Before(ev.EndsAt) {
			return ErrOverlap
		}
	}
	return nil
}

// ---- FAQ ----

func (s *Service) CreateFAQ(ctx context.Context, modelID string, in dto.CreateFAQRequest) (*core.FAQEntry, error) {
	if strings.TrimSpace(in.Question) == "" || strings.TrimSpace(in.Answer) == "" {
		return nil, ErrMissingFields
	}
	f := &core.FAQEntry{
		ID:        uuid.NewString(),
		ModelID:   modelID,
		Question:  strings.TrimSpace(in.Question),
		Answer:    strings.TrimSpace(in.Answer),
		Published: in.Published,
	}
	if err := s.deps.Store.FAQs().Create(ctx, f); err != nil {
		return nil, err
	}
	s.invalidate(ctx, modelID)
	return f, nil
}

func (s *Service) ListFAQ(ctx context.Context, modelID string, publishedOnly bool) ([]core.FAQEntry, error) {
	return s.deps.Store.FAQs().List(ctx, modelID, publishedOnly)
}

func (s *Service) UpdateFAQ(ctx context.Context, modelID, id string, in dto.UpdateFAQRequest) (*core.FAQEntry, error) {
	f, err := s.deps.Store.FAQs().GetByID(ctx, modelID, id)
	if err != nil {
		return nil, err
	}
	if in.Question != nil {
		f.Question = strings.TrimSpace(*in.Question)
	}
	if in.Answer != nil {
		f.Answer = strings.TrimSpace(*in.Answer)
	}
	if in.Published != nil {
		f.Published = *in.Published
	}
	if in.SortOrder != nil {
		f.SortOrder = *in.SortOrder
	}
	if err := s.deps.Store.FAQs().Update(ctx, f); err != nil {
		return nil, err
	}
	s.invalidate(ctx, modelID)
	return f, nil
}

func (s *Service) DeleteFAQ(ctx context.Context, modelID, id string) error {
	if err := s.deps.Store.FAQs().Delete(ctx, modelID, id); err != nil {
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
