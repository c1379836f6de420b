// Package public implementa el sitio público de cada model: render de
// páginas themed con cache, contenido JSON de solo lectura, el formulario
// de contacto y el tracking de analytics.
package public

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/musenest/internal/cache"
	"github.com/dropDatabas3/musenest/internal/email"
	"github.com/dropDatabas3/musenest/internal/httpx"
	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/store/core"
	"github.com/dropDatabas3/musenest/internal/template"
	"github.com/dropDatabas3/musenest/internal/validation"
)

// Errores del servicio.
var (
	ErrUnknownPage   = fmt.Errorf("unknown page")
	ErrInvalidEmail  = fmt.Errorf("invalid email")
	ErrMissingFields = fmt.Errorf("missing required fields")
)

// Páginas renderizables de un sitio.
var pageNames = map[string]bool{
	"home": true, "gallery": true, "rates": true,
	"calendar": true, "testimonials": true, "faq": true, "contact": true,
}

// Deps contiene las dependencias del servicio.
type Deps struct {
	Store    core.Store
	Cache    cache.Client
	Notifier *email.Notifier
	PageTTL  time.Duration
}

type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	if deps.PageTTL <= 0 {
		deps.PageTTL = 5 * time.Minute
	}
	return &Service{deps: deps}
}

// RenderPage renderiza una página pública del model. El HTML renderizado
// se cachea por model+page; cualquier escritura del back office invalida
// el prefijo. Siempre registra el page view, haya cache hit o no.
func (s *Service) RenderPage(ctx context.Context, m *core.Model, page string) (string, error) {
	if page == "" {
		page = "home"
	}
	if !pageNames[page] {
		return "", ErrUnknownPage
	}

	s.trackPageView(ctx, m.ID, "/m/"+m.Slug+"/"+page)

	key := "page:" + m.ID + ":" + page
	if s.deps.Cache != nil {
		if html, err := s.deps.Cache.Get(ctx, key); err == nil {
			httpx.RecordPublicRender(page, true)
			return html, nil
		}
	}

	html, err := s.render(ctx, m, page)
	if err != nil {
		return "", err
	}
	httpx.RecordPublicRender(page, false)

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Set(ctx, key, html, s.deps.PageTTL); err != nil {
			logger.From(ctx).Warn("page cache store failed", logger.Err(err))
		}
	}
	return html, nil
}

// PreviewTheme renderiza una página con un theme arbitrario sin cache.
// Lo usa el back office para previsualizar antes de asignar.
func (s *Service) PreviewTheme(ctx context.Context, m *core.Model, themeSlug, page string) (string, error) {
	if page == "" {
		page = "home"
	}
	if !pageNames[page] {
		return "", ErrUnknownPage
	}
	theme, err := s.deps.Store.ThemeSets().GetBySlug(ctx, themeSlug)
	if err != nil {
		return "", err
	}
	data, err := s.pageData(ctx, m, page)
	if err != nil {
		return "", err
	}
	return s.renderWithTheme(theme, page, data), nil
}

func (s *Service) render(ctx context.Context, m *core.Model, page string) (string, error) {
	var theme *core.ThemeSet
	if m.ThemeSetID != nil {
		t, err := s.deps.Store.ThemeSets().GetByID(ctx, *m.ThemeSetID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return "", err
		}
		theme = t
	}
	data, err := s.pageData(ctx, m, page)
	if err != nil {
		return "", err
	}
	return s.renderWithTheme(theme, page, data), nil
}

func (s *Service) renderWithTheme(theme *core.ThemeSet, page string, data map[string]any) string {
	tmpl := ""
	if theme != nil {
		if t, ok := theme.Templates[page]; ok {
			tmpl = t
		}
		palette := map[string]any{}
		for k, v := range theme.Palette {
			palette[k] = v
		}
		data["palette"] = palette
	}
	if tmpl == "" {
		tmpl = defaultTemplates[page]
	}
	return template.Render(tmpl, data)
}

// pageData arma las variables del template: settings del model + contenido
// publicado de la página pedida.
func (s *Service) pageData(ctx context.Context, m *core.Model, page string) (map[string]any, error) {
	data := map[string]any{
		"model_name": m.DisplayName,
		"model_slug": m.Slug,
		"page":       page,
	}

	settings, err := s.deps.Store.SiteSettings().ListByModel(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	settingsMap := map[string]any{}
	for _, st := range settings {
		settingsMap[st.Key] = st.Value
	}
	data["settings"] = settingsMap

	switch page {
	case "home", "gallery":
		sections, err := s.Gallery(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		data["sections"] = asTemplateValue(sections)
	case "rates":
		rates, err := s.deps.Store.RateCards().List(ctx, m.ID, true)
		if err != nil {
			return nil, err
		}
		data["rates"] = asTemplateValue(rates)
	case "calendar":
		from := time.Now().UTC()
		events, err := s.deps.Store.CalendarEvents().ListRange(ctx, m.ID, from, from.AddDate(0, 3, 0))
		if err != nil {
			return nil, err
		}
		data["events"] = asTemplateValue(events)
	case "testimonials":
		ts, _, err := s.deps.Store.Testimonials().List(ctx, m.ID, true, core.ListParams{Limit: 100})
		if err != nil {
			return nil, err
		}
		data["testimonials"] = asTemplateValue(ts)
	case "faq":
		faqs, err := s.deps.Store.FAQs().List(ctx, m.ID, true)
		if err != nil {
			return nil, err
		}
		data["faqs"] = asTemplateValue(faqs)
	}
	return data, nil
}

// asTemplateValue baja un valor de dominio a la forma JSON genérica que
// entiende el renderer (maps y slices planos, keys = tags json).
func asTemplateValue(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}

// PublicSection es una sección visible con sus imágenes aprobadas.
type PublicSection struct {
	Title  string              `json:"title"`
	Slug   string              `json:"slug"`
	Images []core.GalleryImage `json:"images"`
}

// Gallery devuelve las secciones públicas con imágenes aprobadas.
func (s *Service) Gallery(ctx context.Context, modelID string) ([]PublicSection, error) {
	sections, err := s.deps.Store.GallerySections().ListByModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	out := make([]PublicSection, 0, len(sections))
	for _, sec := range sections {
		if sec.Visibility != "public" {
			continue
		}
		secID := sec.ID
		imgs, _, err := s.deps.Store.GalleryImages().List(ctx, modelID,
			core.ImageListFilter{SectionID: &secID, Status: core.ImageStatusApproved},
			core.ListParams{Limit: 500})
		if err != nil {
			return nil, err
		}
		out = append(out, PublicSection{Title: sec.Title, Slug: sec.Slug, Images: imgs})
	}
	return out, nil
}

// Testimonials devuelve solo los aprobados.
func (s *Service) Testimonials(ctx context.Context, modelID string, p core.ListParams) ([]core.Testimonial, int64, error) {
	return s.deps.Store.Testimonials().List(ctx, modelID, true, p)
}

// Rates devuelve solo los activos.
func (s *Service) Rates(ctx context.Context, modelID string) ([]core.RateCard, error) {
	return s.deps.Store.RateCards().List(ctx, modelID, true)
}

// FAQ devuelve solo las publicadas.
func (s *Service) FAQ(ctx context.Context, modelID string) ([]core.FAQEntry, error) {
	return s.deps.Store.FAQs().List(ctx, modelID, true)
}

// Calendar devuelve los eventos del rango pedido. Los notes internos no
// salen al público.
func (s *Service) Calendar(ctx context.Context, modelID string, from, to time.Time) ([]core.CalendarEvent, error) {
	events, err := s.deps.Store.CalendarEvents().ListRange(ctx, modelID, from, to)
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Notes = ""
	}
	return events, nil
}

// SubmitInquiry procesa el formulario público de contacto: resuelve o crea
// el contacto, registra la inquiry, notifica por email y trackea el evento.
func (s *Service) SubmitInquiry(ctx context.Context, m *core.Model, in dto.InquiryRequest) (*core.CRMInquiry, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("public"),
		logger.Op("SubmitInquiry"),
		logger.ModelID(m.ID),
	)

	fromEmail := strings.ToLower(strings.TrimSpace(in.Email))
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Message) == "" {
		return nil, ErrMissingFields
	}
	if !validation.ValidEmail(fromEmail) {
		return nil, ErrInvalidEmail
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		subject = "Consulta desde el sitio"
	}

	// Contacto existente por email, o alta automática.
	var contactID *string
	if c, err := s.deps.Store.CRMContacts().GetByEmail(ctx, m.ID, fromEmail); err == nil {
		contactID = &c.ID
	} else if errors.Is(err, core.ErrNotFound) {
		c := &core.CRMContact{
			ID:      uuid.NewString(),
			ModelID: m.ID,
			Name:    strings.TrimSpace(in.Name),
			Email:   fromEmail,
			Tags:    []string{"contact-form"},
		}
		if err := s.deps.Store.CRMContacts().Create(ctx, c); err == nil {
			contactID = &c.ID
		} else {
			log.Warn("contact auto-create failed", logger.Err(err))
		}
	} else {
		return nil, err
	}

	q := &core.CRMInquiry{
		ID:        uuid.NewString(),
		ModelID:   m.ID,
		ContactID: contactID,
		Subject:   subject,
		Message:   strings.TrimSpace(in.Message),
		Status:    core.InquiryStatusNew,
		Source:    "contact_form",
		FromName:  strings.TrimSpace(in.Name),
		FromEmail: fromEmail,
	}
	if err := s.deps.Store.CRMInquiries().Create(ctx, q); err != nil {
		return nil, err
	}

	s.track(ctx, m.ID, core.AnalyticsInquiry, "/m/"+m.Slug+"/contact")

	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.NotifyInquiry(m.Email, m.DisplayName, q.FromName, q.FromEmail, q.Subject, q.Message); err != nil {
			// la inquiry ya quedó registrada, el mail es best effort
			log.Warn("inquiry notification failed", logger.Err(err))
		}
	}

	log.Info("inquiry received", logger.ID(q.ID))
	return q, nil
}

func (s *Service) trackPageView(ctx context.Context, modelID, path string) {
	s.track(ctx, modelID, core.AnalyticsPageView, path)
}

func (s *Service) track(ctx context.Context, modelID, kind, path string) {
	ev := &core.AnalyticsEvent{
		ID:         uuid.NewString(),
		ModelID:    modelID,
		Kind:       kind,
		Path:       path,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.deps.Store.Analytics().Record(ctx, ev); err != nil {
		logger.From(ctx).Warn("analytics record failed", logger.Err(err))
	}
}
