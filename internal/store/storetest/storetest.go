// Package storetest provee una implementación en memoria de core.Store
// para tests de services. No es thread-safe más allá de un mutex global y
// no implementa semántica SQL, solo lo que los services necesitan.
package storetest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dropDatabas3/musenest/internal/store/core"
)

// Store implementa core.Store sobre maps en memoria.
type Store struct {
	mu sync.Mutex

	models      map[string]*core.Model
	users       map[string]*core.ModelUser
	themes      map[string]*core.ThemeSet
	settings    map[string]*core.SiteSetting // model|key
	sections    map[string]*core.GallerySection
	images      map[string]*core.GalleryImage
	testis      map[string]*core.Testimonial
	rates       map[string]*core.RateCard
	events      map[string]*core.CalendarEvent
	faqs        map[string]*core.FAQEntry
	contacts    map[string]*core.CRMContact
	inquiries   map[string]*core.CRMInquiry
	reviews     map[string]*core.ModerationReview
	analyticsEv []core.AnalyticsEvent
}

func New() *Store {
	return &Store{
		models:    map[string]*core.Model{},
		users:     map[string]*core.ModelUser{},
		themes:    map[string]*core.ThemeSet{},
		settings:  map[string]*core.SiteSetting{},
		sections:  map[string]*core.GallerySection{},
		images:    map[string]*core.GalleryImage{},
		testis:    map[string]*core.Testimonial{},
		rates:     map[string]*core.RateCard{},
		events:    map[string]*core.CalendarEvent{},
		faqs:      map[string]*core.FAQEntry{},
		contacts:  map[string]*core.CRMContact{},
		inquiries: map[string]*core.CRMInquiry{},
		reviews:   map[string]*core.ModerationReview{},
	}
}

func (s *Store) Models() core.ModelRepository               { return (*modelRepo)(s) }
func (s *Store) ModelUsers() core.ModelUserRepository       { return (*userRepo)(s) }
func (s *Store) ThemeSets() core.ThemeSetRepository         { return (*themeRepo)(s) }
func (s *Store) SiteSettings() core.SiteSettingRepository   { return (*settingRepo)(s) }
func (s *Store) GallerySections() core.GallerySectionRepository { return (*sectionRepo)(s) }
func (s *Store) GalleryImages() core.GalleryImageRepository { return (*imageRepo)(s) }
func (s *Store) Testimonials() core.TestimonialRepository   { return (*testiRepo)(s) }
func (s *Store) RateCards() core.RateCardRepository         { return (*rateRepo)(s) }
func (s *Store) CalendarEvents() core.CalendarEventRepository { return (*eventRepo)(s) }
func (s *Store) FAQs() core.FAQRepository                   { return (*faqRepo)(s) }
func (s *Store) CRMContacts() core.CRMContactRepository     { return (*contactRepo)(s) }
func (s *Store) CRMInquiries() core.CRMInquiryRepository    { return (*inquiryRepo)(s) }
func (s *Store) Moderation() core.ModerationRepository      { return (*reviewRepo)(s) }
func (s *Store) Analytics() core.AnalyticsRepository        { return (*analyticsRepo)(s) }

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func page[T any](items []T, p core.ListParams) []T {
	if p.Offset >= len(items) {
		return nil
	}
	items = items[p.Offset:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}

// ---- models ----

type modelRepo Store

func (r *modelRepo) Create(_ context.Context, m *core.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.models {
		if ex.Slug == m.Slug {
			return core.ErrConflict
		}
	}
	cp := *m
	now := time.Now().UTC()
	cp.CreatedAt, cp.UpdatedAt = now, now
	r.models[m.ID] = &cp
	return nil
}

func (r *modelRepo) CreateWithOwner(_ context.Context, m *core.Model, owner *core.ModelUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// ambas verificaciones antes de escribir: o entra todo o no entra nada
	for _, ex := range r.models {
		if ex.Slug == m.Slug {
			return core.ErrConflict
		}
	}
	for _, ex := range r.users {
		if ex.Email == owner.Email {
			return core.ErrConflict
		}
	}
	now := time.Now().UTC()
	mc := *m
	mc.CreatedAt, mc.UpdatedAt = now, now
	r.models[m.ID] = &mc
	uc := *owner
	uc.CreatedAt = now
	r.users[owner.ID] = &uc
	return nil
}

func (r *modelRepo) GetByID(_ context.Context, id string) (*core.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.models[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *modelRepo) GetBySlug(_ context.Context, slug string) (*core.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.models {
		if m.Slug == slug {
			cp := *m
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (r *modelRepo) List(_ context.Context, p core.ListParams) ([]core.Model, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Model
	for _, m := range r.models {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	total := int64(len(out))
	return page(out, p), total, nil
}

func (r *modelRepo) Update(_ context.Context, m *core.Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[m.ID]; !ok {
		return core.ErrNotFound
	}
	cp := *m
	cp.UpdatedAt = time.Now().UTC()
	r.models[m.ID] = &cp
	return nil
}

func (r *modelRepo) SetStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.models[id]
	if !ok {
		return core.ErrNotFound
	}
	m.Status = status
	return nil
}

// ---- users ----

type userRepo Store

func (r *userRepo) Create(_ context.Context, u *core.ModelUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.users {
		if ex.Email == u.Email {
			return core.ErrConflict
		}
	}
	cp := *u
	cp.CreatedAt = time.Now().UTC()
	r.users[u.ID] = &cp
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*core.ModelUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*core.ModelUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (r *userRepo) ListByModel(_ context.Context, modelID string) ([]core.ModelUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.ModelUser
	for _, u := range r.users {
		if u.ModelID == modelID {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *userRepo) UpdatePassword(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *userRepo) TouchLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.LastLoginAt = &at
	return nil
}

// ---- themes ----

type themeRepo Store

func (r *themeRepo) Create(_ context.Context, t *core.ThemeSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.themes {
		if ex.Slug == t.Slug {
			return core.ErrConflict
		}
	}
	cp := *t
	cp.CreatedAt = time.Now().UTC()
	r.themes[t.ID] = &cp
	return nil
}

func (r *themeRepo) GetByID(_ context.Context, id string) (*core.ThemeSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.themes[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *themeRepo) GetBySlug(_ context.Context, slug string) (*core.ThemeSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.themes {
		if t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (r *themeRepo) List(_ context.Context) ([]core.ThemeSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.ThemeSet
	for _, t := range r.themes {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

// ---- settings ----

type settingRepo Store

func skey(modelID, key string) string { return modelID + "|" + key }

func (r *settingRepo) Upsert(_ context.Context, s *core.SiteSetting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	cp.UpdatedAt = time.Now().UTC()
	r.settings[skey(s.ModelID, s.Key)] = &cp
	return nil
}

func (r *settingRepo) BulkUpsert(_ context.Context, modelID string, items []core.SiteSetting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	for _, s := range items {
		cp := s
		cp.ModelID = modelID
		cp.UpdatedAt = now
		r.settings[skey(modelID, s.Key)] = &cp
	}
	return nil
}

func (r *settingRepo) Get(_ context.Context, modelID, key string) (*core.SiteSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[skey(modelID, key)]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *settingRepo) ListByModel(_ context.Context, modelID string) ([]core.SiteSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.SiteSetting
	for _, s := range r.settings {
		if s.ModelID == modelID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *settingRepo) Delete(_ context.Context, modelID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := skey(modelID, key)
	if _, ok := r.settings[k]; !ok {
		return core.ErrNotFound
	}
	delete(r.settings, k)
	return nil
}

// ---- sections ----

type sectionRepo Store

func (r *sectionRepo) Create(_ context.Context, s *core.GallerySection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.sections {
		if ex.ModelID == s.ModelID && ex.Slug == s.Slug {
			return core.ErrConflict
		}
	}
	cp := *s
	cp.CreatedAt = time.Now().UTC()
	r.sections[s.ID] = &cp
	return nil
}

func (r *sectionRepo) GetByID(_ context.Context, modelID, id string) (*core.GallerySection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sections[id]
	if !ok || s.ModelID != modelID {
		return nil, core.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *sectionRepo) ListByModel(_ context.Context, modelID string) ([]core.GallerySection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.GallerySection
	for _, s := range r.sections {
		if s.ModelID == modelID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *sectionRepo) Update(_ context.Context, s *core.GallerySection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex, ok := r.sections[s.ID]
	if !ok || ex.ModelID != s.ModelID {
		return core.ErrNotFound
	}
	cp := *s
	r.sections[s.ID] = &cp
	return nil
}

func (r *sectionRepo) Delete(_ context.Context, modelID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sections[id]
	if !ok || s.ModelID != modelID {
		return core.ErrNotFound
	}
	delete(r.sections, id)
	return nil
}

func (r *sectionRepo) Reorder(_ context.Context, modelID string, orderedIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range orderedIDs {
		if s, ok := r.sections[id]; ok && s.ModelID == modelID {
			s.SortOrder = i
		}
	}
	return nil
}

// ---- images ----

type imageRepo Store

func (r *imageRepo) Create(_ context.Context, img *core.GalleryImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *img
	cp.CreatedAt = time.Now().UTC()
	r.images[img.ID] = &cp
	return nil
}

func (r *imageRepo) GetByID(_ context.Context, modelID, id string) (*core.GalleryImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[id]
	if !ok || img.ModelID != modelID || img.DeletedAt != nil {
		return nil, core.ErrNotFound
	}
	cp := *img
	return &cp, nil
}

func (r *imageRepo) List(_ context.Context, modelID string, f core.ImageListFilter, p core.ListParams) ([]core.GalleryImage, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.GalleryImage
	for _, img := range r.images {
		if img.ModelID != modelID || img.DeletedAt != nil {
			continue
		}
		if f.SectionID != nil && (img.SectionID == nil || *img.SectionID != *f.SectionID) {
			continue
		}
		if f.Status != "" && img.Status != f.Status {
			continue
		}
		out = append(out, *img)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	total := int64(len(out))
	return page(out, p), total, nil
}

func (r *imageRepo) Update(_ context.Context, img *core.GalleryImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex, ok := r.images[img.ID]
	if !ok || ex.ModelID != img.ModelID || ex.DeletedAt != nil {
		return core.ErrNotFound
	}
	cp := *img
	r.images[img.ID] = &cp
	return nil
}

func (r *imageRepo) SetStatus(_ context.Context, modelID, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[id]
	if !ok || img.ModelID != modelID || img.DeletedAt != nil {
		return core.ErrNotFound
	}
	img.Status = status
	return nil
}

func (r *imageRepo) Restore(_ context.Context, modelID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[id]
	if !ok || img.ModelID != modelID || img.DeletedAt == nil {
		return core.ErrNotFound
	}
	img.DeletedAt = nil
	img.Status = core.ImageStatusPending
	return nil
}

func (r *imageRepo) SoftDelete(_ context.Context, modelID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	img, ok := r.images[id]
	if !ok || img.ModelID != modelID || img.DeletedAt != nil {
		return core.ErrNotFound
	}
	now := time.Now().UTC()
	img.DeletedAt = &now
	return nil
}

func (r *imageRepo) Reorder(_ context.Context, modelID, sectionID string, orderedIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, id := range orderedIDs {
		if img, ok := r.images[id]; ok && img.ModelID == modelID {
			img.SortOrder = i
		}
	}
	return nil
}

// ---- testimonials ----

type testiRepo Store

func (r *testiRepo) Create(_ context.Context, t *core.Testimonial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	cp.CreatedAt = time.Now().UTC()
	r.testis[t.ID] = &cp
	return nil
}

func (r *testiRepo) GetByID(_ context.Context, modelID, id string) (*core.Testimonial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.testis[id]
	if !ok || t.ModelID != modelID || t.DeletedAt != nil {
		return nil, core.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *testiRepo) List(_ context.Context, modelID string, approvedOnly bool, p core.ListParams) ([]core.Testimonial, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Testimonial
	for _, t := range r.testis {
		if t.ModelID != modelID || t.DeletedAt != nil {
			continue
		}
		if approvedOnly && !t.Approved {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	total := int64(len(out))
	return page(out, p), total, nil
}

func (r *testiRepo) Update(_ context.Context, t *core.Testimonial) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex, ok := r.testis[t.ID]
	if !ok || ex.ModelID != t.ModelID || ex.DeletedAt != nil {
		return core.ErrNotFound
	}
	cp := *t
	r.testis[t.ID] = &cp
	return nil
}

func (r *testiRepo) SoftDelete(_ context.Context, modelID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.testis[id]
	if !ok || t.ModelID != modelID || t.DeletedAt != nil {
		return core.ErrNotFound
	}
	now := time.Now().UTC()
	t.DeletedAt = &now
	return nil
}

// ---- rate cards ----

type rateRepo Store

func (r *rateRepo) Create(_ context.Context, rc *core.RateCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rc
	cp.CreatedAt = time.Now().UTC()
	r.rates[rc.ID] = &cp
	return nil
}

func (r *rateRepo) GetByID(_ context.Context, modelID, id string) (*core.RateCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rc, ok := r.rates[id]
	if !ok || rc.ModelID != modelID {
		return nil, core.ErrNotFound
	}
	cp := *rc
	return &cp, nil
}

func (r *rateRepo) List(_ context.Context, modelID string, activeOnly bool) ([]core.RateCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.RateCard
	for _, rc := range r.rates {
		if rc.ModelID != modelID {
			continue
		}
		if activeOnly && !rc.Active {
			continue
		}
		out = append(out, *rc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *rateRepo) Update(_ context.Context, rc *core.RateCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex, ok := r.rates[rc.ID]
	if !ok || ex.ModelID != rc.ModelID {
		return core.ErrNotFound
	}
	cp := *rc
	r.rates[rc.ID] = &cp
	return nil
}

func (r *rateRepo) Delete(_ context.Context, modelID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rc, ok := r.rates[id]
	if !ok || rc.ModelID != modelID {
		return core.ErrNotFound
	}
	delete(r.rates, id)
	return nil
}

// ---- calendar ----

type eventRepo Store

func (r *eventRepo) Create(_ context.Context, ev *core.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ev
	cp.CreatedAt = time.Now().UTC()
	r.events[ev.ID] = &cp
	return nil
}

func (r *eventRepo) GetByID(_ context.Context, modelID, id string) (*core.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok || ev.ModelID != modelID {
		return nil, core.ErrNotFound
	}
	cp := *ev
	return &cp, nil
}

func (r *eventRepo) ListRange(_ context.Context, modelID string, from, to time.Time) ([]core.CalendarEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.CalendarEvent
	for _, ev := range r.events {
		if ev.ModelID != modelID {
			continue
		}
		if ev.StartsAt.Before(to) && from.Before(ev.EndsAt) {
			out = append(out, *ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (r *eventRepo) Update(_ context.Context, ev *core.CalendarEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex, ok := r.events[ev.ID]
	if !ok || ex.ModelID != ev.ModelID {
		return core.ErrNotFound
	}
	cp := *ev
	r.events[ev.ID] = &cp
	return nil
}

func (r *eventRepo) Delete(_ context.Context, modelID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok || ev.ModelID != modelID {
		return core.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

// ---- faq ----

type faqRepo Store

func (r *faqRepo) Create(_ context.Context, f *core.FAQEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *f
	cp.CreatedAt = time.Now().UTC()
	r.faqs[f.ID] = &cp
	return nil
}

func (r *faqRepo) GetByID(_ context.Context, modelID, id string) (*core.FAQEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.faqs[id]
	if !ok || f.ModelID != modelID {
		return nil, core.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *faqRepo) List(_ context.Context, modelID string, publishedOnly bool) ([]core.FAQEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.FAQEntry
	for _, f := range r.faqs {
		if f.ModelID != modelID {
			continue
		}
		if publishedOnly && !f.Published {
			continue
		}
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *faqRepo) Update(_ context.Context, f *core.FAQEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex, ok := r.faqs[f.ID]
	if !ok || ex.ModelID != f.ModelID {
		return core.ErrNotFound
	}
	cp := *f
	r.faqs[f.ID] = &cp
	return nil
}

func (r *faqRepo) Delete(_ context.Context, modelID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.faqs[id]
	if !ok || f.ModelID != modelID {
		return core.ErrNotFound
	}
	delete(r.faqs, id)
	return nil
}

// ---- contacts ----

type contactRepo Store

func (r *contactRepo) Create(_ context.Context, c *core.CRMContact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ex := range r.contacts {
		if ex.ModelID == c.ModelID && ex.Email == c.Email {
			return core.ErrConflict
		}
	}
	cp := *c
	now := time.Now().UTC()
	cp.CreatedAt, cp.UpdatedAt = now, now
	r.contacts[c.ID] = &cp
	return nil
}

func (r *contactRepo) GetByID(_ context.Context, modelID, id string) (*core.CRMContact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || c.ModelID != modelID {
		return nil, core.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *contactRepo) GetByEmail(_ context.Context, modelID, email string) (*core.CRMContact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.contacts {
		if c.ModelID == modelID && c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, core.ErrNotFound
}

func (r *contactRepo) List(_ context.Context, modelID, search string, p core.ListParams) ([]core.CRMContact, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	search = strings.ToLower(search)
	var out []core.CRMContact
	for _, c := range r.contacts {
		if c.ModelID != modelID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Email), search) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	total := int64(len(out))
	return page(out, p), total, nil
}

func (r *contactRepo) Update(_ context.Context, c *core.CRMContact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex, ok := r.contacts[c.ID]
	if !ok || ex.ModelID != c.ModelID {
		return core.ErrNotFound
	}
	cp := *c
	cp.UpdatedAt = time.Now().UTC()
	r.contacts[c.ID] = &cp
	return nil
}

func (r *contactRepo) Delete(_ context.Context, modelID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || c.ModelID != modelID {
		return core.ErrNotFound
	}
	delete(r.contacts, id)
	return nil
}

// ---- inquiries ----

type inquiryRepo Store

func (r *inquiryRepo) Create(_ context.Context, q *core.CRMInquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *q
	cp.CreatedAt = time.Now().UTC()
	r.inquiries[q.ID] = &cp
	return nil
}

func (r *inquiryRepo) GetByID(_ context.Context, modelID, id string) (*core.CRMInquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.inquiries[id]
	if !ok || q.ModelID != modelID {
		return nil, core.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (r *inquiryRepo) List(_ context.Context, modelID, status string, p core.ListParams) ([]core.CRMInquiry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.CRMInquiry
	for _, q := range r.inquiries {
		if q.ModelID != modelID {
			continue
		}
		if status != "" && q.Status != status {
			continue
		}
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	return page(out, p), total, nil
}

func (r *inquiryRepo) SetStatus(_ context.Context, modelID, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.inquiries[id]
	if !ok || q.ModelID != modelID {
		return core.ErrNotFound
	}
	q.Status = status
	return nil
}

func (r *inquiryRepo) CountSince(_ context.Context, modelID string, since time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, q := range r.inquiries {
		if q.ModelID == modelID && !q.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// ---- moderation ----

type reviewRepo Store

func (r *reviewRepo) Create(_ context.Context, rev *core.ModerationReview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rev
	cp.CreatedAt = time.Now().UTC()
	r.reviews[rev.ID] = &cp
	return nil
}

func (r *reviewRepo) GetByID(_ context.Context, modelID, id string) (*core.ModerationReview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.reviews[id]
	if !ok || rev.ModelID != modelID {
		return nil, core.ErrNotFound
	}
	cp := *rev
	return &cp, nil
}

func (r *reviewRepo) GetLatestByImage(_ context.Context, modelID, imageID string) (*core.ModerationReview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *core.ModerationReview
	for _, rev := range r.reviews {
		if rev.ModelID != modelID || rev.ImageID != imageID {
			continue
		}
		if latest == nil || rev.CreatedAt.After(latest.CreatedAt) {
			latest = rev
		}
	}
	if latest == nil {
		return nil, core.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *reviewRepo) ListPending(_ context.Context, modelID string, p core.ListParams) ([]core.ModerationReview, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.ModerationReview
	for _, rev := range r.reviews {
		if rev.ModelID == modelID && rev.HumanReviewRequired && rev.ReviewedBy == nil {
			out = append(out, *rev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	total := int64(len(out))
	return page(out, p), total, nil
}

func (r *reviewRepo) SetReviewed(_ context.Context, modelID, id, status, reviewerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.reviews[id]
	if !ok || rev.ModelID != modelID {
		return core.ErrNotFound
	}
	rev.Status = status
	rev.ReviewedBy = &reviewerID
	rev.HumanReviewRequired = false
	return nil
}

// ---- analytics ----

type analyticsRepo Store

func (r *analyticsRepo) Record(_ context.Context, ev *core.AnalyticsEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyticsEv = append(r.analyticsEv, *ev)
	return nil
}

func (r *analyticsRepo) CountByKind(_ context.Context, modelID string, from, to time.Time) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]int64{}
	for _, ev := range r.analyticsEv {
		if ev.ModelID == modelID && !ev.OccurredAt.Before(from) && ev.OccurredAt.Before(to) {
			out[ev.Kind]++
		}
	}
	return out, nil
}

func (r *analyticsRepo) TopPaths(_ context.Context, modelID string, from, to time.Time, limit int) ([]core.PathCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, ev := range r.analyticsEv {
		if ev.ModelID == modelID && ev.Kind == core.AnalyticsPageView &&
			!ev.OccurredAt.Before(from) && ev.OccurredAt.Before(to) {
			counts[ev.Path]++
		}
	}
	out := make([]core.PathCount, 0, len(counts))
	for p, n := range counts {
		out = append(out, core.PathCount{Path: p, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Path < out[j].Path
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *analyticsRepo) ListRange(_ context.Context, modelID string, from, to time.Time) ([]core.AnalyticsEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.AnalyticsEvent
	for _, ev := range r.analyticsEv {
		if ev.ModelID == modelID && !ev.OccurredAt.Before(from) && ev.OccurredAt.Before(to) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

func (r *analyticsRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []core.AnalyticsEvent
	var removed int64
	for _, ev := range r.analyticsEv {
		if ev.OccurredAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, ev)
	}
	r.analyticsEv = kept
	return removed, nil
}
