package public

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/musenest/internal/cache"
	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	"github.com/dropDatabas3/musenest/internal/store/core"
	"github.com/dropDatabas3/musenest/internal/store/storetest"
)

func seedModel(t *testing.T, st *storetest.Store, withTheme bool) *core.Model {
	t.Helper()
	ctx := context.Background()

	m := &core.Model{
		ID:          "model-1",
		Slug:        "vera",
		DisplayName: "Vera",
		Email:       "vera@example.com",
		Status:      core.ModelStatusActive,
	}
	if withTheme {
		theme := &core.ThemeSet{
			ID:      "theme-1",
			Slug:    "noir",
			Name:    "Noir",
			Palette: map[string]string{"background": "#000"},
			Templates: map[string]string{
				"home": `<h1>{{model_name}}</h1><p>{{settings.tagline}}</p><div>{{palette.background}}</div>`,
			},
		}
		require.NoError(t, st.ThemeSets().Create(ctx, theme))
		m.ThemeSetID = &theme.ID
	}
	require.NoError(t, st.Models().Create(ctx, m))
	return m
}

func TestRenderPage_ThemedWithSettings(t *testing.T) {
	st := storetest.New()
	m := seedModel(t, st, true)
	svc := NewService(Deps{Store: st, Cache: cache.NewMemory("test:")})
	ctx := context.Background()

	require.NoError(t, st.SiteSettings().Upsert(ctx, &core.SiteSetting{
		ModelID: m.ID, Key: "tagline", Value: "bienvenidos", Type: "text",
	}))

	html, err := svc.RenderPage(ctx, m, "home")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Vera</h1>")
	assert.Contains(t, html, "bienvenidos")
	assert.Contains(t, html, "#000")
}

func TestRenderPage_UnknownPage(t *testing.T) {
	st := storetest.New()
	m := seedModel(t, st, false)
	svc := NewService(Deps{Store: st, Cache: cache.NewMemory("test:")})

	_, err := svc.RenderPage(context.Background(), m, "blog")
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestRenderPage_FallbackTemplate(t *testing.T) {
	st := storetest.New()
	m := seedModel(t, st, false) // sin theme: usa el template por defecto
	svc := NewService(Deps{Store: st, Cache: cache.NewMemory("test:")})

	html, err := svc.RenderPage(context.Background(), m, "home")
	require.NoError(t, err)
	assert.Contains(t, html, "Vera")
}

func TestRenderPage_CacheHit(t *testing.T) {
	st := storetest.New()
	m := seedModel(t, st, true)
	c := cache.NewMemory("test:")
	svc := NewService(Deps{Store: st, Cache: c, PageTTL: time.Minute})
	ctx := context.Background()

	first, err := svc.RenderPage(ctx, m, "home")
	require.NoError(t, err)

	// un cambio de settings sin invalidación no se ve hasta que expire
	require.NoError(t, st.SiteSettings().Upsert(ctx, &core.SiteSetting{
		ModelID: m.ID, Key: "tagline", Value: "nuevo", Type: "text",
	}))
	second, err := svc.RenderPage(ctx, m, "home")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// invalidando el prefijo, el próximo render ve el cambio
	require.NoError(t, c.DeletePrefix(ctx, "page:"+m.ID+":"))
	third, err := svc.RenderPage(ctx, m, "home")
	require.NoError(t, err)
	assert.Contains(t, third, "nuevo")
}

func TestRenderPage_TracksPageViews(t *testing.T) {
	st := storetest.New()
	m := seedModel(t, st, true)
	svc := NewService(Deps{Store: st, Cache: cache.NewMemory("test:")})
	ctx := context.Background()

	_, err := svc.RenderPage(ctx, m, "home")
	require.NoError(t, err)
	_, err = svc.RenderPage(ctx, m, "home") // cache hit, igual trackea
	require.NoError(t, err)

	now := time.Now().UTC()
	counts, err := st.Analytics().CountByKind(ctx, m.ID, now.Add(-time.Minute), now.Add(time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[core.AnalyticsPageView])
}

func TestPreviewTheme_NoCache(t *testing.T) {
	st := storetest.New()
	m := seedModel(t, st, false)
	ctx := context.Background()

	other := &core.ThemeSet{
		ID: "theme-2", Slug: "pastel", Name: "Pastel",
		Templates: map[string]string{"home": `<body class="pastel">{{model_name}}</body>`},
	}
	require.NoError(t, st.ThemeSets().Create(ctx, other))

	svc := NewService(Deps{Store: st, Cache: cache.NewMemory("test:")})
	html, err := svc.PreviewTheme(ctx, m, "pastel", "home")
	require.NoError(t, err)
	assert.Contains(t, html, `class="pastel"`)

	_, err = svc.PreviewTheme(ctx, m, "missing", "home")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestGallery_OnlyApprovedPublicImages(t *testing.T) {
	st := storetest.New()
	m := seedModel(t, st, false)
	svc := NewService(Deps{Store: st, Cache: cache.NewMemory("test:")})
	ctx := context.Background()

	pub := &core.GallerySection{ID: "sec-1", ModelID: m.ID, Title: "Editorial", Slug: "editorial", Visibility: "public"}
	hidden := &core.GallerySection{ID: "sec-2", ModelID: m.ID, Title: "Privada", Slug: "privada", Visibility: "hidden"}
	require.NoError(t, st.GallerySections().Create(ctx, pub))
	require.NoError(t, st.GallerySections().Create(ctx, hidden))

	mk := func(id, sectionID, status string) {
		sid := sectionID
		require.NoError(t, st.GalleryImages().Create(ctx, &core.GalleryImage{
			ID: id, ModelID: m.ID, SectionID: &sid, Filename: id + ".jpg", Status: status,
		}))
	}
	mk("img-ok", pub.ID, core.ImageStatusApproved)
	mk("img-pending", pub.ID, core.ImageStatusPending)
	mk("img-hidden", hidden.ID, core.ImageStatusApproved)

	sections, err := svc.Gallery(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "editorial", sections[0].Slug)
	require.Len(t, sections[0].Images, 1)
	assert.Equal(t, "img-ok", sections[0].Images[0].ID)
}

func TestSubmitInquiry_AutoContact(t *testing.T) {
	st := storetest.New()
	m := seedModel(t, st, false)
	svc := NewService(Deps{Store: st, Cache: cache.NewMemory("test:")})
	ctx := context.Background()

	_, err := svc.SubmitInquiry(ctx, m, dto.InquiryRequest{Email: "ana@b.co", Message: "hola"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.SubmitInquiry(ctx, m, dto.InquiryRequest{Name: "Ana", Email: "no-email", Message: "hola"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	q, err := svc.SubmitInquiry(ctx, m, dto.InquiryRequest{Name: "Ana", Email: "Ana@b.co", Message: "¿Disponibilidad?"})
	require.NoError(t, err)
	assert.Equal(t, core.InquiryStatusNew, q.Status)
	assert.Equal(t, "contact_form", q.Source)
	require.NotNil(t, q.ContactID)
	assert.NotEmpty(t, q.Subject) // subject por defecto

	// el contacto quedó creado y taggeado
	c, err := st.CRMContacts().GetByID(ctx, m.ID, *q.ContactID)
	require.NoError(t, err)
	assert.Equal(t, "ana@b.co", c.Email)
	assert.Contains(t, c.Tags, "contact-form")

	// una segunda inquiry reusa el contacto
	q2, err := svc.SubmitInquiry(ctx, m, dto.InquiryRequest{Name: "Ana", Email: "ana@b.co", Subject: "Otra", Message: "más"})
	require.NoError(t, err)
	require.NotNil(t, q2.ContactID)
	assert.Equal(t, *q.ContactID, *q2.ContactID)

	contacts, _, err := st.CRMContacts().List(ctx, m.ID, "", core.ListParams{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}

func TestCalendar_HidesNotes(t *testing.T) {
	st := storetest.New()
	m := seedModel(t, st, false)
	svc := NewService(Deps{Store: st, Cache: cache.NewMemory("test:")})
	ctx := context.Background()

	base := time.Now().UTC().Add(time.Hour)
	require.NoError(t, st.CalendarEvents().Create(ctx, &core.CalendarEvent{
		ID: "ev-1", ModelID: m.ID, Title: "Booking", StartsAt: base, EndsAt: base.Add(time.Hour),
		Kind: core.EventKindBooked, Notes: "detalle privado",
	}))

	events, err := svc.Calendar(ctx, m.ID, base.Add(-time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Empty(t, events[0].Notes)
	assert.False(t, strings.Contains(events[0].Title+events[0].Notes, "privado"))
}
