package content

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/musenest/internal/cache"
	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	"github.com/dropDatabas3/musenest/internal/store/core"
	"github.com/dropDatabas3/musenest/internal/store/storetest"
)

const modelID = "model-1"

func newService() *Service {
	return NewService(Deps{Store: storetest.New(), Cache: cache.NewMemory("test:")})
}

func TestTestimonials_RatingBounds(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.CreateTestimonial(ctx, modelID, dto.CreateTestimonialRequest{AuthorName: "Ana", Quote: "genial", Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.CreateTestimonial(ctx, modelID, dto.CreateTestimonialRequest{AuthorName: "Ana", Quote: "genial", Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidRating)
	_, err = svc.CreateTestimonial(ctx, modelID, dto.CreateTestimonialRequest{Quote: "sin autor", Rating: 5})
	assert.ErrorIs(t, err, ErrMissingFields)

	ts, err := svc.CreateTestimonial(ctx, modelID, dto.CreateTestimonialRequest{AuthorName: "Ana", Quote: "genial", Rating: 5})
	require.NoError(t, err)
	assert.False(t, ts.Approved)
}

func TestTestimonials_ApprovedFilter(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	a, err := svc.CreateTestimonial(ctx, modelID, dto.CreateTestimonialRequest{AuthorName: "Ana", Quote: "uno", Rating: 5, Approved: true})
	require.NoError(t, err)
	_, err = svc.CreateTestimonial(ctx, modelID, dto.CreateTestimonialRequest{AuthorName: "Bea", Quote: "dos", Rating: 4})
	require.NoError(t, err)

	all, total, err := svc.ListTestimonials(ctx, modelID, false, core.ListParams{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.EqualValues(t, 2, total)

	approved, total, err := svc.ListTestimonials(ctx, modelID, true, core.ListParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, a.ID, approved[0].ID)
}

func TestTestimonials_UpdateRevalidates(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	ts, err := svc.CreateTestimonial(ctx, modelID, dto.CreateTestimonialRequest{AuthorName: "Ana", Quote: "uno", Rating: 5})
	require.NoError(t, err)

	bad := 9
	_, err = svc.UpdateTestimonial(ctx, modelID, ts.ID, dto.UpdateTestimonialRequest{Rating: &bad})
	assert.ErrorIs(t, err, ErrInvalidRating)

	approved := true
	got, err := svc.UpdateTestimonial(ctx, modelID, ts.ID, dto.UpdateTestimonialRequest{Approved: &approved})
	require.NoError(t, err)
	assert.True(t, got.Approved)

	// otro model no puede tocarlo
	_, err = svc.UpdateTestimonial(ctx, "model-2", ts.ID, dto.UpdateTestimonialRequest{Approved: &approved})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRateCards_Defaults(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.CreateRateCard(ctx, modelID, dto.CreateRateCardRequest{Title: "Sesión", PriceCents: 0})
	assert.ErrorIs(t, err, ErrMissingFields)

	rc, err := svc.CreateRateCard(ctx, modelID, dto.CreateRateCardRequest{Title: "Sesión", PriceCents: 15000, Currency: "eur", Active: true})
	require.NoError(t, err)
	assert.Equal(t, "EUR", rc.Currency)

	inactive, err := svc.CreateRateCard(ctx, modelID, dto.CreateRateCardRequest{Title: "Extra", PriceCents: 5000})
	require.NoError(t, err)
	assert.Equal(t, "USD", inactive.Currency)

	active, err := svc.ListRateCards(ctx, modelID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, rc.ID, active[0].ID)
}

func TestEvents_RangeAndKind(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	_, err := svc.CreateEvent(ctx, modelID, dto.CreateEventRequest{Title: "x", StartsAt: base, EndsAt: base, Kind: core.EventKindBooked})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.CreateEvent(ctx, modelID, dto.CreateEventRequest{Title: "x", StartsAt: base, EndsAt: base.Add(time.Hour), Kind: "party"})
	assert.ErrorIs(t, err, ErrInvalidKind)

	_, err = svc.CreateEvent(ctx, modelID, dto.CreateEventRequest{Title: "x", StartsAt: base, EndsAt: base.Add(time.Hour), Kind: core.EventKindBooked})
	require.NoError(t, err)
}

func TestEvents_OverlapRejected(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	first, err := svc.CreateEvent(ctx, modelID, dto.CreateEventRequest{
		Title: "booking", StartsAt: base, EndsAt: base.Add(2 * time.Hour), Kind: core.EventKindBooked,
	})
	require.NoError(t, err)

	// pisa la segunda hora del primero
	_, err = svc.CreateEvent(ctx, modelID, dto.CreateEventRequest{
		Title: "choque", StartsAt: base.Add(time.Hour), EndsAt: base.Add(3 * time.Hour), Kind: core.EventKindAvailable,
	})
	assert.ErrorIs(t, err, ErrOverlap)

	// adyacente no es overlap
	next, err := svc.CreateEvent(ctx, modelID, dto.CreateEventRequest{
		Title: "siguiente", StartsAt: base.Add(2 * time.Hour), EndsAt: base.Add(3 * time.Hour), Kind: core.EventKindAvailable,
	})
	require.NoError(t, err)

	// mover un evento sobre sí mismo no choca
	newEnd := base.Add(150 * time.Minute)
	_, err = svc.UpdateEvent(ctx, modelID, next.ID, dto.UpdateEventRequest{EndsAt: &newEnd})
	assert.NoError(t, err)

	// pero sí contra otro
	badStart := base.Add(30 * time.Minute)
	_, err = svc.UpdateEvent(ctx, modelID, next.ID, dto.UpdateEventRequest{StartsAt: &badStart})
	assert.ErrorIs(t, err, ErrOverlap)

	events, err := svc.ListEvents(ctx, modelID, base.Add(-time.Hour), base.Add(4*time.Hour))
	require.NoError(t, err)
	assert.Len(t, events, 2)
	_ = first
}

func TestFAQ_PublishedFilter(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.CreateFAQ(ctx, modelID, dto.CreateFAQRequest{Question: "¿Dónde?", Answer: ""})
	assert.ErrorIs(t, err, ErrMissingFields)

	pub, err := svc.CreateFAQ(ctx, modelID, dto.CreateFAQRequest{Question: "¿Dónde?", Answer: "Madrid", Published: true})
	require.NoError(t, err)
	_, err = svc.CreateFAQ(ctx, modelID, dto.CreateFAQRequest{Question: "¿Borrador?", Answer: "sí"})
	require.NoError(t, err)

	published, err := svc.ListFAQ(ctx, modelID, true)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, pub.ID, published[0].ID)

	all, err := svc.ListFAQ(ctx, modelID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
