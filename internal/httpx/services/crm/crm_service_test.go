package crm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/musenest/internal/ai"
	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	"github.com/dropDatabas3/musenest/internal/store/core"
	"github.com/dropDatabas3/musenest/internal/store/storetest"
)

const modelID = "model-1"

func newService(st *storetest.Store) *Service {
	return NewService(Deps{Store: st, Assistant: ai.NewAssistant()})
}

func TestContacts_CreateAndConflict(t *testing.T) {
	svc := newService(storetest.New())
	ctx := context.Background()

	_, err := svc.CreateContact(ctx, modelID, dto.CreateContactRequest{Email: "a@b.co"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.CreateContact(ctx, modelID, dto.CreateContactRequest{Name: "Ana", Email: "no-email"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	c, err := svc.CreateContact(ctx, modelID, dto.CreateContactRequest{Name: " Ana ", Email: "ANA@b.co"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", c.Name)
	assert.Equal(t, "ana@b.co", c.Email)
	assert.NotNil(t, c.Tags)

	_, err = svc.CreateContact(ctx, modelID, dto.CreateContactRequest{Name: "Otra", Email: "ana@b.co"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// mismo email en otro model no choca
	_, err = svc.CreateContact(ctx, "model-2", dto.CreateContactRequest{Name: "Ana", Email: "ana@b.co"})
	assert.NoError(t, err)
}

func TestContacts_Search(t *testing.T) {
	svc := newService(storetest.New())
	ctx := context.Background()

	_, err := svc.CreateContact(ctx, modelID, dto.CreateContactRequest{Name: "Ana García", Email: "ana@b.co"})
	require.NoError(t, err)
	_, err = svc.CreateContact(ctx, modelID, dto.CreateContactRequest{Name: "Bea López", Email: "bea@b.co"})
	require.NoError(t, err)

	got, total, err := svc.ListContacts(ctx, modelID, "garc", core.ListParams{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Ana García", got[0].Name)
}

func seedInquiry(t *testing.T, st *storetest.Store) *core.CRMInquiry {
	t.Helper()
	q := &core.CRMInquiry{
		ID:        "inq-1",
		ModelID:   modelID,
		Subject:   "Booking octubre",
		Message:   "¿Tenés disponibilidad?",
		Status:    core.InquiryStatusNew,
		Source:    "contact_form",
		FromName:  "Ana",
		FromEmail: "ana@b.co",
	}
	require.NoError(t, st.CRMInquiries().Create(context.Background(), q))
	return q
}

func TestInquiries_StatusLifecycle(t *testing.T) {
	st := storetest.New()
	svc := newService(st)
	ctx := context.Background()
	q := seedInquiry(t, st)

	assert.ErrorIs(t, svc.SetInquiryStatus(ctx, modelID, q.ID, "spam"), ErrInvalidStatus)
	require.NoError(t, svc.SetInquiryStatus(ctx, modelID, q.ID, core.InquiryStatusArchived))

	got, err := svc.GetInquiry(ctx, modelID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, core.InquiryStatusArchived, got.Status)

	// filtro por status inválido
	_, _, err = svc.ListInquiries(ctx, modelID, "spam", core.ListParams{Limit: 10})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	archived, _, err := svc.ListInquiries(ctx, modelID, core.InquiryStatusArchived, core.ListParams{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, archived, 1)
}

func TestSuggestReply_MarksRead(t *testing.T) {
	st := storetest.New()
	svc := newService(st)
	ctx := context.Background()
	q := seedInquiry(t, st)

	out, err := svc.SuggestReply(ctx, modelID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, out.InquiryID)
	assert.NotEmpty(t, out.Reply)

	got, err := svc.GetInquiry(ctx, modelID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, core.InquiryStatusRead, got.Status)

	// una segunda lectura no la mueve de read
	_, err = svc.SuggestReply(ctx, modelID, q.ID)
	require.NoError(t, err)
	got, err = svc.GetInquiry(ctx, modelID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, core.InquiryStatusRead, got.Status)
}

func TestAssist(t *testing.T) {
	svc := newService(storetest.New())

	_, err := svc.Assist("   ")
	assert.ErrorIs(t, err, ErrMissingFields)

	reply, err := svc.Assist("¿Cuánto sale una sesión?")
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
}
