package models

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/musenest/internal/cache"
	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	"github.com/dropDatabas3/musenest/internal/security/password"
	"github.com/dropDatabas3/musenest/internal/store/core"
	"github.com/dropDatabas3/musenest/internal/store/storetest"
)

func newService(st *storetest.Store) *Service {
	return NewService(Deps{Store: st, Cache: cache.NewMemory("test:"), Policy: password.DefaultPolicy})
}

func TestCreate_ModelWithOwner(t *testing.T) {
	st := storetest.New()
	svc := newService(st)
	ctx := context.Background()

	m, err := svc.Create(ctx, dto.CreateModelRequest{
		Slug:          " Luna ",
		DisplayName:   "Luna M.",
		Email:         "LUNA@example.com",
		OwnerPassword: "Clave-fuerte1",
	})
	require.NoError(t, err)
	assert.Equal(t, "luna", m.Slug)
	assert.Equal(t, "luna@example.com", m.Email)
	assert.Equal(t, core.ModelStatusActive, m.Status)

	// el alta crea al owner con el mismo email
	users, err := st.ModelUsers().ListByModel(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, core.RoleOwner, users[0].Role)
	assert.True(t, password.Verify("Clave-fuerte1", users[0].PasswordHash))
}

func TestCreate_Validation(t *testing.T) {
	st := storetest.New()
	svc := newService(st)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateModelRequest{Slug: "no válido!", Email: "a@b.co", OwnerPassword: "Clave-fuerte1"})
	assert.ErrorIs(t, err, ErrInvalidSlug)

	_, err = svc.Create(ctx, dto.CreateModelRequest{Slug: "luna", Email: "not-an-email", OwnerPassword: "Clave-fuerte1"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Create(ctx, dto.CreateModelRequest{Slug: "luna", Email: "a@b.co", OwnerPassword: "debil"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Create(ctx, dto.CreateModelRequest{Slug: "luna", Email: "a@b.co", OwnerPassword: "Clave-fuerte1", ThemeSetSlug: "nope"})
	assert.ErrorIs(t, err, ErrUnknownTheme)
}

func TestCreate_SlugTaken(t *testing.T) {
	st := storetest.New()
	svc := newService(st)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateModelRequest{Slug: "luna", Email: "a@b.co", OwnerPassword: "Clave-fuerte1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, dto.CreateModelRequest{Slug: "luna", Email: "c@d.co", OwnerPassword: "Clave-fuerte1"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCreate_EmailTakenRollsBack(t *testing.T) {
	st := storetest.New()
	svc := newService(st)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateModelRequest{Slug: "luna", Email: "a@b.co", OwnerPassword: "Clave-fuerte1"})
	require.NoError(t, err)

	// mismo email de owner con otro slug: falla y no queda un model sin usuarios
	_, err = svc.Create(ctx, dto.CreateModelRequest{Slug: "vera", Email: "a@b.co", OwnerPassword: "Clave-fuerte1"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = st.Models().GetBySlug(ctx, "vera")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSetStatus(t *testing.T) {
	st := storetest.New()
	svc := newService(st)
	ctx := context.Background()

	m, err := svc.Create(ctx, dto.CreateModelRequest{Slug: "luna", Email: "a@b.co", OwnerPassword: "Clave-fuerte1"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SetStatus(ctx, m.ID, "banned"), ErrInvalidStatus)
	require.NoError(t, svc.SetStatus(ctx, m.ID, core.ModelStatusSuspended))

	got, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, core.ModelStatusSuspended, got.Status)
}

func TestSettings_UpsertAndValidate(t *testing.T) {
	st := storetest.New()
	svc := newService(st)
	ctx := context.Background()

	set, err := svc.UpsertSetting(ctx, "model-1", "tagline", dto.UpsertSettingRequest{Value: "hola"})
	require.NoError(t, err)
	assert.Equal(t, "text", set.Type) // default

	_, err = svc.UpsertSetting(ctx, "model-1", "", dto.UpsertSettingRequest{Value: "x"})
	assert.ErrorIs(t, err, ErrInvalidSetting)

	_, err = svc.UpsertSetting(ctx, "model-1", "k", dto.UpsertSettingRequest{Value: "x", Type: "blob"})
	assert.ErrorIs(t, err, ErrInvalidSetting)

	_, err = svc.UpsertSetting(ctx, "model-1", "accent", dto.UpsertSettingRequest{Value: "rojo", Type: "color"})
	assert.ErrorIs(t, err, ErrInvalidSetting)

	_, err = svc.UpsertSetting(ctx, "model-1", "accent", dto.UpsertSettingRequest{Value: "#ff0044", Type: "color"})
	assert.NoError(t, err)
}

func TestSettings_BulkUpsert(t *testing.T) {
	st := storetest.New()
	svc := newService(st)
	ctx := context.Background()

	_, err := svc.BulkUpsertSettings(ctx, "model-1", dto.BulkSettingsRequest{})
	assert.ErrorIs(t, err, ErrMissingFields)

	out, err := svc.BulkUpsertSettings(ctx, "model-1", dto.BulkSettingsRequest{
		Settings: map[string]dto.UpsertSettingRequest{
			"tagline": {Value: "hola"},
			"accent":  {Value: "#112233", Type: "color"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	// un setting inválido tumba el bloque completo
	_, err = svc.BulkUpsertSettings(ctx, "model-1", dto.BulkSettingsRequest{
		Settings: map[string]dto.UpsertSettingRequest{
			"ok":  {Value: "1"},
			"bad": {Value: "rojo", Type: "color"},
		},
	})
	assert.ErrorIs(t, err, ErrInvalidSetting)

	listed, err := svc.ListSettings(ctx, "model-1")
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestCreateUser(t *testing.T) {
	st := storetest.New()
	svc := newService(st)
	ctx := context.Background()

	m, err := svc.Create(ctx, dto.CreateModelRequest{Slug: "luna", Email: "a@b.co", OwnerPassword: "Clave-fuerte1"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, m.ID, dto.CreateUserRequest{Email: "e@f.co", Password: "Clave-fuerte1", Role: "root"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	u, err := svc.CreateUser(ctx, m.ID, dto.CreateUserRequest{Email: "e@f.co", Password: "Clave-fuerte1", Role: core.RoleEditor})
	require.NoError(t, err)
	assert.Equal(t, core.RoleEditor, u.Role)

	// email duplicado (el owner ya usa a@b.co)
	_, err = svc.CreateUser(ctx, m.ID, dto.CreateUserRequest{Email: "a@b.co", Password: "Clave-fuerte1", Role: core.RoleEditor})
	assert.ErrorIs(t, err, ErrEmailTaken)

	users, err := svc.ListUsers(ctx, m.ID)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
