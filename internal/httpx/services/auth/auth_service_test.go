package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	jwtx "github.com/dropDatabas3/musenest/internal/jwt"
	"github.com/dropDatabas3/musenest/internal/security/password"
	"github.com/dropDatabas3/musenest/internal/store/core"
	"github.com/dropDatabas3/musenest/internal/store/storetest"
)

func newIssuer(t *testing.T) *jwtx.Issuer {
	t.Helper()
	return jwtx.NewIssuer("musenest-test", []byte("test-secret"), 15*time.Minute, time.Hour)
}

func seedUser(t *testing.T, st *storetest.Store, status, plain string) (*core.Model, *core.ModelUser) {
	t.Helper()
	ctx := context.Background()

	m := &core.Model{ID: "model-1", Slug: "vera", DisplayName: "Vera", Email: "vera@example.com", Status: status}
	require.NoError(t, st.Models().Create(ctx, m))

	hash, err := password.Hash(password.Default, plain)
	require.NoError(t, err)
	u := &core.ModelUser{
		ID:           "user-1",
		ModelID:      m.ID,
		Email:        "vera@example.com",
		PasswordHash: hash,
		Role:         core.RoleOwner,
	}
	require.NoError(t, st.ModelUsers().Create(ctx, u))
	return m, u
}

func TestLogin_OK(t *testing.T) {
	st := storetest.New()
	seedUser(t, st, core.ModelStatusActive, "Sup3r-secreta")
	svc := NewService(Deps{Store: st, Issuer: newIssuer(t), Policy: password.DefaultPolicy})

	pair, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "  VERA@example.com ", // se normaliza
		Password: "Sup3r-secreta",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	// el login registra last_login_at
	u, err := st.ModelUsers().GetByID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, u.LastLoginAt)
}

func TestLogin_BadCredentials(t *testing.T) {
	st := storetest.New()
	seedUser(t, st, core.ModelStatusActive, "Sup3r-secreta")
	svc := NewService(Deps{Store: st, Issuer: newIssuer(t), Policy: password.DefaultPolicy})

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "vera@example.com", Password: "otra"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// usuario inexistente: mismo error, no filtramos existencia
	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestLogin_SuspendedModel(t *testing.T) {
	st := storetest.New()
	seedUser(t, st, core.ModelStatusSuspended, "Sup3r-secreta")
	svc := NewService(Deps{Store: st, Issuer: newIssuer(t), Policy: password.DefaultPolicy})

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "vera@example.com", Password: "Sup3r-secreta"})
	assert.ErrorIs(t, err, ErrModelSuspended)
}

func TestRefresh_RoundTrip(t *testing.T) {
	st := storetest.New()
	seedUser(t, st, core.ModelStatusActive, "Sup3r-secreta")
	svc := NewService(Deps{Store: st, Issuer: newIssuer(t), Policy: password.DefaultPolicy})

	pair, err := svc.Login(context.Background(), dto.LoginRequest{Email: "vera@example.com", Password: "Sup3r-secreta"})
	require.NoError(t, err)

	renewed, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)

	// un access token no sirve como refresh
	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefresh_SuspendedAfterIssue(t *testing.T) {
	st := storetest.New()
	m, _ := seedUser(t, st, core.ModelStatusActive, "Sup3r-secreta")
	svc := NewService(Deps{Store: st, Issuer: newIssuer(t), Policy: password.DefaultPolicy})

	pair, err := svc.Login(context.Background(), dto.LoginRequest{Email: "vera@example.com", Password: "Sup3r-secreta"})
	require.NoError(t, err)

	require.NoError(t, st.Models().SetStatus(context.Background(), m.ID, core.ModelStatusSuspended))
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrModelSuspended)
}

func TestChangePassword(t *testing.T) {
	st := storetest.New()
	_, u := seedUser(t, st, core.ModelStatusActive, "Sup3r-secreta")
	svc := NewService(Deps{Store: st, Issuer: newIssuer(t), Policy: password.DefaultPolicy})
	ctx := context.Background()

	err := svc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{
		CurrentPassword: "mal",
		NewPassword:     "Otra-clave123",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{
		CurrentPassword: "Sup3r-secreta",
		NewPassword:     "corta",
	})
	assert.ErrorIs(t, err, ErrWeakPassword)

	err = svc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{
		CurrentPassword: "Sup3r-secreta",
		NewPassword:     "Otra-clave123",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "vera@example.com", Password: "Otra-clave123"})
	assert.NoError(t, err)
}

func TestMe(t *testing.T) {
	st := storetest.New()
	m, u := seedUser(t, st, core.ModelStatusActive, "Sup3r-secreta")
	svc := NewService(Deps{Store: st, Issuer: newIssuer(t), Policy: password.DefaultPolicy})

	access, _, err := newIssuer(t).IssueAccess(u.ID, m.ID, u.Role, u.Email)
	require.NoError(t, err)
	cl, err := newIssuer(t).ParseAccess(access)
	require.NoError(t, err)

	me, err := svc.Me(context.Background(), cl)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.UserID)
	assert.Equal(t, m.Slug, me.ModelSlug)
	assert.Equal(t, core.RoleOwner, me.Role)
}
