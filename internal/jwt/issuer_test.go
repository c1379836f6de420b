package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseAccess(t *testing.T) {
	i := NewIssuer("musenest-test", []byte("secret"), 15*time.Minute, time.Hour)

	token, exp, err := i.IssueAccess("user-1", "model-1", "admin", "a@b.co")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	cl, err := i.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", cl.Subject)
	assert.Equal(t, "model-1", cl.ModelID)
	assert.Equal(t, "admin", cl.Role)
	assert.Equal(t, "a@b.co", cl.Email)
}

func TestTokenTypeEnforced(t *testing.T) {
	i := NewIssuer("musenest-test", []byte("secret"), 15*time.Minute, time.Hour)

	access, _, err := i.IssueAccess("user-1", "model-1", "admin", "a@b.co")
	require.NoError(t, err)
	refresh, _, err := i.IssueRefresh("user-1", "model-1", "admin", "a@b.co")
	require.NoError(t, err)

	_, err = i.ParseRefresh(access)
	assert.Error(t, err)
	_, err = i.ParseAccess(refresh)
	assert.Error(t, err)
}

func TestParse_RejectsWrongSecret(t *testing.T) {
	a := NewIssuer("musenest-test", []byte("secret-a"), time.Minute, time.Hour)
	b := NewIssuer("musenest-test", []byte("secret-b"), time.Minute, time.Hour)

	token, _, err := a.IssueAccess("user-1", "model-1", "admin", "a@b.co")
	require.NoError(t, err)

	_, err = b.ParseAccess(token)
	assert.Error(t, err)
}

func TestParse_RejectsExpired(t *testing.T) {
	// NewIssuer normaliza TTLs <= 0, así que armamos el Issuer a mano.
	i := &Issuer{Iss: "musenest-test", Secret: []byte("secret"), AccessTTL: -time.Minute, RefreshTTL: time.Hour}

	token, _, err := i.IssueAccess("user-1", "model-1", "admin", "a@b.co")
	require.NoError(t, err)

	_, err = i.ParseAccess(token)
	assert.Error(t, err)
}
