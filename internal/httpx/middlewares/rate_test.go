package middlewares

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/musenest/internal/rate"
)

func loginReq(body string) *http.Request {
	r := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.RemoteAddr = "10.0.0.9:4321"
	return r
}

func TestIPEmailKey(t *testing.T) {
	r := loginReq(`{"email":" Vera@Example.COM ","password":"x"}`)
	assert.Equal(t, "10.0.0.9|vera@example.com", IPEmailKey(r))

	// el peek no consume el body: el handler lo sigue viendo entero
	b, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Vera@Example.COM")

	// sin email o con body roto cae a IP sola
	assert.Equal(t, "10.0.0.9", IPEmailKey(loginReq(`{}`)))
	assert.Equal(t, "10.0.0.9", IPEmailKey(loginReq(`no-json`)))
}

func TestWithRateLimit_KeyedByEmail(t *testing.T) {
	limiter := rate.NewMemoryLimiter(1, time.Minute)
	h := WithRateLimit(limiter, "login", IPEmailKey)(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	do := func(email string) int {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, loginReq(`{"email":"`+email+`"}`))
		return w.Code
	}

	// misma IP, cuentas distintas: cuotas independientes
	assert.Equal(t, http.StatusOK, do("a@b.co"))
	assert.Equal(t, http.StatusOK, do("c@d.co"))

	// repetir cuenta agota su cuota
	assert.Equal(t, http.StatusTooManyRequests, do("a@b.co"))
}

func TestWithRateLimit_NilLimiterPassthrough(t *testing.T) {
	h := WithRateLimit(nil, "login", IPEmailKey)(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, loginReq(`{"email":"a@b.co"}`))
	assert.Equal(t, http.StatusOK, w.Code)
}
