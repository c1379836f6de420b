package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestETag_StableAndQuoted(t *testing.T) {
	a := ETag([]byte("hola"))
	b := ETag([]byte("hola"))
	assert.Equal(t, a, b)
	assert.True(t, a[0] == '"' && a[len(a)-1] == '"')
	assert.NotEqual(t, a, ETag([]byte("otra")))
}

func TestIfMatchOK(t *testing.T) {
	etag := ETag([]byte("v1"))

	r := httptest.NewRequest("PUT", "/", nil)
	assert.False(t, IfMatchOK(r, etag)) // sin header

	r.Header.Set("If-Match", etag)
	assert.True(t, IfMatchOK(r, etag))

	r.Header.Set("If-Match", `"stale"`)
	assert.False(t, IfMatchOK(r, etag))

	r.Header.Set("If-Match", "*")
	assert.True(t, IfMatchOK(r, etag))
}

func TestReadJSON_ErrorsUseEnvelope(t *testing.T) {
	var v struct{}

	// json roto responde el envelope estándar, no texto plano
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader("{no-es-json"))
	r.Header.Set("Content-Type", "application/json")
	assert.False(t, ReadJSON(w, r, &v))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_JSON", body.Code)
	assert.NotEmpty(t, body.Message)

	// content-type equivocado también
	w = httptest.NewRecorder()
	r = httptest.NewRequest("POST", "/", strings.NewReader("{}"))
	r.Header.Set("Content-Type", "text/plain")
	assert.False(t, ReadJSON(w, r, &v))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
}

func TestReadJSON_OK(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"vera"}`))
	r.Header.Set("Content-Type", "application/json")
	assert.True(t, ReadJSON(w, r, &v))
	assert.Equal(t, "vera", v.Name)
}

func TestParsePage_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	p := ParsePage(r)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, defaultPerPage, p.PerPage)
	assert.Equal(t, 0, p.Offset())
}

func TestParsePage_ClampsAndIgnoresGarbage(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=3&per_page=500", nil)
	p := ParsePage(r)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, maxPerPage, p.PerPage)
	assert.Equal(t, 200, p.Offset())

	r = httptest.NewRequest("GET", "/?page=-1&per_page=abc", nil)
	p = ParsePage(r)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, defaultPerPage, p.PerPage)
}

func TestNewPagedResponse(t *testing.T) {
	p := Page{Page: 2, PerPage: 10}
	resp := NewPagedResponse([]string{"a"}, 21, p)
	assert.EqualValues(t, 21, resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 10, resp.PerPage)
}
