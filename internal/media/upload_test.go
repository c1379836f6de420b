package media

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader son los magic bytes de un PNG.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func newUploadRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestReadImageUpload_AcceptsPNG(t *testing.T) {
	req := newUploadRequest(t, "file", "photo.png", append(pngHeader, make([]byte, 64)...))

	up, err := ReadImageUpload(req, "file", 1<<20)
	require.NoError(t, err)
	assert.Equal(t, "image/png", up.ContentType)
	assert.Equal(t, "photo.png", up.Filename)
	assert.Greater(t, up.Size, int64(0))
}

func TestReadImageUpload_RejectsUnsupportedType(t *testing.T) {
	req := newUploadRequest(t, "file", "notes.txt", []byte("solo texto plano, no imagen"))

	_, err := ReadImageUpload(req, "file", 1<<20)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestReadImageUpload_RejectsTooLarge(t *testing.T) {
	req := newUploadRequest(t, "file", "big.png", append(pngHeader, make([]byte, 4096)...))

	_, err := ReadImageUpload(req, "file", 512)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestReadImageUpload_MissingField(t *testing.T) {
	req := newUploadRequest(t, "other", "photo.png", pngHeader)

	_, err := ReadImageUpload(req, "file", 1<<20)
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "my_photo.jpg", sanitizeFilename("my photo.jpeg", "image/jpeg"))
	assert.Equal(t, "upload.png", sanitizeFilename("", "image/png"))
	assert.Equal(t, "evil.png", sanitizeFilename("../../evil.png", "image/png"))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "m1/img1.jpg", ObjectKey("m1", "img1", "Foto.JPG"))
	assert.Equal(t, "m1/img2", ObjectKey("m1", "img2", "noext"))
}
