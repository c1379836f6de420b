package media

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// Errores de validación de uploads.
var (
	ErrFileTooLarge    = errors.New("media: file too large")
	ErrUnsupportedType = errors.New("media: unsupported content type")
	ErrMissingFile     = errors.New("media: missing file field")
)

// Tipos de imagen aceptados en la galería.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Upload es un archivo subido ya validado.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// ReadImageUpload extrae y valida el archivo del form field dado.
// El content type se detecta del contenido (sniffing), no del header del cliente.
func ReadImageUpload(r *http.Request, field string, maxBytes int64) (*Upload, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, err
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, ErrMissingFile
	}
	defer file.Close()

	if header.Size > maxBytes {
		return nil, ErrFileTooLarge
	}

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if n > maxBytes {
		return nil, ErrFileTooLarge
	}

	data := buf.Bytes()
	ct := http.DetectContentType(data)
	if _, ok := allowedImageTypes[ct]; !ok {
		return nil, ErrUnsupportedType
	}

	return &Upload{
		Filename:    sanitizeFilename(header.Filename, ct),
		ContentType: ct,
		Size:        n,
		Data:        data,
	}, nil
}

// sanitizeFilename deja solo el base name y fuerza una extensión acorde al
// content type detectado.
func sanitizeFilename(name, contentType string) string {
	base := filepath.Base(strings.TrimSpace(name))
	base = strings.ReplaceAll(base, " ", "_")
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "upload"
	}
	ext := allowedImageTypes[contentType]
	if !strings.EqualFold(filepath.Ext(base), ext) {
		base = strings.TrimSuffix(base, filepath.Ext(base)) + ext
	}
	return base
}
