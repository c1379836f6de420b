// Package media maneja el almacenamiento de imágenes de galería.
//
// Backends:
//   - fs: filesystem local (desarrollo / single-node)
//   - s3: object storage S3-compatible (producción)
//
// Las keys tienen la forma "{model_id}/{image_id}{ext}".
package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// Storage define las operaciones sobre el backend de media.
type Storage interface {
	// Put guarda un objeto. Sobrescribe si la key existe.
	Put(ctx context.Context, key string, r io.Reader, contentType string) error

	// Get abre un objeto para lectura. Retorna ErrNotFound si no existe.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete elimina un objeto (idempotente).
	Delete(ctx context.Context, key string) error
}

// Config configuración para crear un backend.
type Config struct {
	Driver string // "fs" | "s3"

	// fs
	Root string

	// s3
	Bucket    string
	Region    string
	Endpoint  string // opcional, para MinIO u otros S3-compatible
	KeyPrefix string
}

var ErrNotFound = errors.New("media: object not found")

// New crea el backend según la configuración.
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3(ctx, cfg)
	case "fs", "":
		return NewFS(cfg.Root)
	default:
		return NewFS(cfg.Root)
	}
}

// ObjectKey construye la key de storage de una imagen.
func ObjectKey(modelID, imageID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return modelID + "/" + imageID + ext
}
