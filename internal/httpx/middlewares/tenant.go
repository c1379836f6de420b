package middlewares

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/musenest/internal/httpx/errors"
	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

// ResolveModel resuelve el model por el slug del path ({slug}) y lo inyecta
// en el contexto. Models suspendidos no existen para el público: 404.
func ResolveModel(store core.Store) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "slug")))
			if slug == "" {
				errors.WriteError(w, errors.ErrModelNotFound)
				return
			}

			m, err := store.Models().GetBySlug(r.Context(), slug)
			if err != nil {
				if err == core.ErrNotFound {
					errors.WriteError(w, errors.ErrModelNotFound)
					return
				}
				logger.From(r.Context()).Error("model lookup failed",
					logger.ModelSlug(slug), logger.Err(err))
				errors.WriteError(w, errors.ErrInternalServerError)
				return
			}
			if m.Status != core.ModelStatusActive {
				errors.WriteError(w, errors.ErrModelNotFound)
				return
			}

			ctx := WithModel(r.Context(), m)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(
				logger.ModelID(m.ID), logger.ModelSlug(m.Slug)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
