package middlewares

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dropDatabas3/musenest/internal/httpx"
	"github.com/dropDatabas3/musenest/internal/httpx/errors"
	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/rate"
)

// KeyFunc extrae la clave de rate limit de un request.
type KeyFunc func(*http.Request) string

// IPKey limita por IP del cliente.
func IPKey(r *http.Request) string { return clientIP(r) }

// IPEmailKey limita por IP + email del body JSON, para que un atacante no
// pueda quemar la cuota de login de toda una IP compartida contra una sola
// cuenta ni rotar cuentas desde una IP. Hace un peek del body y lo repone.
func IPEmailKey(r *http.Request) string {
	ip := clientIP(r)
	if r.Body == nil {
		return ip
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ip
	}
	var peek struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(body, &peek) != nil || peek.Email == "" {
		return ip
	}
	return ip + "|" + strings.ToLower(strings.TrimSpace(peek.Email))
}

// WithRateLimit limita requests para el scope dado, con clave según keyFn.
// El limiter puede ser nil (rate limit apagado): el middleware se vuelve un
// passthrough. Si el backend del limiter falla, dejamos pasar (fail-open).
func WithRateLimit(limiter rate.Limiter, scope string, keyFn KeyFunc) Middleware {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		if keyFn == nil {
			keyFn = IPKey
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + "|" + keyFn(r)
			res, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.From(r.Context()).Warn("rate limit backend error", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}
			if !res.Allowed {
				if res.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
				}
				if res.WindowTTL > 0 {
					resetAt := time.Now().Add(res.WindowTTL).Unix()
					w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))
				}
				httpx.RecordRateReject(scope)
				errors.WriteError(w, errors.ErrRateLimitExceeded)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if res.WindowTTL > 0 {
				resetAt := time.Now().Add(res.WindowTTL).Unix()
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))
			}
			next.ServeHTTP(w, r)
		})
	}
}
