package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/musenest/internal/httpx/errors"
	jwtx "github.com/dropDatabas3/musenest/internal/jwt"
)

// RequireAuth valida Authorization: Bearer <JWT> y guarda las claims en el
// contexto. Si el token es inválido o no está presente, responde 401.
func RequireAuth(issuer *jwtx.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := strings.TrimSpace(r.Header.Get("Authorization"))
			if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			raw := strings.TrimSpace(ah[len("Bearer "):])

			claims, err := issuer.ParseAccess(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				if err == jwtx.ErrTokenExpired {
					errors.WriteError(w, errors.ErrTokenExpired)
					return
				}
				errors.WriteError(w, errors.ErrTokenInvalid)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// Jerarquía de roles del panel: owner > admin > editor.
var roleRank = map[string]int{
	"editor": 1,
	"admin":  2,
	"owner":  3,
}

// RequireRole exige un rol mínimo. Debe usarse después de RequireAuth.
func RequireRole(min string) Middleware {
	need := roleRank[min]
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cl := GetClaims(r.Context())
			if cl == nil {
				errors.WriteError(w, errors.ErrUnauthorized.WithDetail("no claims in context"))
				return
			}
			if roleRank[cl.Role] < need {
				errors.WriteError(w, errors.ErrForbidden.WithDetail("role "+min+" required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
