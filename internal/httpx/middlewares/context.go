package middlewares

import (
	"context"

	jwtx "github.com/dropDatabas3/musenest/internal/jwt"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyClaims
	ctxKeyModel
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID devuelve el request id del contexto, o "" si no hay.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// WithClaims guarda las claims del token en el contexto.
func WithClaims(ctx context.Context, cl *jwtx.Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims, cl)
}

// GetClaims devuelve las claims del contexto, o nil si no hay sesión.
func GetClaims(ctx context.Context) *jwtx.Claims {
	if v, ok := ctx.Value(ctxKeyClaims).(*jwtx.Claims); ok {
		return v
	}
	return nil
}

// GetUserID devuelve el sub de las claims, o "".
func GetUserID(ctx context.Context) string {
	if cl := GetClaims(ctx); cl != nil {
		return cl.Subject
	}
	return ""
}

// GetModelID devuelve el model id de las claims, o "".
func GetModelID(ctx context.Context) string {
	if cl := GetClaims(ctx); cl != nil {
		return cl.ModelID
	}
	return ""
}

// WithModel guarda el model resuelto por slug en el contexto (rutas públicas).
func WithModel(ctx context.Context, m *core.Model) context.Context {
	return context.WithValue(ctx, ctxKeyModel, m)
}

// GetModel devuelve el model del contexto, o nil.
func GetModel(ctx context.Context) *core.Model {
	if v, ok := ctx.Value(ctxKeyModel).(*core.Model); ok {
		return v
	}
	return nil
}
