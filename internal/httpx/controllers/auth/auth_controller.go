// Package auth expone los endpoints de sesión del back office.
package auth

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	httperrors "github.com/dropDatabas3/musenest/internal/httpx/errors"
	"github.com/dropDatabas3/musenest/internal/httpx/helpers"
	"github.com/dropDatabas3/musenest/internal/httpx/middlewares"
	svc "github.com/dropDatabas3/musenest/internal/httpx/services/auth"
	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

// Controller maneja login, refresh y datos de la sesión.
type Controller struct {
	service *svc.Service
}

func NewController(service *svc.Service) *Controller {
	return &Controller{service: service}
}

// Login maneja POST /api/v1/auth/login.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Auth.Login"))

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	pair, err := c.service.Login(ctx, req)
	if err != nil {
		log.Debug("login failed", logger.Err(err))
		writeAuthError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, pair)
}

// Refresh maneja POST /api/v1/auth/refresh.
func (c *Controller) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.RefreshRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("refresh_token"))
		return
	}

	pair, err := c.service.Refresh(ctx, req.RefreshToken)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, pair)
}

// Logout maneja POST /api/v1/auth/logout. Los tokens son stateless, así
// que el logout es responsabilidad del cliente; el endpoint existe para
// que el flujo del front sea simétrico.
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Me maneja GET /api/v1/auth/me.
func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cl := middlewares.GetClaims(ctx)
	if cl == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	me, err := c.service.Me(ctx, cl)
	if err != nil {
		writeAuthError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, me)
}

// ChangePassword maneja POST /api/v1/auth/password.
func (c *Controller) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.ChangePasswordRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if err := c.service.ChangePassword(ctx, middlewares.GetUserID(ctx), req); err != nil {
		writeAuthError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeAuthError mapea errores del service a la respuesta HTTP.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, svc.ErrMissingFields):
		httperrors.WriteError(w, httperrors.ErrMissingFields)
	case errors.Is(err, svc.ErrInvalidCredentials):
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
	case errors.Is(err, svc.ErrModelSuspended):
		httperrors.WriteError(w, httperrors.ErrModelSuspended)
	case errors.Is(err, svc.ErrWeakPassword):
		httperrors.WriteError(w, httperrors.ErrPasswordTooWeak)
	case errors.Is(err, svc.ErrTokenInvalid):
		httperrors.WriteError(w, httperrors.ErrTokenInvalid)
	case errors.Is(err, core.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
	default:
		httperrors.WriteError(w, err)
	}
}
