// Package auth implementa login, refresh y manejo de password del back office.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	jwtx "github.com/dropDatabas3/musenest/internal/jwt"
	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/security/password"
	"github.com/dropDatabas3/musenest/internal/store/core"
)

// Errores del servicio de auth.
var (
	ErrMissingFields      = fmt.Errorf("missing required fields")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrModelSuspended     = fmt.Errorf("model suspended")
	ErrWeakPassword       = fmt.Errorf("password too weak")
	ErrTokenInvalid       = fmt.Errorf("invalid token")
)

// Deps contiene las dependencias del servicio.
type Deps struct {
	Store  core.Store
	Issuer *jwtx.Issuer
	Policy password.Policy
}

// Service implementa las operaciones de auth.
type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	return &Service{deps: deps}
}

// Login autentica email/password y emite el par de tokens.
// El password se verifica siempre que el usuario exista; un model
// suspendido rechaza el login aunque las credenciales sean válidas.
func (s *Service) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenPair, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Login"),
	)

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.deps.Store.ModelUsers().GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			log.Debug("user not found")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	log = log.With(logger.UserID(user.ID), logger.ModelID(user.ModelID))

	if !password.Verify(in.Password, user.PasswordHash) {
		log.Debug("password check failed")
		return nil, ErrInvalidCredentials
	}

	model, err := s.deps.Store.Models().GetByID(ctx, user.ModelID)
	if err != nil {
		return nil, err
	}
	if model.Status != core.ModelStatusActive {
		log.Info("login rejected, model suspended")
		return nil, ErrModelSuspended
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	if err := s.deps.Store.ModelUsers().TouchLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		// el login ya es válido, solo lo registramos
		log.Warn("touch login failed", logger.Err(err))
	}

	log.Info("login ok")
	return pair, nil
}

// Refresh valida un refresh token y emite un par nuevo.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("Refresh"),
	)

	cl, err := s.deps.Issuer.ParseRefresh(refreshToken)
	if err != nil {
		log.Debug("refresh token rejected", logger.Err(err))
		return nil, ErrTokenInvalid
	}

	// El usuario y el model tienen que seguir vigentes.
	user, err := s.deps.Store.ModelUsers().GetByID(ctx, cl.Subject)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	model, err := s.deps.Store.Models().GetByID(ctx, user.ModelID)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if model.Status != core.ModelStatusActive {
		return nil, ErrModelSuspended
	}

	return s.issuePair(user)
}

// ChangePassword verifica el password actual y guarda el nuevo.
func (s *Service) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth"),
		logger.Op("ChangePassword"),
		logger.UserID(userID),
	)

	if in.CurrentPassword == "" || in.NewPassword == "" {
		return ErrMissingFields
	}

	user, err := s.deps.Store.ModelUsers().GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !password.Verify(in.CurrentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	if ok, reasons := s.deps.Policy.Validate(in.NewPassword); !ok {
		log.Debug("new password rejected", logger.Any("reasons", reasons))
		return ErrWeakPassword
	}

	hash, err := password.Hash(password.Default, in.NewPassword)
	if err != nil {
		return err
	}
	if err := s.deps.Store.ModelUsers().UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	log.Info("password changed")
	return nil
}

// Me arma la vista de sesión actual a partir de las claims.
func (s *Service) Me(ctx context.Context, cl *jwtx.Claims) (*dto.MeResponse, error) {
	model, err := s.deps.Store.Models().GetByID(ctx, cl.ModelID)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{
		UserID:    cl.Subject,
		Email:     cl.Email,
		Role:      cl.Role,
		ModelID:   model.ID,
		ModelSlug: model.Slug,
		ModelName: model.DisplayName,
	}, nil
}

func (s *Service) issuePair(user *core.ModelUser) (*dto.TokenPair, error) {
	access, accessExp, err := s.deps.Issuer.IssueAccess(user.ID, user.ModelID, user.Role, user.Email)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.deps.Issuer.IssueRefresh(user.ID, user.ModelID, user.Role, user.Email)
	if err != nil {
		return nil, err
	}
	return &dto.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
		TokenType:        "Bearer",
	}, nil
}
