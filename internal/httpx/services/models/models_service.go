// Package models implementa la administración de models (tenants):
// alta con su usuario owner, edición, suspensión, settings y usuarios.
package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/musenest/internal/cache"
	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/security/password"
	"github.com/dropDatabas3/musenest/internal/store/core"
	"github.com/dropDatabas3/musenest/internal/validation"
)

// Errores del servicio.
var (
	ErrInvalidSlug    = fmt.Errorf("invalid slug")
	ErrInvalidEmail   = fmt.Errorf("invalid email")
	ErrSlugTaken      = fmt.Errorf("slug already taken")
	ErrWeakPassword   = fmt.Errorf("password too weak")
	ErrUnknownTheme   = fmt.Errorf("unknown theme set")
	ErrInvalidStatus  = fmt.Errorf("invalid status")
	ErrInvalidRole    = fmt.Errorf("invalid role")
	ErrEmailTaken     = fmt.Errorf("email already registered")
	ErrInvalidSetting = fmt.Errorf("invalid setting")
	ErrMissingFields  = fmt.Errorf("missing required fields")
)

// Tipos de valor aceptados en settings.
var settingTypes = map[string]bool{
	"text": true, "json": true, "bool": true, "number": true, "color": true,
}

// Deps contiene las dependencias del servicio.
type Deps struct {
	Store  core.Store
	Cache  cache.Client
	Policy password.Policy
}

type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	return &Service{deps: deps}
}

// Create da de alta el model y su usuario owner en un solo paso.
func (s *Service) Create(ctx context.Context, in dto.CreateModelRequest) (*core.Model, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("models"),
		logger.Op("Create"),
	)

	slug := strings.ToLower(strings.TrimSpace(in.Slug))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if !validation.ValidSlug(slug) {
		return nil, ErrInvalidSlug
	}
	if !validation.ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if ok, _ := s.deps.Policy.Validate(in.OwnerPassword); !ok {
		return nil, ErrWeakPassword
	}

	m := &core.Model{
		ID:          uuid.NewString(),
		Slug:        slug,
		DisplayName: strings.TrimSpace(in.DisplayName),
		Email:       email,
		Status:      core.ModelStatusActive,
	}
	if m.DisplayName == "" {
		m.DisplayName = slug
	}

	if in.ThemeSetSlug != "" {
		theme, err := s.deps.Store.ThemeSets().GetBySlug(ctx, in.ThemeSetSlug)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return nil, ErrUnknownTheme
			}
			return nil, err
		}
		m.ThemeSetID = &theme.ID
	}

	hash, err := password.Hash(password.Default, in.OwnerPassword)
	if err != nil {
		return nil, err
	}
	owner := &core.ModelUser{
		ID:           uuid.NewString(),
		ModelID:      m.ID,
		Email:        email,
		PasswordHash: hash,
		Role:         core.RoleOwner,
	}

	// alta atómica: si el owner no entra, el model tampoco queda
	if err := s.deps.Store.Models().CreateWithOwner(ctx, m, owner); err != nil {
		if errors.Is(err, core.ErrConflict) {
			if _, slugErr := s.deps.Store.Models().GetBySlug(ctx, slug); slugErr == nil {
				return nil, ErrSlugTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	log.Info("model created", logger.ModelID(m.ID), logger.ModelSlug(m.Slug))
	return m, nil
}

// Get devuelve un model por ID.
func (s *Service) Get(ctx context.Context, id string) (*core.Model, error) {
	return s.deps.Store.Models().GetByID(ctx, id)
}

// List pagina todos los models de la plataforma.
func (s *Service) List(ctx context.Context, p core.ListParams) ([]core.Model, int64, error) {
	return s.deps.Store.Models().List(ctx, p)
}

// Update edita datos del model e invalida su cache público.
func (s *Service) Update(ctx context.Context, id string, in dto.UpdateModelRequest) (*core.Model, error) {
	m, err := s.deps.Store.Models().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		m.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if !validation.ValidEmail(email) {
			return nil, ErrInvalidEmail
		}
		m.Email = email
	}
	if in.ThemeSetSlug != nil {
		if *in.ThemeSetSlug == "" {
			m.ThemeSetID = nil
		} else {
			theme, err := s.deps.Store.ThemeSets().GetBySlug(ctx, *in.ThemeSetSlug)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					return nil, ErrUnknownTheme
				}
				return nil, err
			}
			m.ThemeSetID = &theme.ID
		}
	}

	if err := s.deps.Store.Models().Update(ctx, m); err != nil {
		return nil, err
	}
	s.invalidate(ctx, m.ID)
	return m, nil
}

// SetStatus suspende o reactiva un model. Suspender invalida el cache
// público para que el sitio desaparezca de inmediato.
func (s *Service) SetStatus(ctx context.Context, id, status string) error {
	if status != core.ModelStatusActive && status != core.ModelStatusSuspended {
		return ErrInvalidStatus
	}
	if err := s.deps.Store.Models().SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	logger.From(ctx).Info("model status changed",
		logger.ModelID(id), logger.String("status", status))
	return nil
}

// ListThemes devuelve el catálogo global de themes.
func (s *Service) ListThemes(ctx context.Context) ([]core.ThemeSet, error) {
	return s.deps.Store.ThemeSets().List(ctx)
}

// UpsertSetting escribe un setting de sitio del model.
func (s *Service) UpsertSetting(ctx context.Context, modelID, key string, in dto.UpsertSettingRequest) (*core.SiteSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" || len(key) > 128 {
		return nil, ErrInvalidSetting
	}
	typ := in.Type
	if typ == "" {
		typ = "text"
	}
	if !settingTypes[typ] {
		return nil, ErrInvalidSetting
	}
	if typ == "color" && !validation.ValidHexColor(in.Value) {
		return nil, ErrInvalidSetting
	}

	st := &core.SiteSetting{
		ModelID:   modelID,
		Key:       key,
		Value:     in.Value,
		Type:      typ,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.deps.Store.SiteSettings().Upsert(ctx, st); err != nil {
		return nil, err
	}
	s.invalidate(ctx, modelID)
	return st, nil
}

// BulkUpsertSettings escribe varios settings en una sola transacción.
func (s *Service) BulkUpsertSettings(ctx context.Context, modelID string, in dto.BulkSettingsRequest) ([]core.SiteSetting, error) {
	if len(in.Settings) == 0 {
		return nil, ErrMissingFields
	}
	items := make([]core.SiteSetting, 0, len(in.Settings))
	for key, v := range in.Settings {
		key = strings.TrimSpace(key)
		if key == "" || len(key) > 128 {
			return nil, ErrInvalidSetting
		}
		typ := v.Type
		if typ == "" {
			typ = "text"
		}
		if !settingTypes[typ] {
			return nil, ErrInvalidSetting
		}
		if typ == "color" && !validation.ValidHexColor(v.Value) {
			return nil, ErrInvalidSetting
		}
		items = append(items, core.SiteSetting{
			ModelID: modelID,
			Key:     key,
			Value:   v.Value,
			Type:    typ,
		})
	}
	if err := s.deps.Store.SiteSettings().BulkUpsert(ctx, modelID, items); err != nil {
		return nil, err
	}
	s.invalidate(ctx, modelID)
	return s.deps.Store.SiteSettings().ListByModel(ctx, modelID)
}

// ListSettings devuelve todos los settings del model.
func (s *Service) ListSettings(ctx context.Context, modelID string) ([]core.SiteSetting, error) {
	return s.deps.Store.SiteSettings().ListByModel(ctx, modelID)
}

// DeleteSetting borra un setting del model.
func (s *Service) DeleteSetting(ctx context.Context, modelID, key string) error {
	if err := s.deps.Store.SiteSettings().Delete(ctx, modelID, key); err != nil {
		return err
	}
	s.invalidate(ctx, modelID)
	return nil
}

// CreateUser da de alta un usuario de back office en el model.
func (s *Service) CreateUser(ctx context.Context, modelID string, in dto.CreateUserRequest) (*core.ModelUser, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !validation.ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	switch in.Role {
	case core.RoleOwner, core.RoleAdmin, core.RoleEditor:
	default:
		return nil, ErrInvalidRole
	}
	if ok, _ := s.deps.Policy.Validate(in.Password); !ok {
		return nil, ErrWeakPassword
	}

	hash, err := password.Hash(password.Default, in.Password)
	if err != nil {
		return nil, err
	}
	u := &core.ModelUser{
		ID:           uuid.NewString(),
		ModelID:      modelID,
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.deps.Store.ModelUsers().Create(ctx, u); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// ListUsers devuelve los usuarios de back office del model.
func (s *Service) ListUsers(ctx context.Context, modelID string) ([]core.ModelUser, error) {
	return s.deps.Store.ModelUsers().ListByModel(ctx, modelID)
}

// invalidate borra las páginas públicas cacheadas del model.
func (s *Service) invalidate(ctx context.Context, modelID string) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.DeletePrefix(ctx, "page:"+modelID+":"); err != nil {
		logger.From(ctx).Warn("page cache invalidation failed",
			logger.ModelID(modelID), logger.Err(err))
	}
}
