// Package crm implementa contactos e inquiries del back office, con el
// asistente de respuestas sugeridas.
package crm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/musenest/internal/ai"
	"github.com/dropDatabas3/musenest/internal/httpx/dto"
	"github.com/dropDatabas3/musenest/internal/observability/logger"
	"github.com/dropDatabas3/musenest/internal/store/core"
	"github.com/dropDatabas3/musenest/internal/validation"
)

// Errores del servicio.
var (
	ErrInvalidEmail  = fmt.Errorf("invalid email")
	ErrInvalidStatus = fmt.Errorf("invalid status")
	ErrMissingFields = fmt.Errorf("missing required fields")
	ErrEmailTaken    = fmt.Errorf("contact email already exists")
)

// Deps contiene las dependencias del servicio.
type Deps struct {
	Store     core.Store
	Assistant *ai.Assistant
}

type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	return &Service{deps: deps}
}

// ---- Contactos ----

func (s *Service) CreateContact(ctx context.Context, modelID string, in dto.CreateContactRequest) (*core.CRMContact, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrMissingFields
	}
	if !validation.ValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	c := &core.CRMContact{
		ID:      uuid.NewString(),
		ModelID: modelID,
		Name:    strings.TrimSpace(in.Name),
		Email:   email,
		Phone:   strings.TrimSpace(in.Phone),
		Tags:    in.Tags,
		Notes:   in.Notes,
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if err := s.deps.Store.CRMContacts().Create(ctx, c); err != nil {
		if errors.Is(err, core.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) GetContact(ctx context.Context, modelID, id string) (*core.CRMContact, error) {
	return s.deps.Store.CRMContacts().GetByID(ctx, modelID, id)
}

func (s *Service) ListContacts(ctx context.Context, modelID, search string, p core.ListParams) ([]core.CRMContact, int64, error) {
	return s.deps.Store.CRMContacts().List(ctx, modelID, search, p)
}

func (s *Service) UpdateContact(ctx context.Context, modelID, id string, in dto.UpdateContactRequest) (*core.CRMContact, error) {
	c, err := s.deps.Store.CRMContacts().GetByID(ctx, modelID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Tags != nil {
		c.Tags = *in.Tags
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	if err := s.deps.Store.CRMContacts().Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) DeleteContact(ctx context.Context, modelID, id string) error {
	return s.deps.Store.CRMContacts().Delete(ctx, modelID, id)
}

// ---- Inquiries ----

func (s *Service) GetInquiry(ctx context.Context, modelID, id string) (*core.CRMInquiry, error) {
	return s.deps.Store.CRMInquiries().GetByID(ctx, modelID, id)
}

func (s *Service) ListInquiries(ctx context.Context, modelID, status string, p core.ListParams) ([]core.CRMInquiry, int64, error) {
	if status != "" && !validInquiryStatus(status) {
		return nil, 0, ErrInvalidStatus
	}
	return s.deps.Store.CRMInquiries().List(ctx, modelID, status, p)
}

// SetInquiryStatus mueve una inquiry por su ciclo de vida.
func (s *Service) SetInquiryStatus(ctx context.Context, modelID, id, status string) error {
	if !validInquiryStatus(status) {
		return ErrInvalidStatus
	}
	if err := s.deps.Store.CRMInquiries().SetStatus(ctx, modelID, id, status); err != nil {
		return err
	}
	logger.From(ctx).Info("inquiry status changed",
		logger.ID(id), logger.String("status", status))
	return nil
}

// SuggestReply genera una respuesta sugerida para la inquiry con el
// asistente simulado. Leer la sugerencia marca la inquiry como leída.
func (s *Service) SuggestReply(ctx context.Context, modelID, id string) (*dto.SuggestReplyResponse, error) {
	q, err := s.deps.Store.CRMInquiries().GetByID(ctx, modelID, id)
	if err != nil {
		return nil, err
	}
	reply := s.deps.Assistant.Reply(q.Subject + " " + q.Message)

	if q.Status == core.InquiryStatusNew {
		if err := s.deps.Store.CRMInquiries().SetStatus(ctx, modelID, id, core.InquiryStatusRead); err != nil {
			logger.From(ctx).Warn("inquiry status update failed", logger.Err(err))
		}
	}
	return &dto.SuggestReplyResponse{InquiryID: id, Reply: reply}, nil
}

// Assist responde un mensaje libre con el asistente simulado, sin tocar
// ninguna inquiry.
func (s *Service) Assist(message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrMissingFields
	}
	return s.deps.Assistant.Reply(message), nil
}

func validInquiryStatus(s string) bool {
	switch s {
	case core.InquiryStatusNew, core.InquiryStatusRead,
		core.InquiryStatusReplied, core.InquiryStatusArchived:
		return true
	}
	return false
}
