// Package email envía las notificaciones de la plataforma: aviso de inquiry
// nueva al model y confirmación al visitante. SMTP vía go-mail; un sender
// noop para desarrollo sin SMTP configurado.
package email

import (
	"fmt"

	"github.com/dropDatabas3/musenest/internal/observability/logger"
)

// Sender envía un email ya armado.
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
}

// Config configuración SMTP del servicio.
type Config struct {
	Enabled bool
	Host    string
	Port    int
	From    string
	User    string
	Pass    string
	TLSMode string // "auto" | "starttls" | "ssl" | "none"
}

// New crea el sender según configuración. Sin Enabled → noop.
func New(cfg Config) Sender {
	if !cfg.Enabled || cfg.Host == "" {
		return noopSender{}
	}
	s := NewSMTPSender(cfg.Host, cfg.Port, cfg.From, cfg.User, cfg.Pass)
	if cfg.TLSMode != "" {
		s.TLSMode = cfg.TLSMode
	}
	return s
}

// noopSender registra en el log en lugar de enviar.
type noopSender struct{}

func (noopSender) Send(to, subject, htmlBody, textBody string) error {
	logger.L().Info("email suppressed (sender disabled)",
		logger.String("to", to),
		logger.String("subject", subject),
	)
	return nil
}

// Notifier arma y envía los emails de negocio de la plataforma.
type Notifier struct {
	sender Sender
}

func NewNotifier(s Sender) *Notifier {
	return &Notifier{sender: s}
}

// NotifyInquiry avisa al model que llegó una consulta nueva por su formulario.
func (n *Notifier) NotifyInquiry(modelEmail, modelName, fromName, fromEmail, subject, message string) error {
	mailSubject := fmt.Sprintf("Nueva consulta: %s", subject)
	text := fmt.Sprintf(
		"Hola %s,\n\nRecibiste una nueva consulta de %s (%s):\n\n%s\n\nRespondé desde tu panel de CRM.",
		modelName, fromName, fromEmail, message,
	)
	html := fmt.Sprintf(
		"<p>Hola %s,</p><p>Recibiste una nueva consulta de <b>%s</b> (%s):</p><blockquote>%s</blockquote><p>Respondé desde tu panel de CRM.</p>",
		modelName, fromName, fromEmail, message,
	)
	return n.sender.Send(modelEmail, mailSubject, html, text)
}
