// Package mail envía notificaciones por SMTP.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Ventas-api/internal/application/auth"
	"github.com/jhoicas/Ventas-api/pkg/config"
)

var (
	_ auth.Mailer = (*SMTPSender)(nil)
	_ auth.Mailer = Nop{}
)

// dialer lo que usamos de gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender envía correos de texto plano con gomail.
type SMTPSender struct {
	from   string
	dialer dialer
}

// NewSMTPSender construye el remitente a partir de la configuración SMTP.
func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

// Send arma el mensaje y lo entrega. gomail no acepta contexto: solo se respeta
// la cancelación previa al envío.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := newMessage(s.from, to, subject, body)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("mail: enviar a %s: %w", to, err)
	}
	return nil
}

func newMessage(from, to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

// Nop descarta los correos (SMTP no configurado).
type Nop struct{}

func (Nop) Send(context.Context, string, string, string) error { return nil }

// New elige SMTP o Nop según la configuración.
func New(cfg config.SMTPConfig) auth.Mailer {
	if !cfg.Enabled() {
		return Nop{}
	}
	return NewSMTPSender(cfg)
}
