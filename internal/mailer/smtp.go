package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/stemsi/mailroom-backend/internal/config"
	"gopkg.in/gomail.v2"
)

const defaultContentType = "application/octet-stream"

// SMTPTransport sends mail through a single SMTP relay.
type SMTPTransport struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
	log    zerolog.Logger
}

// NewSMTPTransport creates an SMTPTransport from cfg.
func NewSMTPTransport(cfg config.SMTPConfig, log zerolog.Logger) *SMTPTransport {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if cfg.InsecureSkipVerify {
		d.TLSConfig = &tls.Config{ServerName: cfg.Host, InsecureSkipVerify: true}
	}
	return &SMTPTransport{
		cfg:    cfg,
		dialer: d,
		log:    log.With().Str("component", "smtp_transport").Logger(),
	}
}

// Send dials the relay and delivers msg. gomail has no context support, so ctx is
// only checked before dialing.
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	if t.cfg.Host == "" || t.cfg.From == "" {
		return ErrNotConfigured
	}
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := t.dialer.DialAndSend(t.build(msg)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	t.log.Info().
		Int("recipients", len(msg.To)).
		Int("attachments", len(msg.Attachments)).
		Str("subject", msg.Subject).
		Msg("email sent")
	return nil
}

func (t *SMTPTransport) build(msg *Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", t.cfg.From)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	for _, a := range msg.Attachments {
		content := a.Content
		contentType := a.ContentType
		if contentType == "" {
			contentType = defaultContentType
		}
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {contentType}}),
		)
	}
	return m
}
