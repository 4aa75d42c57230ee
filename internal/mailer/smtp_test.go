package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stemsi/mailroom-backend/internal/config"
)

func TestBuild_IncludesHeadersAndAttachments(t *testing.T) {
	tr := NewSMTPTransport(config.SMTPConfig{Host: "smtp.school.test", Port: 587, From: "office@school.test"}, zerolog.Nop())

	m := tr.build(&Message{
		To:       []string{"a@school.test", "b@school.test"},
		Subject:  "Sports day",
		HTMLBody: "<p>See you on the field</p>",
		Attachments: []Attachment{
			{Filename: "schedule.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.4")},
			{Filename: "notes.bin", Content: []byte{0x01, 0x02}},
		},
	})

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		t.Fatalf("write message: %v", err)
	}
	raw := buf.String()

	for _, want := range []string{
		"From: office@school.test",
		"a@school.test",
		"b@school.test",
		"Subject: Sports day",
		"text/html",
		`filename="schedule.pdf"`,
		"application/pdf",
		`filename="notes.bin"`,
		defaultContentType,
	} {
		if !strings.Contains(raw, want) {
			t.Errorf("expected message to contain %q", want)
		}
	}
}

func TestSend_NotConfigured(t *testing.T) {
	tr := NewSMTPTransport(config.SMTPConfig{}, zerolog.Nop())
	err := tr.Send(context.Background(), &Message{To: []string{"a@school.test"}})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSend_NoRecipients(t *testing.T) {
	tr := NewSMTPTransport(config.SMTPConfig{Host: "smtp.school.test", From: "office@school.test"}, zerolog.Nop())
	err := tr.Send(context.Background(), &Message{Subject: "hi"})
	if !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("expected ErrNoRecipients, got %v", err)
	}
}

func TestSend_CanceledContextSkipsDial(t *testing.T) {
	tr := NewSMTPTransport(config.SMTPConfig{Host: "smtp.school.test", From: "office@school.test"}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := tr.Send(ctx, &Message{To: []string{"a@school.test"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
