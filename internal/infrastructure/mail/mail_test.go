package mail

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

func TestLogSender_WritesMail(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(zerolog.New(&buf))

	err := s.Send(context.Background(), ports.Mail{To: "a@example.com", Subject: "Welcome", Text: "hi"})
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"to":"a@example.com"`) || !strings.Contains(out, `"subject":"Welcome"`) {
		t.Errorf("expected mail fields in log, got %s", out)
	}
}

func TestNewSMTPSender(t *testing.T) {
	if _, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "u", Password: "p", From: "no-reply@example.com"}); err != nil {
		t.Fatalf("expected client, got %v", err)
	}
	if _, err := NewSMTPSender(SMTPConfig{Port: 587}); err == nil {
		t.Fatal("expected error for empty host")
	}
}

func TestSMTPSender_RejectsBadRecipient(t *testing.T) {
	s, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "no-reply@example.com"})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	if err := s.Send(context.Background(), ports.Mail{To: "not an address", Subject: "x", Text: "y"}); err == nil {
		t.Fatal("expected address error before dialling")
	}
}
