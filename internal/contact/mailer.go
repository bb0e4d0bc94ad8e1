package contact

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/logger"
)

// ErrNotConfigured is returned by the disabled mailer.
var ErrNotConfigured = errors.New("mail not configured")

// NewMailer picks Resend when an API key is set, then SMTP when credentials
// are set, and otherwise a mailer that always fails.
func NewMailer(cfg config.MailConfig) Mailer {
	switch {
	case cfg.ResendAPIKey != "":
		logger.Info("contact mail via resend")
		return NewResendMailer(cfg.ResendAPIKey, "")
	case cfg.SMTPUser != "" && cfg.SMTPPass != "":
		logger.Info("contact mail via smtp", "host", cfg.SMTPHost)
		return &SMTPMailer{Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser, Pass: cfg.SMTPPass}
	default:
		logger.Warn("contact mail disabled, set RESEND_API_KEY or SMTP_USER/SMTP_PASS")
		return DisabledMailer{}
	}
}

type ResendMailer struct {
	client *resend.Client
}

// NewResendMailer builds a Resend mailer. baseURL overrides the API endpoint
// and may be empty.
func NewResendMailer(apiKey, baseURL string) *ResendMailer {
	client := resend.NewClient(apiKey)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		if u, err := url.Parse(baseURL); err == nil {
			client.BaseURL = u
		}
	}
	return &ResendMailer{client: client}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// SMTPMailer sends through an authenticated SMTP relay such as Gmail.
type SMTPMailer struct {
	Host string
	Port string
	User string
	Pass string
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw := []byte("To: " + headerValue(msg.To) + "\r\n" +
		"Subject: " + headerValue(msg.Subject) + "\r\n" +
		"From: " + m.User + "\r\n" +
		"Reply-To: " + headerValue(msg.ReplyTo) + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		msg.HTML + "\r\n")

	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	if err := smtp.SendMail(m.Host+":"+m.Port, auth, m.User, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

type DisabledMailer struct{}

func (DisabledMailer) Send(context.Context, Message) error {
	return ErrNotConfigured
}
