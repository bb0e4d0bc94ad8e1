// Package contact delivers contact form submissions as email.
package contact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/Zachkp/portfolio/internal/logger"
)

var (
	// ErrSpam is returned when the hidden honeypot field was filled in.
	ErrSpam = errors.New("spam detected")
	// ErrDelivery wraps any mailer failure.
	ErrDelivery = errors.New("failed to send message")
)

// Form is a contact form submission. Honeypot is rendered hidden, so only
// bots fill it in.
type Form struct {
	Name     string `form:"name" json:"name" binding:"required"`
	Email    string `form:"email" json:"email" binding:"required,email"`
	Subject  string `form:"subject" json:"subject"`
	Message  string `form:"message" json:"message" binding:"required"`
	Honeypot string `form:"_honeypot" json:"_honeypot"`
}

type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

var bodyTemplate = template.Must(template.New("contact").Parse(`
<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
`))

type Service struct {
	mailer Mailer
	from   string
	to     string
}

func NewService(mailer Mailer, from, to string) *Service {
	return &Service{mailer: mailer, from: from, to: to}
}

// Submit sends one email for f. Nothing is sent for spam and failures are
// not retried.
func (s *Service) Submit(ctx context.Context, f Form) error {
	if f.Honeypot != "" {
		logger.Warn("contact form rejected by honeypot")
		return ErrSpam
	}

	msg, err := s.compose(f)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.Error("failed to send contact email", "error", err)
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	logger.Info("contact email sent", "subject", msg.Subject)
	return nil
}

func (s *Service) compose(f Form) (Message, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, f); err != nil {
		return Message{}, fmt.Errorf("failed to render contact email: %w", err)
	}
	return Message{
		From:    s.from,
		To:      s.to,
		ReplyTo: headerValue(f.Email),
		Subject: "New Contact from " + headerValue(f.Name),
		HTML:    buf.String(),
	}, nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// headerValue flattens user input that ends up in a mail header onto one line.
func headerValue(s string) string {
	return strings.TrimSpace(lineBreaks.Replace(s))
}
