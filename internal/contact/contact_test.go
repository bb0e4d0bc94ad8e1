package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/config"
)

type countingMailer struct {
	calls int
	last  Message
	err   error
}

func (m *countingMailer) Send(ctx context.Context, msg Message) error {
	m.calls++
	m.last = msg
	return m.err
}

func TestHoneypotRejectsWithoutSending(t *testing.T) {
	m := &countingMailer{}
	svc := NewService(m, "from@example.com", "to@example.com")

	err := svc.Submit(context.Background(), Form{Name: "Bot", Message: "buy", Honeypot: "gotcha"})
	assert.ErrorIs(t, err, ErrSpam)
	assert.Equal(t, 0, m.calls)
}

func TestSubmitSendsOnce(t *testing.T) {
	m := &countingMailer{}
	svc := NewService(m, "from@example.com", "to@example.com")

	err := svc.Submit(context.Background(), Form{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Hi",
		Message: "<script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, m.calls)
	assert.Equal(t, "New Contact from Ada", m.last.Subject)
	assert.Equal(t, "from@example.com", m.last.From)
	assert.Equal(t, "to@example.com", m.last.To)
	assert.Equal(t, "ada@example.com", m.last.ReplyTo)
	assert.Contains(t, m.last.HTML, "&lt;script&gt;")
	assert.NotContains(t, m.last.HTML, "<script>")
}

func TestSubmitDeliveryFailure(t *testing.T) {
	m := &countingMailer{err: errors.New("connection reset")}
	svc := NewService(m, "f", "t")

	err := svc.Submit(context.Background(), Form{Name: "Ada"})
	assert.ErrorIs(t, err, ErrDelivery)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 1, m.calls, "no retry")
}

func TestResendMailer(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	m := NewResendMailer("re_test", srv.URL)
	err := m.Send(context.Background(), Message{
		From:    "Portfolio <onboarding@resend.dev>",
		To:      "me@example.com",
		Subject: "New Contact from Ada",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, "New Contact from Ada", got["subject"])
	assert.Equal(t, []any{"me@example.com"}, got["to"])
	assert.Equal(t, "<p>hi</p>", got["html"])
}

func TestResendMailerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from field"}`))
	}))
	defer srv.Close()

	err := NewResendMailer("re_test", srv.URL).Send(context.Background(), Message{To: "x@example.com"})
	assert.Error(t, err)
}

func TestNewMailerSelection(t *testing.T) {
	assert.IsType(t, &ResendMailer{}, NewMailer(config.MailConfig{ResendAPIKey: "re_x"}))
	assert.IsType(t, &SMTPMailer{}, NewMailer(config.MailConfig{SMTPUser: "u", SMTPPass: "p", SMTPHost: "h", SMTPPort: "587"}))

	disabled := NewMailer(config.MailConfig{})
	assert.ErrorIs(t, disabled.Send(context.Background(), Message{}), ErrNotConfigured)
}

func TestSubmitFlattensHeaderInput(t *testing.T) {
	m := &countingMailer{}
	svc := NewService(m, "from@example.com", "to@example.com")

	err := svc.Submit(context.Background(), Form{
		Name:    "Ada\r\nBcc: victim@example.net",
		Email:   "ada@example.com\nCc: other@example.net",
		Message: "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, "New Contact from Ada Bcc: victim@example.net", m.last.Subject)
	assert.NotContains(t, m.last.Subject, "\n")
	assert.NotContains(t, m.last.ReplyTo, "\n")
	assert.NotContains(t, m.last.ReplyTo, "\r")
}

func TestHeaderValue(t *testing.T) {
	assert.Equal(t, "a b c d", headerValue(" a\r\nb\rc\nd "))
	assert.Equal(t, "plain", headerValue("plain"))
}
