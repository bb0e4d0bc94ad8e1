// Package auth gates the admin area behind a single shared password. A
// successful login issues a signed, expiring session token which can be
// revoked before it expires.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/Zachkp/portfolio/internal/logger"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrThrottled       = errors.New("too many login attempts")
	ErrInvalidSession  = errors.New("invalid or expired session")
)

const subject = "admin"

// Session is an issued admin session.
type Session struct {
	Token     string    `json:"token"`
	ID        string    `json:"id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Gate struct {
	password []byte
	secret   []byte
	ttl      time.Duration
	limiter  *rate.Limiter
	revoked  Revocations
	now      func() time.Time
}

type Option func(*Gate)

// WithLimiter allows perMinute login attempts per minute across all clients.
// Zero or less leaves attempts unthrottled.
func WithLimiter(perMinute int) Option {
	return func(g *Gate) {
		if perMinute <= 0 {
			g.limiter = nil
			return
		}
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
}

func WithRevocations(r Revocations) Option {
	return func(g *Gate) { g.revoked = r }
}

func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// NewGate builds a gate for password. An empty secret gets a random one, so
// sessions do not survive a restart.
func NewGate(password, secret string, ttl time.Duration, opts ...Option) (*Gate, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		logger.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}

	g := &Gate{
		password: []byte(password),
		secret:   key,
		ttl:      ttl,
		revoked:  NewMemoryRevocations(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Authenticate checks candidate against the configured password and issues a
// new session. Each successful call yields an independent valid session.
func (g *Gate) Authenticate(ctx context.Context, candidate string) (*Session, error) {
	if g.limiter != nil && !g.limiter.AllowN(g.now(), 1) {
		return nil, ErrThrottled
	}
	if subtle.ConstantTimeCompare([]byte(candidate), g.password) != 1 {
		return nil, ErrInvalidPassword
	}

	now := g.now()
	s := &Session{
		ID:        uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(g.ttl),
	}
	claims := jwt.RegisteredClaims{
		ID:        s.ID,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(s.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session: %w", err)
	}
	s.Token = token
	return s, nil
}

// Verify checks the token's signature, expiry and revocation status.
func (g *Gate) Verify(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	// expiry is checked here so tests can drive the clock
	if !claims.VerifyExpiresAt(g.now(), true) || claims.Subject != subject || claims.ID == "" {
		return nil, ErrInvalidSession
	}

	revoked, err := g.revoked.Revoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, ErrInvalidSession
	}

	s := &Session{Token: token, ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	return s, nil
}

// Logout revokes s until it would have expired.
func (g *Gate) Logout(ctx context.Context, s *Session) error {
	if s == nil {
		return nil
	}
	return g.revoked.Revoke(ctx, s.ID, s.ExpiresAt)
}

// TTL is the lifetime of newly issued sessions.
func (g *Gate) TTL() time.Duration {
	return g.ttl
}
