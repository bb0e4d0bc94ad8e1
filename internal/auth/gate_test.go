package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(t *testing.T, opts ...Option) *Gate {
	t.Helper()
	g, err := NewGate("s3cret", "test-secret", time.Hour, opts...)
	require.NoError(t, err)
	return g
}

func TestAuthenticateWrongPassword(t *testing.T) {
	g := newTestGate(t)

	s, err := g.Authenticate(context.Background(), "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	assert.Nil(t, s)
}

func TestAuthenticateIsIdempotent(t *testing.T) {
	g := newTestGate(t)
	ctx := context.Background()

	first, err := g.Authenticate(ctx, "s3cret")
	require.NoError(t, err)
	second, err := g.Authenticate(ctx, "s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	for _, s := range []*Session{first, second} {
		got, err := g.Verify(ctx, s.Token)
		require.NoError(t, err)
		assert.Equal(t, s.ID, got.ID)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	g := newTestGate(t, WithClock(func() time.Time { return now }))

	s, err := g.Authenticate(context.Background(), "s3cret")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = g.Verify(context.Background(), s.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	other, err := NewGate("s3cret", "another-secret", time.Hour)
	require.NoError(t, err)
	s, err := other.Authenticate(context.Background(), "s3cret")
	require.NoError(t, err)

	_, err = newTestGate(t).Verify(context.Background(), s.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = newTestGate(t).Verify(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestLogoutRevokes(t *testing.T) {
	g := newTestGate(t)
	ctx := context.Background()

	s, err := g.Authenticate(ctx, "s3cret")
	require.NoError(t, err)
	require.NoError(t, g.Logout(ctx, s))

	_, err = g.Verify(ctx, s.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestRedisRevocations(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	g := newTestGate(t, WithRevocations(NewRedisRevocations(client)))
	ctx := context.Background()

	s, err := g.Authenticate(ctx, "s3cret")
	require.NoError(t, err)
	require.NoError(t, g.Logout(ctx, s))

	assert.True(t, mr.Exists("auth:revoked:"+s.ID))
	assert.Greater(t, mr.TTL("auth:revoked:"+s.ID), time.Duration(0))

	_, err = g.Verify(ctx, s.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestThrottleIsOptIn(t *testing.T) {
	ctx := context.Background()

	open := newTestGate(t)
	for i := 0; i < 20; i++ {
		_, err := open.Authenticate(ctx, "wrong")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	}

	now := time.Now()
	limited := newTestGate(t, WithLimiter(2), WithClock(func() time.Time { return now }))
	_, err := limited.Authenticate(ctx, "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	_, err = limited.Authenticate(ctx, "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	_, err = limited.Authenticate(ctx, "s3cret")
	assert.ErrorIs(t, err, ErrThrottled)
}

func TestRequireMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := newTestGate(t)

	r := gin.New()
	r.GET("/api/admin/ping", Require(g), func(c *gin.Context) {
		s, ok := FromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"ok": true, "session": s.ID})
	})
	r.GET("/admin", RequireHTML(g, "/admin/login"), func(c *gin.Context) {
		c.String(http.StatusOK, "dashboard")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s, err := g.Authenticate(context.Background(), "s3cret")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+s.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), s.ID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: s.Token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dashboard", w.Body.String())
}
