package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/admin"
	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/content"
)

// fakeServer is an in-memory stand-in for the project endpoints.
type fakeServer struct {
	mu       sync.Mutex
	projects []content.Project
	calls    map[string]int
}

func newFakeServer(t *testing.T) (*fakeServer, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fs := &fakeServer{calls: map[string]int{}}

	r := gin.New()
	r.POST("/api/admin/login", func(c *gin.Context) {
		var body struct {
			Password string `json:"password"`
		}
		_ = c.ShouldBindJSON(&body)
		if body.Password != "s3cret" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid password"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": auth.Session{
			Token: "tok", ID: "jti", IssuedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour),
		}})
	})

	authed := r.Group("/api/admin", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer tok" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
			return
		}
		c.Next()
	})
	authed.POST("/logout", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	authed.GET("/projects", func(c *gin.Context) {
		fs.mu.Lock()
		defer fs.mu.Unlock()
		fs.calls["list"]++
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": fs.projects})
	})
	authed.POST("/projects", func(c *gin.Context) {
		var p content.Project
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		fs.mu.Lock()
		defer fs.mu.Unlock()
		fs.calls["insert"]++
		for _, existing := range fs.projects {
			if existing.Slug == p.Slug {
				c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "slug already exists"})
				return
			}
		}
		p.ID = int64(len(fs.projects) + 1)
		fs.projects = append(fs.projects, p)
		c.JSON(http.StatusCreated, gin.H{"ok": true, "data": p})
	})
	authed.DELETE("/projects/:id", func(c *gin.Context) {
		id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
		fs.mu.Lock()
		defer fs.mu.Unlock()
		fs.calls["delete:"+c.Param("id")]++
		for i, p := range fs.projects {
			if p.ID == id {
				fs.projects = append(fs.projects[:i], fs.projects[i+1:]...)
				c.JSON(http.StatusOK, gin.H{"ok": true})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
	})
	r.GET("/api/projects/:slug", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return fs, srv
}

func TestLogin(t *testing.T) {
	_, srv := newFakeServer(t)
	c := New(srv.URL)

	_, err := c.Login(context.Background(), "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidPassword)

	s, err := c.Login(context.Background(), "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)

	require.NoError(t, c.Logout(context.Background()))
	err = c.Logout(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidSession, "token cleared after logout")
}

func TestResourceErrors(t *testing.T) {
	_, srv := newFakeServer(t)
	c := New(srv.URL, WithToken("tok"))
	projects := NewResource[content.Project](c, "projects")
	ctx := context.Background()

	_, err := projects.BySlug(ctx, "missing")
	assert.ErrorIs(t, err, content.ErrNotFound)

	_, err = projects.Insert(ctx, content.Project{Slug: "a"})
	require.NoError(t, err)
	_, err = projects.Insert(ctx, content.Project{Slug: "a"})
	assert.ErrorIs(t, err, content.ErrDuplicateSlug)

	err = projects.Delete(ctx, 99)
	assert.ErrorIs(t, err, content.ErrNotFound)

	_, err = NewResource[content.Project](New(srv.URL), "projects").List(ctx, content.Query{})
	assert.ErrorIs(t, err, auth.ErrInvalidSession)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewResource[content.Project](New(srv.URL), "projects").List(context.Background(), content.Query{})
	var transport *content.TransportError
	assert.ErrorAs(t, err, &transport)
}

func TestControllerOverRemoteCollection(t *testing.T) {
	fs, srv := newFakeServer(t)
	c := New(srv.URL, WithToken("tok"))
	ctx := context.Background()

	ctl := admin.New[content.Project, admin.ProjectDraft](
		NewResource[content.Project](c, "projects"),
		admin.Projects,
		admin.ConfirmFunc(func(string) bool { return true }),
		admin.AlertFunc(func(msg string) { t.Errorf("unexpected alert: %s", msg) }),
	)

	ctl.BeginCreate()
	ctl.Set(admin.ProjectDraft{Title: "A", Slug: "a", Technologies: "Go, gin"})
	require.NoError(t, ctl.Save(ctx))

	assert.Equal(t, 1, fs.calls["insert"])
	assert.Equal(t, 1, fs.calls["list"])
	require.Len(t, ctl.List().Items, 1)
	assert.Equal(t, content.List{"Go", "gin"}, ctl.List().Items[0].Technologies)

	removed, err := ctl.Remove(ctx, 1)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 1, fs.calls["delete:1"])
	assert.Equal(t, 2, fs.calls["list"])
	assert.Empty(t, ctl.List().Items)
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "portfolioctl", "session"))
	now := time.Now()

	_, err := store.Load("http://localhost:8080", now)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.Save("http://localhost:8080", &auth.Session{Token: "tok", ExpiresAt: now.Add(time.Hour)}))

	saved, err := store.Load("http://localhost:8080", now)
	require.NoError(t, err)
	assert.Equal(t, "tok", saved.Token)

	_, err = store.Load("http://other:8080", now)
	assert.ErrorIs(t, err, ErrNoSession, "session is bound to its server")

	_, err = store.Load("http://localhost:8080", now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrNoSession, "expired")

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	_, err = store.Load("http://localhost:8080", now)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestEnvelopeDecodesData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "data": []content.Education{{Slug: "bsc", OrderIndex: 1}}})
	}))
	defer srv.Close()

	items, err := NewResource[content.Education](New(srv.URL), "education").List(context.Background(), content.Query{Limit: 3})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "bsc", items[0].Slug)
}
