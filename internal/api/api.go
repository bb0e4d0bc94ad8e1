// Package api serves the JSON collection API consumed by portfolioctl.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/store"
)

type Deps struct {
	Store   *store.Store
	Gate    *auth.Gate
	Tracker *analytics.Tracker
	// Secure marks the session cookie Secure (production only).
	Secure bool
}

type Handler struct {
	deps Deps
}

// Register mounts /api and /api/admin on r.
func Register(r gin.IRouter, d Deps) {
	h := &Handler{deps: d}

	pub := r.Group("/api")
	adminGroup := r.Group("/api/admin")
	adminGroup.POST("/login", h.login)

	protected := adminGroup.Group("", auth.Require(d.Gate))
	protected.POST("/logout", h.logout)
	protected.GET("/stats", h.stats)

	registerCollection[content.Project](pub, protected, "projects", d.Store.Projects())
	registerCollection[content.BlogPost](pub, protected, "blogs", d.Store.Blogs())
	registerCollection[content.Education](pub, protected, "education", d.Store.Education())
}

type loginReq struct {
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	s, err := h.deps.Gate.Authenticate(c.Request.Context(), req.Password)
	switch {
	case errors.Is(err, auth.ErrThrottled):
		c.JSON(http.StatusTooManyRequests, gin.H{"ok": false, "error": err.Error()})
		return
	case errors.Is(err, auth.ErrInvalidPassword):
		logger.Warn("failed admin login", "ip", h.hashIP(c))
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": err.Error()})
		return
	case err != nil:
		logger.Error("admin login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal server error"})
		return
	}

	logger.Info("admin login successful", "ip", h.hashIP(c))
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": s})
}

func (h *Handler) logout(c *gin.Context) {
	s, _ := auth.FromContext(c)
	if err := h.deps.Gate.Logout(c.Request.Context(), s); err != nil {
		logger.Error("admin logout failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal server error"})
		return
	}
	auth.ClearCookie(c, h.deps.Secure)
	logger.Info("admin logout", "ip", h.hashIP(c))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := Stats(c.Request.Context(), h.deps.Store, h.deps.Tracker)
	if err != nil {
		logger.Error("error loading admin stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": stats})
}

func (h *Handler) hashIP(c *gin.Context) string {
	if h.deps.Tracker == nil {
		return ""
	}
	return h.deps.Tracker.HashIP(c.ClientIP())
}

// Stats combines visitor analytics with per-collection row counts.
func Stats(ctx context.Context, s *store.Store, t *analytics.Tracker) (*analytics.Stats, error) {
	stats := &analytics.Stats{TopPaths: []analytics.PathStat{}, RecentVisitors: []analytics.VisitorMetric{}}
	if t != nil {
		var err error
		if stats, err = t.Stats(ctx); err != nil {
			return nil, err
		}
	}

	projects, err := s.Projects().Count(ctx)
	if err != nil {
		return nil, err
	}
	blogs, err := s.Blogs().Count(ctx)
	if err != nil {
		return nil, err
	}
	education, err := s.Education().Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.Content = map[string]int64{"projects": projects, "blogs": blogs, "education": education}
	return stats, nil
}
