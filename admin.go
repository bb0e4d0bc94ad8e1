// admin.go - password-gated dashboard, content editors and stats export
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"github.com/Zachkp/portfolio/internal/admin"
	"github.com/Zachkp/portfolio/internal/api"
	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/view"
)

const (
	adminHome  = "/admin"
	adminLogin = "/admin/login"
)

// adminRow is one line of a dashboard table.
type adminRow struct {
	ID     int64
	Slug   string
	Title  string
	Detail string
}

// section is one editable collection on the dashboard. Drafts travel as YAML
// so a single form works for every collection.
type section interface {
	Key() string
	Title() string
	Noun() string
	Rows(ctx context.Context) ([]adminRow, error)
	Blank() (string, error)
	Find(ctx context.Context, slug string) (string, error)
	Create(ctx context.Context, draft string, alert admin.Alerter) error
	Update(ctx context.Context, slug, draft string, alert admin.Alerter) error
	Delete(ctx context.Context, id int64, confirm admin.Confirmer, alert admin.Alerter) (bool, error)
}

var (
	noConfirm = admin.ConfirmFunc(func(string) bool { return false })
	noAlert   = admin.AlertFunc(func(string) {})
)

type editor[T, D any] struct {
	key   string
	title string
	coll  content.Collection[T]
	shape admin.Shape[T, D]
	row   func(T) adminRow
}

func (e *editor[T, D]) Key() string   { return e.key }
func (e *editor[T, D]) Title() string { return e.title }
func (e *editor[T, D]) Noun() string  { return e.shape.Noun }

func (e *editor[T, D]) controller(confirm admin.Confirmer, alert admin.Alerter) *admin.Controller[T, D] {
	return admin.New(e.coll, e.shape, confirm, alert)
}

func (e *editor[T, D]) Rows(ctx context.Context) ([]adminRow, error) {
	st := e.controller(noConfirm, noAlert).Refresh(ctx)
	if st.Phase == view.PhaseError {
		return nil, st.Err
	}
	rows := make([]adminRow, 0, len(st.Items))
	for _, item := range st.Items {
		rows = append(rows, e.row(item))
	}
	return rows, nil
}

func (e *editor[T, D]) Blank() (string, error) {
	ctrl := e.controller(noConfirm, noAlert)
	ctrl.BeginCreate()
	return encodeDraft(ctrl.Fields())
}

func (e *editor[T, D]) Find(ctx context.Context, slug string) (string, error) {
	item, err := e.coll.BySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	ctrl := e.controller(noConfirm, noAlert)
	ctrl.BeginEdit(item)
	return encodeDraft(ctrl.Fields())
}

func (e *editor[T, D]) Create(ctx context.Context, draft string, alert admin.Alerter) error {
	ctrl := e.controller(noConfirm, alert)
	ctrl.BeginCreate()
	return e.save(ctx, ctrl, draft)
}

func (e *editor[T, D]) Update(ctx context.Context, slug, draft string, alert admin.Alerter) error {
	item, err := e.coll.BySlug(ctx, slug)
	if err != nil {
		return err
	}
	ctrl := e.controller(noConfirm, alert)
	ctrl.BeginEdit(item)
	return e.save(ctx, ctrl, draft)
}

func (e *editor[T, D]) save(ctx context.Context, ctrl *admin.Controller[T, D], draft string) error {
	fields := ctrl.Fields()
	if err := decodeDraft(draft, &fields); err != nil {
		return err
	}
	ctrl.Set(fields)
	return ctrl.Save(ctx)
}

func (e *editor[T, D]) Delete(ctx context.Context, id int64, confirm admin.Confirmer, alert admin.Alerter) (bool, error) {
	return e.controller(confirm, alert).Remove(ctx, id)
}

func encodeDraft(fields any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fields); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// decodeDraft overlays the YAML onto fields. Unknown keys are rejected.
func decodeDraft(draft string, fields any) error {
	dec := yaml.NewDecoder(strings.NewReader(draft))
	dec.KnownFields(true)
	if err := dec.Decode(fields); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", content.ErrValidation, err)
	}
	return nil
}

func (s *site) sections() []section {
	return []section{
		&editor[content.Project, admin.ProjectDraft]{
			key: "projects", title: "Projects", coll: s.store.Projects(), shape: admin.Projects,
			row: func(p content.Project) adminRow {
				return adminRow{ID: p.ID, Slug: p.Slug, Title: p.Title, Detail: p.Year}
			},
		},
		&editor[content.BlogPost, admin.BlogDraft]{
			key: "blogs", title: "Blog Posts", coll: s.store.Blogs(), shape: admin.Blogs,
			row: func(b content.BlogPost) adminRow {
				return adminRow{ID: b.ID, Slug: b.Slug, Title: b.Title, Detail: b.Category}
			},
		},
		&editor[content.Education, admin.EducationDraft]{
			key: "education", title: "Education", coll: s.store.Education(), shape: admin.Education,
			row: func(e content.Education) adminRow {
				return adminRow{ID: e.ID, Slug: e.Slug, Title: e.Degree, Detail: e.Institution}
			},
		},
	}
}

func (s *site) section(key string) (section, bool) {
	for _, sec := range s.sections() {
		if sec.Key() == key {
			return sec, true
		}
	}
	return nil, false
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, content.ErrDuplicateSlug):
		return http.StatusConflict
	case errors.Is(err, content.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, content.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func redirectNotice(c *gin.Context, key, msg string) {
	c.Redirect(http.StatusFound, adminHome+"?"+url.Values{key: {msg}}.Encode())
}

// Setup all admin routes
func (s *site) setupAdminRoutes(r *gin.Engine) {
	secure := s.secureCookies()

	r.GET(adminLogin, func(c *gin.Context) {
		if _, ok := auth.Current(s.gate, c); ok {
			c.Redirect(http.StatusFound, adminHome)
			return
		}
		s.render(c, http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST(adminLogin, func(c *gin.Context) {
		sess, err := s.gate.Authenticate(c.Request.Context(), c.PostForm("password"))
		switch {
		case errors.Is(err, auth.ErrThrottled):
			s.render(c, http.StatusTooManyRequests, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Too many attempts. Try again in a minute.",
			})
			return
		case err != nil:
			logger.Warn("failed admin login attempt", "client", s.tracker.HashIP(c.ClientIP()))
			s.render(c, http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid password",
			})
			return
		}

		auth.SetCookie(c, sess, secure)
		logger.Info("admin login successful", "client", s.tracker.HashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, adminHome)
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		if sess, ok := auth.Current(s.gate, c); ok {
			if err := s.gate.Logout(c.Request.Context(), sess); err != nil {
				logger.Error("failed to revoke admin session", "error", err)
			}
		}
		auth.ClearCookie(c, secure)
		c.Redirect(http.StatusFound, adminLogin)
	})

	adminGroup := r.Group(adminHome, auth.RequireHTML(s.gate, adminLogin))

	adminGroup.GET("", s.dashboard)

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := api.Stats(c.Request.Context(), s.store, s.tracker)
		if err != nil {
			logger.Error("failed to export stats", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal server error"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := s.tracker.Cleanup(c.Request.Context())
		if err != nil {
			redirectNotice(c, "alert", "Privacy cleanup failed")
			return
		}
		redirectNotice(c, "notice", fmt.Sprintf("Removed %d old visitor records", n))
	})

	editors := adminGroup.Group("/content/:collection", func(c *gin.Context) {
		sec, ok := s.section(c.Param("collection"))
		if !ok {
			s.notFound(c, adminHome)
			c.Abort()
			return
		}
		c.Set("section", sec)
		c.Next()
	})
	editors.GET("/new", s.newDraft)
	editors.POST("", s.createDraft)
	editors.GET("/edit/:key", s.editDraft)
	editors.POST("/edit/:key", s.updateDraft)
	editors.POST("/delete/:key", s.deleteEntry)
}

type dashboardSection struct {
	Key   string
	Title string
	Noun  string
	Rows  []adminRow
}

func (s *site) dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := api.Stats(ctx, s.store, s.tracker)
	if err != nil {
		s.failed(c, err)
		return
	}

	var sections []dashboardSection
	for _, sec := range s.sections() {
		rows, err := sec.Rows(ctx)
		if err != nil {
			s.failed(c, err)
			return
		}
		sections = append(sections, dashboardSection{Key: sec.Key(), Title: sec.Title(), Noun: sec.Noun(), Rows: rows})
	}

	s.render(c, http.StatusOK, "admin-dashboard.html", gin.H{
		"title":    "Dashboard",
		"stats":    stats,
		"sections": sections,
		"notice":   c.Query("notice"),
		"alert":    c.Query("alert"),
	})
}

func currentSection(c *gin.Context) section {
	return c.MustGet("section").(section)
}

func (s *site) renderEditor(c *gin.Context, status int, sec section, action, draft, alert string) {
	s.render(c, status, "admin-edit.html", gin.H{
		"title":  "Edit " + sec.Noun(),
		"noun":   sec.Noun(),
		"action": action,
		"draft":  draft,
		"error":  alert,
	})
}

func (s *site) newDraft(c *gin.Context) {
	sec := currentSection(c)
	draft, err := sec.Blank()
	if err != nil {
		s.failed(c, err)
		return
	}
	s.renderEditor(c, http.StatusOK, sec, adminHome+"/content/"+sec.Key(), draft, "")
}

func (s *site) editDraft(c *gin.Context) {
	sec := currentSection(c)
	draft, err := sec.Find(c.Request.Context(), c.Param("key"))
	if errors.Is(err, content.ErrNotFound) {
		s.notFound(c, adminHome)
		return
	}
	if err != nil {
		s.failed(c, err)
		return
	}
	s.renderEditor(c, http.StatusOK, sec, c.Request.URL.Path, draft, "")
}

// alerts collects controller alerts for the response.
type alerts []string

func (a *alerts) Alert(msg string) { *a = append(*a, msg) }

func (s *site) createDraft(c *gin.Context) {
	sec := currentSection(c)
	draft := c.PostForm("draft")
	var msgs alerts
	if err := sec.Create(c.Request.Context(), draft, &msgs); err != nil {
		s.renderEditor(c, statusFor(err), sec, c.Request.URL.Path, draft, alertText(msgs, err))
		return
	}
	redirectNotice(c, "notice", "Saved "+sec.Noun())
}

func (s *site) updateDraft(c *gin.Context) {
	sec := currentSection(c)
	draft := c.PostForm("draft")
	var msgs alerts
	if err := sec.Update(c.Request.Context(), c.Param("key"), draft, &msgs); err != nil {
		s.renderEditor(c, statusFor(err), sec, c.Request.URL.Path, draft, alertText(msgs, err))
		return
	}
	redirectNotice(c, "notice", "Saved "+sec.Noun())
}

// alertText prefers the controller's alert; errors raised before a save
// (bad YAML, missing entry) have none.
func alertText(msgs alerts, err error) string {
	if len(msgs) > 0 {
		return strings.Join(msgs, "\n")
	}
	return err.Error()
}

// deleteEntry asks for confirmation on a separate page before deleting.
func (s *site) deleteEntry(c *gin.Context) {
	sec := currentSection(c)
	id, err := strconv.ParseInt(c.Param("key"), 10, 64)
	if err != nil {
		s.notFound(c, adminHome)
		return
	}

	var prompt string
	confirm := admin.ConfirmFunc(func(p string) bool {
		if c.PostForm("confirm") == "yes" {
			return true
		}
		prompt = p
		return false
	})
	var msgs alerts
	deleted, err := sec.Delete(c.Request.Context(), id, confirm, &msgs)
	switch {
	case err != nil:
		redirectNotice(c, "alert", alertText(msgs, err))
	case !deleted:
		s.render(c, http.StatusOK, "admin-confirm.html", gin.H{
			"title":  "Confirm",
			"prompt": prompt,
			"action": c.Request.URL.Path,
		})
	default:
		redirectNotice(c, "notice", "Deleted "+sec.Noun())
	}
}
