package main

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/api"
	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/health"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/middleware"
	"github.com/Zachkp/portfolio/internal/nav"
	"github.com/Zachkp/portfolio/internal/seed"
	"github.com/Zachkp/portfolio/internal/store"
)

// site holds everything the HTTP handlers need.
type site struct {
	cfg     *config.Config
	store   *store.Store
	gate    *auth.Gate
	tracker *analytics.Tracker
	contact *contact.Service
	redis   health.Pinger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.App.LogLevel)
	gin.SetMode(cfg.Server.Mode)

	s, err := store.Open(cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	if cfg.Server.SeedFile != "" {
		if err := seedStore(context.Background(), s, cfg.Server.SeedFile); err != nil {
			logger.Error("failed to seed content", "file", cfg.Server.SeedFile, "error", err)
			os.Exit(1)
		}
	}

	tracker, err := analytics.NewTracker(s.DB)
	if err != nil {
		logger.Error("failed to set up visitor tracking", "error", err)
		os.Exit(1)
	}
	if err := tracker.Start(); err != nil {
		logger.Error("failed to schedule visitor cleanup", "error", err)
		os.Exit(1)
	}
	defer tracker.Stop()

	var opts []auth.Option
	var redisPinger health.Pinger
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		opts = append(opts, auth.WithRevocations(auth.NewRedisRevocations(rdb)))
		redisPinger = health.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		logger.Info("session revocations stored in redis", "addr", cfg.Redis.Addr)
	}
	if cfg.Auth.LoginRate > 0 {
		opts = append(opts, auth.WithLimiter(cfg.Auth.LoginRate))
	}
	if cfg.Auth.DefaultPassword {
		logger.Warn("ADMIN_PASSWORD not set, using the default admin password")
	}
	gate, err := auth.NewGate(cfg.Auth.AdminPassword, cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, opts...)
	if err != nil {
		logger.Error("failed to set up admin gate", "error", err)
		os.Exit(1)
	}

	if !cfg.Mail.MailEnabled() {
		logger.Warn("no mail transport configured, contact form submissions will fail")
	}

	app := &site{
		cfg:     cfg,
		store:   s,
		gate:    gate,
		tracker: tracker,
		contact: contact.NewService(contact.NewMailer(cfg.Mail), cfg.Mail.From, cfg.Mail.To),
		redis:   redisPinger,
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           app.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port, "env", cfg.App.Environment, "db", s.Driver())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func seedStore(ctx context.Context, s *store.Store, path string) error {
	f, err := seed.Load(path)
	if err != nil {
		return err
	}
	_, err = seed.Apply(ctx, f, seed.Collections{
		Projects:  s.Projects(),
		Blogs:     s.Blogs(),
		Education: s.Education(),
	})
	return err
}

func (s *site) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())

	r.SetFuncMap(template.FuncMap{
		"path":     nav.Href,
		"safeHTML": func(html string) template.HTML { return template.HTML(html) },
	})
	r.LoadHTMLGlob(filepath.Join(s.cfg.Server.TemplateDir, "*"))

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	health.NewHandler("portfolio", s.cfg.App.Version, s.store, s.redis).RegisterRoutes(r)

	apiRoutes := r.Group("")
	if origins := s.cfg.Server.CORSOrigins; len(origins) > 0 {
		apiRoutes.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	api.Register(apiRoutes, api.Deps{
		Store:   s.store,
		Gate:    s.gate,
		Tracker: s.tracker,
		Secure:  s.secureCookies(),
	})

	pages := r.Group("", s.tracker.Middleware())
	s.setupPageRoutes(pages)
	s.setupContactRoutes(pages)
	s.setupAdminRoutes(r)

	r.NoRoute(s.tracker.Middleware(), func(c *gin.Context) {
		s.notFound(c, "/")
	})
	return r
}

func (s *site) secureCookies() bool {
	return s.cfg.App.Environment == "production"
}

func (s *site) setupContactRoutes(r gin.IRouter) {
	r.GET("/contact", func(c *gin.Context) {
		s.render(c, http.StatusOK, "contact-page.html", gin.H{"title": "Contact Me"})
	})

	// HTMX fragment with just the form
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{"title": "Contact Me"})
	})

	r.POST("/contact", func(c *gin.Context) {
		var form contact.Form
		if err := c.ShouldBind(&form); err != nil {
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Please fill out every field and try again.",
			})
			return
		}

		err := s.contact.Submit(c.Request.Context(), form)
		switch {
		case errors.Is(err, contact.ErrSpam):
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Spam detected! Your message was not sent.",
			})
		case err != nil:
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Sorry, there was an error sending your message. Please try again later.",
			})
		default:
			c.HTML(http.StatusOK, "contact-success.html", gin.H{
				"success": "Thank you for your message! I'll get back to you soon.",
			})
		}
	})
}
