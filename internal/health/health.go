package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	DB        string    `json:"db,omitempty"`
	Redis     string    `json:"redis,omitempty"`
}

// Pinger is satisfied by the content store and by redis adapters.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type Handler struct {
	serviceName string
	version     string
	db          Pinger
	redis       Pinger
}

// NewHandler builds the health handler. redis may be nil.
func NewHandler(serviceName, version string, db, redis Pinger) *Handler {
	return &Handler{
		serviceName: serviceName,
		version:     version,
		db:          db,
		redis:       redis,
	}
}

// Check reports 503 when a configured dependency does not answer.
func (h *Handler) Check(c *gin.Context) {
	resp := Response{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        ping(c.Request.Context(), h.db),
		Redis:     ping(c.Request.Context(), h.redis),
	}
	status := http.StatusOK
	if resp.DB == "down" || resp.Redis == "down" {
		resp.Status = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	pingCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := p.PingContext(pingCtx); err != nil {
		return "down"
	}
	return "up"
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Check)
	r.GET("/healthz", h.Check)
}
