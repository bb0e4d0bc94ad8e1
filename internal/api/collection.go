package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
)

type collectionHandler[T any] struct {
	name string
	coll content.Collection[T]
}

// registerCollection mounts the public read routes on pub and the CRUD
// routes on admin for one collection.
func registerCollection[T any](pub, admin gin.IRouter, name string, coll content.Collection[T]) {
	h := &collectionHandler[T]{name: name, coll: coll}

	pub.GET("/"+name, h.list)
	pub.GET("/"+name+"/:slug", h.get)

	admin.GET("/"+name, h.list)
	admin.POST("/"+name, h.create)
	admin.PUT("/"+name+"/:id", h.update)
	admin.DELETE("/"+name+"/:id", h.delete)
}

func (h *collectionHandler[T]) list(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		writeError(c, err)
		return
	}
	items, err := h.coll.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": items})
}

func (h *collectionHandler[T]) get(c *gin.Context) {
	item, err := h.coll.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": item})
}

func (h *collectionHandler[T]) create(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		writeError(c, fmt.Errorf("%w: %v", content.ErrValidation, err))
		return
	}
	created, err := h.coll.Insert(c.Request.Context(), item)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("content created", "collection", h.name, "request_id", c.GetString("request_id"))
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": created})
}

func (h *collectionHandler[T]) update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		writeError(c, fmt.Errorf("%w: %v", content.ErrValidation, err))
		return
	}
	updated, err := h.coll.Update(c.Request.Context(), id, item)
	if err != nil {
		writeError(c, err)
		return
	}
	logger.Info("content updated", "collection", h.name, "id", id, "request_id", c.GetString("request_id"))
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": updated})
}

func (h *collectionHandler[T]) delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.coll.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	logger.Info("content deleted", "collection", h.name, "id", id, "request_id", c.GetString("request_id"))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", content.ErrValidation)
	}
	return id, nil
}

func parseQuery(c *gin.Context) (content.Query, error) {
	q := content.Query{
		Category:    strings.TrimSpace(c.Query("category")),
		ExcludeSlug: strings.TrimSpace(c.Query("exclude")),
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return q, fmt.Errorf("%w: invalid limit", content.ErrValidation)
		}
		q.Limit = n
	}
	return q, nil
}

// writeError maps domain errors to status codes in the JSON envelope.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	var transport *content.TransportError
	switch {
	case errors.Is(err, content.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, content.ErrDuplicateSlug):
		status, msg = http.StatusConflict, "slug already exists"
	case errors.Is(err, content.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.As(err, &transport):
		logger.Error("store failure", "error", err, "request_id", c.GetString("request_id"))
	default:
		logger.Error("unexpected error", "error", err, "request_id", c.GetString("request_id"))
	}
	c.JSON(status, gin.H{"ok": false, "error": msg})
}
