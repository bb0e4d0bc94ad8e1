// Package admin implements the write path: one editable draft per collection,
// applied as insert, update or delete against a content.Collection, with the
// cached list kept in sync by a full re-fetch after every mutation.
package admin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/view"
)

// ErrNothingToSave is returned by Save when no draft is open.
var ErrNothingToSave = errors.New("nothing to save")

type Mode int

const (
	ModeNone Mode = iota
	ModeCreating
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	default:
		return "none"
	}
}

// Draft is the single in-progress edit. TargetID is only set when editing.
type Draft[D any] struct {
	Mode     Mode
	TargetID int64
	Fields   D
}

// Shape maps between an entity and its editable projection.
type Shape[T, D any] struct {
	// Name is used in alerts ("Error saving <Name>: ...").
	Name string
	// Noun is used in the delete confirmation prompt.
	Noun string

	Defaults func() D
	Edit     func(T) D
	Record   func(D) T
	ID       func(T) int64
}

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Alerter surfaces a failed mutation to the user.
type Alerter interface {
	Alert(msg string)
}

type AlertFunc func(msg string)

func (f AlertFunc) Alert(msg string) { f(msg) }

// Controller owns one draft and one cached list for a collection. Only one
// draft exists at a time; starting a new one discards the previous one.
type Controller[T, D any] struct {
	coll    content.Collection[T]
	shape   Shape[T, D]
	confirm Confirmer
	alert   Alerter
	list    *view.List[T]

	mu    sync.Mutex
	draft Draft[D]
}

func New[T, D any](coll content.Collection[T], shape Shape[T, D], confirm Confirmer, alert Alerter) *Controller[T, D] {
	c := &Controller[T, D]{
		coll:    coll,
		shape:   shape,
		confirm: confirm,
		alert:   alert,
		list:    view.NewList[T](coll),
	}
	c.draft = Draft[D]{Mode: ModeNone, Fields: shape.Defaults()}
	return c
}

func (c *Controller[T, D]) Name() string {
	return c.shape.Name
}

// Refresh re-fetches the full list.
func (c *Controller[T, D]) Refresh(ctx context.Context) view.ListState[T] {
	return c.list.Load(ctx, content.Query{})
}

// List returns the cached list state without fetching.
func (c *Controller[T, D]) List() view.ListState[T] {
	return c.list.State()
}

func (c *Controller[T, D]) Draft() Draft[D] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *Controller[T, D]) BeginCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = Draft[D]{Mode: ModeCreating, Fields: c.shape.Defaults()}
}

func (c *Controller[T, D]) BeginEdit(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = Draft[D]{Mode: ModeEditing, TargetID: c.shape.ID(item), Fields: c.shape.Edit(item)}
}

// Set replaces the draft's fields; it is a no-op when no draft is open.
func (c *Controller[T, D]) Set(fields D) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft.Mode == ModeNone {
		return
	}
	c.draft.Fields = fields
}

func (c *Controller[T, D]) Fields() D {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Fields
}

func (c *Controller[T, D]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

func (c *Controller[T, D]) reset() {
	c.draft = Draft[D]{Mode: ModeNone, Fields: c.shape.Defaults()}
}

// Save submits the draft. On success the list is re-fetched and the draft
// closed; on failure the user is alerted and the draft is kept for a retry.
func (c *Controller[T, D]) Save(ctx context.Context) error {
	c.mu.Lock()
	d := c.draft
	c.mu.Unlock()

	var err error
	switch d.Mode {
	case ModeCreating:
		_, err = c.coll.Insert(ctx, c.shape.Record(d.Fields))
	case ModeEditing:
		_, err = c.coll.Update(ctx, d.TargetID, c.shape.Record(d.Fields))
	default:
		return ErrNothingToSave
	}
	if err != nil {
		logger.Error("admin save failed", "collection", c.shape.Name, "mode", d.Mode.String(), "error", err)
		c.alert.Alert(fmt.Sprintf("Error saving %s: %s", c.shape.Name, err.Error()))
		return fmt.Errorf("save %s: %w", c.shape.Name, err)
	}

	c.Refresh(ctx)

	c.mu.Lock()
	c.reset()
	c.mu.Unlock()
	return nil
}

// Remove deletes id after the user confirms. It reports whether a delete was
// issued and succeeded.
func (c *Controller[T, D]) Remove(ctx context.Context, id int64) (bool, error) {
	if !c.confirm.Confirm(fmt.Sprintf("Are you sure you want to delete this %s?", c.shape.Noun)) {
		return false, nil
	}

	if err := c.coll.Delete(ctx, id); err != nil {
		logger.Error("admin delete failed", "collection", c.shape.Name, "id", id, "error", err)
		c.alert.Alert(fmt.Sprintf("Error deleting %s: %s", c.shape.Name, err.Error()))
		return false, fmt.Errorf("delete %s %d: %w", c.shape.Name, id, err)
	}

	c.Refresh(ctx)
	return true, nil
}
