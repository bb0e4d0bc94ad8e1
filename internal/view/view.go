// Package view implements the read path: a three-phase fetch lifecycle over a
// remote collection for list pages and slug-keyed detail pages.
//
// Every fetch is numbered. Starting a new fetch cancels the previous one, and
// a response that is not from the most recent fetch is dropped, so a slow
// reply for a superseded key can never overwrite a newer result.
package view

import (
	"context"
	"errors"
	"sync"

	"github.com/Zachkp/portfolio/internal/content"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// Generic failure copy shown by read views.
const (
	MessageFailed   = "Something went wrong. Please try again later."
	MessageNotFound = "The page you are looking for does not exist or has been removed."
)

type Lister[T any] interface {
	List(ctx context.Context, q content.Query) ([]T, error)
}

type Finder[T any] interface {
	BySlug(ctx context.Context, slug string) (T, error)
}

// ListState is a rendering-ready snapshot. Items is only meaningful when Phase
// is PhaseReady; Err and Message are only set when Phase is PhaseError.
type ListState[T any] struct {
	Items   []T
	Phase   Phase
	Err     error
	Message string
}

type DetailState[T any] struct {
	Key     string
	Item    T
	Phase   Phase
	Err     error
	Message string
}

// NotFound reports the zero-rows variant of the error phase.
func (s DetailState[T]) NotFound() bool {
	return s.Phase == PhaseError && errors.Is(s.Err, content.ErrNotFound)
}

// generations hands out fetch numbers and cancels the fetch they supersede.
type generations struct {
	n      uint64
	cancel context.CancelFunc
}

func (g *generations) next(ctx context.Context) (uint64, context.Context) {
	if g.cancel != nil {
		g.cancel()
	}
	g.n++
	fctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	return g.n, fctx
}

// settle reports whether gen is still current and releases its context if so.
func (g *generations) settle(gen uint64) bool {
	if gen != g.n {
		return false
	}
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	return true
}

func messageFor(err error) string {
	if errors.Is(err, content.ErrNotFound) {
		return MessageNotFound
	}
	return MessageFailed
}

// List drives one list view.
type List[T any] struct {
	src Lister[T]

	mu    sync.Mutex
	gen   generations
	query content.Query
	state ListState[T]
}

func NewList[T any](src Lister[T]) *List[T] {
	return &List[T]{src: src}
}

func (l *List[T]) State() ListState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Mount fetches only on first use; later calls return the current state.
func (l *List[T]) Mount(ctx context.Context, q content.Query) ListState[T] {
	l.mu.Lock()
	if l.state.Phase != PhaseIdle {
		s := l.state
		l.mu.Unlock()
		return s
	}
	l.mu.Unlock()
	return l.Load(ctx, q)
}

// Load always starts a new fetch and returns the state once it settles. If a
// newer fetch was started meanwhile, the newer state is returned instead.
func (l *List[T]) Load(ctx context.Context, q content.Query) ListState[T] {
	l.mu.Lock()
	gen, fctx := l.gen.next(ctx)
	l.query = q
	l.state = ListState[T]{Phase: PhasePending}
	l.mu.Unlock()

	items, err := l.src.List(fctx, q)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.gen.settle(gen) {
		return l.state
	}
	if err != nil {
		l.state = ListState[T]{Phase: PhaseError, Err: err, Message: messageFor(err)}
		return l.state
	}
	if items == nil {
		items = []T{}
	}
	l.state = ListState[T]{Phase: PhaseReady, Items: items}
	return l.state
}

// Reload repeats the last query; it is the retry affordance of the error view.
func (l *List[T]) Reload(ctx context.Context) ListState[T] {
	l.mu.Lock()
	q := l.query
	l.mu.Unlock()
	return l.Load(ctx, q)
}

// Detail drives one slug-keyed detail view.
type Detail[T any] struct {
	src Finder[T]

	mu    sync.Mutex
	gen   generations
	key   string
	state DetailState[T]
}

func NewDetail[T any](src Finder[T]) *Detail[T] {
	return &Detail[T]{src: src}
}

func (d *Detail[T]) State() DetailState[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Show fetches when the view is idle or the key changed, and otherwise
// returns the current state for key.
func (d *Detail[T]) Show(ctx context.Context, key string) DetailState[T] {
	d.mu.Lock()
	if d.state.Phase != PhaseIdle && d.key == key {
		s := d.state
		d.mu.Unlock()
		return s
	}
	d.mu.Unlock()
	return d.fetch(ctx, key)
}

// Reload refetches the current key.
func (d *Detail[T]) Reload(ctx context.Context) DetailState[T] {
	d.mu.Lock()
	key := d.key
	d.mu.Unlock()
	return d.fetch(ctx, key)
}

func (d *Detail[T]) fetch(ctx context.Context, key string) DetailState[T] {
	d.mu.Lock()
	gen, fctx := d.gen.next(ctx)
	d.key = key
	d.state = DetailState[T]{Key: key, Phase: PhasePending}
	d.mu.Unlock()

	item, err := d.src.BySlug(fctx, key)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.gen.settle(gen) {
		return d.state
	}
	if err != nil {
		d.state = DetailState[T]{Key: key, Phase: PhaseError, Err: err, Message: messageFor(err)}
		return d.state
	}
	d.state = DetailState[T]{Key: key, Phase: PhaseReady, Item: item}
	return d.state
}
