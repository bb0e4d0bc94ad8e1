// Package client talks to the portfolio server's JSON API. Its Resource type
// implements content.Collection, so the admin controller runs unchanged
// against a remote server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Zachkp/portfolio/internal/analytics"
	"github.com/Zachkp/portfolio/internal/auth"
	"github.com/Zachkp/portfolio/internal/content"
)

// DefaultTimeout bounds every API call.
const DefaultTimeout = 15 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the server's response shape.
type envelope struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Login exchanges the admin password for a session and keeps its token.
func (c *Client) Login(ctx context.Context, password string) (*auth.Session, error) {
	var s auth.Session
	err := c.do(ctx, "login", http.MethodPost, "/api/admin/login", nil, map[string]string{"password": password}, &s)
	if errors.Is(err, auth.ErrInvalidSession) {
		return nil, auth.ErrInvalidPassword
	}
	if err != nil {
		return nil, err
	}
	c.token = s.Token
	return &s, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, "logout", http.MethodPost, "/api/admin/logout", nil, nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

func (c *Client) Stats(ctx context.Context) (*analytics.Stats, error) {
	var s analytics.Stats
	if err := c.do(ctx, "stats", http.MethodGet, "/api/admin/stats", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &content.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && err != io.EOF {
		if resp.StatusCode >= 400 {
			return statusError(op, resp.StatusCode, resp.Status)
		}
		return &content.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.StatusCode >= 400 || !env.OK {
		msg := env.Error
		if msg == "" {
			msg = resp.Status
		}
		return statusError(op, resp.StatusCode, msg)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &content.TransportError{Op: op, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}

func statusError(op string, status int, msg string) error {
	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %s: %w", op, msg, content.ErrNotFound)
	case http.StatusConflict:
		return fmt.Errorf("%s: %s: %w", op, msg, content.ErrDuplicateSlug)
	case http.StatusBadRequest:
		return fmt.Errorf("%s: %s: %w", op, msg, content.ErrValidation)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", op, auth.ErrInvalidSession)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", op, auth.ErrThrottled)
	default:
		return &content.TransportError{Op: op, Err: fmt.Errorf("server returned %d: %s", status, msg)}
	}
}

// Resource is one remote collection.
type Resource[T any] struct {
	c    *Client
	name string
}

// NewResource binds the collection name (projects, blogs or education).
func NewResource[T any](c *Client, name string) *Resource[T] {
	return &Resource[T]{c: c, name: name}
}

func (r *Resource[T]) Name() string { return r.name }

// List reads through the admin endpoint, so drafts see every row.
func (r *Resource[T]) List(ctx context.Context, q content.Query) ([]T, error) {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.ExcludeSlug != "" {
		v.Set("exclude", q.ExcludeSlug)
	}
	out := []T{}
	if err := r.c.do(ctx, "list "+r.name, http.MethodGet, "/api/admin/"+r.name, v, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Resource[T]) BySlug(ctx context.Context, slug string) (T, error) {
	var out T
	err := r.c.do(ctx, "get "+r.name+" "+slug, http.MethodGet, "/api/"+r.name+"/"+url.PathEscape(slug), nil, nil, &out)
	return out, err
}

func (r *Resource[T]) Insert(ctx context.Context, item T) (T, error) {
	var out T
	err := r.c.do(ctx, "insert "+r.name, http.MethodPost, "/api/admin/"+r.name, nil, item, &out)
	return out, err
}

func (r *Resource[T]) Update(ctx context.Context, id int64, item T) (T, error) {
	var out T
	op := fmt.Sprintf("update %s %d", r.name, id)
	err := r.c.do(ctx, op, http.MethodPut, "/api/admin/"+r.name+"/"+strconv.FormatInt(id, 10), nil, item, &out)
	return out, err
}

func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	op := fmt.Sprintf("delete %s %d", r.name, id)
	return r.c.do(ctx, op, http.MethodDelete, "/api/admin/"+r.name+"/"+strconv.FormatInt(id, 10), nil, nil, nil)
}
