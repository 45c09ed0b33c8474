// Package api is the HTTP client for the events web application's JSON
// endpoints. The server owns every business rule; this package only moves
// requests and classifies failures (see errors.go).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"clump-cli/internal/logging"

	"github.com/google/uuid"
)

const maxBodyBytes = 4 << 20

// Client talks to one server. It is safe for concurrent use.
type Client struct {
	base  *url.URL
	http  *http.Client
	log   *slog.Logger
	newID func() string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Jar is replaced if
// a session is configured with WithSession afterwards.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTimeout bounds every request. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithSession authenticates as a logged-in user by presenting the server's
// session cookie. An empty value leaves the client anonymous.
func WithSession(cookieName, value string) Option {
	return func(c *Client) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		jar, err := cookiejar.New(nil)
		if err != nil {
			return
		}
		jar.SetCookies(c.base, []*http.Cookie{{Name: cookieName, Value: value, Path: "/"}})
		c.http.Jar = jar
	}
}

// WithRequestIDs overrides the X-Request-ID generator.
func WithRequestIDs(f func() string) Option {
	return func(c *Client) { c.newID = f }
}

// New returns a client for baseURL (e.g. "https://events.example.edu").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server url must be absolute: %q", baseURL)
	}
	c := &Client{
		base:  u,
		http:  &http.Client{},
		log:   logging.Discard(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// URL resolves a server path (e.g. "/event/3/edit") against the base URL.
func (c *Client) URL(path string) string {
	return c.BaseURL() + path
}

// do sends one request. in (if non-nil) is sent as a JSON body; out (if
// non-nil) receives the decoded 2xx body.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &TransportError{Op: op, Err: err}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := c.newID()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "op", op, "request_id", reqID, "err", err)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.log.Debug("request done",
		"op", op,
		"request_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"dur", time.Since(start),
	)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env struct {
			Error string `json:"error"`
		}
		// Error bodies are best-effort: an HTML error page still yields a StatusError.
		_ = json.Unmarshal(raw, &env)
		return &StatusError{Op: op, Code: resp.StatusCode, Message: env.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// envelope checks the success flag of a decoded mutating response.
func envelope(op string, ok bool, msg string) error {
	if ok {
		return nil
	}
	return &AppError{Op: op, Message: msg}
}

var errBadID = errors.New("id must be positive")

func checkID(kind string, id int) error {
	if id <= 0 {
		return fmt.Errorf("%s %d: %w", kind, id, errBadID)
	}
	return nil
}
