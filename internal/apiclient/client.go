// Package apiclient is the bearer-authenticated REST client of the QRsona
// backend. It is safe for concurrent use: the only shared state is the
// underlying http.Client and the optional rate limiter.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/diewo77/qrsona/internal/apperr"
	"github.com/diewo77/qrsona/internal/session"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const defaultTimeout = 15 * time.Second

// maxErrorBody bounds how much of a failed response is read for the message.
const maxErrorBody = 64 << 10

// Client talks to the QRsona REST API.
type Client struct {
	baseURL string
	http    *http.Client
	session session.Provider
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (15s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit throttles outgoing requests to r per second with the
// given burst. A zero rate disables throttling.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) {
		if r <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the API rooted at baseURL (e.g.
// "http://localhost:8080"). sess supplies the bearer token.
func New(baseURL string, sess session.Provider, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		session: sess,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	out    any
	// public calls are sent without a token when none is available.
	public bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	token, hasToken := "", false
	if c.session != nil {
		token, hasToken = c.session.Token()
	}
	if !hasToken && !cl.public {
		return apperr.Auth(cl.op, "no session token")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return apperr.Network(cl.op, err)
		}
	}

	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", cl.op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", cl.op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if hasToken {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.logger.With("op", cl.op, "method", cl.method, "path", cl.path, "request_id", reqID)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WarnContext(ctx, "api request failed", "error", err, "token_present", hasToken)
		return apperr.Network(cl.op, err)
	}
	defer resp.Body.Close()
	log.DebugContext(ctx, "api request", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(cl.op, resp)
	}
	if cl.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Network(cl.op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// statusError turns a non-2xx answer into a typed error, keeping the
// server's message and per-field details when it sent them.
func statusError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	e := apperr.Status(op, resp.StatusCode, http.StatusText(resp.StatusCode))

	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			e.Message = body.Error
		}
		if len(body.Details) > 0 {
			e.Fields = body.Details
		}
	} else if s := strings.TrimSpace(string(raw)); s != "" {
		e.Message = s
	}
	return e
}

func idPath(format string, id uint) string {
	return fmt.Sprintf(format, id)
}
