// Package gateway is the single choke point for every backend HTTP call.
// It injects the bearer token, normalises error responses into the
// application error taxonomy, and applies the global unauthorized policy:
// any 401 clears the session exactly once, here and nowhere else.
package gateway

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
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/clearance-asce/portal/internal/errors"
	"github.com/clearance-asce/portal/internal/observability/statsd"
)

const (
	// genericErrorMessage is the fallback when an error body is not
	// parseable. Matches the backend convention.
	genericErrorMessage = "An error occurred"

	maxErrorBodyBytes = 8 * 1024
)

// TokenSource supplies the current bearer token. The session store
// implements it; the gateway only ever reads.
type TokenSource interface {
	// Token returns the current bearer token, or empty when logged out.
	Token() string
}

type tokenOverrideKey struct{}

// WithToken returns a context whose requests authenticate with the given
// token regardless of the TokenSource. The session store uses it for the
// identity fetch during login, when the fresh token exists but has not been
// installed yet.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenOverrideKey{}, token)
}

func tokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenOverrideKey{}).(string)
	return token, ok && token != ""
}

// Options configures a gateway client.
type Options struct {
	// BaseURL is the backend root without a trailing slash. Required.
	BaseURL string

	// HTTPClient overrides the transport; defaults to a 30s-timeout client.
	HTTPClient *http.Client

	// Tokens supplies the bearer token. Nil means every request is sent
	// unauthenticated.
	Tokens TokenSource

	// OnUnauthorized is invoked once per 401 response, before the error is
	// returned to the caller. This is the session teardown hook; no call
	// path may bypass it.
	OnUnauthorized func()

	Logger  *slog.Logger
	Metrics statsd.Sink
}

// Client executes all portal network operations.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
	logger         *slog.Logger
	metrics        statsd.Sink
}

// New creates a gateway client.
func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("gateway base URL is required")
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:        baseURL,
		http:           hc,
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
		logger:         logger,
		metrics:        opts.Metrics,
	}, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.baseURL }

// Get issues a GET request. The decoded JSON body is stored in out when out
// is non-nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.emitRequestMetric(method, path, 0, time.Since(start))
		c.logger.DebugContext(ctx, "gateway request failed", "method", method, "path", path, "error", err)
		return apperrors.Transport(err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.DebugContext(ctx, "close response body", "path", path, "error", cerr)
		}
	}()

	c.emitRequestMetric(method, path, resp.StatusCode, time.Since(start))
	c.logger.DebugContext(ctx, "gateway request",
		"method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}
	return decodeBody(resp, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build request")
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	c.authorize(req)

	return req, nil
}

// authorize attaches the bearer token when one is present. A context
// override wins over the TokenSource; absence of both sends the request
// unauthenticated, and callers know which endpoints require auth.
func (c *Client) authorize(req *http.Request) {
	if token, ok := tokenFromContext(req.Context()); ok {
		req.Header.Set("Authorization", "Bearer "+token)
		return
	}
	if c.tokens == nil {
		return
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// decodeError converts a non-2xx response into an AppError. A 401 fires the
// session teardown hook before the error is returned, so the caller's local
// loading state still resolves with a rejection.
func (c *Client) decodeError(resp *http.Response) error {
	detail := extractDetail(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized()
	}
	return apperrors.FromStatus(resp.StatusCode, detail)
}

// handleUnauthorized is the one place the unauthorized policy executes.
func (c *Client) handleUnauthorized() {
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func (c *Client) emitRequestMetric(method, path string, status int, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	result := "error"
	switch {
	case status >= 200 && status <= 299:
		result = "success"
	case status == 0:
		result = "transport_error"
	}
	tags := map[string]string{
		"method": method,
		"result": result,
	}
	if status > 0 {
		tags["status"] = strconv.Itoa(status)
	}
	c.metrics.Count("gateway.request", 1, tags)
	c.metrics.Timing("gateway.request_duration", elapsed, tags)
}

// decodeBody decodes a successful response into out. No-content responses
// and empty bodies are success with nothing decoded.
func decodeBody(resp *http.Response, out any) error {
	if out == nil || resp.StatusCode == http.StatusNoContent {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeTransport, "read response body")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode response body")
	}
	return nil
}

// extractDetail pulls the conventional error-detail field out of an error
// body. The backend sends either {"detail": "message"} or, for request
// validation, {"detail": [{"loc": [...], "msg": "...", ...}, ...]}.
func extractDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil {
		return genericErrorMessage
	}

	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return genericErrorMessage
	}

	if len(envelope.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(envelope.Detail, &detail); err == nil && detail != "" {
			return detail
		}

		var validation []struct {
			Loc []any  `json:"loc"`
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(envelope.Detail, &validation); err == nil && len(validation) > 0 {
			msgs := make([]string, 0, len(validation))
			for _, v := range validation {
				if v.Msg != "" {
					msgs = append(msgs, fmt.Sprintf("%s: %s", joinLoc(v.Loc), v.Msg))
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}

	if envelope.Message != "" {
		return envelope.Message
	}
	return genericErrorMessage
}

func joinLoc(loc []any) string {
	if len(loc) == 0 {
		return "request"
	}
	parts := make([]string, 0, len(loc))
	for _, p := range loc {
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, ".")
}
