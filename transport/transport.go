package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-gym-console/session"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Client dispatches authenticated JSON requests against the gym API. It
// attaches the session credential when one is present, classifies every
// failure into a Kind, and on a 401 clears the session store before the
// error is surfaced, so any code reacting to the error already observes an
// unauthenticated session.
//
// The client never retries; retry policy belongs to callers. No timeout is
// applied beyond the injected http.Client's own.
type Client struct {
	baseURL   string
	http      *http.Client
	sess      *session.Store
	log       zerolog.Logger
	limiter   *rate.Limiter
	metrics   *metrics
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the structured logger. Default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithRateLimit paces outbound requests so a polling dashboard cannot flood
// the API. Zero or negative rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithMetrics registers request counters and latency histograms on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) { c.metrics = newMetrics(reg) }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New creates a Client rooted at baseURL, attaching credentials from sess.
func New(baseURL string, sess *session.Store, options ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[transport.New] baseURL is required")
	}
	if sess == nil {
		return nil, errors.New("[transport.New] session store is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.Wrap(err, "[transport.New] invalid baseURL")
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      http.DefaultClient,
		sess:      sess,
		log:       zerolog.Nop(),
		userAgent: "go-gym-console",
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Get issues a GET and decodes the response body into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE and discards any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// apiErrorBody is the error envelope the API returns: {message, errors?}.
type apiErrorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// Do dispatches one request. body (when non-nil) is JSON-encoded; out (when
// non-nil) receives the decoded JSON response. A response body that cannot
// be decoded into out fails with KindProtocol rather than handing undefined
// data to the caller.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, "[Client.Do] rate limiter")
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Client.Do] encode body")
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return errors.Wrap(err, "[Client.Do] build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	// Credential is read at dispatch time, never cached on the client, so a
	// logout between requests is always observed.
	if tok, tokenErr := c.sess.TokenSource().Token(); tokenErr == nil {
		tok.SetAuthHeader(req)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Msg("api request")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, "network", time.Since(start))
		c.log.Warn().Err(err).Str("path", path).Str("request_id", requestID).Msg("network unreachable")
		return &Error{Kind: KindNetwork, Message: "no response from server", cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(method, "network", time.Since(start))
		return &Error{Kind: KindNetwork, Message: "reading response", cause: err}
	}
	c.observe(method, statusLabel(resp.StatusCode), time.Since(start))

	if resp.StatusCode >= 400 {
		return c.classify(resp.StatusCode, data, path, requestID)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{
				Kind:       KindProtocol,
				StatusCode: resp.StatusCode,
				Message:    "malformed response body",
				cause:      err,
			}
		}
	}
	return nil
}

// classify turns an error response into a typed Error. On a 401 the session
// clear must complete before returning, which is the global
// redirect-to-login side effect: the store's subscribers fire inside the
// Clear call.
func (c *Client) classify(status int, data []byte, path, requestID string) error {
	var body apiErrorBody
	_ = json.Unmarshal(data, &body)
	message := body.Message
	if message == "" {
		message = http.StatusText(status)
	}

	if status == http.StatusUnauthorized {
		if err := c.sess.Clear(); err != nil {
			c.log.Error().Err(err).Msg("clearing session after 401")
		}
		c.log.Warn().Str("path", path).Str("request_id", requestID).Msg("unauthorized, session cleared")
		return &Error{Kind: KindUnauthorized, StatusCode: status, Message: message}
	}

	kind := KindClient
	switch {
	case status >= 500:
		kind = KindServer
	case len(body.Errors) > 0:
		kind = KindValidation
	}
	c.log.Warn().
		Int("status", status).
		Str("path", path).
		Str("request_id", requestID).
		Msg(string(kind))
	return &Error{Kind: kind, StatusCode: status, Message: message, Fields: body.Errors}
}
