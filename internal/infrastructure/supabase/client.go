// Package supabase is the client handle to the managed backend. It speaks the
// PostgREST dialect for rows and procedures plus the auth and storage APIs.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fitpass-app/fitpass/internal/shared/logger"
	"github.com/fitpass-app/fitpass/internal/shared/version"
)

// Config holds client configuration.
type Config struct {
	URL            string
	AnonKey        string
	Timeout        time.Duration
	HTTPClient     *http.Client
	Retry          RetryConfig
	CircuitBreaker CircuitBreakerConfig
}

// Client is safe for concurrent use. WithToken derives clients that share the
// transport and circuit breaker.
type Client struct {
	baseURL    string
	anonKey    string
	token      string
	httpClient *http.Client
	retry      RetryConfig
	breaker    *CircuitBreaker
	logger     logger.Interface
}

func New(cfg Config, log logger.Interface) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, fmt.Errorf("invalid supabase URL: %w", err)
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("anon key is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		httpClient: httpClient,
		retry:      cfg.Retry,
		breaker:    NewCircuitBreaker(cfg.CircuitBreaker),
		logger:     log,
	}, nil
}

// WithToken returns a client that authenticates as the holder of accessToken.
// An empty token falls back to the anon key.
func (c *Client) WithToken(accessToken string) *Client {
	cp := *c
	cp.token = accessToken
	return &cp
}

// BaseURL returns the backend root URL.
func (c *Client) BaseURL() string { return c.baseURL }

// CircuitState exposes the breaker state for diagnostics.
func (c *Client) CircuitState() CircuitState { return c.breaker.State() }

type request struct {
	method    string
	path      string
	query     url.Values
	body      []byte
	header    http.Header
	retryable bool
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) newRequest(method, path string) *request {
	return &request{method: method, path: path, query: url.Values{}, header: http.Header{}}
}

func (r *request) json(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &TransportError{Op: "encode request", Err: err}
	}
	r.body = data
	r.header.Set("Content-Type", "application/json")
	return nil
}

// do sends r, retrying when allowed, and turns error statuses into *APIError.
func (c *Client) do(ctx context.Context, r *request) (*response, error) {
	if err := c.breaker.Allow(); err != nil {
		return nil, err
	}

	attempts := 1
	if r.retryable {
		attempts += max(c.retry.MaxRetries, 0)
	}

	var (
		resp    *response
		lastErr error
		sched   = c.retry.newBackOff()
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			wait := sched.NextBackOff()
			c.logger.Debugw("retrying backend request",
				"method", r.method,
				"path", r.path,
				"attempt", attempt,
				"backoff", wait,
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return nil, &TransportError{Op: r.method + " " + r.path, Err: ctx.Err()}
			case <-time.After(wait):
			}
		}

		resp, lastErr = c.roundTrip(ctx, r)
		if lastErr != nil {
			if retryableError(lastErr) {
				continue
			}
			break
		}
		if c.retry.retryableStatus(resp.status) {
			lastErr = parseAPIError(resp.status, resp.body)
			continue
		}
		break
	}

	if lastErr != nil {
		if resp == nil || resp.status >= http.StatusInternalServerError || resp.status == http.StatusTooManyRequests {
			c.breaker.RecordFailure()
		}
		if resp == nil {
			return nil, &TransportError{Op: r.method + " " + r.path, Err: lastErr}
		}
		return nil, lastErr
	}

	if resp.status >= http.StatusInternalServerError {
		c.breaker.RecordFailure()
	} else {
		c.breaker.RecordSuccess()
	}

	if resp.status >= http.StatusBadRequest {
		return resp, parseAPIError(resp.status, resp.body)
	}
	return resp, nil
}

func (c *Client) roundTrip(ctx context.Context, r *request) (*response, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, err
	}
	for k, v := range r.header {
		req.Header[k] = v
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.anonKey)
	bearer := c.token
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("X-Client-Info", version.ClientInfo())
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
}

func decode(resp *response, out any) error {
	if out == nil || len(resp.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return &TransportError{Op: "decode response", Err: err}
	}
	return nil
}
