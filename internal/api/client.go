// Package api is the HTTP adapter for the Serene backend.
//
// Every request is decorated with the bearer credential produced by the
// injected session source. Errors are returned to the caller untouched; the
// adapter never retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/serene/internal/errors"
	"github.com/julianstephens/serene/internal/logger"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-ID"

	// maxErrorBody caps how much of a failed response is kept on StatusError.
	maxErrorBody = 4 << 10

	defaultTimeout = 15 * time.Second
)

// Credentials yields the bearer token for a request; "" means send none.
type Credentials interface {
	Token(ctx context.Context) (string, error)
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	timeout    time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client. The client is used
// as given; WithTimeout does not touch it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the client New creates.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a client for baseURL (e.g. "http://localhost:8000/api").
func New(baseURL string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

// HTTPClient returns the *http.Client requests are sent with.
func (c *Client) HTTPClient() *http.Client { return c.httpClient }

func (c *Client) BaseURL() string { return c.baseURL }

// Do sends one request. body, if non-nil, is JSON-encoded; a 2xx response body
// is decoded into out when out is non-nil. It returns the response status code.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)
	if err := c.authorize(ctx, req); err != nil {
		logger.Warn("Sending request without credential", "path", path, "kind", apperrors.KindOf(err), "error", err)
	}

	logger.Debug("Sending request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out != nil {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, fmt.Errorf("read response: %w", err)
		}
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// authorize attaches the bearer header. A credential failure comes back as
// KindCredentialUnavailable and the request proceeds without one; the backend
// is expected to reject it.
func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if c.creds == nil {
		return nil
	}
	token, err := c.creds.Token(ctx)
	if err != nil {
		return apperrors.New(apperrors.KindCredentialUnavailable, "session token", err)
	}
	if token != "" {
		req.Header.Set(HeaderAuthorization, "Bearer "+token)
	}
	return nil
}
