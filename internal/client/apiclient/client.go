// Package apiclient is the storefront's HTTP client for the AuraWell REST API.
//
// A Client is stateless apart from its cookie jar, which carries the session
// credential on every request. Every failure, whether a non-2xx response or a
// transport error, surfaces as a single *Error kind with a readable message.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultBaseURL matches the reference API's default listen address.
	DefaultBaseURL = "http://localhost:9090/api"

	defaultTimeout = 15 * time.Second
)

// Client executes API requests against a base URL such as
// "http://localhost:9090/api".
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is attached
// when the given client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger used for request tracing at debug level.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a Client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("apiclient: invalid base url %q: %w", baseURL, err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("apiclient: cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends a JSON request and decodes a JSON success body into out (when out
// is non-nil). The Content-Type header is always application/json.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: DefaultErrorMessage, err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Message: DefaultErrorMessage, err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.send(req, out, DefaultErrorMessage)
}

// Upload posts a multipart form with a single file part named field. The
// Content-Type header comes from the multipart writer so it carries the
// boundary.
func (c *Client) Upload(ctx context.Context, path, field, filename string, content io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return &Error{Message: UploadErrorMessage, err: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return &Error{Message: UploadErrorMessage, err: fmt.Errorf("read upload: %w", err)}
	}
	if err := mw.Close(); err != nil {
		return &Error{Message: UploadErrorMessage, err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return &Error{Message: UploadErrorMessage, err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.send(req, out, UploadErrorMessage)
}

func (c *Client) send(req *http.Request, out any, fallback string) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("request failed")
		return &Error{Message: fallback, err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, fallback)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &Error{Message: fallback, err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// decodeError builds an *Error from an error response, preferring the "error"
// field, then "message", then the fallback.
func decodeError(resp *http.Response, fallback string) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := fallback
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		switch {
		case payload.Error != "":
			msg = payload.Error
		case payload.Message != "":
			msg = payload.Message
		}
	}
	return &Error{Message: msg, err: fmt.Errorf("http status %d", resp.StatusCode)}
}
