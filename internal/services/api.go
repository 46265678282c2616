package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/moodtune/moodtune/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Client performs authenticated HTTP requests against the moodtune backend.
//
// Bearer tokens come from an [oauth2.TokenSource] (the session store); the
// OnUnauthorized hook fires on every 401 so the session can be cleared
// globally in addition to the error returned to the immediate caller.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         oauth2.TokenSource
	limiter        *rate.Limiter
	onUnauthorized func()
}

// ClientOpts configures a [Client].
type ClientOpts struct {
	BaseURL        string
	Timeout        time.Duration
	RequestsPerSec float64
	Tokens         oauth2.TokenSource
	OnUnauthorized func()
	// Transport overrides the default HTTP transport when set.
	Transport http.RoundTripper
}

// NewClient creates a backend API client.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8000"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 5
	}

	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		httpClient:     &http.Client{Timeout: opts.Timeout, Transport: opts.Transport},
		tokens:         opts.Tokens,
		limiter:        rate.NewLimiter(rate.Limit(opts.RequestsPerSec), int(opts.RequestsPerSec)+1),
		onUnauthorized: opts.OnUnauthorized,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// Post performs a POST request with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json", out)
}

// Patch performs a PATCH request with a JSON body and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, http.MethodPatch, path, bytes.NewReader(data), "application/json", out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}

// PostFile performs a multipart POST uploading a single file under the given
// form field and decodes the response into out.
func (c *Client) PostFile(ctx context.Context, path, field, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	return c.do(ctx, http.MethodPost, path, &buf, writer.FormDataContentType(), out)
}

// do executes one request and translates every failure into the error
// taxonomy. This is the single translation point for the whole client.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return translateTransport(ctx, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		if token, err := c.tokens.Token(); err == nil && token != nil && token.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return translateTransport(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return translateTransport(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.translateStatus(resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// translateStatus normalizes an HTTP error status into a taxonomy error.
func (c *Client) translateStatus(status int, raw []byte) error {
	detail, fields := parseErrorDetail(raw)

	switch {
	case status == http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return shared.NewAPIError(shared.ErrUnauthorized, status, detail, nil)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return shared.NewAPIError(shared.ErrValidation, status, detail, fields)
	default:
		return shared.NewAPIError(shared.ErrUpstream, status, detail, nil)
	}
}

// translateTransport normalizes transport-level failures: cancellation,
// timeouts, then everything else as unreachable.
func translateTransport(ctx context.Context, err error) error {
	if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: %v", shared.ErrCancelled, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", shared.ErrTimeout, err)
	}

	return fmt.Errorf("%w: %v", shared.ErrUnreachable, err)
}

// parseErrorDetail extracts the backend's detail payload, which may be either
// a plain string or a list of field validation entries.
func parseErrorDetail(raw []byte) (string, []shared.FieldError) {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return strings.TrimSpace(string(raw)), nil
	}

	if len(envelope.Detail) == 0 {
		return envelope.Error, nil
	}

	var message string
	if err := json.Unmarshal(envelope.Detail, &message); err == nil {
		return message, nil
	}

	var entries []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &entries); err == nil {
		fields := make([]shared.FieldError, 0, len(entries))
		for _, entry := range entries {
			field := ""
			if len(entry.Loc) > 0 {
				if s, ok := entry.Loc[len(entry.Loc)-1].(string); ok {
					field = s
				}
			}
			fields = append(fields, shared.FieldError{Field: field, Message: entry.Msg})
		}
		summary := make([]string, len(fields))
		for i, f := range fields {
			summary[i] = f.Message
		}
		return strings.Join(summary, ", "), fields
	}

	return strings.TrimSpace(string(envelope.Detail)), nil
}
