// Package api provides the typed REST client for the advisory backend.
// All diagnosis, planning and chat computation happens server-side; this
// client only moves JSON.
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
)

// ErrNotFound marks a 404 reply. On the notification endpoints it means
// "no notification yet" and is not treated as a failure by callers.
var ErrNotFound = errors.New("api: not found")

// Error is a non-2xx backend reply. The backend reports failures as
// {"error": "message"}.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("api: backend status %d", e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// TokenSource supplies the current bearer credential, or "" when the
// client is unauthenticated.
type TokenSource func() string

// Client talks to the advisory backend.
type Client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
}

// New creates a Client. A nil token source sends unauthenticated requests.
func New(baseURL string, timeout time.Duration, token TokenSource) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		token:   token,
	}
}

// do issues one JSON request and decodes a 2xx body into out (when out is
// non-nil). Non-2xx replies become *Error; 404 additionally wraps
// ErrNotFound so callers can branch on it.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Trace-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := strings.TrimSpace(c.token()); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)); err == nil {
			if json.Unmarshal(data, &payload) == nil {
				apiErr.Message = payload.Error
			}
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w", apiErr.Error(), ErrNotFound)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode response: %w", err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}
