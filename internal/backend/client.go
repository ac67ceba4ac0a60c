// Package backend is the REST client for the external admin API. The console
// owns no data; every screen reads and writes through this client.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 15 * time.Second

var (
	ErrUnauthorized = errors.New("backend: unauthorized")
	ErrForbidden    = errors.New("backend: forbidden")
	ErrNotFound     = errors.New("backend: not found")
	ErrBadRequest   = errors.New("backend: bad request")
)

// APIError carries a non-2xx response.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend: status %d", e.Status)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Status, e.Detail)
}

// Is maps status codes onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrBadRequest:
		return e.Status == http.StatusBadRequest
	}
	return false
}

// UnauthorizedHook is called when a request carrying token is rejected with 401.
type UnauthorizedHook func(ctx context.Context, token string)

// Client talks JSON to the backend. Each browser session owns a Client (see
// Clone) so the default bearer header is never shared between users.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu             sync.RWMutex
	bearer         string
	onUnauthorized UnauthorizedHook
}

// New constructs a Client. A nil httpClient gets DefaultTimeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Clone returns a client sharing the transport but with its own headers and hook.
func (c *Client) Clone() *Client {
	return &Client{baseURL: c.baseURL, httpClient: c.httpClient}
}

// SetBearer sets the default Authorization header for subsequent requests.
func (c *Client) SetBearer(token string) {
	c.mu.Lock()
	c.bearer = token
	c.mu.Unlock()
}

// ClearBearer removes the default Authorization header.
func (c *Client) ClearBearer() {
	c.SetBearer("")
}

// Bearer returns the current default token.
func (c *Client) Bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bearer
}

// OnUnauthorized installs the 401 hook.
func (c *Client) OnUnauthorized(fn UnauthorizedHook) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

type call struct {
	method string
	path   string
	token  string
	in     any
	out    any
	// notify fires the 401 hook; auth endpoints handle rejection themselves.
	notify bool
}

// Do issues an authenticated request with the default bearer header.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	return c.send(ctx, call{method: method, path: path, token: c.Bearer(), in: in, out: out, notify: true})
}

func (c *Client) send(ctx context.Context, cl call) error {
	var body io.Reader
	if cl.in != nil {
		data, err := json.Marshal(cl.in)
		if err != nil {
			return fmt.Errorf("backend: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", cl.method, cl.path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
		if resp.StatusCode == http.StatusUnauthorized && cl.notify && cl.token != "" {
			c.mu.RLock()
			hook := c.onUnauthorized
			c.mu.RUnlock()
			if hook != nil {
				hook(ctx, cl.token)
			}
		}
		return apiErr
	}
	if cl.out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
		return fmt.Errorf("backend: decode %s %s: %w", cl.method, cl.path, err)
	}
	return nil
}

const maxDetail = 512

func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 8<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var shaped struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &shaped) == nil && shaped.Detail != "" {
		return shaped.Detail
	}
	detail := strings.TrimSpace(string(raw))
	if len(detail) > maxDetail {
		detail = detail[:maxDetail]
	}
	return detail
}
