// Package client talks to a running heating server over its HTTP API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"zone_heating/internal/service"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type errorBody struct {
	Error string `json:"error"`
}

// AdjustResult mirrors the adjust endpoint's response.
type AdjustResult struct {
	Success   bool    `json:"success"`
	NewTarget float64 `json:"new_target"`
	Zone      int     `json:"zone"`
	Clamped   bool    `json:"clamped"`
}

type Client struct {
	http *resty.Client
}

// New builds a client for baseURL. A zero timeout uses the default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Accept", "application/json")
	return &Client{http: rc}
}

// SetToken sets the bearer token sent with every API call.
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// SignIn exchanges credentials for a token and keeps it for later calls.
func (c *Client) SignIn(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/sign-in", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("sign in: %w", err)
	}
	c.SetToken(out.Token)
	return out.Token, nil
}

// Dashboard returns the status of every zone.
func (c *Client) Dashboard(ctx context.Context) ([]service.ZoneStatus, error) {
	var out []service.ZoneStatus
	if err := c.do(ctx, http.MethodGet, "/api/v1/dashboard", nil, &out); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return out, nil
}

// Status returns one zone's status.
func (c *Client) Status(ctx context.Context, zoneID int) (service.ZoneStatus, error) {
	var out service.ZoneStatus
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/zones/%d/status", zoneID), nil, &out); err != nil {
		return service.ZoneStatus{}, fmt.Errorf("zone %d status: %w", zoneID, err)
	}
	return out, nil
}

// Adjust nudges a zone's target by delta degrees.
func (c *Client) Adjust(ctx context.Context, zoneID int, delta float64) (AdjustResult, error) {
	var out AdjustResult
	body := map[string]any{"zone": zoneID, "delta": delta}
	if err := c.do(ctx, http.MethodPost, "/api/v1/overrides/adjust", body, &out); err != nil {
		return AdjustResult{}, fmt.Errorf("adjust zone %d: %w", zoneID, err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var apiErr errorBody
	req := c.http.R().
		SetContext(ctx).
		SetResult(result).
		SetError(&apiErr)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Error}
	}
	return nil
}
