// Package api is the HTTP client for the Tasklight backend. It attaches the
// current credential to every request, reports authentication failures to
// the session controller, and never retries: failure semantics belong to
// the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tasklight/tasklight/internal/core/ports"
	"github.com/tasklight/tasklight/internal/metrics"
)

const defaultTimeout = 30 * time.Second

// Config captures the settings for constructing a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the backend over JSON/HTTP. The credential is supplied by
// a source callback so the client never owns session state; server-set
// cookies are replayed through the cookie jar for cookie-only deployments.
type Client struct {
	baseURL    string
	httpClient *http.Client

	credential     func() string
	onUnauthorized func()
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	// Cookie jar keeps server-issued session cookies across requests.
	jar, _ := cookiejar.New(nil)

	transport := promhttp.InstrumentRoundTripperCounter(metrics.RequestsTotal,
		promhttp.InstrumentRoundTripperDuration(metrics.RequestDuration, http.DefaultTransport))

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: transport,
		},
	}
}

// BindSession wires the credential source and the unauthorized hook. The
// hook fires exactly once per 401 response, before the failure is returned
// unchanged to the caller.
func (c *Client) BindSession(credential func() string, onUnauthorized func()) {
	c.credential = credential
	c.onUnauthorized = onUnauthorized
}

// do executes one request and decodes the JSON response into out (when out
// is non-nil). Non-2xx responses come back as *ports.APIError; transport
// failures are wrapped and propagated. There are no automatic retries.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if c.credential != nil {
		if token := c.credential(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
			// Companion cookie for deployments that read the token from
			// a cookie instead of the Authorization header.
			req.AddCookie(&http.Cookie{Name: "token", Value: token})
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ports.APIError{Code: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
