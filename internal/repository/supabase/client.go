// Package supabase talks to the hosted auth service (Supabase GoTrue) over its
// REST API.
package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

type Config struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	Timeout        time.Duration
}

type Client struct {
	config     Config
	authURL    string
	httpClient *http.Client
}

var (
	sharedOnce   sync.Once
	sharedClient *Client
	sharedErr    error
)

// GetClient builds the process-wide client on first use and returns the same
// handle afterwards. Later calls ignore cfg.
func GetClient(cfg Config) (*Client, error) {
	sharedOnce.Do(func() {
		sharedClient, sharedErr = New(cfg)
	})
	return sharedClient, sharedErr
}

func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("project URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("anon key is required")
	}

	baseURL := strings.TrimRight(cfg.URL, "/")
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid project URL: %w", err)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		config:     cfg,
		authURL:    baseURL + "/auth/v1",
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *Client) request(ctx context.Context, method, urlPath string, body []byte) ([]byte, int, error) {
	return c.requestWithKey(ctx, method, urlPath, body, c.config.AnonKey)
}

func (c *Client) requestWithServiceKey(ctx context.Context, method, urlPath string, body []byte) ([]byte, int, error) {
	if c.config.ServiceRoleKey == "" {
		return nil, 0, fmt.Errorf("service role key not configured")
	}
	return c.requestWithKey(ctx, method, urlPath, body, c.config.ServiceRoleKey)
}

func (c *Client) requestWithKey(ctx context.Context, method, urlPath string, body []byte, key string) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlPath, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

// Error is a non-2xx answer from the auth service.
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase %d: %s", e.StatusCode, e.Message)
}

// parseError reads the several error shapes GoTrue has used over time.
func parseError(body []byte, statusCode int) error {
	if !gjson.ValidBytes(body) {
		return &Error{Code: "unknown", Message: string(body), StatusCode: statusCode}
	}

	res := gjson.ParseBytes(body)

	code := res.Get("error_code").String()
	if code == "" {
		code = res.Get("error").String()
	}

	msg := res.Get("msg").String()
	for _, path := range []string{"message", "error_description", "error"} {
		if msg != "" {
			break
		}
		msg = res.Get(path).String()
	}

	return &Error{Code: code, Message: msg, StatusCode: statusCode}
}
