package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// ClientConfig configures the HTTP client for the agent service.
type ClientConfig struct {
	// BaseURL of the agent service, e.g. "http://localhost:10000".
	BaseURL string
	// RunTimeout bounds one task round-trip. Page navigation is slow;
	// default is 3 minutes.
	RunTimeout time.Duration
	// SessionTimeout bounds session open/close calls. Default 30s.
	SessionTimeout time.Duration
}

// Client talks to the agent service over HTTP and implements Factory.
// Each session created on the service side holds one headless browser.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
}

// NewClient builds a client for the agent service at cfg.BaseURL.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("agent service base URL is required")
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 3 * time.Minute
	}
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RunTimeout},
	}, nil
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	Error     string `json:"error,omitempty"`
}

type runRequest struct {
	Task string `json:"task"`
}

type runResponse struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// New opens a fresh agent session (a new browser on the service side).
func (c *Client) New(ctx context.Context) (Runner, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.SessionTimeout)
	defer cancel()

	var resp sessionResponse
	if err := c.post(ctx, "/sessions", nil, &resp); err != nil {
		return nil, fmt.Errorf("open agent session: %w", err)
	}
	if resp.SessionID == "" {
		return nil, fmt.Errorf("open agent session: service returned no session id (error: %s)", resp.Error)
	}
	return &session{client: c, id: resp.SessionID}, nil
}

// session is one live browser session on the agent service.
type session struct {
	client *Client
	id     string
}

func (s *session) Run(ctx context.Context, task string) (string, error) {
	var resp runResponse
	err := s.client.post(ctx, "/sessions/"+s.id+"/run", runRequest{Task: task}, &resp)
	if err != nil {
		return "", fmt.Errorf("agent task failed: %w", err)
	}
	if resp.Error != "" {
		return "", fmt.Errorf("agent task failed: %s", resp.Error)
	}
	return resp.Content, nil
}

func (s *session) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.client.cfg.SessionTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.client.cfg.BaseURL+"/sessions/"+s.id, nil)
	if err != nil {
		return fmt.Errorf("close agent session: %w", err)
	}
	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("close agent session: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		slog.Warn("Agent session close returned non-success status", "session", s.id, "status", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("agent service returned %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
