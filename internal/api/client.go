// Package api is the typed client for the remote tutor backend: curriculum
// parsing, chat with emotional inference, and session state all live behind
// its HTTP surface. This layer normalizes errors and enforces a client-side
// timeout; it never retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mindhacker/edge/internal/curriculum"
	"github.com/mindhacker/edge/internal/emotion"
	"github.com/mindhacker/edge/internal/session"
)

// The generation step behind /api/chat can be slow, so the client-side
// timeout is generous and independent of any gateway timeout.
const defaultTimeout = 2 * time.Minute

// ErrTimeout is returned when a request exceeds the client-side timeout.
// The wording is user-facing: the usual cause in development is a backend
// that is not running.
var ErrTimeout = errors.New("request timed out — is the backend running?")

// AgentLogEntry records one backend tool invocation, shown in the UI as an
// activity feed. Opaque here.
type AgentLogEntry struct {
	Tool         string `json:"tool"`
	InputSummary string `json:"input_summary"`
}

// ChatResponse is the backend's answer to one chat turn.
type ChatResponse struct {
	Response       string          `json:"response"`
	EmotionalState *emotion.State  `json:"emotional_state"`
	AgentLog       []AgentLogEntry `json:"agent_log"`
	SessionID      string          `json:"session_id"`
}

// UploadResponse is the backend's answer to a curriculum upload.
type UploadResponse struct {
	SessionID  string                `json:"session_id"`
	Curriculum curriculum.Curriculum `json:"curriculum"`
}

// ProgressData summarizes a session's emotional history and completion.
type ProgressData struct {
	SessionID        string          `json:"session_id"`
	EmotionalHistory []emotion.State `json:"emotional_history"`
	CompletedNodes   []string        `json:"completed_nodes"`
	TotalNodes       int             `json:"total_nodes"`
	ProgressPct      float64         `json:"progress_pct"`
	CurrentNodeID    string          `json:"current_node_id"`
}

// Client talks to the tutor backend.
type Client struct {
	baseURL string
	chatURL string
	timeout time.Duration
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithChatURL sets a direct chat endpoint that bypasses the API gateway and
// its shorter hard timeout. Empty means use the gateway path.
func WithChatURL(url string) Option {
	return func(c *Client) {
		c.chatURL = url
	}
}

// WithTimeout overrides the per-request timeout (for testing).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// New creates a backend client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		timeout: defaultTimeout,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendMessage posts one chat turn. When a direct chat URL is configured it
// is used instead of the gateway, with identical error semantics.
func (c *Client) SendMessage(ctx context.Context, sessionID, message string) (ChatResponse, error) {
	endpoint := c.baseURL + "/api/chat"
	if c.chatURL != "" {
		endpoint = c.chatURL
	}

	body := map[string]string{"session_id": sessionID, "message": message}
	var out ChatResponse
	if err := c.do(ctx, http.MethodPost, endpoint, body, &out); err != nil {
		return ChatResponse{}, err
	}
	return out, nil
}

// UploadCurriculum asks the backend to parse curriculum text.
func (c *Client) UploadCurriculum(ctx context.Context, content, subject string) (UploadResponse, error) {
	body := map[string]string{"content": content, "subject": subject}
	var out UploadResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/api/upload", body, &out); err != nil {
		return UploadResponse{}, err
	}
	return out, nil
}

// UploadCurriculumPDF sends a base64 PDF for server-side text extraction.
func (c *Client) UploadCurriculumPDF(ctx context.Context, pdfBase64, subject string) (UploadResponse, error) {
	body := map[string]string{"pdf_base64": pdfBase64, "subject": subject}
	var out UploadResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/api/upload", body, &out); err != nil {
		return UploadResponse{}, err
	}
	return out, nil
}

// GetSession fetches a backend-tracked session.
func (c *Client) GetSession(ctx context.Context, sessionID string) (session.Data, error) {
	var out session.Data
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/api/session/"+url.PathEscape(sessionID), nil, &out); err != nil {
		return session.Data{}, err
	}
	return out, nil
}

// CreateSession materializes a backend session from a local curriculum.
// Callers use only the returned session id.
func (c *Client) CreateSession(ctx context.Context, cur curriculum.Curriculum) (session.Data, error) {
	body := map[string]any{"curriculum": cur}
	var out session.Data
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/api/session", body, &out); err != nil {
		return session.Data{}, err
	}
	return out, nil
}

// GetProgress fetches progress and emotional history for a session.
func (c *Client) GetProgress(ctx context.Context, sessionID string) (ProgressData, error) {
	var out ProgressData
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/api/progress/"+url.PathEscape(sessionID), nil, &out); err != nil {
		return ProgressData{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return fmt.Errorf("calling tutor backend: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &payload) == nil && payload.Error != "" {
			return errors.New(payload.Error)
		}
		return fmt.Errorf("request failed (HTTP %d)", resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}
