// ABOUTME: HTTP client for the asistente-neae backend
// ABOUTME: Wraps login, chat and user-data endpoints with typed errors

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client is the API client for the asistente-neae backend. Every request
// carries the persisted cookie jar, so the auth cookie set by /login is
// included automatically.
type Client struct {
	baseURL    string
	httpClient *http.Client
	jar        *Jar
}

// New creates a client against baseURL using the given cookie jar.
func New(baseURL string, jar *Jar, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		jar: jar,
	}
}

// BaseURL returns the configured backend URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AuthCookie returns the live cookie with the given name, or nil.
func (c *Client) AuthCookie(name string) *http.Cookie {
	if c.jar == nil {
		return nil
	}
	return c.jar.Get(name)
}

// ClearCookies drops every persisted cookie.
func (c *Client) ClearCookies() {
	if c.jar != nil {
		c.jar.Clear()
	}
}

// Profile is the quota information reported by /api/user-data.
type Profile struct {
	UsageCount int `json:"usage_count"`
	MaxUses    int `json:"max_uses"`
}

// APIError is a non-2xx backend response with its decoded detail text.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend status %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend status %d", e.Status)
}

type startChatResponse struct {
	SessionID string `json:"session_id"`
}

type sendMessageRequest struct {
	SessionID string `json:"session_id"`
	Pregunta  string `json:"pregunta"`
}

type sendMessageResponse struct {
	Respuesta string `json:"respuesta"`
}

// Login calls POST /login with the form-encoded access key. The backend sets
// the auth cookie, which lands in the persisted jar.
func (c *Client) Login(ctx context.Context, key string) error {
	form := url.Values{"key": {key}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// Logout calls GET /logout so the server drops its session. Callers treat a
// failure here as non-fatal.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// StartChat calls POST /chat/start and returns the new session id.
func (c *Client) StartChat(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/start", strings.NewReader("{}"))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.handleErrorResponse(resp)
	}

	var start startChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&start); err != nil {
		return "", fmt.Errorf("invalid response from backend: %w", err)
	}
	if start.SessionID == "" {
		return "", fmt.Errorf("backend returned an empty session id")
	}
	return start.SessionID, nil
}

// SendMessage calls POST /chat/send and returns the assistant's reply.
func (c *Client) SendMessage(ctx context.Context, sessionID, pregunta string) (string, error) {
	body, err := json.Marshal(sendMessageRequest{SessionID: sessionID, Pregunta: pregunta})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/send", strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.handleErrorResponse(resp)
	}

	var send sendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&send); err != nil {
		return "", fmt.Errorf("invalid response from backend: %w", err)
	}
	return send.Respuesta, nil
}

// UserData calls GET /api/user-data and returns the usage profile.
func (c *Client) UserData(ctx context.Context) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/user-data", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.handleErrorResponse(resp)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return &profile, nil
}

// ViewFragment fetches a view's markup fragment from the backend's static
// tree.
func (c *Client) ViewFragment(ctx context.Context, name string) (string, error) {
	path := fmt.Sprintf("/static/views/%s/%s.html", name, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{Status: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read fragment %s: %w", name, err)
	}
	return string(data), nil
}

// handleRequestError converts transport and context errors to messages that
// make sense to a CLI user.
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse decodes the backend's {detail} error body.
func (c *Client) handleErrorResponse(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Detail = body.Detail
	}
	return apiErr
}
