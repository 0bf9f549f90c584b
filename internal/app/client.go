package app

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
)

// TokenSource hands out a fresh bearer token. Tokens are short-lived, so the
// client asks for one immediately before every network call instead of
// caching across calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the OmniLeap backend: chat turns, crew invocations and the
// history endpoints. Every call carries a freshly acquired bearer token, and
// transport/HTTP failures are translated into the AuthError / TransportError /
// ServiceError taxonomy.
type Client struct {
	BaseURL string
	Tokens  TokenSource
	HTTP    *http.Client
	// CrewHTTP has no timeout: a crew run may legitimately take minutes and
	// must not be time-boxed client-side.
	CrewHTTP *http.Client
}

type chatRequest struct {
	UserInput string `json:"user_input"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Output string `json:"output"`
}

type crewRequest struct {
	Topic string `json:"topic"`
}

type crewResponse struct {
	Result string `json:"result"`
}

type historyResponse struct {
	History []PersistedMessage `json:"history"`
}

func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Tokens:   tokens,
		HTTP:     &http.Client{Timeout: timeout},
		CrewHTTP: &http.Client{},
	}
}

// SendChatTurn runs one chat turn against the agent and returns the raw
// output text.
func (c *Client) SendChatTurn(ctx context.Context, sessionID, text string) (string, error) {
	var resp chatResponse
	err := c.do(ctx, c.HTTP, http.MethodPost, "/api/v1/chat", chatRequest{
		UserInput: text,
		SessionID: sessionID,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Output, nil
}

// InvokeCrew kicks off a long-running multi-agent task and blocks until the
// crew finishes.
func (c *Client) InvokeCrew(ctx context.Context, topic string) (string, error) {
	var resp crewResponse
	err := c.do(ctx, c.CrewHTTP, http.MethodPost, "/api/v1/chat/invoke_crew", crewRequest{
		Topic: topic,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Result, nil
}

// FetchHistory returns the user's persisted messages as a flat feed. A user
// with no history gets an empty slice, not an error.
func (c *Client) FetchHistory(ctx context.Context) ([]PersistedMessage, error) {
	var resp historyResponse
	if err := c.do(ctx, c.HTTP, http.MethodGet, "/api/v1/chat/history", nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// DeleteAllHistory removes every persisted conversation for the user.
func (c *Client) DeleteAllHistory(ctx context.Context) error {
	return c.do(ctx, c.HTTP, http.MethodDelete, "/api/v1/chat/history", nil, nil)
}

// DeleteSession removes one persisted conversation. Deleting a session that
// is already gone is not an error.
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	err := c.do(ctx, c.HTTP, http.MethodDelete, "/api/v1/chat/history/"+sessionID, nil, nil)
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) && serviceErr.Status == http.StatusNotFound {
		return nil
	}
	return err
}

// ArtifactURL resolves a chart artifact name returned by a chat turn to a
// fetchable URL on the backend.
func (c *Client) ArtifactURL(name string) string {
	return c.BaseURL + "/" + name
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body, out any) error {
	token, err := c.Tokens.Token(ctx)
	if err != nil {
		return &AuthError{Reason: err.Error()}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	resp, err := hc.Do(request)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{Reason: errorDetail(payload)}
	}
	if resp.StatusCode >= 300 {
		return &ServiceError{Status: resp.StatusCode, Detail: errorDetail(payload)}
	}

	if out != nil {
		if err := json.Unmarshal(payload, out); err != nil {
			return &ServiceError{Status: resp.StatusCode, Detail: "invalid response from service"}
		}
	}
	return nil
}

// errorDetail pulls the server-side explanation out of a failure body.
func errorDetail(payload []byte) string {
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return ""
}
