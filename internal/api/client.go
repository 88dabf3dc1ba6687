// Package api is a typed client for the remote task API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds each API call.
const DefaultTimeout = 5 * time.Second

// Client talks to the task API. The zero value is not usable; construct
// with New. Business logic lives server-side; the client only shapes
// requests and decodes responses.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// New creates a Client for the API at baseURL. httpClient may carry an
// authenticating transport; nil uses http.DefaultClient. timeout <= 0
// falls back to DefaultTimeout.
func New(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		timeout: timeout,
	}
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (AuthTokens, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return AuthTokens{}, err
	}
	return resp.AuthTokens, nil
}

// Register creates an account and returns the server's message.
func (c *Client) Register(ctx context.Context, name, email, password, secretKey string) (string, error) {
	var resp messageResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register", registerRequest{
		Name:      name,
		Email:     email,
		Password:  password,
		SecretKey: secretKey,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Reset replaces the account password and returns the server's message.
func (c *Client) Reset(ctx context.Context, email, password, secretKey string) (string, error) {
	var resp messageResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/reset", resetRequest{
		Email:     email,
		Password:  password,
		SecretKey: secretKey,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (AuthTokens, error) {
	var resp refreshResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/refresh", refreshRequest{
		RefreshToken:      refreshToken,
		RefreshTokenCamel: refreshToken,
	}, &resp)
	if err != nil {
		return AuthTokens{}, err
	}
	return AuthTokens{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}, nil
}

// Logout asks the server to invalidate the refresh token.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", logoutRequest{
		RefreshToken: refreshToken,
	}, nil)
}

// User fetches the signed-in user's profile.
func (c *Client) User(ctx context.Context) (User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/api/user", nil, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// Tasks fetches the full task list.
func (c *Client) Tasks(ctx context.Context) ([]Task, error) {
	var resp tasksResponse
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// CreateTask creates a task and returns the server's copy, which
// carries the assigned id.
func (c *Client) CreateTask(ctx context.Context, draft TaskDraft) (Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodPost, "/api/tasks", draft, &resp); err != nil {
		return Task{}, err
	}
	return resp.Task, nil
}

// UpdateTask replaces the task's description, due date and flag.
func (c *Client) UpdateTask(ctx context.Context, id string, draft TaskDraft) (Task, error) {
	var resp taskResponse
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+id, draft, &resp); err != nil {
		return Task{}, err
	}
	return resp.Task, nil
}

// SetComplete updates only the completion state.
func (c *Client) SetComplete(ctx context.Context, id string, isComplete bool) (Task, error) {
	var resp taskResponse
	err := c.do(ctx, http.MethodPatch, "/api/tasks/"+id+"/complete", completeRequest{
		IsComplete: isComplete,
	}, &resp)
	if err != nil {
		return Task{}, err
	}
	return resp.Task, nil
}

// SetFlagged updates only the flag state.
func (c *Client) SetFlagged(ctx context.Context, id string, isFlagged bool) (Task, error) {
	var resp taskResponse
	err := c.do(ctx, http.MethodPatch, "/api/tasks/"+id+"/flag", flagRequest{
		IsFlagged: isFlagged,
	}, &resp)
	if err != nil {
		return Task{}, err
	}
	return resp.Task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil)
}

// do issues one request with the per-call timeout and decodes the
// response into out. 4xx/5xx become *APIError with the server message;
// transport failures become ErrNetwork.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return wrapNetwork(ctxErr)
		}
		return wrapNetwork(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapNetwork(err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var msg messageResponse
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
