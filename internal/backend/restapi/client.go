// Package restapi implements service.Service against the remote task
// API, with the session transport handling bearer tokens and the silent
// refresh-on-401 path.
package restapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"dotask/internal/api"
	"dotask/internal/config"
	"dotask/internal/service"
	"dotask/internal/session"
)

// ErrNoAPIURL is returned when no API base URL is configured.
var ErrNoAPIURL = errors.New("api url not configured (set api_url in config.yml or DOTASK_API_URL)")

// Client implements service.Service over api.Client.
type Client struct {
	api     *api.Client
	session *session.Manager
}

var _ service.Service = (*Client)(nil)

// Session builds the session manager and the bare (unauthenticated)
// API client for cfg. Used by auth commands that must work without an
// existing session.
func Session(cfg *config.Config) (*session.Manager, *api.Client, error) {
	if cfg.APIURL == "" {
		return nil, nil, ErrNoAPIURL
	}
	bare := api.New(cfg.APIURL, nil, cfg.Timeout)
	manager := session.NewManager(session.NewStore(cfg.TokenPath()), bare)
	if err := manager.LoadPersisted(); err != nil {
		return nil, nil, err
	}
	return manager, bare, nil
}

// New creates an authenticated backend. Fails with
// session.ErrNotAuthenticated when no session is stored.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	manager, _, err := Session(cfg)
	if err != nil {
		return nil, err
	}
	if !manager.Authenticated() {
		return nil, fmt.Errorf("%w (run: dotask login)", session.ErrNotAuthenticated)
	}

	authed := api.New(cfg.APIURL, &http.Client{
		Transport: session.NewTransport(manager),
	}, cfg.Timeout)

	return &Client{api: authed, session: manager}, nil
}

func (c *Client) User(ctx context.Context) (api.User, error) {
	return c.api.User(ctx)
}

func (c *Client) Tasks(ctx context.Context) ([]api.Task, error) {
	return c.api.Tasks(ctx)
}

func (c *Client) CreateTask(ctx context.Context, draft api.TaskDraft) (api.Task, error) {
	return c.api.CreateTask(ctx, draft)
}

func (c *Client) UpdateTask(ctx context.Context, id string, draft api.TaskDraft) (api.Task, error) {
	return c.api.UpdateTask(ctx, id, draft)
}

func (c *Client) CompleteTask(ctx context.Context, id string, isComplete bool) (api.Task, error) {
	return c.api.SetComplete(ctx, id, isComplete)
}

func (c *Client) FlagTask(ctx context.Context, id string, isFlagged bool) (api.Task, error) {
	return c.api.SetFlagged(ctx, id, isFlagged)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.api.DeleteTask(ctx, id)
}
