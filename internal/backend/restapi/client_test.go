package restapi_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotask/internal/api"
	"dotask/internal/backend/restapi"
	"dotask/internal/config"
	"dotask/internal/session"
	"dotask/internal/testutil"
)

func backendConfig(t *testing.T, fake *testutil.FakeAPI) *config.Config {
	t.Helper()
	return &config.Config{
		Dir:     t.TempDir(),
		APIURL:  fake.URL(),
		Timeout: time.Second,
	}
}

func TestNewWithoutAPIURL(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), Timeout: time.Second}
	_, err := restapi.New(context.Background(), cfg)
	assert.ErrorIs(t, err, restapi.ErrNoAPIURL)
}

func TestNewWithoutSession(t *testing.T) {
	fake := testutil.NewFakeAPI()
	defer fake.Close()

	_, err := restapi.New(context.Background(), backendConfig(t, fake))
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestBackendRoundTrip(t *testing.T) {
	fake := testutil.NewFakeAPI()
	defer fake.Close()
	cfg := backendConfig(t, fake)

	manager, _, err := restapi.Session(cfg)
	require.NoError(t, err)
	access, refresh := fake.IssueTokens()
	require.NoError(t, manager.SaveTokens(session.Tokens{AccessToken: access, RefreshToken: refresh}))

	backend, err := restapi.New(context.Background(), cfg)
	require.NoError(t, err)
	ctx := context.Background()

	created, err := backend.CreateTask(ctx, api.TaskDraft{Description: "from the backend"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	tasks, err := backend.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	user, err := backend.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nick Test", user.Name)

	updated, err := backend.UpdateTask(ctx, created.ID, api.TaskDraft{Description: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Description)

	completed, err := backend.CompleteTask(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, completed.IsComplete)
	assert.NotNil(t, completed.CompletedAt)

	flagged, err := backend.FlagTask(ctx, created.ID, true)
	require.NoError(t, err)
	assert.True(t, flagged.IsFlagged)

	require.NoError(t, backend.DeleteTask(ctx, created.ID))
	tasks, err = backend.Tasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestBackendRecoversFromExpiredAccessToken(t *testing.T) {
	fake := testutil.NewFakeAPI()
	defer fake.Close()
	cfg := backendConfig(t, fake)

	manager, _, err := restapi.Session(cfg)
	require.NoError(t, err)
	access, refresh := fake.IssueTokens()
	require.NoError(t, manager.SaveTokens(session.Tokens{AccessToken: access, RefreshToken: refresh}))

	backend, err := restapi.New(context.Background(), cfg)
	require.NoError(t, err)

	fake.AddTask("still reachable", nil, false, false)
	fake.ExpireAccess()

	tasks, err := backend.Tasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, 1, fake.RefreshCalls())
}
