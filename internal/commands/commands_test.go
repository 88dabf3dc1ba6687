package commands_test

import (
	"bytes"
	"context"
	"flag"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dotask/internal/api"
	"dotask/internal/commands"
	"dotask/internal/config"
	"dotask/internal/exitcode"
	"dotask/internal/service"
	"dotask/internal/testutil"
)

// runCommand parses args through the command's flag set and runs it,
// the way the dispatcher does.
func runCommand(t *testing.T, cmd commands.Command, cfg *config.Config, svc service.Service, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	var out, errOut bytes.Buffer
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))

	code = cmd.Run(context.Background(), cfg, svc, fs.Args(), &out, &errOut)
	return out.String(), errOut.String(), code
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{Dir: t.TempDir(), Timeout: time.Second}
}

func TestListCmd(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("alpha", nil, false, false)
	svc.AddTask("beta", nil, false, false)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, testConfig(t), svc)
	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)

	want := "Nick Test\n" +
		"2 tasks: 0 done (0%), 0 flagged, 0 overdue\n" +
		"   1  [ ] alpha\n" +
		"   2  [ ] beta\n"
	assert.Equal(t, want, stdout)
}

func TestListCmdQuiet(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("alpha", nil, false, false)

	cfg := testConfig(t)
	cfg.Quiet = true
	stdout, _, code := runCommand(t, &commands.ListCmd{}, cfg, svc)
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "   1  [ ] alpha\n", stdout)
}

func TestListCmdFilters(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("open one", nil, false, false)
	svc.AddTask("finished one", nil, false, true)
	svc.AddTask("starred one", nil, true, false)

	stdout, _, code := runCommand(t, &commands.ListCmd{}, testConfig(t), svc, "--open")
	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, stdout, "open one")
	assert.Contains(t, stdout, "starred one")
	assert.NotContains(t, stdout, "finished one")

	stdout, _, code = runCommand(t, &commands.ListCmd{}, testConfig(t), svc, "--done")
	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, stdout, "finished one")
	assert.NotContains(t, stdout, "open one")

	stdout, _, code = runCommand(t, &commands.ListCmd{}, testConfig(t), svc, "--flagged")
	assert.Equal(t, exitcode.Success, code)
	assert.Contains(t, stdout, "starred one")
	assert.NotContains(t, stdout, "open one")
}

func TestListCmdNumbersStayStableAcrossFilters(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("first", nil, false, true)
	svc.AddTask("second", nil, false, false)

	cfg := testConfig(t)
	cfg.Quiet = true
	stdout, _, code := runCommand(t, &commands.ListCmd{}, cfg, svc, "--open")
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "   2  [ ] second\n", stdout)
}

func TestListCmdRejectsConflictingFilters(t *testing.T) {
	svc := testutil.NewFakeService()
	_, stderr, code := runCommand(t, &commands.ListCmd{}, testConfig(t), svc, "--open", "--done")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "cannot use both")
}

func TestListCmdSessionExpired(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.TasksErr = &api.APIError{Status: 401, Message: "Unauthenticated."}

	_, stderr, code := runCommand(t, &commands.ListCmd{}, testConfig(t), svc)
	assert.Equal(t, exitcode.AuthError, code)
	assert.Contains(t, stderr, "session expired (run: dotask login)")
}

func TestListCmdBackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.TasksErr = &api.APIError{Status: 500, Message: "Server error."}

	_, stderr, code := runCommand(t, &commands.ListCmd{}, testConfig(t), svc)
	assert.Equal(t, exitcode.BackendError, code)
	assert.Contains(t, stderr, "Server error.")
}

func TestAddCmd(t *testing.T) {
	svc := testutil.NewFakeService()
	stdout, _, code := runCommand(t, &commands.AddCmd{}, testConfig(t), svc, "water", "the", "plants")
	assert.Equal(t, exitcode.Success, code)
	assert.Regexp(t, `^ok \S+\n$`, stdout)

	tasks, err := svc.Tasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "water the plants", tasks[0].Description)
	assert.NotNil(t, tasks[0].DueAt, "due defaults to now")
}

func TestAddCmdFlagged(t *testing.T) {
	svc := testutil.NewFakeService()
	_, _, code := runCommand(t, &commands.AddCmd{}, testConfig(t), svc, "--flag", "urgent thing")
	assert.Equal(t, exitcode.Success, code)

	tasks, err := svc.Tasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].IsFlagged)
}

func TestAddCmdDue(t *testing.T) {
	svc := testutil.NewFakeService()
	_, _, code := runCommand(t, &commands.AddCmd{}, testConfig(t), svc, "--due", "2026-12-24", "wrap presents")
	assert.Equal(t, exitcode.Success, code)

	tasks, err := svc.Tasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].DueAt)
	want := time.Date(2026, 12, 24, 0, 0, 0, 0, time.Local)
	assert.True(t, tasks[0].DueAt.Time.Equal(want))
}

func TestAddCmdRequiresDescription(t *testing.T) {
	svc := testutil.NewFakeService()
	_, stderr, code := runCommand(t, &commands.AddCmd{}, testConfig(t), svc)
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "description required")
}

func TestAddCmdInvalidDue(t *testing.T) {
	svc := testutil.NewFakeService()
	_, stderr, code := runCommand(t, &commands.AddCmd{}, testConfig(t), svc, "--due", "whenever", "something")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "invalid due date")
}

func TestDoneAndUndoneCmd(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask("target", nil, false, false)

	stdout, _, code := runCommand(t, &commands.DoneCmd{}, testConfig(t), svc, "1")
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", stdout)

	task, ok := svc.TaskByID(id)
	require.True(t, ok)
	assert.True(t, task.IsComplete)
	assert.NotNil(t, task.CompletedAt)

	_, _, code = runCommand(t, &commands.UndoneCmd{}, testConfig(t), svc, "1")
	assert.Equal(t, exitcode.Success, code)

	task, ok = svc.TaskByID(id)
	require.True(t, ok)
	assert.False(t, task.IsComplete)
	assert.Nil(t, task.CompletedAt)
}

func TestDoneCmdRequiresRef(t *testing.T) {
	svc := testutil.NewFakeService()
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, testConfig(t), svc)
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "task reference required")
}

func TestDoneCmdUnknownRef(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("only one", nil, false, false)
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, testConfig(t), svc, "7")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "out of range")
}

func TestFlagAndUnflagCmd(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask("target", nil, false, false)

	_, _, code := runCommand(t, &commands.FlagCmd{}, testConfig(t), svc, "1")
	assert.Equal(t, exitcode.Success, code)
	task, _ := svc.TaskByID(id)
	assert.True(t, task.IsFlagged)

	_, _, code = runCommand(t, &commands.UnflagCmd{}, testConfig(t), svc, "1")
	assert.Equal(t, exitcode.Success, code)
	task, _ = svc.TaskByID(id)
	assert.False(t, task.IsFlagged)
}

func TestEditCmd(t *testing.T) {
	now := time.Now()
	svc := testutil.NewFakeService()
	id := svc.AddTask("draft wording", &now, true, false)

	_, _, code := runCommand(t, &commands.EditCmd{}, testConfig(t), svc, "--desc", "final wording", "1")
	assert.Equal(t, exitcode.Success, code)

	task, _ := svc.TaskByID(id)
	assert.Equal(t, "final wording", task.Description)
	assert.NotNil(t, task.DueAt, "unset flags keep current values")
	assert.True(t, task.IsFlagged)
}

func TestEditCmdClearsDueDate(t *testing.T) {
	now := time.Now()
	svc := testutil.NewFakeService()
	id := svc.AddTask("dated", &now, false, false)

	_, _, code := runCommand(t, &commands.EditCmd{}, testConfig(t), svc, "--due", "none", "1")
	assert.Equal(t, exitcode.Success, code)

	task, _ := svc.TaskByID(id)
	assert.Nil(t, task.DueAt)
}

func TestEditCmdFlagValue(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask("plain", nil, false, false)

	_, _, code := runCommand(t, &commands.EditCmd{}, testConfig(t), svc, "--flag", "true", "1")
	assert.Equal(t, exitcode.Success, code)
	task, _ := svc.TaskByID(id)
	assert.True(t, task.IsFlagged)

	_, stderr, code := runCommand(t, &commands.EditCmd{}, testConfig(t), svc, "--flag", "maybe", "1")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "invalid value for --flag")
}

func TestEditCmdNothingToChange(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("plain", nil, false, false)

	_, stderr, code := runCommand(t, &commands.EditCmd{}, testConfig(t), svc, "1")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "nothing to change")
}

func TestRmCmd(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask("doomed", nil, false, false)

	stdout, _, code := runCommand(t, &commands.RmCmd{}, testConfig(t), svc, "1")
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", stdout)

	_, ok := svc.TaskByID(id)
	assert.False(t, ok)
}

func TestRmCmdFailureKeepsTask(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTask("survivor", nil, false, false)
	svc.DeleteErr = &api.APIError{Status: 500, Message: "Server error."}

	_, stderr, code := runCommand(t, &commands.RmCmd{}, testConfig(t), svc, "1")
	assert.Equal(t, exitcode.BackendError, code)
	assert.Contains(t, stderr, "Server error.")

	_, ok := svc.TaskByID(id)
	assert.True(t, ok)
}

func TestWhoamiCmd(t *testing.T) {
	svc := testutil.NewFakeService()
	stdout, _, code := runCommand(t, &commands.WhoamiCmd{}, testConfig(t), svc)
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "Nick Test\nnicktest@gmail.com\n", stdout)
}

func TestVersionCmd(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.VersionCmd{}, testConfig(t), nil)
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "dotask "+commands.Version+"\n", stdout)
}

func TestThemeCmd(t *testing.T) {
	cfg := testConfig(t)

	stdout, _, code := runCommand(t, &commands.ThemeCmd{}, cfg, nil)
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "system\n", stdout)

	_, _, code = runCommand(t, &commands.ThemeCmd{}, cfg, nil, "dark")
	assert.Equal(t, exitcode.Success, code)

	stdout, _, code = runCommand(t, &commands.ThemeCmd{}, cfg, nil)
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "dark\n", stdout)

	_, stderr, code := runCommand(t, &commands.ThemeCmd{}, cfg, nil, "neon")
	assert.Equal(t, exitcode.UserError, code)
	assert.Contains(t, stderr, "unknown theme")
}

func TestHelpCmd(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.HelpCmd{}, testConfig(t), nil)
	assert.Equal(t, exitcode.Success, code)
	testutil.GoldenString(t, "help", stdout)
}

func TestRegistryFindsAliases(t *testing.T) {
	for name, want := range map[string]string{
		"ls":      "list",
		"create":  "add",
		"delete":  "rm",
		"reopen":  "undone",
		"profile": "whoami",
	} {
		cmd, ok := commands.DefaultRegistry.Find(name)
		require.True(t, ok, "alias %s", name)
		assert.Equal(t, want, cmd.Name())
	}
}
