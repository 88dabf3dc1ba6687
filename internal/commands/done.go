package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"dotask/internal/config"
	"dotask/internal/exitcode"
	"dotask/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoneCmd{})
}

// DoneCmd marks a task completed.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "dotask done <ref>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetCompletion(ctx, cfg, svc, args, true, out, errOut)
}

// UndoneCmd reopens a completed task.
type UndoneCmd struct{}

func (c *UndoneCmd) Name() string      { return "undone" }
func (c *UndoneCmd) Aliases() []string { return []string{"reopen"} }
func (c *UndoneCmd) Synopsis() string  { return "Reopen a completed task" }
func (c *UndoneCmd) Usage() string     { return "dotask undone <ref>" }
func (c *UndoneCmd) NeedsAuth() bool   { return true }

func (c *UndoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UndoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetCompletion(ctx, cfg, svc, args, false, out, errOut)
}

// runSetCompletion is the shared implementation for done and undone.
func runSetCompletion(ctx context.Context, cfg *config.Config, svc service.Service, args []string, isComplete bool, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: task reference required")
		return exitcode.UserError
	}

	store, err := loadStore(ctx, svc)
	if err != nil {
		return fail(errOut, err)
	}

	task, err := ResolveTask(store.Tasks(), args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if _, err := store.SetCompletion(ctx, task.ID, isComplete); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
