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
	Register(&FlagCmd{})
	Register(&UnflagCmd{})
}

// FlagCmd flags a task.
type FlagCmd struct{}

func (c *FlagCmd) Name() string      { return "flag" }
func (c *FlagCmd) Aliases() []string { return nil }
func (c *FlagCmd) Synopsis() string  { return "Flag a task" }
func (c *FlagCmd) Usage() string     { return "dotask flag <ref>" }
func (c *FlagCmd) NeedsAuth() bool   { return true }

func (c *FlagCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *FlagCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetFlagged(ctx, cfg, svc, args, true, out, errOut)
}

// UnflagCmd removes the flag from a task.
type UnflagCmd struct{}

func (c *UnflagCmd) Name() string      { return "unflag" }
func (c *UnflagCmd) Aliases() []string { return nil }
func (c *UnflagCmd) Synopsis() string  { return "Remove the flag from a task" }
func (c *UnflagCmd) Usage() string     { return "dotask unflag <ref>" }
func (c *UnflagCmd) NeedsAuth() bool   { return true }

func (c *UnflagCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UnflagCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runSetFlagged(ctx, cfg, svc, args, false, out, errOut)
}

// runSetFlagged is the shared implementation for flag and unflag.
func runSetFlagged(ctx context.Context, cfg *config.Config, svc service.Service, args []string, isFlagged bool, out, errOut io.Writer) int {
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

	if _, err := store.SetFlagged(ctx, task.ID, isFlagged); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
