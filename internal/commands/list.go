package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"dotask/internal/api"
	"dotask/internal/config"
	"dotask/internal/exitcode"
	"dotask/internal/output"
	"dotask/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command: progress summary plus the task
// list in due-date order.
type ListCmd struct {
	open    bool
	done    bool
	flagged bool
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks with progress" }
func (c *ListCmd) Usage() string     { return "dotask list [--open | --done] [--flagged]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.open, "open", false, "")
	fs.BoolVar(&c.done, "done", false, "")
	fs.BoolVar(&c.flagged, "flagged", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.open && c.done {
		fmt.Fprintln(errOut, "error: cannot use both --open and --done")
		return exitcode.UserError
	}

	store, err := loadStore(ctx, svc)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		if user, ok := store.User(); ok && user.Name != "" {
			fmt.Fprintln(out, user.Name)
		}
		output.FormatStats(out, store.Stats())
	}

	now := time.Now()
	for i, task := range store.Tasks() {
		if !c.keep(task) {
			continue
		}
		output.FormatTask(out, i+1, task, now)
	}
	return exitcode.Success
}

// keep applies the filter flags. Numbers always refer to the unfiltered
// list so references stay stable across filters.
func (c *ListCmd) keep(task api.Task) bool {
	if c.open && task.IsComplete {
		return false
	}
	if c.done && !task.IsComplete {
		return false
	}
	if c.flagged && !task.IsFlagged {
		return false
	}
	return true
}
