package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"dotask/internal/api"
	"dotask/internal/config"
	"dotask/internal/exitcode"
	"dotask/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command: a full-field update. Flags left
// unset keep the task's current values; --due none clears the due date.
type EditCmd struct {
	desc    string
	due     string
	flagged string
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "dotask edit [--desc <text>] [--due <when>|none] [--flag true|false] <ref>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.flagged, "flag", "", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: task reference required")
		return exitcode.UserError
	}
	if c.desc == "" && c.due == "" && c.flagged == "" {
		fmt.Fprintln(errOut, "error: nothing to change")
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

	draft := api.TaskDraft{
		Description: task.Description,
		DueAt:       task.DueAt,
		IsFlagged:   task.IsFlagged,
	}

	if c.desc != "" {
		draft.Description = strings.TrimSpace(c.desc)
		if draft.Description == "" {
			fmt.Fprintln(errOut, "error: description required")
			return exitcode.UserError
		}
	}
	if c.due != "" {
		if strings.EqualFold(c.due, "none") {
			draft.DueAt = nil
		} else {
			draft.DueAt, err = parseDue(c.due, time.Now())
			if err != nil {
				fmt.Fprintf(errOut, "error: %v\n", err)
				return exitcode.UserError
			}
		}
	}
	if c.flagged != "" {
		switch strings.ToLower(c.flagged) {
		case "true":
			draft.IsFlagged = true
		case "false":
			draft.IsFlagged = false
		default:
			fmt.Fprintf(errOut, "error: invalid value for --flag: %s\n", c.flagged)
			return exitcode.UserError
		}
	}

	if _, err := store.Update(ctx, task.ID, draft); err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
