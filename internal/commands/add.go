package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"dotask/internal/api"
	"dotask/internal/config"
	"dotask/internal/exitcode"
	"dotask/internal/service"
	"dotask/internal/taskstore"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	due     string
	flagged bool
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "dotask add [--due <when>] [--flag] <description...>" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.due, "due", "", "")
	fs.BoolVar(&c.flagged, "flag", false, "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	description := strings.TrimSpace(strings.Join(args, " "))
	if description == "" {
		fmt.Fprintln(errOut, "error: description required")
		return exitcode.UserError
	}

	// Due defaults to now, like the creation form.
	now := time.Now()
	due := api.NewTimestamp(now)
	if c.due != "" {
		var err error
		due, err = parseDue(c.due, now)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	store := taskstore.New(svc)
	created, err := store.Create(ctx, api.TaskDraft{
		Description: description,
		DueAt:       due,
		IsFlagged:   c.flagged,
	})
	if err != nil {
		if errors.Is(err, taskstore.ErrEmptyDescription) {
			fmt.Fprintln(errOut, "error: description required")
			return exitcode.UserError
		}
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s\n", created.ID)
	}
	return exitcode.Success
}
