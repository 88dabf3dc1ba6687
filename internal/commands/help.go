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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "dotask help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  dotask                                             List tasks with progress
  dotask list [common flags] [--open | --done] [--flagged]
  dotask add [common flags] [--due <when>] [--flag] <description...>
  dotask edit [common flags] [--desc <text>] [--due <when>|none] [--flag true|false] <ref>
  dotask done [common flags] <ref>
  dotask undone [common flags] <ref>
  dotask flag [common flags] <ref>
  dotask unflag [common flags] <ref>
  dotask rm [common flags] <ref>
  dotask login [common flags] [--password <password>] <email>
  dotask register [common flags] --name <name> <email>
  dotask reset [common flags] <email>
  dotask logout [common flags]
  dotask whoami [common flags]
  dotask theme [light|dark|system]
  dotask help
  dotask version

A <ref> is the task's number as printed by list, or an id prefix.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
