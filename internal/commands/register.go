package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"dotask/internal/backend/restapi"
	"dotask/internal/config"
	"dotask/internal/exitcode"
	"dotask/internal/service"
	"dotask/internal/validate"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	name      string
	password  string
	secretKey string
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return nil }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "dotask register --name <name> [--password <password>] [--secret-key <key>] <email>"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.name, "name", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
	fs.StringVar(&c.secretKey, "secret-key", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}
	email := args[0]

	// Client-side validation happens before any network call.
	if err := validate.Name(strings.TrimSpace(c.name)); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := validate.Email(email); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	password := c.password
	if password == "" {
		var err error
		password, err = promptSecret("Password", errOut)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if err := validate.Password(password); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	secretKey := c.secretKey
	if secretKey == "" {
		var err error
		secretKey, err = promptSecret("Secret key", errOut)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if err := validate.SecretKey(secretKey); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	_, client, err := restapi.Session(cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	}

	message, err := client.Register(ctx, strings.TrimSpace(c.name), email, password, secretKey)
	if err != nil {
		return authFail(errOut, err)
	}

	if !cfg.Quiet {
		if message == "" {
			message = "ok"
		}
		fmt.Fprintln(out, message)
	}
	return exitcode.Success
}
