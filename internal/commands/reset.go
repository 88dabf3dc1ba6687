package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"dotask/internal/backend/restapi"
	"dotask/internal/config"
	"dotask/internal/exitcode"
	"dotask/internal/service"
	"dotask/internal/validate"
)

func init() {
	Register(&ResetCmd{})
}

// ResetCmd implements the password reset command.
type ResetCmd struct {
	password  string
	secretKey string
}

func (c *ResetCmd) Name() string      { return "reset" }
func (c *ResetCmd) Aliases() []string { return nil }
func (c *ResetCmd) Synopsis() string  { return "Reset the account password" }
func (c *ResetCmd) Usage() string {
	return "dotask reset [--password <new-password>] [--secret-key <key>] <email>"
}
func (c *ResetCmd) NeedsAuth() bool { return false }

func (c *ResetCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.password, "p", "", "")
	fs.StringVar(&c.secretKey, "secret-key", "", "")
}

func (c *ResetCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: email required")
		return exitcode.UserError
	}
	email := args[0]

	if err := validate.Email(email); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	password := c.password
	if password == "" {
		var err error
		password, err = promptSecret("New password", errOut)
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

	message, err := client.Reset(ctx, email, password, secretKey)
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
