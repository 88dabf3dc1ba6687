package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"dotask/internal/api"
	"dotask/internal/exitcode"
	"dotask/internal/service"
	"dotask/internal/taskstore"
)

// fail prints err in the error taxonomy and picks the exit code:
// session loss is an auth error, transport failures and server
// rejections are backend errors. Server messages are shown verbatim.
func fail(errOut io.Writer, err error) int {
	switch {
	case api.IsUnauthorized(err):
		fmt.Fprintln(errOut, "error: session expired (run: dotask login)")
		return exitcode.AuthError
	case api.IsNetwork(err):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
}

// authFail is the failure mapping for the auth commands, where a 401
// means rejected credentials rather than an expired session. The
// server's message is shown verbatim when present.
func authFail(errOut io.Writer, err error) int {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(errOut, "error: %s\n", apiErr.Error())
		return exitcode.AuthError
	}
	if api.IsNetwork(err) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.AuthError
}

// loadStore builds a task store over svc and loads it.
func loadStore(ctx context.Context, svc service.Service) (*taskstore.Store, error) {
	store := taskstore.New(svc)
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

// promptSecret reads a secret from the terminal without echo. When
// stdin is not a terminal (tests, pipes) it falls back to reading a
// line.
func promptSecret(label string, errOut io.Writer) (string, error) {
	fmt.Fprintf(errOut, "%s: ", label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(errOut)
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
