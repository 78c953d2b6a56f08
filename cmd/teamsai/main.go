package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

func main() {
	exitCode := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// run is the main entry point for the CLI, separated for testing
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err == nil {
		return ExitCodeSuccess
	}

	var cliErr *cliError
	if errors.As(err, &cliErr) {
		fmt.Fprint(stderr, cliErr.Error()+FmtNewline)
		return cliErr.code
	}

	// Anything else came from cobra: unknown commands and bad flags
	if strings.Contains(err.Error(), ErrMsgUnknownCommand) {
		fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgUnknownCommand, strings.Join(args, " "))
	} else {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgUsage, err)
	}
	return ExitCodeUsageError
}

// cliError carries the exit code for a failed command.
type cliError struct {
	code int
	msg  string
	err  error
}

func newCLIError(code int, msg string, err error) *cliError {
	return &cliError{code: code, msg: msg, err: err}
}

func (e *cliError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *cliError) Unwrap() error { return e.err }
