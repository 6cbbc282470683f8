// Package execx spawns external tool processes and reports their exit status.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// maxStderrBytes caps the amount of stderr retained for error reporting.
const maxStderrBytes = 64 * 1024

// Command describes one external tool invocation.
type Command struct {
	Name string   // program to run, resolved via PATH unless absolute
	Args []string // arguments, one per element
	Dir  string   // working directory; empty means inherit
	Env  []string // extra KEY=VALUE entries appended to the parent environment
}

// String renders the invocation for logs and error messages.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Error reports a command that ran to completion with a non-zero status.
type Error struct {
	Cmd      Command
	ExitCode int
	Stderr   string // trailing stderr output, capped at 64KB
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: exit code %d", e.Cmd.String(), e.ExitCode)
}

// Runner executes external commands. The production implementation spawns
// real processes; tests substitute a recording fake.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExecRunner implements Runner via os/exec. Stdout and stderr stream to the
// configured writers while a capped copy of stderr is retained for errors.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (r *ExecRunner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *ExecRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// Run spawns the command and blocks until it exits. A non-zero exit status is
// returned as *Error; failure to start at all is returned as a wrapped error.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var captured bytes.Buffer
	cmd.Stdout = r.stdout()
	cmd.Stderr = io.MultiWriter(r.stderr(), &cappedWriter{buf: &captured})

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Error{
				Cmd:      c,
				ExitCode: exitErr.ExitCode(),
				Stderr:   captured.String(),
			}
		}
		return fmt.Errorf("run %s: %w", c.Name, err)
	}
	return nil
}

// cappedWriter absorbs writes up to maxStderrBytes and discards the rest.
type cappedWriter struct {
	buf *bytes.Buffer
}

func (w *cappedWriter) Write(p []byte) (int, error) {
	remaining := maxStderrBytes - w.buf.Len()
	if remaining > 0 {
		if len(p) > remaining {
			w.buf.Write(p[:remaining])
		} else {
			w.buf.Write(p)
		}
	}
	return len(p), nil
}
