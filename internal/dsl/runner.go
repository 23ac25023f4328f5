// Package dsl wraps the external dsl command-line tool behind a narrow
// interface. The tool is a black box: it owns the datasheet mutation and
// the client sync, signals success solely through its exit status, and its
// textual output is passed through to the operator untouched.
package dsl

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result captures one finished tool invocation.
type Result struct {
	// ExitCode is the process exit status; zero means success. Negative
	// when the process could not be started or was killed.
	ExitCode int

	// Stdout and Stderr hold the captured, whitespace-trimmed streams.
	Stdout string
	Stderr string
}

// OK reports whether the invocation succeeded.
func (r Result) OK() bool { return r.ExitCode == 0 }

// ErrorText returns the diagnostic for a failed invocation: stderr when
// present, else stdout, else a placeholder. The tool's own message is
// authoritative; nothing here re-interprets it.
func (r Result) ErrorText() string {
	if r.Stderr != "" {
		return r.Stderr
	}
	if r.Stdout != "" {
		return r.Stdout
	}
	return "Unknown error"
}

// Runner executes one external command and reports its outcome. The single
// production implementation is ExecRunner; tests substitute a scripted
// fake so no real process is spawned.
type Runner interface {
	Run(ctx context.Context, name string, args []string) Result
}

// ExecRunner runs commands as real subprocesses.
type ExecRunner struct {
	// Dir is the working directory for every invocation (the project
	// root, so spec paths can be passed relative to it).
	Dir string

	// Timeout bounds each invocation; zero means unbounded. On expiry
	// the process is killed and the invocation reports failure.
	Timeout time.Duration
}

// Run blocks until the command exits, the timeout expires, or ctx is
// cancelled.
func (e *ExecRunner) Run(ctx context.Context, name string, args []string) Result {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = e.Dir
	// Don't let output pipes inherited by grandchildren hold Wait open
	// after the process itself is killed.
	cmd.WaitDelay = time.Second

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		result.ExitCode = -1
		result.Stderr = fmt.Sprintf("timed out after %s", e.Timeout)
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// Startup failure (missing binary, permissions).
			result.ExitCode = -1
			if result.Stderr == "" {
				result.Stderr = err.Error()
			}
		}
	}
	return result
}
