// Package engine wraps the external audio processors. The two engines,
// sox for characterful effects and ffmpeg for corrective mastering, are
// consumed as opaque processes: a command in, a transformed file or an
// error out.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrToolUnavailable marks a missing external binary. Callers with a
// fallback strategy test for it with errors.Is.
var ErrToolUnavailable = errors.New("external tool unavailable")

// ProcessError reports a non-zero exit from an external engine.
type ProcessError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed (exit %d): %s", e.Tool, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s failed (exit %d)", e.Tool, e.ExitCode)
}

func (e *ProcessError) Unwrap() error { return e.Cause }

// Result holds the captured output of one invocation.
type Result struct {
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner executes external commands with context support. Cancelling the
// context kills the process.
type Runner struct{}

// Run executes bin with args and captures output. There is no fixed
// timeout; long audio files take as long as they take, and the caller's
// context is the only cutoff.
func (r *Runner) Run(ctx context.Context, bin string, args ...string) (*Result, error) {
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrToolUnavailable, bin)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		// Surface cancellation as such, not as a tool failure.
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return res, &ProcessError{Tool: bin, ExitCode: exitErr.ExitCode(), Stderr: tail(res.Stderr), Cause: err}
		}
		return res, fmt.Errorf("running %s: %w", bin, err)
	}
	return res, nil
}

// Available reports whether bin resolves on PATH.
func (r *Runner) Available(bin string) bool {
	_, err := exec.LookPath(bin)
	return err == nil
}

// tail keeps stderr in error messages readable.
func tail(s string) string {
	const max = 400
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
