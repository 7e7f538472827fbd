// Package command runs external tools with a hard wall-clock budget.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/multierr"

	"netspeed-monitor/internal/domain"
)

// waitDelay bounds how long Run waits for output pipes after the process was
// killed; a grandchild holding stdout open must not extend the budget.
const waitDelay = 250 * time.Millisecond

type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

type ExecRunner struct {
	timeout time.Duration
}

// NewRunner returns a runner that kills the tool once timeout elapses. A zero
// timeout only honours the caller's context.
func NewRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{timeout: timeout}
}

// Run executes name and returns its stdout. Whatever was written before a
// failure is still returned alongside the error.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	switch {
	case errors.Is(err, exec.ErrNotFound):
		return "", fmt.Errorf("%w: %s: %v", domain.ErrToolUnavailable, name, err)

	case ctx.Err() != nil:
		return stdout.String(), fmt.Errorf("%s: %w", name, ctx.Err())

	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		return stdout.String(), fmt.Errorf("%w: %s exceeded %s", domain.ErrToolTimeout, name, r.timeout)
	}

	combined := multierr.Combine(
		domain.ErrToolUnavailable,
		fmt.Errorf("%s: %w", name, err),
	)
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		combined = multierr.Append(combined, errors.New(msg))
	}

	return stdout.String(), combined
}

// Lines splits tool output into trimmed, non-empty lines. Carriage returns
// count as line breaks.
func Lines(out string) []string {
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
