package wifi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

const (
	// Quick queries: power state, association.
	queryTimeout = 10 * time.Second
	// Full scans can legitimately take a while on a busy 5GHz band.
	scanTimeout = 45 * time.Second
)

// runner invokes a native tool and returns its stdout. Adapters hold one
// as a field so tests can substitute captured output.
type runner func(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error)

func runCommand(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	err := cmd.Run()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", fmt.Errorf("%s: %w", name, ErrTimeout)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return "", fmt.Errorf("%s: %w", name, ErrCommandUnavailable)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return out.String(), nil
}
