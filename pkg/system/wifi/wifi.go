package wifi

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

// PowerState of the wireless interface.
type PowerState int

const (
	PowerUnknown PowerState = iota
	PowerOn
	PowerOff
)

func (s PowerState) String() string {
	switch s {
	case PowerOn:
		return "on"
	case PowerOff:
		return "off"
	}
	return "unknown"
}

// ScannedNetwork is one raw scan listing entry, before deduplication.
// Signal is in the platform tool's native unit (dBm or percent), higher
// is stronger; nil when the tool reported no reading.
type ScannedNetwork struct {
	SSID   string
	Signal *int
}

// Adapter is the capability surface over the platform's native wireless
// tools. One implementation is selected at process start; all wifi
// interaction goes through command-line tools treated as opaque text.
type Adapter interface {
	GetPowerState() (PowerState, error)
	// SetPowerState is idempotent: setting the current state is a no-op
	// but still success.
	SetPowerState(state PowerState) error
	ScanNetworks(ctx context.Context) ([]ScannedNetwork, error)
	// ConnectedSSID returns "" when the host is not associated.
	ConnectedSSID(ctx context.Context) (string, error)
	// SupportsPowerControl reports whether the platform can toggle
	// interface power at all. Windows cannot: the power guard becomes a
	// pass-through there, it is a capability, not an error.
	SupportsPowerControl() bool
}

var (
	ErrCommandUnavailable      = errors.New("required command not found")
	ErrTimeout                 = errors.New("command timed out")
	ErrPowerControlUnsupported = errors.New("power control not supported on this platform")
	ErrUnsupportedPlatform     = errors.New("no wifi adapter for this platform")
)

// ParseError means a tool produced output we don't recognise. Callers
// treat the cycle's result as empty rather than failing.
type ParseError struct {
	Tool   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected %s output: %s", e.Tool, e.Reason)
}

// NewAdapter selects the adapter for the host OS, once, at startup.
func NewAdapter() (Adapter, error) {
	switch runtime.GOOS {
	case "darwin":
		return NewDarwinAdapter(), nil
	case "linux":
		return NewLinuxAdapter(), nil
	case "windows":
		return NewWindowsAdapter(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, runtime.GOOS)
}
