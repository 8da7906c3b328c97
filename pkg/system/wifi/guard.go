package wifi

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultSettleDelay gives a freshly powered-up interface time to
// associate before scanning.
const DefaultSettleDelay = 3 * time.Second

// WithPowerOn runs fn with the wireless interface powered, restoring the
// interface's prior power state on every exit path. The net power-state
// effect of a completed call is zero: an interface found off is off
// again afterwards, whatever fn did or returned. On platforms without
// power control the guard is a pass-through.
func WithPowerOn(adapter Adapter, settle time.Duration, fn func() error) error {
	if !adapter.SupportsPowerControl() {
		return fn()
	}

	state, err := adapter.GetPowerState()
	if err != nil {
		logrus.WithError(err).Debug("wifi power state unreadable, running unguarded")
		return fn()
	}

	if state == PowerOff {
		if err := adapter.SetPowerState(PowerOn); err != nil {
			return fmt.Errorf("enabling wifi for scan: %w", err)
		}
		defer func() {
			if err := adapter.SetPowerState(PowerOff); err != nil {
				// Lasting side effect on the user's interface, shout.
				logrus.WithError(err).Error("failed to restore wifi power state to off")
			}
		}()
		time.Sleep(settle)
	}

	return fn()
}
