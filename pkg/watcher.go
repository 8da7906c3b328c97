package netwatchd

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/netwatch/netwatchd/pkg/system/wifi"
)

/* The two watchers are conductor services on independent timers. Each
 * cycle emits exactly one event to the sink; a cycle that errors logs
 * and waits for the next tick. Neither loop ever blocks the other.
 */

type ConnectivityWatcher struct {
	sink     EventSink
	prober   *Prober
	bucketID string
	interval time.Duration
}

func NewConnectivityWatcher(sink EventSink, bucketID string, interval time.Duration) *ConnectivityWatcher {
	return &ConnectivityWatcher{
		sink:     sink,
		prober:   NewProber(),
		bucketID: bucketID,
		interval: interval,
	}
}

func (t *ConnectivityWatcher) Run(started, stopped chan bool, stop chan context.Context) error {
	go func() {
		// Zero timer fires the first probe immediately.
		timer := time.NewTimer(0)
		defer timer.Stop()
		started <- true
	mainloop:
		for {
			select {
			case <-stop:
				break mainloop
			case <-timer.C:
				t.cycle()
				timer.Reset(t.interval)
			}
		}
		stopped <- true
	}()
	return nil
}

func (t *ConnectivityWatcher) cycle() {
	status := t.prober.Check()
	event := Event{
		Timestamp: time.Now().UTC(),
		Data: map[string]any{
			"status": string(status),
			"title":  string(status),
		},
	}
	if err := t.sink.Heartbeat(t.bucketID, event, 2*t.interval.Seconds()); err != nil {
		logrus.WithError(err).Warn("failed to send connectivity heartbeat")
		return
	}
	logrus.WithField("status", status).Debug("sent connectivity heartbeat")
}

type WifiWatcher struct {
	sink     EventSink
	adapter  wifi.Adapter
	bucketID string
	interval time.Duration
	settle   time.Duration

	// Latch so a permanently missing scan tool is logged once, not
	// every cycle.
	reportedUnavailable bool
}

func NewWifiWatcher(sink EventSink, adapter wifi.Adapter, bucketID string, interval time.Duration) *WifiWatcher {
	return &WifiWatcher{
		sink:     sink,
		adapter:  adapter,
		bucketID: bucketID,
		interval: interval,
		settle:   wifi.DefaultSettleDelay,
	}
}

func (t *WifiWatcher) Run(started, stopped chan bool, stop chan context.Context) error {
	go func() {
		timer := time.NewTimer(0)
		defer timer.Stop()
		started <- true
	mainloop:
		for {
			select {
			case <-stop:
				// A cycle in flight has already finished: cycles run
				// synchronously in this loop, so the power guard's
				// restore is done before we confirm shutdown.
				break mainloop
			case <-timer.C:
				t.cycle()
				timer.Reset(t.interval)
			}
		}
		stopped <- true
	}()
	return nil
}

func (t *WifiWatcher) cycle() {
	ctx := context.Background()

	var raw []wifi.ScannedNetwork
	var connected string
	err := wifi.WithPowerOn(t.adapter, t.settle, func() error {
		var err error
		raw, err = t.adapter.ScanNetworks(ctx)
		if err != nil {
			return err
		}
		connected, err = t.adapter.ConnectedSSID(ctx)
		if err != nil {
			// Scan list is still worth reporting without the association.
			logrus.WithError(err).Debug("could not determine connected ssid")
			connected = ""
		}
		return nil
	})

	if err != nil {
		var parseErr *wifi.ParseError
		switch {
		case errors.Is(err, wifi.ErrCommandUnavailable):
			if !t.reportedUnavailable {
				logrus.WithError(err).Warn("wifi scan tools unavailable, skipping wifi cycles")
				t.reportedUnavailable = true
			}
			return
		case errors.As(err, &parseErr):
			logrus.WithError(err).Warn("unexpected wifi tool output, reporting empty scan")
			raw = nil
		default:
			logrus.WithError(err).Warn("wifi scan failed")
			return
		}
	} else {
		t.reportedUnavailable = false
	}

	result := CollateScan(raw, connected)
	event := Event{
		Timestamp: time.Now().UTC(),
		Data: map[string]any{
			"ssid":     result.Title(),
			"networks": result.SSIDs(),
			"title":    result.Title(),
		},
	}
	if err := t.sink.Heartbeat(t.bucketID, event, 2*t.interval.Seconds()); err != nil {
		logrus.WithError(err).Warn("failed to send wifi heartbeat")
		return
	}
	logrus.WithFields(logrus.Fields{
		"ssid":     result.Title(),
		"networks": len(result.Networks),
	}).Debug("sent wifi heartbeat")
}
