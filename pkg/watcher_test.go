package netwatchd

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netwatch/netwatchd/pkg/conductor"
	"github.com/netwatch/netwatchd/pkg/system/wifi"
)

type recordedHeartbeat struct {
	bucketID  string
	event     Event
	pulsetime float64
}

type recordingSink struct {
	mu         sync.Mutex
	heartbeats []recordedHeartbeat
}

func (s *recordingSink) CreateBucket(bucketID string, eventType string) error { return nil }

func (s *recordingSink) Heartbeat(bucketID string, event Event, pulsetime float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.heartbeats = append(s.heartbeats, recordedHeartbeat{bucketID, event, pulsetime})
	return nil
}

func (s *recordingSink) byBucket(bucketID string) []recordedHeartbeat {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []recordedHeartbeat
	for _, hb := range s.heartbeats {
		if hb.bucketID == bucketID {
			out = append(out, hb)
		}
	}
	return out
}

type scriptedAdapter struct {
	networks  []wifi.ScannedNetwork
	connected string
	scanErr   error
	scanDelay time.Duration
}

func (f *scriptedAdapter) GetPowerState() (wifi.PowerState, error) { return wifi.PowerOn, nil }
func (f *scriptedAdapter) SetPowerState(state wifi.PowerState) error { return nil }
func (f *scriptedAdapter) SupportsPowerControl() bool                { return true }

func (f *scriptedAdapter) ScanNetworks(ctx context.Context) ([]wifi.ScannedNetwork, error) {
	time.Sleep(f.scanDelay)
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	return f.networks, nil
}

func (f *scriptedAdapter) ConnectedSSID(ctx context.Context) (string, error) {
	return f.connected, nil
}

func newTestWifiWatcher(sink EventSink, adapter wifi.Adapter, interval time.Duration) *WifiWatcher {
	w := NewWifiWatcher(sink, adapter, "wifi-bucket", interval)
	w.settle = 0
	return w
}

func TestWifiWatcherEmitsCollatedScanEvent(t *testing.T) {
	sink := &recordingSink{}
	adapter := &scriptedAdapter{
		networks: []wifi.ScannedNetwork{
			{SSID: "Home", Signal: signal(-40)},
			{SSID: "Home", Signal: signal(-55)},
			{SSID: "Cafe", Signal: signal(-70)},
		},
		connected: "Home",
	}

	w := newTestWifiWatcher(sink, adapter, time.Hour)
	w.cycle()

	heartbeats := sink.byBucket("wifi-bucket")
	require.Len(t, heartbeats, 1)

	data := heartbeats[0].event.Data
	assert.Equal(t, "Home", data["ssid"])
	assert.Equal(t, "Home", data["title"])
	assert.Equal(t, []string{"Home", "Cafe"}, data["networks"])
	assert.Equal(t, 2*time.Hour.Seconds(), heartbeats[0].pulsetime)
}

func TestWifiWatcherReportsNotConnected(t *testing.T) {
	sink := &recordingSink{}
	adapter := &scriptedAdapter{
		networks: []wifi.ScannedNetwork{{SSID: "Cafe"}},
	}

	w := newTestWifiWatcher(sink, adapter, time.Hour)
	w.cycle()

	heartbeats := sink.byBucket("wifi-bucket")
	require.Len(t, heartbeats, 1)
	assert.Equal(t, "Not connected", heartbeats[0].event.Data["ssid"])
}

func TestWifiWatcherParseErrorEmitsEmptyScan(t *testing.T) {
	sink := &recordingSink{}
	adapter := &scriptedAdapter{
		scanErr: &wifi.ParseError{Tool: "nmcli", Reason: "gibberish"},
	}

	w := newTestWifiWatcher(sink, adapter, time.Hour)
	w.cycle()

	heartbeats := sink.byBucket("wifi-bucket")
	require.Len(t, heartbeats, 1)
	assert.Equal(t, []string{}, heartbeats[0].event.Data["networks"])
	assert.Equal(t, "Not connected", heartbeats[0].event.Data["ssid"])
}

func TestWifiWatcherSkipsCycleWhenToolsUnavailable(t *testing.T) {
	sink := &recordingSink{}
	adapter := &scriptedAdapter{
		scanErr: fmt.Errorf("nmcli: %w", wifi.ErrCommandUnavailable),
	}

	w := newTestWifiWatcher(sink, adapter, time.Hour)
	w.cycle()
	w.cycle()

	assert.Empty(t, sink.heartbeats)
	assert.True(t, w.reportedUnavailable)
}

func TestConnectivityWatcherEmitsOnSchedule(t *testing.T) {
	sink := &recordingSink{}
	w := NewConnectivityWatcher(sink, "conn-bucket", 20*time.Millisecond)
	w.prober = &Prober{Endpoints: []string{closedAddr(t)}, Timeout: 100 * time.Millisecond}

	c := conductor.NewConductor()
	c.Service("Connectivity Watcher", w)
	done := c.Start()

	time.Sleep(150 * time.Millisecond)
	c.Stop()
	<-done

	heartbeats := sink.byBucket("conn-bucket")
	assert.GreaterOrEqual(t, len(heartbeats), 4)
	assert.Equal(t, "offline", heartbeats[0].event.Data["status"])
	assert.Equal(t, 2*(20*time.Millisecond).Seconds(), heartbeats[0].pulsetime)
}

func TestSlowWifiScanDoesNotDelayConnectivity(t *testing.T) {
	sink := &recordingSink{}

	conn := NewConnectivityWatcher(sink, "conn-bucket", 20*time.Millisecond)
	conn.prober = &Prober{Endpoints: []string{closedAddr(t)}, Timeout: 100 * time.Millisecond}

	adapter := &scriptedAdapter{
		networks:  []wifi.ScannedNetwork{{SSID: "Home"}},
		connected: "Home",
		scanDelay: 150 * time.Millisecond,
	}
	wf := newTestWifiWatcher(sink, adapter, 30*time.Millisecond)

	c := conductor.NewConductor()
	c.Service("Connectivity Watcher", conn)
	c.Service("Wifi Watcher", wf)
	done := c.Start()

	time.Sleep(300 * time.Millisecond)
	c.Stop()
	<-done

	// The wifi watcher spent nearly the whole run blocked in its scan;
	// connectivity heartbeats must keep their own cadence regardless.
	assert.GreaterOrEqual(t, len(sink.byBucket("conn-bucket")), 8)
	assert.GreaterOrEqual(t, len(sink.byBucket("wifi-bucket")), 1)
}
