package netwatchd

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/host"
)

type ServerConfig struct {
	Host       string
	Port       int
	ConfigPath string
	Verbose    bool
}

// ConnectivityStatus is the outcome of a single connectivity probe cycle.
type ConnectivityStatus string

const (
	StatusOnline  ConnectivityStatus = "online"
	StatusOffline ConnectivityStatus = "offline"
)

// WifiNetwork is one visible network after deduplication. Signal is in
// whatever unit the platform tool reports (dBm or percent), higher is
// stronger; nil when the tool reported no reading.
type WifiNetwork struct {
	SSID   string
	Signal *int
}

// WifiScanResult is the collated outcome of one scan cycle.
// ConnectedSSID is empty when the host is not associated.
type WifiScanResult struct {
	Networks      []WifiNetwork
	ConnectedSSID string
}

// Title is the display title for the scan's event: the connected SSID,
// or the literal "Not connected".
func (r WifiScanResult) Title() string {
	if r.ConnectedSSID == "" {
		return "Not connected"
	}
	return r.ConnectedSSID
}

// SSIDs returns the deduplicated network names in first-seen order.
// Never nil, so it serialises as [] rather than null.
func (r WifiScanResult) SSIDs() []string {
	ssids := []string{}
	for _, n := range r.Networks {
		ssids = append(ssids, n.SSID)
	}
	return ssids
}

// Event matches the ActivityWatch heartbeat wire format. Duration is in
// seconds.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Duration  float64        `json:"duration"`
	Data      map[string]any `json:"data"`
}

// EventSink is where watchers deliver their per-cycle events. Implementations
// must be safe for concurrent use, both watchers emit at overlapping times.
type EventSink interface {
	CreateBucket(bucketID string, eventType string) error
	Heartbeat(bucketID string, event Event, pulsetime float64) error
}

const (
	ConnectivityBucketPrefix = "aw-watcher-network"
	WifiBucketPrefix         = "aw-watcher-wifi"

	ConnectivityEventType = "network-status"
	WifiEventType         = "wifi-status"
)

// Hostname resolves the local host name used to namespace bucket IDs so
// multiple devices don't collide in a shared event store.
func Hostname() string {
	if info, err := host.Info(); err == nil && info.Hostname != "" {
		return info.Hostname
	}
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}
