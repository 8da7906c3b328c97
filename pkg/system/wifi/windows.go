package wifi

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

var _ Adapter = &WindowsAdapter{}

// WindowsAdapter drives netsh. Windows exposes no way to toggle the
// radio from the shell, so this is a degraded capability set: scan and
// association queries only.
type WindowsAdapter struct {
	run runner
}

func NewWindowsAdapter() *WindowsAdapter {
	return &WindowsAdapter{run: runCommand}
}

func (t *WindowsAdapter) SupportsPowerControl() bool { return false }

func (t *WindowsAdapter) GetPowerState() (PowerState, error) {
	return PowerUnknown, nil
}

func (t *WindowsAdapter) SetPowerState(state PowerState) error {
	return ErrPowerControlUnsupported
}

func (t *WindowsAdapter) ScanNetworks(ctx context.Context) ([]ScannedNetwork, error) {
	out, err := t.run(ctx, scanTimeout, "netsh", "wlan", "show", "networks", "mode=bssid")
	if err != nil {
		return nil, err
	}
	return parseNetshNetworks(out), nil
}

func (t *WindowsAdapter) ConnectedSSID(ctx context.Context) (string, error) {
	out, err := t.run(ctx, queryTimeout, "netsh", "wlan", "show", "interfaces")
	if err != nil {
		return "", err
	}
	return parseNetshInterfaces(out), nil
}

var (
	netshSSIDRegex   = regexp.MustCompile(`^SSID \d+\s*:\s*(.*)$`)
	netshSignalRegex = regexp.MustCompile(`^Signal\s*:\s*(\d+)%$`)

	netshIfaceStateRegex = regexp.MustCompile(`^State\s*:\s*(.+)$`)
	netshIfaceSSIDRegex  = regexp.MustCompile(`^SSID\s*:\s*(.+)$`)
)

// parseNetshNetworks reads "netsh wlan show networks mode=bssid" output.
// Signal lines belong to the BSSID blocks under the last SSID header;
// the strongest reading wins here so one netsh run already collapses
// multi-BSSID networks sensibly.
func parseNetshNetworks(output string) []ScannedNetwork {
	var networks []ScannedNetwork
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(strings.TrimRight(line, "\r"))
		if m := netshSSIDRegex.FindStringSubmatch(trimmed); m != nil {
			networks = append(networks, ScannedNetwork{SSID: strings.TrimSpace(m[1])})
			continue
		}
		if m := netshSignalRegex.FindStringSubmatch(trimmed); m != nil && len(networks) > 0 {
			if v, err := strconv.Atoi(m[1]); err == nil {
				last := &networks[len(networks)-1]
				if last.Signal == nil || v > *last.Signal {
					last.Signal = &v
				}
			}
		}
	}
	return networks
}

// parseNetshInterfaces returns the SSID of the first connected wireless
// interface. The State line precedes the SSID line in netsh output.
func parseNetshInterfaces(output string) string {
	connected := false
	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(strings.TrimRight(line, "\r"))
		if m := netshIfaceStateRegex.FindStringSubmatch(trimmed); m != nil {
			connected = strings.EqualFold(strings.TrimSpace(m[1]), "connected")
			continue
		}
		if m := netshIfaceSSIDRegex.FindStringSubmatch(trimmed); m != nil && connected {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
