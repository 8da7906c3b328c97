package wifi

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	mdwifi "github.com/mdlayher/wifi"
)

var _ Adapter = &LinuxAdapter{}

// LinuxAdapter prefers NetworkManager's nmcli and falls back to the
// lower-level wireless tools (iwlist, iwgetid) when nmcli is absent or
// errors. A missing primary tool is not fatal, only the fallback failing
// too surfaces an error.
type LinuxAdapter struct {
	run       runner
	ifaceName string
}

func NewLinuxAdapter() *LinuxAdapter {
	return &LinuxAdapter{run: runCommand}
}

func (t *LinuxAdapter) SupportsPowerControl() bool { return true }

func (t *LinuxAdapter) GetPowerState() (PowerState, error) {
	out, err := t.run(context.Background(), queryTimeout, "nmcli", "radio", "wifi")
	if err != nil {
		return PowerUnknown, err
	}
	switch strings.TrimSpace(out) {
	case "enabled":
		return PowerOn, nil
	case "disabled":
		return PowerOff, nil
	}
	return PowerUnknown, &ParseError{Tool: "nmcli", Reason: "unrecognised radio state"}
}

func (t *LinuxAdapter) SetPowerState(state PowerState) error {
	if state != PowerOn && state != PowerOff {
		return fmt.Errorf("cannot set power state %q", state)
	}
	_, err := t.run(context.Background(), queryTimeout, "nmcli", "radio", "wifi", state.String())
	return err
}

func (t *LinuxAdapter) ScanNetworks(ctx context.Context) ([]ScannedNetwork, error) {
	out, err := t.run(ctx, scanTimeout, "nmcli", "-t", "-f", "SSID,SIGNAL", "device", "wifi", "list", "--rescan", "yes")
	if err == nil {
		return parseNmcliList(out)
	}

	iface := t.wifiInterface()
	fallbackOut, fallbackErr := t.run(ctx, scanTimeout, "iwlist", iface, "scan")
	if fallbackErr != nil {
		return nil, fmt.Errorf("scan failed: nmcli (%v), iwlist (%w)", err, fallbackErr)
	}
	return parseIwlist(fallbackOut), nil
}

func (t *LinuxAdapter) ConnectedSSID(ctx context.Context) (string, error) {
	out, err := t.run(ctx, queryTimeout, "nmcli", "-t", "-f", "ACTIVE,SSID", "device", "wifi")
	if err == nil {
		return parseNmcliActive(out), nil
	}

	fallbackOut, fallbackErr := t.run(ctx, queryTimeout, "iwgetid", "-r")
	if fallbackErr != nil {
		// iwgetid exits non-zero when not associated.
		var exitErr *exec.ExitError
		if errors.As(fallbackErr, &exitErr) {
			return "", nil
		}
		return "", fmt.Errorf("association query failed: nmcli (%v), iwgetid (%w)", err, fallbackErr)
	}
	return strings.TrimSpace(fallbackOut), nil
}

// wifiInterface discovers the wireless interface name for iwlist, via
// netlink first and sysfs second.
func (t *LinuxAdapter) wifiInterface() string {
	if t.ifaceName != "" {
		return t.ifaceName
	}
	if client, err := mdwifi.New(); err == nil {
		defer client.Close()
		if ifaces, err := client.Interfaces(); err == nil {
			for _, ifi := range ifaces {
				if ifi.Name != "" {
					t.ifaceName = ifi.Name
					return t.ifaceName
				}
			}
		}
	}
	if entries, err := os.ReadDir("/sys/class/net"); err == nil {
		for _, entry := range entries {
			if _, err := os.Stat(filepath.Join("/sys/class/net", entry.Name(), "wireless")); err == nil {
				t.ifaceName = entry.Name()
				return t.ifaceName
			}
		}
	}
	return "wlan0"
}

// parseNmcliList parses terse "SSID:SIGNAL" lines. nmcli escapes colons
// and backslashes inside field values, so we split at the last colon.
func parseNmcliList(output string) ([]ScannedNetwork, error) {
	var networks []ScannedNetwork
	lines := strings.Split(strings.TrimSpace(output), "\n")
	parsedAny := false
	for _, line := range lines {
		if line == "" {
			continue
		}
		idx := strings.LastIndex(line, ":")
		if idx < 0 {
			continue
		}
		parsedAny = true
		network := ScannedNetwork{SSID: unescapeNmcli(line[:idx])}
		if raw := line[idx+1:]; raw != "" {
			if v, err := strconv.Atoi(raw); err == nil {
				network.Signal = &v
			}
		}
		networks = append(networks, network)
	}
	if !parsedAny && strings.TrimSpace(output) != "" {
		return nil, &ParseError{Tool: "nmcli", Reason: "no SSID:SIGNAL lines in listing"}
	}
	return networks, nil
}

// parseNmcliActive parses terse "ACTIVE:SSID" lines and returns the
// active SSID, or "" when nothing is associated.
func parseNmcliActive(output string) string {
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		if line[:idx] == "yes" {
			return unescapeNmcli(line[idx+1:])
		}
	}
	return ""
}

func unescapeNmcli(value string) string {
	var b strings.Builder
	escaped := false
	for _, r := range value {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

var (
	essidRegex       = regexp.MustCompile(`ESSID:"(.*?)"`)
	signalLevelRegex = regexp.MustCompile(`Signal level=(-?\d+) dBm`)
)

func parseIwlist(output string) []ScannedNetwork {
	var networks []ScannedNetwork
	cells := strings.Split(output, "Cell ")
	for _, cell := range cells[1:] {
		ssid := essidRegex.FindStringSubmatch(cell)
		if ssid == nil {
			continue
		}
		network := ScannedNetwork{SSID: ssid[1]}
		if m := signalLevelRegex.FindStringSubmatch(cell); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				network.Signal = &v
			}
		}
		networks = append(networks, network)
	}
	return networks
}
