package wifi

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var _ Adapter = &DarwinAdapter{}

// DarwinAdapter drives the macOS networksetup and system_profiler tools.
type DarwinAdapter struct {
	run    runner
	device string
}

func NewDarwinAdapter() *DarwinAdapter {
	return &DarwinAdapter{run: runCommand}
}

func (t *DarwinAdapter) SupportsPowerControl() bool { return true }

// wifiDevice resolves the Wi-Fi device name (usually en0) once and
// caches it.
func (t *DarwinAdapter) wifiDevice() (string, error) {
	if t.device != "" {
		return t.device, nil
	}
	out, err := t.run(context.Background(), queryTimeout, "networksetup", "-listallhardwareports")
	if err != nil {
		return "", err
	}
	device := parseHardwarePorts(out)
	if device == "" {
		return "", &ParseError{Tool: "networksetup", Reason: "no Wi-Fi hardware port listed"}
	}
	t.device = device
	return device, nil
}

func (t *DarwinAdapter) GetPowerState() (PowerState, error) {
	device, err := t.wifiDevice()
	if err != nil {
		return PowerUnknown, err
	}
	out, err := t.run(context.Background(), queryTimeout, "networksetup", "-getairportpower", device)
	if err != nil {
		return PowerUnknown, err
	}
	return parseAirportPower(out)
}

func (t *DarwinAdapter) SetPowerState(state PowerState) error {
	if state != PowerOn && state != PowerOff {
		return fmt.Errorf("cannot set power state %q", state)
	}
	device, err := t.wifiDevice()
	if err != nil {
		return err
	}
	_, err = t.run(context.Background(), queryTimeout, "networksetup", "-setairportpower", device, state.String())
	return err
}

func (t *DarwinAdapter) ScanNetworks(ctx context.Context) ([]ScannedNetwork, error) {
	out, err := t.run(ctx, scanTimeout, "system_profiler", "SPAirPortDataType")
	if err != nil {
		return nil, err
	}
	_, networks := parseAirportProfile(out)
	return networks, nil
}

func (t *DarwinAdapter) ConnectedSSID(ctx context.Context) (string, error) {
	out, err := t.run(ctx, queryTimeout, "system_profiler", "SPAirPortDataType")
	if err != nil {
		return "", err
	}
	connected, _ := parseAirportProfile(out)
	return connected, nil
}

func parseHardwarePorts(output string) string {
	lines := strings.Split(output, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "Hardware Port: Wi-Fi" {
			continue
		}
		if i+1 < len(lines) {
			device := strings.TrimSpace(lines[i+1])
			if after, ok := strings.CutPrefix(device, "Device: "); ok {
				return after
			}
		}
	}
	return ""
}

func parseAirportPower(output string) (PowerState, error) {
	switch {
	case strings.Contains(output, "): On"):
		return PowerOn, nil
	case strings.Contains(output, "): Off"):
		return PowerOff, nil
	}
	return PowerUnknown, &ParseError{Tool: "networksetup", Reason: "no power state in output"}
}

var signalNoiseRegex = regexp.MustCompile(`Signal / Noise:\s*(-?\d+)\s*dBm`)

// parseAirportProfile walks the indented system_profiler SPAirPortDataType
// listing. Networks are the lines ending in ":" directly under the
// "Current Network Information:" and "Other Local Wi-Fi Networks:"
// headers; the current network is included in the scan list.
func parseAirportProfile(output string) (string, []ScannedNetwork) {
	const (
		sectionNone = iota
		sectionCurrent
		sectionOthers
	)

	var connected string
	var networks []ScannedNetwork
	section := sectionNone
	sectionIndent := 0
	entryIndent := -1

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " "))

		switch trimmed {
		case "Current Network Information:":
			section = sectionCurrent
			sectionIndent = indent
			entryIndent = -1
			continue
		case "Other Local Wi-Fi Networks:":
			section = sectionOthers
			sectionIndent = indent
			entryIndent = -1
			continue
		}

		if section == sectionNone {
			continue
		}
		if indent <= sectionIndent {
			section = sectionNone
			continue
		}

		// Network entries are bare "<ssid>:" lines, key lines are "Key: value".
		if strings.HasSuffix(trimmed, ":") && !strings.Contains(trimmed, ": ") &&
			(entryIndent == -1 || indent == entryIndent) {
			entryIndent = indent
			ssid := strings.TrimSuffix(trimmed, ":")
			if section == sectionCurrent && connected == "" {
				connected = ssid
			}
			networks = append(networks, ScannedNetwork{SSID: ssid})
			continue
		}

		if len(networks) > 0 {
			if m := signalNoiseRegex.FindStringSubmatch(trimmed); m != nil {
				if v, err := strconv.Atoi(m[1]); err == nil {
					last := &networks[len(networks)-1]
					if last.Signal == nil {
						last.Signal = &v
					}
				}
			}
		}
	}

	return connected, networks
}
