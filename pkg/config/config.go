package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

const (
	DefaultPollingInterval  = 5 * time.Second
	DefaultWifiScanInterval = 300 * time.Second

	// Anything below this makes the native tools the bottleneck.
	minInterval = time.Second
)

// Config holds the watcher intervals. Loaded once at startup, immutable
// for the process lifetime.
type Config struct {
	PollingInterval  time.Duration
	WifiScanInterval time.Duration
}

func Default() Config {
	return Config{
		PollingInterval:  DefaultPollingInterval,
		WifiScanInterval: DefaultWifiScanInterval,
	}
}

// DefaultPath is the per-user config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user config dir: %w", err)
	}
	return filepath.Join(dir, "netwatchd", "netwatchd.conf"), nil
}

// Load reads the key-value config file at path, creating it with the
// documented defaults when it doesn't exist. Both keys are optional
// independently. A file that cannot be parsed is left untouched and the
// defaults are returned along with the error, the caller decides how
// loudly to complain.
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := writeDefaults(path); err != nil {
			return Default(), fmt.Errorf("creating default config: %w", err)
		}
		logrus.WithField("path", path).Info("created default config file")
	}

	file, err := ini.Load(path)
	if err != nil {
		return Default(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	section := file.Section("")
	cfg := Config{
		PollingInterval:  clamp("polling_interval", secondsKey(section, "polling_interval", DefaultPollingInterval)),
		WifiScanInterval: clamp("wifi_scan_interval", secondsKey(section, "wifi_scan_interval", DefaultWifiScanInterval)),
	}
	return cfg, nil
}

func secondsKey(section *ini.Section, name string, fallback time.Duration) time.Duration {
	if !section.HasKey(name) {
		return fallback
	}
	value, err := section.Key(name).Int()
	if err != nil {
		logrus.WithField("key", name).Warnf("ignoring non-numeric config value: %v", err)
		return fallback
	}
	return time.Duration(value) * time.Second
}

func clamp(name string, interval time.Duration) time.Duration {
	if interval < minInterval {
		logrus.Warnf("config %s below %s, using %s", name, minInterval, minInterval)
		return minInterval
	}
	return interval
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file := ini.Empty()
	section := file.Section("")
	section.Key("polling_interval").SetValue(fmt.Sprintf("%d", int(DefaultPollingInterval.Seconds())))
	section.Key("polling_interval").Comment = "Seconds between connectivity probes"
	section.Key("wifi_scan_interval").SetValue(fmt.Sprintf("%d", int(DefaultWifiScanInterval.Seconds())))
	section.Key("wifi_scan_interval").Comment = "Seconds between wifi scans"
	return file.SaveTo(path)
}
