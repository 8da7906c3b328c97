package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netwatchd", "netwatchd.conf")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.PollingInterval)
	assert.Equal(t, 300*time.Second, cfg.WifiScanInterval)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "polling_interval")
	assert.Contains(t, string(content), "wifi_scan_interval")
	assert.Contains(t, string(content), "300")
}

func TestLoadReadsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netwatchd.conf")
	require.NoError(t, os.WriteFile(path, []byte("polling_interval = 10\nwifi_scan_interval = 60\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.PollingInterval)
	assert.Equal(t, 60*time.Second, cfg.WifiScanInterval)
}

func TestLoadKeysAreIndependentlyOptional(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netwatchd.conf")
	require.NoError(t, os.WriteFile(path, []byte("polling_interval = 9\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9*time.Second, cfg.PollingInterval)
	assert.Equal(t, DefaultWifiScanInterval, cfg.WifiScanInterval)
}

func TestLoadClampsTinyIntervals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netwatchd.conf")
	require.NoError(t, os.WriteFile(path, []byte("polling_interval = 0\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.PollingInterval)
}

func TestLoadNonNumericValueFallsBackToDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "netwatchd.conf")
	require.NoError(t, os.WriteFile(path, []byte("polling_interval = soon\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultPollingInterval, cfg.PollingInterval)
}
