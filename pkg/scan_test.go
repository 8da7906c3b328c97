package netwatchd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netwatch/netwatchd/pkg/system/wifi"
)

func signal(v int) *int { return &v }

func TestCollateScanDeduplicatesKeepingStrongestSignal(t *testing.T) {
	raw := []wifi.ScannedNetwork{
		{SSID: "Home", Signal: signal(-40)},
		{SSID: "Home", Signal: signal(-55)},
		{SSID: "Cafe", Signal: signal(-70)},
	}

	result := CollateScan(raw, "Home")

	assert.Equal(t, []string{"Home", "Cafe"}, result.SSIDs())
	require.NotNil(t, result.Networks[0].Signal)
	assert.Equal(t, -40, *result.Networks[0].Signal)
	assert.Equal(t, "Home", result.Title())
}

func TestCollateScanNotConnected(t *testing.T) {
	result := CollateScan(nil, "")

	assert.Equal(t, "Not connected", result.Title())
	assert.Equal(t, []string{}, result.SSIDs())
}

func TestCollateScanTrimsAndDropsEmptySSIDs(t *testing.T) {
	raw := []wifi.ScannedNetwork{
		{SSID: "  Home  "},
		{SSID: ""},
		{SSID: "   "},
		{SSID: "Home"},
	}

	result := CollateScan(raw, "")

	assert.Equal(t, []string{"Home"}, result.SSIDs())
}

func TestCollateScanIsCaseSensitive(t *testing.T) {
	raw := []wifi.ScannedNetwork{
		{SSID: "Home"},
		{SSID: "home"},
	}

	result := CollateScan(raw, "")

	assert.Equal(t, []string{"Home", "home"}, result.SSIDs())
}

func TestCollateScanKeepsFirstWhenNoSignalReadings(t *testing.T) {
	raw := []wifi.ScannedNetwork{
		{SSID: "Home"},
		{SSID: "Home"},
	}

	result := CollateScan(raw, "")

	require.Len(t, result.Networks, 1)
	assert.Nil(t, result.Networks[0].Signal)
}

func TestCollateScanUpgradesMissingSignal(t *testing.T) {
	raw := []wifi.ScannedNetwork{
		{SSID: "Home"},
		{SSID: "Home", Signal: signal(-60)},
	}

	result := CollateScan(raw, "")

	require.Len(t, result.Networks, 1)
	require.NotNil(t, result.Networks[0].Signal)
	assert.Equal(t, -60, *result.Networks[0].Signal)
}

func TestCollateScanTrustsAssociationOverScanList(t *testing.T) {
	raw := []wifi.ScannedNetwork{
		{SSID: "Cafe", Signal: signal(-70)},
	}

	// Race: associated network missing from the listing.
	result := CollateScan(raw, "Home")

	assert.Equal(t, "Home", result.Title())
	assert.Equal(t, []string{"Cafe"}, result.SSIDs())
}
