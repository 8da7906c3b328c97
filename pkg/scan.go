package netwatchd

import (
	"strings"

	"github.com/netwatch/netwatchd/pkg/system/wifi"
)

// CollateScan turns a raw platform scan listing into a deduplicated
// WifiScanResult. Platform tools report the same network once per
// frequency band; entries collapse on the trimmed SSID (case-sensitive)
// keeping the strongest signal reading, first-seen otherwise. SSID-less
// entries are dropped. The association query is trusted over the scan
// list: a connected SSID missing from the listing is still reported.
func CollateScan(raw []wifi.ScannedNetwork, connected string) WifiScanResult {
	result := WifiScanResult{ConnectedSSID: strings.TrimSpace(connected)}

	index := map[string]int{}
	for _, entry := range raw {
		ssid := strings.TrimSpace(entry.SSID)
		if ssid == "" {
			continue
		}
		if i, ok := index[ssid]; ok {
			seen := &result.Networks[i]
			if entry.Signal != nil && (seen.Signal == nil || *entry.Signal > *seen.Signal) {
				seen.Signal = entry.Signal
			}
			continue
		}
		index[ssid] = len(result.Networks)
		result.Networks = append(result.Networks, WifiNetwork{SSID: ssid, Signal: entry.Signal})
	}

	return result
}
