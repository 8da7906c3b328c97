package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	netwatchd "github.com/netwatch/netwatchd/pkg"
	"github.com/netwatch/netwatchd/pkg/system/wifi"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one guarded wifi scan and print the collated result",
	Run: func(cmd *cobra.Command, args []string) {
		adapter, err := wifi.NewAdapter()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		var raw []wifi.ScannedNetwork
		var connected string
		err = wifi.WithPowerOn(adapter, wifi.DefaultSettleDelay, func() error {
			var err error
			raw, err = adapter.ScanNetworks(context.Background())
			if err != nil {
				return err
			}
			connected, _ = adapter.ConnectedSSID(context.Background())
			return nil
		})
		if err != nil {
			fmt.Printf("Error scanning: %v\n", err)
			os.Exit(1)
		}

		result := netwatchd.CollateScan(raw, connected)
		fmt.Printf("Connected: %s\n", result.Title())
		for _, network := range result.Networks {
			if network.Signal != nil {
				fmt.Printf("  %s (%d)\n", network.SSID, *network.Signal)
			} else {
				fmt.Printf("  %s\n", network.SSID)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
