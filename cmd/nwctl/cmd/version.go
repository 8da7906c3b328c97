package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netwatch/netwatchd/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out, _ := json.MarshalIndent(version.GetRelease(), "", "  ")
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
