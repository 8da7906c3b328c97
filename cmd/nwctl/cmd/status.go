package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	netwatchd "github.com/netwatch/netwatchd/pkg"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Run one connectivity probe and print the result",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(netwatchd.NewProber().Check())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
