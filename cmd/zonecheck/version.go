package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/zonecheck"
	"github.com/aretw0/zonecheck/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of zonecheck",
	Run: func(cmd *cobra.Command, args []string) {
		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner(cmd.OutOrStdout(), zonecheck.Version)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "zonecheck version %s\n", strings.TrimSpace(zonecheck.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("banner", false, "Print the banner")
}
