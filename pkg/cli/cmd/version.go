package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X github.com/airwave-net/airwave/pkg/cli/cmd.ctlVersion=x.y.z"
var ctlVersion = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show airwavectl and API server versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "airwavectl version %s\n", ctlVersion)

		status, err := client.Status()
		if err != nil {
			return fmt.Errorf("failed to get API version: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "API server: %s\n", status.Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
