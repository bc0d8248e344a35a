package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server object counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := client.Status()
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.Format(status))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
