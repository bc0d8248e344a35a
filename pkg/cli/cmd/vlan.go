package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/airwave-net/airwave/pkg/cli/api"
)

var vlanCmd = &cobra.Command{
	Use:   "vlan",
	Short: "Manage VLANs referenced by wireless LANs",
}

var vlanListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all VLANs",
	RunE: func(cmd *cobra.Command, args []string) error {
		vlans, err := client.ListVLANs()
		if err != nil {
			return fmt.Errorf("failed to list vlans: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.Format(vlans))
		return nil
	},
}

var (
	vlanVID  int
	vlanName string
)

var vlanCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a VLAN",
	RunE: func(cmd *cobra.Command, args []string) error {
		vlan, err := client.CreateVLAN(map[string]any{
			"vid":  vlanVID,
			"name": vlanName,
		})
		if err != nil {
			return fmt.Errorf("failed to create vlan: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.Format(vlan))
		return nil
	},
}

var vlanDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a VLAN (fails if a wireless LAN references it)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := api.ParseID(args[0])
		if err != nil {
			return err
		}
		if !yesFlag {
			fmt.Fprintf(cmd.OutOrStdout(), "Delete VLAN %d? [y/N]: ", id)
			scanner := bufio.NewScanner(os.Stdin)
			scanner.Scan()
			if strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}
		if err := client.DeleteVLAN(id); err != nil {
			return fmt.Errorf("failed to delete vlan: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "VLAN %d deleted.\n", id)
		return nil
	},
}

func init() {
	vlanCreateCmd.Flags().IntVar(&vlanVID, "vid", 0, "802.1Q VLAN ID, 1-4094 (required)")
	vlanCreateCmd.Flags().StringVar(&vlanName, "name", "", "VLAN name (required)")
	vlanCreateCmd.MarkFlagRequired("vid")
	vlanCreateCmd.MarkFlagRequired("name")

	vlanCmd.AddCommand(vlanListCmd)
	vlanCmd.AddCommand(vlanCreateCmd)
	vlanCmd.AddCommand(vlanDeleteCmd)
	rootCmd.AddCommand(vlanCmd)
}
