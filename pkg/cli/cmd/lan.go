package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/airwave-net/airwave/pkg/cli/api"
)

var lanCmd = &cobra.Command{
	Use:   "lan",
	Short: "Manage wireless LANs",
	Long:  "List, inspect, create, and delete wireless LANs.",
}

var lanListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wireless LANs",
	RunE: func(cmd *cobra.Command, args []string) error {
		lans, err := client.ListWirelessLANs()
		if err != nil {
			return fmt.Errorf("failed to list wireless lans: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.Format(lans))
		return nil
	},
}

var lanGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show detailed info for a wireless LAN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := api.ParseID(args[0])
		if err != nil {
			return err
		}
		lan, err := client.GetWirelessLAN(id)
		if err != nil {
			return fmt.Errorf("failed to get wireless lan: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.Format(lan))
		return nil
	},
}

var (
	lanSSID        string
	lanDescription string
	lanVLANID      int64
)

var lanCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a wireless LAN",
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"ssid": lanSSID}
		if lanDescription != "" {
			body["description"] = lanDescription
		}
		if lanVLANID > 0 {
			body["vlan"] = lanVLANID
		}
		lan, err := client.CreateWirelessLAN(body)
		if err != nil {
			return fmt.Errorf("failed to create wireless lan: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.Format(lan))
		return nil
	},
}

var lanDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a wireless LAN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := api.ParseID(args[0])
		if err != nil {
			return err
		}
		if !yesFlag {
			fmt.Fprintf(cmd.OutOrStdout(), "Delete wireless LAN %d? [y/N]: ", id)
			scanner := bufio.NewScanner(os.Stdin)
			scanner.Scan()
			if strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}
		if err := client.DeleteWirelessLAN(id); err != nil {
			return fmt.Errorf("failed to delete wireless lan: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wireless LAN %d deleted.\n", id)
		return nil
	},
}

func init() {
	lanCreateCmd.Flags().StringVar(&lanSSID, "ssid", "", "SSID of the wireless LAN (required)")
	lanCreateCmd.Flags().StringVar(&lanDescription, "description", "", "free-form description")
	lanCreateCmd.Flags().Int64Var(&lanVLANID, "vlan", 0, "ID of the VLAN to attach")
	lanCreateCmd.MarkFlagRequired("ssid")

	lanCmd.AddCommand(lanListCmd)
	lanCmd.AddCommand(lanGetCmd)
	lanCmd.AddCommand(lanCreateCmd)
	lanCmd.AddCommand(lanDeleteCmd)
	rootCmd.AddCommand(lanCmd)
}
