package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/airwave-net/airwave/pkg/cli/api"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Manage wireless links",
	Long:  "List, inspect, create, and delete point-to-point wireless links.",
}

var linkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all wireless links",
	RunE: func(cmd *cobra.Command, args []string) error {
		links, err := client.ListWirelessLinks()
		if err != nil {
			return fmt.Errorf("failed to list wireless links: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.Format(links))
		return nil
	},
}

var linkGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show detailed info for a wireless link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := api.ParseID(args[0])
		if err != nil {
			return err
		}
		link, err := client.GetWirelessLink(id)
		if err != nil {
			return fmt.Errorf("failed to get wireless link: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.Format(link))
		return nil
	},
}

var (
	linkInterfaceA  int64
	linkInterfaceB  int64
	linkSSID        string
	linkDescription string
)

var linkCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a wireless link between two interfaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{
			"interface_a": linkInterfaceA,
			"interface_b": linkInterfaceB,
		}
		if linkSSID != "" {
			body["ssid"] = linkSSID
		}
		if linkDescription != "" {
			body["description"] = linkDescription
		}
		link, err := client.CreateWirelessLink(body)
		if err != nil {
			return fmt.Errorf("failed to create wireless link: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.Format(link))
		return nil
	},
}

var linkDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a wireless link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := api.ParseID(args[0])
		if err != nil {
			return err
		}
		if !yesFlag {
			fmt.Fprintf(cmd.OutOrStdout(), "Delete wireless link %d? [y/N]: ", id)
			scanner := bufio.NewScanner(os.Stdin)
			scanner.Scan()
			if strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}
		if err := client.DeleteWirelessLink(id); err != nil {
			return fmt.Errorf("failed to delete wireless link: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wireless link %d deleted.\n", id)
		return nil
	},
}

func init() {
	linkCreateCmd.Flags().Int64Var(&linkInterfaceA, "interface-a", 0, "ID of the A-side interface (required)")
	linkCreateCmd.Flags().Int64Var(&linkInterfaceB, "interface-b", 0, "ID of the B-side interface (required)")
	linkCreateCmd.Flags().StringVar(&linkSSID, "ssid", "", "SSID used on the link")
	linkCreateCmd.Flags().StringVar(&linkDescription, "description", "", "free-form description")
	linkCreateCmd.MarkFlagRequired("interface-a")
	linkCreateCmd.MarkFlagRequired("interface-b")

	linkCmd.AddCommand(linkListCmd)
	linkCmd.AddCommand(linkGetCmd)
	linkCmd.AddCommand(linkCreateCmd)
	linkCmd.AddCommand(linkDeleteCmd)
	rootCmd.AddCommand(linkCmd)
}
