package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/airwave-net/airwave/pkg/cli/api"
)

var ifaceCmd = &cobra.Command{
	Use:     "interface",
	Aliases: []string{"iface"},
	Short:   "Manage device interfaces terminating wireless links",
}

var ifaceDevice string

var ifaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List device interfaces",
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			ifaces []api.InterfaceInfo
			err    error
		)
		if ifaceDevice != "" {
			ifaces, err = client.ListInterfacesByDevice(ifaceDevice)
		} else {
			ifaces, err = client.ListInterfaces()
		}
		if err != nil {
			return fmt.Errorf("failed to list interfaces: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.Format(ifaces))
		return nil
	},
}

var (
	ifaceCreateDevice string
	ifaceCreateName   string
)

var ifaceCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a device interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		iface, err := client.CreateInterface(map[string]any{
			"device": ifaceCreateDevice,
			"name":   ifaceCreateName,
		})
		if err != nil {
			return fmt.Errorf("failed to create interface: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.Format(iface))
		return nil
	},
}

var ifaceDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an interface (fails if a wireless link uses it)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := api.ParseID(args[0])
		if err != nil {
			return err
		}
		if !yesFlag {
			fmt.Fprintf(cmd.OutOrStdout(), "Delete interface %d? [y/N]: ", id)
			scanner := bufio.NewScanner(os.Stdin)
			scanner.Scan()
			if strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}
		if err := client.DeleteInterface(id); err != nil {
			return fmt.Errorf("failed to delete interface: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Interface %d deleted.\n", id)
		return nil
	},
}

func init() {
	ifaceListCmd.Flags().StringVar(&ifaceDevice, "device", "", "filter by device name")
	ifaceCreateCmd.Flags().StringVar(&ifaceCreateDevice, "device", "", "device the interface belongs to (required)")
	ifaceCreateCmd.Flags().StringVar(&ifaceCreateName, "name", "", "interface name, e.g. wlan0 (required)")
	ifaceCreateCmd.MarkFlagRequired("device")
	ifaceCreateCmd.MarkFlagRequired("name")

	ifaceCmd.AddCommand(ifaceListCmd)
	ifaceCmd.AddCommand(ifaceCreateCmd)
	ifaceCmd.AddCommand(ifaceDeleteCmd)
	rootCmd.AddCommand(ifaceCmd)
}
