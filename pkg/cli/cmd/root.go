package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/airwave-net/airwave/pkg/cli/api"
	"github.com/airwave-net/airwave/pkg/cli/output"
	"github.com/airwave-net/airwave/pkg/config"
)

var (
	// Global flags
	cfgFile      string
	outputFormat string
	serverURL    string
	authToken    string
	yesFlag      bool // --yes: skip confirmation prompts for destructive operations

	// Shared state set during PersistentPreRun
	cfg       *config.Config
	client    api.APIClient
	formatter output.Formatter
)

// rootCmd is the base command for airwavectl.
var rootCmd = &cobra.Command{
	Use:   "airwavectl",
	Short: "Airwave CLI: manage wireless LANs, links, VLANs, and interfaces",
	Long: `Airwavectl is the operator-facing CLI for the Airwave wireless
inventory service. It lists, inspects, creates, and deletes wireless
LANs and point-to-point wireless links, along with the VLANs and device
interfaces they reference.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Flags override the config file.
		if serverURL != "" {
			cfg.ServerURL = serverURL
		}
		if authToken != "" {
			cfg.AuthToken = authToken
		}
		if outputFormat != "" {
			cfg.OutputFormat = outputFormat
		}

		// Tests inject their own client before calling Execute.
		if client == nil {
			client = api.NewClient(cfg.ServerURL, cfg.AuthToken)
		}
		formatter = output.NewFormatter(cfg.OutputFormat)

		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// SetClient allows tests to inject a mock client.
func SetClient(c api.APIClient) {
	client = c
}

// SetFormatter allows tests to inject a formatter.
func SetFormatter(f output.Formatter) {
	formatter = f
}

// RootCmd returns the root cobra.Command for testing purposes.
func RootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.airwave/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table, json, yaml (default \"table\")")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Airwave API server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "API bearer token")
	rootCmd.PersistentFlags().BoolVar(&yesFlag, "yes", false, "skip confirmation prompts for destructive operations")
}
