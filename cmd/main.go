package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Laizra/Call-tracker-app-R2024/internal/config"
)

var (
	debug bool
	cfg   *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "calltracker",
	Short: "Call tracker dashboard",
	Long: `calltracker serves the call tracking dashboard: an editable grid of
logged calls, a per-day chart of dial volume and pickup rate, and a save
action that reconciles the grid with calltracker_table.

Run without a subcommand to start the web server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		cfg = config.Load(debug)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cfg != nil && cfg.Zap != nil {
			_ = cfg.Zap.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging (or set DEBUG=1)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCSVCmd)
	rootCmd.AddCommand(exportCSVCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
