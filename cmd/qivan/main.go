// Qivan is a deterministic, data-driven combat engine for idle RPG encounters.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "qivan",
	Short:   "Qivan combat engine",
	Long:    `Qivan runs turn-based combat encounters defined in Lua content files.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "qivan.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&contentDir, "content", "", "content directory (overrides content_dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides log_level)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(validateCmd)
}
