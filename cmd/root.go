package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/pibulus/hexbloop-sub002/internal/config"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "hexbloop",
	Short: "Procedural audio mastering driven by moon phase and time of day",
	Long: `hexbloop masters audio files through two external engines, names the
results procedurally, and renders matching cover art. Effect character,
name style, and artwork are all derived from the lunar phase and the
hour you run it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// interactive reports whether stdout is a terminal, gating the TUI and
// styled output.
func interactive() bool {
	return term.IsTerminal(os.Stdout.Fd())
}
