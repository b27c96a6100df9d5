package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pibulus/hexbloop-sub002/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure hexbloop (re-run anytime to edit settings)",
	// Bypass the normal PersistentPreRunE so setup works even when the
	// existing config file is malformed.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load the existing global config as prompt defaults if present.
		var existing *config.Config
		if config.GlobalExists() {
			if c, err := config.LoadGlobal(); err == nil {
				existing = c
			}
		}

		cfg, err := config.RunSetup(cmd.InOrStdin(), cmd.OutOrStdout(), existing)
		if err != nil {
			return fmt.Errorf("setup cancelled: %w", err)
		}
		if err := config.SaveGlobal(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		path, _ := config.GlobalPath()
		fmt.Fprintf(cmd.OutOrStdout(), "  ✓ Config saved to %s\n", path)
		fmt.Fprintln(cmd.OutOrStdout(), "  Run 'hexbloop process <files>' to begin.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
