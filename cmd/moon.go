package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pibulus/hexbloop-sub002/internal/lunar"
	"github.com/pibulus/hexbloop-sub002/internal/params"
)

var moonCmd = &cobra.Command{
	Use:   "moon",
	Short: "Show the current temporal influence and the effect character it implies",
	RunE: func(cmd *cobra.Command, args []string) error {
		inf := lunar.Compute(time.Now())
		v := params.Synthesize(inf, nil)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "phase:        %s (%.1f%% through the cycle)\n", inf.PhaseName, inf.LunarPhase*100)
		fmt.Fprintf(out, "illumination: %.0f%%\n", inf.Illumination*100)
		fmt.Fprintf(out, "time:         %s\n", inf.TimeCategory)
		fmt.Fprintf(out, "character:    %s\n", v.Description)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(moonCmd)
}
