package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pibulus/hexbloop-sub002/internal/chaos"
	"github.com/pibulus/hexbloop-sub002/internal/lunar"
	"github.com/pibulus/hexbloop-sub002/internal/naming"
)

var (
	nameCount int
	nameStyle string
	nameSeed  int64
)

var nameCmd = &cobra.Command{
	Use:   "name",
	Short: "Generate track names without processing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		var src *chaos.Source
		if nameSeed != 0 {
			src = chaos.NewSource(nameSeed)
		}
		gen := naming.NewGenerator(src)
		inf := lunar.Compute(time.Now())

		style, fixed := naming.ParseStyle(nameStyle)
		for i := 0; i < nameCount; i++ {
			var r naming.Record
			if fixed {
				r = gen.GenerateStyled(inf, style)
			} else {
				r = gen.Generate(inf)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t(%s)\n", r.Text, r.Style)
		}
		return nil
	},
}

func init() {
	nameCmd.Flags().IntVarP(&nameCount, "count", "n", 5, "number of names")
	nameCmd.Flags().StringVar(&nameStyle, "style", "auto", "style (sparklepop, dark, glitch, mixed, auto)")
	nameCmd.Flags().Int64Var(&nameSeed, "seed", 0, "seed for reproducible names")
	rootCmd.AddCommand(nameCmd)
}
