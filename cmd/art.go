package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pibulus/hexbloop-sub002/internal/artwork"
	"github.com/pibulus/hexbloop-sub002/internal/lunar"
)

var (
	artOut    string
	artStyle  string
	artSeed   int64
	artEnergy float64
	artTempo  float64
	artSize   int
)

var artCmd = &cobra.Command{
	Use:   "art",
	Short: "Render a standalone cover image",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := artSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		in := artwork.Inputs{
			Style:       artStyle,
			Seed:        seed,
			AudioEnergy: artEnergy,
			TempoBpm:    artTempo,
			MoonPhase:   lunar.Compute(time.Now()).LunarPhase,
		}
		img, err := artwork.Generate(in, artwork.Options{Width: artSize, Height: artSize})
		if err != nil {
			return err
		}
		if err := artwork.WriteFile(artOut, img, artwork.ExportOptions{}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (seed %d)\n", artOut, seed)
		return nil
	},
}

func init() {
	artCmd.Flags().StringVarP(&artOut, "out", "o", "cover.png", "output image path")
	artCmd.Flags().StringVar(&artStyle, "style", "auto", "artwork style or auto")
	artCmd.Flags().Int64Var(&artSeed, "seed", 0, "seed (0 = random)")
	artCmd.Flags().Float64Var(&artEnergy, "energy", 0.5, "audio energy 0-1")
	artCmd.Flags().Float64Var(&artTempo, "tempo", 120, "tempo in BPM")
	artCmd.Flags().IntVar(&artSize, "size", 800, "canvas size in pixels")
	rootCmd.AddCommand(artCmd)
}
