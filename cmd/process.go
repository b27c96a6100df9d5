package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pibulus/hexbloop-sub002/internal/counter"
	"github.com/pibulus/hexbloop-sub002/internal/lunar"
	"github.com/pibulus/hexbloop-sub002/internal/pipeline"
	"github.com/pibulus/hexbloop-sub002/internal/report"
	"github.com/pibulus/hexbloop-sub002/internal/tui"
)

var (
	processOutput      string
	processFormat      string
	processScheme      string
	processFolder      string
	processWorkers     int
	processSeed        int64
	processUseTUI      bool
	processNoEffects   bool
	processNoMastering bool
	processNoArtwork   bool
	processNoMetadata  bool
	processReport      string
)

var processCmd = &cobra.Command{
	Use:   "process <file|dir>...",
	Short: "Master audio files with lunar-phase character",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := GetConfig()
		if processOutput != "" {
			c.OutputDir = processOutput
		}
		if processFormat != "" {
			c.Format = processFormat
		}
		if processScheme != "" {
			c.NamingScheme = processScheme
		}
		if processFolder != "" {
			c.FolderScheme = processFolder
		}
		if processWorkers > 0 {
			c.Workers = processWorkers
		}
		if processSeed != 0 {
			c.Seed = processSeed
		}
		c.DisableEffects = c.DisableEffects || processNoEffects
		c.DisableMastering = c.DisableMastering || processNoMastering
		c.DisableArtwork = c.DisableArtwork || processNoArtwork
		c.DisableMetadata = c.DisableMetadata || processNoMetadata

		inputs, err := expandInputs(args, c.AllowedExtensions)
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			return fmt.Errorf("no audio files found in %v", args)
		}

		store, err := counter.NewStore()
		if err != nil {
			return err
		}
		o := pipeline.New(c, store)

		// Ctrl-C cancels: external processes are killed and every file in
		// flight lands as cancelled, not failed.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		started := time.Now()
		var results []pipeline.Result
		if processUseTUI && interactive() {
			events := make(chan pipeline.Event, 16)
			o.Progress = func(e pipeline.Event) { events <- e }
			done := make(chan struct{})
			go func() {
				results = o.ProcessBatch(ctx, inputs)
				close(events)
				close(done)
			}()
			runErr := tui.Run(events, len(inputs))
			// The user may quit the view while the batch is still running;
			// keep draining so the pipeline never blocks on a full channel.
			drainEvents(events)
			<-done
			if runErr != nil {
				return runErr
			}
		} else {
			out := cmd.OutOrStdout()
			o.Progress = func(e pipeline.Event) {
				fmt.Fprintf(out, "[%d/%d] %s: %s\n", e.Index+1, e.Total, e.FileName, e.Stage)
			}
			results = o.ProcessBatch(ctx, inputs)
		}

		fmt.Fprint(cmd.OutOrStdout(), tui.Summary(results))

		if processReport != "" {
			if err := writeReport(processReport, c.OutputDir, started, results); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "writing report: %v\n", err)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", processReport)
			}
		}

		succeeded := 0
		for _, r := range results {
			if r.Success() {
				succeeded++
			}
		}
		if succeeded == 0 {
			return fmt.Errorf("no files processed successfully")
		}
		return nil
	},
}

// drainEvents discards progress events until the channel closes, so the
// producing goroutine can always complete its sends.
func drainEvents(events <-chan pipeline.Event) {
	for range events {
	}
}

// writeReport renders the session report to path. Extension picks the
// renderer: .json gets raw JSON, anything else the markdown form.
func writeReport(path, outputDir string, started time.Time, results []pipeline.Result) error {
	rep := report.Build(lunar.Compute(started), outputDir, started, time.Now(), results)
	var renderer report.Renderer = &report.MarkdownRenderer{}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		renderer = &report.JSONRenderer{}
	}
	data, err := renderer.Render(rep)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// expandInputs resolves directories into their audio files, one level deep.
func expandInputs(args []string, allowed []string) ([]string, error) {
	isAudio := func(path string) bool {
		ext := strings.ToLower(filepath.Ext(path))
		for _, a := range allowed {
			if ext == strings.ToLower(a) {
				return true
			}
		}
		return false
	}

	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			// Let the pipeline validate and report it per file.
			inputs = append(inputs, arg)
			continue
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", arg, err)
		}
		for _, e := range entries {
			if !e.IsDir() && isAudio(e.Name()) {
				inputs = append(inputs, filepath.Join(arg, e.Name()))
			}
		}
	}
	return inputs, nil
}

func init() {
	processCmd.Flags().StringVarP(&processOutput, "output", "o", "", "output directory")
	processCmd.Flags().StringVarP(&processFormat, "format", "f", "", "output format (mp3, wav, flac, m4a, ogg)")
	processCmd.Flags().StringVar(&processScheme, "scheme", "", "naming scheme (mystical, sequential, timestamp, hybrid, preserve)")
	processCmd.Flags().StringVar(&processFolder, "folder", "", "session folder scheme (none, date, moon, global)")
	processCmd.Flags().IntVar(&processWorkers, "workers", 0, "concurrent files (default 1)")
	processCmd.Flags().Int64Var(&processSeed, "seed", 0, "seed for reproducible names and artwork")
	processCmd.Flags().BoolVar(&processUseTUI, "tui", false, "live progress view")
	processCmd.Flags().BoolVar(&processNoEffects, "no-effects", false, "skip the effects stage")
	processCmd.Flags().BoolVar(&processNoMastering, "no-mastering", false, "skip the mastering stage")
	processCmd.Flags().BoolVar(&processNoArtwork, "no-artwork", false, "skip cover art generation")
	processCmd.Flags().BoolVar(&processNoMetadata, "no-metadata", false, "skip metadata embedding")
	processCmd.Flags().StringVar(&processReport, "report", "", "write a session report to this path (.md or .json)")
	rootCmd.AddCommand(processCmd)
}
