package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pibulus/hexbloop-sub002/internal/counter"
	"github.com/pibulus/hexbloop-sub002/internal/pipeline"
	"github.com/pibulus/hexbloop-sub002/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Process audio files dropped into a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}

		c := GetConfig()
		store, err := counter.NewStore()
		if err != nil {
			return err
		}
		o := pipeline.New(c, store)
		out := cmd.OutOrStdout()
		o.Progress = func(e pipeline.Event) {
			fmt.Fprintf(out, "  %s: %s\n", e.FileName, e.Stage)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		fmt.Fprintf(out, "watching %s (ctrl-c to stop)\n", dir)
		return watchLoop(ctx, o, dir, c.AllowedExtensions, out)
	},
}

// watchLoop runs the fsnotify watcher until ctx is cancelled. Each created
// audio file is processed after a short settle delay so half-copied files
// are not picked up mid-write.
func watchLoop(ctx context.Context, o *pipeline.Orchestrator, dir string, allowed []string, out io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	isAudio := func(path string) bool {
		ext := strings.ToLower(filepath.Ext(path))
		for _, a := range allowed {
			if ext == strings.ToLower(a) {
				return true
			}
		}
		return false
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) || !isAudio(event.Name) {
				continue
			}
			if err := waitForSettle(ctx, event.Name); err != nil {
				continue // cancelled or file vanished
			}
			res := o.ProcessFile(ctx, event.Name)
			fmt.Fprint(out, tui.Summary([]pipeline.Result{res}))

		case _, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; keep watching.
		}
	}
}

// waitForSettle polls until the file size stops changing.
func waitForSettle(ctx context.Context, path string) error {
	var lastSize int64 = -1
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(400 * time.Millisecond):
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() == lastSize {
			return nil
		}
		lastSize = info.Size()
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
