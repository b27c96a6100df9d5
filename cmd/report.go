package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pibulus/hexbloop-sub002/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Summarize a previously written session report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var parser report.Parser = &report.MarkdownParser{}
		if strings.EqualFold(filepath.Ext(args[0]), ".json") {
			parser = &report.JSONParser{}
		}
		rep, err := parser.Parse(data)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "session of %s (%s)\n",
			rep.Session.StopTime.Format("2006-01-02 15:04"), rep.Session.Duration)
		fmt.Fprintf(out, "moon: %s, %s\n", rep.Moon.Phase, rep.Moon.TimeOfDay)
		fmt.Fprintf(out, "succeeded %d, failed %d, cancelled %d\n",
			rep.Session.Succeeded, rep.Session.Failed, rep.Session.Cancelled)
		for _, tr := range rep.Tracks {
			line := fmt.Sprintf("  %-9s %s", tr.Status, tr.Name)
			if tr.Output != "" {
				line += " -> " + tr.Output
			}
			fmt.Fprintln(out, line)
			for _, n := range tr.Notes {
				fmt.Fprintf(out, "            %s\n", n)
			}
			if tr.Error != "" {
				fmt.Fprintf(out, "            %s\n", tr.Error)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
