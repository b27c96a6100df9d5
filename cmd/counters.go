package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pibulus/hexbloop-sub002/internal/counter"
)

var countersResetKey string
var countersResetAll bool

// Session counters only ever move forward during processing; this command
// is the one deliberate way to clear them.
var countersCmd = &cobra.Command{
	Use:   "counters",
	Short: "List or reset the persisted session counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := counter.NewStore()
		if err != nil {
			return err
		}

		if countersResetAll {
			if err := store.ResetAll(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all counters reset")
			return nil
		}
		if countersResetKey != "" {
			if err := store.Reset(countersResetKey); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "counter %q reset\n", countersResetKey)
			return nil
		}

		all, err := store.All()
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no session counters yet")
			return nil
		}
		keys := make([]string, 0, len(all))
		for k := range all {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", k, all[k])
		}
		return nil
	},
}

func init() {
	countersCmd.Flags().StringVar(&countersResetKey, "reset", "", "reset a single counter key")
	countersCmd.Flags().BoolVar(&countersResetAll, "reset-all", false, "reset every counter")
	rootCmd.AddCommand(countersCmd)
}
