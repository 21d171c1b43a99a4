package cmd

import (
	"context"
	"fmt"

	"campusctl/core/history"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd lists past reconciliation runs.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past reconciliation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		if !s.cfg.History.Enabled {
			return fmt.Errorf("run history is disabled")
		}

		store, err := history.Open(s.cfg.History)
		if err != nil {
			return err
		}

		runs, err := store.Recent(context.Background(), historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}

		for _, run := range runs {
			status := "ok"
			if !run.OK {
				status = "failed"
			}
			mode := "apply"
			if run.DryRun {
				mode = "check"
			}
			fmt.Printf("%s  %s  %s  %s  %d unit(s)\n",
				run.StartedAt.Format("2006-01-02 15:04:05"), run.ID, mode, status, run.Units)

			for _, res := range run.Results {
				line := fmt.Sprintf("    [%d] %s %q: %s", res.Position, res.Kind, res.Name, res.Decision)
				if res.Error != "" {
					line += " (error: " + res.Error + ")"
				}
				fmt.Println(line)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of runs to show")
	RootCmd.AddCommand(historyCmd)
}
