package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aetherpro/scout/internal/types"
)

var (
	runsStatus string
	runsLimit  int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect discovery runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovery runs, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			fatal("%v", err)
		}
		defer store.Close()

		runs, err := store.ListRuns(ctx, types.RunFilter{
			Status: types.RunStatus(runsStatus),
			Limit:  runsLimit,
		})
		if err != nil {
			fatal("%v", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs found")
			return
		}

		for _, run := range runs {
			fmt.Printf("%s  %s  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"),
				statusColor(run.Status)(fmt.Sprintf("%-9s", run.Status)), run.ID)
			fmt.Printf("    keywords: %s\n", strings.Join(run.Keywords, ", "))
			fmt.Printf("    %d results → %d unique → %d filtered → %d stored\n",
				run.Stats.SearchResults, run.Stats.UniqueLeads,
				run.Stats.FilteredLeads, run.Stats.StoredAgents)
		}
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its full reasoning trace and sources",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			fatal("%v", err)
		}
		defer store.Close()

		run, err := store.GetRun(ctx, args[0])
		if err != nil {
			fatal("%v", err)
		}
		printRunSummary(run)
		fmt.Println()
		printRunTrace(run)
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd, runsShowCmd)

	runsListCmd.Flags().StringVar(&runsStatus, "status", "", "Filter by status: running, completed, failed")
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum runs to list")
}
