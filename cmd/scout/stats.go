package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aetherpro/scout/internal/types"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show discovery statistics",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			fatal("%v", err)
		}
		defer store.Close()

		stats, err := store.GetStatistics(ctx)
		if err != nil {
			fatal("%v", err)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan("=== Scout Statistics ==="))
		fmt.Printf("  Discovered agents:  %d\n", stats.TotalDiscovered)
		fmt.Printf("  Verified:           %d\n", stats.Verified)
		fmt.Printf("  Registered:         %d\n", stats.Registered)
		fmt.Printf("  Pending outreach:   %d\n", stats.PendingOutreach)

		if runs, err := store.ListRuns(ctx, types.RunFilter{Status: types.RunStatusCompleted, Limit: 1}); err == nil && len(runs) > 0 {
			last := runs[0]
			fmt.Printf("\n  Last completed run: %s (%s, %d agents stored)\n",
				last.ID, last.StartedAt.Format("2006-01-02 15:04"), last.Stats.StoredAgents)
		}

		if len(stats.ByCategory) > 0 {
			fmt.Printf("\n%s\n", yellow("By Category:"))
			categories := make([]string, 0, len(stats.ByCategory))
			for category := range stats.ByCategory {
				categories = append(categories, category)
			}
			sort.Strings(categories)
			for _, category := range categories {
				fmt.Printf("  %-16s %d\n", category, stats.ByCategory[category])
			}
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
