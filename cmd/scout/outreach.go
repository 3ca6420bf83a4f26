package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aetherpro/scout/internal/types"
)

var (
	outreachStatus  string
	outreachAgentID string
	outreachLimit   int
	outreachFull    bool
)

var outreachCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Inspect drafted outreach messages",
}

var outreachListCmd = &cobra.Command{
	Use:   "list",
	Short: "List outreach drafts",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			fatal("%v", err)
		}
		defer store.Close()

		drafts, err := store.ListOutreach(ctx, types.OutreachFilter{
			AgentID: outreachAgentID,
			Status:  types.OutreachStatus(outreachStatus),
			Limit:   outreachLimit,
		})
		if err != nil {
			fatal("%v", err)
		}
		if len(drafts) == 0 {
			fmt.Println("No outreach drafts found")
			return
		}

		gray := color.New(color.FgHiBlack).SprintFunc()
		for _, draft := range drafts {
			channel := draft.Email
			if channel == "" {
				channel = draft.GitHubURL
			}
			fmt.Printf("%s  %-8s  agent=%s  %s\n",
				draft.CreatedAt.Format("2006-01-02 15:04"), draft.Status, draft.AgentID, channel)
			if outreachFull {
				fmt.Printf("%s\n\n", gray(draft.Message))
			}
		}
		fmt.Printf("%d drafts\n", len(drafts))
	},
}

func init() {
	rootCmd.AddCommand(outreachCmd)
	outreachCmd.AddCommand(outreachListCmd)

	outreachListCmd.Flags().StringVar(&outreachStatus, "status", "", "Filter by status: pending, sent, failed")
	outreachListCmd.Flags().StringVar(&outreachAgentID, "agent", "", "Filter by agent ID")
	outreachListCmd.Flags().IntVar(&outreachLimit, "limit", 20, "Maximum drafts to list")
	outreachListCmd.Flags().BoolVar(&outreachFull, "full", false, "Print full message bodies")
}
