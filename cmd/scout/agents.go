package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aetherpro/scout/internal/pipeline"
	"github.com/aetherpro/scout/internal/types"
)

var (
	agentsVerified   bool
	agentsUnverified bool
	agentsRegistered bool
	agentsCategory   string
	agentsLimit      int

	verifyBy    string
	verifyNotes string

	queueLimit int
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Inspect and review discovered agents",
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered agents",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			fatal("%v", err)
		}
		defer store.Close()

		filter := types.AgentFilter{Category: agentsCategory, Limit: agentsLimit}
		if agentsVerified {
			v := true
			filter.Verified = &v
		}
		if agentsUnverified {
			v := false
			filter.Verified = &v
		}
		if agentsRegistered {
			r := true
			filter.Registered = &r
		}

		agents, err := store.ListAgents(ctx, filter)
		if err != nil {
			fatal("%v", err)
		}
		if len(agents) == 0 {
			fmt.Println("No agents found")
			return
		}
		for _, agent := range agents {
			printAgent(agent, false)
			fmt.Println()
		}
		fmt.Printf("%d agents\n", len(agents))
	},
}

var agentsShowCmd = &cobra.Command{
	Use:   "show <agent-id>",
	Short: "Show one agent in full",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			fatal("%v", err)
		}
		defer store.Close()

		agent, err := store.GetAgent(ctx, args[0])
		if err != nil {
			fatal("%v", err)
		}
		printAgent(agent, true)
	},
}

var agentsVerifyCmd = &cobra.Command{
	Use:   "verify <agent-id>",
	Short: "Mark an agent as human-verified",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			fatal("%v", err)
		}
		defer store.Close()

		if err := store.VerifyAgent(ctx, args[0], verifyBy, verifyNotes); err != nil {
			fatal("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Agent %s verified\n", green("✓"), args[0])
	},
}

var agentsRegisterCmd = &cobra.Command{
	Use:   "register <agent-id>",
	Short: "Record that the agent's creator registered on the platform",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			fatal("%v", err)
		}
		defer store.Close()

		if err := store.MarkRegistered(ctx, args[0]); err != nil {
			fatal("%v", err)
		}
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Agent %s marked registered\n", green("✓"), args[0])
	},
}

var agentsQueueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show the verification queue, most promising first",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			fatal("%v", err)
		}
		defer store.Close()

		cfg, err := pipeline.LoadConfig("")
		if err != nil {
			fatal("%v", err)
		}

		agents, err := store.GetVerificationQueue(ctx, queueLimit)
		if err != nil {
			fatal("%v", err)
		}
		if len(agents) == 0 {
			fmt.Println("Verification queue is empty")
			return
		}

		green := color.New(color.FgGreen).SprintFunc()
		for _, agent := range agents {
			printAgent(agent, false)
			if agent.ConfidenceScore >= cfg.AutoVerifyThreshold {
				fmt.Printf("  %s\n", green("High confidence — strong verify candidate"))
			}
			fmt.Println()
		}
		fmt.Printf("%d agents awaiting review\n", len(agents))
	},
}

func init() {
	rootCmd.AddCommand(agentsCmd)
	agentsCmd.AddCommand(agentsListCmd, agentsShowCmd, agentsVerifyCmd, agentsRegisterCmd, agentsQueueCmd)

	agentsListCmd.Flags().BoolVar(&agentsVerified, "verified", false, "Only verified agents")
	agentsListCmd.Flags().BoolVar(&agentsUnverified, "unverified", false, "Only unverified agents")
	agentsListCmd.Flags().BoolVar(&agentsRegistered, "registered", false, "Only agents whose creators registered")
	agentsListCmd.Flags().StringVar(&agentsCategory, "category", "", "Filter by category")
	agentsListCmd.Flags().IntVar(&agentsLimit, "limit", 50, "Maximum agents to list")

	agentsVerifyCmd.Flags().StringVar(&verifyBy, "by", "", "Reviewer name")
	agentsVerifyCmd.Flags().StringVar(&verifyNotes, "notes", "", "Verification notes")

	agentsQueueCmd.Flags().IntVar(&queueLimit, "limit", 20, "Maximum agents to show")
}
