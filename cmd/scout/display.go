package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/aetherpro/scout/internal/types"
)

func statusColor(status types.RunStatus) func(a ...interface{}) string {
	switch status {
	case types.RunStatusCompleted:
		return color.New(color.FgGreen).SprintFunc()
	case types.RunStatusFailed:
		return color.New(color.FgRed).SprintFunc()
	default:
		return color.New(color.FgYellow).SprintFunc()
	}
}

func printRunSummary(run *types.Run) {
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("%s\n", yellow("Run Summary:"))
	fmt.Printf("  Run:      %s\n", run.ID)
	fmt.Printf("  Status:   %s\n", statusColor(run.Status)(string(run.Status)))
	fmt.Printf("  Keywords: %s\n", strings.Join(run.Keywords, ", "))
	fmt.Println()
	fmt.Printf("  Search results:   %d\n", run.Stats.SearchResults)
	fmt.Printf("  Unique leads:     %d\n", run.Stats.UniqueLeads)
	fmt.Printf("  Passed filter:    %d\n", run.Stats.FilteredLeads)
	fmt.Printf("  Researched:       %d\n", run.Stats.ResearchedLeads)
	fmt.Printf("  Scraped:          %d\n", run.Stats.ScrapedLeads)
	fmt.Printf("  Classified:       %d\n", run.Stats.ClassifiedLeads)
	fmt.Printf("  Stored agents:    %d\n", run.Stats.StoredAgents)
	fmt.Printf("  Outreach drafts:  %d\n", run.Stats.OutreachDrafts)
	fmt.Println()
	fmt.Printf("  %s\n", gray(fmt.Sprintf("Started %s, %d trace steps, %d sources",
		run.StartedAt.Format("2006-01-02 15:04:05"), len(run.Trace), len(run.Sources))))
}

func printRunTrace(run *types.Run) {
	yellow := color.New(color.FgYellow).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("%s\n", yellow("Reasoning Trace:"))
	for _, step := range run.Trace {
		line := fmt.Sprintf("  %2d. [%s] %s", step.Step, step.Action, step.Description)
		if step.Confidence > 0 {
			line += gray(fmt.Sprintf(" (confidence %.2f)", step.Confidence))
		}
		fmt.Println(line)
	}
	if len(run.Sources) > 0 {
		fmt.Println()
		fmt.Printf("%s\n", yellow("Sources:"))
		for _, src := range run.Sources {
			fmt.Printf("  %.2f  %s\n        %s\n", src.Score, src.Title, gray(src.URL))
		}
	}
}

func printAgent(agent *types.StoredAgent, verbose bool) {
	green := color.New(color.FgGreen).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	marker := gray("○")
	if agent.Verified {
		marker = green("●")
	}
	fmt.Printf("%s %s %s\n", marker, agent.Name, gray("("+agent.ID+")"))
	fmt.Printf("  Category:   %s    Framework: %s    Confidence: %.2f\n",
		orDash(agent.Category), orDash(agent.Framework), agent.ConfidenceScore)
	fmt.Printf("  Source:     %s\n", agent.SourceURL)
	if !verbose {
		return
	}
	if agent.Description != "" {
		fmt.Printf("  About:      %s\n", agent.Description)
	}
	if len(agent.Capabilities) > 0 {
		fmt.Printf("  Can do:     %s\n", strings.Join(agent.Capabilities, ", "))
	}
	if len(agent.Tags) > 0 {
		fmt.Printf("  Tags:       %s\n", strings.Join(agent.Tags, ", "))
	}
	if agent.Contacts.Email != "" {
		fmt.Printf("  Email:      %s\n", agent.Contacts.Email)
	}
	if agent.Contacts.GitHub != "" {
		fmt.Printf("  GitHub:     %s\n", agent.Contacts.GitHub)
	}
	if agent.Verified {
		fmt.Printf("  Verified:   by %s at %s\n", agent.VerifiedBy, agent.VerifiedAt.Format("2006-01-02 15:04"))
		if agent.VerificationNotes != "" {
			fmt.Printf("  Notes:      %s\n", agent.VerificationNotes)
		}
	}
	if agent.Registered {
		fmt.Printf("  %s\n", green("Registered on platform"))
	}
	fmt.Printf("  %s\n", gray(fmt.Sprintf("Discovered %s by %s",
		agent.DiscoveredAt.Format("2006-01-02"), agent.DiscoveredBy)))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
