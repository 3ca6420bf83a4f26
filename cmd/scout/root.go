package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aetherpro/scout/internal/storage"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "AI agent discovery pipeline for the AetherPro platform",
	Long: `scout discovers AI agents published around the web, researches and
classifies them, and stores structured records for human review.

A discovery run sweeps search keywords, deduplicates the results, filters
them with an AI relevance check, deep-researches the survivors, scrapes
their pages, structures what it finds, and drafts outreach to the creators.

Every run keeps an ordered reasoning trace explaining what each phase did.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (default .scout/scout.db)")
}

// openStore opens the storage backend for a command. The caller owns Close.
func openStore(ctx context.Context) (storage.Storage, error) {
	store, err := storage.NewStorage(ctx, &storage.Config{Path: dbPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
