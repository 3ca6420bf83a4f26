package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aetherpro/scout/internal/pipeline"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the scout workspace",
	Long:  `Create the .scout directory with a starter config and an empty database.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if err := pipeline.WriteExample(""); err != nil {
			fatal("%v", err)
		}

		store, err := openStore(ctx)
		if err != nil {
			fatal("%v", err)
		}
		defer store.Close()

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s Initialized scout workspace\n", green("✓"))
		fmt.Printf("  Config:   %s\n", pipeline.DefaultConfigPath)
		fmt.Println("  Edit the config, export your API keys, then run: scout discover")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
