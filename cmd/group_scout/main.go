// Package main provides the entry point for the group-scout CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "group_scout",
	Short: "Roster-to-group-fit resolution and scoring pipeline",
	Long:  "group-scout resolves course roster entries to public professional profiles, scores heuristic collaboration traits, and aggregates pairwise group-fit compatibility for team formation.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
