package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/priya/group-scout/internal/grouping"
	"github.com/priya/group-scout/internal/observability"
	"github.com/priya/group-scout/internal/types"
)

var fitCommand = &cobra.Command{
	Use:   "fit",
	Short: "Compute group fit from saved trait vectors",
	Long:  "Reads a JSON array of trait vectors (as produced by the score command or a run report) and prints the pairwise scores, group score, and any red flags.",
	RunE:  fitCmd,
}

var (
	fitInput  string
	fitOutput string
)

func init() {
	fitCommand.Flags().StringVarP(&fitInput, "input", "f", "", "Path to trait vectors JSON array (required)")
	fitCommand.Flags().StringVarP(&fitOutput, "output", "o", "", "Write JSON to this path instead of a formatted box")

	_ = fitCommand.MarkFlagRequired("input")

	rootCmd.AddCommand(fitCommand)
}

func fitCmd(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(fitInput)
	if err != nil {
		return fmt.Errorf("failed to read trait vectors: %w", err)
	}

	var vectors []*types.TraitVector
	if err := json.Unmarshal(data, &vectors); err != nil {
		return fmt.Errorf("failed to parse trait vectors JSON: %w", err)
	}

	result, err := grouping.NewAggregator(nil).GroupFit(vectors)
	if err != nil {
		return err
	}
	grouping.SortByScore(result.Pairwise)

	if fitOutput != "" {
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		if err := os.WriteFile(fitOutput, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}

	observability.NewPrinter(os.Stdout).PrintGroupFit(result)
	return nil
}
