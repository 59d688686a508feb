package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/priya/group-scout/internal/extraction"
	"github.com/priya/group-scout/internal/scoring"
)

var scoreCommand = &cobra.Command{
	Use:   "score",
	Short: "Extract and score a saved profile page",
	Long:  "Parses a profile HTML file saved to disk, extracts the structured record, and prints the trait vector as JSON. Useful for calibrating the rule table without any network access.",
	RunE:  scoreCmd,
}

var (
	scoreInput   string
	scoreName    string
	scoreOutput  string
	scoreProfile bool
)

func init() {
	scoreCommand.Flags().StringVarP(&scoreInput, "input", "f", "", "Path to saved profile HTML (required)")
	scoreCommand.Flags().StringVarP(&scoreName, "name", "n", "", "Student name attached to the trait vector")
	scoreCommand.Flags().StringVarP(&scoreOutput, "output", "o", "", "Write JSON to this path instead of stdout")
	scoreCommand.Flags().BoolVar(&scoreProfile, "with-profile", false, "Include the extracted profile record in the output")

	_ = scoreCommand.MarkFlagRequired("input")

	rootCmd.AddCommand(scoreCommand)
}

func scoreCmd(_ *cobra.Command, _ []string) error {
	html, err := os.ReadFile(scoreInput)
	if err != nil {
		return fmt.Errorf("failed to read profile HTML: %w", err)
	}

	record, err := extraction.Extract("file://"+scoreInput, string(html))
	if err != nil {
		return fmt.Errorf("failed to parse profile: %w", err)
	}

	name := scoreName
	if name == "" {
		name = scoreInput
	}
	traits := scoring.NewScorer(nil).Score(name, record)

	output := any(traits)
	if scoreProfile {
		output = map[string]any{
			"profile": record,
			"traits":  traits,
		}
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if scoreOutput != "" {
		if err := os.WriteFile(scoreOutput, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}
	fmt.Println(string(jsonBytes))
	return nil
}
