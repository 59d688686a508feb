package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/priya/group-scout/internal/config"
	"github.com/priya/group-scout/internal/fetch"
	"github.com/priya/group-scout/internal/grouping"
	"github.com/priya/group-scout/internal/logger"
	"github.com/priya/group-scout/internal/matching"
	"github.com/priya/group-scout/internal/pipeline"
	"github.com/priya/group-scout/internal/roster"
	"github.com/priya/group-scout/internal/scoring"
	"github.com/priya/group-scout/internal/search"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full roster pipeline end-to-end",
	Long: `Processes every roster entry: search -> match -> fetch -> extract -> score, then aggregates group fit across all scored members.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath     string
	runRoster         string
	runInstitution    string
	runThreshold      float64
	runSearchBackend  string
	runSearchAPIKey   string
	runSearchEngineID string
	runIntervalMS     int
	runMaxBackoffMS   int
	runMaxRetries     int
	runConcurrency    int
	runUseBrowser     bool
	runVerbose        bool
	runJSONLogs       bool
	runDatabaseURL    string
	runOutput         string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runRoster, "roster", "r", "", "Path to roster JSON export")
	runCommand.Flags().StringVarP(&runInstitution, "institution", "i", "", "Institution used as search context for entries without one")
	runCommand.Flags().Float64Var(&runThreshold, "threshold", 0, "Minimum match confidence for promotion (0-1]")
	runCommand.Flags().StringVar(&runSearchBackend, "search-backend", "", "Candidate source: html or cse")
	runCommand.Flags().StringVar(&runSearchAPIKey, "search-api-key", "", "Custom Search API key (optional, defaults to SEARCH_API_KEY env var)")
	runCommand.Flags().StringVar(&runSearchEngineID, "search-engine-id", "", "Custom Search engine ID (optional, defaults to SEARCH_ENGINE_ID env var)")
	runCommand.Flags().IntVar(&runIntervalMS, "min-interval-ms", 0, "Minimum milliseconds between requests to the same host")
	runCommand.Flags().IntVar(&runMaxBackoffMS, "max-backoff-ms", 0, "Backoff ceiling in milliseconds")
	runCommand.Flags().IntVar(&runMaxRetries, "max-retries", 0, "Attempts per URL before giving up")
	runCommand.Flags().IntVar(&runConcurrency, "concurrency", 0, "Maximum roster entries processed at once")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser with a logged-in session (requires Chrome)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")
	runCommand.Flags().BoolVar(&runJSONLogs, "json-logs", false, "Emit logs as JSON")
	runCommand.Flags().StringVarP(&runOutput, "output", "o", "", "Write the run report JSON to this path")

	// Database URL for run-audit persistence
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logger.New(runJSONLogs, cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	r, err := roster.Load(cfg.Roster)
	if err != nil {
		return fmt.Errorf("failed to load roster: %w", err)
	}

	fetchOpts := fetch.DefaultOptions()
	if cfg.MinRequestIntervalMS > 0 {
		fetchOpts.MinInterval = time.Duration(cfg.MinRequestIntervalMS) * time.Millisecond
	}
	if cfg.MaxBackoffMS > 0 {
		fetchOpts.MaxBackoff = time.Duration(cfg.MaxBackoffMS) * time.Millisecond
	}
	if cfg.MaxRetryAttempts > 0 {
		fetchOpts.MaxAttempts = cfg.MaxRetryAttempts
	}

	var raw fetch.Fetcher
	if cfg.UseBrowser {
		raw = fetch.NewBrowserFetcher(os.Getenv("BROWSER_USER_DATA_DIR"), 0)
	} else {
		raw = fetch.NewHTTPFetcher(0, nil)
	}
	client := fetch.NewClient(raw, fetchOpts, log)

	var source search.Source
	if cfg.SearchBackend == "cse" {
		source, err = search.NewCSESource(ctx, cfg.SearchAPIKey, cfg.SearchEngineID)
		if err != nil {
			return fmt.Errorf("failed to build search source: %w", err)
		}
	} else {
		source = search.NewHTMLSource(client, search.DefaultSearchURL)
	}

	opts := pipeline.Options{
		Resolver:    matching.NewResolver(source, cfg.ConfidenceThreshold, log),
		Fetcher:     client,
		Scorer:      scoring.NewScorer(nil),
		Aggregator:  grouping.NewAggregator(grouping.TraitWeights(cfg.TraitWeights)),
		Logger:      log,
		Institution: cfg.Institution,
		Concurrency: cfg.Concurrency,
		Verbose:     cfg.Verbose,
		DatabaseURL: cfg.DatabaseURL,
	}

	report, runErr := pipeline.Run(ctx, opts, r)
	if report == nil {
		return runErr
	}

	if runOutput != "" {
		jsonBytes, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		if err := os.WriteFile(runOutput, jsonBytes, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("Report written to %s\n", runOutput)
	}

	fmt.Printf("Run %s: %d resolved, %d unresolved, %d failed\n",
		report.RunID, report.Resolved, report.Unresolved, report.Failed)
	if report.GroupFit != nil {
		fmt.Printf("Group score: %.1f\n", report.GroupFit.GroupScore)
		for _, flag := range report.GroupFit.Flags {
			fmt.Printf("  Flag: %s\n", flag)
		}
	}
	// A session expiry or cancellation still produced the partial report
	// above; surface the error so the exit code reflects it.
	return runErr
}

// buildConfig merges config file, CLI overrides, environment, and defaults, in
// that priority order (later sources fill gaps only).
func buildConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config

	// Step 1: Load config file if provided
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("roster") {
		cfg.Roster = runRoster
	}
	if cmd.Flags().Changed("institution") {
		cfg.Institution = runInstitution
	}
	if cmd.Flags().Changed("threshold") {
		cfg.ConfidenceThreshold = runThreshold
	}
	if cmd.Flags().Changed("search-backend") {
		cfg.SearchBackend = runSearchBackend
	}
	if cmd.Flags().Changed("search-api-key") {
		cfg.SearchAPIKey = runSearchAPIKey
	}
	if cmd.Flags().Changed("search-engine-id") {
		cfg.SearchEngineID = runSearchEngineID
	}
	if cmd.Flags().Changed("min-interval-ms") {
		cfg.MinRequestIntervalMS = runIntervalMS
	}
	if cmd.Flags().Changed("max-backoff-ms") {
		cfg.MaxBackoffMS = runMaxBackoffMS
	}
	if cmd.Flags().Changed("max-retries") {
		cfg.MaxRetryAttempts = runMaxRetries
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = runConcurrency
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	// Step 3: Environment fallbacks for credentials
	if cfg.SearchAPIKey == "" {
		cfg.SearchAPIKey = os.Getenv("SEARCH_API_KEY")
	}
	if cfg.SearchEngineID == "" {
		cfg.SearchEngineID = os.Getenv("SEARCH_ENGINE_ID")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	// Step 4: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.DefaultConfig())

	// Step 5: Validate required fields
	if cfg.Roster == "" {
		return cfg, fmt.Errorf("--roster must be provided (via flag or config)")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
