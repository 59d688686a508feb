// Package pipeline provides the high-level orchestration for a roster run:
// resolve each entry to a profile, fetch and parse it, score traits, then
// aggregate group fit across everyone who scored.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/priya/group-scout/internal/db"
	"github.com/priya/group-scout/internal/extraction"
	"github.com/priya/group-scout/internal/fetch"
	"github.com/priya/group-scout/internal/grouping"
	"github.com/priya/group-scout/internal/logger"
	"github.com/priya/group-scout/internal/matching"
	"github.com/priya/group-scout/internal/observability"
	"github.com/priya/group-scout/internal/scoring"
	"github.com/priya/group-scout/internal/types"
)

// ProfileFetcher fetches profile pages. Satisfied by *fetch.Client; tests
// substitute fakes.
type ProfileFetcher interface {
	Fetch(ctx context.Context, urlStr string) (*fetch.Page, error)
}

// Options holds the collaborators and settings for one run.
type Options struct {
	Resolver   *matching.Resolver   // required
	Fetcher    ProfileFetcher       // required
	Scorer     *scoring.Scorer      // nil uses default rules
	Aggregator *grouping.Aggregator // nil uses default weights
	Logger     *zap.Logger          // nil is silent

	Institution string // fallback context for entries without one
	Concurrency int    // max entries in flight; 0 means DefaultConcurrency
	Verbose     bool
	DatabaseURL string // optional run-audit store
}

// DefaultConcurrency bounds how many roster entries are processed at once.
// Per-host pacing lives in the fetch client; this only caps goroutines.
const DefaultConcurrency = 4

// Run processes a roster end to end and returns the run report. Per-entry
// failures are isolated into the report; the returned error is non-nil only
// when the run as a whole could not proceed (bad options, cancellation, an
// expired session). After a session expiry the partial report is still
// returned alongside the wrapped AuthExpiredError.
func Run(ctx context.Context, opts Options, roster *types.Roster) (*types.RunReport, error) {
	if opts.Resolver == nil || opts.Fetcher == nil {
		return nil, fmt.Errorf("pipeline: resolver and fetcher are required")
	}
	if roster == nil || len(roster.Entries) == 0 {
		return nil, fmt.Errorf("pipeline: empty roster")
	}

	scorer := opts.Scorer
	if scorer == nil {
		scorer = scoring.NewScorer(nil)
	}
	aggregator := opts.Aggregator
	if aggregator == nil {
		aggregator = grouping.NewAggregator(nil)
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	report := &types.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Entries:   make([]types.EntryResult, len(roster.Entries)),
	}

	// Optional audit store; the run proceeds without it.
	var database *db.DB
	var dbRunID uuid.UUID
	if opts.DatabaseURL != "" {
		var err error
		database, err = db.Connect(ctx, opts.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without run persistence...\n")
			database = nil
		} else {
			defer database.Close()
			dbRunID, err = database.CreateRun(ctx, roster.CourseID, opts.Institution, len(roster.Entries))
			if err != nil {
				fmt.Printf("Warning: Failed to create database run: %v\n", err)
				database = nil
			} else {
				report.RunID = dbRunID.String()
			}
		}
	}

	log := logger.WithRun(opts.Logger, report.RunID)
	log.Info("starting run",
		zap.Int("entries", len(roster.Entries)),
		zap.Int("concurrency", concurrency))

	// Once any host reports an expired session, no new fetches are issued;
	// entries that have not started are marked failed instead. Entries already
	// finished keep their results. The first expiry is latched and returned to
	// the caller so re-authentication can be orchestrated.
	var authFailure atomic.Pointer[fetch.AuthExpiredError]

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, entry := range roster.Entries {
		if entry.CourseContext == "" && opts.Institution != "" {
			entry.CourseContext = opts.Institution
		}

		g.Go(func() error {
			report.Entries[i] = processEntry(gctx, entry, opts.Resolver, opts.Fetcher, scorer, log, &authFailure)
			return nil
		})
	}

	// Goroutines never return errors; Wait only synchronizes.
	_ = g.Wait()

	for _, result := range report.Entries {
		switch {
		case result.Resolution == nil:
			report.Failed++
		case result.Resolution.Status == types.StatusFailedAuth:
			report.Failed++
		case result.Resolution.Resolved():
			report.Resolved++
		default:
			report.Unresolved++
		}
	}

	if vectors := memberVectors(report); len(vectors) >= 2 {
		fit, err := aggregator.GroupFit(vectors)
		if err != nil {
			log.Warn("group fit aggregation failed", zap.Error(err))
		} else {
			report.GroupFit = fit
		}
	}
	report.FinishedAt = time.Now()

	log.Info("run finished",
		zap.Int("resolved", report.Resolved),
		zap.Int("unresolved", report.Unresolved),
		zap.Int("failed", report.Failed))

	if database != nil {
		persistRun(ctx, database, dbRunID, report)
	}

	if opts.Verbose {
		printReport(report)
	}

	if authErr := authFailure.Load(); authErr != nil {
		return report, fmt.Errorf("run aborted after session expiry: %w", authErr)
	}
	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("run interrupted: %w", err)
	}
	return report, nil
}

// processEntry runs the resolve -> fetch -> extract -> score sequence for one
// roster entry. Every failure mode collapses into the returned EntryResult.
func processEntry(ctx context.Context, entry types.RosterEntry,
	resolver *matching.Resolver, fetcher ProfileFetcher, scorer *scoring.Scorer,
	log *zap.Logger, authFailure *atomic.Pointer[fetch.AuthExpiredError]) types.EntryResult {

	result := types.EntryResult{Entry: entry}
	entryLog := log.With(zap.String(logger.FieldStudent, entry.StudentName))

	if authFailure.Load() != nil {
		result.Resolution = &types.Resolution{Entry: entry, Status: types.StatusFailedAuth}
		return result
	}

	resolution, err := resolver.Resolve(ctx, entry)
	if err != nil {
		// Resolve errors only for expired sessions; everything else comes
		// back as an unresolved resolution.
		var authErr *fetch.AuthExpiredError
		if errors.As(err, &authErr) {
			authFailure.CompareAndSwap(nil, authErr)
			entryLog.Error("session expired during search", zap.String(logger.FieldHost, authErr.Host))
		}
		result.Resolution = &types.Resolution{Entry: entry, Status: types.StatusFailedAuth}
		result.Err = err.Error()
		return result
	}
	result.Resolution = resolution
	if !resolution.Resolved() {
		entryLog.Info("entry unresolved", zap.String("reason", resolution.Reason))
		return result
	}

	page, err := fetcher.Fetch(ctx, resolution.ProfileURL)
	if err != nil {
		var authErr *fetch.AuthExpiredError
		if errors.As(err, &authErr) {
			authFailure.CompareAndSwap(nil, authErr)
			entryLog.Error("session expired fetching profile", zap.String(logger.FieldHost, authErr.Host))
			result.Resolution = &types.Resolution{Entry: entry, Status: types.StatusFailedAuth}
		} else {
			entryLog.Warn("profile fetch failed", zap.String(logger.FieldURL, resolution.ProfileURL), zap.Error(err))
			result.Resolution = demote(resolution, types.ReasonFetchFailed)
		}
		result.Err = err.Error()
		return result
	}

	record, err := extraction.Extract(page.URL, page.HTML)
	if err != nil {
		entryLog.Warn("profile parse failed", zap.String(logger.FieldURL, page.URL), zap.Error(err))
		result.Resolution = demote(resolution, types.ReasonParseFailed)
		result.Err = err.Error()
		return result
	}

	result.Profile = record
	result.Traits = scorer.Score(entry.StudentName, record)
	entryLog.Info("entry scored", zap.String(logger.FieldURL, page.URL))
	return result
}

// demote turns a promoted resolution back into an unresolved one while keeping
// the candidate for audit.
func demote(r *types.Resolution, reason string) *types.Resolution {
	out := *r
	out.Status = types.StatusUnresolved
	out.Reason = reason
	return &out
}

func memberVectors(report *types.RunReport) []*types.TraitVector {
	var vectors []*types.TraitVector
	for i := range report.Entries {
		if report.Entries[i].Traits != nil {
			vectors = append(vectors, report.Entries[i].Traits)
		}
	}
	return vectors
}

// persistRun saves the run artifacts; persistence failures are warnings, never
// run failures.
func persistRun(ctx context.Context, database *db.DB, runID uuid.UUID, report *types.RunReport) {
	resolutions := make([]*types.Resolution, 0, len(report.Entries))
	for i := range report.Entries {
		if report.Entries[i].Resolution != nil {
			resolutions = append(resolutions, report.Entries[i].Resolution)
		}
	}

	save := func(step string, content any) {
		if err := database.SaveArtifact(ctx, runID, step, content); err != nil {
			fmt.Printf("Warning: Failed to save %s artifact: %v\n", step, err)
		}
	}
	save(db.StepResolutions, resolutions)
	save(db.StepTraitVectors, report.TraitVectors())
	if report.GroupFit != nil {
		save(db.StepGroupFit, report.GroupFit)
	}
	save(db.StepRunReport, report)

	status := db.StatusCompleted
	if report.Resolved == 0 {
		status = db.StatusFailed
	}
	if err := database.CompleteRun(ctx, runID, status, report.Resolved, report.Unresolved, report.Failed); err != nil {
		fmt.Printf("Warning: Failed to complete database run: %v\n", err)
	}
}

// printReport writes the verbose-mode boxes: summary, trait vectors ordered by
// group-fit relevance, and the group result. The report itself stays in roster
// order.
func printReport(report *types.RunReport) {
	printer := observability.NewPrinter(os.Stdout)
	printer.PrintRunSummary(report)
	printer.PrintTraitVectors(vectorsByFit(report))
	printer.PrintGroupFit(report.GroupFit)
}

// vectorsByFit orders scored members by how well they pair with the rest of the
// group, best first. Without a group result, roster order is kept.
func vectorsByFit(report *types.RunReport) []types.TraitVector {
	vectors := report.TraitVectors()
	if report.GroupFit == nil {
		return vectors
	}

	meanPair := make(map[string]float64, len(vectors))
	counts := make(map[string]int, len(vectors))
	for _, p := range report.GroupFit.Pairwise {
		meanPair[p.Pair.A] += p.Score
		meanPair[p.Pair.B] += p.Score
		counts[p.Pair.A]++
		counts[p.Pair.B]++
	}
	for name, total := range meanPair {
		if counts[name] > 0 {
			meanPair[name] = total / float64(counts[name])
		}
	}

	sort.SliceStable(vectors, func(i, j int) bool {
		return meanPair[vectors[i].StudentName] > meanPair[vectors[j].StudentName]
	})
	return vectors
}
