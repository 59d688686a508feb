package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priya/group-scout/internal/fetch"
	"github.com/priya/group-scout/internal/matching"
	"github.com/priya/group-scout/internal/search"
	"github.com/priya/group-scout/internal/types"
)

// fakeSource returns one exact-name candidate per query, so every entry
// resolves above the default threshold.
type fakeSource struct {
	mu       sync.Mutex
	searched []string
	failFor  map[string]error
}

func (s *fakeSource) Search(_ context.Context, q search.Query) ([]types.MatchCandidate, error) {
	s.mu.Lock()
	s.searched = append(s.searched, q.Name)
	s.mu.Unlock()

	if err, ok := s.failFor[q.Name]; ok {
		return nil, err
	}
	return []types.MatchCandidate{{
		ProfileURL:  profileURL(q.Name),
		DisplayName: q.Name,
	}}, nil
}

// fakeFetcher serves canned profile pages keyed by URL.
type fakeFetcher struct {
	mu      sync.Mutex
	fetched []string
	pages   map[string]string
	errors  map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, urlStr string) (*fetch.Page, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, urlStr)
	f.mu.Unlock()

	if err, ok := f.errors[urlStr]; ok {
		return nil, err
	}
	html, ok := f.pages[urlStr]
	if !ok {
		html = profilePage("Somebody", "Student")
	}
	return &fetch.Page{URL: urlStr, HTML: html, StatusCode: 200}, nil
}

func profileURL(name string) string {
	return "https://www.linkedin.com/in/" + strings.ToLower(strings.ReplaceAll(name, " ", "-"))
}

func profilePage(name, headline string) string {
	return fmt.Sprintf(`<html><body>
		<main>
			<h1>%s</h1>
			<div class="text-body-medium">%s</div>
		</main>
	</body></html>`, name, headline)
}

func rosterOf(names ...string) *types.Roster {
	r := &types.Roster{CourseID: "CS4500"}
	for _, name := range names {
		r.Entries = append(r.Entries, types.RosterEntry{StudentName: name})
	}
	return r
}

func testOptions(source search.Source, fetcher ProfileFetcher) Options {
	return Options{
		Resolver:    matching.NewResolver(source, matching.DefaultConfidenceThreshold, nil),
		Fetcher:     fetcher,
		Concurrency: 1,
	}
}

func TestRun_AllEntriesResolveAndScore(t *testing.T) {
	source := &fakeSource{}
	fetcher := &fakeFetcher{}
	roster := rosterOf("Jordan Lee", "Sam Patel", "Ana Silva")

	report, err := Run(context.Background(), testOptions(source, fetcher), roster)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Resolved)
	assert.Equal(t, 0, report.Unresolved)
	assert.Equal(t, 0, report.Failed)
	require.Len(t, report.Entries, 3)

	// Report preserves roster order.
	assert.Equal(t, "Jordan Lee", report.Entries[0].Entry.StudentName)
	assert.Equal(t, "Ana Silva", report.Entries[2].Entry.StudentName)

	for _, entry := range report.Entries {
		require.NotNil(t, entry.Traits, "entry %s should have traits", entry.Entry.StudentName)
		require.NotNil(t, entry.Profile)
	}

	// Three scored members give a group result with three pairs.
	require.NotNil(t, report.GroupFit)
	assert.Len(t, report.GroupFit.Pairwise, 3)
	assert.NotEmpty(t, report.RunID)
}

func TestRun_EmptyRoster(t *testing.T) {
	_, err := Run(context.Background(), testOptions(&fakeSource{}, &fakeFetcher{}), &types.Roster{})
	assert.Error(t, err)
}

func TestRun_MissingCollaborators(t *testing.T) {
	_, err := Run(context.Background(), Options{}, rosterOf("Jordan Lee"))
	assert.Error(t, err)
}

func TestRun_SearchFailureIsolatedToEntry(t *testing.T) {
	source := &fakeSource{failFor: map[string]error{
		"Sam Patel": &fetch.NetworkError{URL: "https://search.example", Message: "connection reset"},
	}}
	fetcher := &fakeFetcher{}
	roster := rosterOf("Jordan Lee", "Sam Patel", "Ana Silva")

	report, err := Run(context.Background(), testOptions(source, fetcher), roster)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Resolved)
	assert.Equal(t, 1, report.Unresolved)
	assert.Equal(t, 0, report.Failed)

	failed := report.Entries[1]
	require.NotNil(t, failed.Resolution)
	assert.Equal(t, types.StatusUnresolved, failed.Resolution.Status)
	assert.Equal(t, types.ReasonFetchFailed, failed.Resolution.Reason)
}

func TestRun_ProfileFetchFailureDemotesEntry(t *testing.T) {
	source := &fakeSource{}
	fetcher := &fakeFetcher{errors: map[string]error{
		profileURL("Sam Patel"): &fetch.NetworkError{URL: profileURL("Sam Patel"), Message: "retry attempts exhausted"},
	}}
	roster := rosterOf("Jordan Lee", "Sam Patel")

	report, err := Run(context.Background(), testOptions(source, fetcher), roster)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Resolved)
	assert.Equal(t, 1, report.Unresolved)

	demoted := report.Entries[1]
	assert.Equal(t, types.ReasonFetchFailed, demoted.Resolution.Reason)
	assert.Nil(t, demoted.Traits)
	// Only one scored member, so no group result.
	assert.Nil(t, report.GroupFit)
}

func TestRun_ParseFailureDemotesEntry(t *testing.T) {
	source := &fakeSource{}
	fetcher := &fakeFetcher{pages: map[string]string{
		profileURL("Sam Patel"): `<html><body><form class="login__form"></form></body></html>`,
	}}
	roster := rosterOf("Jordan Lee", "Sam Patel")

	report, err := Run(context.Background(), testOptions(source, fetcher), roster)
	require.NoError(t, err)

	demoted := report.Entries[1]
	assert.Equal(t, types.StatusUnresolved, demoted.Resolution.Status)
	assert.Equal(t, types.ReasonParseFailed, demoted.Resolution.Reason)
}

// An expired session stops new fetches; entries processed before the expiry
// keep their results, everything after is marked failed, and the expiry is
// escalated to the caller with the partial report.
func TestRun_AuthExpiryAbandonsRemainingEntries(t *testing.T) {
	names := make([]string, 10)
	for i := range names {
		names[i] = fmt.Sprintf("Student %c", 'A'+i)
	}
	roster := rosterOf(names...)

	source := &fakeSource{failFor: map[string]error{
		names[4]: &fetch.AuthExpiredError{URL: "https://search.example", Host: "search.example"},
	}}
	fetcher := &fakeFetcher{}

	report, err := Run(context.Background(), testOptions(source, fetcher), roster)
	require.Error(t, err)
	var authErr *fetch.AuthExpiredError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "search.example", authErr.Host)
	require.NotNil(t, report)

	// With concurrency 1 the first four entries complete normally.
	assert.Equal(t, 4, report.Resolved)
	assert.Equal(t, 0, report.Unresolved)
	assert.Equal(t, 6, report.Failed)

	for i := 0; i < 4; i++ {
		assert.Equal(t, types.StatusResolved, report.Entries[i].Resolution.Status)
		assert.NotNil(t, report.Entries[i].Traits)
	}
	for i := 4; i < 10; i++ {
		assert.Equal(t, types.StatusFailedAuth, report.Entries[i].Resolution.Status, "entry %d", i)
	}

	// No searches were issued after the expiry.
	source.mu.Lock()
	searches := len(source.searched)
	source.mu.Unlock()
	assert.Equal(t, 5, searches)
}

// A session expiry during a profile fetch is escalated the same way as one
// during search, not buried in the per-entry results.
func TestRun_AuthExpiryDuringProfileFetchIsEscalated(t *testing.T) {
	source := &fakeSource{}
	fetcher := &fakeFetcher{errors: map[string]error{
		profileURL("Sam Patel"): &fetch.AuthExpiredError{URL: profileURL("Sam Patel"), Host: "www.linkedin.com"},
	}}
	roster := rosterOf("Jordan Lee", "Sam Patel", "Ana Silva")

	report, err := Run(context.Background(), testOptions(source, fetcher), roster)
	require.Error(t, err)
	var authErr *fetch.AuthExpiredError
	require.ErrorAs(t, err, &authErr)

	require.NotNil(t, report)
	assert.Equal(t, 1, report.Resolved)
	assert.Equal(t, 2, report.Failed)
	assert.Equal(t, types.StatusFailedAuth, report.Entries[1].Resolution.Status)
	assert.Equal(t, types.StatusFailedAuth, report.Entries[2].Resolution.Status)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &fakeSource{}
	fetcher := &fakeFetcher{}

	report, err := Run(ctx, testOptions(source, fetcher), rosterOf("Jordan Lee", "Sam Patel"))
	require.Error(t, err)
	require.NotNil(t, report)
	assert.Len(t, report.Entries, 2)
}

func TestVectorsByFit_OrdersBestFirst(t *testing.T) {
	report := &types.RunReport{
		Entries: []types.EntryResult{
			{Traits: &types.TraitVector{StudentName: "a"}},
			{Traits: &types.TraitVector{StudentName: "b"}},
			{Traits: &types.TraitVector{StudentName: "c"}},
		},
		GroupFit: &types.GroupFitResult{
			Pairwise: []types.PairScore{
				{Pair: types.NewPairKey("a", "b"), Score: 40},
				{Pair: types.NewPairKey("a", "c"), Score: 50},
				{Pair: types.NewPairKey("b", "c"), Score: 90},
			},
		},
	}

	ordered := vectorsByFit(report)
	require.Len(t, ordered, 3)
	// c averages 70, b averages 65, a averages 45.
	assert.Equal(t, "c", ordered[0].StudentName)
	assert.Equal(t, "b", ordered[1].StudentName)
	assert.Equal(t, "a", ordered[2].StudentName)
}
