package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priya/group-scout/internal/fetch"
)

const resultsPage = `
<html><body>
<ol id="b_results">
  <li class="b_algo">
    <h2><a href="https://www.linkedin.com/in/jordan-lee-1a2b?trk=search">Jordan Lee - Software Engineer at Acme | LinkedIn</a></h2>
    <p>Jordan Lee. Software Engineer at Acme. Northeastern University.</p>
  </li>
  <li class="b_algo">
    <h2><a href="https://www.example.com/jordan-lee">Jordan Lee | Example Directory</a></h2>
    <p>Unrelated directory listing.</p>
  </li>
  <li class="b_algo">
    <div class="b_tpcn"><a class="tilk" href="https://www.linkedin.com/in/j-lee-9z8y/">LinkedIn</a></div>
    <h2>J. Lee - Student | LinkedIn</h2>
    <p>J. Lee. Student at Northeastern University.</p>
  </li>
</ol>
</body></html>`

func TestParseResultsPage(t *testing.T) {
	candidates, err := ParseResultsPage(resultsPage)
	require.NoError(t, err)
	require.Len(t, candidates, 2, "non-profile links must be dropped")

	assert.Equal(t, "https://www.linkedin.com/in/jordan-lee-1a2b", candidates[0].ProfileURL)
	assert.Equal(t, "Jordan Lee", candidates[0].DisplayName)
	assert.Contains(t, candidates[0].HeadlineText, "Software Engineer at Acme")
	assert.Contains(t, candidates[0].HeadlineText, "Northeastern University")

	assert.Equal(t, "https://www.linkedin.com/in/j-lee-9z8y", candidates[1].ProfileURL)
	assert.Equal(t, "J. Lee", candidates[1].DisplayName)
}

func TestParseResultsPage_NoResultsList(t *testing.T) {
	candidates, err := ParseResultsPage("<html><body><p>Something went wrong.</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestSplitResultTitle(t *testing.T) {
	tests := []struct {
		title    string
		name     string
		headline string
	}{
		{"Jordan Lee - Software Engineer | LinkedIn", "Jordan Lee", "Software Engineer"},
		{"Jordan Lee | LinkedIn", "Jordan Lee", ""},
		{"Jordan Lee", "Jordan Lee", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		name, headline := SplitResultTitle(tt.title)
		assert.Equal(t, tt.name, name)
		assert.Equal(t, tt.headline, headline)
	}
}

func TestQuery_String(t *testing.T) {
	q := Query{Name: "Jordan Lee", Institution: "Northeastern University"}
	assert.Equal(t, `"Jordan Lee" "Northeastern University" site:linkedin.com/in/`, q.String())

	partial := Query{Name: "Jordan Lee"}
	assert.Equal(t, `"Jordan Lee" site:linkedin.com/in/`, partial.String())
}

func TestHTMLSource_Search(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer server.Close()

	client := fetch.NewClient(fetch.NewHTTPFetcher(time.Second, nil), &fetch.Options{
		MinInterval: time.Millisecond,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  time.Millisecond,
		MaxAttempts: 1,
		Timeout:     time.Second,
	}, nil)
	source := NewHTMLSource(client, server.URL)

	candidates, err := source.Search(context.Background(), Query{Name: "Jordan Lee", Institution: "Northeastern University"})
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
	assert.Contains(t, gotQuery, `"Jordan Lee"`)
	assert.Contains(t, gotQuery, "site:linkedin.com/in/")
}
