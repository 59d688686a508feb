// Package extraction parses fetched profile pages into structured records.
package extraction

import "fmt"

// ParseError means the page was structurally unrecognizable as a profile, such
// as an interstitial or error page. Missing sections on a real profile are not
// a ParseError; they yield empty containers.
type ParseError struct {
	URL     string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error for %s: %s", e.URL, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
