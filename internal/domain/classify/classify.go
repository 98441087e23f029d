// Package classify defines the typed outcome of an external category
// classification. Whatever shape the provider answers with, the adapter
// collapses it into exactly one of two tags: a match naming one of the
// offered candidates, or an explicit no-match with a reason.
package classify

import "github.com/kailas-cloud/prodfind/internal/domain/catalog"

// Outcome is the classification result variant.
type Outcome struct {
	matched   bool
	candidate catalog.Candidate
	reason    string
}

// Match builds a matched outcome.
func Match(c catalog.Candidate) Outcome {
	return Outcome{matched: true, candidate: c}
}

// NoMatch builds a no-match outcome with a diagnostic reason.
func NoMatch(reason string) Outcome {
	return Outcome{reason: reason}
}

// Matched returns the winning candidate if the classifier picked one.
func (o Outcome) Matched() (catalog.Candidate, bool) {
	return o.candidate, o.matched
}

// Reason returns the no-match reason, empty for matched outcomes.
func (o Outcome) Reason() string { return o.reason }
