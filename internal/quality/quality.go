// Package quality defines the contract with the external AI service that
// derives a candidate quality signal from free-form summary text.
package quality

import "context"

// Assessment is the externally derived quality signal for one candidate. The
// engine treats it as opaque input: Score feeds the aggregator, the rest is
// carried through for the presentation layer.
type Assessment struct {
	// Score is the candidate quality on a 0-100 scale.
	Score float64
	// ExperienceYears is the extracted relevant experience estimate.
	ExperienceYears int
	// Rationale is the service's free-text justification.
	Rationale string
	// Raw keeps the unparsed provider response for debugging.
	Raw string
	// Error is set when extraction failed for this record; the record is
	// flagged and the run continues without a quality signal.
	Error string
}

// Extractor evaluates one candidate summary.
type Extractor interface {
	Extract(ctx context.Context, candidateID, summary string) (*Assessment, error)
}
