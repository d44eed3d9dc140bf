// Package algorithm defines the extraction strategy contract and the
// name-to-factory registry used to compose the pipeline.
package algorithm

import (
	"context"

	"github.com/sells-group/vocab-cli/internal/model"
)

// Options carries per-call tuning shared by all strategies.
type Options struct {
	// MaxCandidates caps how many candidates a strategy may return.
	// Zero means no cap.
	MaxCandidates int
	// DocumentCountHint is an optional hint about how many source documents
	// the input text spans, used for frequency-ceiling tuning.
	DocumentCountHint int
}

// Extractor is the uniform contract every extraction strategy implements.
// Implementations must be side-effect free on shared state other than their
// own configuration: the same text with the same options yields the same
// result regardless of what ran before.
type Extractor interface {
	// Name returns the strategy's unique registry identifier.
	Name() string
	// Weight returns the strategy's relative trust weight used during
	// cross-algorithm merging.
	Weight() float64
	// Extract proposes candidate terms from the given text.
	Extract(ctx context.Context, text string, opts Options) (*model.AlgorithmResult, error)
}
