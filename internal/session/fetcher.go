package session

import (
	"context"
	"time"

	"github.com/askpane/askpane/internal/models"
)

// Outcome is the result of a single reply fetch. Exactly one of the two variants
// holds: a successful answer with its measured latency, or a failure carried in Err.
// The failure cause is kept for logging only; the session controller collapses every
// failure into the same user-facing fallback notice.
type Outcome struct {
	Answer  string
	Latency time.Duration
	Err     error
}

// Failed reports whether the fetch failed. Transport errors, non-success status
// codes, and malformed response bodies all count the same.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Fetcher performs the single-shot call to the remote answer service. Implementations
// issue exactly one request per Fetch call, never retry, and never panic or return
// through any path other than the Outcome value.
type Fetcher interface {
	Fetch(ctx context.Context, question string, model models.ModelOption) Outcome
}
