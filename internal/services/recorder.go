package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/askpane/askpane/internal/models"
	"github.com/askpane/askpane/internal/session"
)

// Recorder wraps a fetcher with latency observability: every fetch is logged and,
// when a journal is attached, persisted as a sample. Latency is operator-facing
// only; it never reaches the rendered conversation.
type Recorder struct {
	next    session.Fetcher
	journal *FetchJournal
	logger  *slog.Logger
}

// NewRecorder creates a Recorder around next. The journal may be nil, in which case
// samples are logged but not persisted.
func NewRecorder(next session.Fetcher, journal *FetchJournal, logger *slog.Logger) Recorder {
	return Recorder{
		next:    next,
		journal: journal,
		logger:  logger.With(slog.String("module", "fetcher")),
	}
}

// Fetch delegates to the wrapped fetcher and records the outcome.
func (r Recorder) Fetch(ctx context.Context, question string, model models.ModelOption) session.Outcome {
	out := r.next.Fetch(ctx, question, model)

	if out.Failed() {
		r.logger.Error("Fetch failed",
			slog.String("model", model.ID),
			slog.Bool("reasoning", model.ReasoningEnabled),
			slog.Int64("latencyMs", out.Latency.Milliseconds()),
			slog.String("err", out.Err.Error()))
	} else {
		r.logger.Info("Answer received",
			slog.String("model", model.ID),
			slog.Bool("reasoning", model.ReasoningEnabled),
			slog.Int64("latencyMs", out.Latency.Milliseconds()))
	}

	if r.journal != nil {
		sample := FetchSample{
			Model:     model.ID,
			Reasoning: model.ReasoningEnabled,
			LatencyMs: out.Latency.Milliseconds(),
			Failed:    out.Failed(),
			At:        time.Now(),
		}
		if err := r.journal.Record(sample); err != nil {
			r.logger.Error("Failed to record fetch sample", slog.String("err", err.Error()))
		}
	}

	return out
}
