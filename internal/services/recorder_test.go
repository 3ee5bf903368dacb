package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/askpane/askpane/internal/models"
	"github.com/askpane/askpane/internal/services"
	"github.com/askpane/askpane/internal/session"
)

type staticFetcher struct {
	outcome session.Outcome
}

func (f staticFetcher) Fetch(context.Context, string, models.ModelOption) session.Outcome {
	return f.outcome
}

func TestRecorderJournalsOutcomes(t *testing.T) {
	journal := newTestJournal(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ok := services.NewRecorder(staticFetcher{
		outcome: session.Outcome{Answer: "hi", Latency: 150 * time.Millisecond},
	}, journal, logger)
	failed := services.NewRecorder(staticFetcher{
		outcome: session.Outcome{Err: errors.New("boom"), Latency: 30 * time.Millisecond},
	}, journal, logger)

	out := ok.Fetch(context.Background(), "q", models.ModelOption{ID: "standard"})
	if out.Failed() || out.Answer != "hi" {
		t.Fatalf("recorder changed the outcome: %+v", out)
	}

	out = failed.Fetch(context.Background(), "q", models.ModelOption{ID: "extended", ReasoningEnabled: true})
	if !out.Failed() {
		t.Fatal("recorder swallowed the failure")
	}

	samples, err := journal.Samples(0)
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("sample count = %d, want 2", len(samples))
	}
	if !samples[0].Failed || samples[0].Model != "extended" || !samples[0].Reasoning {
		t.Errorf("newest sample = %+v, want failed extended fetch", samples[0])
	}
	if samples[1].Failed || samples[1].LatencyMs != 150 {
		t.Errorf("oldest sample = %+v, want successful 150ms fetch", samples[1])
	}
}

func TestRecorderWithoutJournal(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := services.NewRecorder(staticFetcher{outcome: session.Outcome{Answer: "hi"}}, nil, logger)

	out := rec.Fetch(context.Background(), "q", models.ModelOption{ID: "standard"})
	if out.Failed() {
		t.Fatalf("Fetch() failed: %v", out.Err)
	}
}
