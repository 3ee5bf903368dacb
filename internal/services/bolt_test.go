package services_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/askpane/askpane/internal/services"
)

func newTestJournal(t *testing.T) *services.FetchJournal {
	t.Helper()

	journal, err := services.NewFetchJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("NewFetchJournal() error = %v", err)
	}
	t.Cleanup(func() {
		if err := journal.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return journal
}

func TestFetchJournalRoundTrip(t *testing.T) {
	journal := newTestJournal(t)

	at := time.Now().UTC().Truncate(time.Millisecond)
	samples := []services.FetchSample{
		{Model: "standard", LatencyMs: 120, At: at},
		{Model: "extended", Reasoning: true, LatencyMs: 950, At: at.Add(time.Second)},
		{Model: "standard", LatencyMs: 80, Failed: true, At: at.Add(2 * time.Second)},
	}
	for _, s := range samples {
		if err := journal.Record(s); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := journal.Samples(0)
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("sample count = %d, want 3", len(got))
	}

	// Newest first.
	if got[0].Model != "standard" || !got[0].Failed {
		t.Errorf("newest sample = %+v, want the failed standard fetch", got[0])
	}
	if got[2].LatencyMs != 120 {
		t.Errorf("oldest sample latency = %d, want 120", got[2].LatencyMs)
	}
	if !got[1].Reasoning {
		t.Error("middle sample should have reasoning set")
	}
}

func TestFetchJournalSamplesLimit(t *testing.T) {
	journal := newTestJournal(t)

	for i := 0; i < 5; i++ {
		if err := journal.Record(services.FetchSample{Model: "standard", LatencyMs: int64(i)}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	got, err := journal.Samples(2)
	if err != nil {
		t.Fatalf("Samples() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("sample count = %d, want 2", len(got))
	}
	if got[0].LatencyMs != 4 || got[1].LatencyMs != 3 {
		t.Errorf("samples = %+v, want the two newest", got)
	}
}
