package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/askpane/askpane/internal/models"
	"github.com/askpane/askpane/internal/services"
)

func TestAnswerdFetchSuccess(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"answer": "hi there"})
	}))
	defer srv.Close()

	fetcher := services.NewAnswerd(srv.URL)
	out := fetcher.Fetch(context.Background(), "hello", models.ModelOption{
		ID:               "extended",
		ReasoningEnabled: true,
	})

	if out.Failed() {
		t.Fatalf("Fetch() failed: %v", out.Err)
	}
	if out.Answer != "hi there" {
		t.Errorf("answer = %q, want %q", out.Answer, "hi there")
	}
	if out.Latency <= 0 {
		t.Error("latency should be measured")
	}

	if gotBody["question"] != "hello" {
		t.Errorf("request question = %v, want hello", gotBody["question"])
	}
	if gotBody["reasoning"] != true {
		t.Errorf("request reasoning = %v, want true", gotBody["reasoning"])
	}
}

func TestAnswerdFetchFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "upstream exploded", http.StatusBadGateway)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json at all"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			fetcher := services.NewAnswerd(srv.URL)
			out := fetcher.Fetch(context.Background(), "hello", models.ModelOption{ID: "standard"})

			if !out.Failed() {
				t.Fatalf("Fetch() = %+v, want failure", out)
			}
			if out.Latency <= 0 {
				t.Error("latency should be measured even on failure")
			}
		})
	}
}

func TestAnswerdFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	fetcher := services.NewAnswerd(srv.URL)
	out := fetcher.Fetch(context.Background(), "hello", models.ModelOption{ID: "standard"})

	if !out.Failed() {
		t.Fatal("Fetch() against a closed server should fail")
	}
}
