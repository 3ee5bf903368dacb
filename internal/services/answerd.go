package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/askpane/askpane/internal/models"
	"github.com/askpane/askpane/internal/session"
)

// Answerd talks to the answer service over its plain JSON contract: one POST per
// question carrying the reasoning flag, one answer back. There is no streaming,
// retrying, or cancellation beyond what the transport itself provides.
type Answerd struct {
	endpoint string
	client   *http.Client
}

type answerdRequest struct {
	Question  string `json:"question"`
	Reasoning bool   `json:"reasoning"`
}

type answerdResponse struct {
	Answer string `json:"answer"`
}

// NewAnswerd creates an Answerd backend pointed at the given endpoint URL.
func NewAnswerd(endpoint string) Answerd {
	return Answerd{
		endpoint: endpoint,
		client:   &http.Client{},
	}
}

// Fetch issues exactly one request and maps every failure mode, whether transport
// error, non-success status, or an undecodable body, into the same failed Outcome.
// Wall-clock latency is measured from request start to response receipt either way.
func (a Answerd) Fetch(ctx context.Context, question string, model models.ModelOption) session.Outcome {
	body, err := json.Marshal(answerdRequest{
		Question:  question,
		Reasoning: model.ReasoningEnabled,
	})
	if err != nil {
		return session.Outcome{Err: fmt.Errorf("error marshaling request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return session.Outcome{Err: fmt.Errorf("error creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()

	resp, err := a.client.Do(req)
	if err != nil {
		return session.Outcome{
			Latency: time.Since(start),
			Err:     fmt.Errorf("error sending request: %w", err),
		}
	}
	defer resp.Body.Close()

	latency := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return session.Outcome{
			Latency: latency,
			Err:     fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody)),
		}
	}

	var res answerdResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return session.Outcome{
			Latency: latency,
			Err:     fmt.Errorf("error decoding response: %w", err),
		}
	}

	return session.Outcome{Answer: res.Answer, Latency: latency}
}
