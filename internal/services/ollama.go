package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/askpane/askpane/internal/models"
	"github.com/askpane/askpane/internal/session"
	"github.com/ollama/ollama/api"
)

// Ollama provides a reply fetcher backed by a local Ollama server. Responses are
// requested non-streaming; the session renders complete answers only.
type Ollama struct {
	host           string
	model          string
	reasoningModel string
	systemPrompt   string

	client *api.Client
}

// NewOllama creates an Ollama backend for the given host URL. If the provided host
// URL is invalid, the function will panic; the host comes from static configuration
// validated at startup.
func NewOllama(host, model, reasoningModel, systemPrompt string) Ollama {
	u, err := url.Parse(host)
	if err != nil {
		panic(err)
	}

	return Ollama{
		host:           host,
		model:          model,
		reasoningModel: reasoningModel,
		systemPrompt:   systemPrompt,
		client:         api.NewClient(u, &http.Client{}),
	}
}

// Fetch sends the question as a two-message chat (system prompt plus user question)
// and collects the single non-streamed response. The reasoning model name is
// substituted when the selected option has reasoning enabled.
func (o Ollama) Fetch(ctx context.Context, question string, model models.ModelOption) session.Outcome {
	msgs := make([]api.Message, 0, 2)
	if o.systemPrompt != "" {
		msgs = append(msgs, api.Message{
			Role:    "system",
			Content: o.systemPrompt,
		})
	}
	msgs = append(msgs, api.Message{
		Role:    "user",
		Content: question,
	})

	upstream := o.model
	if model.ReasoningEnabled && o.reasoningModel != "" {
		upstream = o.reasoningModel
	}

	f := false
	req := api.ChatRequest{
		Model:    upstream,
		Messages: msgs,
		Stream:   &f,
	}

	var answer string

	start := time.Now()
	err := o.client.Chat(ctx, &req, func(res api.ChatResponse) error {
		answer = res.Message.Content
		return nil
	})
	latency := time.Since(start)

	if err != nil {
		return session.Outcome{
			Latency: latency,
			Err:     fmt.Errorf("error sending request: %w", err),
		}
	}

	return session.Outcome{Answer: answer, Latency: latency}
}
