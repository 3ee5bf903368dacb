package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/askpane/askpane/internal/models"
	"github.com/askpane/askpane/internal/session"
	"github.com/sashabaranov/go-openai"
)

// OpenAI provides a reply fetcher backed by an OpenAI-compatible chat completion
// endpoint. Each question is sent as a fresh single-shot completion; conversation
// history stays on our side of the wire.
type OpenAI struct {
	model          string
	reasoningModel string
	systemPrompt   string

	client *openai.Client
}

// NewOpenAI creates an OpenAI backend. The reasoning model name is used instead of
// the base model whenever the selected option has reasoning enabled; when it is
// empty the base model serves both modes.
func NewOpenAI(apiKey, model, reasoningModel, systemPrompt string) OpenAI {
	return OpenAI{
		model:          model,
		reasoningModel: reasoningModel,
		systemPrompt:   systemPrompt,
		client:         openai.NewClient(apiKey),
	}
}

// Fetch sends the question as a one-message completion request and returns the first
// choice's content. Any transport or API error, and a response without choices, maps
// to a failed Outcome.
func (o OpenAI) Fetch(ctx context.Context, question string, model models.ModelOption) session.Outcome {
	msgs := make([]openai.ChatCompletionMessage, 0, 2)
	if o.systemPrompt != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: o.systemPrompt,
		})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: question,
	})

	upstream := o.model
	if model.ReasoningEnabled && o.reasoningModel != "" {
		upstream = o.reasoningModel
	}

	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    upstream,
		Messages: msgs,
	})
	latency := time.Since(start)

	if err != nil {
		return session.Outcome{
			Latency: latency,
			Err:     fmt.Errorf("error sending request: %w", err),
		}
	}
	if len(resp.Choices) == 0 {
		return session.Outcome{
			Latency: latency,
			Err:     errors.New("no choices found"),
		}
	}

	return session.Outcome{Answer: resp.Choices[0].Message.Content, Latency: latency}
}
