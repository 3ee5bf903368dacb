package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/askpane/askpane/internal/models"
)

// DefaultGreeting seeds the conversation when no greeting is configured.
const DefaultGreeting = "Hi! Ask me anything and I'll do my best to answer."

// DefaultFallbackNotice is appended in place of an answer whenever the fetch fails.
// It is the only failure surface the user ever sees.
const DefaultFallbackNotice = "Sorry, I couldn't reach the answer service just now. " +
	"Please try again in a moment."

const errLoggerKey = "err"

// Config carries the collaborators and fixed texts for a Controller.
type Config struct {
	Fetcher  Fetcher
	Registry *Registry

	// Greeting is the seeded assistant message. DefaultGreeting when empty.
	Greeting string
	// FallbackNotice replaces the answer on fetch failure. DefaultFallbackNotice
	// when empty.
	FallbackNotice string

	Logger *slog.Logger
}

// Controller owns the session state machine. It has two states, idle and awaiting
// reply, tracked by the pending flag: at most one reply fetch is outstanding at any
// time, and user submissions made while one is outstanding are silently dropped.
//
// All state mutation happens through SubmitUserText and SelectModel; the presentation
// layer only ever observes copies via Snapshot.
type Controller struct {
	fetcher  Fetcher
	registry *Registry
	logger   *slog.Logger

	fallbackNotice string

	mu      sync.Mutex
	store   *Store
	active  models.ModelOption
	pending bool
	onReply func(models.Message)
}

// NewController creates a session seeded with one assistant greeting message and the
// registry's default model as the active selection.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}

	greeting := cfg.Greeting
	if greeting == "" {
		greeting = DefaultGreeting
	}
	fallback := cfg.FallbackNotice
	if fallback == "" {
		fallback = DefaultFallbackNotice
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		fetcher:        cfg.Fetcher,
		registry:       cfg.Registry,
		logger:         logger.With(slog.String("module", "session")),
		fallbackNotice: fallback,
		store:          NewStore(),
		active:         cfg.Registry.Default(),
	}
	c.store.Append(models.RoleAssistant, greeting)

	return c, nil
}

// OnReply registers a hook invoked with the appended assistant message each time a
// pending reply resolves. The hook runs outside the controller lock, after the
// transition back to idle.
func (c *Controller) OnReply(fn func(models.Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onReply = fn
}

// SubmitUserText accepts a user turn. The text is trimmed of surrounding whitespace;
// blank submissions and submissions made while a reply is already pending are
// rejected without any state change, and the second return value reports whether the
// submission was accepted.
//
// On acceptance the user message is appended, the session transitions to awaiting
// reply, and the fetch runs on its own goroutine with the model configuration
// captured at this moment. Control returns immediately.
func (c *Controller) SubmitUserText(text string) (models.Message, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.Message{}, false
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		c.logger.Debug("Submission ignored while reply pending")
		return models.Message{}, false
	}
	msg := c.store.Append(models.RoleUser, trimmed)
	c.pending = true
	model := c.active
	c.mu.Unlock()

	go c.awaitReply(trimmed, model)

	return msg, true
}

// SelectModel switches the active model. Valid in either state; an in-flight fetch
// keeps the configuration it captured at submission time. The derived reasoning flag
// always comes from the catalog entry, so selection and flag cannot drift apart.
func (c *Controller) SelectModel(id string) error {
	opt, err := c.registry.Resolve(id)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.active = opt
	c.mu.Unlock()

	c.logger.Info("Model selected",
		slog.String("model", opt.ID),
		slog.Bool("reasoning", opt.ReasoningEnabled))
	return nil
}

// Snapshot returns an immutable copy of the session state.
func (c *Controller) Snapshot() models.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return models.SessionState{
		Messages:         c.store.Messages(),
		PendingReply:     c.pending,
		ActiveModelID:    c.active.ID,
		ReasoningEnabled: c.active.ReasoningEnabled,
		Models:           c.registry.Options(),
	}
}

// Pending reports whether a reply is currently outstanding.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *Controller) awaitReply(question string, model models.ModelOption) {
	out := c.fetcher.Fetch(context.Background(), question, model)

	content := out.Answer
	if out.Failed() {
		c.logger.Error("Reply fetch failed",
			slog.String("model", model.ID),
			slog.String(errLoggerKey, out.Err.Error()))
		content = c.fallbackNotice
	}

	c.mu.Lock()
	msg := c.store.Append(models.RoleAssistant, content)
	c.pending = false
	hook := c.onReply
	c.mu.Unlock()

	if hook != nil {
		hook(msg)
	}
}
