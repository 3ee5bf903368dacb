package handlers

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	askpane "github.com/askpane/askpane"
	"github.com/askpane/askpane/internal/models"
	"github.com/askpane/askpane/internal/services"
	"github.com/askpane/askpane/internal/session"
	"github.com/tmaxmax/go-sse"
)

const errLoggerKey = "err"

const messagesSSETopic = "messages"

// SSE event types for real-time updates.
var messagesSSEType = sse.Type("messages")

// Main wires the session controller to the browser: it renders the page and message
// partials from controller snapshots, accepts the two user intents over HTTP, and
// pushes resolved replies to connected clients through server-sent events.
type Main struct {
	sseSrv    *sse.Server
	templates *template.Template

	controller *session.Controller
	journal    *services.FetchJournal

	logger *slog.Logger
}

// NewMain creates a Main instance around the given controller. It parses the HTML
// templates from the embedded filesystem, configures the SSE server, and registers
// the controller's reply hook so resolved replies reach the browser. The journal may
// be nil; the stats endpoint then reports no samples.
func NewMain(
	controller *session.Controller,
	journal *services.FetchJournal,
	logger *slog.Logger,
) (Main, error) {
	// We parse templates from three distinct directories to separate layout, pages, and partial views
	tmpl, err := template.ParseFS(
		askpane.TemplateFS,
		"templates/layout/*.html",
		"templates/pages/*.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return Main{}, err
	}

	m := Main{
		sseSrv: &sse.Server{
			OnSession: func(s *sse.Session) (sse.Subscription, bool) {
				return sse.Subscription{
					Client:      s,
					LastEventID: s.LastEventID,
					Topics:      []string{sse.DefaultTopic, messagesSSETopic},
				}, true
			},
		},
		templates:  tmpl,
		controller: controller,
		journal:    journal,
		logger:     logger.With(slog.String("module", "handlers")),
	}

	controller.OnReply(m.publishReply)

	return m, nil
}

// HandleSSE serves the event stream browsers subscribe to for reply pushes.
func (m Main) HandleSSE(w http.ResponseWriter, r *http.Request) {
	m.sseSrv.ServeHTTP(w, r)
}

// Shutdown gracefully terminates the SSE server. It broadcasts a close message to
// all connected clients and waits up to 5 seconds for connections to terminate.
func (m Main) Shutdown(ctx context.Context) error {
	e := &sse.Message{Type: sse.Type("closeChat")}
	// We create a close event that complies with SSE spec requiring data
	e.AppendData("bye")

	// We ignore the error here since we're shutting down anyway
	_ = m.sseSrv.Publish(e)

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	return m.sseSrv.Shutdown(ctx)
}

// publishReply renders the resolved assistant message and publishes it to every
// subscribed client. Runs on the controller's reply goroutine.
func (m Main) publishReply(msg models.Message) {
	view, err := m.messageView(msg)
	if err != nil {
		m.logger.Error("Failed to render reply content", slog.String(errLoggerKey, err.Error()))
		return
	}

	var sb strings.Builder
	if err := m.templates.ExecuteTemplate(&sb, "ai_message", view); err != nil {
		m.logger.Error("Failed to execute ai_message template", slog.String(errLoggerKey, err.Error()))
		return
	}

	e := sse.Message{Type: messagesSSEType}
	e.AppendData(sb.String())

	if err := m.sseSrv.Publish(&e, messagesSSETopic); err != nil {
		m.logger.Error("Failed to publish reply", slog.String(errLoggerKey, err.Error()))
	}
}

func (m Main) messageView(msg models.Message) (message, error) {
	content, err := models.RenderMarkdown(msg.Content)
	if err != nil {
		return message{}, err
	}
	return message{
		ID:        msg.ID,
		Role:      string(msg.Role),
		Content:   template.HTML(content),
		Timestamp: msg.CreatedAt,
	}, nil
}
