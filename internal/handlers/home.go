package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"
)

type message struct {
	ID        string
	Role      string
	Content   template.HTML
	Timestamp time.Time
}

type modelOption struct {
	ID     string
	Label  string
	Hint   string
	Active bool
}

type homePageData struct {
	Messages     []message
	Models       []modelOption
	PendingReply bool
}

// HandleHome renders the full conversation page from the current session snapshot:
// the message thread, the model selector with the active entry marked, and the
// pending flag that disables input while a reply is outstanding.
func (m Main) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	state := m.controller.Snapshot()

	msgs := make([]message, 0, len(state.Messages))
	for _, msg := range state.Messages {
		view, err := m.messageView(msg)
		if err != nil {
			m.logger.Error("Failed to render message content",
				slog.String("messageID", msg.ID),
				slog.String(errLoggerKey, err.Error()))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		msgs = append(msgs, view)
	}

	opts := make([]modelOption, len(state.Models))
	for i, opt := range state.Models {
		opts[i] = modelOption{
			ID:     opt.ID,
			Label:  opt.Label,
			Hint:   opt.Hint,
			Active: opt.ID == state.ActiveModelID,
		}
	}

	data := homePageData{
		Messages:     msgs,
		Models:       opts,
		PendingReply: state.PendingReply,
	}

	if err := m.templates.ExecuteTemplate(w, "home.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
