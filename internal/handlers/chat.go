package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/askpane/askpane/internal/session"
)

// HandleChats accepts a user message through an HTTP POST form field. On acceptance
// it renders the user message partial plus a pending placeholder for the reply; the
// reply itself arrives later over SSE once the fetch resolves.
//
// A blank message is a bad request. A submission made while a reply is still pending
// is dropped without effect and answered with 204, mirroring the controller's
// silent-ignore contract: the input is expected to be disabled client-side while
// pending, so this path only fires on racing or hand-crafted requests.
func (m Main) HandleChats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	text := r.FormValue("message")
	if text == "" {
		m.logger.Error("Message is required")
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	userMsg, ok := m.controller.SubmitUserText(text)
	if !ok {
		m.logger.Warn("Submission rejected", slog.Bool("pending", m.controller.Pending()))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	view, err := m.messageView(userMsg)
	if err != nil {
		m.logger.Error("Failed to render message content",
			slog.String("messageID", userMsg.ID),
			slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := m.templates.ExecuteTemplate(w, "user_message", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := m.templates.ExecuteTemplate(w, "ai_message_pending", nil); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleModels switches the active model from the "model_id" form field. An id
// outside the catalog is a programming error in the presentation layer, not a user
// condition, so it is logged and answered with a 500 while the active selection
// stays unchanged.
func (m Main) HandleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.FormValue("model_id")
	if id == "" {
		m.logger.Error("Model id is required")
		http.Error(w, "Model id is required", http.StatusBadRequest)
		return
	}

	if err := m.controller.SelectModel(id); err != nil {
		if errors.Is(err, session.ErrUnknownModel) {
			m.logger.Error("Unknown model selected", slog.String("modelID", id))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	state := m.controller.Snapshot()
	opts := make([]modelOption, len(state.Models))
	for i, opt := range state.Models {
		opts[i] = modelOption{
			ID:     opt.ID,
			Label:  opt.Label,
			Hint:   opt.Hint,
			Active: opt.ID == state.ActiveModelID,
		}
	}

	if err := m.templates.ExecuteTemplate(w, "model_select", opts); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// HandleStats reports recent fetch samples from the journal as JSON. Operator-facing
// only; the page never links here.
func (m Main) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if m.journal == nil {
		http.Error(w, "journal not configured", http.StatusNotFound)
		return
	}

	samples, err := m.journal.Samples(50)
	if err != nil {
		m.logger.Error("Failed to read fetch samples", slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(samples); err != nil {
		m.logger.Error("Failed to encode fetch samples", slog.String(errLoggerKey, err.Error()))
	}
}
