package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mindhacker/edge/internal/analytics"
	"github.com/mindhacker/edge/internal/session"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// handleChat runs one chat turn: materialize the backend session if needed,
// forward the message, and fold the response into the local demo record.
//
// The user message is persisted before the backend call so a failed turn
// never loses what the user typed; the error is surfaced separately.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SessionID == "" || req.Message == "" {
		respondError(w, http.StatusBadRequest, "session_id and message are required")
		return
	}

	local := session.IsDemo(req.SessionID)
	var data *session.Data
	if local {
		if d, ok := h.deps.Store.Load(r.Context(), req.SessionID); ok {
			data = d
			data.AppendMessage(session.Message{Role: session.RoleUser, Content: req.Message})
			h.persist(r, data)
		}
	}

	backendID, err := h.deps.Bridge.Ensure(r.Context(), req.SessionID)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if local && backendID != req.SessionID {
		h.logEvent(req.SessionID, analytics.EventSessionMaterialized, map[string]any{
			"backend_session_id": backendID,
		})
	}

	resp, err := h.deps.Client.SendMessage(r.Context(), backendID, req.Message)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	if data != nil {
		data.AppendMessage(session.Message{Role: session.RoleAssistant, Content: resp.Response})
		if resp.EmotionalState != nil {
			data.AppendEmotionalState(*resp.EmotionalState)
		}
		h.persist(r, data)
	}

	h.logEvent(req.SessionID, analytics.EventChatMessage, map[string]any{
		"message_len": len(req.Message),
		"agent_calls": len(resp.AgentLog),
	})

	// Callers keep addressing the session by the id they created it with;
	// the backend id stays an internal detail of the bridge.
	resp.SessionID = req.SessionID
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) persist(r *http.Request, data *session.Data) {
	if err := h.deps.Store.Save(r.Context(), data); err != nil {
		slog.Warn("failed to persist session transcript", "session_id", data.SessionID, "error", err)
	}
}
