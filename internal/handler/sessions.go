package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindhacker/edge/internal/analytics"
	"github.com/mindhacker/edge/internal/api"
	"github.com/mindhacker/edge/internal/session"
)

// handleGetSession serves demo sessions from the local store and proxies
// everything else to the backend.
func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if session.IsDemo(id) {
		data, ok := h.deps.Store.Load(r.Context(), id)
		if !ok {
			respondError(w, http.StatusNotFound, "Session not found")
			return
		}
		respondJSON(w, http.StatusOK, data)
		return
	}

	data, err := h.deps.Client.GetSession(r.Context(), id)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}

type completeNodeRequest struct {
	NodeID string `json:"node_id"`
}

// handleCompleteNode marks a curriculum node finished on a demo session and
// advances the current node past it.
func (h *Handler) handleCompleteNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !session.IsDemo(id) {
		respondError(w, http.StatusBadRequest, "node completion is tracked by the backend for non-demo sessions")
		return
	}

	var req completeNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NodeID == "" {
		respondError(w, http.StatusBadRequest, "node_id is required")
		return
	}

	data, ok := h.deps.Store.Load(r.Context(), id)
	if !ok {
		respondError(w, http.StatusNotFound, "Session not found")
		return
	}
	if _, ok := data.Curriculum.Node(req.NodeID); !ok {
		respondError(w, http.StatusBadRequest, "unknown node id")
		return
	}

	data.CompleteNode(req.NodeID)
	if err := h.deps.Store.Save(r.Context(), data); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	h.logEvent(id, analytics.EventNodeCompleted, map[string]any{"node_id": req.NodeID})
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id":      data.SessionID,
		"completed_nodes": data.CompletedNodes,
		"current_node_id": data.CurrentNodeID,
	})
}

// handleGetProgress computes progress locally for demo sessions and proxies
// for backend-tracked ones.
func (h *Handler) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if session.IsDemo(id) {
		data, ok := h.deps.Store.Load(r.Context(), id)
		if !ok {
			respondError(w, http.StatusNotFound, "Session not found")
			return
		}
		respondJSON(w, http.StatusOK, api.ProgressData{
			SessionID:        data.SessionID,
			EmotionalHistory: data.EmotionalHistory,
			CompletedNodes:   data.CompletedNodes,
			TotalNodes:       len(data.Curriculum.Nodes),
			ProgressPct:      data.ProgressPct(),
			CurrentNodeID:    data.CurrentNodeID,
		})
		return
	}

	progress, err := h.deps.Client.GetProgress(r.Context(), id)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}
