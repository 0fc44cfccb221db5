package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mindhacker/edge/internal/analytics"
	"github.com/mindhacker/edge/internal/curriculum"
	"github.com/mindhacker/edge/internal/sanitize"
	"github.com/mindhacker/edge/internal/session"
)

type uploadRequest struct {
	Content   string `json:"content"`
	PDFBase64 string `json:"pdf_base64"`
	Subject   string `json:"subject"`
	SampleID  string `json:"sample_id"`
	Filename  string `json:"filename"`
}

type uploadResponse struct {
	SessionID  string `json:"session_id"`
	Curriculum any    `json:"curriculum"`
}

// handleUpload creates a learning session. Text and samples are sanitized
// and parsed locally into a demo session for zero-latency preview; PDFs go
// to the backend, which owns text extraction. A request with a subject but
// no material starts an open-ended session.
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.SampleID != "" {
		sample, ok := h.deps.Samples.Get(req.SampleID)
		if !ok {
			respondError(w, http.StatusNotFound, "Sample not found")
			return
		}
		req.Content = sample.Content
		if req.Subject == "" {
			req.Subject = sample.Subject
		}
	}
	if req.Subject == "" && req.Filename != "" {
		req.Subject = curriculum.SubjectFromFilename(req.Filename)
	}

	switch {
	case req.PDFBase64 != "":
		resp, err := h.deps.Client.UploadCurriculumPDF(r.Context(), req.PDFBase64, req.Subject)
		if err != nil {
			respondUpstreamError(w, err)
			return
		}
		h.logEvent(resp.SessionID, analytics.EventCurriculumUploaded, map[string]any{
			"source": "pdf", "nodes": len(resp.Curriculum.Nodes),
		})
		respondJSON(w, http.StatusOK, resp)

	case req.Content != "":
		cleaned := sanitize.Clean(req.Content)
		if h.deps.ProxyUploads {
			resp, err := h.deps.Client.UploadCurriculum(r.Context(), cleaned, req.Subject)
			if err != nil {
				respondUpstreamError(w, err)
				return
			}
			h.logEvent(resp.SessionID, analytics.EventCurriculumUploaded, map[string]any{
				"source": "text", "nodes": len(resp.Curriculum.Nodes),
			})
			respondJSON(w, http.StatusOK, resp)
			return
		}

		data := session.New(cleaned, req.Subject)
		h.saveAndRespond(w, r, data, "text")

	case req.Subject != "":
		data := session.NewEmpty(req.Subject)
		h.saveAndRespond(w, r, data, "empty")

	default:
		respondError(w, http.StatusBadRequest, "content, pdf_base64, sample_id, or subject is required")
	}
}

func (h *Handler) saveAndRespond(w http.ResponseWriter, r *http.Request, data *session.Data, source string) {
	if err := h.deps.Store.Save(r.Context(), data); err != nil {
		slog.Error("failed to save session", "session_id", data.SessionID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save session")
		return
	}

	h.logEvent(data.SessionID, analytics.EventCurriculumUploaded, map[string]any{
		"source": source, "nodes": len(data.Curriculum.Nodes),
	})
	slog.Info("demo session created",
		"session_id", data.SessionID,
		"subject", data.Curriculum.Subject,
		"nodes", len(data.Curriculum.Nodes),
	)
	respondJSON(w, http.StatusOK, uploadResponse{
		SessionID:  data.SessionID,
		Curriculum: data.Curriculum,
	})
}

func (h *Handler) logEvent(sessionID, eventType string, data map[string]any) {
	if err := h.deps.Events.LogEvent(analytics.Event{
		SessionID: sessionID,
		Type:      eventType,
		Data:      data,
	}); err != nil {
		slog.Warn("failed to log event", "type", eventType, "error", err)
	}
}
