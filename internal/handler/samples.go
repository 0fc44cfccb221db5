package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleListSamples(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.deps.Samples.All())
}

func (h *Handler) handleGetSample(w http.ResponseWriter, r *http.Request) {
	sample, ok := h.deps.Samples.Get(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "Sample not found")
		return
	}
	respondJSON(w, http.StatusOK, sample)
}
