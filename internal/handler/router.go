// Package handler exposes the edge HTTP surface: curriculum upload and
// sample picking, session and progress reads, and chat turns proxied to the
// tutor backend.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mindhacker/edge/internal/analytics"
	"github.com/mindhacker/edge/internal/api"
	"github.com/mindhacker/edge/internal/bridge"
	"github.com/mindhacker/edge/internal/curriculum"
	"github.com/mindhacker/edge/internal/session"
)

// Deps holds the services the handlers are wired to.
type Deps struct {
	Store   session.Store
	Client  *api.Client
	Bridge  *bridge.Bridge
	Samples *curriculum.SampleSet
	Events  analytics.Logger

	// ProxyUploads forwards text uploads to the backend parser instead of
	// parsing locally.
	ProxyUploads bool
}

// Handler serves the edge API.
type Handler struct {
	deps Deps
}

// New builds the HTTP router.
func New(deps Deps) http.Handler {
	if deps.Events == nil {
		deps.Events = analytics.NopLogger{}
	}
	if deps.Samples == nil {
		deps.Samples = curriculum.NewSampleSet()
	}
	h := &Handler{deps: deps}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealthz)
	r.Get("/readyz", handleReadyz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", h.handleUpload)
		r.Post("/chat", h.handleChat)
		r.Get("/session/{id}", h.handleGetSession)
		r.Post("/session/{id}/complete", h.handleCompleteNode)
		r.Get("/progress/{id}", h.handleGetProgress)
		r.Get("/samples", h.handleListSamples)
		r.Get("/samples/{id}", h.handleGetSample)
	})

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func handleReadyz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
