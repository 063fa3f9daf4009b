package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"dialoguecast/internal/audio"
	"dialoguecast/internal/overview"
	"dialoguecast/internal/queue"
)

// API exposes the overview pipeline and the conversation queues over HTTP.
type API struct {
	svc    *overview.Service
	queues *queue.Registry
	store  *audio.Store
}

func New(svc *overview.Service, queues *queue.Registry, store *audio.Store) http.Handler {
	a := &API{svc: svc, queues: queues, store: store}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.handleHealth)

	mux.HandleFunc("POST /api/overview/generate", a.handleGenerate)
	mux.HandleFunc("POST /api/question/text", a.handleQuestion)
	mux.HandleFunc("GET /api/audio/{segmentId}", a.handleAudio)
	mux.HandleFunc("GET /api/segments", a.handleListSegments)

	mux.HandleFunc("GET /api/queue/{overviewId}", a.handleSnapshot)
	mux.HandleFunc("GET /api/queue/{overviewId}/next", a.handleNext)
	mux.HandleFunc("POST /api/queue/{overviewId}/advance", a.handleAdvance)
	mux.HandleFunc("POST /api/queue/{overviewId}/seek", a.handleSeek)
	mux.HandleFunc("POST /api/queue/{overviewId}/pause", a.handlePause)
	mux.HandleFunc("POST /api/queue/{overviewId}/resume", a.handleResume)
	mux.HandleFunc("DELETE /api/queue/{overviewId}", a.handleTeardown)
	mux.HandleFunc("GET /api/queue/{overviewId}/live", a.handleLive)

	return mux
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"conversations": a.queues.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Warn("failed to encode response body")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// statusFor maps core errors to HTTP status codes: malformed segment input
// is the caller's data problem, everything else is ours.
func statusFor(err error) int {
	var missing *queue.MissingFieldError
	if errors.As(err, &missing) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
