package api

import (
	"net/http"

	"dialoguecast/internal/queue"
)

func (a *API) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap queue.Snapshot
	_ = a.queues.With(r.PathValue("overviewId"), func(q *queue.Queue) error {
		snap = q.Snapshot()
		return nil
	})
	writeJSON(w, http.StatusOK, snap)
}

func (a *API) handleNext(w http.ResponseWriter, r *http.Request) {
	var seg queue.Segment
	var ok bool
	_ = a.queues.With(r.PathValue("overviewId"), func(q *queue.Queue) error {
		seg, ok = q.Next()
		return nil
	})

	if !ok {
		writeError(w, http.StatusNotFound, "no next segment")
		return
	}
	writeJSON(w, http.StatusOK, seg)
}

func (a *API) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var advanced bool
	var position int
	_ = a.queues.With(r.PathValue("overviewId"), func(q *queue.Queue) error {
		advanced = q.Advance()
		position = q.Position()
		return nil
	})

	status := http.StatusOK
	if !advanced {
		// Already at the last segment; an expected, recoverable outcome.
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]any{
		"advanced":         advanced,
		"current_position": position,
	})
}

type seekRequest struct {
	Position int `json:"position"`
}

func (a *API) handleSeek(w http.ResponseWriter, r *http.Request) {
	var req seekRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var ok bool
	var position int
	_ = a.queues.With(r.PathValue("overviewId"), func(q *queue.Queue) error {
		ok = q.Seek(req.Position)
		position = q.Position()
		return nil
	})

	status := http.StatusOK
	if !ok {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{
		"success":          ok,
		"current_position": position,
	})
}

func (a *API) handlePause(w http.ResponseWriter, r *http.Request) {
	a.setPaused(w, r, true)
}

func (a *API) handleResume(w http.ResponseWriter, r *http.Request) {
	a.setPaused(w, r, false)
}

func (a *API) setPaused(w http.ResponseWriter, r *http.Request, paused bool) {
	_ = a.queues.With(r.PathValue("overviewId"), func(q *queue.Queue) error {
		if paused {
			q.Pause()
		} else {
			q.Resume()
		}
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]bool{"paused": paused})
}

func (a *API) handleTeardown(w http.ResponseWriter, r *http.Request) {
	a.queues.Remove(r.PathValue("overviewId"))
	w.WriteHeader(http.StatusNoContent)
}
