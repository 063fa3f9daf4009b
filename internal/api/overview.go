package api

import (
	"net/http"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"dialoguecast/internal/audio"
)

const defaultDurationMinutes = 8

type generateRequest struct {
	Topic           string `json:"topic"`
	DurationMinutes int    `json:"duration_minutes"`
	Context         string `json:"context"`
}

func (a *API) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	if req.DurationMinutes <= 0 {
		req.DurationMinutes = defaultDurationMinutes
	}

	result, err := a.svc.Generate(r.Context(), req.Topic, req.DurationMinutes, req.Context)
	if err != nil {
		logrus.WithError(err).Error("overview generation failed")
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"overview_id":    result.OverviewID,
		"topic":          result.Topic,
		"segments_count": len(result.Segments),
		"segments":       result.Segments,
	})
}

type questionRequest struct {
	Question   string `json:"question"`
	Topic      string `json:"topic"`
	Context    string `json:"context"`
	OverviewID string `json:"overview_id"`
}

func (a *API) handleQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Question == "" || req.OverviewID == "" {
		writeError(w, http.StatusBadRequest, "question and overview_id are required")
		return
	}

	answer, err := a.svc.Ask(r.Context(), req.OverviewID, req.Question, req.Topic, req.Context)
	if err != nil {
		logrus.WithError(err).Error("question handling failed")
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"response_id":    answer.ResponseID,
		"question":       answer.Question,
		"inserted_at":    answer.InsertedAt,
		"segments_count": len(answer.Segments),
		"segments":       answer.Segments,
	})
}

func (a *API) handleAudio(w http.ResponseWriter, r *http.Request) {
	segmentID := r.PathValue("segmentId")

	meta, found, err := a.store.Load(segmentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "segment not found: "+segmentID)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, meta.FilePath)
}

type segmentItem struct {
	SegmentID  string `json:"segment_id"`
	Speaker    string `json:"speaker"`
	Text       string `json:"text"`
	Sequence   int    `json:"sequence"`
	DurationMS int    `json:"duration_ms"`
	AudioURL   string `json:"audio_url"`
	CreatedAt  string `json:"created_at"`
}

func (a *API) handleListSegments(w http.ResponseWriter, r *http.Request) {
	metas, err := a.store.List(r.URL.Query().Get("overview_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	items := lo.Map(metas, func(m audio.Metadata, _ int) segmentItem {
		return segmentItem{
			SegmentID:  m.SegmentID,
			Speaker:    m.Speaker,
			Text:       m.Text,
			Sequence:   m.Sequence,
			DurationMS: m.DurationMS,
			AudioURL:   "/api/audio/" + m.SegmentID,
			CreatedAt:  m.CreatedAt.Format(http.TimeFormat),
		}
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"segments_count": len(items),
		"segments":       items,
	})
}
