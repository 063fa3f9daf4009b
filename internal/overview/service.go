package overview

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"dialoguecast/internal/audio"
	"dialoguecast/internal/queue"
	"dialoguecast/internal/script"
	"dialoguecast/internal/tts"
)

// Service orchestrates the full overview pipeline: dialogue generation,
// per-segment synthesis, audio storage, and queue loading. Queue access
// always goes through the registry so concurrent requests for the same
// overview serialize.
type Service struct {
	Scripts   script.ScriptSource
	Responses script.ResponseSource
	Synth     tts.Synthesizer
	Store     *audio.Store
	Queues    *queue.Registry

	// AudioBasePath is the URL prefix segments are served under.
	AudioBasePath string
}

// Result is the outcome of generating a full overview.
type Result struct {
	OverviewID string          `json:"overview_id"`
	Topic      string          `json:"topic"`
	Segments   []queue.Segment `json:"segments"`
}

// Answer is the outcome of weaving a listener question into an overview.
type Answer struct {
	ResponseID string          `json:"response_id"`
	Question   string          `json:"question"`
	InsertedAt int             `json:"inserted_at"`
	Segments   []queue.Segment `json:"segments"`
}

// Generate runs the whole pipeline for a topic and loads the result into a
// fresh queue. Returns the overview id callers use for playback and
// questions.
func (s *Service) Generate(ctx context.Context, topic string, durationMinutes int, extra string) (*Result, error) {
	turns, err := s.Scripts.GenerateDialogue(ctx, topic, durationMinutes, extra)
	if err != nil {
		return nil, err
	}

	overviewID := fmt.Sprintf("overview_%d", time.Now().UnixMilli())
	inputs := s.synthesizeTurns(ctx, overviewID, turns)

	var snap queue.Snapshot
	err = s.Queues.With(overviewID, func(q *queue.Queue) error {
		if err := q.LoadInitial(inputs); err != nil {
			return err
		}
		snap = q.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"overview_id": overviewID,
		"topic":       topic,
		"segments":    snap.TotalSegments,
	}).Info("generated audio overview")
	return &Result{OverviewID: overviewID, Topic: topic, Segments: snap.Segments}, nil
}

// Ask answers a listener question and splices the response into the
// overview's queue right after the current playback position, so it plays
// next.
func (s *Service) Ask(ctx context.Context, overviewID, question, topic, extra string) (*Answer, error) {
	turns, err := s.Responses.GenerateResponse(ctx, question, topic, extra)
	if err != nil {
		return nil, err
	}

	responseID := fmt.Sprintf("response_%d", time.Now().UnixMilli())
	inputs := s.synthesizeTurns(ctx, responseID, turns)

	var insertedAt int
	var inserted []queue.Segment
	err = s.Queues.With(overviewID, func(q *queue.Queue) error {
		pos, err := q.InsertResponse(inputs, true)
		if err != nil {
			return err
		}
		insertedAt = pos
		segments := q.Snapshot().Segments
		inserted = segments[insertedAt : insertedAt+len(inputs)]
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"overview_id": overviewID,
		"response_id": responseID,
		"inserted_at": insertedAt,
		"segments":    len(inserted),
	}).Info("inserted question response")
	return &Answer{
		ResponseID: responseID,
		Question:   question,
		InsertedAt: insertedAt,
		Segments:   inserted,
	}, nil
}

// synthesizeTurns voices each dialogue turn and stores the result. A failed
// synthesis degrades that turn to text-only (no audio URL, zero duration)
// rather than failing the batch.
func (s *Service) synthesizeTurns(ctx context.Context, idPrefix string, turns []script.DialogueTurn) []queue.SegmentInput {
	inputs := make([]queue.SegmentInput, 0, len(turns))
	for i, turn := range turns {
		segmentID := fmt.Sprintf("%s_%d", idPrefix, i)
		input := queue.SegmentInput{
			SegmentID: segmentID,
			Speaker:   turn.Speaker,
			Text:      turn.Text,
			Sequence:  i,
		}

		data, err := s.Synth.Synthesize(ctx, turn.Text, turn.Speaker)
		if err != nil {
			logrus.WithError(err).WithField("segment_id", segmentID).Warn("synthesis failed, segment stays text-only")
			inputs = append(inputs, input)
			continue
		}

		input.DurationMS = int(s.measure(data, turn.Text).Milliseconds())
		if _, err := s.Store.Save(audio.Metadata{
			SegmentID:  segmentID,
			Speaker:    turn.Speaker,
			Text:       turn.Text,
			Sequence:   i,
			DurationMS: input.DurationMS,
		}, data); err != nil {
			logrus.WithError(err).WithField("segment_id", segmentID).Warn("failed to store audio, segment stays text-only")
			input.DurationMS = 0
			inputs = append(inputs, input)
			continue
		}

		input.AudioURL = s.AudioBasePath + "/" + segmentID
		inputs = append(inputs, input)
	}
	return inputs
}

// measure prefers the real decoded duration and falls back to a word-count
// estimate when the bytes don't decode (mock engine output).
func (s *Service) measure(data []byte, text string) time.Duration {
	if d, err := audio.MeasureMP3(data); err == nil {
		return d
	}
	return audio.EstimateSpeech(text)
}
