package queue

import (
	"slices"
	"time"

	"github.com/sirupsen/logrus"
)

// Queue holds the ordered playback state for a single conversation: the
// segment list, the cursor of the next segment to play, and an advisory
// paused flag. The cursor is always a valid index or exactly len(segments),
// the one-past-end sentinel.
//
// A Queue performs no locking of its own. Interleaved InsertResponse and
// Advance calls are not commutative, so callers that share a conversation
// must serialize access through Registry.With.
type Queue struct {
	conversationID string
	segments       []Segment
	position       int
	paused         bool
}

// Snapshot is the full serializable view of a queue at one moment.
type Snapshot struct {
	ConversationID    string    `json:"conversation_id"`
	TotalSegments     int       `json:"total_segments"`
	CurrentPosition   int       `json:"current_position"`
	RemainingSegments int       `json:"remaining_segments"`
	Paused            bool      `json:"paused"`
	Segments          []Segment `json:"segments"`
}

// New returns an empty queue for the given conversation id.
func New(conversationID string) *Queue {
	return &Queue{conversationID: conversationID}
}

func (q *Queue) ConversationID() string { return q.conversationID }

// LoadInitial replaces the entire segment list with segments built from the
// given records, in order, all flagged as scripted (not responses). The
// cursor is left where it was; it is only pulled back when a shrinking
// reload would otherwise strand it past the one-past-end sentinel.
func (q *Queue) LoadInitial(inputs []SegmentInput) error {
	if err := validateInputs(inputs); err != nil {
		return err
	}

	segments := make([]Segment, len(inputs))
	for i, in := range inputs {
		segments[i] = Segment{
			SegmentID:  in.SegmentID,
			Speaker:    in.Speaker,
			Text:       in.Text,
			Sequence:   i,
			DurationMS: in.DurationMS,
			AudioURL:   in.AudioURL,
		}
	}
	q.segments = segments

	if q.position > len(q.segments) {
		q.position = len(q.segments)
	}

	logrus.WithFields(logrus.Fields{
		"conversation_id": q.conversationID,
		"segments":        len(q.segments),
	}).Debug("loaded initial segments")
	return nil
}

// InsertResponse splices response segments into the queue and resequences
// everything from the insertion index onward. With afterCurrent the segments
// land right behind the cursor so they play next; otherwise they append to
// the end. Returns the index the first segment was inserted at.
//
// An empty input is a true no-op: nothing mutates and the pre-existing
// cursor value is returned instead of a hypothetical insertion point.
func (q *Queue) InsertResponse(inputs []SegmentInput, afterCurrent bool) (int, error) {
	if len(inputs) == 0 {
		return q.position, nil
	}
	if err := validateInputs(inputs); err != nil {
		return 0, err
	}

	insertAt := len(q.segments)
	if afterCurrent {
		insertAt = q.position + 1
		// The cursor may rest on the one-past-end sentinel.
		if insertAt > len(q.segments) {
			insertAt = len(q.segments)
		}
	}

	now := time.Now().UTC()
	segments := make([]Segment, len(inputs))
	for i, in := range inputs {
		stamp := now
		segments[i] = Segment{
			SegmentID:  in.SegmentID,
			Speaker:    in.Speaker,
			Text:       in.Text,
			DurationMS: in.DurationMS,
			AudioURL:   in.AudioURL,
			IsResponse: true,
			InsertedAt: &stamp,
		}
	}

	q.segments = slices.Insert(q.segments, insertAt, segments...)
	q.resequence(insertAt)

	logrus.WithFields(logrus.Fields{
		"conversation_id": q.conversationID,
		"inserted":        len(segments),
		"position":        insertAt,
	}).Debug("inserted response segments")
	return insertAt, nil
}

// resequence rewrites Sequence from index from through the end of the list
// so it matches positional indices again.
func (q *Queue) resequence(from int) {
	for i := from; i < len(q.segments); i++ {
		q.segments[i].Sequence = i
	}
}

// Next returns the segment at the cursor without moving it. The second
// return is false when the cursor is past the end, including on an empty
// queue.
func (q *Queue) Next() (Segment, bool) {
	if q.position >= len(q.segments) {
		return Segment{}, false
	}
	return q.segments[q.position], true
}

// Advance moves the cursor forward by one. It succeeds only while a later
// segment exists to move to; at the last valid index it returns false and
// leaves the cursor in place.
func (q *Queue) Advance() bool {
	if q.position < len(q.segments)-1 {
		q.position++
		return true
	}
	return false
}

// Seek jumps the cursor to position if it is a valid index. It is the only
// way to move the cursor backward.
func (q *Queue) Seek(position int) bool {
	if position < 0 || position >= len(q.segments) {
		return false
	}
	q.position = position
	return true
}

// Pause and Resume toggle an advisory flag for an external player. They do
// not touch the cursor, and neither Next nor Advance consults the flag.
func (q *Queue) Pause()  { q.paused = true }
func (q *Queue) Resume() { q.paused = false }

func (q *Queue) IsPaused() bool { return q.paused }

func (q *Queue) Position() int { return q.position }

func (q *Queue) Len() int { return len(q.segments) }

// Remaining counts the segments after the cursor, clamped at zero.
func (q *Queue) Remaining() int {
	remaining := len(q.segments) - q.position - 1
	if remaining < 0 {
		return 0
	}
	return remaining
}

// FindByID returns the first segment with the given id. Producers are
// trusted to keep ids unique; the queue does not enforce it.
func (q *Queue) FindByID(segmentID string) (Segment, bool) {
	for _, seg := range q.segments {
		if seg.SegmentID == segmentID {
			return seg, true
		}
	}
	return Segment{}, false
}

// Snapshot returns a copy of the complete queue state.
func (q *Queue) Snapshot() Snapshot {
	segments := make([]Segment, len(q.segments))
	copy(segments, q.segments)
	return Snapshot{
		ConversationID:    q.conversationID,
		TotalSegments:     len(q.segments),
		CurrentPosition:   q.position,
		RemainingSegments: q.Remaining(),
		Paused:            q.paused,
		Segments:          segments,
	}
}
