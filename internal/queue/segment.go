package queue

import (
	"fmt"
	"time"
)

// Segment is one speaker turn of a conversation, together with its playback
// metadata. Sequence is owned by the queue: it is rewritten after every
// structural mutation so the segment at index i always carries Sequence i.
type Segment struct {
	SegmentID  string     `json:"segment_id"`
	Speaker    string     `json:"speaker"`
	Text       string     `json:"text"`
	Sequence   int        `json:"sequence"`
	DurationMS int        `json:"duration_ms"`
	AudioURL   string     `json:"audio_url,omitempty"`
	IsResponse bool       `json:"is_response"`
	InsertedAt *time.Time `json:"inserted_at,omitempty"`
}

// SegmentInput is the raw record accepted by LoadInitial and InsertResponse.
// Sequence is advisory: whatever the producer supplies is overwritten by the
// queue's resequencing pass.
type SegmentInput struct {
	SegmentID  string `json:"segment_id"`
	Speaker    string `json:"speaker"`
	Text       string `json:"text"`
	Sequence   int    `json:"sequence"`
	DurationMS int    `json:"duration_ms"`
	AudioURL   string `json:"audio_url"`
}

// MissingFieldError reports a required field absent from an input record.
type MissingFieldError struct {
	Index int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("malformed segment at index %d: missing required field %q", e.Index, e.Field)
}

// validateInputs checks every record up front so a bad batch never partially
// applies.
func validateInputs(inputs []SegmentInput) error {
	for i, in := range inputs {
		switch {
		case in.SegmentID == "":
			return &MissingFieldError{Index: i, Field: "segment_id"}
		case in.Speaker == "":
			return &MissingFieldError{Index: i, Field: "speaker"}
		case in.Text == "":
			return &MissingFieldError{Index: i, Field: "text"}
		}
	}
	return nil
}
