package script

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Speaking rate used for duration estimates, words per minute.
const wordsPerMinute = 150

// DialogueTurn is one speaker turn of a generated dialogue draft, before it
// is synthesized and queued.
type DialogueTurn struct {
	Speaker  string `json:"speaker"`
	Text     string `json:"text"`
	Sequence int    `json:"sequence"`
}

// Speakers names the two participants of every dialogue. The instructor
// explains, the co-host asks the questions a listener would.
type Speakers struct {
	Instructor string
	CoHost     string
}

func (s Speakers) contains(name string) bool {
	return name == s.Instructor || name == s.CoHost
}

// ScriptSource produces the ordered dialogue for a topic.
type ScriptSource interface {
	GenerateDialogue(ctx context.Context, topic string, durationMinutes int, extra string) ([]DialogueTurn, error)
}

// ResponseSource produces a short dialogue answering a listener question in
// the context of an ongoing overview.
type ResponseSource interface {
	GenerateResponse(ctx context.Context, question, topic, extra string) ([]DialogueTurn, error)
}

// EstimateMinutes estimates the spoken duration of a dialogue from its word
// count.
func EstimateMinutes(turns []DialogueTurn) float64 {
	words := 0
	for _, turn := range turns {
		words += len(strings.Fields(turn.Text))
	}
	return float64(words) / wordsPerMinute
}

// SpeakerDistribution counts turns per speaker.
func SpeakerDistribution(turns []DialogueTurn) map[string]int {
	return lo.CountValuesBy(turns, func(turn DialogueTurn) string {
		return turn.Speaker
	})
}

// checkAlternation warns about a speaker holding the floor for more than two
// consecutive turns, which reads as a lecture rather than a conversation.
func checkAlternation(turns []DialogueTurn) {
	if len(turns) <= 1 {
		return
	}
	consecutive := 1
	last := turns[0].Speaker
	for i := 1; i < len(turns); i++ {
		if turns[i].Speaker == last {
			consecutive++
			if consecutive > 2 {
				logrus.WithFields(logrus.Fields{
					"speaker": last,
					"turns":   consecutive,
					"index":   i,
				}).Warn("speaker holds too many consecutive turns")
			}
			continue
		}
		consecutive = 1
		last = turns[i].Speaker
	}
}

// checkStructure warns when a dialogue is missing one of its voices.
func checkStructure(turns []DialogueTurn) {
	if len(SpeakerDistribution(turns)) < 2 {
		logrus.Warn("dialogue uses only one speaker")
	}
}
