package script

import (
	"context"
	"fmt"
)

// Static serves canned dialogue without calling any model. Used for offline
// development and in tests.
type Static struct {
	Speakers Speakers
}

func (s *Static) GenerateDialogue(_ context.Context, topic string, _ int, _ string) ([]DialogueTurn, error) {
	turns := []DialogueTurn{
		{Speaker: s.Speakers.Instructor, Text: fmt.Sprintf("Welcome! Today we are taking a close look at %s.", topic)},
		{Speaker: s.Speakers.CoHost, Text: fmt.Sprintf("I have heard %s comes up everywhere. Where should we start?", topic)},
		{Speaker: s.Speakers.Instructor, Text: "Let's start from the basics and build up with a concrete example."},
		{Speaker: s.Speakers.CoHost, Text: "Sounds good. And at the end, what should listeners practice?"},
		{Speaker: s.Speakers.Instructor, Text: "That's a wrap for today. Remember to try the example yourself before next time."},
	}
	for i := range turns {
		turns[i].Sequence = i
	}
	return turns, nil
}

func (s *Static) GenerateResponse(_ context.Context, question, _ string, _ string) ([]DialogueTurn, error) {
	return []DialogueTurn{
		{Speaker: s.Speakers.CoHost, Text: fmt.Sprintf("Good question, I was wondering about that too: %s", question), Sequence: 0},
		{Speaker: s.Speakers.Instructor, Text: "Let me walk through it with a quick example.", Sequence: 1},
	}, nil
}
