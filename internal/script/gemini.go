package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// Gemini generates dialogue through the Google Gemini API. It implements
// both ScriptSource and ResponseSource.
type Gemini struct {
	client   *genai.Client
	model    string
	speakers Speakers
}

func NewGemini(ctx context.Context, apiKey, model string, speakers Speakers) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model, speakers: speakers}, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

// GenerateDialogue produces the full scripted overview for a topic.
func (g *Gemini) GenerateDialogue(ctx context.Context, topic string, durationMinutes int, extra string) ([]DialogueTurn, error) {
	turns, err := g.generate(ctx, g.dialoguePrompt(topic, durationMinutes, extra))
	if err != nil {
		return nil, fmt.Errorf("failed to generate dialogue for %q: %w", topic, err)
	}

	checkStructure(turns)
	checkAlternation(turns)
	logrus.WithFields(logrus.Fields{
		"topic":             topic,
		"turns":             len(turns),
		"estimated_minutes": fmt.Sprintf("%.1f", EstimateMinutes(turns)),
	}).Info("generated dialogue script")
	return turns, nil
}

// GenerateResponse produces a short dialogue answering a listener question.
func (g *Gemini) GenerateResponse(ctx context.Context, question, topic, extra string) ([]DialogueTurn, error) {
	if extra == "" {
		extra = fmt.Sprintf("We are discussing %s in an educational podcast format.", topic)
	}

	turns, err := g.generate(ctx, g.responsePrompt(question, topic, extra))
	if err != nil {
		return nil, fmt.Errorf("failed to generate response: %w", err)
	}

	checkStructure(turns)
	logrus.WithField("turns", len(turns)).Info("generated question response")
	return turns, nil
}

func (g *Gemini) generate(ctx context.Context, prompt string) ([]DialogueTurn, error) {
	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}

	reply, err := replyText(resp)
	if err != nil {
		return nil, err
	}
	return parseDialogue(reply, g.speakers)
}

func replyText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("model returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("model returned no text parts")
	}
	return sb.String(), nil
}

func (g *Gemini) dialoguePrompt(topic string, durationMinutes int, extra string) string {
	targetWords := durationMinutes * wordsPerMinute

	var sb strings.Builder
	fmt.Fprintf(&sb, `You are writing a podcast-style educational audio overview about %s.

Write a natural, flowing conversation between two hosts:
- %q: the instructor. Warm and enthusiastic, explains with clear examples and builds understanding progressively.
- %q: the co-host. Asks the clarifying questions a curious listener would, relates concepts to real-world applications.

Requirements:
- Target duration: %d minutes (approximately %d words total).
- Conversational podcast tone, not a lecture.
- Each turn is 2-4 sentences.
- Alternate speakers naturally, never more than 2 consecutive turns for one speaker.
- Open with a welcoming introduction, close with a summary and next steps.
`, topic, g.speakers.Instructor, g.speakers.CoHost, durationMinutes, targetWords)

	if extra != "" {
		fmt.Fprintf(&sb, "\nSpecific aspects to cover:\n%s\n", extra)
	}

	fmt.Fprintf(&sb, `
Respond with only a JSON array of dialogue turns, one object per turn:
[
  {"speaker": %q, "text": "..."},
  {"speaker": %q, "text": "..."}
]
`, g.speakers.Instructor, g.speakers.CoHost)
	return sb.String()
}

func (g *Gemini) responsePrompt(question, topic, extra string) string {
	return fmt.Sprintf(`You are continuing a teaching podcast about %s.

Previous conversation context:
%s

A listener has asked: %q

Write a natural response as a dialogue between:
- %q: the co-host, who relates to the question first.
- %q: the instructor, who gives a clear answer with an example.

Keep it warm and conversational, 2-4 exchanges maximum.

Respond with only a JSON array of dialogue turns:
[
  {"speaker": %q, "text": "..."},
  {"speaker": %q, "text": "..."}
]
`, topic, extra, question,
		g.speakers.CoHost, g.speakers.Instructor,
		g.speakers.CoHost, g.speakers.Instructor)
}
