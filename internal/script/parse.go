package script

import (
	"encoding/json"
	"fmt"
	"strings"
)

type rawTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// parseDialogue turns a model reply into ordered dialogue turns. The model
// is asked for a bare JSON array, but replies routinely arrive wrapped in
// markdown code fences, so those are stripped first. Speakers outside the
// configured pair and empty fields are rejected. Sequences are assigned
// here, positionally.
func parseDialogue(reply string, speakers Speakers) ([]DialogueTurn, error) {
	payload := stripCodeFence(reply)

	var raw []rawTurn
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("dialogue reply is not a JSON array: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("dialogue reply is empty")
	}

	turns := make([]DialogueTurn, len(raw))
	for i, item := range raw {
		if item.Speaker == "" || item.Text == "" {
			return nil, fmt.Errorf("dialogue turn %d is missing speaker or text", i)
		}
		speaker := strings.ToLower(strings.TrimSpace(item.Speaker))
		if !speakers.contains(speaker) {
			return nil, fmt.Errorf("dialogue turn %d has unknown speaker %q", i, item.Speaker)
		}
		turns[i] = DialogueTurn{Speaker: speaker, Text: item.Text, Sequence: i}
	}
	return turns, nil
}

// stripCodeFence unwraps a ```json ... ``` block; otherwise it slices out
// the outermost JSON array, so a stray fence in surrounding prose never
// truncates the payload.
func stripCodeFence(reply string) string {
	trimmed := strings.TrimSpace(reply)

	if idx := strings.Index(trimmed, "```json"); idx >= 0 {
		trimmed = trimmed[idx+len("```json"):]
		if end := strings.Index(trimmed, "```"); end >= 0 {
			trimmed = trimmed[:end]
		}
		return strings.TrimSpace(trimmed)
	}

	start := strings.Index(trimmed, "[")
	end := strings.LastIndex(trimmed, "]")
	if start >= 0 && end > start {
		return trimmed[start : end+1]
	}
	return trimmed
}
