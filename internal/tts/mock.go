package tts

import (
	"context"
	"fmt"
)

// MockSynthesizer fabricates audio bytes without any external service. The
// output is not decodable audio; duration falls back to the word-count
// estimate downstream.
type MockSynthesizer struct {
	config Config
}

func NewMockSynthesizer(config Config) *MockSynthesizer {
	return &MockSynthesizer{config: config}
}

func (m *MockSynthesizer) Synthesize(_ context.Context, text, speaker string) ([]byte, error) {
	return []byte(fmt.Sprintf("mock-audio:%s:%s", m.config.voiceFor(speaker), text)), nil
}

func (m *MockSynthesizer) Voices(_ context.Context) ([]string, error) {
	return []string{"mock-voice"}, nil
}

func (m *MockSynthesizer) Close() error { return nil }
