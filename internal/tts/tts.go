package tts

import "context"

// Config selects and tunes a synthesizer engine.
type Config struct {
	Type         string
	LanguageCode string
	// Voices maps a dialogue speaker to the engine voice that reads them.
	Voices       map[string]string
	DefaultVoice string
}

// Synthesizer turns a segment of dialogue text into encoded audio. Engines
// return complete MP3 bytes; persistence is the audio store's concern.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, speaker string) ([]byte, error)
	Voices(ctx context.Context) ([]string, error)
	Close() error
}

func (c Config) voiceFor(speaker string) string {
	if voice, ok := c.Voices[speaker]; ok && voice != "" {
		return voice
	}
	return c.DefaultVoice
}
