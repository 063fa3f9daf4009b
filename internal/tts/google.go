package tts

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"github.com/sirupsen/logrus"
	texttospeechpb "google.golang.org/genproto/googleapis/cloud/texttospeech/v1"
)

// The synthesis API caps input at 5000 bytes; stay a little under it.
const maxChunkRunes = 4800

// GoogleSynthesizer produces MP3 audio through Google Cloud Text-to-Speech.
type GoogleSynthesizer struct {
	client *texttospeech.Client
	config Config
}

func newGoogleSynthesizer(ctx context.Context, config Config) (*GoogleSynthesizer, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS client: %w", err)
	}
	return &GoogleSynthesizer{client: client, config: config}, nil
}

func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text, speaker string) ([]byte, error) {
	voice := g.config.voiceFor(speaker)

	var out bytes.Buffer
	chunks := splitIntoChunks(text, maxChunkRunes)
	for i, chunk := range chunks {
		req := &texttospeechpb.SynthesizeSpeechRequest{
			Input: &texttospeechpb.SynthesisInput{
				InputSource: &texttospeechpb.SynthesisInput_Text{Text: chunk},
			},
			Voice: &texttospeechpb.VoiceSelectionParams{
				LanguageCode: g.config.LanguageCode,
				Name:         voice,
			},
			AudioConfig: g.audioConfig(voice),
		}

		resp, err := g.client.SynthesizeSpeech(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to synthesize chunk %d/%d for speaker %q: %w", i+1, len(chunks), speaker, err)
		}
		out.Write(resp.AudioContent)
	}

	logrus.WithFields(logrus.Fields{
		"speaker": speaker,
		"voice":   voice,
		"chunks":  len(chunks),
		"bytes":   out.Len(),
	}).Debug("synthesized segment audio")
	return out.Bytes(), nil
}

func (g *GoogleSynthesizer) audioConfig(voice string) *texttospeechpb.AudioConfig {
	cfg := &texttospeechpb.AudioConfig{
		AudioEncoding: texttospeechpb.AudioEncoding_MP3,
	}
	// Chirp voices don't support speakingRate/pitch parameters.
	if strings.Contains(strings.ToLower(voice), "chirp") {
		return cfg
	}
	cfg.SpeakingRate = 1.0
	return cfg
}

func (g *GoogleSynthesizer) Voices(ctx context.Context) ([]string, error) {
	resp, err := g.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{
		LanguageCode: g.config.LanguageCode,
	})
	if err != nil {
		return nil, err
	}
	voices := make([]string, 0, len(resp.Voices))
	for _, v := range resp.Voices {
		voices = append(voices, v.Name)
	}
	return voices, nil
}

func (g *GoogleSynthesizer) Close() error {
	return g.client.Close()
}

func splitIntoChunks(text string, limit int) []string {
	var chunks []string
	runes := []rune(text)
	for i := 0; i < len(runes); i += limit {
		end := i + limit
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
