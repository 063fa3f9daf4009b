package tts

import (
	"context"
	"fmt"
	"os"
)

type EngineType string

const (
	EngineTypeMock   EngineType = "mock"
	EngineTypeGoogle EngineType = "google"
	EngineTypeAuto   EngineType = "auto" // Pick the best available engine
)

func (e EngineType) String() string {
	return string(e)
}

// NewSynthesizer creates a synthesizer for the configured engine type. Auto
// selects Google Cloud TTS when credentials are present and falls back to
// the mock engine otherwise.
func NewSynthesizer(ctx context.Context, config Config) (Synthesizer, error) {
	if config.Type == EngineTypeAuto.String() || config.Type == "" {
		if hasGoogleCredentials() {
			config.Type = EngineTypeGoogle.String()
		} else {
			config.Type = EngineTypeMock.String()
		}
	}

	switch config.Type {
	case EngineTypeMock.String():
		return NewMockSynthesizer(config), nil

	case EngineTypeGoogle.String():
		return newGoogleSynthesizer(ctx, config)

	default:
		return nil, fmt.Errorf("unsupported TTS engine type: %s", config.Type)
	}
}

// hasGoogleCredentials checks if Google Cloud credentials are available.
func hasGoogleCredentials() bool {
	_, ok := os.LookupEnv("GOOGLE_APPLICATION_CREDENTIALS")
	return ok
}
