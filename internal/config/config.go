package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration, read from
// dialoguecast.yaml and the environment.
type Config struct {
	Listen   string
	LogLevel string

	Gemini   Gemini
	TTS      TTS
	Storage  Storage
	Speakers Speakers

	DefaultDurationMinutes int
}

type Gemini struct {
	APIKey string
	Model  string
}

type TTS struct {
	Type         string
	LanguageCode string
	Voices       map[string]string
	DefaultVoice string
}

type Storage struct {
	AudioDir    string
	MetadataDir string
}

type Speakers struct {
	Instructor string
	CoHost     string
}

func SetDefaults() {
	viper.SetDefault("listen", ":8000")
	viper.SetDefault("log_level", "info")

	viper.SetDefault("gemini.model", "gemini-2.0-flash")

	viper.SetDefault("tts.type", "auto") // Auto-select best engine
	viper.SetDefault("tts.language_code", "en-US")
	viper.SetDefault("tts.default_voice", "en-US-Chirp3-HD-Charon")

	viper.SetDefault("storage.audio_dir", "./audio_storage")
	viper.SetDefault("storage.metadata_dir", "./metadata_storage")

	viper.SetDefault("speakers.instructor", "instructor")
	viper.SetDefault("speakers.cohost", "cohost")

	viper.SetDefault("default_duration_minutes", 8)
}

// Load reads dialoguecast.yaml (from $HOME/.dialoguecast or the working
// directory) and the DIALOGUECAST_* environment, and returns the resolved
// configuration. A missing config file is fine; defaults apply.
func Load() Config {
	SetDefaults()

	viper.SetConfigName("dialoguecast")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.dialoguecast")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("dialoguecast")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")

	viper.ReadInConfig()

	voices := viper.GetStringMapString("tts.voices")
	if len(voices) == 0 {
		voices = map[string]string{
			viper.GetString("speakers.instructor"): "en-US-Chirp3-HD-Charon",
			viper.GetString("speakers.cohost"):     "en-GB-Chirp3-HD-Umbriel",
		}
	}

	return Config{
		Listen:   viper.GetString("listen"),
		LogLevel: viper.GetString("log_level"),
		Gemini: Gemini{
			APIKey: viper.GetString("gemini.api_key"),
			Model:  viper.GetString("gemini.model"),
		},
		TTS: TTS{
			Type:         viper.GetString("tts.type"),
			LanguageCode: viper.GetString("tts.language_code"),
			Voices:       voices,
			DefaultVoice: viper.GetString("tts.default_voice"),
		},
		Storage: Storage{
			AudioDir:    viper.GetString("storage.audio_dir"),
			MetadataDir: viper.GetString("storage.metadata_dir"),
		},
		Speakers: Speakers{
			Instructor: viper.GetString("speakers.instructor"),
			CoHost:     viper.GetString("speakers.cohost"),
		},
		DefaultDurationMinutes: viper.GetInt("default_duration_minutes"),
	}
}

// ValidateForGeneration checks the settings script generation needs. Offline
// mode skips this.
func (c Config) ValidateForGeneration() error {
	if c.Gemini.APIKey == "" {
		return errors.New("gemini api key is not set (GEMINI_API_KEY or gemini.api_key)")
	}
	return nil
}
