package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"dialoguecast/internal/api"
	"dialoguecast/internal/audio"
	"dialoguecast/internal/cli/scheme/colours"
	"dialoguecast/internal/config"
	"dialoguecast/internal/overview"
	"dialoguecast/internal/player"
	"dialoguecast/internal/queue"
	"dialoguecast/internal/script"
	"dialoguecast/internal/tts"
)

func main() {
	cfg := config.Load()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	var offline bool

	rootCmd := &cobra.Command{
		Use:   "dialoguecast",
		Short: "🎧 Spoken audio overviews on any topic",
		Long: `
┌──────────────────────────────────────────┐
│  🎧 DialogueCast                         │
│  Two-host audio overviews on any topic,  │
│  with listener questions woven in live   │
└──────────────────────────────────────────┘
		`,
	}
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Use canned dialogue and mock audio (no API keys needed)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "🌐 Run the HTTP API server",
		Long:  "Serve overview generation, question insertion, and the playback queue over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg, offline)
		},
	}
	serveCmd.Flags().StringVarP(&cfg.Listen, "listen", "l", cfg.Listen, "HTTP listen address")

	generateCmd := &cobra.Command{
		Use:   "generate [topic]",
		Short: "📝 Generate an overview for a topic",
		Long:  "Generate a two-host dialogue on a topic, synthesize it, and store the audio",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			duration, _ := cmd.Flags().GetInt("duration")
			extra, _ := cmd.Flags().GetString("context")
			return runGenerate(cfg, offline, strings.Join(args, " "), duration, extra)
		},
	}
	generateCmd.Flags().IntP("duration", "d", cfg.DefaultDurationMinutes, "Target length in minutes")
	generateCmd.Flags().StringP("context", "c", "", "Extra context to steer the dialogue")

	playCmd := &cobra.Command{
		Use:   "play [overview-id]",
		Short: "🔊 Play a stored overview aloud",
		Long:  "Rebuild the queue from stored segments and play it through the speakers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cfg, args[0])
		},
	}

	voicesCmd := &cobra.Command{
		Use:   "voices",
		Short: "🗣️ List available synthesis voices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVoices(cfg)
		},
	}

	rootCmd.AddCommand(serveCmd, generateCmd, playCmd, voicesCmd)

	if err := rootCmd.Execute(); err != nil {
		colours.Error.Printf("❌ Error: %v\n", err)
		os.Exit(1)
	}
}

// newService wires the generation pipeline from config. The returned cleanup
// closes the synthesizer and, when used, the Gemini client.
func newService(ctx context.Context, cfg config.Config, offline bool) (*overview.Service, func(), error) {
	store, err := audio.NewStore(cfg.Storage.AudioDir, cfg.Storage.MetadataDir)
	if err != nil {
		return nil, nil, err
	}

	speakers := script.Speakers{
		Instructor: cfg.Speakers.Instructor,
		CoHost:     cfg.Speakers.CoHost,
	}

	svc := &overview.Service{
		Store:         store,
		Queues:        queue.NewRegistry(),
		AudioBasePath: "/api/audio",
	}

	if offline {
		source := &script.Static{Speakers: speakers}
		svc.Scripts = source
		svc.Responses = source
		svc.Synth = tts.NewMockSynthesizer(ttsConfig(cfg))
		return svc, func() { svc.Synth.Close() }, nil
	}

	if err := cfg.ValidateForGeneration(); err != nil {
		return nil, nil, err
	}

	gemini, err := script.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, speakers)
	if err != nil {
		return nil, nil, err
	}
	svc.Scripts = gemini
	svc.Responses = gemini

	synth, err := tts.NewSynthesizer(ctx, ttsConfig(cfg))
	if err != nil {
		gemini.Close()
		return nil, nil, err
	}
	svc.Synth = synth

	return svc, func() {
		synth.Close()
		gemini.Close()
	}, nil
}

func ttsConfig(cfg config.Config) tts.Config {
	return tts.Config{
		Type:         cfg.TTS.Type,
		LanguageCode: cfg.TTS.LanguageCode,
		Voices:       cfg.TTS.Voices,
		DefaultVoice: cfg.TTS.DefaultVoice,
	}
}

func runServe(cfg config.Config, offline bool) error {
	ctx := context.Background()

	svc, cleanup, err := newService(ctx, cfg, offline)
	if err != nil {
		return err
	}
	defer cleanup()

	server := &http.Server{
		Addr:    cfg.Listen,
		Handler: api.New(svc, svc.Queues, svc.Store),
	}

	go func() {
		logrus.WithField("listen", cfg.Listen).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logrus.Info("server exited gracefully")
	return nil
}

func runGenerate(cfg config.Config, offline bool, topic string, duration int, extra string) error {
	ctx := context.Background()

	svc, cleanup, err := newService(ctx, cfg, offline)
	if err != nil {
		return err
	}
	defer cleanup()

	colours.Info.Printf("Generating a %d minute overview of %q...\n", duration, topic)

	result, err := svc.Generate(ctx, topic, duration, extra)
	if err != nil {
		return err
	}

	colours.Success.Printf("✅ Overview ready: %s (%d segments)\n\n", result.OverviewID, len(result.Segments))
	for _, seg := range result.Segments {
		label := colours.CoHost
		if seg.Speaker == cfg.Speakers.Instructor {
			label = colours.Instructor
		}
		label.Printf("[%s] ", seg.Speaker)
		fmt.Println(seg.Text)
	}
	colours.Prompt.Printf("\nPlay it back with: dialoguecast play %s\n", result.OverviewID)
	return nil
}

func runPlay(cfg config.Config, overviewID string) error {
	ctx := context.Background()

	store, err := audio.NewStore(cfg.Storage.AudioDir, cfg.Storage.MetadataDir)
	if err != nil {
		return err
	}

	stored, err := store.List(overviewID)
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		return fmt.Errorf("no stored segments for %s, generate it first", overviewID)
	}

	inputs := make([]queue.SegmentInput, len(stored))
	for i, meta := range stored {
		inputs[i] = queue.SegmentInput{
			SegmentID:  meta.SegmentID,
			Speaker:    meta.Speaker,
			Text:       meta.Text,
			Sequence:   i,
			DurationMS: meta.DurationMS,
			AudioURL:   "/api/audio/" + meta.SegmentID,
		}
	}

	queues := queue.NewRegistry()
	err = queues.With(overviewID, func(q *queue.Queue) error {
		return q.LoadInitial(inputs)
	})
	if err != nil {
		return err
	}

	speakers := script.Speakers{
		Instructor: cfg.Speakers.Instructor,
		CoHost:     cfg.Speakers.CoHost,
	}

	colours.Title.Printf("🎧 Playing %s (%d segments)\n", overviewID, len(inputs))
	colours.Info.Println("Controls: p = pause, r = resume (press Enter after each)")
	fmt.Println()

	playCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	pl := player.New(store, queues, speakers)

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
			case "p", "pause":
				if err := pl.Pause(overviewID); err == nil {
					colours.Warning.Println("⏸ paused")
				}
			case "r", "resume":
				if err := pl.Resume(overviewID); err == nil {
					colours.Success.Println("▶ resumed")
				}
			}
		}
	}()

	if err := pl.Play(playCtx, overviewID); err != nil && playCtx.Err() == nil {
		return err
	}

	fmt.Println("\n" + colours.Success.Sprint("👋 That's the whole overview!"))
	return nil
}

func runVoices(cfg config.Config) error {
	ctx := context.Background()

	synth, err := tts.NewSynthesizer(ctx, ttsConfig(cfg))
	if err != nil {
		return err
	}
	defer synth.Close()

	voices, err := synth.Voices(ctx)
	if err != nil {
		return err
	}

	colours.Title.Printf("Available voices (%d):\n", len(voices))
	for _, voice := range voices {
		fmt.Println("  " + voice)
	}
	return nil
}
