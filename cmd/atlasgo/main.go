package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"atlasgo/internal/api"
	"atlasgo/pkg/audio"
	"atlasgo/pkg/config"
	"atlasgo/pkg/content"
	"atlasgo/pkg/logging"
	"atlasgo/pkg/probe"
	"atlasgo/pkg/speech"
	"atlasgo/pkg/speech/edgetts"
	"atlasgo/pkg/tracker"
	"atlasgo/pkg/tutor"
	"atlasgo/pkg/version"
)

const configPath = "configs/atlas.yaml"

var initConfig = flag.Bool("init-config", false, "Generate default config file and exit")

func main() {
	flag.Parse()

	if *initConfig {
		if err := config.GenerateDefault(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Config file generated: " + configPath)
		return
	}

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Speech credentials live in .env; missing file is fine.
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded .env")
	}

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&appCfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("AtlasGo started", "version", version.Version)

	lib, err := content.Load(appCfg.Content.Dir)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}
	slog.Info("Content loaded", "lessons", len(lib.Lessons()), "dir", appCfg.Content.Dir)

	if lib.Lesson(appCfg.Session.DefaultLesson) == nil {
		fallback := lib.Lessons()[0].ID
		slog.Warn("Default lesson not in library, falling back", "configured", appCfg.Session.DefaultLesson, "fallback", fallback)
		appCfg.Session.DefaultLesson = fallback
	}

	tr := tracker.New()

	speaker, audioSvc := buildSpeaker(appCfg, tr)
	defer speaker.Cancel()
	if audioSvc != nil {
		defer audioSvc.Shutdown()
	}

	checks := []probe.Check{probe.ContentLibrary(lib)}
	if appCfg.Speech.Enabled && appCfg.Speech.Engine == "edge-tts" {
		checks = append(checks, probe.EdgeTTSEnv())
	}
	if err := probe.RunAll(ctx, checks); err != nil {
		return fmt.Errorf("startup checks failed: %w", err)
	}

	return runServer(ctx, appCfg, lib, speaker, tr)
}

// buildSpeaker wires the configured speech engine. Returns the audio
// manager alongside so the caller can shut it down; nil when speech is off.
func buildSpeaker(cfg *config.Config, tr *tracker.Tracker) (speech.Speaker, *audio.Manager) {
	if !cfg.Speech.Enabled || cfg.Speech.Engine == "none" {
		slog.Info("Speech disabled")
		return speech.Noop{}, nil
	}

	audioSvc := audio.New()
	mgr := speech.NewManager(edgetts.NewProvider(tr), audioSvc, tr)
	slog.Info("Speech enabled", "engine", cfg.Speech.Engine, "language", cfg.Speech.Language)
	return mgr, audioSvc
}

func runServer(ctx context.Context, cfg *config.Config, lib *content.Library, speaker speech.Speaker, tr *tracker.Tracker) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	shutdownFunc := func() { quit <- syscall.SIGTERM }

	engine := tutor.NewEngine(lib)
	hub := api.NewSessionHub(cfg.Session.DefaultLesson, time.Duration(cfg.Session.TTL))

	srv := api.NewServer(cfg.Server.Address,
		api.NewLessonsHandler(lib, engine),
		api.NewChatHandler(engine, hub, lib, speaker, &cfg.Speech, tr),
		api.NewStateHandler(hub, lib),
		api.NewChallengeHandler(engine, hub, lib),
		api.NewStatsHandler(tr, hub),
		api.NewConfigHandler(cfg, configPath),
		shutdownFunc,
	)

	srv.Handler = loggingMiddleware(srv.Handler)
	return runServerLifecycle(ctx, srv, quit)
}

func runServerLifecycle(ctx context.Context, srv *http.Server, quit chan os.Signal) error {
	slog.Info("Starting server", "addr", srv.Addr)
	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	select {
	case <-quit:
		slog.Info("Shutting down server...")
	case <-ctx.Done():
		slog.Info("Context cancelled, shutting down...")
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Request processed", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
