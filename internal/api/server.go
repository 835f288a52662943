package api

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"atlasgo/internal/ui"
	"atlasgo/pkg/version"
)

// NewServer creates and configures the HTTP server. It accepts handlers
// for all API endpoints and a shutdownFunc for graceful shutdown.
func NewServer(addr string, lessons *LessonsHandler, chat *ChatHandler, state *StateHandler, challenge *ChallengeHandler, stats *StatsHandler, cfg *ConfigHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health and version
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /api/version", handleVersion)

	// 2. Lesson catalogue
	mux.HandleFunc("GET /api/lessons", lessons.HandleList)
	mux.HandleFunc("GET /api/lessons/{id}", lessons.HandleGet)

	// 3. Chat and speech
	mux.HandleFunc("POST /api/chat", chat.HandleChat)
	mux.HandleFunc("POST /api/speech/stop", chat.HandleSpeechStop)

	// 4. View state
	mux.HandleFunc("GET /api/state", state.HandleState)
	mux.HandleFunc("POST /api/place/select", state.HandlePlaceSelect)
	mux.HandleFunc("POST /api/session/lesson", state.HandleLessonSwitch)
	mux.HandleFunc("POST /api/session/reset", state.HandleReset)

	// 5. Challenge flow
	mux.HandleFunc("POST /api/challenge/start", challenge.HandleStart)
	mux.HandleFunc("POST /api/challenge/answer", challenge.HandleAnswer)

	// 6. Diagnostics
	mux.Handle("GET /api/stats", stats)
	mux.HandleFunc("GET /api/log/latest", handleLatestLog)
	mux.HandleFunc("/api/config", cfg.HandleConfig)

	// 7. Shutdown endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	// 8. Static frontend serving (SPA)
	distFS, err := fs.Sub(ui.DistFS, "dist")
	if err != nil {
		panic(fmt.Sprintf("Failed to subtree dist from embedded assets: %v", err))
	}

	spaFS := &spaFileSystem{root: http.FS(distFS)}
	mux.Handle("/", http.FileServer(spaFS))

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
