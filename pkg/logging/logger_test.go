package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"atlasgo/pkg/config"
)

func TestInit(t *testing.T) {
	tempDir := t.TempDir()
	serverLog := filepath.Join(tempDir, "server.log")

	cfg := &config.LogConfig{
		Server: config.LogSettings{
			Path:  serverLog,
			Level: "DEBUG",
		},
	}

	cleanup, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer cleanup()

	if _, err := os.Stat(serverLog); os.IsNotExist(err) {
		t.Error("Server log file not created")
	}

	// Logged lines must reach both the file and the capture buffer.
	slog.Info("startup complete", "component", "test")

	data, err := os.ReadFile(serverLog)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "startup complete") {
		t.Error("log line missing from server log file")
	}
	if !strings.Contains(GlobalLogCapture.GetLastLine(), "startup complete") {
		t.Error("log line missing from capture buffer")
	}
}

func TestInitRotatesPreviousLog(t *testing.T) {
	tempDir := t.TempDir()
	serverLog := filepath.Join(tempDir, "server.log")

	if err := os.WriteFile(serverLog, []byte("previous run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.LogConfig{
		Server: config.LogSettings{Path: serverLog, Level: "INFO"},
	}
	cleanup, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer cleanup()

	old, err := os.ReadFile(serverLog + ".old")
	if err != nil {
		t.Fatalf("rotated log missing: %v", err)
	}
	if !strings.Contains(string(old), "previous run") {
		t.Error("rotated log lost previous content")
	}
}

func TestLogCaptureWriter(t *testing.T) {
	w := &LogCaptureWriter{}
	if w.GetLastLine() != "" {
		t.Error("expected empty initial line")
	}
	if _, err := w.Write([]byte("first")); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("second")); err != nil {
		t.Fatal(err)
	}
	if w.GetLastLine() != "second" {
		t.Errorf("expected last line 'second', got %q", w.GetLastLine())
	}
}
