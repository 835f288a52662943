package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Content ContentConfig `yaml:"content"`
	Session SessionConfig `yaml:"session"`
	Speech  SpeechConfig  `yaml:"speech"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server LogSettings `yaml:"server"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// ContentConfig holds lesson library settings. An empty dir means the
// lessons embedded in the binary.
type ContentConfig struct {
	Dir string `yaml:"dir"`
}

// SessionConfig holds per-session defaults.
type SessionConfig struct {
	DefaultLesson string `yaml:"default_lesson"`
	// TTL evicts chat sessions idle longer than this.
	TTL Duration `yaml:"ttl"`
}

// SpeechConfig holds voice channel settings.
type SpeechConfig struct {
	Enabled  bool    `yaml:"enabled"`
	Engine   string  `yaml:"engine"`
	Language string  `yaml:"language"`
	Rate     float64 `yaml:"rate"`
	Pitch    float64 `yaml:"pitch"`
	Volume   float64 `yaml:"volume"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "localhost:1923",
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
		},
		Content: ContentConfig{
			Dir: "",
		},
		Session: SessionConfig{
			DefaultLesson: "water",
			TTL:           Duration(2 * time.Hour),
		},
		Speech: SpeechConfig{
			Enabled:  true,
			Engine:   "edge-tts",
			Language: "ar-EG",
			Rate:     1.02,
			Pitch:    1.05,
			Volume:   1.0,
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk (to preserve user formatting and comments).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		// If file does not exist, save defaults
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to save config file: %w", err)
		}
	}

	if !isValidLocale(cfg.Speech.Language) {
		return nil, fmt.Errorf("invalid speech language format '%s': must be 'xx-YY' (e.g. 'ar-EG')", cfg.Speech.Language)
	}

	return cfg, nil
}

func isValidLocale(s string) bool {
	matched, _ := regexp.MatchString(`^[a-z]{2}-[A-Z]{2}$`, s)
	return matched
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# AtlasGo Configuration
# --------------------
# Duration units: ns, us, ms, s, m, h, d (day), w (week)

`)
	data = append(header, data...)

	// Inject comments for enum fields.
	reEngine := regexp.MustCompile(`(?m)^(\s+)engine:`)
	data = reEngine.ReplaceAll(data, []byte("${1}# Options: edge-tts, none\n${1}engine:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil // File exists, do nothing
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
