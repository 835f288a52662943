// Package probe runs the startup self-checks: content library sanity and
// the speech environment. Critical failures abort startup; advisory ones
// log and let the dashboard come up degraded.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"atlasgo/pkg/content"
)

// checkTimeout bounds a single check even under a long-lived parent context.
const checkTimeout = 5 * time.Second

// Check is a single startup check.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
	// Critical marks checks whose failure must prevent startup.
	Critical bool
}

// RunAll executes the checks in order, logging each outcome, and returns
// the joined errors of the critical failures.
func RunAll(ctx context.Context, checks []Check) error {
	var critical []error

	for _, c := range checks {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		start := time.Now()
		err := c.Run(cctx)
		cancel()
		took := time.Since(start).Round(time.Millisecond)

		switch {
		case err == nil:
			slog.Info("Startup check passed", "check", c.Name, "took", took)
		case c.Critical:
			slog.Error("Startup check failed", "check", c.Name, "took", took, "error", err)
			critical = append(critical, fmt.Errorf("%s: %w", c.Name, err))
		default:
			slog.Warn("Startup check degraded", "check", c.Name, "took", took, "error", err)
		}
	}

	return errors.Join(critical...)
}

// ContentLibrary verifies the loaded lesson library is usable.
func ContentLibrary(lib *content.Library) Check {
	return Check{
		Name: "content library",
		Run: func(context.Context) error {
			lessons := lib.Lessons()
			if len(lessons) == 0 {
				return errors.New("no lessons loaded")
			}
			for _, l := range lessons {
				if len(lib.Bank(l.ID)) == 0 {
					slog.Warn("Lesson has no question bank", "lesson", l.ID)
				}
			}
			return nil
		},
		Critical: true,
	}
}

// edgeEnvKeys are the variables the Edge TTS synthesizer dials with.
var edgeEnvKeys = []string{
	"EDGE_TTS_ORIGIN",
	"EDGE_TTS_USER_AGENT",
	"EDGE_TTS_TRUSTED_CLIENT_TOKEN",
	"EDGE_TTS_SEC_MS_GEC_VERSION",
	"EDGE_TTS_BASE_URL",
}

// EdgeTTSEnv verifies the Edge TTS credentials are present. Advisory:
// speech failures degrade to silence, never block startup.
func EdgeTTSEnv() Check {
	return Check{
		Name: "edge-tts environment",
		Run: func(context.Context) error {
			var missing []string
			for _, key := range edgeEnvKeys {
				if os.Getenv(key) == "" {
					missing = append(missing, key)
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("missing env: %v", missing)
			}
			return nil
		},
	}
}
