package probe

import (
	"context"
	"errors"
	"testing"

	"atlasgo/pkg/content"
)

func TestRunAll(t *testing.T) {
	tests := []struct {
		name    string
		checks  []Check
		wantErr bool
	}{
		{
			name: "AllPass",
			checks: []Check{
				{Name: "ok", Run: func(context.Context) error { return nil }, Critical: true},
			},
			wantErr: false,
		},
		{
			name: "CriticalFailure",
			checks: []Check{
				{Name: "bad", Run: func(context.Context) error { return errors.New("boom") }, Critical: true},
			},
			wantErr: true,
		},
		{
			name: "AdvisoryFailure",
			checks: []Check{
				{Name: "meh", Run: func(context.Context) error { return errors.New("boom") }},
			},
			wantErr: false,
		},
		{
			name: "MixedFailure",
			checks: []Check{
				{Name: "meh", Run: func(context.Context) error { return errors.New("boom") }},
				{Name: "bad", Run: func(context.Context) error { return errors.New("boom") }, Critical: true},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RunAll(context.Background(), tt.checks)
			if (err != nil) != tt.wantErr {
				t.Errorf("RunAll() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunAllBoundsCheckContext(t *testing.T) {
	checks := []Check{
		{
			Name: "deadline",
			Run: func(ctx context.Context) error {
				if _, ok := ctx.Deadline(); !ok {
					return errors.New("no deadline on check context")
				}
				return nil
			},
			Critical: true,
		},
	}
	if err := RunAll(context.Background(), checks); err != nil {
		t.Errorf("RunAll() = %v, want nil", err)
	}
}

func TestContentLibrary(t *testing.T) {
	lib, err := content.Load("")
	if err != nil {
		t.Fatalf("content.Load: %v", err)
	}
	if err := ContentLibrary(lib).Run(context.Background()); err != nil {
		t.Errorf("loaded library failed check: %v", err)
	}

	if err := ContentLibrary(&content.Library{}).Run(context.Background()); err == nil {
		t.Error("empty library passed check")
	}
}

func TestEdgeTTSEnv(t *testing.T) {
	for _, key := range edgeEnvKeys {
		t.Setenv(key, "x")
	}
	check := EdgeTTSEnv()
	if check.Critical {
		t.Error("edge-tts check must stay advisory")
	}
	if err := check.Run(context.Background()); err != nil {
		t.Errorf("full env failed check: %v", err)
	}

	t.Setenv("EDGE_TTS_BASE_URL", "")
	if err := check.Run(context.Background()); err == nil {
		t.Error("missing EDGE_TTS_BASE_URL passed check")
	}
}
