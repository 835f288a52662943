package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveAddr(t *testing.T) {
	tests := []struct {
		name string
		addr string
		want string
	}{
		{
			name: "PortOnly",
			addr: ":1923",
			want: "127.0.0.1:1923",
		},
		{
			name: "Localhost",
			addr: "localhost:1923",
			want: "127.0.0.1:1923",
		},
		{
			name: "ExplicitHost",
			addr: "192.168.1.5:1923",
			want: "192.168.1.5:1923",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Manager{serverAddr: tt.addr}
			if got := m.resolveAddr(); got != tt.want {
				t.Errorf("resolveAddr() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasConfig(t *testing.T) {
	tempDir := t.TempDir()

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(originalWd)

	if err := os.Chdir(tempDir); err != nil {
		t.Fatal(err)
	}

	m := &Manager{}
	if m.hasConfig() {
		t.Error("hasConfig() = true in empty directory")
	}

	if err := os.MkdirAll("configs", 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", "atlas.yaml"), []byte("server:\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if !m.hasConfig() {
		t.Error("hasConfig() = false with config present")
	}
}
