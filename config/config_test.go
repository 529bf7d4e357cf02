package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != "127.0.0.1:8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", cfg.Audio.SampleRate)
	}
	if cfg.Audio.WindowSeconds != 3 {
		t.Errorf("WindowSeconds = %d, want 3", cfg.Audio.WindowSeconds)
	}
	if cfg.Audio.MaxDurationSeconds != 6 {
		t.Errorf("MaxDurationSeconds = %d, want 6", cfg.Audio.MaxDurationSeconds)
	}
	if cfg.Features.NumMels != 128 || cfg.Features.FFTSize != 2048 || cfg.Features.HopSize != 512 {
		t.Errorf("Features = %+v", cfg.Features)
	}
	if cfg.ReadTimeout != 60*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
	}
	if cfg.PoolSize != 4 {
		t.Errorf("PoolSize = %d, want 4", cfg.PoolSize)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
addr: ":9090"
pool_size: 2
audio:
  max_duration_seconds: 10
features:
  num_mels: 64
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Addr)
	}
	if cfg.PoolSize != 2 {
		t.Errorf("PoolSize = %d, want 2", cfg.PoolSize)
	}
	if cfg.Audio.MaxDurationSeconds != 10 {
		t.Errorf("MaxDurationSeconds = %d, want 10", cfg.Audio.MaxDurationSeconds)
	}
	if cfg.Features.NumMels != 64 {
		t.Errorf("NumMels = %d, want 64", cfg.Features.NumMels)
	}
	// Untouched fields keep their defaults.
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want default 44100", cfg.Audio.SampleRate)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() error = nil, want error for missing explicit file")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SER_ADDR", ":7070")
	t.Setenv("SER_AUDIO_SAMPLE_RATE", "16000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("Addr = %q, want :7070", cfg.Addr)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", cfg.Audio.SampleRate)
	}
}

func TestDerivedValues(t *testing.T) {
	a := Audio{SampleRate: 44100, WindowSeconds: 3, MaxDurationSeconds: 6}
	if got := a.WindowSamples(); got != 132300 {
		t.Errorf("WindowSamples() = %d, want 132300", got)
	}
	if got := a.MaxSamples(); got != 264600 {
		t.Errorf("MaxSamples() = %d, want 264600", got)
	}

	f := Features{NumMels: 128, FFTSize: 2048, HopSize: 512}
	if got := f.FrameCount(132300); got != 255 {
		t.Errorf("FrameCount() = %d, want 255", got)
	}
}
