package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Error("missing file reported as existing")
	}
	if resolved == "" {
		t.Error("resolved path empty")
	}
	if cfg.Align.WindowSize != defaultWindowSize {
		t.Errorf("window size = %d, want default %d", cfg.Align.WindowSize, defaultWindowSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	content := `
[align]
window_size = 40
best_align = false

[match]
source_language = "en"
target_language = "fi"
cognate_threshold = 0.8

[logging]
level = "DEBUG"
`
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("existing file reported missing")
	}
	if cfg.Align.WindowSize != 40 {
		t.Errorf("window size = %d, want 40", cfg.Align.WindowSize)
	}
	if cfg.Align.BestAlign {
		t.Error("best_align should be overridden to false")
	}
	if cfg.Match.SourceLanguage != "en" || cfg.Match.TargetLanguage != "fi" {
		t.Errorf("languages = %q/%q", cfg.Match.SourceLanguage, cfg.Match.TargetLanguage)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want normalized debug", cfg.Logging.Level)
	}
	// Untouched sections keep defaults.
	if cfg.Batch.Workers != defaultBatchWorkers {
		t.Errorf("workers = %d, want default", cfg.Batch.Workers)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero window", "[align]\nwindow_size = 0\n"},
		{"bad threshold", "[match]\ncognate_threshold = 1.5\n"},
		{"bad pattern", "[match]\ntoken_pattern = \"[\"\n"},
		{"zero workers", "[batch]\nworkers = 0\n"},
		{"sweep inverted", "[match]\ncognate_sweep = true\ncognate_sweep_high = 0.4\ncognate_sweep_low = 0.8\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := Load(path); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	got, err := expandPath("~/dictionaries")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != filepath.Join(home, "dictionaries") {
		t.Errorf("expandPath = %q", got)
	}

	empty, err := expandPath("  ")
	if err != nil || empty != "" {
		t.Errorf("expandPath(blank) = %q, %v", empty, err)
	}
}

func TestSampleConfigParses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(SampleConfig()), 0o644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("sample config must load cleanly: %v", err)
	}
	if !strings.Contains(cfg.Paths.DictionaryDir, "subalign") {
		t.Errorf("dictionary dir = %q", cfg.Paths.DictionaryDir)
	}
}
