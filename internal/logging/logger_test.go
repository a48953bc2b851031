package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("aligned pair", String("pair", "a/b"), Float64("ratio", 3.5))
	out := buf.String()
	if !strings.Contains(out, "INF aligned pair") {
		t.Errorf("output missing level/message: %q", out)
	}
	if !strings.Contains(out, "pair=a/b") || !strings.Contains(out, "ratio=3.5") {
		t.Errorf("output missing attrs: %q", out)
	}
}

func TestNewConsoleQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("msg", String("path", "with space"))
	if !strings.Contains(buf.String(), `path="with space"`) {
		t.Errorf("value not quoted: %q", buf.String())
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("aligned", Int("links", 12))
	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if record["msg"] != "aligned" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["links"] != float64(12) {
		t.Errorf("links = %v", record["links"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info line should be filtered at warn level")
	}
	if !strings.Contains(out, "WRN shown") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	NewComponentLogger(logger, "batch").Info("start")
	if !strings.Contains(buf.String(), "component=batch") {
		t.Errorf("component attr missing: %q", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewComponentLogger(nil, "x")
	// Must not panic or emit anywhere.
	logger.Error("ignored", Error(nil))
}
