package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"info", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"trace", LevelTrace},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("debug", &buf)

	logger.Debug("visible")
	logger.Log(nil, LevelTrace, "hidden")

	out := buf.String()
	if !strings.Contains(out, "visible") {
		t.Errorf("debug message missing from output: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("trace message should be filtered at debug level: %q", out)
	}
}

func TestTraceLoggerNilAtInfo(t *testing.T) {
	tl := NewTraceLogger(t.TempDir(), "info")
	if tl != nil {
		t.Fatal("NewTraceLogger at info level should return nil")
	}
	// All methods are nil-safe.
	tl.Log(map[string]any{"event": "ignored"})
	tl.Close()
}

func TestTraceLoggerWritesJSONL(t *testing.T) {
	dir := t.TempDir()
	tl := NewTraceLogger(dir, "debug")
	if tl == nil {
		t.Fatal("NewTraceLogger at debug level returned nil")
	}

	tl.Log(map[string]any{"event": "task_start", "task": "task_1"})
	tl.Log(map[string]any{"event": "task_end", "task": "task_1"})
	tl.Close()

	f, err := os.Open(filepath.Join(dir, "trace.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Errorf("line %d is not JSON: %v", lines, err)
		}
		if _, ok := entry["time"]; !ok {
			t.Errorf("line %d missing time field", lines)
		}
	}
	if lines != 2 {
		t.Errorf("trace file has %d lines, want 2", lines)
	}
}
