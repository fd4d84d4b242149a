package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, "info", "json")

	log.Info("Questions parsed", "count", 3, "shape", "string_array")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "Questions parsed" {
		t.Fatalf("unexpected message: %v", entry["message"])
	}
	if entry["level"] != "info" {
		t.Fatalf("unexpected level: %v", entry["level"])
	}
	if entry["count"] != float64(3) {
		t.Fatalf("unexpected count field: %v", entry["count"])
	}
	if entry["shape"] != "string_array" {
		t.Fatalf("unexpected shape field: %v", entry["shape"])
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, "warn", "json")

	log.Debug("hidden")
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug and info to be filtered, got %q", buf.String())
	}

	log.Error("generator failed", errors.New("timeout"), "request_id", "abc")
	if !strings.Contains(buf.String(), `"error":"timeout"`) {
		t.Fatalf("expected error field, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"request_id":"abc"`) {
		t.Fatalf("expected request_id field, got %q", buf.String())
	}
}

func TestLoggerConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithWriter(&buf, "debug", "console")

	log.Debug("PDF processing page", "page", 2)
	out := buf.String()
	if !strings.Contains(out, "PDF processing page") || !strings.Contains(out, "page=2") {
		t.Fatalf("unexpected console output: %q", out)
	}
}

func TestToFieldMapDropsDanglingKey(t *testing.T) {
	fields := toFieldMap([]interface{}{"a", 1, 7, "seven", "dangling"})
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(fields), fields)
	}
	if fields["7"] != "seven" {
		t.Fatalf("expected non-string key to be stringified, got %v", fields)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
