package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestLogger(t *testing.T) (*Logger, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewLogger(false, logPath)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	return logger, logPath
}

func readLogEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("malformed log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

// TestLoggerWritesJSONToFile verifies structured fields reach the log file.
func TestLoggerWritesJSONToFile(t *testing.T) {
	logger, logPath := newTestLogger(t)

	logger.Info("collector started", zap.String("subreddit", "streetwear"), zap.Int("limit", 30))
	logger.Sync()

	entries := readLogEntries(t, logPath)
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	entry := entries[0]
	if entry["msg"] != "collector started" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["subreddit"] != "streetwear" {
		t.Errorf("subreddit = %v", entry["subreddit"])
	}
	if entry["limit"] != float64(30) {
		t.Errorf("limit = %v", entry["limit"])
	}
}

// TestLoggerRedactsSensitiveFieldNames verifies key-based redaction.
func TestLoggerRedactsSensitiveFieldNames(t *testing.T) {
	logger, logPath := newTestLogger(t)

	logger.Info("auth configured", zap.String("groq_api_key", "gsk_realkey1234567890abcdefgh"))
	logger.Sync()

	entries := readLogEntries(t, logPath)
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0]["groq_api_key"] != RedactedPlaceholder {
		t.Errorf("groq_api_key = %v, want %q", entries[0]["groq_api_key"], RedactedPlaceholder)
	}
}

// TestLoggerRedactsSensitiveValues verifies value-pattern redaction in
// otherwise innocent fields.
func TestLoggerRedactsSensitiveValues(t *testing.T) {
	logger, logPath := newTestLogger(t)

	logger.Warn("request failed", zap.String("detail", "header was Bearer abcdefghijklmnopqrstuvwx"))
	logger.Sync()

	entries := readLogEntries(t, logPath)
	detail, _ := entries[0]["detail"].(string)
	if strings.Contains(detail, "abcdefghijklmnopqrstuvwx") {
		t.Errorf("token leaked into log: %q", detail)
	}
	if !strings.Contains(detail, RedactedPlaceholder) {
		t.Errorf("detail = %q, want redaction placeholder", detail)
	}
}

// TestLoggerNamed verifies named sub-loggers tag their entries.
func TestLoggerNamed(t *testing.T) {
	logger, logPath := newTestLogger(t)

	logger.Named("reddit").Info("collection complete")
	logger.Sync()

	entries := readLogEntries(t, logPath)
	if entries[0]["logger"] != "reddit" {
		t.Errorf("logger = %v, want reddit", entries[0]["logger"])
	}
}

// TestLoggerDebugLevelGating verifies debug entries are dropped in
// production mode and kept in development mode.
func TestLoggerDebugLevelGating(t *testing.T) {
	prodLogger, prodPath := newTestLogger(t)
	prodLogger.Debug("hidden")
	prodLogger.Sync()
	if data, _ := os.ReadFile(prodPath); strings.Contains(string(data), "hidden") {
		t.Error("debug entry written in production mode")
	}

	devPath := filepath.Join(t.TempDir(), "dev.log")
	devLogger, err := NewLogger(true, devPath)
	if err != nil {
		t.Fatalf("NewLogger(dev) error = %v", err)
	}
	devLogger.Debug("visible")
	devLogger.Sync()
	if data, _ := os.ReadFile(devPath); !strings.Contains(string(data), "visible") {
		t.Error("debug entry missing in development mode")
	}
}

// TestNilLoggerSync verifies Sync is safe on a nil logger.
func TestNilLoggerSync(t *testing.T) {
	var logger *Logger
	if err := logger.Sync(); err != nil {
		t.Errorf("nil Sync() = %v, want nil", err)
	}
}
