package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/datespark/datespark/internal/logging"
)

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		expectedLevel string
	}{
		{"Success logs at info", http.StatusOK, "INFO"},
		{"Client error logs at warn", http.StatusBadRequest, "WARN"},
		{"Server error logs at error", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.New().SetOutput(&buf).SetLevel(logging.LevelDebug)

			mw := NewRequestLogger(logger)
			handler := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("hello"))
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations", nil))

			var entry logging.LogEntry
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("expected a JSON log line, got %q: %v", buf.String(), err)
			}

			if entry.Level != tt.expectedLevel {
				t.Errorf("expected level %s, got %s", tt.expectedLevel, entry.Level)
			}
			if entry.Fields["method"] != http.MethodGet {
				t.Errorf("expected method GET, got %v", entry.Fields["method"])
			}
			if entry.Fields["path"] != "/api/recommendations" {
				t.Errorf("expected path /api/recommendations, got %v", entry.Fields["path"])
			}
			if int(entry.Fields["status"].(float64)) != tt.status {
				t.Errorf("expected status %d, got %v", tt.status, entry.Fields["status"])
			}
			if int(entry.Fields["size"].(float64)) != len("hello") {
				t.Errorf("expected size %d, got %v", len("hello"), entry.Fields["size"])
			}
			if _, ok := entry.Fields["duration_ms"]; !ok {
				t.Error("expected a duration_ms field")
			}
		})
	}
}

func TestResponseRecorder_DefaultsToOK(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New().SetOutput(&buf)

	handler := NewRequestLogger(logger).Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// No explicit WriteHeader call.
		w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var entry logging.LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a JSON log line: %v", err)
	}
	if int(entry.Fields["status"].(float64)) != http.StatusOK {
		t.Errorf("expected recorded status 200, got %v", entry.Fields["status"])
	}
}
