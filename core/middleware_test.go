package core

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
)

func TestRequestLogger_EmitsJSONLine(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	var seenID string
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestIDFromContext(r.Context())
		markVariant(w, VariantDiagram)
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/variants/diagram", nil))

	var entry logEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}

	if entry.Status != http.StatusTeapot {
		t.Errorf("unexpected status: %d", entry.Status)
	}
	if entry.Path != "/variants/diagram" || entry.Method != http.MethodGet {
		t.Errorf("unexpected request fields: %+v", entry)
	}
	if entry.Variant != "diagram" {
		t.Errorf("expected variant diagram, got %q", entry.Variant)
	}
	if entry.RequestID == "" || entry.RequestID != seenID {
		t.Errorf("expected request ID in context and log, got %q and %q", seenID, entry.RequestID)
	}
	if rec.Header().Get(RequestIDHeader) != entry.RequestID {
		t.Errorf("expected request ID response header")
	}
}

func TestRequestLogger_KeepsIncomingRequestID(t *testing.T) {
	var buf bytes.Buffer
	handler := RequestLogger(log.New(&buf, "", 0))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("expected incoming request ID to be echoed, got %q", got)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Errorf("expected error level for 500, got %s", buf.String())
	}
}
