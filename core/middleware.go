package core

import (
	"bufio"
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"
)

const RequestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

type logEntry struct {
	Timestamp  string `json:"ts"`
	Level      string `json:"level"`
	Message    string `json:"msg"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Status     int    `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	RequestID  string `json:"request_id,omitempty"`
	Variant    string `json:"variant,omitempty"`
}

// statusWriter captures the status code and the variant a handler served.
type statusWriter struct {
	http.ResponseWriter
	status  int
	variant Variant
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the live reload websocket upgrade through the logger.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func markVariant(w http.ResponseWriter, v Variant) {
	if sw, ok := w.(*statusWriter); ok {
		sw.variant = v
	}
}

// RequestLogger tags every request with an ID and emits one JSON log line
// per request.
func RequestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rid := r.Header.Get(RequestIDHeader)
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, rid)
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey, rid))

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			e := logEntry{
				Timestamp:  time.Now().Format(time.RFC3339Nano),
				Level:      "info",
				Message:    "request",
				Method:     r.Method,
				Path:       r.URL.Path,
				Status:     sw.status,
				DurationMs: time.Since(start).Milliseconds(),
				RequestID:  rid,
				Variant:    string(sw.variant),
			}
			if sw.status >= http.StatusInternalServerError {
				e.Level = "error"
			}
			b, _ := json.Marshal(e)
			logger.Println(string(b))
		})
	}
}

// Debugf logs only when debugLogs is enabled.
func Debugf(config Config, format string, args ...interface{}) {
	if config.DebugLogs {
		log.Printf("[debug] "+format, args...)
	}
}
