package logging

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func TestLoggingMiddlewareLogsRequests(t *testing.T) {
	logger, buf := captureLogger()

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest("GET", "/drug/aspirin?page=1", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	out := buf.String()
	if !strings.Contains(out, `"path":"/drug/aspirin"`) {
		t.Errorf("Expected path in log output, got %s", out)
	}
	if !strings.Contains(out, `"status_code":418`) {
		t.Errorf("Expected captured status code, got %s", out)
	}
	if !strings.Contains(out, `"query":"page=1"`) {
		t.Errorf("Expected query string in log output, got %s", out)
	}
	if !strings.Contains(out, `"bytes_written":15`) {
		t.Errorf("Expected bytes written in log output, got %s", out)
	}
}

func TestLoggingMiddlewareSkipsProbes(t *testing.T) {
	logger, buf := captureLogger()

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, path := range []string{"/health", "/metrics"} {
		req := httptest.NewRequest("GET", path, nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if buf.Len() != 0 {
		t.Errorf("Probe endpoints must not be logged, got %s", buf.String())
	}
}
