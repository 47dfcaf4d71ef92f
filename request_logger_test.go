package client

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) record(level, format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, v...))
}

func (l *recordingLogger) Errorf(format string, v ...any) { l.record("ERROR", format, v...) }
func (l *recordingLogger) Warnf(format string, v ...any)  { l.record("WARN", format, v...) }
func (l *recordingLogger) Debugf(format string, v ...any) { l.record("DEBUG", format, v...) }

func (l *recordingLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}

func TestRequestLogger_ReceivesRequests(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, map[string]string{
		"/item_by_counter/1": `{"err": 0}`,
	})
	logger := &recordingLogger{}
	c := newTestClient(t, server, WithRequestLogger(logger))

	_, _ = c.ResolveItemID(context.Background(), 1)

	out := logger.String()

	if !strings.Contains(out, "DEBUG GET /item_by_counter/{counter} (item_by_counter)") {
		t.Errorf("expected request to be logged, got:\n%s", out)
	}

	if !strings.Contains(out, "WARN item_by_counter: success envelope without result") {
		t.Errorf("expected protocol violation to be logged, got:\n%s", out)
	}

	if strings.Contains(out, testToken) {
		t.Errorf("log output must not contain the token:\n%s", out)
	}
}

func TestSlogLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	logger.Debugf("hidden %d", 1)
	logger.Warnf("shown %d", 2)
	logger.Errorf("also shown %s", "three")

	out := buf.String()

	if strings.Contains(out, "hidden") {
		t.Errorf("debug message should be filtered, got:\n%s", out)
	}

	if !strings.Contains(out, `msg="shown 2"`) || !strings.Contains(out, `msg="also shown three"`) {
		t.Errorf("expected warn and error messages, got:\n%s", out)
	}

	if !strings.Contains(out, "component=rollbar-client") {
		t.Errorf("expected component attribute, got:\n%s", out)
	}
}

func TestNewSlogLogger_NilUsesDefault(t *testing.T) {
	t.Parallel()

	if NewSlogLogger(nil) == nil {
		t.Fatal("expected a logger")
	}
}
