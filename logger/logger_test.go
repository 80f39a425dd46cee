package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func newJSONLogger(level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := &Config{Level: level, Format: "json"}
	return NewWithWriter(cfg, "test-svc", &buf), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("decode %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	l, buf := newJSONLogger("bogus")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug should be filtered at info level, got %q", buf.String())
	}
	l.Info("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("info should be written, got %q", buf.String())
	}
}

func TestWithComponentAndFields(t *testing.T) {
	l, buf := newJSONLogger("debug")
	l.WithComponent("refresh").Info("done", Fields(FieldWaiters, 3, "ignored"))

	m := decodeLine(t, buf)
	if m[FieldComponent] != "refresh" {
		t.Errorf("component = %v, want refresh", m[FieldComponent])
	}
	if m[FieldWaiters] != float64(3) {
		t.Errorf("waiters = %v, want 3", m[FieldWaiters])
	}
	if m["service"] != "test-svc" {
		t.Errorf("service = %v, want test-svc", m["service"])
	}
	if _, ok := m["ignored"]; ok {
		t.Error("odd trailing key should be dropped")
	}
}

func TestWithContextRequestID(t *testing.T) {
	l, buf := newJSONLogger("info")
	ctx := ContextWithRequestID(context.Background(), "req-1")
	l.WithContext(ctx).Warn("slow")

	m := decodeLine(t, buf)
	if m[FieldRequestID] != "req-1" {
		t.Errorf("request_id = %v, want req-1", m[FieldRequestID])
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("empty context should have no request id, got %q", got)
	}
}

func TestWithError(t *testing.T) {
	l, buf := newJSONLogger("info")
	l.WithError(errors.New("boom")).Error("failed")

	m := decodeLine(t, buf)
	if m["error"] != "boom" {
		t.Errorf("error = %v, want boom", m["error"])
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"bad level", Config{Level: "loud"}, true},
		{"bad format", Config{Format: "xml"}, true},
		{"bad output", Config{Output: "file"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.ApplyDefaults()
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultAndOrDefault(t *testing.T) {
	custom := Nop()
	SetDefault(custom)
	defer SetDefault(nil)

	if Default() != custom {
		t.Error("Default should return the logger set with SetDefault")
	}
	if OrDefault(nil) != custom {
		t.Error("OrDefault(nil) should return the default logger")
	}
	other := Nop()
	if OrDefault(other) != other {
		t.Error("OrDefault should return a non-nil argument unchanged")
	}
}
