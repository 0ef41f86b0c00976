package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger_ServiceAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "api", "info", "json")

	logger.Info("server starting")

	out := buf.String()
	if !strings.Contains(out, `"service":"api"`) {
		t.Errorf("expected service attribute on every record, got %s", out)
	}
	if !strings.Contains(out, "server starting") {
		t.Errorf("expected message in output, got %s", out)
	}
}

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "api", "warn", "json")

	logger.Info("suppressed")
	logger.Warn("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("info record must be filtered at warn level, got %s", out)
	}
	if !strings.Contains(out, "emitted") {
		t.Errorf("warn record missing, got %s", out)
	}
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "", "info", "text")

	logger.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "msg=hello") {
		t.Errorf("expected text format output, got %s", out)
	}
	if strings.Contains(out, "service=") {
		t.Errorf("empty service must add no attribute, got %s", out)
	}
}
