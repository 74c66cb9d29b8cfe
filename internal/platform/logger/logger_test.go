package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestSanitizeValueRedactsSecrets(t *testing.T) {
	for _, key := range []string{"password", "postgres_dsn", "api_token"} {
		if got := sanitizeValue(key, "hunter2"); got != "[REDACTED]" {
			t.Fatalf("%s: want redacted, got %v", key, got)
		}
	}
}

func TestSanitizeValueHashesContactPII(t *testing.T) {
	got, ok := sanitizeValue("email", "ana@x.com").(string)
	if !ok || !strings.HasPrefix(got, "hash:") {
		t.Fatalf("email: want hash prefix, got %v", got)
	}
	again := sanitizeValue("email", "ana@x.com")
	if again != got {
		t.Fatalf("hash must be stable: %v != %v", again, got)
	}
	if other := sanitizeValue("document_number", 40000001); other == 40000001 {
		t.Fatalf("document_number should be hashed")
	}
}

func TestSanitizeValuePassesThroughPlainKeys(t *testing.T) {
	if got := sanitizeValue("locality", "Moron"); got != "Moron" {
		t.Fatalf("locality: got %v", got)
	}
	nested := sanitizeValue("fields", map[string]interface{}{"email": "a@b.c", "age": 30}).(map[string]interface{})
	if nested["age"] != 30 {
		t.Fatalf("nested age changed: %v", nested["age"])
	}
	if s, _ := nested["email"].(string); !strings.HasPrefix(s, "hash:") {
		t.Fatalf("nested email not hashed: %v", nested["email"])
	}
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"development", "production", "test"} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.With("service", "test").Debug("hello", "email", "x@y.z")
	}
}

func TestNewLogLevelOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	l, err := New("development")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.SugaredLogger.Desugar().Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("warn should be disabled at LOG_LEVEL=error")
	}

	t.Setenv("LOG_LEVEL", "loud")
	if _, err := New("development"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
