package logging

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// testLogger creates a logger that writes to a buffer for testing
func testLogger() (*bolt.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return NewJSON(buf, "trace"), buf
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	if config.Level != "info" {
		t.Errorf("Level = %s, want info", config.Level)
	}
	if config.Format != "console" {
		t.Errorf("Format = %s, want console", config.Format)
	}
	if config.Output != os.Stderr {
		t.Errorf("Output = %v, want os.Stderr", config.Output)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bolt.Level
	}{
		{"trace", bolt.TRACE},
		{"debug", bolt.DEBUG},
		{"info", bolt.INFO},
		{"warn", bolt.WARN},
		{"error", bolt.ERROR},
		{"unknown", bolt.INFO},
		{"", bolt.INFO},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%s) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"run id", RunID("run-1"), `"run_id":"run-1"`},
		{"scenario", Scenario("muddy"), `"scenario":"muddy"`},
		{"step", Step(2, "announce"), `"kind":"announce"`},
		{"formula", Formula("K_a p"), `"formula":"K_a p"`},
		{"worlds", Worlds(7), `"worlds":7`},
		{"pairs", Pairs(12), `"pairs":12`},
		{"candidates", Candidates(3), `"candidates":3`},
		{"holds", Holds(true), `"holds":true`},
		{"duration", Duration(100 * time.Millisecond), `"duration_ms":100`},
		{"component", Component("solver"), `"component":"solver"`},
		{"operation", Operation("solve"), `"operation":"solve"`},
		{"str", Str("key", "value"), `"key":"value"`},
		{"error", ErrorField(errors.New("boom")), `"error":"boom"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := testLogger()
			NewEvent(logger.Info()).Add(tt.field).Msg("test")
			if !bytes.Contains(buf.Bytes(), []byte(tt.want)) {
				t.Errorf("expected %s in output: %s", tt.want, buf.String())
			}
		})
	}
}

func TestErrorFieldNil(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	NewEvent(logger.Info()).Add(ErrorField(nil)).Msg("test")
	if bytes.Contains(buf.Bytes(), []byte(`"error"`)) {
		t.Errorf("unexpected error field in output: %s", buf.String())
	}
}

func TestSendWithoutMessage(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	NewEvent(logger.Info()).Add(Component("store")).Send()
	if !bytes.Contains(buf.Bytes(), []byte(`"component":"store"`)) {
		t.Errorf("expected component field in output: %s", buf.String())
	}
}

func TestLevelFilter(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := NewJSON(buf, "warn")
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Errorf("info event passed a warn logger: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Errorf("warn event was dropped: %s", buf.String())
	}
}

func TestGetInitializesDefault(t *testing.T) {
	if Get() == nil {
		t.Fatal("Get() returned nil")
	}
}
