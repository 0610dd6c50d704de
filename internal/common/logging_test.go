package common

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func TestNewLoggerFromConfig_DefaultsToConsole(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{})
	if logger == nil {
		t.Fatal("NewLoggerFromConfig returned nil")
	}
	// Must not panic
	logger.Info().Str("key", "value").Msg("test message")
	logger.Debug().Int("count", 1).Msg("below default level")
}

func TestNewLoggerFromConfig_FileOutput(t *testing.T) {
	path := t.TempDir() + "/rag-mcp.log"
	logger := NewLoggerFromConfig(LoggingConfig{
		Level:    "info",
		Outputs:  []string{"file"},
		FilePath: path,
	})
	logger.Info().Str("tool", "rag_docs").Msg("written to file")
}

func TestNewLoggerFromConfig_DoesNotWriteToStdout(t *testing.T) {
	// stdout is the JSON-RPC channel in stdio mode.
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	logger := NewLoggerFromConfig(LoggingConfig{Level: "info", Outputs: []string{"console"}})
	logger.Info().Str("tool", "rag_docs").Msg("this must not go to stdout")
	logger.Error().Msg("neither should this")

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	r.Close()

	if buf.Len() > 0 {
		t.Errorf("Logger wrote %d bytes to stdout: %s", buf.Len(), buf.String())
	}
}

func TestNewLoggerWithOutput_WritesFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("info", &buf)
	logger.Info().Str("zeta", "z").Str("alpha", "a").Msg("hello")

	// Arbor dispatches asynchronously
	deadline := time.Now().Add(2 * time.Second)
	for buf.Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	out := buf.String()
	if !strings.Contains(out, "hello") {
		t.Fatalf("Expected message in output, got %q", out)
	}
	if strings.Index(out, "alpha=a") > strings.Index(out, "zeta=z") {
		t.Errorf("Expected fields sorted by key, got %q", out)
	}
}

func TestNewSilentLogger_DoesNotWriteToGlobalWriters(t *testing.T) {
	var buf bytes.Buffer
	_ = NewLoggerWithOutput("info", &buf)
	buf.Reset()

	silent := NewSilentLogger()
	silent.Info().Str("key", "value").Msg("this should NOT appear")
	silent.Error().Msg("this should NOT appear either")

	time.Sleep(50 * time.Millisecond)
	if buf.Len() > 0 {
		t.Errorf("Silent logger wrote %d bytes to global writer: %s", buf.Len(), buf.String())
	}
}

func TestWithCorrelationId_ReturnsNewLogger(t *testing.T) {
	logger := NewLoggerFromConfig(LoggingConfig{Level: "error"})
	correlated := logger.WithCorrelationId("call-123")

	if correlated == nil {
		t.Fatal("WithCorrelationId returned nil")
	}
	if correlated == logger {
		t.Error("WithCorrelationId should return a new Logger instance")
	}
	correlated.Info().Str("tool", "rag_docs").Msg("handler start")
}
