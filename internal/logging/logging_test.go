package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLevel("info")

	SetLevel("warn")
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	Errorf("100%% done")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info message logged at warn level: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") {
		t.Errorf("Expected warn message, got %q", out)
	}
	if !strings.Contains(out, "[ERROR] 100% done") {
		t.Errorf("Expected escaped percent in error message, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	if l, ok := ParseLevel(" Warning "); !ok || l != LevelWarn {
		t.Errorf("Expected LevelWarn, got %v (%v)", l, ok)
	}
	if _, ok := ParseLevel("loud"); ok {
		t.Errorf("Expected unknown level to be rejected")
	}
}
