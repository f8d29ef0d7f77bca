package lib

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestQuoteCommand(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
	}{
		{[]string{"ffmpeg", "-i", "a.mov"}, "ffmpeg -i a.mov"},
		{[]string{"ffmpeg", "-i", "my clip.mov"}, "ffmpeg -i 'my clip.mov'"},
		{[]string{"-vf", "format=nv12,hwupload"}, "-vf format=nv12,hwupload"},
		{[]string{"a'b"}, `'a'\''b'`},
		{[]string{""}, "''"},
	}

	for _, tt := range tests {
		if got := QuoteCommand(tt.args); got != tt.expected {
			t.Errorf("QuoteCommand(%v) = %q, want %q", tt.args, got, tt.expected)
		}
	}
}

func TestCutterDryRun(t *testing.T) {
	resetEnvironment(t)
	engine := writeStubEngine(t)

	caps := nvencCaps()
	SetEnvironment(engine, "", &caps)

	input := filepath.Join(t.TempDir(), "in.mkv")
	if err := os.WriteFile(input, []byte("not really a video"), 0644); err != nil {
		t.Fatal(err)
	}

	cutter := &Cutter{
		Request: CutRequest{
			InputPath: input,
			Start:     "00:00:05",
			Mode:      ModeFast,
			DryRun:    true,
		},
	}

	// Dry run must never launch ffmpeg, so a stub engine is enough.
	if err := cutter.Run(context.Background()); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
}

func TestCutterMissingInput(t *testing.T) {
	resetEnvironment(t)
	engine := writeStubEngine(t)
	caps := nvencCaps()
	SetEnvironment(engine, "", &caps)

	cutter := &Cutter{
		Request: CutRequest{
			InputPath: filepath.Join(t.TempDir(), "missing.mkv"),
			Start:     "0",
			Mode:      ModeFast,
			DryRun:    true,
		},
	}

	err := cutter.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "input file") {
		t.Errorf("expected input file error, got %v", err)
	}
}
