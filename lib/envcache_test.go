package lib

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeStubEngine drops an executable that exits 0 for any invocation,
// standing in for a runnable ffmpeg binary.
func writeStubEngine(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("failed to write stub engine: %v", err)
	}
	return path
}

func TestEnvironmentCacheRoundTrip(t *testing.T) {
	engine := writeStubEngine(t)
	cache := EnvironmentCache{Path: filepath.Join(t.TempDir(), "env_cache.json")}

	caps := NewCapabilitySet()
	caps.Encoders[EncoderNVENC] = true
	caps.Encoders[EncoderQSV] = true
	caps.HWAccels["cuda"] = true
	caps.HWAccels["qsv"] = true
	caps.HWDecoders["h264_cuvid"] = true

	saved := Environment{
		FFmpegPath:   engine,
		FFprobePath:  "/usr/bin/ffprobe",
		Capabilities: caps,
	}
	cache.Save(saved)

	loaded, ok := cache.Load()
	if !ok {
		t.Fatal("expected cache to load")
	}
	if loaded.FFmpegPath != engine {
		t.Errorf("FFmpegPath = %q, want %q", loaded.FFmpegPath, engine)
	}
	if loaded.FFprobePath != "/usr/bin/ffprobe" {
		t.Errorf("FFprobePath = %q", loaded.FFprobePath)
	}
	if !reflect.DeepEqual(loaded.Capabilities, caps) {
		t.Errorf("Capabilities = %+v, want %+v", loaded.Capabilities, caps)
	}
}

func TestEnvironmentCacheMissingFile(t *testing.T) {
	cache := EnvironmentCache{Path: filepath.Join(t.TempDir(), "nope.json")}
	if _, ok := cache.Load(); ok {
		t.Error("missing file must be a cache miss")
	}
}

func TestEnvironmentCacheUnparsable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env_cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := (EnvironmentCache{Path: path}).Load(); ok {
		t.Error("unparsable file must be a cache miss")
	}
}

func TestEnvironmentCacheEmptyEncoders(t *testing.T) {
	engine := writeStubEngine(t)
	cache := EnvironmentCache{Path: filepath.Join(t.TempDir(), "env_cache.json")}

	cache.Save(Environment{
		FFmpegPath:   engine,
		Capabilities: NewCapabilitySet(),
	})

	// An empty encoder set is a known-bad snapshot; reuse must be refused.
	if _, ok := cache.Load(); ok {
		t.Error("cache with no encoders must be treated as invalid")
	}
}

func TestEnvironmentCacheUnrunnableEngine(t *testing.T) {
	cache := EnvironmentCache{Path: filepath.Join(t.TempDir(), "env_cache.json")}

	caps := NewCapabilitySet()
	caps.Encoders[EncoderNVENC] = true
	cache.Save(Environment{
		FFmpegPath:   filepath.Join(t.TempDir(), "gone", "ffmpeg"),
		Capabilities: caps,
	})

	if _, ok := cache.Load(); ok {
		t.Error("cache pointing at a missing engine must be invalid")
	}
}

func TestEnvironmentCacheFiltersListingHeader(t *testing.T) {
	engine := writeStubEngine(t)
	path := filepath.Join(t.TempDir(), "env_cache.json")

	data := `{
  "engine": ` + jsonString(engine) + `,
  "probe_tool": "ffprobe",
  "encoders": ["nvenc"],
  "hwaccels": ["Hardware acceleration methods:", "hardware acceleration methods:", "cuda"],
  "hwdecoders": []
}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, ok := (EnvironmentCache{Path: path}).Load()
	if !ok {
		t.Fatal("expected cache to load")
	}
	if loaded.Capabilities.HWAccels["hardware acceleration methods:"] {
		t.Error("listing header must not survive as an hwaccel name")
	}
	if !loaded.Capabilities.HWAccels["cuda"] {
		t.Error("cuda should survive the header filter")
	}
}

func TestEnvironmentCacheSaveNeverFails(t *testing.T) {
	// A cache path that cannot be created is logged and ignored.
	cache := EnvironmentCache{Path: string([]byte{0}) + "/env_cache.json"}
	caps := NewCapabilitySet()
	caps.Encoders[EncoderNVENC] = true
	cache.Save(Environment{FFmpegPath: "ffmpeg", Capabilities: caps})
}

func jsonString(s string) string {
	out := `"`
	for _, r := range s {
		if r == '"' || r == '\\' {
			out += `\`
		}
		out += string(r)
	}
	return out + `"`
}
