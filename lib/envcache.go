package lib

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// EnvironmentCache persists a detected environment snapshot between runs
// so a slow or transiently failing hardware probe does not cost us a
// previously known-good profile. Every failure mode on load is a cache
// miss, never an error surfaced to the caller.
type EnvironmentCache struct {
	Path string
}

type cacheRecord struct {
	Engine     string   `json:"engine"`
	ProbeTool  string   `json:"probe_tool"`
	Encoders   []string `json:"encoders"`
	HWAccels   []string `json:"hwaccels"`
	HWDecoders []string `json:"hwdecoders"`
}

// Load reads and validates the cached snapshot. ok is false when the file
// is absent, unparsable, names an engine that no longer runs, or carries
// an empty encoder set; all of those must trigger a fresh probe upstream.
func (c EnvironmentCache) Load() (Environment, bool) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return Environment{}, false
	}

	var rec cacheRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		slog.Warn("Ignoring unparsable environment cache", "path", c.Path, "error", err)
		return Environment{}, false
	}

	if rec.Engine == "" || !EngineRunnable(rec.Engine) {
		slog.Debug("Cached ffmpeg path no longer runnable", "ffmpeg", rec.Engine)
		return Environment{}, false
	}

	caps := NewCapabilitySet()
	for _, name := range rec.Encoders {
		if kind, ok := ParseEncoderKind(name); ok {
			caps.Encoders[kind] = true
		}
	}
	for _, name := range rec.HWAccels {
		// Old cache files may contain the raw listing header.
		if name != "" && !strings.EqualFold(name, hwAccelListingHeader) {
			caps.HWAccels[name] = true
		}
	}
	for _, name := range rec.HWDecoders {
		caps.HWDecoders[name] = true
	}

	if !caps.HasEncoders() {
		slog.Warn("Cached capability snapshot has no encoders, re-probing")
		return Environment{}, false
	}

	probeTool := rec.ProbeTool
	if probeTool == "" {
		probeTool = FindFFprobe(rec.Engine)
	}
	return Environment{
		FFmpegPath:   rec.Engine,
		FFprobePath:  probeTool,
		Capabilities: caps,
	}, true
}

// Save persists the snapshot. Best-effort: a cache that cannot be written
// is logged and forgotten, it never fails the workflow that produced it.
func (c EnvironmentCache) Save(env Environment) {
	rec := cacheRecord{
		Engine:     env.FFmpegPath,
		ProbeTool:  env.FFprobePath,
		Encoders:   env.Capabilities.EncoderNames(),
		HWAccels:   env.Capabilities.HWAccelNames(),
		HWDecoders: env.Capabilities.HWDecoderNames(),
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		slog.Warn("Failed to encode environment cache", "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		slog.Warn("Failed to create cache directory", "path", c.Path, "error", err)
		return
	}
	if err := os.WriteFile(c.Path, data, 0644); err != nil {
		slog.Warn("Failed to write environment cache", "path", c.Path, "error", err)
	}
}
