package lib

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
)

// Environment is the process-wide transcoding environment: where ffmpeg
// and ffprobe live and what the ffmpeg build supports. Callers receive
// copies; reload produces a fresh snapshot instead of patching fields.
type Environment struct {
	FFmpegPath   string
	FFprobePath  string
	Capabilities CapabilitySet
}

var (
	envMu     sync.Mutex
	activeEnv Environment
	envCache  EnvironmentCache
)

// ConfigureEnvironmentCache sets the cache file used by environment
// (re)loads. Call once at startup before SetEnvironment.
func ConfigureEnvironmentCache(cache EnvironmentCache) {
	envMu.Lock()
	defer envMu.Unlock()
	envCache = cache
}

// ActiveEnvironment returns the current environment snapshot.
func ActiveEnvironment() Environment {
	envMu.Lock()
	defer envMu.Unlock()
	return activeEnv
}

// InitEnvironment establishes the environment at startup: adopt a valid
// cached snapshot when it matches the requested engine, otherwise probe.
func InitEnvironment(ffmpegPath, ffprobePath string) Environment {
	envMu.Lock()
	cached, ok := envCache.Load()
	envMu.Unlock()
	if ok && cached.FFmpegPath == ffmpegPath {
		slog.Debug("Using cached environment", "ffmpeg", cached.FFmpegPath,
			"encoders", cached.Capabilities.EncoderNames())
		envMu.Lock()
		if ffprobePath != "" {
			cached.FFprobePath = ffprobePath
		}
		activeEnv = cached
		envMu.Unlock()
		return cached
	}
	return SetEnvironment(ffmpegPath, ffprobePath, nil)
}

// SetEnvironment probes (or adopts) a capability snapshot for the given
// engine and makes it the active environment. When a fresh probe comes
// back without any encoders, a previously cached snapshot is preferred
// over the empty result so a transient probe failure does not discard a
// known-good hardware profile. An empty snapshot is never persisted.
func SetEnvironment(ffmpegPath, ffprobePath string, caps *CapabilitySet) Environment {
	if ffprobePath == "" {
		ffprobePath = FindFFprobe(ffmpegPath)
	}

	detected := NewCapabilitySet()
	if caps != nil {
		detected = *caps
	} else if ffmpegPath != "" {
		detected = DetectCapabilities(ffmpegPath)
	}

	envMu.Lock()
	defer envMu.Unlock()

	env := Environment{
		FFmpegPath:   ffmpegPath,
		FFprobePath:  ffprobePath,
		Capabilities: detected,
	}

	if !detected.HasEncoders() {
		slog.Warn("Hardware detection came back empty, trying cached snapshot")
		if cached, ok := envCache.Load(); ok && cached.Capabilities.HasEncoders() {
			// Keep the freshly supplied paths, reuse the cached hardware profile.
			env.Capabilities = cached.Capabilities
		}
	}

	activeEnv = env

	if env.Capabilities.HasEncoders() {
		envCache.Save(env)
	} else {
		slog.Warn("No hardware encoders found; cache left untouched, falling back to CPU")
	}
	return env
}

// EngineRunnable reports whether the ffmpeg binary at path starts and
// exits cleanly.
func EngineRunnable(path string) bool {
	return exec.Command(path, "-version").Run() == nil
}

// FindFFprobe locates the ffprobe companion tool: first next to the
// ffmpeg binary, then on PATH. Returns "" when neither works, which
// downgrades source probing to its defaults.
func FindFFprobe(ffmpegPath string) string {
	name := "ffprobe"
	if runtime.GOOS == "windows" {
		name = "ffprobe.exe"
	}

	if resolved, err := exec.LookPath(ffmpegPath); err == nil {
		ffmpegPath = resolved
	}
	if dir := filepath.Dir(ffmpegPath); dir != "" && dir != "." {
		sibling := filepath.Join(dir, name)
		if info, err := os.Stat(sibling); err == nil && !info.IsDir() {
			if exec.Command(sibling, "-version").Run() == nil {
				return sibling
			}
		}
	}

	if path, err := exec.LookPath(name); err == nil {
		if exec.Command(path, "-version").Run() == nil {
			return path
		}
	}
	return ""
}
