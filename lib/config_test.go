package lib

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.FFmpegPath != "ffmpeg" {
		t.Errorf("FFmpegPath = %q, want ffmpeg", s.FFmpegPath)
	}
	if s.CacheFile == "" {
		t.Error("CacheFile default should not be empty")
	}
	if s.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", s.LogLevel)
	}
}

func TestLoadSettingsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "ffmpeg_path: /opt/ffmpeg/bin/ffmpeg\ncache_file: /tmp/vc_cache.json\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("FFmpegPath = %q", s.FFmpegPath)
	}
	if s.CacheFile != "/tmp/vc_cache.json" {
		t.Errorf("CacheFile = %q", s.CacheFile)
	}
	if s.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", s.LogLevel)
	}
}

func TestLoadSettingsMissingExplicitFile(t *testing.T) {
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("an explicitly requested config file that is missing should error")
	}
}
