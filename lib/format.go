package lib

import (
	"path/filepath"
	"strings"
)

// SafeTimeString makes a start/duration value usable inside a file name.
// "00:12:30" becomes "00-12-30".
func SafeTimeString(t string) string {
	t = strings.ReplaceAll(t, ":", "-")
	return strings.ReplaceAll(t, " ", "_")
}

// DefaultOutputPath derives the output file name from the input path and
// the cut range: "{base}_{start}.ext" or "{base}_{start}_len_{duration}.ext".
// Compatibility mode forces the .mp4 extension.
func DefaultOutputPath(inputPath, start, duration string, compatMP4 bool) string {
	dir := filepath.Dir(inputPath)
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)
	if compatMP4 {
		ext = ".mp4"
	}

	name := base + "_" + SafeTimeString(start)
	if duration != "" {
		name += "_len_" + SafeTimeString(duration)
	}
	return filepath.Join(dir, name+ext)
}

// ForceMP4Extension rewrites the path's extension to .mp4 unless it
// already is (case-insensitively).
func ForceMP4Extension(path string) string {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".mp4") {
		return path
	}
	return strings.TrimSuffix(path, ext) + ".mp4"
}
