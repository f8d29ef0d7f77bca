package lib

import (
	"os/exec"
	"strconv"
	"strings"
)

// SourceProber reads metadata from a media file. Satisfied by
// FFprobeSource; plan tests substitute a stub.
type SourceProber interface {
	// Codec returns the first video stream's codec name, lowercased.
	// ok is false when the lookup fails or the stream reports no codec.
	Codec(inputPath string) (name string, ok bool)
	// BitrateBps returns the source video bitrate in bits per second,
	// or 0 when neither the stream nor the container reports one.
	BitrateBps(inputPath string) uint64
}

// FFprobeSource queries media metadata through the ffprobe companion tool.
type FFprobeSource struct {
	Path string
}

func (p FFprobeSource) Codec(inputPath string) (string, bool) {
	out, err := p.run(
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name",
		"-of", "default=nokey=1:noprint_wrappers=1",
		inputPath)
	if err != nil {
		return "", false
	}
	name := strings.ToLower(strings.TrimSpace(out))
	return name, name != ""
}

func (p FFprobeSource) BitrateBps(inputPath string) uint64 {
	// Stream-level value first, container-level as fallback. Some
	// containers (mkv in particular) only report the latter.
	if v := p.bitrateEntry("stream=bit_rate", true, inputPath); v > 0 {
		return v
	}
	return p.bitrateEntry("format=bit_rate", false, inputPath)
}

func (p FFprobeSource) bitrateEntry(entry string, selectVideo bool, inputPath string) uint64 {
	args := []string{"-v", "error"}
	if selectVideo {
		args = append(args, "-select_streams", "v:0")
	}
	args = append(args,
		"-show_entries", entry,
		"-of", "default=nokey=1:noprint_wrappers=1",
		inputPath)

	out, err := p.run(args...)
	if err != nil {
		return 0
	}
	v, err := strconv.ParseUint(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func (p FFprobeSource) run(args ...string) (string, error) {
	if p.Path == "" {
		return "", exec.ErrNotFound
	}
	out, err := exec.Command(p.Path, args...).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
