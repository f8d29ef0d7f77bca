package lib

import (
	"log/slog"
	"os/exec"
	"strings"
)

var (
	probeCodecs          = []string{"h264", "hevc"}
	hardwareFamilies     = []EncoderKind{EncoderNVENC, EncoderAMF, EncoderQSV, EncoderVAAPI, EncoderVideoToolbox}
	hwDecoderSuffixes    = []string{"_qsv", "_cuvid", "_vaapi", "_videotoolbox", "_dxva2", "_d3d11va"}
	hwAccelListingHeader = "hardware acceleration methods:"
)

// DetectCapabilities probes the ffmpeg build at ffmpegPath for hardware
// encoders, acceleration frameworks, and hardware decoders. Each of the
// three listings is probed independently; a failed invocation degrades to
// an empty set for that dimension instead of failing the whole probe.
func DetectCapabilities(ffmpegPath string) CapabilitySet {
	caps := NewCapabilitySet()

	if out, err := runFFmpegListing(ffmpegPath, "-encoders"); err != nil {
		slog.Warn("Encoder probe failed", "ffmpeg", ffmpegPath, "error", err)
	} else {
		caps.Encoders = ParseEncoderListing(out)
	}

	if out, err := runFFmpegListing(ffmpegPath, "-hwaccels"); err != nil {
		slog.Warn("Hwaccel probe failed", "ffmpeg", ffmpegPath, "error", err)
	} else {
		caps.HWAccels = ParseHWAccelListing(out)
	}

	if out, err := runFFmpegListing(ffmpegPath, "-decoders"); err != nil {
		slog.Warn("Decoder probe failed", "ffmpeg", ffmpegPath, "error", err)
	} else {
		caps.HWDecoders = ParseHWDecoderListing(out)
	}

	slog.Debug("Hardware detection complete",
		"encoders", caps.EncoderNames(),
		"hwaccels", caps.HWAccelNames(),
		"hwdecoders", caps.HWDecoderNames())
	return caps
}

// runFFmpegListing captures one introspection listing as lowercased text.
// ffmpeg writes some listings to stderr, so stdout and stderr are combined.
func runFFmpegListing(ffmpegPath, flag string) (string, error) {
	cmd := exec.Command(ffmpegPath, "-hide_banner", flag)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", err
	}
	return strings.ToLower(string(out)), nil
}

// ParseEncoderListing scans an `ffmpeg -encoders` listing for hardware
// encoder names of the form "{codec}_{family}" (e.g. "h264_nvenc") and
// returns the set of families that appear for any probed codec.
func ParseEncoderListing(listing string) map[EncoderKind]bool {
	found := map[EncoderKind]bool{}
	for _, codec := range probeCodecs {
		for _, family := range hardwareFamilies {
			if strings.Contains(listing, codec+"_"+family.String()) {
				found[family] = true
			}
		}
	}
	return found
}

// ParseHWAccelListing turns an `ffmpeg -hwaccels` listing into the set of
// acceleration framework names, dropping the header line and blanks.
func ParseHWAccelListing(listing string) map[string]bool {
	accels := map[string]bool{}
	for _, line := range strings.Split(listing, "\n") {
		name := strings.TrimSpace(line)
		if name == "" || name == hwAccelListingHeader {
			continue
		}
		accels[name] = true
	}
	return accels
}

// ParseHWDecoderListing extracts hardware decoder names from an
// `ffmpeg -decoders` listing. The decoder name is the second whitespace
// token of each line; only names with a known hardware suffix are kept.
func ParseHWDecoderListing(listing string) map[string]bool {
	decoders := map[string]bool{}
	for _, line := range strings.Split(listing, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name := fields[1]
		for _, suffix := range hwDecoderSuffixes {
			if strings.HasSuffix(name, suffix) {
				decoders[name] = true
				break
			}
		}
	}
	return decoders
}
