package lib

import (
	"errors"
	"fmt"
	"log/slog"
)

// Mode selects the cut strategy.
type Mode int

const (
	// ModeFast seeks before opening the input: near-instant start,
	// keyframe-accurate only.
	ModeFast Mode = iota
	// ModePrecise opens the input first and decodes up to the cut point:
	// frame-accurate, re-encodes at a bitrate matched to the source.
	ModePrecise
)

func (m Mode) String() string {
	switch m {
	case ModeFast:
		return "fast"
	case ModePrecise:
		return "precise"
	default:
		return "unknown"
	}
}

// ParseMode maps the CLI mode value onto a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "fast":
		return ModeFast, nil
	case "precise":
		return ModePrecise, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want fast or precise)", s)
	}
}

// DefaultBitrateBps is the rate-control floor used in precise mode when
// the source bitrate cannot be probed.
const DefaultBitrateBps uint64 = 100_000

// CutRequest describes one cut operation as supplied by the caller.
// Start and Duration are passed to ffmpeg verbatim ("HH:MM:SS" or seconds).
type CutRequest struct {
	InputPath  string
	Start      string
	Duration   string
	Mode       Mode
	OutputPath string
	CompatMP4  bool
	DryRun     bool
}

// TranscodePlan is the result of encoder selection and command synthesis
// for one request. Args is the complete command: Args[0] is the ffmpeg
// path and the final element is always OutputPath.
type TranscodePlan struct {
	Encoder          EncoderKind
	HWAccel          string // "" when decoding stays on the CPU
	HWDecoder        string // "" when no matching hardware decoder exists
	SourceBitrateBps uint64
	SourceCodec      string
	OutputPath       string
	Args             []string
}

// hwAccelCandidates lists, per encoder family, the acceleration
// frameworks worth pairing with it, most preferred first. EncoderCPU has
// no entry: software encoding never requests hardware decode.
var hwAccelCandidates = map[EncoderKind][]string{
	EncoderNVENC:        {"cuda"},
	EncoderAMF:          {"d3d11va", "dxva2"},
	EncoderQSV:          {"qsv", "d3d11va", "dxva2"},
	EncoderVAAPI:        {"vaapi"},
	EncoderVideoToolbox: {"videotoolbox"},
}

// PlanCut builds a plan for req against the active environment. When the
// environment carries no encoders at all it re-probes once first, in case
// the snapshot was taken before the hardware was ready.
func PlanCut(req CutRequest) (*TranscodePlan, error) {
	env := ActiveEnvironment()
	if env.FFmpegPath == "" {
		return nil, errors.New("no ffmpeg path configured")
	}
	if !env.Capabilities.HasEncoders() {
		env = SetEnvironment(env.FFmpegPath, env.FFprobePath, nil)
	}
	return BuildPlan(req, env, FFprobeSource{Path: env.FFprobePath})
}

// BuildPlan performs encoder/hwaccel/hwdecoder selection against env and
// synthesizes the full argument sequence. It fails only when env has no
// engine path or when synthesis hits an impossible mode/encoder value.
func BuildPlan(req CutRequest, env Environment, src SourceProber) (*TranscodePlan, error) {
	if env.FFmpegPath == "" {
		return nil, errors.New("no ffmpeg path configured")
	}

	plan := &TranscodePlan{
		Encoder:    env.Capabilities.ChooseEncoder(),
		OutputPath: resolveOutputPath(req),
	}

	slog.Info("Chosen encoder", "encoder", plan.Encoder.Description())
	if plan.Encoder == EncoderCPU && req.Mode == ModePrecise {
		slog.Warn("No hardware acceleration available, falling back to CPU encoding")
	}

	if req.Mode == ModePrecise {
		plan.SourceBitrateBps = src.BitrateBps(req.InputPath)
		if plan.SourceBitrateBps == 0 {
			slog.Warn("Could not probe source bitrate, using default",
				"default_bps", DefaultBitrateBps)
			plan.SourceBitrateBps = DefaultBitrateBps
		}
	}

	if codec, ok := src.Codec(req.InputPath); ok {
		plan.SourceCodec = codec
	}

	plan.HWAccel = chooseHWAccel(plan.Encoder, env.Capabilities)
	plan.HWDecoder = chooseHWDecoder(plan.HWAccel, plan.SourceCodec, env.Capabilities)

	args, err := synthesizeArgs(req, env, plan)
	if err != nil {
		return nil, err
	}
	plan.Args = args
	return plan, nil
}

// resolveOutputPath applies the default naming scheme when no output was
// supplied and forces the .mp4 extension in compatibility mode, even over
// a user-supplied name.
func resolveOutputPath(req CutRequest) string {
	out := req.OutputPath
	if out == "" {
		out = DefaultOutputPath(req.InputPath, req.Start, req.Duration, req.CompatMP4)
	}
	if req.CompatMP4 {
		out = ForceMP4Extension(out)
	}
	return out
}

// chooseHWAccel picks the first candidate framework for the encoder
// family that the ffmpeg build actually supports.
func chooseHWAccel(encoder EncoderKind, caps CapabilitySet) string {
	for _, cand := range hwAccelCandidates[encoder] {
		if caps.HWAccels[cand] {
			return cand
		}
	}
	return ""
}

// chooseHWDecoder derives the decoder matching the source codec and the
// chosen framework (e.g. h264 + cuda -> h264_cuvid) and keeps it only if
// the build ships it.
func chooseHWDecoder(hwaccel, sourceCodec string, caps CapabilitySet) string {
	if hwaccel == "" || sourceCodec == "" {
		return ""
	}

	var preferred []string
	switch hwaccel {
	case "cuda":
		preferred = []string{sourceCodec + "_cuvid"}
	case "d3d11va", "dxva2":
		preferred = []string{sourceCodec + "_d3d11va", sourceCodec + "_dxva2"}
	default:
		preferred = []string{sourceCodec + "_" + hwaccel}
	}

	for _, name := range preferred {
		if caps.HWDecoders[name] {
			return name
		}
	}
	return ""
}

// synthesizeArgs builds the complete ordered ffmpeg invocation for the
// request. Argument order is load-bearing: in fast mode -ss precedes -i
// (input seeking), in precise mode it follows (output seeking).
func synthesizeArgs(req CutRequest, env Environment, plan *TranscodePlan) ([]string, error) {
	args := []string{env.FFmpegPath}

	switch req.Mode {
	case ModeFast:
		args = append(args, "-ss", req.Start, "-i", req.InputPath)
		if req.Duration != "" {
			args = append(args, "-t", req.Duration)
		}
		if req.CompatMP4 {
			args = append(args, "-c:v", "libx264", "-preset", "veryfast", "-crf", "20")
		} else {
			args = append(args, "-c:v", "copy")
		}

	case ModePrecise:
		if plan.HWAccel != "" {
			args = append(args, "-hwaccel", plan.HWAccel)
			// Declaring the output surface format avoids an implicit
			// GPU->CPU frame copy between decoder and encoder.
			switch plan.HWAccel {
			case "cuda":
				args = append(args, "-hwaccel_output_format", "cuda")
			case "vaapi":
				args = append(args, "-hwaccel_output_format", "vaapi")
			case "qsv":
				args = append(args, "-hwaccel_output_format", "qsv")
			case "d3d11va", "dxva2":
				args = append(args, "-hwaccel_output_format", "d3d11")
			}
		}
		if plan.HWDecoder != "" {
			args = append(args, "-c:v", plan.HWDecoder)
		}

		args = append(args, "-i", req.InputPath, "-ss", req.Start)
		if req.Duration != "" {
			args = append(args, "-t", req.Duration)
		}

		args = append(args, "-c:v", encoderName(plan.Encoder, req.CompatMP4))

		// Rate control matched to the source. kbps truncates first, then
		// maxrate truncates again; this two-stage rounding is deliberate.
		kbps := plan.SourceBitrateBps / 1000
		args = append(args,
			"-b:v", fmt.Sprintf("%dk", kbps),
			"-maxrate", fmt.Sprintf("%dk", kbps*12/10),
			"-bufsize", fmt.Sprintf("%dk", kbps*2))

		switch plan.Encoder {
		case EncoderNVENC:
			args = append(args, "-rc", "vbr_hq", "-preset", "p5")
		case EncoderAMF:
			args = append(args, "-quality", "balanced")
		case EncoderQSV:
			args = append(args, "-preset", "medium")
		case EncoderVAAPI:
			args = append(args, "-vf", "format=nv12,hwupload")
		case EncoderVideoToolbox:
			// VideoToolbox defaults need no tuning flags.
		case EncoderCPU:
			args = append(args, "-preset", "slow")
		default:
			return nil, fmt.Errorf("unknown encoder family: %d", plan.Encoder)
		}

	default:
		return nil, fmt.Errorf("unknown cut mode: %d", req.Mode)
	}

	if req.CompatMP4 {
		args = append(args, "-c:a", "aac", "-b:a", "160k")
	} else {
		args = append(args, "-c:a", "copy")
	}

	args = append(args,
		"-y",
		"-fflags", "+genpts",
		"-avoid_negative_ts", "make_zero",
		"-reset_timestamps", "1",
		"-movflags", "+faststart",
		plan.OutputPath)
	return args, nil
}

// encoderName maps the chosen family to ffmpeg's concrete encoder name.
// Compatibility mode forces H.264; otherwise HEVC is preferred.
func encoderName(encoder EncoderKind, compatMP4 bool) string {
	if encoder == EncoderCPU {
		if compatMP4 {
			return "libx264"
		}
		return "libx265"
	}
	codecTag := "hevc"
	if compatMP4 {
		codecTag = "h264"
	}
	return codecTag + "_" + encoder.String()
}
