package lib

import "sort"

// EncoderKind identifies a hardware encoder family supported by ffmpeg,
// plus the universal CPU fallback.
type EncoderKind int

const (
	EncoderNVENC EncoderKind = iota
	EncoderAMF
	EncoderQSV
	EncoderVAAPI
	EncoderVideoToolbox
	EncoderCPU
)

// encoderPriority lists every encoder family from most to least preferred.
// Selection walks this slice in order, so preference never depends on map
// iteration order.
var encoderPriority = []EncoderKind{
	EncoderNVENC,
	EncoderAMF,
	EncoderQSV,
	EncoderVAAPI,
	EncoderVideoToolbox,
	EncoderCPU,
}

func (k EncoderKind) String() string {
	switch k {
	case EncoderNVENC:
		return "nvenc"
	case EncoderAMF:
		return "amf"
	case EncoderQSV:
		return "qsv"
	case EncoderVAAPI:
		return "vaapi"
	case EncoderVideoToolbox:
		return "videotoolbox"
	case EncoderCPU:
		return "cpu"
	default:
		return "unknown"
	}
}

// Description returns a human-readable name for log and detect output.
func (k EncoderKind) Description() string {
	switch k {
	case EncoderNVENC:
		return "Nvidia NVENC"
	case EncoderAMF:
		return "AMD AMF"
	case EncoderQSV:
		return "Intel Quick Sync"
	case EncoderVAAPI:
		return "VAAPI (Linux/WSL)"
	case EncoderVideoToolbox:
		return "VideoToolbox (macOS)"
	case EncoderCPU:
		return "CPU (libx264/libx265)"
	default:
		return "unknown"
	}
}

// IsHardware reports whether the family uses a hardware encoder.
func (k EncoderKind) IsHardware() bool {
	return k != EncoderCPU
}

// ParseEncoderKind maps an ffmpeg family suffix ("nvenc", "qsv", ...) back
// to its EncoderKind. Used when loading cached capability snapshots.
func ParseEncoderKind(name string) (EncoderKind, bool) {
	for _, k := range encoderPriority {
		if k.String() == name {
			return k, true
		}
	}
	return EncoderCPU, false
}

// CapabilitySet is a snapshot of what the installed ffmpeg build supports.
// It is replaced wholesale on every (re)probe, never mutated field by field.
type CapabilitySet struct {
	Encoders   map[EncoderKind]bool
	HWAccels   map[string]bool
	HWDecoders map[string]bool
}

// NewCapabilitySet returns an empty snapshot with all sets allocated.
func NewCapabilitySet() CapabilitySet {
	return CapabilitySet{
		Encoders:   map[EncoderKind]bool{},
		HWAccels:   map[string]bool{},
		HWDecoders: map[string]bool{},
	}
}

// HasEncoders reports whether any hardware encoder family was detected.
// An empty encoder set marks the snapshot as not worth caching.
func (c CapabilitySet) HasEncoders() bool {
	return len(c.Encoders) > 0
}

// ChooseEncoder returns the highest-priority family present in the set,
// or EncoderCPU when no hardware family is available.
func (c CapabilitySet) ChooseEncoder() EncoderKind {
	for _, k := range encoderPriority {
		if c.Encoders[k] {
			return k
		}
	}
	return EncoderCPU
}

// EncoderNames returns the detected families as sorted strings.
func (c CapabilitySet) EncoderNames() []string {
	names := make([]string, 0, len(c.Encoders))
	for k := range c.Encoders {
		names = append(names, k.String())
	}
	sort.Strings(names)
	return names
}

// HWAccelNames returns the detected acceleration frameworks, sorted.
func (c CapabilitySet) HWAccelNames() []string {
	return sortedKeys(c.HWAccels)
}

// HWDecoderNames returns the detected hardware decoders, sorted.
func (c CapabilitySet) HWDecoderNames() []string {
	return sortedKeys(c.HWDecoders)
}

func sortedKeys(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
