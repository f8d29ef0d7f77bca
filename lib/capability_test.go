package lib

import (
	"reflect"
	"testing"
)

func TestChooseEncoder(t *testing.T) {
	tests := []struct {
		name     string
		present  []EncoderKind
		expected EncoderKind
	}{
		{"empty set falls back to cpu", nil, EncoderCPU},
		{"nvenc beats everything", []EncoderKind{EncoderVAAPI, EncoderNVENC, EncoderQSV}, EncoderNVENC},
		{"amf beats qsv", []EncoderKind{EncoderQSV, EncoderAMF}, EncoderAMF},
		{"qsv beats vaapi", []EncoderKind{EncoderVAAPI, EncoderQSV}, EncoderQSV},
		{"vaapi beats videotoolbox", []EncoderKind{EncoderVideoToolbox, EncoderVAAPI}, EncoderVAAPI},
		{"videotoolbox alone", []EncoderKind{EncoderVideoToolbox}, EncoderVideoToolbox},
		{"all families", []EncoderKind{EncoderNVENC, EncoderAMF, EncoderQSV, EncoderVAAPI, EncoderVideoToolbox}, EncoderNVENC},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := NewCapabilitySet()
			for _, k := range tt.present {
				caps.Encoders[k] = true
			}
			if got := caps.ChooseEncoder(); got != tt.expected {
				t.Errorf("ChooseEncoder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseEncoderKind(t *testing.T) {
	for _, k := range encoderPriority {
		parsed, ok := ParseEncoderKind(k.String())
		if !ok || parsed != k {
			t.Errorf("ParseEncoderKind(%q) = %v, %v; want %v, true", k.String(), parsed, ok, k)
		}
	}

	if _, ok := ParseEncoderKind("quadro"); ok {
		t.Error("ParseEncoderKind should reject unknown family names")
	}
}

func TestEncoderNamesSorted(t *testing.T) {
	caps := NewCapabilitySet()
	caps.Encoders[EncoderVAAPI] = true
	caps.Encoders[EncoderAMF] = true
	caps.Encoders[EncoderNVENC] = true

	expected := []string{"amf", "nvenc", "vaapi"}
	if got := caps.EncoderNames(); !reflect.DeepEqual(got, expected) {
		t.Errorf("EncoderNames() = %v, want %v", got, expected)
	}
}

func TestIsHardware(t *testing.T) {
	if EncoderCPU.IsHardware() {
		t.Error("cpu must not count as hardware")
	}
	for _, k := range []EncoderKind{EncoderNVENC, EncoderAMF, EncoderQSV, EncoderVAAPI, EncoderVideoToolbox} {
		if !k.IsHardware() {
			t.Errorf("%v should count as hardware", k)
		}
	}
}
