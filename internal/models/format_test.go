// Tests for format.go: Format String(), ParseFormat(), MarshalJSON() and UnmarshalJSON().
package models

import (
	"encoding/json"
	"testing"
)

func TestFormat_String(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   string
	}{
		{"srt", FormatSRT, "srt"},
		{"vtt", FormatVTT, "vtt"},
		{"sub", FormatSub, "sub"},
		{"invalid value", Format(42), "srt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.String(); got != tt.want {
				t.Errorf("Format(%d).String() = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Format
	}{
		{"srt", "srt", FormatSRT},
		{"vtt", "vtt", FormatVTT},
		{"webvtt", "webvtt", FormatVTT},
		{"uppercase VTT", "VTT", FormatVTT},
		{"with dot", ".sub", FormatSub},
		{"ass falls back", "ass", FormatSRT},
		{"empty falls back", "", FormatSRT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormat_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Format Format `json:"format"`
	}{FormatVTT})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"format":"vtt"}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var decoded struct {
		Format Format `json:"format"`
	}
	if err := json.Unmarshal([]byte(`{"format":"WebVTT"}`), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Format != FormatVTT {
		t.Errorf("expected vtt, got %v", decoded.Format)
	}

	if err := json.Unmarshal([]byte(`{"format":7}`), &decoded); err != nil {
		t.Fatalf("Unmarshal of number failed: %v", err)
	}
	if decoded.Format != FormatSRT {
		t.Errorf("expected numeric format to fall back to srt, got %v", decoded.Format)
	}
}

func TestFormat_ContentType(t *testing.T) {
	if got := FormatVTT.ContentType(); got != "text/vtt; charset=utf-8" {
		t.Errorf("unexpected vtt content type %q", got)
	}
	if got := FormatSRT.Extension(); got != ".srt" {
		t.Errorf("unexpected srt extension %q", got)
	}
}
