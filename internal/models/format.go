package models

import (
	"encoding/json"
	"strings"
)

// Format represents the text format of a caption track
type Format int

const (
	FormatSRT Format = iota
	FormatVTT
	FormatSub // MicroDVD frame-based .sub
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatVTT:
		return "vtt"
	case FormatSub:
		return "sub"
	default:
		return "srt"
	}
}

// Extension returns the file extension including the leading dot
func (f Format) Extension() string {
	return "." + f.String()
}

// ContentType returns the MIME type used when serving the format
func (f Format) ContentType() string {
	switch f {
	case FormatVTT:
		return "text/vtt; charset=utf-8"
	case FormatSub:
		return "text/plain; charset=utf-8"
	default:
		return "application/x-subrip; charset=utf-8"
	}
}

// ParseFormat converts a provider format string to Format.
// Unknown values fall back to SRT.
func ParseFormat(formatStr string) Format {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(formatStr), ".")) {
	case "vtt", "webvtt":
		return FormatVTT
	case "sub", "microdvd":
		return FormatSub
	default:
		return FormatSRT
	}
}

// MarshalJSON implements json.Marshaler interface
func (f Format) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

// UnmarshalJSON implements json.Unmarshaler interface
func (f *Format) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		*f = FormatSRT
		return nil
	}
	*f = ParseFormat(str)
	return nil
}
