package captions

import (
	"regexp"
	"strings"
)

// Kind is a subtitle text format recognized by Detect
type Kind string

const (
	KindUnknown  Kind = ""
	KindSRT      Kind = "srt"
	KindWebVTT   Kind = "vtt"
	KindSSA      Kind = "ssa"
	KindTTML     Kind = "ttml"
	KindMicroDVD Kind = "sub"
)

var (
	srtSignature      = regexp.MustCompile(`^\d+[ \t]*\r?\n[ \t]*\d{1,2}:\d{2}:\d{2}[,.]\d{1,3}[ \t]*-->`)
	microDVDSignature = regexp.MustCompile(`^\{\d+\}\{\d*\}`)
	ttmlSignature     = regexp.MustCompile(`(?s)^(<\?xml[^>]*>\s*)?(<!--.*?-->\s*)*<tt[\s>:]`)
)

// Detect sniffs the subtitle format from the leading bytes of text.
// KindUnknown is returned when no known signature matches.
func Detect(text string) Kind {
	text = strings.TrimSpace(strings.TrimPrefix(text, bom))
	switch {
	case text == "":
		return KindUnknown
	case strings.HasPrefix(text, "WEBVTT"):
		return KindWebVTT
	case srtSignature.MatchString(text):
		return KindSRT
	case strings.HasPrefix(text, "[Script Info]"):
		return KindSSA
	case microDVDSignature.MatchString(text):
		return KindMicroDVD
	case ttmlSignature.MatchString(text):
		return KindTTML
	default:
		return KindUnknown
	}
}
