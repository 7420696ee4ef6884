package captions

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/asticode/go-astisub"

	"github.com/Belphemur/SuperCaptions/internal/apperrors"
	"github.com/Belphemur/SuperCaptions/internal/models"
)

const bom = "\ufeff"

// Normalize turns raw subtitle text in any supported format into cues.
// Empty input fails with *apperrors.ErrEmptyContent before any conversion;
// unrecognized input or a broken conversion fails with *apperrors.ErrInvalidFormat.
func Normalize(raw string) ([]models.Cue, error) {
	vtt, err := ConvertToVTT(raw)
	if err != nil {
		return nil, err
	}
	return ParseVTT(vtt)
}

// ConvertToVTT converts raw subtitle text to WebVTT after repairing its encoding.
func ConvertToVTT(raw string) (string, error) {
	subs, err := read(raw)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := subs.WriteToWebVTT(&buf); err != nil {
		return "", apperrors.NewInvalidFormatError(err.Error())
	}
	vtt := strings.TrimPrefix(buf.String(), bom)
	if Detect(vtt) != KindWebVTT {
		return "", apperrors.NewInvalidFormatError("converted output is not WebVTT")
	}
	return vtt, nil
}

// ConvertToSRT converts raw subtitle text to SubRip after repairing its encoding.
func ConvertToSRT(raw string) (string, error) {
	subs, err := read(raw)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := subs.WriteToSRT(&buf); err != nil {
		return "", apperrors.NewInvalidFormatError(err.Error())
	}
	srt := strings.TrimPrefix(buf.String(), bom)
	if Detect(srt) != KindSRT {
		return "", apperrors.NewInvalidFormatError("converted output is not SubRip")
	}
	return srt, nil
}

// SRTDataURL converts raw subtitle text to SubRip and returns it as a base64 data URL.
func SRTDataURL(raw string) (string, error) {
	srt, err := ConvertToSRT(raw)
	if err != nil {
		return "", err
	}
	return "data:application/x-subrip;base64," + base64.StdEncoding.EncodeToString([]byte(srt)), nil
}

// ParseVTT extracts caption cues from WebVTT text. Style, note and region blocks
// are not cues and are dropped; every timed cue is kept, even without text.
func ParseVTT(vtt string) ([]models.Cue, error) {
	subs, err := astisub.ReadFromWebVTT(strings.NewReader(vtt))
	if err != nil {
		return nil, apperrors.NewInvalidFormatError(err.Error())
	}

	cues := make([]models.Cue, 0, len(subs.Items))
	for _, item := range subs.Items {
		cues = append(cues, models.Cue{
			Start:   item.StartAt.Milliseconds(),
			End:     item.EndAt.Milliseconds(),
			Content: itemText(item),
		})
	}
	return cues, nil
}

// read trims, repairs and parses raw subtitle text according to its detected format.
func read(raw string) (*astisub.Subtitles, error) {
	text := strings.TrimSpace(strings.TrimPrefix(raw, bom))
	if text == "" {
		return nil, apperrors.NewEmptyContentError()
	}
	text = FixEncoding(text)

	var (
		subs *astisub.Subtitles
		err  error
	)
	switch kind := Detect(text); kind {
	case KindSRT:
		subs, err = astisub.ReadFromSRT(strings.NewReader(text))
	case KindWebVTT:
		subs, err = astisub.ReadFromWebVTT(strings.NewReader(text))
	case KindSSA:
		subs, err = astisub.ReadFromSSA(strings.NewReader(text))
	case KindTTML:
		subs, err = astisub.ReadFromTTML(strings.NewReader(text))
	case KindMicroDVD:
		subs, err = readMicroDVD(text)
	default:
		return nil, apperrors.NewInvalidFormatError("unrecognized subtitle format")
	}
	if err != nil {
		return nil, apperrors.NewInvalidFormatError(fmt.Sprintf("parse: %v", err))
	}
	if len(subs.Items) == 0 {
		return nil, apperrors.NewInvalidFormatError("no cues found")
	}
	return subs, nil
}

// itemText renders an item's lines back to WebVTT cue text, keeping inline markup
// such as <i> or <c.yellow> for the player to sanitize at render time.
func itemText(item *astisub.Item) string {
	lines := make([]string, 0, len(item.Lines))
	for _, line := range item.Lines {
		var b strings.Builder
		if line.VoiceName != "" {
			b.WriteString("<v " + line.VoiceName + ">")
		}
		var open []astisub.WebVTTTag
		for _, li := range line.Items {
			var tags []astisub.WebVTTTag
			if li.InlineStyle != nil {
				tags = li.InlineStyle.WebVTTTags
			}
			shared := 0
			for shared < len(open) && shared < len(tags) && sameTag(open[shared], tags[shared]) {
				shared++
			}
			for i := len(open) - 1; i >= shared; i-- {
				b.WriteString("</" + open[i].Name + ">")
			}
			for _, tag := range tags[shared:] {
				b.WriteString(startTag(tag))
			}
			open = tags
			b.WriteString(li.Text)
		}
		for i := len(open) - 1; i >= 0; i-- {
			b.WriteString("</" + open[i].Name + ">")
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

func startTag(tag astisub.WebVTTTag) string {
	s := tag.Name
	if len(tag.Classes) > 0 {
		s += "." + strings.Join(tag.Classes, ".")
	}
	if tag.Annotation != "" {
		s += " " + tag.Annotation
	}
	return "<" + s + ">"
}

func sameTag(a, b astisub.WebVTTTag) bool {
	return a.Name == b.Name && a.Annotation == b.Annotation && strings.Join(a.Classes, ".") == strings.Join(b.Classes, ".")
}
