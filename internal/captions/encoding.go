package captions

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// encodingFixer repairs UTF-8 text that was decoded as Windows-1252 once or twice
// before being re-encoded. Built once, read-only afterwards.
var encodingFixer = newEncodingFixer()

// FixEncoding replaces known double and triple encoded UTF-8 sequences with the
// intended characters. Text without such sequences is returned unchanged.
func FixEncoding(text string) string {
	return encodingFixer.Replace(text)
}

func newEncodingFixer() *strings.Replacer {
	var triples, doubles []string

	// U+00A0..U+00FF are encoded with lead bytes C2/C3, which Windows-1252 renders as "Â"/"Ã".
	for r := rune(0xA0); r <= 0xFF; r++ {
		double, ok := mojibake(string(r))
		if !ok {
			continue
		}
		want := string(r)
		// Â is almost always a stray byte rather than a real letter.
		if r == 'Â' {
			want = ""
		}
		if triple, ok := mojibake(double); ok {
			triples = append(triples, triple, want)
		}
		doubles = append(doubles, double, want)
	}

	// Longest sequences must be tried first.
	return strings.NewReplacer(append(triples, doubles...)...)
}

// mojibake returns s as it appears after its UTF-8 bytes are decoded as Windows-1252.
func mojibake(s string) (string, bool) {
	var b strings.Builder
	for _, c := range []byte(s) {
		r := charmap.Windows1252.DecodeByte(c)
		if r == utf8.RuneError || (r >= 0x80 && r <= 0x9F) {
			return "", false
		}
		b.WriteRune(r)
	}
	return b.String(), true
}
