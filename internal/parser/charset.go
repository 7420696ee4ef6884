package parser

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// NewUTF8Reader wraps an HTML body with charset detection and conversion to UTF-8.
// The charset is taken from a BOM, a <meta> declaration, or guessed from the content.
func NewUTF8Reader(body io.Reader) (io.Reader, error) {
	return charset.NewReader(body, "")
}

// DecodeToUTF8 converts caption bytes to UTF-8 and returns the detected encoding name.
// The charset parameter of contentType wins over detection; valid UTF-8 is returned as is
// with any BOM removed.
func DecodeToUTF8(content []byte, contentType string) ([]byte, string, error) {
	enc, name, _ := charset.DetermineEncoding(content, contentType)
	if enc == encoding.Nop || name == "utf-8" {
		return bytes.TrimPrefix(content, []byte("\xef\xbb\xbf")), "utf-8", nil
	}

	decoded, err := enc.NewDecoder().Bytes(content)
	if err != nil {
		return nil, name, fmt.Errorf("failed to decode %s content: %w", name, err)
	}
	return decoded, name, nil
}
