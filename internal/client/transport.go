package client

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/Belphemur/SuperCaptions/internal/config"
)

const acceptEncoding = "gzip, deflate, br, zstd"

// NewHTTPClient builds the HTTP client shared by providers and the caption downloader.
// It honours client_timeout and proxy_connection_string and decodes compressed responses.
func NewHTTPClient(cfg *config.Config) *http.Client {
	logger := config.GetLogger()

	// Clone DefaultTransport to keep its pooling, HTTP/2 and dial timeouts
	base := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			base.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &http.Client{
		Timeout:   config.ParseDuration(cfg.ClientTimeout, 30*time.Second),
		Transport: newDecodingTransport(base),
	}
}

type decoderFunc func(io.Reader) (io.ReadCloser, error)

var decoders = map[string]decoderFunc{
	"gzip": func(r io.Reader) (io.ReadCloser, error) { return gzip.NewReader(r) },
	"x-gzip": func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	},
	"deflate": func(r io.Reader) (io.ReadCloser, error) { return zlib.NewReader(r) },
	"br": func(r io.Reader) (io.ReadCloser, error) {
		return io.NopCloser(brotli.NewReader(r)), nil
	},
	"zstd": func(r io.Reader) (io.ReadCloser, error) {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	},
}

// decodingTransport advertises the encodings it understands and transparently
// decodes the response body. Stacked encodings are undone outermost first.
type decodingTransport struct {
	next http.RoundTripper
}

func newDecodingTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &decodingTransport{next: next}
}

func (t *decodingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return resp, nil
	}

	layers := contentEncodings(resp.Header.Get("Content-Encoding"))
	if len(layers) == 0 {
		return resp, nil
	}
	for _, layer := range layers {
		if _, ok := decoders[layer]; !ok {
			// Leave the body untouched so the caller can still see what it got
			return resp, nil
		}
	}

	body := &layeredBody{closers: []io.Closer{resp.Body}, reader: resp.Body}
	for i := len(layers) - 1; i >= 0; i-- {
		decoded, err := decoders[layers[i]](body.reader)
		if err != nil {
			body.Close()
			return nil, err
		}
		body.reader = decoded
		body.closers = append(body.closers, decoded)
	}

	resp.Body = body
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}

// layeredBody reads from the innermost decoder and closes every layer
type layeredBody struct {
	reader  io.Reader
	closers []io.Closer
}

func (b *layeredBody) Read(p []byte) (int, error) {
	return b.reader.Read(p)
}

func (b *layeredBody) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// contentEncodings splits a Content-Encoding header into lower-cased codings in
// the order they were applied, dropping "identity".
func contentEncodings(header string) []string {
	var layers []string
	for _, part := range strings.Split(header, ",") {
		coding := strings.ToLower(strings.TrimSpace(part))
		if coding == "" || coding == "identity" {
			continue
		}
		layers = append(layers, coding)
	}
	return layers
}
