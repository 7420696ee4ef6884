package client

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"

	"github.com/Belphemur/SuperCaptions/internal/config"
)

type encoder func(w io.Writer) io.WriteCloser

var encoders = map[string]encoder{
	"gzip":    func(w io.Writer) io.WriteCloser { return gzip.NewWriter(w) },
	"deflate": func(w io.Writer) io.WriteCloser { return zlib.NewWriter(w) },
	"br":      func(w io.Writer) io.WriteCloser { return brotli.NewWriter(w) },
	"zstd": func(w io.Writer) io.WriteCloser {
		// zstd.NewWriter() with default options never fails
		zw, _ := zstd.NewWriter(w)
		return zw
	},
}

func encode(t *testing.T, data []byte, codings ...string) []byte {
	t.Helper()
	for _, coding := range codings {
		buf := new(bytes.Buffer)
		w := encoders[coding](buf)
		if _, err := w.Write(data); err != nil {
			t.Fatalf("Failed to encode %s: %v", coding, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Failed to close %s writer: %v", coding, err)
		}
		data = buf.Bytes()
	}
	return data
}

func fetch(t *testing.T, handler http.HandlerFunc) (*http.Response, []byte) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := &http.Client{Transport: newDecodingTransport(nil)}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	return resp, body
}

func TestDecodingTransport_Encodings(t *testing.T) {
	testData := []byte("1\n00:00:01,000 --> 00:00:02,000\nThis is a compressed caption\n")

	for coding := range encoders {
		t.Run(coding, func(t *testing.T) {
			resp, body := fetch(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Accept-Encoding"); got != acceptEncoding {
					t.Errorf("Expected Accept-Encoding %q, got %q", acceptEncoding, got)
				}
				w.Header().Set("Content-Encoding", coding)
				_, _ = w.Write(encode(t, testData, coding))
			})

			if !bytes.Equal(body, testData) {
				t.Errorf("Expected body %q, got %q", testData, body)
			}
			if resp.Header.Get("Content-Encoding") != "" {
				t.Errorf("Expected Content-Encoding to be removed, got %q", resp.Header.Get("Content-Encoding"))
			}
		})
	}
}

func TestDecodingTransport_StackedEncodings(t *testing.T) {
	testData := []byte("stacked payload")

	_, body := fetch(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip, identity, br")
		_, _ = w.Write(encode(t, testData, "gzip", "br"))
	})

	if !bytes.Equal(body, testData) {
		t.Errorf("Expected body %q, got %q", testData, body)
	}
}

func TestDecodingTransport_PassThrough(t *testing.T) {
	testData := []byte("plain payload")

	t.Run("no encoding", func(t *testing.T) {
		_, body := fetch(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write(testData)
		})
		if !bytes.Equal(body, testData) {
			t.Errorf("Expected body %q, got %q", testData, body)
		}
	})

	t.Run("unknown encoding", func(t *testing.T) {
		resp, body := fetch(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "compress")
			_, _ = w.Write(testData)
		})
		if !bytes.Equal(body, testData) {
			t.Errorf("Expected body %q, got %q", testData, body)
		}
		if resp.Header.Get("Content-Encoding") != "compress" {
			t.Errorf("Expected Content-Encoding to be kept, got %q", resp.Header.Get("Content-Encoding"))
		}
	})

	t.Run("no content", func(t *testing.T) {
		resp, _ := fetch(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "gzip")
			w.WriteHeader(http.StatusNoContent)
		})
		if resp.StatusCode != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d", resp.StatusCode)
		}
	})
}

func TestDecodingTransport_PreservesAcceptEncoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") != "identity" {
			t.Errorf("Expected Accept-Encoding identity, got %q", r.Header.Get("Accept-Encoding"))
		}
	}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := (&http.Client{Transport: newDecodingTransport(nil)}).Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	resp.Body.Close()
}

func TestContentEncodings(t *testing.T) {
	tests := []struct {
		header string
		want   []string
	}{
		{"", nil},
		{"   ", nil},
		{"gzip", []string{"gzip"}},
		{" GZIP ", []string{"gzip"}},
		{"identity, gzip", []string{"gzip"}},
		{"gzip, br", []string{"gzip", "br"}},
	}

	for _, tt := range tests {
		got := contentEncodings(tt.header)
		if len(got) != len(tt.want) {
			t.Errorf("contentEncodings(%q) = %v, want %v", tt.header, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("contentEncodings(%q) = %v, want %v", tt.header, got, tt.want)
			}
		}
	}
}

func TestNewHTTPClient(t *testing.T) {
	cfg := &config.Config{ClientTimeout: "5s", ProxyConnectionString: "http://proxy.local:3128"}
	client := NewHTTPClient(cfg)

	if client.Timeout.String() != "5s" {
		t.Errorf("Expected timeout 5s, got %v", client.Timeout)
	}
	transport, ok := client.Transport.(*decodingTransport)
	if !ok {
		t.Fatalf("Expected decoding transport, got %T", client.Transport)
	}
	base, ok := transport.next.(*http.Transport)
	if !ok || base.Proxy == nil {
		t.Fatal("Expected proxy to be configured on the base transport")
	}
	proxyURL, err := base.Proxy(httptest.NewRequest(http.MethodGet, "http://example.com", nil))
	if err != nil || proxyURL.Host != "proxy.local:3128" {
		t.Errorf("Unexpected proxy %v, %v", proxyURL, err)
	}
}
