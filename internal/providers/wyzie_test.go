package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Belphemur/SuperCaptions/internal/models"
)

func newWyzieForTest(t *testing.T, handler http.HandlerFunc) *Wyzie {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewWyzie(server.Client(), Settings{BaseURL: server.URL, UserAgent: "test-agent"})
}

func TestWyzie_Search_BuildsQuery(t *testing.T) {
	var gotQuery map[string]string
	w := newWyzieForTest(t, func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("Expected path /search, got %s", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("Expected User-Agent test-agent, got %q", ua)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"id":       q.Get("id"),
			"season":   q.Get("season"),
			"episode":  q.Get("episode"),
			"encoding": q.Get("encoding"),
			"source":   q.Get("source"),
		}
		rw.Header().Set("Content-Type", "application/json")
		_, _ = rw.Write([]byte(`[]`))
	})

	w.Search(context.Background(), models.MediaIdentity{IMDBID: "tt0944947", Season: 1, Episode: 2})

	want := map[string]string{"id": "tt0944947", "season": "1", "episode": "2", "encoding": "utf-8", "source": "all"}
	for key, value := range want {
		if gotQuery[key] != value {
			t.Errorf("Query %s = %q, want %q", key, gotQuery[key], value)
		}
	}
}

func TestWyzie_Search_SeasonOnlyIsIgnored(t *testing.T) {
	w := newWyzieForTest(t, func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("season") || r.URL.Query().Has("episode") {
			t.Errorf("Expected no season/episode parameters, got %s", r.URL.RawQuery)
		}
		_, _ = rw.Write([]byte(`[]`))
	})

	w.Search(context.Background(), models.MediaIdentity{IMDBID: "tt0944947", Season: 1})
}

func TestWyzie_Search_FallsBackToTMDB(t *testing.T) {
	w := newWyzieForTest(t, func(rw http.ResponseWriter, r *http.Request) {
		if id := r.URL.Query().Get("id"); id != "1399" {
			t.Errorf("Expected TMDB id 1399, got %q", id)
		}
		_, _ = rw.Write([]byte(`[]`))
	})

	w.Search(context.Background(), models.MediaIdentity{TMDBID: "1399"})
}

func TestWyzie_Search_MapsItems(t *testing.T) {
	w := newWyzieForTest(t, func(rw http.ResponseWriter, r *http.Request) {
		_, _ = rw.Write([]byte(`[
			{"id":"101","url":"https://sub.wyzie.ru/c/101/id/1.srt","format":"srt","language":"EN","display":"English","media":"Movie","isHearingImpaired":true,"source":"opensubtitles","encoding":"UTF-8"},
			{"id":102,"url":"https://sub.wyzie.ru/c/102/id/2.vtt","format":"vtt","language":"pt-br","display":"Portuguese (BR)","source":7},
			{"id":"103","url":"https://sub.wyzie.ru/c/103/id/3.ass","format":"ass","language":"fr"},
			{"id":"104","url":"","format":"srt","language":"de"},
			{"id":{"broken":true},"url":"https://x"},
			"not an object"
		]`))
	})

	captions := w.Search(context.Background(), models.MediaIdentity{IMDBID: "tt0133093"})
	if len(captions) != 3 {
		t.Fatalf("Expected 3 captions, got %d: %+v", len(captions), captions)
	}

	first := captions[0]
	if first.ID != "101" || first.Language != "en" || first.Format != models.FormatSRT {
		t.Errorf("Unexpected first caption: %+v", first)
	}
	if first.NeedsProxy {
		t.Error("Expected Wyzie captions not to need the proxy")
	}
	if !first.IsHearingImpaired || first.Display != "English" || first.Source != "opensubtitles" || first.Media != "Movie" {
		t.Errorf("Expected metadata to be copied, got %+v", first)
	}

	second := captions[1]
	if second.ID != "102" || second.Source != "7" || second.Format != models.FormatVTT || second.Language != "pt-BR" {
		t.Errorf("Unexpected second caption: %+v", second)
	}

	if captions[2].Format != models.FormatSRT {
		t.Errorf("Expected unknown format to map to srt, got %s", captions[2].Format)
	}
}

func TestWyzie_Search_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(rw http.ResponseWriter, r *http.Request) {
				rw.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "invalid json",
			handler: func(rw http.ResponseWriter, r *http.Request) {
				_, _ = rw.Write([]byte(`{not json`))
			},
		},
		{
			name: "object instead of array",
			handler: func(rw http.ResponseWriter, r *http.Request) {
				_, _ = rw.Write([]byte(`{"error":"rate limited"}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWyzieForTest(t, tt.handler)
			captions := w.Search(context.Background(), models.MediaIdentity{IMDBID: "tt0133093"})
			if captions == nil || len(captions) != 0 {
				t.Errorf("Expected empty non-nil slice, got %#v", captions)
			}
		})
	}
}

func TestWyzie_Search_NoIdentifierMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	w := newWyzieForTest(t, func(rw http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	captions := w.Search(context.Background(), models.MediaIdentity{IMDBID: "  "})
	if len(captions) != 0 || calls.Load() != 0 {
		t.Errorf("Expected no request and no captions, got %d calls, %d captions", calls.Load(), len(captions))
	}
}

func TestWyzie_Search_HonoursContext(t *testing.T) {
	w := newWyzieForTest(t, func(rw http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	captions := w.Search(ctx, models.MediaIdentity{IMDBID: "tt0133093"})
	if len(captions) != 0 {
		t.Errorf("Expected no captions, got %d", len(captions))
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Expected search to stop on context cancellation, took %v", elapsed)
	}
}

func TestNewWyzie_Defaults(t *testing.T) {
	w := NewWyzie(http.DefaultClient, Settings{})
	if w.Name() != WyzieSource {
		t.Errorf("Name() = %q", w.Name())
	}
	if w.Timeout() != DefaultWyzieTimeout {
		t.Errorf("Timeout() = %v, want %v", w.Timeout(), DefaultWyzieTimeout)
	}
}

func TestWyzie_Search_MissingIDFallsBackToURL(t *testing.T) {
	w := newWyzieForTest(t, func(rw http.ResponseWriter, r *http.Request) {
		_, _ = rw.Write([]byte(`[
			{"url":" https://sub.wyzie.ru/c/7/id/1.srt ","format":"srt","language":"en"},
			{"id":"  ","url":"https://sub.wyzie.ru/c/7/id/2.srt","format":"srt","language":"fr"}
		]`))
	})

	captions := w.Search(context.Background(), models.MediaIdentity{IMDBID: "tt0133093"})
	if len(captions) != 2 {
		t.Fatalf("Expected 2 captions, got %d: %+v", len(captions), captions)
	}
	if captions[0].ID != "https://sub.wyzie.ru/c/7/id/1.srt" || captions[0].URL != captions[0].ID {
		t.Errorf("Expected the URL to serve as id, got %+v", captions[0])
	}
	if captions[1].ID != "https://sub.wyzie.ru/c/7/id/2.srt" {
		t.Errorf("Expected a blank id to fall back to the URL, got %+v", captions[1])
	}
}
