package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Belphemur/SuperCaptions/internal/models"
)

func TestStremioManifest(t *testing.T) {
	s := NewServer(&fakeClient{})
	rec := do(t, s, http.MethodGet, "/stremio/manifest.json", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got stremioManifest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"subtitles"}, got.Resources)
	assert.Equal(t, []string{"tt"}, got.IDPrefixes)
}

func TestStremioSubtitles(t *testing.T) {
	fc := &fakeClient{captions: []models.CaptionDescriptor{
		{ID: "w1", Language: "en", URL: "https://sub.example/w1.srt", Format: models.FormatSRT},
		{ID: "p1", Language: "pt-BR", URL: "https://www.podnapisi.net/subtitles/x/download", Format: models.FormatSRT, NeedsProxy: true},
	}}
	s := NewServer(fc)

	rec := do(t, s, http.MethodGet, "/stremio/subtitles/series/tt0944947:1:2.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.MediaIdentity{IMDBID: "tt0944947", Season: 1, Episode: 2}, fc.lastMedia)

	var got stremioSubtitlesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Subtitles, 2)

	assert.Equal(t, "https://sub.example/w1.srt", got.Subtitles[0].URL)
	assert.Equal(t, "eng", got.Subtitles[0].Lang)

	proxied, err := url.Parse(got.Subtitles[1].URL)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(proxied.Path, "/api/v1/captions/content"))
	assert.Equal(t, "https://www.podnapisi.net/subtitles/x/download", proxied.Query().Get("url"))
	assert.Equal(t, "2", proxied.Query().Get("episode"))
	assert.Equal(t, "srt", proxied.Query().Get("format"))
	assert.Equal(t, "por", got.Subtitles[1].Lang)
}

func TestStremioSubtitles_WithExtra(t *testing.T) {
	fc := &fakeClient{}
	s := NewServer(fc)

	rec := do(t, s, http.MethodGet, "/stremio/subtitles/movie/tt0133093/videoHash=abc&videoSize=123.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tt0133093", fc.lastMedia.IMDBID)
	assert.JSONEq(t, `{"subtitles":[]}`, rec.Body.String())
}

func TestParseStremioID(t *testing.T) {
	tests := []struct {
		raw     string
		want    models.MediaIdentity
		wantErr bool
	}{
		{raw: "tt0133093", want: models.MediaIdentity{IMDBID: "tt0133093"}},
		{raw: "tt0133093.json", want: models.MediaIdentity{IMDBID: "tt0133093"}},
		{raw: "tt0944947:3:7", want: models.MediaIdentity{IMDBID: "tt0944947", Season: 3, Episode: 7}},
		{raw: "kitsu:123", wantErr: true},
		{raw: "tt1:2", wantErr: true},
		{raw: "tt1:a:b", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseStremioID(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got)
	}
}
