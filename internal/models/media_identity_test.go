package models

import "testing"

func TestMediaIdentity(t *testing.T) {
	tests := []struct {
		name      string
		media     MediaIdentity
		hasIMDB   bool
		isEpisode bool
		cacheKey  string
	}{
		{"movie", MediaIdentity{IMDBID: "tt0133093"}, true, false, "imdb:tt0133093"},
		{"episode", MediaIdentity{IMDBID: "TT0944947", Season: 1, Episode: 2}, true, true, "imdb:tt0944947:s01e02"},
		{"season only", MediaIdentity{IMDBID: "tt0944947", Season: 1}, true, false, "imdb:tt0944947"},
		{"blank imdb", MediaIdentity{IMDBID: "   ", TMDBID: "603"}, false, false, "imdb::tmdb:603"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.media.HasIMDB(); got != tt.hasIMDB {
				t.Errorf("HasIMDB() = %v, want %v", got, tt.hasIMDB)
			}
			if got := tt.media.IsEpisode(); got != tt.isEpisode {
				t.Errorf("IsEpisode() = %v, want %v", got, tt.isEpisode)
			}
			if got := tt.media.CacheKey(); got != tt.cacheKey {
				t.Errorf("CacheKey() = %q, want %q", got, tt.cacheKey)
			}
		})
	}
}
