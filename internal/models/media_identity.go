package models

import (
	"fmt"
	"strings"
)

// MediaIdentity identifies the title or episode captions are requested for
type MediaIdentity struct {
	IMDBID  string `json:"imdbId,omitempty"`
	TMDBID  string `json:"tmdbId,omitempty"`
	Season  int    `json:"season,omitempty"`
	Episode int    `json:"episode,omitempty"`
}

// HasIMDB reports whether a non-blank IMDB id is present
func (m MediaIdentity) HasIMDB() bool {
	return strings.TrimSpace(m.IMDBID) != ""
}

// IsEpisode reports whether both season and episode are set
func (m MediaIdentity) IsEpisode() bool {
	return m.Season > 0 && m.Episode > 0
}

// CacheKey returns a stable key for caching aggregation results
func (m MediaIdentity) CacheKey() string {
	key := "imdb:" + strings.ToLower(strings.TrimSpace(m.IMDBID))
	if m.TMDBID != "" {
		key += ":tmdb:" + m.TMDBID
	}
	if m.IsEpisode() {
		key += fmt.Sprintf(":s%02de%02d", m.Season, m.Episode)
	}
	return key
}
