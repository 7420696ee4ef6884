package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Belphemur/SuperCaptions/internal/models"
	"github.com/Belphemur/SuperCaptions/internal/services"
)

type stremioManifest struct {
	ID          string   `json:"id"`
	Version     string   `json:"version"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Resources   []string `json:"resources"`
	Types       []string `json:"types"`
	IDPrefixes  []string `json:"idPrefixes"`
	Catalogs    []any    `json:"catalogs"`
}

type stremioSubtitle struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Lang string `json:"lang"`
}

type stremioSubtitlesResponse struct {
	Subtitles []stremioSubtitle `json:"subtitles"`
}

var manifest = stremioManifest{
	ID:          "net.belphemur.supercaptions",
	Version:     "1.0.0",
	Name:        "SuperCaptions",
	Description: "External subtitles aggregated from Wyzie, OpenSubtitles and Podnapisi",
	Resources:   []string{"subtitles"},
	Types:       []string{"movie", "series"},
	IDPrefixes:  []string{"tt"},
	Catalogs:    []any{},
}

// stremioManifest describes the subtitles addon.
// GET /stremio/manifest.json
func (s *Server) stremioManifest(c echo.Context) error {
	return c.JSON(http.StatusOK, manifest)
}

// stremioSubtitles lists subtitles for a Stremio video id ("tt0133093" or "tt0944947:1:2").
// GET /stremio/subtitles/:type/:id[.json] and /stremio/subtitles/:type/:id/:extra.json
func (s *Server) stremioSubtitles(c echo.Context) error {
	media, err := parseStremioID(c.Param("id"))
	if err != nil {
		return err
	}

	found := s.client.SearchCaptions(c.Request().Context(), media)
	baseURL := c.Scheme() + "://" + c.Request().Host

	subtitles := make([]stremioSubtitle, 0, len(found))
	for _, caption := range found {
		link := caption.URL
		// Stremio plays srt and vtt straight from the provider; anything else goes through the proxy
		if caption.NeedsProxy || caption.Format == models.FormatSub {
			link = contentURL(baseURL, caption, media.Episode, models.FormatSRT)
		}
		subtitles = append(subtitles, stremioSubtitle{
			ID:   caption.ID,
			URL:  link,
			Lang: services.ISO3LanguageCode(caption.Language),
		})
	}
	return c.JSON(http.StatusOK, stremioSubtitlesResponse{Subtitles: subtitles})
}

func parseStremioID(raw string) (models.MediaIdentity, error) {
	raw = strings.TrimSuffix(raw, ".json")
	parts := strings.Split(raw, ":")
	if parts[0] == "" || !strings.HasPrefix(parts[0], "tt") {
		return models.MediaIdentity{}, echo.NewHTTPError(http.StatusBadRequest, "unsupported id")
	}

	media := models.MediaIdentity{IMDBID: parts[0]}
	switch len(parts) {
	case 1:
	case 3:
		season, errSeason := strconv.Atoi(parts[1])
		episode, errEpisode := strconv.Atoi(parts[2])
		if errSeason != nil || errEpisode != nil || season < 0 || episode < 0 {
			return models.MediaIdentity{}, echo.NewHTTPError(http.StatusBadRequest, "invalid season or episode")
		}
		media.Season, media.Episode = season, episode
	default:
		return models.MediaIdentity{}, echo.NewHTTPError(http.StatusBadRequest, "unsupported id")
	}
	return media, nil
}
