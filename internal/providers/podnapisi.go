package providers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Belphemur/SuperCaptions/internal/models"
	"github.com/Belphemur/SuperCaptions/internal/parser"
	"github.com/Belphemur/SuperCaptions/internal/services"
)

const (
	PodnapisiSource         = parser.PodnapisiSource
	DefaultPodnapisiTimeout = 10 * time.Second
	defaultPodnapisiBaseURL = "https://www.podnapisi.net"
)

// Podnapisi scrapes the podnapisi.net advanced search page.
// Its downloads are ZIP archives, so every descriptor needs the server-side proxy.
type Podnapisi struct {
	httpClient *http.Client
	settings   Settings
	parser     parser.Parser[models.CaptionDescriptor]
}

func NewPodnapisi(httpClient *http.Client, settings Settings) *Podnapisi {
	if settings.BaseURL == "" {
		settings.BaseURL = defaultPodnapisiBaseURL
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultPodnapisiTimeout
	}
	settings.BaseURL = strings.TrimRight(settings.BaseURL, "/")
	return &Podnapisi{
		httpClient: httpClient,
		settings:   settings,
		parser:     parser.NewPodnapisiParser(settings.BaseURL),
	}
}

func (p *Podnapisi) Name() string           { return PodnapisiSource }
func (p *Podnapisi) Timeout() time.Duration { return p.settings.Timeout }

func (p *Podnapisi) Search(ctx context.Context, media models.MediaIdentity) []models.CaptionDescriptor {
	logger := providerLogger(PodnapisiSource)

	imdbID := sanitizeIMDBID(media.IMDBID)
	if imdbID == "" {
		return []models.CaptionDescriptor{}
	}

	body, err := get(ctx, p.httpClient, PodnapisiSource, p.searchURL(imdbID, media), map[string]string{
		"User-Agent": p.settings.UserAgent,
		"Accept":     "text/html",
	})
	if err != nil {
		logger.Warn().Err(err).Str("imdbId", imdbID).Msg("Podnapisi search failed")
		return []models.CaptionDescriptor{}
	}
	defer body.Close()

	utf8Body, err := parser.NewUTF8Reader(body)
	if err != nil {
		logger.Warn().Err(err).Msg("Podnapisi response charset conversion failed")
		return []models.CaptionDescriptor{}
	}

	captions, err := p.parser.ParseHtml(utf8Body)
	if err != nil {
		logger.Warn().Err(err).Str("imdbId", imdbID).Msg("Podnapisi search page could not be parsed")
		return []models.CaptionDescriptor{}
	}
	for i := range captions {
		captions[i].Language = services.NormalizeLanguageCode(captions[i].Language)
	}

	logger.Debug().Str("imdbId", imdbID).Int("captions", len(captions)).Msg("Podnapisi search completed")
	return captions
}

func (p *Podnapisi) searchURL(imdbID string, media models.MediaIdentity) string {
	query := url.Values{}
	query.Set("keywords", "")
	query.Set("imdb", "tt"+imdbID)
	if media.IsEpisode() {
		query.Set("seasons", strconv.Itoa(media.Season))
		query.Set("episodes", strconv.Itoa(media.Episode))
	}
	return p.settings.BaseURL + "/subtitles/search/advanced?" + query.Encode()
}
