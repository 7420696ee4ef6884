package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Belphemur/SuperCaptions/internal/models"
	"github.com/Belphemur/SuperCaptions/internal/services"
)

const (
	OpenSubtitlesSource         = "opensubtitles"
	DefaultOpenSubtitlesTimeout = 5 * time.Second
	defaultOpenSubtitlesBaseURL = "https://rest.opensubtitles.org"

	// The legacy REST API rejects requests without a registered client agent.
	openSubtitlesClientAgent = "VLSub 0.10.2"
)

type openSubtitlesItem struct {
	SubDownloadLink    string `json:"SubDownloadLink"`
	LanguageName       string `json:"LanguageName"`
	SubFormat          string `json:"SubFormat"`
	SubEncoding        string `json:"SubEncoding"`
	SubHearingImpaired string `json:"SubHearingImpaired"`
	MovieReleaseName   string `json:"MovieReleaseName"`
}

// OpenSubtitles queries the legacy rest.opensubtitles.org search API
type OpenSubtitles struct {
	httpClient *http.Client
	settings   Settings
}

func NewOpenSubtitles(httpClient *http.Client, settings Settings) *OpenSubtitles {
	if settings.BaseURL == "" {
		settings.BaseURL = defaultOpenSubtitlesBaseURL
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultOpenSubtitlesTimeout
	}
	settings.BaseURL = strings.TrimRight(settings.BaseURL, "/")
	return &OpenSubtitles{httpClient: httpClient, settings: settings}
}

func (o *OpenSubtitles) Name() string           { return OpenSubtitlesSource }
func (o *OpenSubtitles) Timeout() time.Duration { return o.settings.Timeout }

func (o *OpenSubtitles) Search(ctx context.Context, media models.MediaIdentity) []models.CaptionDescriptor {
	logger := providerLogger(OpenSubtitlesSource)

	imdbID := sanitizeIMDBID(media.IMDBID)
	if imdbID == "" {
		return []models.CaptionDescriptor{}
	}

	items, err := getJSONArray(ctx, o.httpClient, OpenSubtitlesSource, o.searchURL(imdbID, media), map[string]string{
		"X-User-Agent": openSubtitlesClientAgent,
		"User-Agent":   o.settings.UserAgent,
		"Accept":       "application/json",
	})
	if err != nil {
		logger.Warn().Err(err).Str("imdbId", imdbID).Msg("OpenSubtitles search failed")
		return []models.CaptionDescriptor{}
	}

	captions := make([]models.CaptionDescriptor, 0, len(items))
	for i, raw := range items {
		var item openSubtitlesItem
		if err := json.Unmarshal(raw, &item); err != nil {
			logger.Debug().Err(err).Int("item", i).Msg("Skipping malformed OpenSubtitles item")
			continue
		}
		caption, ok := convertOpenSubtitlesItem(item)
		if !ok {
			continue
		}
		captions = append(captions, caption)
	}

	logger.Debug().Str("imdbId", imdbID).Int("captions", len(captions)).Msg("OpenSubtitles search completed")
	return captions
}

// searchURL builds {base}/search/[episode-E/]imdbid-N[/season-S]
func (o *OpenSubtitles) searchURL(imdbID string, media models.MediaIdentity) string {
	var b strings.Builder
	b.WriteString(o.settings.BaseURL)
	b.WriteString("/search/")
	if media.IsEpisode() {
		fmt.Fprintf(&b, "episode-%d/", media.Episode)
	}
	b.WriteString("imdbid-")
	b.WriteString(imdbID)
	if media.IsEpisode() {
		fmt.Fprintf(&b, "/season-%d", media.Season)
	}
	return b.String()
}

// rewriteDownloadLink turns a gzip download link into a plain UTF-8 one
func rewriteDownloadLink(link string) string {
	link = strings.Replace(link, ".gz", "", 1)
	return strings.Replace(link, "download/", "download/subencoding-utf8/", 1)
}

func convertOpenSubtitlesItem(item openSubtitlesItem) (models.CaptionDescriptor, bool) {
	link := strings.TrimSpace(item.SubDownloadLink)
	languageName := strings.TrimSpace(item.LanguageName)
	if link == "" || languageName == "" {
		return models.CaptionDescriptor{}, false
	}

	link = rewriteDownloadLink(link)
	format := item.SubFormat
	if format == "" {
		format = "srt"
	}

	return models.CaptionDescriptor{
		ID:                link,
		Language:          services.LabelToLanguageCode(languageName),
		URL:               link,
		Format:            models.ParseFormat(format),
		NeedsProxy:        false,
		Source:            OpenSubtitlesSource,
		Display:           languageName,
		IsHearingImpaired: item.SubHearingImpaired == "1",
		Encoding:          item.SubEncoding,
		Release:           item.MovieReleaseName,
	}, true
}
