package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Belphemur/SuperCaptions/internal/models"
	"github.com/Belphemur/SuperCaptions/internal/services"
)

const (
	WyzieSource         = "wyzie"
	DefaultWyzieTimeout = 2 * time.Second
	defaultWyzieBaseURL = "https://sub.wyzie.ru"
)

type wyzieItem struct {
	ID                flexString `json:"id"`
	URL               string     `json:"url"`
	Format            string     `json:"format"`
	Language          string     `json:"language"`
	Display           string     `json:"display"`
	Media             string     `json:"media"`
	Encoding          string     `json:"encoding"`
	Source            flexString `json:"source"`
	IsHearingImpaired bool       `json:"isHearingImpaired"`
}

// Wyzie queries the sub.wyzie.ru search API. It accepts a TMDB id when no IMDB id is known.
type Wyzie struct {
	httpClient *http.Client
	settings   Settings
}

func NewWyzie(httpClient *http.Client, settings Settings) *Wyzie {
	if settings.BaseURL == "" {
		settings.BaseURL = defaultWyzieBaseURL
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultWyzieTimeout
	}
	settings.BaseURL = strings.TrimRight(settings.BaseURL, "/")
	return &Wyzie{httpClient: httpClient, settings: settings}
}

func (w *Wyzie) Name() string           { return WyzieSource }
func (w *Wyzie) Timeout() time.Duration { return w.settings.Timeout }

func (w *Wyzie) Search(ctx context.Context, media models.MediaIdentity) []models.CaptionDescriptor {
	logger := providerLogger(WyzieSource)

	id := strings.TrimSpace(media.IMDBID)
	if id == "" {
		id = strings.TrimSpace(media.TMDBID)
	}
	if id == "" {
		return []models.CaptionDescriptor{}
	}

	items, err := getJSONArray(ctx, w.httpClient, WyzieSource, w.searchURL(id, media), map[string]string{
		"User-Agent": w.settings.UserAgent,
		"Accept":     "application/json",
	})
	if err != nil {
		logger.Warn().Err(err).Str("mediaId", id).Msg("Wyzie search failed")
		return []models.CaptionDescriptor{}
	}

	captions := make([]models.CaptionDescriptor, 0, len(items))
	for i, raw := range items {
		var item wyzieItem
		if err := json.Unmarshal(raw, &item); err != nil {
			logger.Debug().Err(err).Int("item", i).Msg("Skipping malformed Wyzie item")
			continue
		}
		if strings.TrimSpace(item.URL) == "" {
			continue
		}
		captions = append(captions, convertWyzieItem(item))
	}

	logger.Debug().Str("mediaId", id).Int("captions", len(captions)).Msg("Wyzie search completed")
	return captions
}

func (w *Wyzie) searchURL(id string, media models.MediaIdentity) string {
	query := url.Values{}
	query.Set("id", id)
	if media.IsEpisode() {
		query.Set("season", strconv.Itoa(media.Season))
		query.Set("episode", strconv.Itoa(media.Episode))
	}
	query.Set("encoding", "utf-8")
	query.Set("source", "all")
	return w.settings.BaseURL + "/search?" + query.Encode()
}

func convertWyzieItem(item wyzieItem) models.CaptionDescriptor {
	format := models.FormatSRT
	if strings.EqualFold(item.Format, "vtt") {
		format = models.FormatVTT
	}
	captionURL := strings.TrimSpace(item.URL)
	// Items without a provider id are identified by their URL
	id := strings.TrimSpace(string(item.ID))
	if id == "" {
		id = captionURL
	}
	source := string(item.Source)
	if source == "" {
		source = WyzieSource
	}
	return models.CaptionDescriptor{
		ID:                id,
		Language:          services.NormalizeLanguageCode(item.Language),
		URL:               captionURL,
		Format:            format,
		NeedsProxy:        false,
		Source:            source,
		Display:           item.Display,
		IsHearingImpaired: item.IsHearingImpaired,
		Media:             item.Media,
		Encoding:          item.Encoding,
	}
}
