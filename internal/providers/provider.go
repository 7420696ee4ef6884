package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Belphemur/SuperCaptions/internal/apperrors"
	"github.com/Belphemur/SuperCaptions/internal/config"
	"github.com/Belphemur/SuperCaptions/internal/models"
)

// Provider searches one external caption source.
//
// Search never fails: transport, status and decoding errors are logged and
// reported as an empty result. Malformed items are skipped.
type Provider interface {
	Name() string
	Timeout() time.Duration
	Search(ctx context.Context, media models.MediaIdentity) []models.CaptionDescriptor
}

// Settings configures a single provider
type Settings struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// FromConfig builds the enabled providers in registration order: Wyzie, OpenSubtitles, Podnapisi.
func FromConfig(cfg *config.Config, httpClient *http.Client) []Provider {
	settings := func(pc config.ProviderConfig, fallback time.Duration) Settings {
		return Settings{
			BaseURL:   pc.BaseURL,
			Timeout:   config.ParseDuration(pc.Timeout, fallback),
			UserAgent: cfg.UserAgent,
		}
	}

	var list []Provider
	if cfg.Providers.Wyzie.Enabled {
		list = append(list, NewWyzie(httpClient, settings(cfg.Providers.Wyzie, DefaultWyzieTimeout)))
	}
	if cfg.Providers.OpenSubtitles.Enabled {
		list = append(list, NewOpenSubtitles(httpClient, settings(cfg.Providers.OpenSubtitles, DefaultOpenSubtitlesTimeout)))
	}
	if cfg.Providers.Podnapisi.Enabled {
		list = append(list, NewPodnapisi(httpClient, settings(cfg.Providers.Podnapisi, DefaultPodnapisiTimeout)))
	}
	return list
}

func providerLogger(name string) zerolog.Logger {
	return config.GetLogger().With().Str("provider", name).Logger()
}

// get performs a GET request and returns the open response body for a 200 answer.
// Other statuses are returned as *apperrors.ErrProviderStatus.
func get(ctx context.Context, httpClient *http.Client, provider, url string, headers map[string]string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		logger := providerLogger(provider)
		logger.Debug().
			Int("status", resp.StatusCode).
			Str("body", strings.TrimSpace(string(body))).
			Msg("Provider returned non-OK status")
		return nil, apperrors.NewProviderStatusError(provider, resp.StatusCode)
	}
	return resp.Body, nil
}

// getJSONArray fetches url and splits a JSON array response into raw items so a
// single malformed item cannot fail the whole batch. A non-array body yields no items.
func getJSONArray(ctx context.Context, httpClient *http.Client, provider, url string, headers map[string]string) ([]json.RawMessage, error) {
	body, err := get(ctx, httpClient, provider, url, headers)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, nil
	}
	return items, nil
}

// flexString decodes a JSON string or number into a string
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// sanitizeIMDBID returns the numeric part of an IMDB id ("tt0133093" -> "0133093")
func sanitizeIMDBID(value string) string {
	value = strings.TrimSpace(value)
	if len(value) > 2 && strings.EqualFold(value[:2], "tt") {
		value = value[2:]
	}
	if value == "" {
		return ""
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return value
}
