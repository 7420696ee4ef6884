package client

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/Belphemur/SuperCaptions/internal/apperrors"
	"github.com/Belphemur/SuperCaptions/internal/captions"
	"github.com/Belphemur/SuperCaptions/internal/config"
	"github.com/Belphemur/SuperCaptions/internal/metrics"
	"github.com/Belphemur/SuperCaptions/internal/models"
)

func (c *client) DownloadCaption(ctx context.Context, captionURL string, episode int) (*models.DownloadResult, error) {
	return c.downloader.Download(ctx, captionURL, episode)
}

func (c *client) ConvertCaption(ctx context.Context, captionURL string, episode int, format models.Format) (*models.DownloadResult, error) {
	downloaded, err := c.downloader.Download(ctx, captionURL, episode)
	if err != nil {
		return nil, err
	}

	var converted string
	switch format {
	case models.FormatVTT:
		converted, err = captions.ConvertToVTT(string(downloaded.Content))
	default:
		format = models.FormatSRT
		converted, err = captions.ConvertToSRT(string(downloaded.Content))
	}
	recordNormalization(err)
	if err != nil {
		return nil, err
	}

	return &models.DownloadResult{
		Filename:    replaceExtension(downloaded.Filename, format),
		Content:     []byte(converted),
		ContentType: format.ContentType(),
	}, nil
}

func (c *client) LoadCues(ctx context.Context, captionURL string, episode int) ([]models.Cue, error) {
	downloaded, err := c.downloader.Download(ctx, captionURL, episode)
	if err != nil {
		return nil, err
	}

	cues, err := captions.Normalize(string(downloaded.Content))
	recordNormalization(err)
	if err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("url", captionURL).Msg("Could not load caption")
		return nil, err
	}
	return captions.Dedupe(cues), nil
}

func recordNormalization(err error) {
	result := "ok"
	switch {
	case errors.Is(err, &apperrors.ErrEmptyContent{}):
		result = "empty"
	case errors.Is(err, &apperrors.ErrInvalidFormat{}):
		result = "invalid"
	case err != nil:
		result = "error"
	}
	metrics.NormalizationsTotal.WithLabelValues(result).Inc()
}

func replaceExtension(filename string, format models.Format) string {
	if filename == "" {
		return "caption" + format.Extension()
	}
	return strings.TrimSuffix(filename, path.Ext(filename)) + format.Extension()
}
