package services

import (
	"context"

	"github.com/Belphemur/SuperCaptions/internal/models"
)

// CaptionDownloader fetches caption payloads on behalf of callers
type CaptionDownloader interface {
	// Download fetches url, unwraps gzip/ZIP/RAR payloads and returns UTF-8 caption text.
	// A positive episode selects the matching file inside a season pack archive.
	Download(ctx context.Context, url string, episode int) (*models.DownloadResult, error)
}
