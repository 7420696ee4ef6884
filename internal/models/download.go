package models

// DownloadResult represents a fetched caption payload
type DownloadResult struct {
	Filename    string // Name of the caption file
	Content     []byte // UTF-8 caption text
	ContentType string // MIME type (e.g., "application/x-subrip", "text/vtt")
}
