package apperrors

import "fmt"

// ErrEmptyContent is returned when subtitle text is empty or whitespace only.
type ErrEmptyContent struct{}

// Error implements the error interface.
func (e *ErrEmptyContent) Error() string {
	return "empty subtitle content"
}

// Is allows for error checking with errors.Is().
func (e *ErrEmptyContent) Is(target error) bool {
	_, ok := target.(*ErrEmptyContent)
	return ok
}

// NewEmptyContentError creates a new ErrEmptyContent.
func NewEmptyContentError() *ErrEmptyContent {
	return &ErrEmptyContent{}
}

// ErrInvalidFormat is returned when subtitle text cannot be recognized or converted.
type ErrInvalidFormat struct {
	Reason string
}

// Error implements the error interface.
func (e *ErrInvalidFormat) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid subtitle format: %s", e.Reason)
	}
	return "invalid subtitle format"
}

// Is allows for error checking with errors.Is().
func (e *ErrInvalidFormat) Is(target error) bool {
	_, ok := target.(*ErrInvalidFormat)
	return ok
}

// NewInvalidFormatError creates a new ErrInvalidFormat with an optional reason.
func NewInvalidFormatError(reason string) *ErrInvalidFormat {
	return &ErrInvalidFormat{Reason: reason}
}

// ErrProviderStatus is returned when a subtitle provider answers with a non-OK HTTP status.
type ErrProviderStatus struct {
	Provider   string
	StatusCode int
}

// Error implements the error interface.
func (e *ErrProviderStatus) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
}

// Is allows for error checking with errors.Is().
func (e *ErrProviderStatus) Is(target error) bool {
	_, ok := target.(*ErrProviderStatus)
	return ok
}

// NewProviderStatusError creates a new ErrProviderStatus.
func NewProviderStatusError(provider string, statusCode int) *ErrProviderStatus {
	return &ErrProviderStatus{
		Provider:   provider,
		StatusCode: statusCode,
	}
}

// ErrCaptionNotFoundInArchive is returned when the requested episode caption is not found in an archive.
type ErrCaptionNotFoundInArchive struct {
	Episode   int
	FileCount int
}

// Error implements the error interface.
func (e *ErrCaptionNotFoundInArchive) Error() string {
	if e.Episode > 0 {
		return fmt.Sprintf("episode %d not found in caption archive (searched %d files)", e.Episode, e.FileCount)
	}
	return fmt.Sprintf("no caption file found in archive (searched %d files)", e.FileCount)
}

// Is allows for error checking with errors.Is().
func (e *ErrCaptionNotFoundInArchive) Is(target error) bool {
	_, ok := target.(*ErrCaptionNotFoundInArchive)
	return ok
}

// ErrCaptionResourceNotFound is returned when the caption URL returns HTTP 404.
type ErrCaptionResourceNotFound struct {
	URL string
}

// Error implements the error interface.
func (e *ErrCaptionResourceNotFound) Error() string {
	return fmt.Sprintf("caption resource not found at URL: %s", e.URL)
}

// Is allows for error checking with errors.Is().
func (e *ErrCaptionResourceNotFound) Is(target error) bool {
	_, ok := target.(*ErrCaptionResourceNotFound)
	return ok
}
