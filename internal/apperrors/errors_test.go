// Package apperrors tests verify the custom error types, their Error()
// messages, Is() matching semantics, constructor helpers, and compatibility
// with errors.Is() including through fmt.Errorf wrapping.
package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

// ---------------------------------------------------------------------------
// ErrEmptyContent / ErrInvalidFormat
// ---------------------------------------------------------------------------

func TestErrEmptyContent_Error(t *testing.T) {
	t.Parallel()
	if got := NewEmptyContentError().Error(); got != "empty subtitle content" {
		t.Errorf("Error() = %q, want %q", got, "empty subtitle content")
	}
}

func TestErrInvalidFormat_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *ErrInvalidFormat
		expected string
	}{
		{name: "without reason", err: NewInvalidFormatError(""), expected: "invalid subtitle format"},
		{name: "with reason", err: NewInvalidFormatError("no cues"), expected: "invalid subtitle format: no cues"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestContentErrors_Is(t *testing.T) {
	t.Parallel()

	t.Run("empty matches through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("normalize: %w", NewEmptyContentError())
		if !errors.Is(wrapped, &ErrEmptyContent{}) {
			t.Error("expected errors.Is to match *ErrEmptyContent through wrapping")
		}
	})

	t.Run("invalid matches regardless of reason", func(t *testing.T) {
		err := NewInvalidFormatError("bad header")
		if !errors.Is(err, &ErrInvalidFormat{Reason: "other"}) {
			t.Error("expected errors.Is to match *ErrInvalidFormat regardless of reason")
		}
	})

	t.Run("empty does not match invalid", func(t *testing.T) {
		if errors.Is(NewEmptyContentError(), &ErrInvalidFormat{}) {
			t.Error("expected *ErrEmptyContent not to match *ErrInvalidFormat")
		}
	})

	t.Run("invalid does not match empty", func(t *testing.T) {
		if errors.Is(NewInvalidFormatError(""), &ErrEmptyContent{}) {
			t.Error("expected *ErrInvalidFormat not to match *ErrEmptyContent")
		}
	})
}

// ---------------------------------------------------------------------------
// ErrProviderStatus
// ---------------------------------------------------------------------------

func TestErrProviderStatus(t *testing.T) {
	t.Parallel()
	err := NewProviderStatusError("opensubtitles", 503)

	if err.Provider != "opensubtitles" || err.StatusCode != 503 {
		t.Errorf("unexpected fields: %+v", err)
	}
	if got, want := err.Error(), "opensubtitles returned status 503"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(fmt.Errorf("search: %w", err), &ErrProviderStatus{}) {
		t.Error("expected errors.Is to match *ErrProviderStatus through wrapping")
	}
	if errors.Is(err, &ErrCaptionResourceNotFound{}) {
		t.Error("expected *ErrProviderStatus not to match *ErrCaptionResourceNotFound")
	}
}

// ---------------------------------------------------------------------------
// ErrCaptionNotFoundInArchive
// ---------------------------------------------------------------------------

func TestErrCaptionNotFoundInArchive_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      *ErrCaptionNotFoundInArchive
		expected string
	}{
		{
			name:     "with episode",
			err:      &ErrCaptionNotFoundInArchive{Episode: 3, FileCount: 10},
			expected: "episode 3 not found in caption archive (searched 10 files)",
		},
		{
			name:     "without episode",
			err:      &ErrCaptionNotFoundInArchive{FileCount: 2},
			expected: "no caption file found in archive (searched 2 files)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrCaptionNotFoundInArchive_Is(t *testing.T) {
	t.Parallel()
	err := &ErrCaptionNotFoundInArchive{Episode: 1, FileCount: 4}

	if !errors.Is(fmt.Errorf("mid: %w", fmt.Errorf("inner: %w", err)), &ErrCaptionNotFoundInArchive{}) {
		t.Error("expected errors.Is to match through double wrapping")
	}
	if errors.Is(err, errors.New("some error")) {
		t.Error("expected errors.Is not to match a plain error")
	}
}

// ---------------------------------------------------------------------------
// ErrCaptionResourceNotFound
// ---------------------------------------------------------------------------

func TestErrCaptionResourceNotFound(t *testing.T) {
	t.Parallel()
	err := &ErrCaptionResourceNotFound{URL: "https://example.com/sub.srt"}

	if got, want := err.Error(), "caption resource not found at URL: https://example.com/sub.srt"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, &ErrCaptionResourceNotFound{}) {
		t.Error("expected errors.Is to match *ErrCaptionResourceNotFound")
	}
	if errors.Is(err, &ErrCaptionNotFoundInArchive{}) {
		t.Error("expected *ErrCaptionResourceNotFound not to match *ErrCaptionNotFoundInArchive")
	}
}
