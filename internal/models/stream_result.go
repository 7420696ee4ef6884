package models

import "time"

// StreamResult holds either a value or an error from a streaming operation
type StreamResult[T any] struct {
	Value T
	Err   error
}

// SourceResult is one provider's outcome within an aggregation
type SourceResult struct {
	Source   string              `json:"source"`
	Index    int                 `json:"index"` // Provider registration order
	Captions []CaptionDescriptor `json:"captions"`
	TimedOut bool                `json:"timedOut"`
	// Cancelled is set when the caller's context ended before the source answered
	Cancelled bool          `json:"cancelled"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Partial reports whether the source was cut short, so its captions may be incomplete
func (r SourceResult) Partial() bool {
	return r.TimedOut || r.Cancelled
}
