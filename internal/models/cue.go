package models

// Cue is a single timed caption entry. Start and End are in milliseconds.
type Cue struct {
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
	Content string `json:"content"`
}
