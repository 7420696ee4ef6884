package captions

import "github.com/Belphemur/SuperCaptions/internal/models"

// Dedupe drops every cue identical in start, end and content to the cue kept
// immediately before it. Order is preserved and non-adjacent repeats are kept.
func Dedupe(cues []models.Cue) []models.Cue {
	out := make([]models.Cue, 0, len(cues))
	for _, cue := range cues {
		if n := len(out); n > 0 && out[n-1] == cue {
			continue
		}
		out = append(out, cue)
	}
	return out
}
