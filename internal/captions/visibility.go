package captions

import (
	"fmt"

	"github.com/Belphemur/SuperCaptions/internal/models"
)

// MaxDelay bounds the user caption delay in seconds, in both directions.
const MaxDelay = 500.0

// IsVisible reports whether a cue spanning [startMs, endMs] is on screen at
// currentSec once shifted by delaySec. Shifted boundaries below zero count as zero.
func IsVisible(startMs, endMs int64, delaySec, currentSec float64) bool {
	start := max(0, float64(startMs)/1000+delaySec)
	end := max(0, float64(endMs)/1000+delaySec)
	return start <= currentSec && end >= currentSec
}

// ClampDelay limits a delay to [-MaxDelay, MaxDelay].
func ClampDelay(delaySec float64) float64 {
	return min(MaxDelay, max(-MaxDelay, delaySec))
}

// ActiveCues returns the cues visible at currentSec with the clamped delay applied.
func ActiveCues(cues []models.Cue, delaySec, currentSec float64) []models.Cue {
	delaySec = ClampDelay(delaySec)
	active := make([]models.Cue, 0)
	for _, cue := range cues {
		if IsVisible(cue.Start, cue.End, delaySec, currentSec) {
			active = append(active, cue)
		}
	}
	return active
}

// CueID builds the render key for the cue at index.
func CueID(index int, startMs, endMs int64) string {
	return fmt.Sprintf("%d-%d-%d", index, startMs, endMs)
}
