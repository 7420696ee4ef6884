package models

// CaptionDescriptor describes an available caption track before its content is fetched.
// Identity is ID: provider-assigned or derived from the URL.
type CaptionDescriptor struct {
	ID                string `json:"id"`
	Language          string `json:"language"`
	URL               string `json:"url"`
	Format            Format `json:"format"`
	NeedsProxy        bool   `json:"needsProxy"`
	Source            string `json:"source"`
	Display           string `json:"display,omitempty"`
	IsHearingImpaired bool   `json:"isHearingImpaired,omitempty"`
	Media             string `json:"media,omitempty"`    // Release/media name reported by the provider
	Encoding          string `json:"encoding,omitempty"` // Declared source encoding
	Release           string `json:"release,omitempty"`
}

// MergeCaptions appends the incoming descriptors whose ID is not already present.
// The first descriptor seen for an ID wins, including duplicates within incoming.
func MergeCaptions(existing, incoming []CaptionDescriptor) []CaptionDescriptor {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]CaptionDescriptor, 0, len(existing)+len(incoming))
	for _, c := range existing {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		merged = append(merged, c)
	}
	for _, c := range incoming {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		merged = append(merged, c)
	}
	return merged
}
