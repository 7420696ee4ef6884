package api

import (
	"net/url"
	"strconv"

	"github.com/Belphemur/SuperCaptions/internal/captions"
	"github.com/Belphemur/SuperCaptions/internal/models"
)

type cueResponse struct {
	ID      string `json:"id"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
	Content string `json:"content"`
}

type sourceResponse struct {
	Source    string                     `json:"source"`
	Index     int                        `json:"index"`
	Captions  []models.CaptionDescriptor `json:"captions"`
	TimedOut  bool                       `json:"timedOut"`
	ElapsedMs int64                      `json:"elapsedMs"`
}

func toCueResponses(cues []models.Cue) []cueResponse {
	out := make([]cueResponse, len(cues))
	for i, cue := range cues {
		out[i] = cueResponse{
			ID:      captions.CueID(i, cue.Start, cue.End),
			Start:   cue.Start,
			End:     cue.End,
			Content: cue.Content,
		}
	}
	return out
}

func toSourceResponse(r models.SourceResult) sourceResponse {
	found := r.Captions
	if found == nil {
		found = []models.CaptionDescriptor{}
	}
	return sourceResponse{
		Source:    r.Source,
		Index:     r.Index,
		Captions:  found,
		TimedOut:  r.TimedOut,
		ElapsedMs: r.Elapsed.Milliseconds(),
	}
}

// contentURL builds the proxied content link for a descriptor on this server
func contentURL(baseURL string, caption models.CaptionDescriptor, episode int, format models.Format) string {
	query := url.Values{}
	query.Set("url", caption.URL)
	query.Set("format", format.String())
	if episode > 0 {
		query.Set("episode", strconv.Itoa(episode))
	}
	return baseURL + "/api/v1/captions/content?" + query.Encode()
}
