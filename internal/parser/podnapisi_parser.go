package parser

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/Belphemur/SuperCaptions/internal/config"
	"github.com/Belphemur/SuperCaptions/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// PodnapisiSource is the source name reported on Podnapisi descriptors
const PodnapisiSource = "podnapisi"

// PodnapisiParser extracts caption descriptors from a Podnapisi search result page
type PodnapisiParser struct {
	baseURL string
}

var _ Parser[models.CaptionDescriptor] = (*PodnapisiParser)(nil)

// NewPodnapisiParser creates a parser resolving relative links against baseURL
func NewPodnapisiParser(baseURL string) *PodnapisiParser {
	return &PodnapisiParser{baseURL: strings.TrimRight(baseURL, "/")}
}

// ParseHtml implements the Parser[models.CaptionDescriptor] interface.
// Rows without a download link or language are skipped.
func (p *PodnapisiParser) ParseHtml(body io.Reader) ([]models.CaptionDescriptor, error) {
	logger := config.GetLogger()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	captions := make([]models.CaptionDescriptor, 0)
	// Structure: <tr class="subtitle-entry"><td>download link, release, flags</td><td><abbr class="language">en</abbr></td>...</tr>
	doc.Find("tr.subtitle-entry").Each(func(i int, row *goquery.Selection) {
		caption, ok := p.extractCaptionFromRow(row)
		if !ok {
			logger.Debug().Int("row", i).Msg("Skipping Podnapisi row without link or language")
			return
		}
		captions = append(captions, caption)
	})

	logger.Debug().Int("captions", len(captions)).Msg("Parsed Podnapisi search page")
	return captions, nil
}

func (p *PodnapisiParser) extractCaptionFromRow(row *goquery.Selection) (models.CaptionDescriptor, bool) {
	href, ok := row.Find(`a[href$="/download"]`).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return models.CaptionDescriptor{}, false
	}
	downloadURL := p.absoluteURL(strings.TrimSpace(href))
	if downloadURL == "" {
		return models.CaptionDescriptor{}, false
	}

	langNode := row.Find("abbr.language").First()
	language := strings.TrimSpace(langNode.Text())
	if language == "" {
		language, _ = langNode.Attr("data-language")
	}
	if language == "" {
		return models.CaptionDescriptor{}, false
	}

	release := strings.TrimSpace(row.Find("span.release").First().Text())
	display, _ := langNode.Attr("data-title")
	hearingImpaired := row.Find(".hearing_impaired").Length() > 0

	return models.CaptionDescriptor{
		ID:                uuid.NewSHA1(uuid.NameSpaceURL, []byte(downloadURL)).String(),
		Language:          language,
		URL:               downloadURL,
		Format:            models.FormatSRT,
		NeedsProxy:        true,
		Source:            PodnapisiSource,
		Display:           strings.TrimSpace(display),
		IsHearingImpaired: hearingImpaired,
		Release:           release,
	}, true
}

func (p *PodnapisiParser) absoluteURL(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	base, err := url.Parse(p.baseURL + "/")
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
