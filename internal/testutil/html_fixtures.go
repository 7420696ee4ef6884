package testutil

import (
	"fmt"
	"strings"
)

// PodnapisiRowOptions contains options for generating a Podnapisi search result row
type PodnapisiRowOptions struct {
	Slug            string // e.g. "en-game-of-thrones-2011-S01E02"
	ID              string // Podnapisi subtitle id, e.g. "AbCd"
	Language        string // Language code shown in the row ("en", "pt-br")
	LanguageTitle   string // data-title on the language abbr ("English")
	Release         string
	HearingImpaired bool
	OmitDownload    bool
	AbsoluteLinks   bool // Render links with the given host instead of relative paths
	Host            string
}

// GeneratePodnapisiSearchHTML generates a Podnapisi-like search result page
func GeneratePodnapisiSearchHTML(rows []PodnapisiRowOptions) string {
	var sb strings.Builder

	sb.WriteString(`<html>
<head><meta charset="utf-8"><title>Podnapisi.NET</title></head>
<body>
<table class="table table-striped table-hover">
	<thead><tr><th>Release</th><th>Language</th><th>Downloads</th></tr></thead>
	<tbody>
`)
	for _, row := range rows {
		sb.WriteString(GeneratePodnapisiRow(row))
	}
	sb.WriteString(`	</tbody>
</table>
<ul class="pagination"><li class="active"><a>1</a></li></ul>
</body>
</html>`)

	return sb.String()
}

// GeneratePodnapisiRow generates a single subtitle-entry table row
func GeneratePodnapisiRow(opts PodnapisiRowOptions) string {
	path := fmt.Sprintf("/subtitles/%s/%s", opts.Slug, opts.ID)
	if opts.AbsoluteLinks {
		path = strings.TrimRight(opts.Host, "/") + path
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "\t\t<tr class=\"subtitle-entry\" data-href=\"%s\">\n\t\t\t<td>", path)
	if !opts.OmitDownload {
		fmt.Fprintf(&sb, `<a href="%s/download" rel="nofollow" class="btn"><i class="download"></i></a>`, path)
	}
	fmt.Fprintf(&sb, `<a href="%s"><span class="release">%s</span></a>`, path, opts.Release)
	if opts.HearingImpaired {
		sb.WriteString(`<i class="flags hearing_impaired" title="Hearing impaired"></i>`)
	}
	sb.WriteString("</td>\n")
	fmt.Fprintf(&sb, "\t\t\t<td><abbr class=\"language\" data-title=\"%s\">%s</abbr></td>\n", opts.LanguageTitle, opts.Language)
	sb.WriteString("\t\t\t<td>42</td>\n\t\t</tr>\n")
	return sb.String()
}
