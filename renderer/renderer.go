// Package renderer turns portfolio reports into markdown and HTML.
package renderer

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/etnz/stocklog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// ReportMarkdown renders every section of a report in a single document.
func ReportMarkdown(r *stocklog.Report) string {
	sections := []string{
		SummaryMarkdown(r),
		PositionsMarkdown(r),
		ClosedMarkdown(r),
		SectorsMarkdown(r),
	}
	return strings.Join(sections, "\n")
}

// markdown converts GitHub flavored markdown, tables included.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts a markdown document into a standalone HTML page.
func HTML(title, doc string) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(doc), &body); err != nil {
		return "", fmt.Errorf("cannot convert markdown to HTML: %w", err)
	}
	var page strings.Builder
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("<style>body{font-family:sans-serif;max-width:72em;margin:auto}table{border-collapse:collapse}td,th{padding:.2em .6em;border-bottom:1px solid #ddd}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}
