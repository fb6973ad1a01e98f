// Package render turns the backend's HTML descriptions into styled
// terminal text for the detail view.
package render

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/charmbracelet/glamour"
)

var converter = md.NewConverter("", true, nil)

// Markdown converts an HTML fragment to markdown. Descriptions are
// sometimes plain text already; conversion failures fall back to the
// input unchanged.
func Markdown(html string) string {
	out, err := converter.ConvertString(html)
	if err != nil {
		return html
	}
	return strings.TrimSpace(out)
}

// Terminal renders markdown with glamour at the given width, falling
// back to the raw text when rendering fails (e.g. no usable terminal
// profile).
func Terminal(markdown string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimSpace(out)
}

// Description is the full HTML-to-terminal pipeline.
func Description(html string, width int) string {
	return Terminal(Markdown(html), width)
}
