// Package format answers questions about the render target a document is
// being filtered for.
package format

import (
	"html"
	"strings"
)

// htmlFormats are pandoc writer names that produce HTML
var htmlFormats = map[string]bool{
	"html":        true,
	"html4":       true,
	"html5":       true,
	"revealjs":    true,
	"s5":          true,
	"slideous":    true,
	"slidy":       true,
	"dzslides":    true,
	"epub":        true,
	"epub2":       true,
	"epub3":       true,
	"chunkedhtml": true,
	"dashboard":   true,
}

// IsHTML reports whether target renders to HTML. Writer extensions
// ("html5+smart") and Quarto variants ("html-revealjs") are accepted.
func IsHTML(target string) bool {
	t := strings.ToLower(strings.TrimSpace(target))
	if i := strings.IndexAny(t, "+-"); i > 0 {
		if htmlFormats[t[:i]] {
			return true
		}
	}
	return htmlFormats[t]
}

// RawFormat is the raw-markup format name used for collapsible wrappers
const RawFormat = "html"

// DetailsOpen returns the opening markup for a collapsible group with a
// visible summary label.
func DetailsOpen(summary string) string {
	return `<details class="code-appendix-group">` + "\n" +
		"<summary>" + html.EscapeString(summary) + "</summary>"
}

// DetailsClose closes a group opened with DetailsOpen
func DetailsClose() string {
	return "</details>"
}
