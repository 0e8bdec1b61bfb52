package ui

import (
	"fmt"
	"strings"

	"github.com/gubarz/codeappendix/internal/appendix"
	"github.com/gubarz/codeappendix/internal/doc"
	"github.com/gubarz/codeappendix/internal/markdown"
)

// entryItem wraps an Entry with display metadata
type entryItem struct {
	entry  appendix.Entry
	number int // 1-based position in collection order
	search string
}

func newEntryItems(entries []appendix.Entry) []entryItem {
	items := make([]entryItem, len(entries))
	for i, e := range entries {
		items[i] = entryItem{
			entry:  e,
			number: i + 1,
			search: strings.ToLower(strings.Join([]string{e.Language, e.Filename, e.Origin.String(), e.Code.Text}, "\x00")),
		}
	}
	return items
}

// matchesQuery checks that every word appears in the language, filename,
// origin or code. words must already be lower case.
func (item *entryItem) matchesQuery(words []string) bool {
	for _, word := range words {
		if !strings.Contains(item.search, word) {
			return false
		}
	}
	return true
}

// firstLine of the code, for the list column
func (item *entryItem) firstLine() string {
	return firstLine(item.entry.Code.Text)
}

// Markdown returns the entry as a standalone markdown document: a heading,
// the code, then each captured output
func Markdown(number int, e appendix.Entry) string {
	title := fmt.Sprintf("%d. %s", number, e.Language)
	if e.Filename != "" {
		title += " (" + e.Filename + ")"
	}

	blocks := []doc.Block{
		&doc.Header{Level: 2, Inlines: doc.Words(title)},
		e.Code,
	}
	for _, r := range e.Results {
		blocks = append(blocks, r.Blocks...)
	}
	return markdown.String(&doc.Document{Blocks: blocks})
}
