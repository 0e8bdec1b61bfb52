package appendix

import (
	"sort"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/gubarz/codeappendix/internal/config"
	"github.com/gubarz/codeappendix/internal/doc"
	"github.com/gubarz/codeappendix/internal/format"
)

// Assembler turns collected entries into the blocks of the appendix body
type Assembler interface {
	Assemble(entries []Entry) []doc.Block
}

// NewAssembler picks the grouped strategy when opts.GroupByLanguage is set,
// the sequential one otherwise. html reports whether the render target
// supports raw HTML wrappers.
func NewAssembler(opts config.Options, html bool) Assembler {
	if opts.GroupByLanguage {
		return &Grouped{Options: opts, HTML: html}
	}
	return &Sequential{Options: opts}
}

// Sequential emits entries in collection order
type Sequential struct {
	Options config.Options
}

func (a *Sequential) Assemble(entries []Entry) []doc.Block {
	var out []doc.Block
	n := 0
	for _, e := range entries {
		out = emitEntry(out, e, &n, a.Options)
	}
	return out
}

// Grouped emits one section per language, sections sorted by language name
type Grouped struct {
	Options config.Options
	HTML    bool
}

func (a *Grouped) Assemble(entries []Entry) []doc.Block {
	buckets := make(map[string][]Entry)
	var langs []string
	for _, e := range entries {
		if _, ok := buckets[e.Language]; !ok {
			langs = append(langs, e.Language)
		}
		buckets[e.Language] = append(buckets[e.Language], e)
	}
	sort.Strings(langs)

	collapsible := a.Options.Collapsible && a.HTML
	level := min(a.Options.AppendixLevel+1, 6)

	var out []doc.Block
	n := 0
	for _, lang := range langs {
		title := capitalize(lang)
		if collapsible {
			out = append(out, &doc.RawBlock{Format: format.RawFormat, Text: format.DetailsOpen(title)})
		} else {
			out = append(out, &doc.Header{Level: level, Inlines: doc.Words(title)})
		}
		for _, e := range buckets[lang] {
			out = emitEntry(out, e, &n, a.Options)
		}
		if collapsible {
			out = append(out, &doc.RawBlock{Format: format.RawFormat, Text: format.DetailsClose()})
		}
	}
	return out
}

// emitEntry appends the label, filename, code and results for one entry.
// n is the running block number shared across the whole appendix.
func emitEntry(out []doc.Block, e Entry, n *int, opts config.Options) []doc.Block {
	*n++
	if opts.NumberBlocks {
		out = append(out, &doc.Para{Inlines: doc.Words(blockLabel(*n, e.Language))})
	}
	if opts.ShowFilename && e.Filename != "" {
		out = append(out, &doc.Para{Inlines: []doc.Inline{
			&doc.Str{Text: "File:"},
			&doc.Space{},
			&doc.Code{Text: e.Filename},
		}})
	}
	out = append(out, e.Code)
	if opts.ShowOutputResults {
		for _, r := range e.Results {
			out = append(out, r)
		}
	}
	return out
}

func blockLabel(n int, language string) string {
	label := "Code Block " + strconv.Itoa(n)
	if language != DefaultLanguage {
		label += " (" + language + ")"
	}
	return label
}

// capitalize upper-cases the first character only
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
