package appendix

import (
	"github.com/gubarz/codeappendix/internal/config"
	"github.com/gubarz/codeappendix/internal/doc"
)

// placeholderText marks a block slot that held no node
const placeholderText = "[code-appendix: missing block]"

// Rewrite returns blocks with the appendix appended. With no entries, or no
// blocks, the input is returned unchanged. When opts.ShowCodeInline is false
// the cells and classed code blocks that produced entries are removed from
// the body first. Cells and code blocks marked appendix="false" never
// produce entries, so they stay inline.
func Rewrite(blocks []doc.Block, entries []Entry, body []doc.Block, opts config.Options) []doc.Block {
	if len(entries) == 0 || len(blocks) == 0 {
		return blocks
	}

	moved := make(map[doc.Block]bool, len(entries))
	if !opts.ShowCodeInline {
		for _, e := range entries {
			moved[e.Source] = true
		}
	}

	out := make([]doc.Block, 0, len(blocks)+1)
	for _, b := range blocks {
		if b == nil {
			out = append(out, placeholder())
			continue
		}
		if moved[b] && (IsCellContainer(b) || IsStandaloneCode(b)) {
			continue
		}
		out = append(out, b)
	}

	return append(out, Container(body, opts))
}

// Container wraps the assembled body with the optional separator and the
// appendix heading.
func Container(body []doc.Block, opts config.Options) *doc.Div {
	blocks := make([]doc.Block, 0, len(body)+2)
	if opts.ShowSeparator {
		blocks = append(blocks, &doc.HorizontalRule{})
	}
	blocks = append(blocks, &doc.Header{
		Level:   opts.AppendixLevel,
		Inlines: doc.Words(opts.AppendixTitle),
	})
	blocks = append(blocks, body...)

	return &doc.Div{
		Attr:   doc.Attr{Classes: []string{appendixClass, codeAppendixClass}},
		Blocks: blocks,
	}
}

func placeholder() *doc.Para {
	return &doc.Para{Inlines: doc.Words(placeholderText)}
}
