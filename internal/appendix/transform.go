package appendix

import (
	"sort"

	"go.uber.org/zap"

	"github.com/gubarz/codeappendix/internal/config"
	"github.com/gubarz/codeappendix/internal/doc"
	"github.com/gubarz/codeappendix/internal/format"
)

// Report summarises one transform
type Report struct {
	Entries   int
	Languages []LanguageCount // sorted by language
	Appended  bool
}

// LanguageCount is the number of entries collected for one language
type LanguageCount struct {
	Language string
	Count    int
}

// Transform collects, assembles and appends the code appendix for d.
// target is the render format name; it only decides whether collapsible
// groups can use raw HTML. d itself is not modified.
func Transform(d *doc.Document, opts config.Options, target string, log *zap.Logger) (*doc.Document, Report) {
	entries := Collect(d.Blocks, log)
	report := summarize(entries)

	if len(entries) == 0 || len(d.Blocks) == 0 {
		log.Debug("no code blocks collected, document unchanged")
		return d, report
	}

	html := format.IsHTML(target)
	if opts.Collapsible && opts.GroupByLanguage && !html {
		log.Debug("collapsible groups need an HTML target, using headings", zap.String("target", target))
	}

	body := NewAssembler(opts, html).Assemble(entries)
	out := &doc.Document{
		Meta:   d.Meta,
		Blocks: Rewrite(d.Blocks, entries, body, opts),
	}
	report.Appended = true

	log.Debug("code appendix appended",
		zap.Int("entries", report.Entries),
		zap.Int("appendix_blocks", len(body)),
		zap.Bool("grouped", opts.GroupByLanguage),
	)
	return out, report
}

func summarize(entries []Entry) Report {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.Language]++
	}
	r := Report{Entries: len(entries)}
	for lang, n := range counts {
		r.Languages = append(r.Languages, LanguageCount{Language: lang, Count: n})
	}
	sort.Slice(r.Languages, func(i, j int) bool {
		return r.Languages[i].Language < r.Languages[j].Language
	})
	return r
}
