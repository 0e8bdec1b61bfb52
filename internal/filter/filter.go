// Package filter runs the code appendix over whole documents: decode,
// resolve options and target format, transform, encode.
package filter

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/gubarz/codeappendix/internal/appendix"
	"github.com/gubarz/codeappendix/internal/config"
	"github.com/gubarz/codeappendix/internal/doc"
	"github.com/gubarz/codeappendix/internal/markdown"
	"github.com/gubarz/codeappendix/internal/pandoc"
)

// FormatMetaKey is the metadata key Quarto uses to pass the output format
const FormatMetaKey = "quarto-format"

// Logging is the logger for one run. Level, when set, is lowered to debug
// while a document that turns on its debug option is transformed.
type Logging struct {
	Log   *zap.Logger
	Level *zap.AtomicLevel
}

func (l Logging) logger() *zap.Logger {
	if l.Log == nil {
		return zap.NewNop()
	}
	return l.Log
}

// Target picks the output format: the explicit value if any, then the
// document's quarto-format, then the configured default
func Target(explicit string, meta doc.Meta) string {
	if t := strings.TrimSpace(explicit); t != "" {
		return t
	}
	if t, ok := meta[FormatMetaKey].(string); ok && strings.TrimSpace(t) != "" {
		return strings.TrimSpace(t)
	}
	return config.GetTarget()
}

// Document transforms d with options read from its own metadata
func Document(d *doc.Document, target string, l Logging) (*doc.Document, appendix.Report) {
	log := l.logger()
	if l.Level != nil {
		defer l.Level.SetLevel(l.Level.Level())
	}
	opts := config.Load(d.Meta, log, l.Level)
	target = Target(target, d.Meta)
	log.Debug("transforming document", zap.String("target", target), zap.Int("blocks", len(d.Blocks)))
	return appendix.Transform(d, opts, target, log)
}

// Pandoc filters one pandoc JSON document from r to w
func Pandoc(r io.Reader, w io.Writer, target string, l Logging) (appendix.Report, error) {
	f, err := pandoc.Read(r)
	if err != nil {
		return appendix.Report{}, fmt.Errorf("reading pandoc document: %w", err)
	}

	out, report := Document(f.Doc, target, l)
	if err := pandoc.Write(w, f.WithDoc(out)); err != nil {
		return report, err
	}
	return report, nil
}

// Markdown filters one markdown document
func Markdown(src []byte, w io.Writer, target string, l Logging) (appendix.Report, error) {
	d, err := markdown.Parse(src)
	if err != nil {
		return appendix.Report{}, fmt.Errorf("reading markdown: %w", err)
	}

	out, report := Document(d, target, l)
	if err := markdown.Render(w, out); err != nil {
		return report, err
	}
	return report, nil
}
