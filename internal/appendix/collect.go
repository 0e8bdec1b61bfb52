package appendix

import (
	"go.uber.org/zap"

	"github.com/gubarz/codeappendix/internal/doc"
)

// Collector walks a document's top-level blocks once and gathers entries
type Collector struct {
	log     *zap.Logger
	entries []Entry
}

// NewCollector creates a collector with an empty entry list
func NewCollector(log *zap.Logger) *Collector {
	return &Collector{log: log}
}

// Collect returns the entries for blocks in discovery order. Each call
// starts from an empty list.
func Collect(blocks []doc.Block, log *zap.Logger) []Entry {
	return NewCollector(log).Collect(blocks)
}

// Collect scans blocks and returns the accumulated entries
func (c *Collector) Collect(blocks []doc.Block) []Entry {
	c.entries = nil
	for _, b := range blocks {
		if b == nil {
			continue
		}
		switch {
		case IsCellContainer(b):
			if !IsIncluded(b) {
				c.log.Debug("skipping excluded cell")
				continue
			}
			c.collectCell(b.(*doc.Div))
		case IsStandaloneCode(b):
			code := b.(*doc.CodeBlock)
			if !IsIncluded(code) {
				c.log.Debug("skipping excluded code block", zap.String("language", code.Attr.Classes[0]))
				continue
			}
			filename, _ := FilenameOf(code)
			c.add(Entry{
				Code:     code,
				Language: code.Attr.Classes[0],
				Origin:   Standalone,
				Filename: filename,
				Source:   code,
			})
		}
	}
	return c.entries
}

// cellScan is the state of one cell's child scan
type cellScan struct {
	cell     *doc.Div
	filename string
	current  int // index into entries of the open entry, -1 when none
}

func (c *Collector) collectCell(cell *doc.Div) {
	filename, _ := FilenameOf(cell)
	s := &cellScan{cell: cell, filename: filename, current: -1}
	c.scanChildren(cell.Blocks, s)
}

func (c *Collector) scanChildren(children []doc.Block, s *cellScan) {
	for _, child := range children {
		switch n := child.(type) {
		case *doc.CodeBlock:
			if !n.Attr.HasClass(cellCodeClass) {
				continue
			}
			if !IsIncluded(n) {
				// Output following excluded code must not attach to earlier code
				s.current = -1
				continue
			}
			filename, ok := FilenameOf(n)
			if !ok {
				filename = s.filename
			}
			s.current = c.add(Entry{
				Code:     n,
				Language: cellLanguage(n),
				Origin:   FromCell,
				Filename: filename,
				Source:   s.cell,
			})
		case *doc.Div:
			if IsOutputContainer(n) {
				if s.current < 0 {
					c.log.Debug("dropping output with no preceding code")
					continue
				}
				e := &c.entries[s.current]
				e.Results = append(e.Results, n)
				continue
			}
			c.scanChildren(n.Blocks, s)
		}
	}
}

func (c *Collector) add(e Entry) int {
	c.entries = append(c.entries, e)
	c.log.Debug("collected code block",
		zap.Int("index", len(c.entries)),
		zap.String("language", e.Language),
		zap.Stringer("origin", e.Origin),
		zap.String("filename", e.Filename),
	)
	return len(c.entries) - 1
}
