// Package parser indexes the code blocks of markdown files on disk, one
// file or a whole directory tree at a time.
package parser

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/gubarz/codeappendix/internal/appendix"
	"github.com/gubarz/codeappendix/internal/markdown"
)

// Extensions are the file suffixes scanned in a directory
var Extensions = []string{".md", ".markdown", ".qmd", ".rmd"}

// File is one parsed document and what the collector found in it
type File struct {
	Path    string
	Title   string
	Entries []appendix.Entry
}

// Index holds every parsed file, in path order
type Index struct {
	Files []*File
}

// NewIndex creates an empty Index
func NewIndex() *Index {
	return &Index{}
}

// Entries returns all entries across files
func (idx *Index) Entries() []appendix.Entry {
	var all []appendix.Entry
	for _, f := range idx.Files {
		all = append(all, f.Entries...)
	}
	return all
}

// Count returns the total number of entries
func (idx *Index) Count() int {
	n := 0
	for _, f := range idx.Files {
		n += len(f.Entries)
	}
	return n
}

// Parser builds an Index from markdown files
type Parser struct {
	index *Index
	log   *zap.Logger
}

// NewParser creates a new parser
func NewParser(log *zap.Logger) *Parser {
	return &Parser{index: NewIndex(), log: log}
}

// Parse indexes path, which may be a file or a directory
func (p *Parser) Parse(path string) (*Index, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("path error: %w", err)
	}
	if info.IsDir() {
		return p.ParseDirectory(path)
	}
	return p.ParseSingleFile(path)
}

// ParseDirectory recursively parses all markdown files in a directory
func (p *Parser) ParseDirectory(dir string) (*Index, error) {
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isMarkdown(path) {
			if err := p.parseFile(path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(p.index.Files, func(i, j int) bool {
		return p.index.Files[i].Path < p.index.Files[j].Path
	})
	return p.index, nil
}

// ParseSingleFile parses a single markdown file
func (p *Parser) ParseSingleFile(path string) (*Index, error) {
	if err := p.parseFile(path); err != nil {
		return nil, err
	}
	return p.index, nil
}

func (p *Parser) parseFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	d, err := markdown.Parse(src)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	f := &File{
		Path:    path,
		Title:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Entries: appendix.Collect(d.Blocks, p.log),
	}
	if title, ok := d.Meta["title"].(string); ok && title != "" {
		f.Title = title
	}

	p.log.Debug("parsed file", zap.String("path", path), zap.Int("entries", len(f.Entries)))
	p.index.Files = append(p.index.Files, f)
	return nil
}

func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
