// Package markdown converts between pandoc-flavoured markdown and the
// document model: YAML front matter, fenced code with attributes and
// ::: fenced divs. Inline markup is kept as literal text.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/gubarz/codeappendix/internal/doc"
)

// ErrFrontMatter is returned when the YAML front matter cannot be parsed
var ErrFrontMatter = errors.New("invalid front matter")

var divFence = regexp.MustCompile(`^(:{3,})\s*(.*?)\s*:*\s*$`)

// Parse reads a markdown document
func Parse(src []byte) (*doc.Document, error) {
	meta, body, err := splitFrontMatter(src)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithParserOptions(parser.WithAttribute()))
	root := md.Parser().Parse(text.NewReader(body))

	b := &builder{src: body}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		b.node(n)
	}
	// unclosed divs end with the document
	for len(b.stack) > 0 {
		b.pop()
	}

	return &doc.Document{Meta: meta, Blocks: b.root}, nil
}

// splitFrontMatter separates a leading --- YAML block from the body
func splitFrontMatter(src []byte) (doc.Meta, []byte, error) {
	meta := doc.Meta{}
	normalized := bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return meta, src, nil
	}

	rest := normalized[len("---\n"):]
	end, next := -1, 0
	for off := 0; off < len(rest); {
		line, _, _ := bytes.Cut(rest[off:], []byte("\n"))
		if s := string(bytes.TrimRight(line, " \t")); s == "---" || s == "..." {
			end = off
			next = off + len(line) + 1
			break
		}
		off += len(line) + 1
	}
	if end < 0 {
		// a lone --- is a thematic break, not front matter
		return meta, src, nil
	}

	// decoding into doc.Meta would make every nested mapping a doc.Meta too
	var fields map[string]any
	if err := yaml.Unmarshal(rest[:end], &fields); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}
	meta = doc.Meta(fields)
	if meta == nil {
		meta = doc.Meta{}
	}
	if next > len(rest) {
		next = len(rest)
	}
	return meta, rest[next:], nil
}

type builder struct {
	src   []byte
	root  []doc.Block
	stack []*doc.Div
}

func (b *builder) add(blk doc.Block) {
	if len(b.stack) == 0 {
		b.root = append(b.root, blk)
		return
	}
	top := b.stack[len(b.stack)-1]
	top.Blocks = append(top.Blocks, blk)
}

func (b *builder) push(attr doc.Attr) {
	b.stack = append(b.stack, &doc.Div{Attr: attr})
}

func (b *builder) pop() {
	div := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.add(div)
}

func (b *builder) node(n ast.Node) {
	switch node := n.(type) {
	case *ast.Heading:
		h := &doc.Header{Level: node.Level, Inlines: doc.Words(b.lines(node, " "))}
		if id, ok := node.AttributeString("id"); ok {
			h.Attr.ID = attrString(id)
		}
		if class, ok := node.AttributeString("class"); ok {
			h.Attr.Classes = strings.Fields(attrString(class))
		}
		b.add(h)

	case *ast.FencedCodeBlock:
		var info string
		if node.Info != nil {
			info = string(node.Info.Segment.Value(b.src))
		}
		body := strings.TrimSuffix(b.lines(node, ""), "\n")
		attr, raw := parseInfo(info)
		if raw != "" {
			b.add(&doc.RawBlock{Format: raw, Text: body})
			return
		}
		b.add(&doc.CodeBlock{Attr: attr, Text: body})

	case *ast.CodeBlock:
		b.add(&doc.CodeBlock{Text: strings.TrimSuffix(b.lines(node, ""), "\n")})

	case *ast.ThematicBreak:
		b.add(&doc.HorizontalRule{})

	case *ast.HTMLBlock:
		html := b.lines(node, "")
		if node.HasClosure() {
			html += string(node.ClosureLine.Value(b.src))
		}
		b.add(&doc.RawBlock{Format: "html", Text: strings.TrimRight(html, "\n")})

	case *ast.Paragraph:
		b.paragraph(node)

	default:
		b.add(&doc.Opaque{Tag: n.Kind().String(), Payload: b.source(n)})
	}
}

// paragraph splits a paragraph on ::: fence lines, which open and close divs
func (b *builder) paragraph(node *ast.Paragraph) {
	var pending []string
	flush := func() {
		if len(pending) == 0 {
			return
		}
		var inlines []doc.Inline
		for i, line := range pending {
			if i > 0 {
				inlines = append(inlines, &doc.SoftBreak{})
			}
			inlines = append(inlines, doc.Words(line)...)
		}
		b.add(&doc.Para{Inlines: inlines})
		pending = nil
	}

	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := strings.TrimRight(string(seg.Value(b.src)), "\r\n")
		m := divFence.FindStringSubmatch(strings.TrimSpace(line))
		switch {
		case m == nil:
			pending = append(pending, line)
		case m[2] == "":
			flush()
			if len(b.stack) > 0 {
				b.pop()
			}
		default:
			flush()
			b.push(parseAttr(m[2]))
		}
	}
	flush()
}

func (b *builder) lines(n ast.Node, sep string) string {
	var parts []string
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, string(seg.Value(b.src)))
	}
	return strings.Join(parts, sep)
}

// source returns the full source lines spanned by a container block
func (b *builder) source(n ast.Node) string {
	start, stop := -1, -1
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || c.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		lines := c.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			if start < 0 || seg.Start < start {
				start = seg.Start
			}
			if seg.Stop > stop {
				stop = seg.Stop
			}
		}
		return ast.WalkContinue, nil
	})
	if start < 0 {
		return ""
	}
	if i := bytes.LastIndexByte(b.src[:start], '\n'); i >= 0 {
		start = i + 1
	} else {
		start = 0
	}
	if stop > start && b.src[stop-1] == '\n' {
		stop--
	}
	if i := bytes.IndexByte(b.src[stop:], '\n'); i >= 0 {
		stop += i
	} else {
		stop = len(b.src)
	}
	return strings.TrimRight(string(b.src[start:stop]), "\n")
}

func attrString(v any) string {
	switch s := v.(type) {
	case []byte:
		return string(s)
	case string:
		return s
	}
	return fmt.Sprint(v)
}
