package markdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gubarz/codeappendix/internal/doc"
)

// Render writes d as markdown, front matter first when d has metadata
func Render(w io.Writer, d *doc.Document) error {
	var buf bytes.Buffer
	if len(d.Meta) > 0 {
		out, err := yaml.Marshal(map[string]any(d.Meta))
		if err != nil {
			return fmt.Errorf("encoding front matter: %w", err)
		}
		buf.WriteString("---\n")
		buf.Write(out)
		buf.WriteString("---\n\n")
	}
	writeBlocks(&buf, d.Blocks)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	return nil
}

// String renders d to a string, for previews
func String(d *doc.Document) string {
	var buf bytes.Buffer
	_ = Render(&buf, d)
	return buf.String()
}

func writeBlocks(buf *bytes.Buffer, blocks []doc.Block) {
	for _, b := range blocks {
		if writeBlock(buf, b) {
			buf.WriteString("\n")
		}
	}
}

// writeBlock reports whether anything was written
func writeBlock(buf *bytes.Buffer, b doc.Block) bool {
	switch n := b.(type) {
	case *doc.Header:
		buf.WriteString(strings.Repeat("#", clampLevel(n.Level)))
		buf.WriteString(" ")
		buf.WriteString(inlines(n.Inlines))
		if n.Attr.ID != "" || len(n.Attr.Classes) > 0 {
			buf.WriteString(" ")
			buf.WriteString(formatAttr(doc.Attr{ID: n.Attr.ID, Classes: n.Attr.Classes}))
		}
		buf.WriteString("\n")

	case *doc.Para:
		buf.WriteString(inlines(n.Inlines))
		buf.WriteString("\n")

	case *doc.Plain:
		buf.WriteString(inlines(n.Inlines))
		buf.WriteString("\n")

	case *doc.CodeBlock:
		fence := fenceFor(n.Text)
		buf.WriteString(fence)
		buf.WriteString(infoString(n.Attr))
		buf.WriteString("\n")
		writeBody(buf, n.Text)
		buf.WriteString(fence)
		buf.WriteString("\n")

	case *doc.Div:
		buf.WriteString("::: ")
		buf.WriteString(formatAttr(n.Attr))
		buf.WriteString("\n\n")
		writeBlocks(buf, n.Blocks)
		buf.WriteString(":::\n")

	case *doc.HorizontalRule:
		buf.WriteString("* * *\n")

	case *doc.RawBlock:
		if n.Format == "html" {
			writeBody(buf, n.Text)
			break
		}
		fence := fenceFor(n.Text)
		buf.WriteString(fence + "{=" + n.Format + "}\n")
		writeBody(buf, n.Text)
		buf.WriteString(fence + "\n")

	case *doc.Opaque:
		s, ok := n.Payload.(string)
		if !ok {
			return false
		}
		writeBody(buf, s)

	default:
		return false
	}
	return true
}

func writeBody(buf *bytes.Buffer, s string) {
	buf.WriteString(s)
	if !strings.HasSuffix(s, "\n") {
		buf.WriteString("\n")
	}
}

func inlines(ins []doc.Inline) string {
	var sb strings.Builder
	for _, in := range ins {
		switch n := in.(type) {
		case *doc.Str:
			sb.WriteString(n.Text)
		case *doc.Space:
			sb.WriteString(" ")
		case *doc.SoftBreak:
			sb.WriteString("\n")
		case *doc.Code:
			tick := "`"
			for strings.Contains(n.Text, tick) {
				tick += "`"
			}
			sb.WriteString(tick + n.Text + tick)
		case *doc.RawInline:
			sb.WriteString(n.Text)
		}
	}
	return sb.String()
}

// infoString uses the short form when the block has a single class only
func infoString(attr doc.Attr) string {
	switch {
	case attr.ID == "" && len(attr.KVs) == 0 && len(attr.Classes) == 0:
		return ""
	case attr.ID == "" && len(attr.KVs) == 0 && len(attr.Classes) == 1:
		return attr.Classes[0]
	}
	return formatAttr(attr)
}

// fenceFor returns a backtick fence longer than any run inside s
func fenceFor(s string) string {
	fence := "```"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	return fence
}

func clampLevel(level int) int {
	switch {
	case level < 1:
		return 1
	case level > 6:
		return 6
	}
	return level
}
