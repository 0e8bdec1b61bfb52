package pandoc

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/gubarz/codeappendix/internal/doc"
)

// NewFile wraps a document that did not come from Read
func NewFile(d *doc.Document) *File {
	return &File{APIVersion: DefaultAPIVersion, Doc: d}
}

// WithDoc returns a copy of f carrying d, keeping f's version and metadata
func (f *File) WithDoc(d *doc.Document) *File {
	c := *f
	c.Doc = d
	return &c
}

type outNode struct {
	T string `json:"t"`
	C any    `json:"c,omitempty"`
}

type outEnvelope struct {
	APIVersion []int `json:"pandoc-api-version"`
	Meta       any   `json:"meta"`
	Blocks     []any `json:"blocks"`
}

// Write encodes f as pandoc JSON. Metadata read from pandoc is written back
// byte for byte; otherwise Doc.Meta is encoded.
func Write(w io.Writer, f *File) error {
	var meta any = f.meta
	if f.meta == nil {
		meta = encodeMetaMap(f.Doc.Meta)
	}
	version := f.APIVersion
	if len(version) == 0 {
		version = DefaultAPIVersion
	}

	env := outEnvelope{
		APIVersion: version,
		Meta:       meta,
		Blocks:     encodeBlocks(f.Doc.Blocks),
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(env); err != nil {
		return fmt.Errorf("encoding pandoc JSON: %w", err)
	}
	return nil
}

func encodeBlocks(blocks []doc.Block) []any {
	out := make([]any, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, encodeBlock(b))
	}
	return out
}

func encodeBlock(b doc.Block) any {
	switch n := b.(type) {
	case *doc.Header:
		return outNode{"Header", []any{n.Level, encodeAttr(n.Attr), encodeInlines(n.Inlines)}}
	case *doc.Para:
		return outNode{"Para", encodeInlines(n.Inlines)}
	case *doc.Plain:
		return outNode{"Plain", encodeInlines(n.Inlines)}
	case *doc.CodeBlock:
		return outNode{"CodeBlock", []any{encodeAttr(n.Attr), n.Text}}
	case *doc.Div:
		return outNode{"Div", []any{encodeAttr(n.Attr), encodeBlocks(n.Blocks)}}
	case *doc.HorizontalRule:
		return outNode{T: "HorizontalRule"}
	case *doc.RawBlock:
		return outNode{"RawBlock", []string{n.Format, n.Text}}
	case *doc.Opaque:
		if raw, ok := n.Payload.(json.RawMessage); ok {
			return raw
		}
		return outNode{n.Tag, n.Payload}
	}
	// nil slot: an empty Plain keeps the output valid
	return outNode{"Plain", []any{}}
}

func encodeInlines(inlines []doc.Inline) []any {
	out := make([]any, 0, len(inlines))
	for _, in := range inlines {
		switch n := in.(type) {
		case *doc.Str:
			out = append(out, outNode{"Str", n.Text})
		case *doc.Space:
			out = append(out, outNode{T: "Space"})
		case *doc.SoftBreak:
			out = append(out, outNode{T: "SoftBreak"})
		case *doc.Code:
			out = append(out, outNode{"Code", []any{encodeAttr(n.Attr), n.Text}})
		case *doc.RawInline:
			out = append(out, outNode{"RawInline", []string{n.Format, n.Text}})
		case *doc.OpaqueInline:
			if raw, ok := n.Payload.(json.RawMessage); ok {
				out = append(out, raw)
			} else {
				out = append(out, outNode{n.Tag, n.Payload})
			}
		}
	}
	return out
}

func encodeAttr(a doc.Attr) []any {
	classes := a.Classes
	if classes == nil {
		classes = []string{}
	}
	kvs := make([][]string, 0, len(a.KVs))
	for _, kv := range a.KVs {
		kvs = append(kvs, []string{kv.Key, kv.Value})
	}
	return []any{a.ID, classes, kvs}
}

func encodeMetaMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = encodeMetaValue(v)
	}
	return out
}

func encodeMetaValue(v any) any {
	switch val := v.(type) {
	case bool:
		return outNode{"MetaBool", val}
	case string:
		return outNode{"MetaString", val}
	case int:
		return outNode{"MetaString", strconv.Itoa(val)}
	case float64:
		return outNode{"MetaString", strconv.FormatFloat(val, 'f', -1, 64)}
	case []any:
		items := make([]any, 0, len(val))
		for _, item := range val {
			items = append(items, encodeMetaValue(item))
		}
		return outNode{"MetaList", items}
	case map[string]any:
		return outNode{"MetaMap", encodeMetaMap(val)}
	case doc.Meta:
		return outNode{"MetaMap", encodeMetaMap(val)}
	case nil:
		return outNode{"MetaString", ""}
	}
	return outNode{"MetaString", fmt.Sprint(v)}
}
