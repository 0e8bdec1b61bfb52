// Package pandoc reads and writes the pandoc JSON AST, the format pandoc
// exchanges with filters on stdin and stdout.
package pandoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gubarz/codeappendix/internal/doc"
)

var (
	// ErrMalformed is returned for input that is not a pandoc JSON document
	ErrMalformed = errors.New("malformed pandoc JSON")
	// ErrUnsupportedVersion is returned for an API major version other than 1
	ErrUnsupportedVersion = errors.New("unsupported pandoc API version")
)

// DefaultAPIVersion is written when a document did not come from pandoc
var DefaultAPIVersion = []int{1, 23, 1}

// File is a pandoc JSON document. The original metadata is kept verbatim
// so it round-trips exactly; Doc.Meta is a plain-value view of it.
type File struct {
	APIVersion []int
	Doc        *doc.Document

	meta json.RawMessage
}

type envelope struct {
	APIVersion []int           `json:"pandoc-api-version"`
	Meta       json.RawMessage `json:"meta"`
	Blocks     json.RawMessage `json:"blocks"`
}

type node struct {
	T string          `json:"t"`
	C json.RawMessage `json:"c,omitempty"`
}

// Read decodes a pandoc JSON document
func Read(r io.Reader) (*File, error) {
	var env envelope
	dec := json.NewDecoder(r)
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(env.APIVersion) == 0 || env.Blocks == nil {
		return nil, fmt.Errorf("%w: missing pandoc-api-version or blocks", ErrMalformed)
	}
	if env.APIVersion[0] != 1 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedVersion, env.APIVersion)
	}

	blocks, err := decodeBlocks(env.Blocks)
	if err != nil {
		return nil, err
	}
	meta, err := decodeMeta(env.Meta)
	if err != nil {
		return nil, err
	}

	return &File{
		APIVersion: env.APIVersion,
		Doc:        &doc.Document{Meta: meta, Blocks: blocks},
		meta:       env.Meta,
	}, nil
}

func malformed(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMalformed, what, err)
}

func decodeBlocks(raw json.RawMessage) ([]doc.Block, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, malformed("block list", err)
	}
	blocks := make([]doc.Block, 0, len(items))
	for _, item := range items {
		b, err := decodeBlock(item)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func decodeBlock(raw json.RawMessage) (doc.Block, error) {
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, malformed("block", err)
	}

	switch n.T {
	case "Header":
		var parts []json.RawMessage
		if err := unmarshalN(n.C, &parts, 3); err != nil {
			return nil, malformed("Header", err)
		}
		h := &doc.Header{}
		if err := json.Unmarshal(parts[0], &h.Level); err != nil {
			return nil, malformed("Header level", err)
		}
		attr, err := decodeAttr(parts[1])
		if err != nil {
			return nil, err
		}
		h.Attr = attr
		if h.Inlines, err = decodeInlines(parts[2]); err != nil {
			return nil, err
		}
		return h, nil
	case "Para":
		inlines, err := decodeInlines(n.C)
		if err != nil {
			return nil, err
		}
		return &doc.Para{Inlines: inlines}, nil
	case "Plain":
		inlines, err := decodeInlines(n.C)
		if err != nil {
			return nil, err
		}
		return &doc.Plain{Inlines: inlines}, nil
	case "CodeBlock":
		var parts []json.RawMessage
		if err := unmarshalN(n.C, &parts, 2); err != nil {
			return nil, malformed("CodeBlock", err)
		}
		attr, err := decodeAttr(parts[0])
		if err != nil {
			return nil, err
		}
		cb := &doc.CodeBlock{Attr: attr}
		if err := json.Unmarshal(parts[1], &cb.Text); err != nil {
			return nil, malformed("CodeBlock text", err)
		}
		return cb, nil
	case "Div":
		var parts []json.RawMessage
		if err := unmarshalN(n.C, &parts, 2); err != nil {
			return nil, malformed("Div", err)
		}
		attr, err := decodeAttr(parts[0])
		if err != nil {
			return nil, err
		}
		children, err := decodeBlocks(parts[1])
		if err != nil {
			return nil, err
		}
		return &doc.Div{Attr: attr, Blocks: children}, nil
	case "HorizontalRule":
		return &doc.HorizontalRule{}, nil
	case "RawBlock":
		format, text, err := decodePair(n.C)
		if err != nil {
			return nil, malformed("RawBlock", err)
		}
		return &doc.RawBlock{Format: format, Text: text}, nil
	case "":
		return nil, malformed("block", errors.New("missing tag"))
	}

	return &doc.Opaque{Tag: n.T, Payload: raw}, nil
}

func decodeInlines(raw json.RawMessage) ([]doc.Inline, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, malformed("inline list", err)
	}
	inlines := make([]doc.Inline, 0, len(items))
	for _, item := range items {
		in, err := decodeInline(item)
		if err != nil {
			return nil, err
		}
		inlines = append(inlines, in)
	}
	return inlines, nil
}

func decodeInline(raw json.RawMessage) (doc.Inline, error) {
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, malformed("inline", err)
	}

	switch n.T {
	case "Str":
		s := &doc.Str{}
		if err := json.Unmarshal(n.C, &s.Text); err != nil {
			return nil, malformed("Str", err)
		}
		return s, nil
	case "Space":
		return &doc.Space{}, nil
	case "SoftBreak":
		return &doc.SoftBreak{}, nil
	case "Code":
		var parts []json.RawMessage
		if err := unmarshalN(n.C, &parts, 2); err != nil {
			return nil, malformed("Code", err)
		}
		attr, err := decodeAttr(parts[0])
		if err != nil {
			return nil, err
		}
		c := &doc.Code{Attr: attr}
		if err := json.Unmarshal(parts[1], &c.Text); err != nil {
			return nil, malformed("Code text", err)
		}
		return c, nil
	case "RawInline":
		format, text, err := decodePair(n.C)
		if err != nil {
			return nil, malformed("RawInline", err)
		}
		return &doc.RawInline{Format: format, Text: text}, nil
	case "":
		return nil, malformed("inline", errors.New("missing tag"))
	}

	return &doc.OpaqueInline{Tag: n.T, Payload: raw}, nil
}

func decodeAttr(raw json.RawMessage) (doc.Attr, error) {
	var parts []json.RawMessage
	if err := unmarshalN(raw, &parts, 3); err != nil {
		return doc.Attr{}, malformed("Attr", err)
	}
	var a doc.Attr
	if err := json.Unmarshal(parts[0], &a.ID); err != nil {
		return doc.Attr{}, malformed("Attr id", err)
	}
	if err := json.Unmarshal(parts[1], &a.Classes); err != nil {
		return doc.Attr{}, malformed("Attr classes", err)
	}
	var kvs [][]string
	if err := json.Unmarshal(parts[2], &kvs); err != nil {
		return doc.Attr{}, malformed("Attr key/values", err)
	}
	for _, kv := range kvs {
		if len(kv) != 2 {
			return doc.Attr{}, malformed("Attr key/values", fmt.Errorf("pair of length %d", len(kv)))
		}
		a.KVs = append(a.KVs, doc.KV{Key: kv[0], Value: kv[1]})
	}
	return a, nil
}

func decodePair(raw json.RawMessage) (string, string, error) {
	var parts []string
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", "", err
	}
	if len(parts) != 2 {
		return "", "", fmt.Errorf("expected 2 fields, got %d", len(parts))
	}
	return parts[0], parts[1], nil
}

func unmarshalN(raw json.RawMessage, parts *[]json.RawMessage, n int) error {
	if err := json.Unmarshal(raw, parts); err != nil {
		return err
	}
	if len(*parts) != n {
		return fmt.Errorf("expected %d fields, got %d", n, len(*parts))
	}
	return nil
}

// decodeMeta converts pandoc metadata into plain Go values. Inline and
// block values are flattened to their text.
func decodeMeta(raw json.RawMessage) (doc.Meta, error) {
	meta := doc.Meta{}
	if len(raw) == 0 || string(raw) == "null" {
		return meta, nil
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, malformed("meta", err)
	}
	for k, v := range entries {
		val, err := decodeMetaValue(v)
		if err != nil {
			return nil, err
		}
		meta[k] = val
	}
	return meta, nil
}

func decodeMetaValue(raw json.RawMessage) (any, error) {
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, malformed("meta value", err)
	}

	switch n.T {
	case "MetaMap":
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(n.C, &entries); err != nil {
			return nil, malformed("MetaMap", err)
		}
		m := make(map[string]any, len(entries))
		for k, v := range entries {
			val, err := decodeMetaValue(v)
			if err != nil {
				return nil, err
			}
			m[k] = val
		}
		return m, nil
	case "MetaList":
		var items []json.RawMessage
		if err := json.Unmarshal(n.C, &items); err != nil {
			return nil, malformed("MetaList", err)
		}
		list := make([]any, 0, len(items))
		for _, item := range items {
			val, err := decodeMetaValue(item)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		return list, nil
	case "MetaBool":
		var b bool
		if err := json.Unmarshal(n.C, &b); err != nil {
			return nil, malformed("MetaBool", err)
		}
		return b, nil
	case "MetaString":
		var s string
		if err := json.Unmarshal(n.C, &s); err != nil {
			return nil, malformed("MetaString", err)
		}
		return s, nil
	case "MetaInlines":
		inlines, err := decodeInlines(n.C)
		if err != nil {
			return nil, err
		}
		return metaText(inlines), nil
	case "MetaBlocks":
		blocks, err := decodeBlocks(n.C)
		if err != nil {
			return nil, err
		}
		return blocksText(blocks), nil
	}
	return nil, malformed("meta value", fmt.Errorf("unknown tag %q", n.T))
}

func blocksText(blocks []doc.Block) string {
	var parts []string
	for _, b := range blocks {
		switch n := b.(type) {
		case *doc.Para:
			parts = append(parts, metaText(n.Inlines))
		case *doc.Plain:
			parts = append(parts, metaText(n.Inlines))
		case *doc.CodeBlock:
			parts = append(parts, n.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// metaText flattens inlines to plain text, keeping the text inside
// formatting wrappers such as Emph or Span.
func metaText(inlines []doc.Inline) string {
	return doc.Text(unwrap(inlines))
}

func unwrap(inlines []doc.Inline) []doc.Inline {
	out := make([]doc.Inline, 0, len(inlines))
	for _, in := range inlines {
		o, ok := in.(*doc.OpaqueInline)
		if !ok {
			out = append(out, in)
			continue
		}
		out = append(out, unwrap(wrapped(o))...)
	}
	return out
}

// wrapped returns the inlines an opaque inline wraps, nil for leaf kinds
func wrapped(o *doc.OpaqueInline) []doc.Inline {
	raw, ok := o.Payload.(json.RawMessage)
	if !ok {
		return nil
	}
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}

	var inner json.RawMessage
	switch n.T {
	case "Emph", "Strong", "Underline", "Strikeout", "Superscript", "Subscript", "SmallCaps":
		inner = n.C
	case "Span", "Quoted", "Cite", "Link", "Image":
		// [attr|type|citations, inlines, ...]
		var parts []json.RawMessage
		if err := json.Unmarshal(n.C, &parts); err != nil || len(parts) < 2 {
			return nil
		}
		inner = parts[1]
	case "LineBreak":
		return []doc.Inline{&doc.SoftBreak{}}
	default:
		return nil
	}

	inlines, err := decodeInlines(inner)
	if err != nil {
		return nil
	}
	return inlines
}
