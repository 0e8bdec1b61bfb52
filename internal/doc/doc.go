package doc

import "strings"

// Kind identifies the variant of a Block
type Kind int

const (
	KindHeader Kind = iota
	KindPara
	KindPlain
	KindCodeBlock
	KindDiv
	KindHorizontalRule
	KindRawBlock
	KindOpaque
)

var kindNames = [...]string{
	KindHeader:         "Header",
	KindPara:           "Para",
	KindPlain:          "Plain",
	KindCodeBlock:      "CodeBlock",
	KindDiv:            "Div",
	KindHorizontalRule: "HorizontalRule",
	KindRawBlock:       "RawBlock",
	KindOpaque:         "Opaque",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Document is a parsed document: front-matter metadata plus top-level blocks
type Document struct {
	Meta   Meta
	Blocks []Block
}

// Meta holds document metadata as plain Go values (bool, string, numbers,
// []any, map[string]any), independent of the wire format it came from.
type Meta map[string]any

// Block is a block-level node. The set of implementations is closed.
type Block interface {
	Kind() Kind
	block()
}

// Header is a section heading
type Header struct {
	Level   int
	Attr    Attr
	Inlines []Inline
}

// Para is a paragraph
type Para struct {
	Inlines []Inline
}

// Plain is unwrapped inline content (e.g. a tight list item)
type Plain struct {
	Inlines []Inline
}

// CodeBlock is a literal code block. Classes carry the language tag.
type CodeBlock struct {
	Attr Attr
	Text string
}

// Div is a generic container identified by its classes
type Div struct {
	Attr   Attr
	Blocks []Block
}

// HorizontalRule is a thematic break
type HorizontalRule struct{}

// RawBlock is markup passed through verbatim to a specific output format
type RawBlock struct {
	Format string
	Text   string
}

// Opaque carries a node kind nothing in this module inspects. Payload is
// owned by the codec that produced it and is written back unchanged.
type Opaque struct {
	Tag     string
	Payload any
}

func (*Header) Kind() Kind         { return KindHeader }
func (*Para) Kind() Kind           { return KindPara }
func (*Plain) Kind() Kind          { return KindPlain }
func (*CodeBlock) Kind() Kind      { return KindCodeBlock }
func (*Div) Kind() Kind            { return KindDiv }
func (*HorizontalRule) Kind() Kind { return KindHorizontalRule }
func (*RawBlock) Kind() Kind       { return KindRawBlock }
func (*Opaque) Kind() Kind         { return KindOpaque }

func (*Header) block()         {}
func (*Para) block()           {}
func (*Plain) block()          {}
func (*CodeBlock) block()      {}
func (*Div) block()            {}
func (*HorizontalRule) block() {}
func (*RawBlock) block()       {}
func (*Opaque) block()         {}

// KV is one key/value attribute pair
type KV struct {
	Key   string
	Value string
}

// Attr is the identifier, classes and key/value pairs attached to a node
type Attr struct {
	ID      string
	Classes []string
	KVs     []KV
}

// HasClass reports whether c is one of the classes
func (a Attr) HasClass(c string) bool {
	for _, cl := range a.Classes {
		if cl == c {
			return true
		}
	}
	return false
}

// HasClassPrefix reports whether any class starts with prefix
func (a Attr) HasClassPrefix(prefix string) bool {
	for _, cl := range a.Classes {
		if strings.HasPrefix(cl, prefix) {
			return true
		}
	}
	return false
}

// Get returns the value for key and whether it was present
func (a Attr) Get(key string) (string, bool) {
	for _, kv := range a.KVs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}
