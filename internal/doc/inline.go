package doc

import "strings"

// Inline is an inline node. The set of implementations is closed.
type Inline interface {
	inline()
}

// Str is a run of text without whitespace
type Str struct {
	Text string
}

// Space is inter-word space
type Space struct{}

// SoftBreak is a line break inside a paragraph
type SoftBreak struct{}

// Code is inline code
type Code struct {
	Attr Attr
	Text string
}

// RawInline is inline markup for a specific output format
type RawInline struct {
	Format string
	Text   string
}

// OpaqueInline carries an inline kind nothing here inspects
type OpaqueInline struct {
	Tag     string
	Payload any
}

func (*Str) inline()          {}
func (*Space) inline()        {}
func (*SoftBreak) inline()    {}
func (*Code) inline()         {}
func (*RawInline) inline()    {}
func (*OpaqueInline) inline() {}

// Words splits s on whitespace into Str tokens separated by Space
func Words(s string) []Inline {
	fields := strings.Fields(s)
	out := make([]Inline, 0, len(fields)*2)
	for i, f := range fields {
		if i > 0 {
			out = append(out, &Space{})
		}
		out = append(out, &Str{Text: f})
	}
	return out
}

// Text flattens inlines to plain text
func Text(inlines []Inline) string {
	var b strings.Builder
	for _, in := range inlines {
		switch n := in.(type) {
		case *Str:
			b.WriteString(n.Text)
		case *Space:
			b.WriteByte(' ')
		case *SoftBreak:
			b.WriteByte('\n')
		case *Code:
			b.WriteString(n.Text)
		case *RawInline, *OpaqueInline:
		}
	}
	return b.String()
}
