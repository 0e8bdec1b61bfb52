package appendix

import "github.com/gubarz/codeappendix/internal/doc"

const (
	cellClass         = "cell"
	cellCodeClass     = "cell-code"
	cellOutputPrefix  = "cell-output"
	includeAttr       = "appendix"
	filenameAttr      = "filename"
	appendixClass     = "appendix"
	codeAppendixClass = "code-appendix"
)

// IsCellContainer reports whether b is a Div tagged "cell"
func IsCellContainer(b doc.Block) bool {
	d, ok := b.(*doc.Div)
	return ok && d.Attr.HasClass(cellClass)
}

// IsOutputContainer reports whether b is a Div with a "cell-output*" class
func IsOutputContainer(b doc.Block) bool {
	d, ok := b.(*doc.Div)
	return ok && d.Attr.HasClassPrefix(cellOutputPrefix)
}

// IsIncluded is false only when the block carries appendix="false" or
// appendix="no". The comparison is case-sensitive.
func IsIncluded(b doc.Block) bool {
	attr, ok := attrOf(b)
	if !ok {
		return true
	}
	v, ok := attr.Get(includeAttr)
	if !ok {
		return true
	}
	return v != "false" && v != "no"
}

// FilenameOf returns the block's filename attribute, if any
func FilenameOf(b doc.Block) (string, bool) {
	attr, ok := attrOf(b)
	if !ok {
		return "", false
	}
	return attr.Get(filenameAttr)
}

// IsStandaloneCode reports whether b is a code block with at least one class
func IsStandaloneCode(b doc.Block) bool {
	c, ok := b.(*doc.CodeBlock)
	return ok && len(c.Attr.Classes) > 0
}

// cellLanguage returns the first class other than "cell-code"
func cellLanguage(c *doc.CodeBlock) string {
	for _, cl := range c.Attr.Classes {
		if cl != cellCodeClass {
			return cl
		}
	}
	return DefaultLanguage
}

func attrOf(b doc.Block) (doc.Attr, bool) {
	switch n := b.(type) {
	case *doc.Header:
		return n.Attr, true
	case *doc.CodeBlock:
		return n.Attr, true
	case *doc.Div:
		return n.Attr, true
	case *doc.Para, *doc.Plain, *doc.HorizontalRule, *doc.RawBlock, *doc.Opaque:
		return doc.Attr{}, false
	}
	return doc.Attr{}, false
}
