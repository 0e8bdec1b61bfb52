package appendix

import "github.com/gubarz/codeappendix/internal/doc"

func code(text string, classes ...string) *doc.CodeBlock {
	return &doc.CodeBlock{Attr: doc.Attr{Classes: classes}, Text: text}
}

func withKV(c *doc.CodeBlock, key, value string) *doc.CodeBlock {
	c.Attr.KVs = append(c.Attr.KVs, doc.KV{Key: key, Value: value})
	return c
}

func cell(kvs []doc.KV, children ...doc.Block) *doc.Div {
	return &doc.Div{Attr: doc.Attr{Classes: []string{"cell"}, KVs: kvs}, Blocks: children}
}

func output(text string) *doc.Div {
	return &doc.Div{
		Attr:   doc.Attr{Classes: []string{"cell-output", "cell-output-stdout"}},
		Blocks: []doc.Block{&doc.CodeBlock{Text: text}},
	}
}

func para(s string) *doc.Para {
	return &doc.Para{Inlines: doc.Words(s)}
}

// texts flattens the appendix body into comparable strings
func texts(blocks []doc.Block) []string {
	var out []string
	for _, b := range blocks {
		switch n := b.(type) {
		case *doc.Para:
			out = append(out, "para:"+doc.Text(n.Inlines))
		case *doc.Header:
			out = append(out, "header:"+doc.Text(n.Inlines))
		case *doc.CodeBlock:
			out = append(out, "code:"+n.Text)
		case *doc.Div:
			if len(n.Blocks) == 1 {
				if c, ok := n.Blocks[0].(*doc.CodeBlock); ok {
					out = append(out, "output:"+c.Text)
					continue
				}
			}
			out = append(out, "div")
		case *doc.RawBlock:
			out = append(out, "raw:"+n.Text)
		case *doc.HorizontalRule:
			out = append(out, "hr")
		default:
			out = append(out, b.Kind().String())
		}
	}
	return out
}
