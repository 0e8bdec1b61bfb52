package markdown

import (
	"strings"

	"github.com/gubarz/codeappendix/internal/doc"
)

// parseInfo interprets a fence info string. Supported forms:
//
//	python
//	python {filename="app.py"}
//	{.python .cell-code filename="app.py"}
//	{python}
//	{=html}
//
// raw is non-empty for the {=format} raw-block form.
func parseInfo(info string) (attr doc.Attr, raw string) {
	info = strings.TrimSpace(info)
	if info == "" {
		return doc.Attr{}, ""
	}
	if strings.HasPrefix(info, "{=") && strings.HasSuffix(info, "}") {
		return doc.Attr{}, strings.TrimSpace(info[2 : len(info)-1])
	}
	if strings.HasPrefix(info, "{") {
		return parseAttr(info), ""
	}

	lang, rest, _ := strings.Cut(info, " ")
	attr = doc.Attr{Classes: []string{lang}}
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "{") {
		extra := parseAttr(rest)
		attr.ID = extra.ID
		attr.Classes = append(attr.Classes, extra.Classes...)
		attr.KVs = extra.KVs
	}
	return attr, ""
}

// parseAttr parses a pandoc attribute block: {#id .class key=value key="v w"}.
// Bare words are taken as classes.
func parseAttr(s string) doc.Attr {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")

	var attr doc.Attr
	for _, tok := range tokenize(s) {
		switch {
		case strings.HasPrefix(tok, "#"):
			attr.ID = tok[1:]
		case strings.HasPrefix(tok, "."):
			if tok != "." {
				attr.Classes = append(attr.Classes, tok[1:])
			}
		case strings.Contains(tok, "="):
			k, v, _ := strings.Cut(tok, "=")
			attr.KVs = append(attr.KVs, doc.KV{Key: k, Value: unquote(v)})
		default:
			attr.Classes = append(attr.Classes, tok)
		}
	}
	return attr
}

// tokenize splits on whitespace outside double or single quotes
func tokenize(s string) []string {
	var (
		tokens []string
		cur    strings.Builder
		quote  rune
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// formatAttr renders attr in {#id .class key="value"} form
func formatAttr(attr doc.Attr) string {
	var parts []string
	if attr.ID != "" {
		parts = append(parts, "#"+attr.ID)
	}
	for _, c := range attr.Classes {
		parts = append(parts, "."+c)
	}
	for _, kv := range attr.KVs {
		parts = append(parts, kv.Key+`="`+strings.ReplaceAll(kv.Value, `"`, `\"`)+`"`)
	}
	return "{" + strings.Join(parts, " ") + "}"
}
