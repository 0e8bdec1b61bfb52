package pandoc

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gubarz/codeappendix/internal/doc"
)

const sample = `{
  "pandoc-api-version": [1, 23, 1],
  "meta": {
    "code-appendix": {"t": "MetaMap", "c": {
      "group-by-language": {"t": "MetaBool", "c": true},
      "appendix-level": {"t": "MetaInlines", "c": [{"t": "Str", "c": "2"}]},
      "languages": {"t": "MetaList", "c": [{"t": "MetaString", "c": "r"}]}
    }},
    "title": {"t": "MetaInlines", "c": [{"t": "Str", "c": "Quarterly"}, {"t": "Space"}, {"t": "Str", "c": "Report"}]}
  },
  "blocks": [
    {"t": "Header", "c": [1, ["intro", [], []], [{"t": "Str", "c": "Intro"}, {"t": "Space"}, {"t": "Emph", "c": [{"t": "Str", "c": "now"}]}]]},
    {"t": "Div", "c": [["", ["cell"], [["filename", "a.py"]]], [
      {"t": "CodeBlock", "c": [["", ["python", "cell-code"], []], "print(1)"]},
      {"t": "Div", "c": [["", ["cell-output", "cell-output-stdout"], []], [{"t": "CodeBlock", "c": [["", [], []], "1"]}]]}
    ]]},
    {"t": "BulletList", "c": [[{"t": "Plain", "c": [{"t": "Str", "c": "item"}]}]]},
    {"t": "HorizontalRule"},
    {"t": "RawBlock", "c": ["html", "<br>"]},
    {"t": "Para", "c": [{"t": "Code", "c": [["", [], []], "x <- 1"]}, {"t": "SoftBreak"}, {"t": "RawInline", "c": ["tex", "\\LaTeX"]}]}
  ]
}`

func TestRead(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 23, 1}, f.APIVersion)
	require.Len(t, f.Doc.Blocks, 6)

	h, ok := f.Doc.Blocks[0].(*doc.Header)
	require.True(t, ok)
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, "intro", h.Attr.ID)
	assert.IsType(t, &doc.OpaqueInline{}, h.Inlines[2])

	cell, ok := f.Doc.Blocks[1].(*doc.Div)
	require.True(t, ok)
	assert.True(t, cell.Attr.HasClass("cell"))
	name, _ := cell.Attr.Get("filename")
	assert.Equal(t, "a.py", name)
	require.Len(t, cell.Blocks, 2)
	assert.Equal(t, "print(1)", cell.Blocks[0].(*doc.CodeBlock).Text)

	list, ok := f.Doc.Blocks[2].(*doc.Opaque)
	require.True(t, ok)
	assert.Equal(t, "BulletList", list.Tag)

	assert.IsType(t, &doc.HorizontalRule{}, f.Doc.Blocks[3])
	assert.Equal(t, &doc.RawBlock{Format: "html", Text: "<br>"}, f.Doc.Blocks[4])
}

func TestRead_Meta(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "Quarterly Report", f.Doc.Meta["title"])
	assert.Equal(t, map[string]any{
		"group-by-language": true,
		"appendix-level":    "2",
		"languages":         []any{"r"},
	}, f.Doc.Meta["code-appendix"])
}

func TestRead_MetaInlinesKeepFormattedText(t *testing.T) {
	in := `{"pandoc-api-version":[1,23],"meta":{
	  "code-appendix":{"t":"MetaMap","c":{"appendix-title":{"t":"MetaInlines","c":[
	    {"t":"Str","c":"Code"},{"t":"Space"},
	    {"t":"Emph","c":[{"t":"Str","c":"Appendix"}]},{"t":"Space"},
	    {"t":"Span","c":[["",[],[]],[{"t":"Strong","c":[{"t":"Str","c":"One"}]}]]},
	    {"t":"Note","c":[]}
	  ]}}}},"blocks":[]}`

	f, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	section, ok := f.Doc.Meta["code-appendix"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Code Appendix One", section["appendix-title"])
}

func TestRoundTrip(t *testing.T) {
	f, err := Read(strings.NewReader(sample))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f))
	assert.JSONEq(t, sample, buf.String())
}

func TestWrite_AppendedBlocks(t *testing.T) {
	f, err := Read(strings.NewReader(`{"pandoc-api-version":[1,22],"meta":{},"blocks":[]}`))
	require.NoError(t, err)

	d := &doc.Document{Meta: f.Doc.Meta, Blocks: []doc.Block{
		&doc.Div{
			Attr: doc.Attr{Classes: []string{"appendix", "code-appendix"}},
			Blocks: []doc.Block{
				&doc.HorizontalRule{},
				&doc.Header{Level: 2, Inlines: doc.Words("Code Appendix")},
				&doc.RawBlock{Format: "html", Text: "<details>"},
			},
		},
	}}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f.WithDoc(d)))
	assert.JSONEq(t, `{
	  "pandoc-api-version": [1, 22],
	  "meta": {},
	  "blocks": [{"t": "Div", "c": [["", ["appendix", "code-appendix"], []], [
	    {"t": "HorizontalRule"},
	    {"t": "Header", "c": [2, ["", [], []], [{"t": "Str", "c": "Code"}, {"t": "Space"}, {"t": "Str", "c": "Appendix"}]]},
	    {"t": "RawBlock", "c": ["html", "<details>"]}
	  ]]}]
	}`, buf.String())
	assert.Contains(t, buf.String(), `"<details>"`)
}

func TestWrite_NewFileEncodesMeta(t *testing.T) {
	d := &doc.Document{
		Meta: doc.Meta{
			"title":         "Notes",
			"code-appendix": map[string]any{"number-blocks": true, "appendix-level": 2},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, NewFile(d)))

	f, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Notes", f.Doc.Meta["title"])
	assert.Equal(t, map[string]any{"number-blocks": true, "appendix-level": "2"}, f.Doc.Meta["code-appendix"])
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"not json", `pandoc`, ErrMalformed},
		{"missing version", `{"meta":{},"blocks":[]}`, ErrMalformed},
		{"missing blocks", `{"pandoc-api-version":[1,23]}`, ErrMalformed},
		{"future major", `{"pandoc-api-version":[2,0],"meta":{},"blocks":[]}`, ErrUnsupportedVersion},
		{"bad attr", `{"pandoc-api-version":[1,23],"meta":{},"blocks":[{"t":"CodeBlock","c":[["",[]],"x"]}]}`, ErrMalformed},
		{"untagged block", `{"pandoc-api-version":[1,23],"meta":{},"blocks":[{"c":[]}]}`, ErrMalformed},
		{"bad raw block", `{"pandoc-api-version":[1,23],"meta":{},"blocks":[{"t":"RawBlock","c":["html"]}]}`, ErrMalformed},
		{"unknown meta", `{"pandoc-api-version":[1,23],"meta":{"x":{"t":"MetaThing","c":1}},"blocks":[]}`, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}
