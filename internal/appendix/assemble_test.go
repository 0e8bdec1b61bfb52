package appendix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gubarz/codeappendix/internal/config"
	"github.com/gubarz/codeappendix/internal/doc"
)

func entry(text, lang string, results ...string) Entry {
	e := Entry{Code: code(text, lang), Language: lang, Origin: Standalone}
	for _, r := range results {
		e.Results = append(e.Results, output(r))
	}
	return e
}

func TestNewAssembler(t *testing.T) {
	opts := config.Defaults()
	assert.IsType(t, &Sequential{}, NewAssembler(opts, false))

	opts.GroupByLanguage = true
	assert.IsType(t, &Grouped{}, NewAssembler(opts, true))
}

func TestSequential_Assemble(t *testing.T) {
	named := entry("b", "text", "out-b")
	named.Filename = "b.txt"
	entries := []Entry{entry("a", "python", "out-a1", "out-a2"), named}

	tests := []struct {
		name   string
		modify func(*config.Options)
		want   []string
	}{
		{
			name:   "defaults",
			modify: func(*config.Options) {},
			want:   []string{"code:a", "output:out-a1", "output:out-a2", "para:File: b.txt", "code:b", "output:out-b"},
		},
		{
			name: "numbered",
			modify: func(o *config.Options) {
				o.NumberBlocks = true
				o.ShowFilename = false
			},
			want: []string{
				"para:Code Block 1 (python)", "code:a", "output:out-a1", "output:out-a2",
				"para:Code Block 2", "code:b", "output:out-b",
			},
		},
		{
			name:   "without results",
			modify: func(o *config.Options) { o.ShowOutputResults = false },
			want:   []string{"code:a", "para:File: b.txt", "code:b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := config.Defaults()
			tt.modify(&opts)
			got := (&Sequential{Options: opts}).Assemble(entries)
			assert.Equal(t, tt.want, texts(got))
		})
	}
}

func TestSequential_CodeNodeIdentity(t *testing.T) {
	e := entry("a", "go")
	got := (&Sequential{Options: config.Defaults()}).Assemble([]Entry{e})
	assert.Same(t, e.Code, got[0])
}

func TestGrouped_Assemble(t *testing.T) {
	entries := []Entry{
		entry("r1", "r", "r1-out"),
		entry("py1", "python", "py1-out1", "py1-out2"),
		entry("r2", "r"),
		entry("Py", "Python"),
	}
	opts := config.Defaults()
	opts.GroupByLanguage = true
	opts.NumberBlocks = true

	got := (&Grouped{Options: opts}).Assemble(entries)

	// "Python" < "python" < "r" byte-wise; numbering continues across groups
	assert.Equal(t, []string{
		"header:Python",
		"para:Code Block 1 (Python)", "code:Py",
		"header:Python",
		"para:Code Block 2 (python)", "code:py1", "output:py1-out1", "output:py1-out2",
		"header:R",
		"para:Code Block 3 (r)", "code:r1", "output:r1-out",
		"para:Code Block 4 (r)", "code:r2",
	}, texts(got))
}

func TestGrouped_HeadingLevel(t *testing.T) {
	tests := []struct {
		level int
		want  int
	}{
		{1, 2},
		{3, 4},
		{6, 6},
	}

	for _, tt := range tests {
		opts := config.Defaults()
		opts.GroupByLanguage = true
		opts.AppendixLevel = tt.level

		got := (&Grouped{Options: opts}).Assemble([]Entry{entry("a", "go")})
		header, ok := got[0].(*doc.Header)
		require.True(t, ok)
		assert.Equal(t, tt.want, header.Level)
		assert.Equal(t, "Go", doc.Text(header.Inlines))
	}
}

func TestGrouped_Collapsible(t *testing.T) {
	opts := config.Defaults()
	opts.GroupByLanguage = true
	opts.Collapsible = true
	entries := []Entry{entry("a", "python"), entry("b", "bash")}

	html := (&Grouped{Options: opts, HTML: true}).Assemble(entries)
	assert.Equal(t, []string{
		"raw:<details class=\"code-appendix-group\">\n<summary>Bash</summary>", "code:b", "raw:</details>",
		"raw:<details class=\"code-appendix-group\">\n<summary>Python</summary>", "code:a", "raw:</details>",
	}, texts(html))

	latex := (&Grouped{Options: opts, HTML: false}).Assemble(entries)
	assert.Equal(t, []string{"header:Bash", "code:b", "header:Python", "code:a"}, texts(latex))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Python", capitalize("python"))
	assert.Equal(t, "CPP", capitalize("cPP"))
	assert.Equal(t, "Élan", capitalize("élan"))
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "1c", capitalize("1c"))
}
