package appendix

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gubarz/codeappendix/internal/doc"
)

func TestIsCellContainer(t *testing.T) {
	assert.True(t, IsCellContainer(cell(nil)))
	assert.False(t, IsCellContainer(output("x")))
	assert.False(t, IsCellContainer(code("x", "cell")))
	assert.False(t, IsCellContainer(para("cell")))
}

func TestIsOutputContainer(t *testing.T) {
	assert.True(t, IsOutputContainer(output("x")))
	display := &doc.Div{Attr: doc.Attr{Classes: []string{"cell-output-display"}}}
	assert.True(t, IsOutputContainer(display))
	assert.False(t, IsOutputContainer(cell(nil)))
	assert.False(t, IsOutputContainer(code("x", "cell-output")))
}

func TestIsIncluded(t *testing.T) {
	tests := []struct {
		name  string
		value string
		set   bool
		want  bool
	}{
		{"absent", "", false, true},
		{"false", "false", true, false},
		{"no", "no", true, false},
		{"true", "true", true, true},
		{"case sensitive False", "False", true, true},
		{"case sensitive NO", "NO", true, true},
		{"empty value", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := code("print(1)", "python")
			if tt.set {
				withKV(c, "appendix", tt.value)
			}
			assert.Equal(t, tt.want, IsIncluded(c))
		})
	}

	assert.True(t, IsIncluded(para("text")))
	assert.True(t, IsIncluded(&doc.HorizontalRule{}))
}

func TestFilenameOf(t *testing.T) {
	name, ok := FilenameOf(withKV(code("x", "r"), "filename", "analysis.R"))
	assert.True(t, ok)
	assert.Equal(t, "analysis.R", name)

	_, ok = FilenameOf(code("x", "r"))
	assert.False(t, ok)

	_, ok = FilenameOf(para("x"))
	assert.False(t, ok)
}

func TestCellLanguage(t *testing.T) {
	assert.Equal(t, "python", cellLanguage(code("", "cell-code", "python")))
	assert.Equal(t, "r", cellLanguage(code("", "r", "cell-code")))
	assert.Equal(t, "text", cellLanguage(code("", "cell-code")))
}
