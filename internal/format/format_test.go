package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsHTML(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"html", true},
		{"HTML5", true},
		{"html5+smart", true},
		{"revealjs", true},
		{"epub3", true},
		{"html-revealjs", true},
		{"latex", false},
		{"pdf", false},
		{"docx", false},
		{"gfm", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, IsHTML(tt.target))
		})
	}
}

func TestDetailsOpen_EscapesSummary(t *testing.T) {
	open := DetailsOpen("C<++>")
	assert.True(t, strings.HasPrefix(open, "<details"))
	assert.Contains(t, open, "<summary>C&lt;++&gt;</summary>")
	assert.Equal(t, "</details>", DetailsClose())
}
