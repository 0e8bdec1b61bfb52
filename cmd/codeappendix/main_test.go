package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const latexNotebook = `{
  "pandoc-api-version": [1, 23, 1],
  "meta": {
    "quarto-format": {"t": "MetaString", "c": "latex"},
    "code-appendix": {"t": "MetaMap", "c": {
      "group-by-language": {"t": "MetaBool", "c": true},
      "collapsible": {"t": "MetaBool", "c": true}
    }}
  },
  "blocks": [
    {"t": "CodeBlock", "c": [["", ["python"], []], "print(1)"]}
  ]
}`

func TestFilterCommand_TargetPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(latexNotebook), 0o644))

	tests := []struct {
		name    string
		args    []string
		details bool
	}{
		{"to flag beats quarto-format", []string{"filter", "--to", "html", "--input", path}, true},
		{"positional format beats to flag", []string{"filter", "latex", "--to", "html", "--input", path}, false},
		{"quarto-format without flag", []string{"filter", "--to", "", "--input", path}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			rootCmd.SetOut(&out)
			rootCmd.SetArgs(tt.args)
			t.Cleanup(func() { rootCmd.SetOut(nil) })

			require.NoError(t, rootCmd.Execute())
			assert.Equal(t, tt.details, bytes.Contains(out.Bytes(), []byte("<details")))
			assert.Contains(t, out.String(), "print(1)")
		})
	}
}
