// Package appendix collects code blocks and their execution output from a
// document and re-emits them as a consolidated appendix at its end.
package appendix

import "github.com/gubarz/codeappendix/internal/doc"

// DefaultLanguage is the language of code whose classes name none
const DefaultLanguage = "text"

// Origin records where a collected code block was found
type Origin int

const (
	FromCell   Origin = iota // primary code of a cell container
	Standalone               // classed code block in the top-level block stream
)

func (o Origin) String() string {
	if o == FromCell {
		return "cell"
	}
	return "standalone"
}

// Entry pairs one code block with the output containers that followed it.
// Code and Results are the document's own nodes, not copies.
type Entry struct {
	Code     *doc.CodeBlock
	Results  []*doc.Div
	Language string
	Origin   Origin
	Filename string

	// Source is the top-level block the code was found in: the cell
	// container, or the code block itself.
	Source doc.Block
}
