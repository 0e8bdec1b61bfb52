package ui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gubarz/codeappendix/internal/appendix"
)

// Table renders entries as a bordered table: number, language, origin,
// filename, output count and the first line of code
func Table(entries []appendix.Entry) string {
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Language,
			e.Origin.String(),
			e.Filename,
			strconv.Itoa(len(e.Results)),
			truncateString(firstLine(e.Code.Text), 48),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.Divider).
		Headers("#", "LANGUAGE", "ORIGIN", "FILE", "OUTPUTS", "CODE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return s.Bold(true)
			case col == 1:
				return s.Inherit(styles.Language)
			case col == 2:
				return s.Inherit(styles.Origin)
			case col == 3:
				return s.Inherit(styles.Filename)
			}
			return s
		})

	return t.String()
}
