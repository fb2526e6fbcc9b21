package columns

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	emptyMarker = "-"
	noData      = "no data"
	columnGap   = 2
)

// Render writes rows as an aligned table under the column titles. Empty
// cells show a dash; an empty row set renders a single "no data" row.
func Render(w io.Writer, cols []Column, rows []Row) error {
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Spec().Title
	}

	cells := make([][]string, 0, max(len(rows), 1))
	for _, row := range rows {
		line := make([]string, len(cols))
		for i, c := range cols {
			line[i] = row[c]
			if line[i] == "" {
				line[i] = emptyMarker
			}
		}
		cells = append(cells, line)
	}
	if len(cells) == 0 && len(cols) > 0 {
		line := make([]string, len(cols))
		line[0] = noData
		cells = append(cells, line)
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(_, col int) lipgloss.Style {
			style := lipgloss.NewStyle()
			if col < len(cols)-1 {
				style = style.PaddingRight(columnGap)
			}
			if col < len(cols) && cols[col].Spec().AlignRight {
				style = style.Align(lipgloss.Right)
			}
			return style
		})

	_, err := fmt.Fprintln(w, t.String())
	return err
}
