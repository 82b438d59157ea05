package logger

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

type Table struct {
	headers     []string
	rows        [][]string
	columnWidth []int
	out         io.Writer
}

func NewTable(headers []string, out io.Writer) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}

	return &Table{
		headers:     headers,
		columnWidth: widths,
		out:         out,
	}
}

// AddRow truncates or pads cells to the header count.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)

	for i, cell := range row {
		if n := utf8.RuneCountInString(cell); n > t.columnWidth[i] {
			t.columnWidth[i] = n
		}
	}

	t.rows = append(t.rows, row)
}

func (t *Table) rule(left, mid, right string) string {
	parts := make([]string, len(t.columnWidth))
	for i, w := range t.columnWidth {
		parts[i] = strings.Repeat("─", w+2)
	}
	return left + strings.Join(parts, mid) + right + "\n"
}

func (t *Table) line(cells []string) string {
	var sb strings.Builder
	sb.WriteString("│")
	for i, cell := range cells {
		pad := t.columnWidth[i] - utf8.RuneCountInString(cell)
		sb.WriteString(" " + cell + strings.Repeat(" ", pad) + " │")
	}
	sb.WriteString("\n")
	return sb.String()
}

func (t *Table) String() string {
	var sb strings.Builder
	sb.WriteString(t.rule("┌", "┬", "┐"))
	sb.WriteString(t.line(t.headers))
	sb.WriteString(t.rule("├", "┼", "┤"))
	for _, row := range t.rows {
		sb.WriteString(t.line(row))
	}
	sb.WriteString(t.rule("└", "┴", "┘"))
	return sb.String()
}

func (t *Table) Print() {
	fmt.Fprint(t.out, t.String())
}
