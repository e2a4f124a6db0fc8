// Package table parses pipe-delimited Gherkin rows into a rectangular
// DataTable and exposes the usual read-only views over it.
package table

import (
	"fmt"
	"strings"
)

// Error reports a malformed table.
type Error struct {
	Message string
	Line    int // 1-based source line, 0 when unknown
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Options controls cell handling.
type Options struct {
	TrimCells bool
	// ConvertTypes normalizes fully quoted cells to their inner literal.
	// Cells always stay strings.
	ConvertTypes bool
	// EmptyValue replaces cells that are empty after trimming.
	EmptyValue string
	Delimiter  rune
}

// DefaultOptions returns TrimCells and ConvertTypes enabled with '|' as delimiter.
func DefaultOptions() Options {
	return Options{TrimCells: true, ConvertTypes: true, Delimiter: '|'}
}

// DataTable is an immutable rectangular matrix of string cells.
type DataTable struct {
	rows [][]string
	line int
}

// New builds a table from rows, which must be non-empty and rectangular.
func New(rows [][]string, line int) (*DataTable, error) {
	if len(rows) == 0 {
		return nil, &Error{Message: "table has no rows", Line: line}
	}
	width := len(rows[0])
	copied := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) != width {
			return nil, &Error{
				Message: fmt.Sprintf("row %d has %d cells, expected %d", i+1, len(row), width),
				Line:    lineOf(line, i),
			}
		}
		copied[i] = append([]string(nil), row...)
	}
	return &DataTable{rows: copied, line: line}, nil
}

// ParseTable parses lines such as "| a | b |" into a DataTable. line is the
// 1-based source line of lines[0] and is only used in error messages.
func ParseTable(lines []string, line int, opts Options) (*DataTable, error) {
	var rows [][]string
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		cells, err := SplitRow(l, opts)
		if err != nil {
			return nil, &Error{Message: err.Error(), Line: lineOf(line, i)}
		}
		rows = append(rows, cells)
	}
	return New(rows, line)
}

func lineOf(first, offset int) int {
	if first <= 0 {
		return 0
	}
	return first + offset
}

// Line returns the source line of the first row.
func (t *DataTable) Line() int { return t.line }

// Width returns the number of columns.
func (t *DataTable) Width() int { return len(t.rows[0]) }

// Len returns the number of rows including the header.
func (t *DataTable) Len() int { return len(t.rows) }

// Raw returns a copy of every row.
func (t *DataTable) Raw() [][]string {
	return copyRows(t.rows)
}

// Headers returns the first row.
func (t *DataTable) Headers() []string {
	return append([]string(nil), t.rows[0]...)
}

// RowsWithoutHeader returns every row but the first.
func (t *DataTable) RowsWithoutHeader() [][]string {
	return copyRows(t.rows[1:])
}

// Hashes returns one map per data row keyed by header name.
func (t *DataTable) Hashes() []map[string]string {
	headers := t.rows[0]
	out := make([]map[string]string, 0, len(t.rows)-1)
	for _, row := range t.rows[1:] {
		m := make(map[string]string, len(headers))
		for i, h := range headers {
			m[h] = row[i]
		}
		out = append(out, m)
	}
	return out
}

// RowsHash reads a two-column table as key/value pairs.
func (t *DataTable) RowsHash() (map[string]string, error) {
	if t.Width() != 2 {
		return nil, &Error{
			Message: fmt.Sprintf("rowsHash requires exactly 2 columns, table has %d", t.Width()),
			Line:    t.line,
		}
	}
	out := make(map[string]string, len(t.rows))
	for _, row := range t.rows {
		out[row[0]] = row[1]
	}
	return out, nil
}

// Transpose returns the table with rows and columns swapped.
func (t *DataTable) Transpose() *DataTable {
	width := t.Width()
	rows := make([][]string, width)
	for c := 0; c < width; c++ {
		rows[c] = make([]string, len(t.rows))
		for r := range t.rows {
			rows[c][r] = t.rows[r][c]
		}
	}
	return &DataTable{rows: rows, line: t.line}
}

// Map returns a new table with fn applied to every cell.
func (t *DataTable) Map(fn func(string) string) *DataTable {
	rows := copyRows(t.rows)
	for _, row := range rows {
		for i := range row {
			row[i] = fn(row[i])
		}
	}
	return &DataTable{rows: rows, line: t.line}
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
