package outline

import (
	"github.com/chriserin/ftc/internal/parser"
)

// MergeExamples combines blocks into one. The header is the union of the
// block headers in first-seen order; cells a block lacks are empty.
func MergeExamples(blocks ...*parser.Examples) *parser.Examples {
	if len(blocks) == 0 {
		return nil
	}

	merged := &parser.Examples{
		Name:       blocks[0].Name,
		Line:       blocks[0].Line,
		HeaderLine: blocks[0].HeaderLine,
	}
	seenTag := map[string]bool{}
	seenHeader := map[string]bool{}
	for _, b := range blocks {
		for _, tag := range b.Tags {
			if !seenTag[tag] {
				seenTag[tag] = true
				merged.Tags = append(merged.Tags, tag)
			}
		}
		for _, h := range b.Header {
			if !seenHeader[h] {
				seenHeader[h] = true
				merged.Header = append(merged.Header, h)
			}
		}
	}

	for _, b := range blocks {
		for i, values := range rowMaps(b) {
			row := make([]string, len(merged.Header))
			for j, h := range merged.Header {
				row[j] = values[h]
			}
			merged.Rows = append(merged.Rows, row)
			merged.RowLines = append(merged.RowLines, rowLine(b, i))
		}
	}
	return merged
}

// FilterExamples returns a copy of ex holding only the rows keep accepts.
func FilterExamples(ex *parser.Examples, keep func(row map[string]string) bool) *parser.Examples {
	out := &parser.Examples{
		Name:        ex.Name,
		Description: ex.Description,
		Tags:        append([]string(nil), ex.Tags...),
		Header:      append([]string(nil), ex.Header...),
		Line:        ex.Line,
		HeaderLine:  ex.HeaderLine,
	}
	for i, values := range rowMaps(ex) {
		if !keep(values) {
			continue
		}
		row := make([]string, len(out.Header))
		for j, h := range out.Header {
			row[j] = values[h]
		}
		out.Rows = append(out.Rows, row)
		out.RowLines = append(out.RowLines, rowLine(ex, i))
	}
	return out
}

func rowMaps(ex *parser.Examples) []map[string]string {
	out := make([]map[string]string, len(ex.Rows))
	for i, row := range ex.Rows {
		m := make(map[string]string, len(ex.Header))
		for j, h := range ex.Header {
			if j < len(row) {
				m[h] = row[j]
			}
		}
		out[i] = m
	}
	return out
}

func rowLine(ex *parser.Examples, i int) int {
	if i < len(ex.RowLines) {
		return ex.RowLines[i]
	}
	return 0
}
