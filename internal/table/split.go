package table

import (
	"errors"
	"strings"
)

// SplitRow splits one table row into cells. Delimiters escaped with a
// backslash belong to the cell, as do delimiters inside a quoted literal. A
// quote only opens a literal when it is the first non-blank character of the
// cell; anywhere else it is ordinary text.
func SplitRow(line string, opts Options) ([]string, error) {
	delim := opts.Delimiter
	if delim == 0 {
		delim = '|'
	}

	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, string(delim)) {
		return nil, errors.New("row must start with '" + string(delim) + "'")
	}
	body := trimmed[len(string(delim)):]

	var (
		cells      []string
		cur        strings.Builder
		inQuotes   bool
		escapeNext bool
	)
	for _, r := range body {
		if escapeNext {
			switch r {
			case delim:
				cur.WriteRune(delim)
			case 'n':
				cur.WriteRune('\n')
			case '\\':
				cur.WriteRune('\\')
			default:
				cur.WriteRune('\\')
				cur.WriteRune(r)
			}
			escapeNext = false
			continue
		}
		switch {
		case r == '\\':
			escapeNext = true
		case r == '"' && inQuotes:
			inQuotes = false
			cur.WriteRune(r)
		case r == '"' && strings.TrimSpace(cur.String()) == "":
			inQuotes = true
			cur.WriteRune(r)
		case r == delim && !inQuotes:
			cells = append(cells, finishCell(cur.String(), opts))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}

	if inQuotes {
		return nil, errors.New("unterminated quote in row")
	}
	if escapeNext {
		cur.WriteRune('\\')
	}
	if strings.TrimSpace(cur.String()) != "" {
		return nil, errors.New("row must end with '" + string(delim) + "'")
	}
	return cells, nil
}

func finishCell(v string, opts Options) string {
	if opts.TrimCells {
		v = strings.TrimSpace(v)
	}
	if opts.ConvertTypes && isQuotedLiteral(v) {
		v = strings.ReplaceAll(v[1:len(v)-1], `\"`, `"`)
	}
	if v == "" && opts.EmptyValue != "" {
		v = opts.EmptyValue
	}
	return v
}

// isQuotedLiteral reports whether v is exactly one double-quoted string with
// no unescaped quote inside.
func isQuotedLiteral(v string) bool {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return false
	}
	inner := v[1 : len(v)-1]
	for i := 0; i < len(inner); i++ {
		if inner[i] == '"' && (i == 0 || inner[i-1] != '\\') {
			return false
		}
	}
	return true
}
