// Package docstring parses fenced multi-line step arguments.
package docstring

import (
	"fmt"
	"strings"
)

var delimiters = []string{`"""`, "```"}

// Error reports a malformed doc string.
type Error struct {
	Message string
	Line    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Options controls post-processing of doc string content.
type Options struct {
	// Format reformats content whose type is json, xml, html, sql or csv.
	Format bool
}

// DefaultOptions enables formatting.
func DefaultOptions() Options {
	return Options{Format: true}
}

// DocString is the text block attached to a step.
type DocString struct {
	Content     string
	ContentType string
	Delimiter   string
	Line        int
}

// Parse reads a doc string from lines, which start at the opening fence.
// startLine is the 1-based source line of lines[0]. Lines after the closing
// fence are ignored.
func Parse(lines []string, startLine int, opts Options) (*DocString, error) {
	if len(lines) == 0 {
		return nil, &Error{Message: "empty doc string", Line: startLine}
	}

	opener := strings.TrimSpace(lines[0])
	delim := ""
	for _, d := range delimiters {
		if strings.HasPrefix(opener, d) {
			delim = d
			break
		}
	}
	if delim == "" {
		return nil, &Error{Message: "doc string must start with \"\"\" or ```", Line: startLine}
	}
	contentType := strings.TrimSpace(strings.TrimPrefix(opener, delim))

	end := -1
	for j := 1; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == delim {
			end = j
			break
		}
	}
	if end < 0 {
		return nil, &Error{Message: "unterminated doc string, missing closing " + delim, Line: startLine}
	}

	body := dedent(lines[1:end])
	for i, l := range body {
		body[i] = unescape(strings.TrimRight(l, " \t"), delim)
	}
	content := strings.Join(body, "\n")

	if opts.Format {
		content = Format(contentType, content)
	}

	return &DocString{
		Content:     content,
		ContentType: contentType,
		Delimiter:   delim,
		Line:        startLine,
	}, nil
}

// dedent strips the smallest leading indent of the non-blank lines from
// every line.
func dedent(lines []string) []string {
	minIndent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if minIndent < 0 || n < minIndent {
			minIndent = n
		}
	}
	if minIndent < 0 {
		minIndent = 0
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		switch {
		case len(l) >= minIndent:
			out[i] = l[minIndent:]
		default:
			out[i] = strings.TrimLeft(l, " \t")
		}
	}
	return out
}

func unescape(line, delim string) string {
	if delim == `"""` {
		return strings.ReplaceAll(line, `\"\"\"`, `"""`)
	}
	return strings.ReplaceAll(line, "\\`\\`\\`", "```")
}
