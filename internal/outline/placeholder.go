package outline

import (
	"regexp"
	"strings"

	"github.com/chriserin/ftc/internal/parser"
)

var placeholderPattern = regexp.MustCompile(`<([^<>\s][^<>]*)>`)

// Placeholder is one "<name>" occurrence in an outline. StepIndex is -1 for
// the scenario name. Start and End are byte offsets into the containing text.
type Placeholder struct {
	Name      string
	StepIndex int
	Start     int
	End       int
}

// FindPlaceholders returns every placeholder occurrence in the outline name,
// step texts, data table cells and doc string bodies, in document order.
func FindPlaceholders(sc *parser.Scenario) []Placeholder {
	var out []Placeholder
	out = appendMatches(out, sc.Name, -1)
	for i, step := range sc.Steps {
		out = appendMatches(out, step.Text, i)
		if step.DataTable != nil {
			for _, row := range step.DataTable.Raw() {
				for _, cell := range row {
					out = appendMatches(out, cell, i)
				}
			}
		}
		if step.DocString != nil {
			out = appendMatches(out, step.DocString.Content, i)
			out = appendMatches(out, step.DocString.ContentType, i)
		}
	}
	return out
}

func appendMatches(out []Placeholder, text string, stepIndex int) []Placeholder {
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(text, -1) {
		out = append(out, Placeholder{
			Name:      text[m[2]:m[3]],
			StepIndex: stepIndex,
			Start:     m[0],
			End:       m[1],
		})
	}
	return out
}

// substitute replaces every "<name>" whose name is in values. Unknown
// placeholders are left as written.
func substitute(text string, values map[string]string) string {
	if !strings.Contains(text, "<") {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(m string) string {
		if v, ok := values[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}
