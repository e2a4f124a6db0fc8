// Package outline expands Scenario Outlines into one concrete Scenario per
// Examples row.
package outline

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/chriserin/ftc/internal/docstring"
	"github.com/chriserin/ftc/internal/parser"
)

// DefaultMaxScenarios bounds the scenarios produced from one outline.
const DefaultMaxScenarios = 1000

// Error reports an outline that cannot be expanded.
type Error struct {
	Message string
	Outline string
	Line    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: Scenario Outline %q: %s", e.Line, e.Outline, e.Message)
}

// Warning is a non-fatal expansion diagnostic.
type Warning struct {
	Message string
	Line    int
}

// Expander turns outlines into scenarios. The zero value is usable.
type Expander struct {
	// MaxScenarios is the soft ceiling per outline; <= 0 means DefaultMaxScenarios.
	MaxScenarios int
	Logger       logrus.FieldLogger
}

// discard serves every Expander built without a logger.
var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

func NewExpander(logger logrus.FieldLogger, maxScenarios int) *Expander {
	if logger == nil {
		logger = discard
	}
	return &Expander{MaxScenarios: maxScenarios, Logger: logger}
}

func (e *Expander) logger() logrus.FieldLogger {
	if e.Logger != nil {
		return e.Logger
	}
	return discard
}

func (e *Expander) limit() int {
	if e.MaxScenarios <= 0 {
		return DefaultMaxScenarios
	}
	return e.MaxScenarios
}

// Expand returns the concrete scenarios of outline in Examples order, then
// row order. Warnings are returned and logged.
func (e *Expander) Expand(outline *parser.Scenario) ([]*parser.Scenario, []Warning, error) {
	if outline.Type != parser.TypeOutline {
		return nil, nil, &Error{Message: "not a Scenario Outline", Outline: outline.Name, Line: outline.Line}
	}

	names := uniqueNames(FindPlaceholders(outline))
	var warnings []Warning

	for _, ex := range outline.Examples {
		if err := checkExamples(outline, ex); err != nil {
			return nil, nil, err
		}
		header := toSet(ex.Header)

		var missing []string
		for _, name := range names {
			if !header[name] {
				missing = append(missing, "<"+name+">")
			}
		}
		if len(missing) > 0 {
			return nil, nil, &Error{
				Message: fmt.Sprintf("%s not found in the header of Examples %q", strings.Join(missing, ", "), ex.Name),
				Outline: outline.Name,
				Line:    ex.Line,
			}
		}

		used := toSet(names)
		for _, h := range ex.Header {
			if !used[h] {
				warnings = append(warnings, Warning{
					Message: fmt.Sprintf("column %q of Examples %q is not used by any placeholder", h, ex.Name),
					Line:    ex.HeaderLine,
				})
			}
		}
	}

	var (
		out     []*parser.Scenario
		skipped int
	)
	for _, ex := range outline.Examples {
		for i, row := range ex.Rows {
			if len(out) >= e.limit() {
				skipped++
				continue
			}
			out = append(out, expandRow(outline, ex, i, row))
		}
	}
	if skipped > 0 {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("expansion stopped at %d scenarios, %d Examples rows skipped", e.limit(), skipped),
			Line:    outline.Line,
		})
	}

	log := e.logger().WithFields(logrus.Fields{"outline": outline.Name})
	for _, w := range warnings {
		log.WithField("line", w.Line).Warn(w.Message)
	}
	return out, warnings, nil
}

func checkExamples(outline *parser.Scenario, ex *parser.Examples) error {
	fail := func(line int, format string, args ...any) error {
		return &Error{Message: fmt.Sprintf(format, args...), Outline: outline.Name, Line: line}
	}

	if len(ex.Header) == 0 {
		return fail(ex.Line, "Examples %q has no header row", ex.Name)
	}
	seen := map[string]bool{}
	for i, h := range ex.Header {
		if h == "" {
			return fail(ex.HeaderLine, "column %d of Examples %q has an empty header", i+1, ex.Name)
		}
		if seen[h] {
			return fail(ex.HeaderLine, "duplicate header %q in Examples %q", h, ex.Name)
		}
		seen[h] = true
	}
	for i, row := range ex.Rows {
		if len(row) != len(ex.Header) {
			line := ex.Line
			if i < len(ex.RowLines) {
				line = ex.RowLines[i]
			}
			return fail(line, "row %d of Examples %q has %d cells, header has %d", i+1, ex.Name, len(row), len(ex.Header))
		}
	}
	return nil
}

func expandRow(outline *parser.Scenario, ex *parser.Examples, i int, row []string) *parser.Scenario {
	values := make(map[string]string, len(ex.Header))
	for j, h := range ex.Header {
		values[h] = row[j]
	}

	line := ex.Line
	if i < len(ex.RowLines) {
		line = ex.RowLines[i]
	}

	steps := parser.CloneSteps(outline.Steps)
	for _, st := range steps {
		st.Text = substitute(st.Text, values)
		if st.DataTable != nil {
			st.DataTable = st.DataTable.Map(func(cell string) string { return substitute(cell, values) })
		}
		if st.DocString != nil {
			st.DocString = &docstring.DocString{
				Content:     substitute(st.DocString.Content, values),
				ContentType: substitute(st.DocString.ContentType, values),
				Delimiter:   st.DocString.Delimiter,
				Line:        st.DocString.Line,
			}
		}
	}

	tags := make([]string, 0, len(outline.Tags)+len(ex.Tags))
	tags = append(tags, outline.Tags...)
	tags = append(tags, ex.Tags...)

	return &parser.Scenario{
		Type:        parser.TypeScenario,
		Keyword:     outline.Keyword,
		Name:        substitute(outline.Name, values),
		Description: outline.Description,
		Tags:        tags,
		Steps:       steps,
		Line:        line,
		OutlineLine: outline.Line,
		Parameters:  values,
	}
}

func uniqueNames(phs []Placeholder) []string {
	var names []string
	seen := map[string]bool{}
	for _, ph := range phs {
		if !seen[ph.Name] {
			seen[ph.Name] = true
			names = append(names, ph.Name)
		}
	}
	return names
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
