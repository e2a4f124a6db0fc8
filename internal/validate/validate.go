// Package validate reports structural problems in a parsed Feature without
// failing on the first one.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/chriserin/ftc/internal/outline"
	"github.com/chriserin/ftc/internal/parser"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Issue struct {
	Severity Severity
	Message  string
	Line     int
}

func (i Issue) Error() string {
	return fmt.Sprintf("line %d: %s: %s", i.Line, i.Severity, i.Message)
}

// Feature checks f and returns its issues ordered by line.
func Feature(f *parser.Feature) []Issue {
	var issues []Issue
	add := func(sev Severity, line int, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, Message: fmt.Sprintf(format, args...), Line: line})
	}

	if strings.TrimSpace(f.Name) == "" {
		add(SeverityError, f.Line, "feature has no name")
	}
	if len(f.Scenarios) == 0 {
		add(SeverityError, f.Line, "feature has no scenarios")
	}

	if bg := f.Background; bg != nil {
		if len(bg.Steps) == 0 {
			add(SeverityError, bg.Line, "Background has no steps")
		}
		checkSteps(bg, add)
	}

	firstLine := map[string]int{}
	for _, sc := range f.Scenarios {
		if prev, ok := firstLine[sc.Name]; ok {
			add(SeverityError, sc.Line, "duplicate scenario name %q, first defined on line %d", sc.Name, prev)
		} else {
			firstLine[sc.Name] = sc.Line
		}

		if strings.TrimSpace(sc.Name) == "" {
			add(SeverityWarning, sc.Line, "%s has no name", sc.Keyword)
		}
		if len(sc.Steps) == 0 {
			add(SeverityError, sc.Line, "%s %q has no steps", sc.Keyword, sc.Name)
		}
		checkSteps(sc, add)

		switch sc.Type {
		case parser.TypeOutline:
			checkOutline(sc, add)
		case parser.TypeScenario:
			for _, ph := range outline.FindPlaceholders(sc) {
				line := sc.Line
				if ph.StepIndex >= 0 {
					line = sc.Steps[ph.StepIndex].Line
				}
				add(SeverityWarning, line, "placeholder <%s> in Scenario %q will not be substituted", ph.Name, sc.Name)
			}
		}
	}

	sort.SliceStable(issues, func(a, b int) bool { return issues[a].Line < issues[b].Line })
	return issues
}

func checkSteps(sc *parser.Scenario, add func(Severity, int, string, ...any)) {
	for _, st := range sc.Steps {
		if st.DataTable != nil && st.DocString != nil {
			add(SeverityError, st.Line, "step %q has both a data table and a doc string", st.Text)
		}
	}
}

func checkOutline(sc *parser.Scenario, add func(Severity, int, string, ...any)) {
	if len(sc.Examples) == 0 {
		add(SeverityError, sc.Line, "Scenario Outline %q has no Examples", sc.Name)
		return
	}
	for _, ex := range sc.Examples {
		if len(ex.Header) == 0 {
			add(SeverityError, ex.Line, "Examples %q has no header row", ex.Name)
			continue
		}
		seen := map[string]bool{}
		for i, h := range ex.Header {
			switch {
			case h == "":
				add(SeverityError, ex.HeaderLine, "column %d of Examples %q has an empty header", i+1, ex.Name)
			case seen[h]:
				add(SeverityError, ex.HeaderLine, "duplicate header %q in Examples %q", h, ex.Name)
			}
			seen[h] = true
		}
		if len(ex.Rows) == 0 {
			add(SeverityWarning, ex.Line, "Examples %q has no rows", ex.Name)
		}
		for i, row := range ex.Rows {
			if len(row) != len(ex.Header) {
				line := ex.Line
				if i < len(ex.RowLines) {
					line = ex.RowLines[i]
				}
				add(SeverityError, line, "row %d of Examples %q has %d cells, header has %d", i+1, ex.Name, len(row), len(ex.Header))
			}
		}
	}
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err folds the error-severity issues into one error, or nil when there are
// none. Warnings are ignored.
func Err(issues []Issue) error {
	var result *multierror.Error
	for _, is := range issues {
		if is.Severity == SeverityError {
			result = multierror.Append(result, is)
		}
	}
	return result.ErrorOrNil()
}
