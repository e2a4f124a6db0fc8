package suite

import (
	"fmt"
	"strings"

	"github.com/chriserin/ftc/internal/parser"
)

// Render writes sc back out as Gherkin with placeholders resolved.
func Render(sc Scenario) string {
	var b strings.Builder
	if len(sc.Tags) > 0 {
		fmt.Fprintf(&b, "%s\n", strings.Join(sc.Tags, " "))
	}
	fmt.Fprintf(&b, "Scenario: %s\n", sc.Name)
	for _, st := range sc.Steps {
		fmt.Fprintf(&b, "  %s %s\n", st.Keyword, st.Text)
		writeArgument(&b, st)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeArgument(b *strings.Builder, st *parser.Step) {
	if st.DataTable != nil {
		rows := st.DataTable.Raw()
		widths := make([]int, st.DataTable.Width())
		for _, row := range rows {
			for i, cell := range row {
				if w := len(escapeCell(cell)); w > widths[i] {
					widths[i] = w
				}
			}
		}
		for _, row := range rows {
			b.WriteString("   ")
			for i, cell := range row {
				fmt.Fprintf(b, " | %-*s", widths[i], escapeCell(cell))
			}
			b.WriteString(" |\n")
		}
	}
	if ds := st.DocString; ds != nil {
		delim := ds.Delimiter
		if delim == "" {
			delim = `"""`
		}
		fmt.Fprintf(b, "    %s%s\n", delim, ds.ContentType)
		if ds.Content != "" {
			for _, line := range strings.Split(ds.Content, "\n") {
				fmt.Fprintf(b, "    %s\n", escapeFence(line, delim))
			}
		}
		fmt.Fprintf(b, "    %s\n", delim)
	}
}

var cellEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, "\n", `\n`)

// escapeCell writes cell so that splitting the row yields it back. A leading
// quote would open a quoted literal, so such cells are quoted themselves.
func escapeCell(cell string) string {
	v := cellEscaper.Replace(cell)
	if strings.HasPrefix(cell, `"`) {
		v = `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return v
}

func escapeFence(line, delim string) string {
	if delim == "```" {
		return strings.ReplaceAll(line, "```", "\\`\\`\\`")
	}
	return strings.ReplaceAll(line, `"""`, `\"\"\"`)
}
