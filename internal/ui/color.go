package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	newStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	trkStyle     = lipgloss.NewStyle().Faint(true)
	delStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	keywordStyle = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// NewLine reports a file added to the catalog.
func NewLine(w io.Writer, path string, scenarios int) {
	fmt.Fprintf(w, "%s  %s (%s)\n", newStyle.Render("new"), path, plural(scenarios, "scenario"))
}

// TrkLine reports a file already in the catalog.
func TrkLine(w io.Writer, path string, scenarios int) {
	fmt.Fprintf(w, "%s  %s (%s)\n", trkStyle.Render("trk"), path, plural(scenarios, "scenario"))
}

// DelLine reports a file removed from the catalog.
func DelLine(w io.Writer, path string) {
	fmt.Fprintln(w, delStyle.Render("del")+"  "+path)
}

// ErrLine reports a file that failed to compile.
func ErrLine(w io.Writer, path string, err error) {
	fmt.Fprintf(w, "%s  %s: %v\n", errStyle.Render("err"), path, err)
}

func SummaryLine(w io.Writer, files, scenarios int) {
	fmt.Fprintf(w, "synced %s, %s\n", plural(files, "file"), plural(scenarios, "scenario"))
}

// IssueLine prints one validator finding as path:line: severity: message.
func IssueLine(w io.Writer, path string, line int, severity, message string) {
	style := warnStyle
	if severity == "error" {
		style = errStyle
	}
	fmt.Fprintf(w, "%s:%d: %s: %s\n", path, line, style.Render(severity), message)
}

// ListRow prints one catalog entry with padded columns.
func ListRow(w io.Writer, id int64, fileName, name string, tags []string, idWidth, fileWidth, nameWidth int) {
	idText := fmt.Sprintf("@ft:%d", id)
	fmt.Fprintf(w, "%s  %-*s  %-*s",
		idStyle.Render(fmt.Sprintf("%-*s", idWidth, idText)),
		fileWidth, fileName,
		nameWidth, name,
	)
	if len(tags) > 0 {
		fmt.Fprintf(w, "  %s", tagStyle.Render(strings.Join(tags, " ")))
	}
	fmt.Fprintln(w)
}

// ShowHeader prints the id and location of a scenario.
func ShowHeader(w io.Writer, id int64, fileName string, line int) {
	fmt.Fprintf(w, "%s  %s:%d\n", headerStyle.Render(fmt.Sprintf("@ft:%d", id)), fileName, line)
}

// ShowGherkin prints Gherkin text with keywords and tags highlighted.
func ShowGherkin(w io.Writer, text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(w, highlight(line))
	}
}

var keywords = []string{"Scenario:", "Given ", "When ", "Then ", "And ", "But "}

func highlight(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(trimmed)]
	if strings.HasPrefix(trimmed, "@") {
		return indent + tagStyle.Render(trimmed)
	}
	for _, kw := range keywords {
		if strings.HasPrefix(trimmed, kw) {
			word := strings.TrimSuffix(kw, " ")
			return indent + keywordStyle.Render(word) + trimmed[len(word):]
		}
	}
	return line
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
