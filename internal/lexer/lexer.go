// Package lexer splits normalized feature text into a flat stream of
// classified line tokens. It validates individual lines only; ordering and
// nesting are the parser's concern.
package lexer

import (
	"regexp"
	"strings"
)

var languagePattern = regexp.MustCompile(`^#\s*language\s*:\s*(\S+)\s*$`)

type headerKeyword struct {
	prefix  string
	keyword string
	kind    Kind
}

// Longer prefixes first so "Scenario Outline:" is not read as "Scenario:".
var headerKeywords = []headerKeyword{
	{"Feature:", "Feature", FeatureLine},
	{"Background:", "Background", BackgroundLine},
	{"Scenario Outline:", "Scenario Outline", ScenarioOutlineLine},
	{"Scenario Template:", "Scenario Template", ScenarioOutlineLine},
	{"Scenario:", "Scenario", ScenarioLine},
	{"Example:", "Example", ScenarioLine},
	{"Examples:", "Examples", ExamplesLine},
	{"Scenarios:", "Scenarios", ExamplesLine},
	{"Rule:", "Rule", RuleLine},
}

// StepKeywords lists the recognized step keywords in match order.
var StepKeywords = []string{"Given", "When", "Then", "And", "But"}

// DocStringDelimiters lists the recognized doc string fences.
var DocStringDelimiters = []string{`"""`, "```"}

// Tokenize classifies every line of text. text is expected to use "\n" line
// endings with any byte order mark already removed.
func Tokenize(text, sourcePath string) ([]Token, error) {
	lines := strings.Split(text, "\n")
	// A trailing newline does not start another line.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	tokens := make([]Token, 0, len(lines))
	i := 0
	for i < len(lines) {
		raw := lines[i]
		trimmed := strings.TrimSpace(raw)
		line := i + 1
		column := indentOf(raw) + 1

		if delim := DocStringDelimiter(trimmed); delim != "" {
			end := closingLine(lines, i, delim)
			tokens = append(tokens, Token{
				Kind:    DocString,
				Value:   strings.TrimSpace(strings.TrimPrefix(trimmed, delim)),
				Keyword: delim,
				Lines:   lines[i:end],
				Line:    line,
				Column:  column,
			})
			i = end
			continue
		}

		tok, err := classify(trimmed, line, column, sourcePath)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		i++
	}
	return tokens, nil
}

func classify(trimmed string, line, column int, sourcePath string) (Token, error) {
	tok := Token{Line: line, Column: column, Value: trimmed}

	switch {
	case trimmed == "":
		tok.Kind = Empty
		return tok, nil
	case strings.HasPrefix(trimmed, "#"):
		tok.Kind = Comment
		if m := languagePattern.FindStringSubmatch(trimmed); m != nil {
			tok.Keyword = "language"
			tok.Value = m[1]
		}
		return tok, nil
	case strings.HasPrefix(trimmed, "@"):
		tok.Kind = TagLine
		if err := checkTagLine(trimmed); err != "" {
			return tok, &LexError{Message: err, Line: line, Column: column, SourcePath: sourcePath}
		}
		return tok, nil
	case strings.HasPrefix(trimmed, "|"):
		tok.Kind = TableRow
		if !endsWithDelimiter(trimmed) {
			return tok, &LexError{
				Message:    "table row must end with '|'",
				Line:       line,
				Column:     column + len(trimmed),
				SourcePath: sourcePath,
			}
		}
		return tok, nil
	}

	for _, hk := range headerKeywords {
		if strings.HasPrefix(trimmed, hk.prefix) {
			tok.Kind = hk.kind
			tok.Keyword = hk.keyword
			tok.Value = strings.TrimSpace(strings.TrimPrefix(trimmed, hk.prefix))
			return tok, nil
		}
	}

	for _, kw := range StepKeywords {
		if trimmed == kw {
			return tok, &LexError{
				Message:    "step '" + kw + "' has no text",
				Line:       line,
				Column:     column,
				SourcePath: sourcePath,
			}
		}
		if strings.HasPrefix(trimmed, kw+" ") || strings.HasPrefix(trimmed, kw+"\t") {
			tok.Kind = StepLine
			tok.Keyword = kw
			tok.Value = strings.TrimSpace(trimmed[len(kw):])
			return tok, nil
		}
	}

	tok.Kind = Description
	return tok, nil
}

// DocStringDelimiter returns the fence that opens trimmed, or "".
func DocStringDelimiter(trimmed string) string {
	for _, d := range DocStringDelimiters {
		if strings.HasPrefix(trimmed, d) {
			return d
		}
	}
	return ""
}

// closingLine returns the index just past the line closing the doc string
// opened at lines[start], or len(lines) when it is never closed.
func closingLine(lines []string, start int, delim string) int {
	for j := start + 1; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) == delim {
			return j + 1
		}
	}
	return len(lines)
}

func checkTagLine(trimmed string) string {
	for _, field := range strings.Fields(trimmed) {
		if strings.HasPrefix(field, "#") {
			// trailing comment
			return ""
		}
		if !strings.HasPrefix(field, "@") {
			return "invalid tag '" + field + "': tags must start with '@'"
		}
		if strings.Trim(field, "@") == "" {
			return "empty tag name"
		}
	}
	return ""
}

func endsWithDelimiter(trimmed string) bool {
	if len(trimmed) < 2 || !strings.HasSuffix(trimmed, "|") {
		return false
	}
	backslashes := 0
	for j := len(trimmed) - 2; j >= 0 && trimmed[j] == '\\'; j-- {
		backslashes++
	}
	return backslashes%2 == 0
}

func indentOf(raw string) int {
	return len(raw) - len(strings.TrimLeft(raw, " \t"))
}
