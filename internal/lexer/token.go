package lexer

import "fmt"

// Kind identifies the syntactic role of a line of feature text.
type Kind int

const (
	Empty Kind = iota
	Comment
	Description
	TagLine
	FeatureLine
	BackgroundLine
	ScenarioLine
	ScenarioOutlineLine
	ExamplesLine
	RuleLine
	StepLine
	TableRow
	DocString
)

var kindNames = map[Kind]string{
	Empty:               "Empty",
	Comment:             "Comment",
	Description:         "Description",
	TagLine:             "TagLine",
	FeatureLine:         "FeatureLine",
	BackgroundLine:      "BackgroundLine",
	ScenarioLine:        "ScenarioLine",
	ScenarioOutlineLine: "ScenarioOutlineLine",
	ExamplesLine:        "ExamplesLine",
	RuleLine:            "RuleLine",
	StepLine:            "StepLine",
	TableRow:            "TableRow",
	DocString:           "DocString",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is one classified line, or for DocString the whole delimited block.
type Token struct {
	Kind Kind
	// Value is the text after the keyword for keyword lines, the step text for
	// steps, the trimmed line for rows, tags and descriptions.
	Value string
	// Keyword is the matched keyword, e.g. "Scenario Outline" or "Given".
	Keyword string
	// Lines holds the raw source lines of a DocString token, delimiters included.
	Lines  []string
	Line   int // 1-based
	Column int // 1-based column of the first non-blank character
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s %q", t.Line, t.Column, t.Kind, t.Value)
}

// LexError reports a malformed line.
type LexError struct {
	Message    string
	Line       int
	Column     int
	SourcePath string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.SourcePath, e.Line, e.Column, e.Message)
}
