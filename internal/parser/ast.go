package parser

import (
	"fmt"

	"github.com/chriserin/ftc/internal/docstring"
	"github.com/chriserin/ftc/internal/table"
)

type ScenarioType string

const (
	TypeBackground ScenarioType = "background"
	TypeScenario   ScenarioType = "scenario"
	TypeOutline    ScenarioType = "scenario_outline"
)

type Feature struct {
	Name        string
	Description string
	Tags        []string // e.g. "@smoke", "@ft:42"
	Language    string
	URI         string
	Line        int // 0 when the file has no Feature: line
	Background  *Scenario
	Scenarios   []*Scenario
}

type Scenario struct {
	Type        ScenarioType
	Keyword     string
	Name        string
	Description string
	Tags        []string
	Steps       []*Step
	Examples    []*Examples // outlines only
	Line        int         // 1-based line number of the keyword line

	// Set on scenarios expanded from an outline: the outline's line and the
	// Examples row values, keyed by header.
	OutlineLine int
	Parameters  map[string]string
}

type Step struct {
	Keyword   string // Given, When, Then, And, But
	Text      string
	Line      int
	DataTable *table.DataTable
	DocString *docstring.DocString
}

type Examples struct {
	Name        string
	Description string
	Tags        []string
	Header      []string
	Rows        [][]string
	Line        int
	HeaderLine  int
	RowLines    []int // parallel to Rows
}

type ParseError struct {
	Message    string
	Line       int
	Column     int
	SourcePath string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.SourcePath, e.Line, e.Column, e.Message)
}

// CloneSteps copies each step. Tables and doc strings are shared.
func CloneSteps(steps []*Step) []*Step {
	out := make([]*Step, len(steps))
	for i, st := range steps {
		c := *st
		out[i] = &c
	}
	return out
}
