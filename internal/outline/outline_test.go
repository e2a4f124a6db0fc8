package outline

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftc/internal/parser"
)

const loginFeature = `Feature: Login
  @auth
  Scenario Outline: try login as <user>
    Given user "<user>"
    When password is "<pass>"
    Then result is "<outcome>"
  Examples:
    | user  | pass | outcome |
    | alice | 123  | success |
    | bob   | bad  | failure |
`

func outlineOf(t *testing.T, content string) *parser.Scenario {
	t.Helper()
	f, err := parser.ParseSource(content, "login.feature")
	require.NoError(t, err)
	require.NotEmpty(t, f.Scenarios)
	return f.Scenarios[0]
}

func stepTexts(sc *parser.Scenario) []string {
	var out []string
	for _, st := range sc.Steps {
		out = append(out, st.Text)
	}
	return out
}

func TestExpand_Login(t *testing.T) {
	scenarios, warnings, err := (&Expander{}).Expand(outlineOf(t, loginFeature))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, scenarios, 2)

	first := scenarios[0]
	assert.Equal(t, parser.TypeScenario, first.Type)
	assert.Equal(t, "try login as alice", first.Name)
	assert.Equal(t, []string{`user "alice"`, `password is "123"`, `result is "success"`}, stepTexts(first))
	assert.Equal(t, 9, first.Line)
	assert.Equal(t, 3, first.OutlineLine)
	assert.Equal(t, map[string]string{"user": "alice", "pass": "123", "outcome": "success"}, first.Parameters)
	assert.Equal(t, []string{"@auth"}, first.Tags)
	assert.Nil(t, first.Examples)

	assert.Equal(t, []string{`user "bob"`, `password is "bad"`, `result is "failure"`}, stepTexts(scenarios[1]))
	assert.Equal(t, 10, scenarios[1].Line)
}

func TestExpand_DoesNotMutateOutline(t *testing.T) {
	sc := outlineOf(t, loginFeature)
	_, _, err := (&Expander{}).Expand(sc)
	require.NoError(t, err)
	assert.Equal(t, `user "<user>"`, sc.Steps[0].Text)
}

func TestExpand_RowCountAndNoLeftoverPlaceholders(t *testing.T) {
	var b strings.Builder
	b.WriteString("Feature: f\n  Scenario Outline: o\n    Given <a> and <b>\n  Examples:\n    | a | b |\n")
	for i := 0; i < 7; i++ {
		fmt.Fprintf(&b, "    | a%d | b%d |\n", i, i)
	}
	scenarios, _, err := (&Expander{}).Expand(outlineOf(t, b.String()))
	require.NoError(t, err)
	require.Len(t, scenarios, 7)
	for _, sc := range scenarios {
		assert.NotContains(t, sc.Steps[0].Text, "<a>")
		assert.NotContains(t, sc.Steps[0].Text, "<b>")
	}
}

func TestExpand_TablesAndDocStrings(t *testing.T) {
	sc := outlineOf(t, `Feature: f
  Scenario Outline: o
    Given the users:
      | name   | role   |
      | <name> | <role> |
    And the payload:
      """<kind>
      {"name": "<name>"}
      """
  Examples:
    | name  | role  | kind |
    | alice | admin | text |
`)
	scenarios, _, err := (&Expander{}).Expand(sc)
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	steps := scenarios[0].Steps
	assert.Equal(t, [][]string{{"name", "role"}, {"alice", "admin"}}, steps[0].DataTable.Raw())
	assert.Equal(t, `{"name": "alice"}`, steps[1].DocString.Content)
	assert.Equal(t, "text", steps[1].DocString.ContentType)

	assert.Equal(t, [][]string{{"name", "role"}, {"<name>", "<role>"}}, sc.Steps[0].DataTable.Raw())
}

func TestExpand_MultipleExamplesInOrder(t *testing.T) {
	sc := outlineOf(t, `Feature: f
  Scenario Outline: o
    Given <x>
  @first
  Examples: one
    | x |
    | 1 |
    | 2 |
  Examples: two
    | x |
    | 3 |
`)
	scenarios, _, err := (&Expander{}).Expand(sc)
	require.NoError(t, err)
	require.Len(t, scenarios, 3)
	assert.Equal(t, []string{"1", "2", "3"}, []string{scenarios[0].Steps[0].Text, scenarios[1].Steps[0].Text, scenarios[2].Steps[0].Text})
	assert.Equal(t, []string{"@first"}, scenarios[0].Tags)
	assert.Empty(t, scenarios[2].Tags)
}

func TestExpand_MissingHeadersListsAll(t *testing.T) {
	sc := outlineOf(t, `Feature: f
  Scenario Outline: o <id>
    Given <a> and <b>
  Examples: ex
    | a |
    | 1 |
`)
	_, _, err := (&Expander{}).Expand(sc)
	var outlineErr *Error
	require.True(t, errors.As(err, &outlineErr))
	assert.Contains(t, outlineErr.Message, "<id>, <b>")
	assert.Contains(t, outlineErr.Message, `"ex"`)
	assert.Equal(t, 4, outlineErr.Line)
}

func TestExpand_UnusedHeaderWarns(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	sc := outlineOf(t, `Feature: f
  Scenario Outline: o
    Given <a>
  Examples:
    | a | extra |
    | 1 | 2     |
`)
	scenarios, warnings, err := NewExpander(logger, 0).Expand(sc)
	require.NoError(t, err)
	assert.Len(t, scenarios, 1)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, `"extra"`)
	assert.Equal(t, 5, warnings[0].Line)

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "o", hook.LastEntry().Data["outline"])
}

func TestExpand_RowLengthMismatchNamesRow(t *testing.T) {
	sc := &parser.Scenario{
		Type:  parser.TypeOutline,
		Name:  "o",
		Line:  2,
		Steps: []*parser.Step{{Keyword: "Given", Text: "<a>"}},
		Examples: []*parser.Examples{{
			Name:     "ex",
			Header:   []string{"a", "b"},
			Rows:     [][]string{{"1", "2"}, {"3"}},
			RowLines: []int{6, 7},
			Line:     4,
		}},
	}
	_, _, err := (&Expander{}).Expand(sc)
	var outlineErr *Error
	require.True(t, errors.As(err, &outlineErr))
	assert.Contains(t, outlineErr.Message, "row 2")
	assert.Equal(t, 7, outlineErr.Line)
}

func TestExpand_BadHeaders(t *testing.T) {
	base := func(header []string) *parser.Scenario {
		return &parser.Scenario{
			Type:     parser.TypeOutline,
			Name:     "o",
			Steps:    []*parser.Step{{Keyword: "Given", Text: "x"}},
			Examples: []*parser.Examples{{Name: "ex", Header: header}},
		}
	}
	_, _, err := (&Expander{}).Expand(base(nil))
	require.ErrorContains(t, err, "no header row")

	_, _, err = (&Expander{}).Expand(base([]string{"a", "a"}))
	require.ErrorContains(t, err, `duplicate header "a"`)

	_, _, err = (&Expander{}).Expand(base([]string{"a", ""}))
	require.ErrorContains(t, err, "empty header")
}

func TestExpand_NotAnOutline(t *testing.T) {
	_, _, err := (&Expander{}).Expand(&parser.Scenario{Type: parser.TypeScenario, Name: "s"})
	require.Error(t, err)
}

func TestExpand_CeilingTruncatesAndWarns(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	var b strings.Builder
	b.WriteString("Feature: f\n  Scenario Outline: o\n    Given <n>\n  Examples:\n    | n |\n")
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, "    | %d |\n", i)
	}
	scenarios, warnings, err := NewExpander(logger, 3).Expand(outlineOf(t, b.String()))
	require.NoError(t, err)
	assert.Len(t, scenarios, 3)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "stopped at 3 scenarios, 2 Examples rows skipped")
	assert.NotEmpty(t, hook.Entries)
}

func TestExpand_ValuesAreNotReexpanded(t *testing.T) {
	sc := outlineOf(t, `Feature: f
  Scenario Outline: o
    Given <a>
  Examples:
    | a     |
    | <zzz> |
`)
	scenarios, _, err := (&Expander{}).Expand(sc)
	require.NoError(t, err)
	assert.Equal(t, "<zzz>", scenarios[0].Steps[0].Text)
}

func TestFindPlaceholders(t *testing.T) {
	sc := outlineOf(t, `Feature: f
  Scenario Outline: <a> vs <b>
    Given <a> then <a>
  Examples:
    | a | b |
    | 1 | 2 |
`)
	phs := FindPlaceholders(sc)
	require.Len(t, phs, 4)
	assert.Equal(t, Placeholder{Name: "a", StepIndex: -1, Start: 0, End: 3}, phs[0])
	assert.Equal(t, Placeholder{Name: "b", StepIndex: -1, Start: 7, End: 10}, phs[1])
	assert.Equal(t, Placeholder{Name: "a", StepIndex: 0, Start: 0, End: 3}, phs[2])
	assert.Equal(t, Placeholder{Name: "a", StepIndex: 0, Start: 9, End: 12}, phs[3])
}

func TestMergeExamples(t *testing.T) {
	a := &parser.Examples{Name: "a", Tags: []string{"@x"}, Header: []string{"user", "pass"}, Rows: [][]string{{"alice", "1"}}, RowLines: []int{5}}
	b := &parser.Examples{Name: "b", Tags: []string{"@x", "@y"}, Header: []string{"pass", "role"}, Rows: [][]string{{"2", "admin"}}, RowLines: []int{9}}

	m := MergeExamples(a, b)
	assert.Equal(t, []string{"user", "pass", "role"}, m.Header)
	assert.Equal(t, [][]string{{"alice", "1", ""}, {"", "2", "admin"}}, m.Rows)
	assert.Equal(t, []int{5, 9}, m.RowLines)
	assert.Equal(t, []string{"@x", "@y"}, m.Tags)
	assert.Nil(t, MergeExamples())
}

func TestFilterExamples(t *testing.T) {
	ex := &parser.Examples{
		Name:     "ex",
		Header:   []string{"user", "outcome"},
		Rows:     [][]string{{"alice", "success"}, {"bob", "failure"}, {"carl", "success"}},
		RowLines: []int{3, 4, 5},
	}
	got := FilterExamples(ex, func(row map[string]string) bool { return row["outcome"] == "success" })
	assert.Equal(t, [][]string{{"alice", "success"}, {"carl", "success"}}, got.Rows)
	assert.Equal(t, []int{3, 5}, got.RowLines)
	assert.Len(t, ex.Rows, 3)
}

func TestExpander_DefaultLoggerIsShared(t *testing.T) {
	var zero Expander
	assert.Same(t, discard, zero.logger())
	assert.Same(t, discard, zero.logger())
	assert.Same(t, discard, NewExpander(nil, 0).Logger)

	logger := logrus.New()
	assert.Same(t, logger, NewExpander(logger, 0).logger())
}
