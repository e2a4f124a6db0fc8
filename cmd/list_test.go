package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runList(t *testing.T, tags string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunList(&buf, tags))
	return buf.String()
}

func TestList_SingleScenario(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "login.feature", `Feature: Login
  Scenario: User logs in
    Given a user
`)
	runSync(t)

	out := runList(t, "")

	assert.Contains(t, out, "@ft:1")
	assert.Contains(t, out, "login.feature")
	assert.Contains(t, out, "User logs in")
}

func TestList_ExpandedOutlineRows(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "login.feature", loginFeature)
	runSync(t)

	out := runList(t, "")

	assert.Contains(t, out, "User logs in")
	assert.Contains(t, out, "Login as alice")
	assert.Contains(t, out, "Login as bob")
}

func TestList_SortedByFilePathThenLine(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "login.feature", `Feature: Login
  Scenario: User logs in
    Given a user
`)
	writeFeature(t, "checkout.feature", `Feature: Checkout
  Scenario: User completes purchase
    Given a cart
`)
	runSync(t)

	out := runList(t, "")

	checkoutIdx := strings.Index(out, "checkout.feature")
	loginIdx := strings.Index(out, "login.feature")
	require.True(t, checkoutIdx >= 0, "output should contain checkout.feature")
	require.True(t, loginIdx >= 0, "output should contain login.feature")
	assert.True(t, checkoutIdx < loginIdx, "checkout.feature should appear before login.feature")
}

func TestList_FileNameShowsBasename(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "billing/checkout.feature", `Feature: Checkout
  Scenario: User completes purchase
    Given a cart
`)
	runSync(t)

	out := runList(t, "")

	assert.Contains(t, out, "checkout.feature")
	assert.NotContains(t, out, "billing/")
}

func TestList_ShowsTags(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "login.feature", loginFeature)
	runSync(t)

	out := runList(t, "")

	assert.Contains(t, out, "@smoke")
	assert.Contains(t, out, "@regression")
}

func TestList_FilterByTagExpression(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "login.feature", loginFeature)
	runSync(t)

	cases := []struct {
		filter  string
		want    []string
		notWant []string
	}{
		{"@smoke", []string{"User logs in"}, []string{"Login as alice"}},
		{"not @smoke", []string{"Login as alice", "Login as bob"}, []string{"User logs in"}},
		{"@smoke or @regression", []string{"User logs in", "Login as bob"}, nil},
		{"@smoke and @regression", nil, []string{"User logs in", "Login as alice"}},
	}
	for _, tc := range cases {
		t.Run(tc.filter, func(t *testing.T) {
			out := runList(t, tc.filter)
			for _, name := range tc.want {
				assert.Contains(t, out, name)
			}
			for _, name := range tc.notWant {
				assert.NotContains(t, out, name)
			}
		})
	}
}

func TestList_ConfiguredFilterIsDefault(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "login.feature", loginFeature)
	runSync(t)
	writeConfigFile(t, "tags: \"@regression\"\n")

	out := runList(t, "")
	assert.NotContains(t, out, "User logs in")
	assert.Contains(t, out, "Login as alice")

	out = runList(t, "@smoke")
	assert.Contains(t, out, "User logs in")
}

func TestList_InvalidFilter(t *testing.T) {
	inTempDir(t)
	runInit(t)

	var buf bytes.Buffer
	err := RunList(&buf, "@smoke and (")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid tag filter")
}

func TestList_FilterNoMatchesEmpty(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "login.feature", loginFeature)
	runSync(t)

	assert.Empty(t, runList(t, "@nonexistent"))
}

func TestList_EmptyWhenNoScenarios(t *testing.T) {
	inTempDir(t)
	runInit(t)

	out := runList(t, "")

	assert.Empty(t, out)
}

func TestList_ColumnsAligned(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "a.feature", `Feature: A
  Scenario: Short
    Given x

  Scenario: A much longer scenario name
    Given y
`)
	runSync(t)

	out := runList(t, "")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Index(lines[0], "a.feature"), strings.Index(lines[1], "a.feature"))
}

func TestList_RequiresInit(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunList(&buf, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftc init")
}
