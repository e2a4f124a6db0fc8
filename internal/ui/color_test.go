package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 file", plural(1, "file"))
	assert.Equal(t, "0 files", plural(0, "file"))
	assert.Equal(t, "3 scenarios", plural(3, "scenario"))
}

func TestSyncLines(t *testing.T) {
	var buf bytes.Buffer
	NewLine(&buf, "features/a.feature", 1)
	TrkLine(&buf, "features/b.feature", 4)
	DelLine(&buf, "features/c.feature")
	ErrLine(&buf, "features/d.feature", errors.New("boom"))
	SummaryLine(&buf, 2, 5)

	out := buf.String()
	assert.Contains(t, out, "features/a.feature (1 scenario)")
	assert.Contains(t, out, "features/b.feature (4 scenarios)")
	assert.Contains(t, out, "features/c.feature")
	assert.Contains(t, out, "features/d.feature: boom")
	assert.Contains(t, out, "synced 2 files, 5 scenarios\n")
}

func TestIssueLine(t *testing.T) {
	var buf bytes.Buffer
	IssueLine(&buf, "features/a.feature", 7, "warning", "scenario has no name")

	assert.Contains(t, buf.String(), "features/a.feature:7: ")
	assert.Contains(t, buf.String(), "warning")
	assert.Contains(t, buf.String(), ": scenario has no name\n")
}

func TestShowGherkin_KeepsText(t *testing.T) {
	var buf bytes.Buffer
	ShowGherkin(&buf, "@smoke\nScenario: login\n  Given a user\n    | a | b |")

	out := buf.String()
	assert.Contains(t, out, "@smoke")
	assert.Contains(t, out, ": login")
	assert.Contains(t, out, " a user")
	assert.Contains(t, out, "    | a | b |\n")
}

func TestHighlight_PlainLineUnchanged(t *testing.T) {
	assert.Equal(t, "    | a | b |", highlight("    | a | b |"))
	assert.Equal(t, "", highlight(""))
}
