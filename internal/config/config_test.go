package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)

	assert.Equal(t, "features", cfg.FeaturesDir)
	assert.Equal(t, []string{"**/*.feature"}, cfg.Include)
	assert.Empty(t, cfg.Exclude)
	assert.Equal(t, 1000, cfg.MaxExamples)
	assert.True(t, cfg.FormatsDocStrings())
	assert.Equal(t, filepath.Join("features", "ftc.db"), cfg.DatabasePath())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `features_dir: specs
exclude:
  - "wip/**"
tags: "@smoke and not @wip"
max_examples: 50
format_docstrings: false
strict_keywords: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "specs", cfg.FeaturesDir)
	assert.Equal(t, []string{"**/*.feature"}, cfg.Include)
	assert.Equal(t, []string{"wip/**"}, cfg.Exclude)
	assert.Equal(t, "@smoke and not @wip", cfg.Tags)
	assert.Equal(t, 50, cfg.MaxExamples)
	assert.False(t, cfg.FormatsDocStrings())
	assert.True(t, cfg.StrictKeywords)
	assert.Equal(t, filepath.Join("specs", "ftc.db"), cfg.DatabasePath())
}

func TestLoad_ExplicitDatabase(t *testing.T) {
	cfg, err := Load(writeConfig(t, "database: catalog.db\n"))
	require.NoError(t, err)
	assert.Equal(t, "catalog.db", cfg.DatabasePath())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeConfig(t, "features_dir: [unterminated\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "max_examples: -1\n"))
	require.ErrorContains(t, err, "max_examples")

	_, err = Load(writeConfig(t, "features_dir: \"\"\n"))
	require.ErrorContains(t, err, "features_dir")
}

func TestWrite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := Default()
	cfg.Tags = "@fast"
	require.NoError(t, cfg.Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
