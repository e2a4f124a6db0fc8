package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func paths(files []File) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func TestLoad_DefaultIncludeWalksSubdirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "login.feature"), "Feature: Login\n")
	writeFile(t, filepath.Join(root, "billing", "invoice.feature"), "Feature: Invoice\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "not a feature")

	l, err := NewLoader(root, nil, nil)
	require.NoError(t, err)
	files, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.ToSlash(filepath.Join(root, "billing", "invoice.feature")),
		filepath.ToSlash(filepath.Join(root, "login.feature")),
	}, paths(files))
	assert.Equal(t, "Feature: Login\n", files[1].Text)
}

func TestLoad_Exclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "login.feature"), "Feature: Login\n")
	writeFile(t, filepath.Join(root, "wip", "draft.feature"), "Feature: Draft\n")

	l, err := NewLoader(root, nil, []string{"wip/**"})
	require.NoError(t, err)
	files, err := l.Load()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0].Path, "login.feature")
}

func TestMatch(t *testing.T) {
	l, err := NewLoader(".", []string{"**/*.feature", "*.ft"}, []string{"**/skip_*"})
	require.NoError(t, err)

	assert.True(t, l.Match("a.feature"))
	assert.True(t, l.Match("deep/nested/a.feature"))
	assert.True(t, l.Match("legacy.ft"))
	assert.False(t, l.Match("dir/legacy.ft"))
	assert.False(t, l.Match("dir/skip_me.feature"))
	assert.False(t, l.Match("a.feature.bak"))
}

func TestNewLoader_InvalidPattern(t *testing.T) {
	_, err := NewLoader(".", []string{"[unclosed"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[unclosed")
}

func TestLoad_MissingRoot(t *testing.T) {
	l, err := NewLoader(filepath.Join(t.TempDir(), "nope"), nil, nil)
	require.NoError(t, err)
	_, err = l.Load()
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want string
	}{
		{"plain", []byte("Feature: x\n"), "Feature: x\n"},
		{"crlf", []byte("Feature: x\r\n  Scenario: y\r\n"), "Feature: x\n  Scenario: y\n"},
		{"lone cr", []byte("a\rb"), "a\nb"},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "Feature: x"...), "Feature: x"},
		{"utf16le bom", []byte{0xFF, 0xFE, 'F', 0, 'e', 0}, "Fe"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.feature")
	writeFile(t, path, "Feature: a\r\n")

	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Feature: a\n", f.Text)
	assert.Equal(t, filepath.ToSlash(path), f.Path)

	_, err = ReadFile(path + ".missing")
	require.Error(t, err)
}
