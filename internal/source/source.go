// Package source finds feature files on disk and normalizes their text.
package source

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultInclude matches every .feature file below the root.
const DefaultInclude = "**/*.feature"

// File is a feature file ready for the pipeline. Path is slash separated and
// relative to the loader root when discovered.
type File struct {
	Path string
	Text string
}

// Loader discovers feature files below Root.
type Loader struct {
	root    string
	include []glob.Glob
	exclude []glob.Glob
}

// NewLoader compiles the include and exclude patterns. Patterns are matched
// against slash separated paths relative to root; "**" crosses directories.
// No include patterns means DefaultInclude.
func NewLoader(root string, include, exclude []string) (*Loader, error) {
	if len(include) == 0 {
		include = []string{DefaultInclude}
	}
	l := &Loader{root: root}
	var err error
	if l.include, err = compile(include); err != nil {
		return nil, err
	}
	if l.exclude, err = compile(exclude); err != nil {
		return nil, err
	}
	return l, nil
}

func compile(patterns []string) ([]glob.Glob, error) {
	var out []glob.Glob
	for _, p := range patterns {
		forms := []string{p}
		if rest, ok := strings.CutPrefix(p, "**/"); ok {
			forms = append(forms, rest)
		}
		for _, f := range forms {
			g, err := glob.Compile(f, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
			}
			out = append(out, g)
		}
	}
	return out, nil
}

func matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Match reports whether rel, relative to the root, is selected.
func (l *Loader) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	return matchAny(l.include, rel) && !matchAny(l.exclude, rel)
}

// Load reads every selected file below the root, sorted by path.
func (l *Loader) Load() ([]File, error) {
	if _, err := os.Stat(l.root); err != nil {
		return nil, fmt.Errorf("reading %s: %w", l.root, err)
	}

	var paths []string
	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}
		if l.Match(rel) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", l.root, err)
	}
	sort.Strings(paths)

	files := make([]File, 0, len(paths))
	for _, p := range paths {
		f, err := ReadFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// ReadFile reads and normalizes one file.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading %s: %w", path, err)
	}
	text, err := Normalize(data)
	if err != nil {
		return File{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return File{Path: filepath.ToSlash(path), Text: text}, nil
}

// Normalize decodes data as UTF-8, honouring a UTF-8 or UTF-16 byte order
// mark, and converts CRLF and lone CR line endings to LF.
func Normalize(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", err
	}
	out = bytes.ReplaceAll(out, []byte("\r\n"), []byte("\n"))
	out = bytes.ReplaceAll(out, []byte("\r"), []byte("\n"))
	return string(out), nil
}
