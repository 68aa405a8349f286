// Package scan discovers and reads markdown files under a documentation root.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"
)

// DefaultPattern matches markdown files at any depth under the root.
const DefaultPattern = "**.md"

// Source discovers markdown files under a root directory and reads them.
// The filesystem is abstracted behind afero so tests run against an
// in-memory tree.
type Source struct {
	fs      afero.Fs
	root    string
	matcher glob.Glob
}

// New builds a Source for the given root. An empty pattern falls back to
// DefaultPattern. The pattern is matched against root-relative,
// slash-separated paths.
func New(fs afero.Fs, root, pattern string) (*Source, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	matcher, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("compile glob %q: %w", pattern, err)
	}
	return &Source{fs: fs, root: root, matcher: matcher}, nil
}

// Discover walks the root and returns matching files as root-relative
// slash paths in sorted order, so discovery order is deterministic. Zero
// matches is a valid empty result; an unreadable root is an error.
func (s *Source) Discover() ([]string, error) {
	if _, err := s.fs.Stat(s.root); err != nil {
		return nil, fmt.Errorf("stat scan root: %w", err)
	}

	var files []string
	walkErr := afero.Walk(s.fs, s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if s.matcher.Match(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk scan root: %w", walkErr)
	}
	sort.Strings(files)
	return files, nil
}

// ReadFile returns the UTF-8 content of a root-relative file.
func (s *Source) ReadFile(path string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, filepath.Join(s.root, filepath.FromSlash(path)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
