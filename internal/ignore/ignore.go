// Package ignore decides which repository paths are excluded from a scan,
// using gitignore semantics.
package ignore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// DefaultPatterns are always excluded, whatever .gitignore says.
func DefaultPatterns() []string {
	return []string{
		"node_modules",
		".git",
		"package-lock.json",
		"yarn.lock",
		"pnpm-lock.yaml",
		".codeguardiancache.json",
		".codeguardian_last_scan.json",
		".codeguardian_audit.jsonl",
	}
}

// Matcher matches slash- or OS-separated paths relative to the scan root.
type Matcher struct {
	gi *gitignore.GitIgnore
}

// New compiles gitignore-style lines; blank lines and comments are skipped.
func New(lines ...string) Matcher {
	return Matcher{gi: gitignore.CompileIgnoreLines(lines...)}
}

// Load builds the matcher for root: the root .gitignore (when present), the
// default patterns, then extra patterns such as configured ignoreFiles.
func Load(root string, extra []string) (Matcher, error) {
	var lines []string
	b, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	switch {
	case err == nil:
		lines = append(lines, strings.Split(string(b), "\n")...)
	case !errors.Is(err, fs.ErrNotExist):
		return New(append(DefaultPatterns(), extra...)...), err
	}
	lines = append(lines, DefaultPatterns()...)
	lines = append(lines, extra...)
	return New(lines...), nil
}

// Match reports whether the file at rel is ignored.
func (m Matcher) Match(rel string) bool {
	if m.gi == nil {
		return false
	}
	return m.gi.MatchesPath(filepath.ToSlash(rel))
}

// MatchDir reports whether the directory at rel is ignored, honouring
// directory-only patterns such as "dist/".
func (m Matcher) MatchDir(rel string) bool {
	if m.gi == nil {
		return false
	}
	p := filepath.ToSlash(rel)
	return m.gi.MatchesPath(p) || m.gi.MatchesPath(p+"/")
}
