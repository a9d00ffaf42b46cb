// Package graph resolves relative import specifiers to files and reports
// source modules that no other module imports.
package graph

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ImportMap maps an absolute source path to the raw specifiers it imports.
type ImportMap map[string][]string

// ImportedSet holds absolute paths of files imported by at least one other
// file.
type ImportedSet map[string]struct{}

// Has reports whether path is in the set.
func (s ImportedSet) Has(path string) bool {
	_, ok := s[path]
	return ok
}

// ExistsFunc reports whether a candidate path names an existing file.
type ExistsFunc func(path string) bool

// FileExists is the on-disk ExistsFunc. Directories do not count.
func FileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

var (
	entryPointRe = regexp.MustCompile(`(?i)\b(index|cli|main)\.(js|ts)\b`)

	sourceExts = []string{".js", ".ts"}

	// substrings that mark tests, fixtures and tooling files
	excludedMarkers = []string{".test", "spec", "config", "setup"}
)

// IsSource reports whether path has a JS/TS extension.
func IsSource(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range sourceExts {
		if ext == e {
			return true
		}
	}
	return false
}

// IsEligible reports whether path is a candidate for unused-module
// reporting: a JS/TS source whose path contains none of the test, spec,
// config or setup markers anywhere (plain substring match).
func IsEligible(path string) bool {
	if !IsSource(path) {
		return false
	}
	for _, m := range excludedMarkers {
		if strings.Contains(path, m) {
			return false
		}
	}
	return true
}

// IsEntryPoint reports whether the basename of path marks an entry point
// (index, cli or main with a .js or .ts extension, any case).
func IsEntryPoint(path string) bool {
	return entryPointRe.MatchString(filepath.Base(path))
}

// IsRelative reports whether a specifier is a relative path.
func IsRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// Resolver maps relative specifiers to files.
type Resolver struct {
	Exists ExistsFunc
}

// NewResolver returns a Resolver; a nil exists defaults to FileExists.
func NewResolver(exists ExistsFunc) *Resolver {
	if exists == nil {
		exists = FileExists
	}
	return &Resolver{Exists: exists}
}

// Candidates lists the paths tried for specifier imported from the file at
// from: the joined path, then with .js, then with .ts.
func Candidates(from, specifier string) []string {
	base := filepath.Join(filepath.Dir(from), filepath.FromSlash(specifier))
	return []string{base, base + ".js", base + ".ts"}
}

// Resolve returns the first existing candidate for specifier. Package
// specifiers never resolve.
func (r *Resolver) Resolve(from, specifier string) (string, bool) {
	if !IsRelative(specifier) {
		return "", false
	}
	for _, c := range Candidates(from, specifier) {
		if r.Exists(c) {
			return c, true
		}
	}
	return "", false
}

// ImportedSet resolves every relative specifier in m.
func (r *Resolver) ImportedSet(m ImportMap) ImportedSet {
	set := ImportedSet{}
	for file, specs := range m {
		for _, spec := range specs {
			if p, ok := r.Resolve(file, spec); ok {
				set[p] = struct{}{}
			}
		}
	}
	return set
}

// FindUnusedModules returns the files that are neither imported by another
// file in m nor entry points, in input order. Relative file paths are made
// absolute against root before lookup.
func FindUnusedModules(files []string, root string, m ImportMap, exists ExistsFunc) []string {
	imported := NewResolver(exists).ImportedSet(m)
	var unused []string
	for _, f := range files {
		if imported.Has(absPath(root, f)) || IsEntryPoint(f) {
			continue
		}
		unused = append(unused, f)
	}
	return unused
}

func absPath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
