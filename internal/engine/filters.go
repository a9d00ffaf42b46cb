package engine

import (
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// binaryExtensions are never read, whatever the other settings.
var binaryExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".pdf":  true,
	".zip":  true,
	".exe":  true,
	".dll":  true,
	".so":   true,
}

// directories skipped when DefaultExcludes is enabled
var defaultExcludeDirs = map[string]bool{
	"vendor":           true,
	"dist":             true,
	"build":            true,
	"out":              true,
	"coverage":         true,
	".next":            true,
	".nuxt":            true,
	".turbo":           true,
	".cache":           true,
	"bower_components": true,
}

// suffixes treated as generated or noisy artifacts when DefaultExcludes is enabled
var defaultExcludeFileSuffixes = []string{
	".min.js", ".map", ".bundle.js",
	".webp", ".svg", ".ico",
	".gz", ".tar", ".tgz", ".7z",
	".wasm", ".woff", ".woff2", ".ttf",
}

// textExtensions are read as text regardless of the host MIME table.
var textExtensions = map[string]bool{
	".js": true, ".mjs": true, ".cjs": true, ".jsx": true,
	".ts": true, ".mts": true, ".cts": true, ".tsx": true,
	".json": true, ".yml": true, ".yaml": true, ".toml": true,
	".env": true, ".md": true, ".txt": true, ".sh": true,
	".py": true, ".go": true, ".rb": true, ".java": true,
}

func isTextExtension(rel string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(rel))]
}

func isBinaryExtension(rel string) bool {
	return binaryExtensions[strings.ToLower(filepath.Ext(rel))]
}

func isDefaultDirExcluded(name string) bool {
	return defaultExcludeDirs[name]
}

func isDefaultFileExcluded(lowerRel string) bool {
	if strings.HasSuffix(lowerRel, ".lock") {
		return true
	}
	for _, s := range defaultExcludeFileSuffixes {
		if strings.HasSuffix(lowerRel, s) {
			return true
		}
	}
	return false
}

// allowedByGlobs returns true if the given path is allowed by the include/exclude
// glob configuration. Include globs, if provided, act as a positive filter.
// Exclude globs are subtracted last. Matching uses forward-slash semantics.
func allowedByGlobs(relPath string, cfg Config) bool {
	rp := filepath.ToSlash(relPath)
	includes := expandGlobs(cfg.IncludeGlobs)
	excludes := expandGlobs(cfg.ExcludeGlobs)
	if len(includes) > 0 && !matchAnyGlob(rp, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(rp, excludes) {
		return false
	}
	return true
}

// ParseGlobsList splits a comma-separated glob list.
func ParseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func expandGlobs(globs []string) []string {
	if len(globs) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(globs))
	for _, g := range globs {
		out = append(out, g, trimGlobPrefix(g))
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(pathToMatch)); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}
