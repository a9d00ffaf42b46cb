package imports

import (
	"regexp"
	"strings"

	"github.com/shivarm/code-guardian/internal/types"
)

var (
	// import <clause> from "<path>", clause optional for side-effect imports
	reESImport = regexp.MustCompile(`\bimport\s+(?:([\w$*{}\s,]+?)\s+from\s+)?["']([^"'\n]+)["']`)
	// const|let|var <binding> = require("<path>")
	reRequireVar = regexp.MustCompile(`\b(?:const|let|var)\s+([^=;]+?)\s*=\s*require\(\s*["']([^"'\n]+)["']\s*\)`)
	// require("<path>")
	reRequire = regexp.MustCompile(`\brequire\(\s*["']([^"'\n]+)["']\s*\)`)

	reNamespace = regexp.MustCompile(`^\*\s+as\s+([\w$]+)`)
	reAlias     = regexp.MustCompile(`\s+as\s+`)
)

// Extractor turns file content into import records.
type Extractor interface {
	Extract(path, content string) []types.ImportRecord
}

// RegexExtractor recognizes ES imports, CommonJS variable-binding requires
// and bare requires, in that order.
type RegexExtractor struct{}

// Default is the extractor used when none is configured.
var Default Extractor = RegexExtractor{}

// Extract runs the three recognizer passes over content. Records of each pass
// appear in source order; passes are concatenated.
func (RegexExtractor) Extract(path, content string) []types.ImportRecord {
	var out []types.ImportRecord

	for _, m := range reESImport.FindAllStringSubmatch(content, -1) {
		out = append(out, types.ImportRecord{
			SourceFile:  path,
			Specifier:   m[2],
			Identifiers: esIdentifiers(m[1]),
			Kind:        types.ImportES,
		})
	}

	bound := reRequireVar.FindAllStringSubmatchIndex(content, -1)
	for _, loc := range bound {
		out = append(out, types.ImportRecord{
			SourceFile:  path,
			Specifier:   content[loc[4]:loc[5]],
			Identifiers: requireIdentifiers(content[loc[2]:loc[3]]),
			Kind:        types.ImportRequire,
		})
	}

	for _, loc := range reRequire.FindAllStringSubmatchIndex(content, -1) {
		if within(loc[0], loc[1], bound) {
			continue
		}
		out = append(out, types.ImportRecord{
			SourceFile: path,
			Specifier:  content[loc[2]:loc[3]],
			Kind:       types.ImportBare,
		})
	}
	return out
}

func within(start, end int, spans [][]int) bool {
	for _, s := range spans {
		if start >= s[0] && end <= s[1] {
			return true
		}
	}
	return false
}

// esIdentifiers parses an ES import clause. Namespace imports bind the alias,
// named imports bind the name before any "as", and anything else is treated
// as a default import bound by its first comma-delimited token.
func esIdentifiers(clause string) []string {
	clause = strings.TrimSpace(clause)
	switch {
	case clause == "":
		return nil
	case strings.HasPrefix(clause, "*"):
		if m := reNamespace.FindStringSubmatch(clause); m != nil {
			return []string{m[1]}
		}
		return nil
	case strings.HasPrefix(clause, "{"):
		inner := strings.TrimSuffix(strings.TrimPrefix(clause, "{"), "}")
		var ids []string
		for _, part := range strings.Split(inner, ",") {
			name := strings.TrimSpace(reAlias.Split(strings.TrimSpace(part), 2)[0])
			if name != "" {
				ids = append(ids, name)
			}
		}
		return ids
	default:
		return firstToken(clause)
	}
}

// requireIdentifiers parses the binding side of a CommonJS require. Object
// patterns are split on commas without alias handling.
func requireIdentifiers(binding string) []string {
	binding = strings.TrimSpace(binding)
	if !strings.HasPrefix(binding, "{") {
		return firstToken(binding)
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(binding, "{"), "}")
	var ids []string
	for _, part := range strings.Split(inner, ",") {
		if name := strings.TrimSpace(part); name != "" {
			ids = append(ids, name)
		}
	}
	return ids
}

func firstToken(s string) []string {
	tok := strings.TrimSpace(strings.Split(s, ",")[0])
	if tok == "" {
		return nil
	}
	return []string{tok}
}

// Specifiers flattens records into the raw specifier list of one file.
func Specifiers(records []types.ImportRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Specifier)
	}
	return out
}
