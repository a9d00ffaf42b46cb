package imports

import (
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/shivarm/code-guardian/internal/types"
)

const wordPatternCacheSize = 1024

var wordPatterns, _ = lru.New[string, *regexp.Regexp](wordPatternCacheSize)

// StripImports removes ES import statements and CommonJS variable-binding
// requires from content. Bare requires are left in place.
func StripImports(content string) string {
	code := reESImport.ReplaceAllLiteralString(content, "")
	return reRequireVar.ReplaceAllLiteralString(code, "")
}

// UnusedIdentifiers returns identifiers bound by records that never occur as
// a whole word in content once import statements are removed. Each identifier
// is reported once, in record order.
func UnusedIdentifiers(content string, records []types.ImportRecord) []string {
	code := StripImports(content)
	var unused []string
	seen := map[string]bool{}
	for _, r := range records {
		for _, id := range r.Identifiers {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			if !wordPattern(id).MatchString(code) {
				unused = append(unused, id)
			}
		}
	}
	return unused
}

func wordPattern(id string) *regexp.Regexp {
	if re, ok := wordPatterns.Get(id); ok {
		return re
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(id) + `\b`)
	wordPatterns.Add(id, re)
	return re
}
