package types

// DefaultRuleName is reported for findings whose rule carries no name.
const DefaultRuleName = "unnamed"

// DefaultRuleFlags is applied when a rule does not specify flags.
const DefaultRuleFlags = "g"

// Rule is a named regular expression used to flag secret-like content.
// Patterns use JavaScript regular-expression syntax; Flags uses the JS flag
// letters (g, i, m, s, u, y, d).
type Rule struct {
	Name    string `json:"name" yaml:"name"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Flags   string `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// DisplayName returns the rule name, or DefaultRuleName when absent.
func (r Rule) DisplayName() string {
	if r.Name == "" {
		return DefaultRuleName
	}
	return r.Name
}

// EffectiveFlags returns the configured flags, or DefaultRuleFlags when absent.
func (r Rule) EffectiveFlags() string {
	if r.Flags == "" {
		return DefaultRuleFlags
	}
	return r.Flags
}

// Finding is a single (rule, line) match. LineNumber is 1-based and Line is
// the matched line with surrounding whitespace trimmed.
type Finding struct {
	Rule       string `json:"rule"`
	LineNumber int    `json:"lineNumber"`
	Line       string `json:"line"`
	Pattern    string `json:"pattern"`
}

// FileFindings groups the findings of one file. Files without matches are
// never represented.
type FileFindings struct {
	File    string    `json:"file"`
	Matches []Finding `json:"matches"`
}

// ImportKind tells which recognizer produced an ImportRecord.
type ImportKind string

const (
	ImportES      ImportKind = "es"
	ImportRequire ImportKind = "require"
	ImportBare    ImportKind = "bare"
)

// ImportRecord is one import/require statement: the raw specifier and the
// identifiers it binds (none for bare requires and side-effect imports).
type ImportRecord struct {
	SourceFile  string     `json:"sourceFile"`
	Specifier   string     `json:"specifier"`
	Identifiers []string   `json:"identifiers,omitempty"`
	Kind        ImportKind `json:"kind"`
}

// UnusedImports lists identifiers bound by imports in File that are never
// referenced outside import statements.
type UnusedImports struct {
	File        string   `json:"file"`
	Identifiers []string `json:"identifiers"`
}
