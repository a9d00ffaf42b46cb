package core

import (
	"context"

	"github.com/shivarm/code-guardian/internal/config"
	"github.com/shivarm/code-guardian/internal/detectors"
	"github.com/shivarm/code-guardian/internal/engine"
	"github.com/shivarm/code-guardian/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Config        = engine.Config
	Result        = engine.Result
	Rule          = types.Rule
	Finding       = types.Finding
	FileFindings  = types.FileFindings
	UnusedImports = types.UnusedImports
)

// Scan runs a full scan and returns the secret findings per file.
func Scan(ctx context.Context, cfg Config) ([]FileFindings, error) {
	return engine.Scan(ctx, cfg)
}

// ScanWithStats runs a full scan and returns findings, hygiene issues and
// statistics.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	return engine.ScanWithStats(ctx, cfg)
}

// DefaultRules returns the built-in rule set.
func DefaultRules() []Rule { return config.Default().Rules }

// LoadRules resolves the rule configuration for root the way the CLI does:
// explicit path, then repo-local files, then the built-in rules.
func LoadRules(explicitPath, root string) ([]Rule, error) {
	cfg, _, err := config.Load(explicitPath, root)
	if err != nil {
		return nil, err
	}
	return cfg.Rules, nil
}

// MatchContent applies rules to a single piece of content.
func MatchContent(content string, rules []Rule) []Finding {
	return detectors.Match(content, rules)
}
