// Package core provides a small, stable facade over codeguardian's internal
// engine for external integrations, without exposing internal implementation
// packages.
//
// Example:
//
//	cfg := core.Config{Root: ".", Rules: core.DefaultRules(), Unused: true}
//	findings, err := core.Scan(ctx, cfg)
//	if err != nil { /* handle */ }
//	_ = core.MarshalFindings(os.Stdout, findings)
package core
