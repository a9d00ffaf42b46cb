// Package codeguardian provides the command-line interface. The root command
// scans (as does the scan subcommand); init, rules, baseline and completion
// are helpers. Exit codes: 0 success, 1 fatal error, 2 findings in CI mode.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/shivarm/code-guardian/cmd/codeguardian"
//	func main() { codeguardian.Execute() }
package codeguardian
