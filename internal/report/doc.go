// Package report renders scan results for people (table, text) and for
// machines (JSON, SARIF), and manages the baseline of accepted findings.
package report
