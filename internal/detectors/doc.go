// Package detectors is the secret matcher. Rules carry JavaScript-syntax
// regular expressions and flags; each (rule, line) match yields one finding.
package detectors
