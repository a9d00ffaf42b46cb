// Package engine drives a codeguardian scan. It enumerates the file corpus
// (working tree or staged files), runs the secret matcher, the import
// extractor and the usage checker per file, then detects unused modules over
// the collected import map. This package is internal; external consumers
// should use the stable facade in pkg/core.
package engine
