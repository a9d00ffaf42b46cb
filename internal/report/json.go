package report

import (
	"encoding/json"
	"io"

	"github.com/shivarm/code-guardian/internal/types"
)

// JSONStats carries run statistics in machine output.
type JSONStats struct {
	FilesScanned int     `json:"filesScanned"`
	DurationSec  float64 `json:"durationSeconds"`
	MemDelta     int64   `json:"memoryDeltaBytes"`
	Suppressed   int     `json:"suppressed,omitempty"`
}

type jsonDoc struct {
	Findings      []types.FileFindings  `json:"findings"`
	UnusedImports []types.UnusedImports `json:"unusedImports"`
	UnusedModules []string              `json:"unusedModules"`
	Clean         bool                  `json:"clean"`
	Stats         JSONStats             `json:"stats"`
}

// WriteJSON writes the results as a single JSON document. Empty groups are
// written as empty arrays rather than null.
func WriteJSON(w io.Writer, res Results, opts PrintOptions) error {
	doc := jsonDoc{
		Findings:      res.Findings,
		UnusedImports: res.UnusedImports,
		UnusedModules: res.UnusedModules,
		Clean:         res.Clean(),
		Stats: JSONStats{
			FilesScanned: opts.FilesScanned,
			DurationSec:  opts.Duration.Seconds(),
			MemDelta:     opts.MemDelta,
			Suppressed:   opts.Suppressed,
		},
	}
	if doc.Findings == nil {
		doc.Findings = []types.FileFindings{}
	}
	if doc.UnusedImports == nil {
		doc.UnusedImports = []types.UnusedImports{}
	}
	if doc.UnusedModules == nil {
		doc.UnusedModules = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
