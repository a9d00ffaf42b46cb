package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/shivarm/code-guardian/internal/types"
)

// DefaultBaselineFile is the baseline path used when none is given.
const DefaultBaselineFile = "codeguardian.baseline.json"

// Baseline is a set of accepted findings. Keys are hashes of file, rule and
// trimmed line, so the file never holds secret text and line moves do not
// resurface a finding.
type Baseline struct {
	Items map[string]bool `json:"items"`
}

func LoadBaseline(path string) (Baseline, error) {
	b := Baseline{Items: map[string]bool{}}
	f, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := json.Unmarshal(f, &b); err != nil {
		return Baseline{Items: map[string]bool{}}, fmt.Errorf("parse baseline %s: %w", path, err)
	}
	if b.Items == nil {
		b.Items = map[string]bool{}
	}
	return b, nil
}

func SaveBaseline(path string, findings []types.FileFindings) error {
	b := Baseline{Items: map[string]bool{}}
	for _, ff := range findings {
		for _, m := range ff.Matches {
			b.Items[key(ff.File, m)] = true
		}
	}
	buf, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// FilterNewFindings drops findings present in base. Files left without
// matches are dropped too. It returns the kept findings and the number
// suppressed.
func FilterNewFindings(findings []types.FileFindings, base Baseline) ([]types.FileFindings, int) {
	var out []types.FileFindings
	suppressed := 0
	for _, ff := range findings {
		var kept []types.Finding
		for _, m := range ff.Matches {
			if base.Items[key(ff.File, m)] {
				suppressed++
				continue
			}
			kept = append(kept, m)
		}
		if len(kept) > 0 {
			out = append(out, types.FileFindings{File: ff.File, Matches: kept})
		}
	}
	return out, suppressed
}

func key(file string, f types.Finding) string {
	d := xxhash.New()
	_, _ = d.WriteString(file)
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(f.Rule)
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(f.Line)
	return strconv.FormatUint(d.Sum64(), 16)
}

// ShouldFail reports whether CI mode must fail: any secret finding left
// after baseline filtering.
func ShouldFail(findings []types.FileFindings) bool {
	for _, ff := range findings {
		if len(ff.Matches) > 0 {
			return true
		}
	}
	return false
}
