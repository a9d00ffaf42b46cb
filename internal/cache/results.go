package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/shivarm/code-guardian/internal/types"
)

// ScanResults stores the secret findings of the most recent scan so that
// follow-up commands can reuse them without rescanning.
type ScanResults struct {
	Findings  []types.FileFindings `json:"findings"`
	Timestamp time.Time            `json:"timestamp"`
	Root      string               `json:"root"`
	Count     int                  `json:"count"`
}

func resultsPath(root string) string {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err == nil && st.IsDir() {
		return filepath.Join(gitDir, "codeguardian_last_scan.json")
	}
	return filepath.Join(root, ".codeguardian_last_scan.json")
}

// SaveResults saves scan results to cache
func SaveResults(root string, findings []types.FileFindings) error {
	n := 0
	for _, ff := range findings {
		n += len(ff.Matches)
	}
	results := ScanResults{
		Findings:  findings,
		Timestamp: time.Now(),
		Root:      root,
		Count:     n,
	}
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(resultsPath(root), b, 0644)
}

// LoadResults loads the last scan results from cache
func LoadResults(root string) (ScanResults, error) {
	var results ScanResults
	f, err := os.ReadFile(resultsPath(root))
	if err != nil {
		return results, err
	}
	if err := json.Unmarshal(f, &results); err != nil {
		return results, err
	}
	return results, nil
}
