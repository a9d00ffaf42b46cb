// Package audit keeps an append-only JSON Lines history of scans. Records
// hold counts and locations only, never matched line text.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shivarm/code-guardian/internal/types"
)

// FileName is the audit log name when stored at the repository root.
const FileName = ".codeguardian_audit.jsonl"

const maxTopFindings = 10

type ScanRecord struct {
	Timestamp     time.Time        `json:"timestamp"`
	ScanID        string           `json:"scan_id"`
	Root          string           `json:"root"`
	Staged        bool             `json:"staged,omitempty"`
	TotalFindings int              `json:"total_findings"`
	NewFindings   int              `json:"new_findings"`
	Baselined     int              `json:"baselined_count"`
	UnusedImports int              `json:"unused_imports"`
	UnusedModules int              `json:"unused_modules"`
	RuleCounts    map[string]int   `json:"rule_counts,omitempty"`
	FilesScanned  int              `json:"files_scanned"`
	Duration      string           `json:"duration"`
	BaselineFile  string           `json:"baseline_file,omitempty"`
	TopFindings   []FindingSummary `json:"top_findings,omitempty"`
}

type FindingSummary struct {
	File string `json:"file"`
	Rule string `json:"rule"`
	Line int    `json:"line"`
}

type AuditLog struct {
	logPath string
}

// New returns the audit log for root, stored under .git when present.
func New(root string) *AuditLog {
	logPath := filepath.Join(root, FileName)
	if st, err := os.Stat(filepath.Join(root, ".git")); err == nil && st.IsDir() {
		logPath = filepath.Join(root, ".git", "codeguardian_audit.jsonl")
	}
	return &AuditLog{logPath: logPath}
}

// Path returns the log file location.
func (a *AuditLog) Path() string { return a.logPath }

// LoadHistory returns all records, newest first. Corrupt lines are skipped.
func (a *AuditLog) LoadHistory() ([]ScanRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []ScanRecord
	decoder := json.NewDecoder(f)
	for decoder.More() {
		var record ScanRecord
		if err := decoder.Decode(&record); err != nil {
			break
		}
		records = append(records, record)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *AuditLog) LogScan(record ScanRecord) error {
	if record.ScanID == "" {
		record.ScanID = fmt.Sprintf("scan_%d", record.Timestamp.UnixNano())
	}
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// Summary is the scan outcome a record is built from.
type Summary struct {
	Root          string
	Staged        bool
	All           []types.FileFindings
	New           []types.FileFindings
	UnusedImports int
	UnusedModules int
	FilesScanned  int
	Duration      time.Duration
	BaselineFile  string
}

func CreateScanRecord(s Summary) ScanRecord {
	total, ruleCounts := count(s.All)
	fresh, _ := count(s.New)

	top := make([]FindingSummary, 0, maxTopFindings)
outer:
	for _, ff := range s.New {
		for _, m := range ff.Matches {
			if len(top) == maxTopFindings {
				break outer
			}
			top = append(top, FindingSummary{File: ff.File, Rule: m.Rule, Line: m.LineNumber})
		}
	}

	return ScanRecord{
		Timestamp:     time.Now(),
		Root:          s.Root,
		Staged:        s.Staged,
		TotalFindings: total,
		NewFindings:   fresh,
		Baselined:     total - fresh,
		UnusedImports: s.UnusedImports,
		UnusedModules: s.UnusedModules,
		RuleCounts:    ruleCounts,
		FilesScanned:  s.FilesScanned,
		Duration:      s.Duration.String(),
		BaselineFile:  s.BaselineFile,
		TopFindings:   top,
	}
}

func count(fs []types.FileFindings) (int, map[string]int) {
	n := 0
	byRule := map[string]int{}
	for _, ff := range fs {
		for _, m := range ff.Matches {
			n++
			byRule[m.Rule]++
		}
	}
	return n, byRule
}
