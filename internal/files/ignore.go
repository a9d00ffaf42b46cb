// Package files holds small helpers that modify project files on behalf of
// the init command.
package files

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// GeneratedIgnores are the codeguardian artifacts that should never be
// committed.
func GeneratedIgnores() []string {
	return []string{
		".codeguardiancache.json",
		".codeguardian_last_scan.json",
		".codeguardian_audit.jsonl",
	}
}

// AppendIgnore ensures each pattern is present in .gitignore at repoRoot.
// It creates the file if missing and keeps existing content intact,
// inserting a newline first when the file does not end with one.
// Idempotent. It returns the patterns that were added.
func AppendIgnore(repoRoot string, patterns ...string) ([]string, error) {
	path := filepath.Join(repoRoot, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	existing := map[string]bool{}
	for _, line := range strings.Split(string(b), "\n") {
		existing[strings.TrimSpace(line)] = true
	}
	var buf bytes.Buffer
	var added []string
	for _, p := range patterns {
		if p == "" || existing[p] {
			continue
		}
		existing[p] = true
		buf.WriteString(p + "\n")
		added = append(added, p)
	}
	if len(added) == 0 {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if len(b) > 0 && b[len(b)-1] != '\n' {
		if _, err := f.WriteString("\n"); err != nil {
			return nil, err
		}
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		return nil, err
	}
	return added, nil
}

// WriteNew writes data to path unless the file already exists and force is
// false.
func WriteNew(path string, data []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	return os.WriteFile(path, data, 0644)
}
