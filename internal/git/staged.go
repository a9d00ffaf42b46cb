// Package git lists version-control state needed by a scan.
package git

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// StagedListError reports that the staged file list could not be obtained,
// typically because root is not inside a git repository.
type StagedListError struct {
	Root string
	Err  error
}

func (e *StagedListError) Error() string {
	return fmt.Sprintf("failed to get staged files in %s (are you in a git repo?): %v", e.Root, e.Err)
}

func (e *StagedListError) Unwrap() error { return e.Err }

// validateRoot validates and normalizes a repository root path.
func validateRoot(root string) (string, error) {
	if strings.ContainsRune(root, 0) {
		return "", fmt.Errorf("invalid path: contains null byte")
	}
	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access path %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", root)
	}
	return abs, nil
}

// StagedFiles returns the files staged in the index of the repository that
// contains root, relative to root and sorted. Staged deletions, files outside
// root and paths that no longer exist on disk are left out.
func StagedFiles(root string) ([]string, error) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return nil, &StagedListError{Root: root, Err: err}
	}
	repo, err := gogit.PlainOpenWithOptions(validRoot, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, &StagedListError{Root: root, Err: err}
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, &StagedListError{Root: root, Err: err}
	}
	status, err := wt.Status()
	if err != nil {
		return nil, &StagedListError{Root: root, Err: err}
	}
	top := wt.Filesystem.Root()

	var out []string
	for p, st := range status {
		switch st.Staging {
		case gogit.Unmodified, gogit.Untracked, gogit.Deleted:
			continue
		}
		abs := filepath.Join(top, filepath.FromSlash(p))
		rel, err := filepath.Rel(validRoot, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if info, err := os.Stat(abs); err != nil || info.IsDir() {
			continue
		}
		out = append(out, rel)
	}
	sort.Strings(out)
	return out, nil
}
