package engine

import (
	"context"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shivarm/code-guardian/internal/git"
	"github.com/shivarm/code-guardian/internal/ignore"
)

// IgnoreFileDirective excludes a file from the scan when it appears anywhere
// in its content.
const IgnoreFileDirective = "codeguardian:ignore-file"

var readFile = os.ReadFile

// Walk traverses the working tree and invokes handle for each eligible file
// with its path relative to cfg.Root. Unreadable entries are logged and
// skipped; only context cancellation stops the walk early.
func Walk(ctx context.Context, cfg Config, ign ignore.Matcher, handle func(rel string, data []byte)) error {
	log := cfg.logger()
	return filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			log.Debug().Err(err).Str("path", p).Msg("skipping unreadable entry")
			return nil
		}
		rel, _ := filepath.Rel(cfg.Root, p)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if ign.MatchDir(rel) || (cfg.DefaultExcludes && isDefaultDirExcluded(d.Name())) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !selectPath(cfg, ign, rel) {
			return nil
		}
		info, _ := d.Info()
		if info != nil && cfg.MaxBytes > 0 && info.Size() > cfg.MaxBytes {
			log.Debug().Str("file", rel).Int64("size", info.Size()).Msg("skipping large file")
			return nil
		}
		b, err := readFile(p)
		if err != nil {
			log.Debug().Err(err).Str("file", rel).Msg("skipping unreadable file")
			return nil
		}
		if !acceptContent(rel, b) {
			return nil
		}
		handle(rel, b)
		return nil
	})
}

// WalkStaged invokes handle for each staged file that passes the same
// filters as Walk.
func WalkStaged(ctx context.Context, cfg Config, ign ignore.Matcher, handle func(rel string, data []byte)) error {
	log := cfg.logger()
	files, err := git.StagedFiles(cfg.Root)
	if err != nil {
		return err
	}
	log.Debug().Int("staged", len(files)).Msg("staged files listed")
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !selectPath(cfg, ign, rel) {
			continue
		}
		p := filepath.Join(cfg.Root, rel)
		if cfg.MaxBytes > 0 {
			if info, err := os.Stat(p); err == nil && info.Size() > cfg.MaxBytes {
				log.Debug().Str("file", rel).Int64("size", info.Size()).Msg("skipping large file")
				continue
			}
		}
		b, err := readFile(p)
		if err != nil {
			log.Debug().Err(err).Str("file", rel).Msg("skipping unreadable file")
			continue
		}
		if !acceptContent(rel, b) {
			continue
		}
		handle(rel, b)
	}
	return nil
}

// selectPath applies the path-only filters shared by both corpus modes.
func selectPath(cfg Config, ign ignore.Matcher, rel string) bool {
	if ign.Match(rel) {
		return false
	}
	if !allowedByGlobs(rel, cfg) {
		return false
	}
	if isBinaryExtension(rel) {
		return false
	}
	if cfg.DefaultExcludes && isDefaultFileExcluded(strings.ToLower(filepath.ToSlash(rel))) {
		return false
	}
	return true
}

// acceptContent applies the content sniffs and the inline ignore directive.
func acceptContent(rel string, b []byte) bool {
	if looksBinary(b) || looksNonTextMIME(rel, b) {
		return false
	}
	return !strings.Contains(string(b), IgnoreFileDirective)
}

func looksBinary(b []byte) bool {
	const sniff = 800
	n := sniff
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if b[i] == 0 {
			return true
		}
	}
	return false
}

// looksNonTextMIME uses the file extension and a tiny content sniff to skip
// clearly non-text content in addition to NUL-byte detection.
// Known source extensions bypass the host MIME table, which maps .ts to
// MPEG transport streams on some systems.
func looksNonTextMIME(path string, b []byte) bool {
	if isTextExtension(path) {
		return hasBinaryMagic(b)
	}
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		if strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/") || strings.HasPrefix(ct, "audio/") {
			return true
		}
		if strings.Contains(ct, "zip") || strings.Contains(ct, "gzip") || strings.Contains(ct, "x-tar") {
			return true
		}
	}
	return hasBinaryMagic(b)
}

func hasBinaryMagic(b []byte) bool {
	if len(b) >= 8 && string(b[:8]) == "\x89PNG\r\n\x1a\n" {
		return true
	}
	// ZIP local file header
	if len(b) >= 4 && string(b[:4]) == "PK\x03\x04" {
		return true
	}
	return false
}

// CountTargets estimates the number of files a scan will process without
// reading file contents. It drives progress reporting.
func CountTargets(cfg Config) (int, error) {
	ign, _ := ignore.Load(cfg.Root, cfg.IgnoreFiles)
	if cfg.Staged {
		files, err := git.StagedFiles(cfg.Root)
		if err != nil {
			return 0, err
		}
		n := 0
		for _, rel := range files {
			if selectPath(cfg, ign, rel) {
				n++
			}
		}
		return n, nil
	}
	count := 0
	err := filepath.WalkDir(cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, _ := filepath.Rel(cfg.Root, p)
		if d.IsDir() {
			if rel != "." && (ign.MatchDir(rel) || (cfg.DefaultExcludes && isDefaultDirExcluded(d.Name()))) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !selectPath(cfg, ign, rel) {
			return nil
		}
		if info, _ := d.Info(); info != nil && cfg.MaxBytes > 0 && info.Size() > cfg.MaxBytes {
			return nil
		}
		count++
		return nil
	})
	return count, err
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
