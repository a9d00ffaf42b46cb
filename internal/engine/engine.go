package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shivarm/code-guardian/internal/cache"
	"github.com/shivarm/code-guardian/internal/detectors"
	"github.com/shivarm/code-guardian/internal/graph"
	"github.com/shivarm/code-guardian/internal/ignore"
	"github.com/shivarm/code-guardian/internal/imports"
	"github.com/shivarm/code-guardian/internal/metrics"
	"github.com/shivarm/code-guardian/internal/types"
)

// Config controls scanning behavior including scope, filters and the
// injected collaborators.
type Config struct {
	Root            string
	Staged          bool
	IncludeGlobs    []string
	ExcludeGlobs    []string
	MaxBytes        int64
	DefaultExcludes bool
	NoCache         bool
	// Unused enables unused-import and unused-module detection.
	Unused bool

	Rules       []types.Rule
	IgnoreFiles []string

	// Extractor finds import records; nil uses imports.Default.
	Extractor imports.Extractor
	// Exists checks resolution candidates; nil uses graph.FileExists.
	Exists graph.ExistsFunc
	// Metrics receives run events; nil records nothing.
	Metrics metrics.Collector
	Logger  *zerolog.Logger

	Progress func()
}

func (cfg Config) logger() *zerolog.Logger {
	if cfg.Logger == nil {
		return nopLogger()
	}
	return cfg.Logger
}

// Result contains findings, hygiene issues and basic scan statistics.
type Result struct {
	Findings      []types.FileFindings
	UnusedImports []types.UnusedImports
	UnusedModules []string
	FilesScanned  int
	Duration      time.Duration
	// MemDelta is the heap growth over the run in bytes, when measured.
	MemDelta int64
	// InvalidRules counts rules whose pattern failed to compile.
	InvalidRules int
}

// FindingCount returns the number of individual secret findings.
func (r Result) FindingCount() int {
	n := 0
	for _, ff := range r.Findings {
		n += len(ff.Matches)
	}
	return n
}

// Clean reports whether the run found nothing at all.
func (r Result) Clean() bool {
	return len(r.Findings) == 0 && len(r.UnusedImports) == 0 && len(r.UnusedModules) == 0
}

// Scan runs a scan and returns only the secret findings.
func Scan(ctx context.Context, cfg Config) ([]types.FileFindings, error) {
	res, err := ScanWithStats(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return res.Findings, nil
}

// ScanWithStats runs the full pipeline over the working tree or the staged
// files: secret matching, import extraction and usage checks per file, then
// unused-module detection over the collected import map.
func ScanWithStats(ctx context.Context, cfg Config) (Result, error) {
	var result Result

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return result, fmt.Errorf("resolve root %s: %w", cfg.Root, err)
	}
	cfg.Root = root
	log := cfg.logger()
	extractor := cfg.Extractor
	if extractor == nil {
		extractor = imports.Default
	}
	mc := cfg.Metrics
	if mc == nil {
		mc = metrics.Nop{}
	}

	set := detectors.Compile(cfg.Rules)
	result.InvalidRules = len(set.Invalid())
	fingerprint := set.Fingerprint()
	log.Debug().Int("rules", set.Len()).Int("invalid", result.InvalidRules).Msg("rules compiled")

	var db cache.DB
	if !cfg.NoCache {
		db, _ = cache.Load(cfg.Root)
	}
	updated := map[string]cache.Entry{}

	ign, err := ignore.Load(cfg.Root, cfg.IgnoreFiles)
	if err != nil {
		log.Warn().Err(err).Msg("could not read .gitignore")
	}

	importMap := graph.ImportMap{}
	var candidates []string

	started := time.Now()
	mc.Start()

	handle := func(rel string, data []byte) {
		result.FilesScanned++
		mc.FileScanned()
		if cfg.Progress != nil {
			cfg.Progress()
		}
		content := string(data)

		hash := cache.Hash(data)
		matches, hit := db.Lookup(rel, hash, fingerprint)
		if hit {
			log.Debug().Str("file", rel).Msg("cache hit")
		} else {
			matches = set.Match(content)
		}
		if !cfg.NoCache {
			updated[rel] = cache.Entry{Hash: hash, Findings: matches}
		}
		if len(matches) > 0 {
			mc.Findings(len(matches))
			result.Findings = append(result.Findings, types.FileFindings{File: rel, Matches: matches})
		}

		if !cfg.Unused || !graph.IsSource(rel) {
			return
		}
		abs := filepath.Join(cfg.Root, rel)
		records := extractor.Extract(abs, content)
		importMap[abs] = imports.Specifiers(records)
		if ids := imports.UnusedIdentifiers(content, records); len(ids) > 0 {
			result.UnusedImports = append(result.UnusedImports, types.UnusedImports{File: rel, Identifiers: ids})
		}
		if graph.IsEligible(rel) {
			candidates = append(candidates, rel)
		}
	}

	if cfg.Staged {
		err = WalkStaged(ctx, cfg, ign, handle)
	} else {
		err = Walk(ctx, cfg, ign, handle)
	}
	if err != nil {
		return result, err
	}

	if cfg.Unused {
		result.UnusedModules = graph.FindUnusedModules(candidates, cfg.Root, importMap, cfg.Exists)
	}

	snap := mc.Finish()
	result.Duration = time.Since(started)
	result.MemDelta = snap.MemDelta

	if !cfg.NoCache && len(updated) > 0 {
		if db.Entries == nil || db.Rules != fingerprint {
			db.Entries = map[string]cache.Entry{}
		}
		db.Rules = fingerprint
		for k, v := range updated {
			db.Entries[k] = v
		}
		if err := cache.Save(cfg.Root, db); err != nil {
			log.Debug().Err(err).Msg("cache not saved")
		}
	}
	return result, nil
}
