package codeguardian

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/shivarm/code-guardian/internal/audit"
	"github.com/shivarm/code-guardian/internal/cache"
	"github.com/shivarm/code-guardian/internal/config"
	"github.com/shivarm/code-guardian/internal/engine"
	"github.com/shivarm/code-guardian/internal/metrics"
	"github.com/shivarm/code-guardian/internal/report"
	"github.com/spf13/cobra"
)

// exitFindings is the CI-mode exit code when secrets are found.
const exitFindings = 2

func init() {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan files for secrets, unused imports and unused modules",
		Args:  cobra.NoArgs,
		RunE:  runScan,
	}
	rootCmd.AddCommand(cmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	opts, err := commandOptions(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return scan(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func newLogger(w io.Writer, verbose, noColor bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger()
}

// engineConfig loads the rule configuration and maps options onto the engine.
func engineConfig(opts scanOptions, log *zerolog.Logger) (engine.Config, error) {
	cfg, source, err := config.Load(opts.ConfigPath, opts.Root)
	if err != nil {
		return engine.Config{}, err
	}
	log.Debug().Str("source", source).Int("rules", len(cfg.Rules)).Msg("config loaded")
	return engine.Config{
		Root:            opts.Root,
		Staged:          opts.Staged,
		IncludeGlobs:    opts.Include,
		ExcludeGlobs:    opts.Exclude,
		MaxBytes:        opts.MaxBytes,
		DefaultExcludes: opts.DefaultExcludes,
		NoCache:         opts.NoCache,
		Unused:          opts.Unused,
		Rules:           cfg.Rules,
		IgnoreFiles:     cfg.IgnoreFiles,
		Logger:          log,
	}, nil
}

func scan(ctx context.Context, opts scanOptions, stdout, stderr io.Writer) error {
	noColor := opts.NoColor || !isTerminal(stdout)
	log := newLogger(stderr, opts.Verbose, opts.NoColor || !isTerminal(stderr))

	cfg, err := engineConfig(opts, &log)
	if err != nil {
		return err
	}

	var collector metrics.Collector = metrics.NewRuntime()
	var prom *metrics.Prometheus
	if opts.MetricsFile != "" {
		prom = metrics.NewPrometheus(collector)
		collector = prom
	}
	cfg.Metrics = collector

	if opts.human() && !opts.CI {
		printBanner(stdout, noColor)
	}

	showProgress := opts.human() && !opts.CI && isTerminal(stderr)
	total := 0
	if showProgress {
		total, _ = engine.CountTargets(cfg)
	}
	if total > 0 {
		progressed := 0
		cfg.Progress = func() {
			progressed++
			if progressed%10 == 0 || progressed == total {
				pct := float64(progressed) / float64(total) * 100
				_, _ = fmt.Fprintf(stderr, "\r[%d/%d] %.0f%%", progressed, total, pct)
			}
		}
	}

	res, err := engine.ScanWithStats(ctx, cfg)
	if err != nil {
		return fmt.Errorf("scan error: %w", err)
	}
	if total > 0 {
		_, _ = fmt.Fprintln(stderr)
	}
	if res.InvalidRules > 0 {
		log.Debug().Int("invalid", res.InvalidRules).Msg("some rules failed to compile and were skipped")
	}

	if !opts.NoCache {
		if err := cache.SaveResults(opts.Root, res.Findings); err != nil {
			log.Debug().Err(err).Msg("last scan results not saved")
		}
	}

	findings := res.Findings
	suppressed := 0
	base, err := report.LoadBaseline(opts.Baseline)
	switch {
	case err == nil:
		findings, suppressed = report.FilterNewFindings(res.Findings, base)
	case !errors.Is(err, fs.ErrNotExist):
		log.Warn().Err(err).Msg("baseline ignored")
	}

	if !opts.NoCache {
		rec := audit.CreateScanRecord(audit.Summary{
			Root:          opts.Root,
			Staged:        opts.Staged,
			All:           res.Findings,
			New:           findings,
			UnusedImports: len(res.UnusedImports),
			UnusedModules: len(res.UnusedModules),
			FilesScanned:  res.FilesScanned,
			Duration:      res.Duration,
			BaselineFile:  opts.Baseline,
		})
		if err := audit.New(opts.Root).LogScan(rec); err != nil {
			log.Debug().Err(err).Msg("audit record not written")
		}
	}

	out := report.Results{
		Findings:      findings,
		UnusedImports: res.UnusedImports,
		UnusedModules: res.UnusedModules,
	}
	popts := report.PrintOptions{
		NoColor:      noColor,
		Root:         opts.Root,
		Duration:     res.Duration,
		FilesScanned: res.FilesScanned,
		MemDelta:     res.MemDelta,
		Suppressed:   suppressed,
	}
	switch opts.Format {
	case formatSARIF:
		if err := report.WriteSARIFWithStats(stdout, out, map[string]int{"filesScanned": res.FilesScanned, "suppressed": suppressed}); err != nil {
			return fmt.Errorf("sarif error: %w", err)
		}
	case formatJSON:
		if err := report.WriteJSON(stdout, out, popts); err != nil {
			return fmt.Errorf("json error: %w", err)
		}
	case formatText:
		report.PrintText(stdout, out, popts)
	default:
		report.PrintTable(stdout, out, popts)
	}

	if prom != nil {
		if err := prom.WriteTextfile(opts.MetricsFile); err != nil {
			return err
		}
	}

	if opts.CI && report.ShouldFail(findings) {
		return &exitError{code: exitFindings}
	}
	return nil
}
