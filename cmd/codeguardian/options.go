package codeguardian

import (
	"fmt"
	"path/filepath"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/shivarm/code-guardian/internal/config"
	"github.com/shivarm/code-guardian/internal/engine"
	"github.com/shivarm/code-guardian/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "CODEGUARDIAN"

// Output formats.
const (
	formatTable = "table"
	formatText  = "text"
	formatJSON  = "json"
	formatSARIF = "sarif"
)

// scanOptions is the fully resolved scan configuration.
type scanOptions struct {
	Root            string
	ConfigPath      string
	Staged          bool
	Verbose         bool
	CI              bool
	Format          string
	NoColor         bool
	NoCache         bool
	Unused          bool
	DefaultExcludes bool
	Include         []string
	Exclude         []string
	MaxBytes        int64
	MetricsFile     string
	Baseline        string
}

// resolver picks option values: an explicit flag first, then the
// CODEGUARDIAN_* environment, then global preferences, then the flag
// default.
type resolver struct {
	flags *pflag.FlagSet
	env   *viper.Viper
}

func newResolver(flags *pflag.FlagSet) *resolver {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindEnv(f.Name)
	})
	_ = v.BindEnv("format")
	return &resolver{flags: flags, env: v}
}

func (r *resolver) Bool(name string, global *bool) bool {
	if r.flags.Changed(name) {
		b, _ := r.flags.GetBool(name)
		return b
	}
	if r.env.IsSet(name) {
		return r.env.GetBool(name)
	}
	if global != nil {
		return *global
	}
	b, _ := r.flags.GetBool(name)
	return b
}

func (r *resolver) String(name string, global *string) string {
	if r.flags.Lookup(name) != nil && r.flags.Changed(name) {
		s, _ := r.flags.GetString(name)
		return s
	}
	if r.env.IsSet(name) {
		return r.env.GetString(name)
	}
	if global != nil && *global != "" {
		return *global
	}
	if r.flags.Lookup(name) == nil {
		return ""
	}
	s, _ := r.flags.GetString(name)
	return s
}

func (r *resolver) Globs(name string, global []string) []string {
	if r.flags.Changed(name) || r.env.IsSet(name) {
		return engine.ParseGlobsList(r.String(name, nil))
	}
	if len(global) > 0 {
		return global
	}
	return engine.ParseGlobsList(r.String(name, nil))
}

func (r *resolver) Bytes(name string, global *int64) (int64, error) {
	if !r.flags.Changed(name) && !r.env.IsSet(name) && global != nil {
		return *global, nil
	}
	s := strings.TrimSpace(r.String(name, nil))
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s %q: %w", name, s, err)
	}
	return int64(n), nil
}

// resolveOptions merges flags, environment and global preferences.
func resolveOptions(flags *pflag.FlagSet, prefs config.Preferences) (scanOptions, error) {
	r := newResolver(flags)
	root, err := filepath.Abs(r.String("path", nil))
	if err != nil {
		return scanOptions{}, fmt.Errorf("resolve path: %w", err)
	}
	maxBytes, err := r.Bytes("max-bytes", prefs.MaxBytes)
	if err != nil {
		return scanOptions{}, err
	}
	opts := scanOptions{
		Root:            root,
		ConfigPath:      r.String("config", nil),
		Staged:          r.Bool("staged", nil),
		Verbose:         r.Bool("verbose", prefs.Verbose),
		CI:              r.Bool("ci", nil),
		NoColor:         r.Bool("no-color", prefs.NoColor),
		NoCache:         r.Bool("no-cache", prefs.NoCache),
		Unused:          !r.Bool("no-unused", prefs.NoUnused),
		DefaultExcludes: r.Bool("default-excludes", nil),
		Include:         r.Globs("include", prefs.Include),
		Exclude:         r.Globs("exclude", prefs.Exclude),
		MaxBytes:        maxBytes,
		MetricsFile:     r.String("metrics-file", nil),
		Baseline:        r.String("baseline", nil),
	}
	if opts.ConfigPath != "" && !filepath.IsAbs(opts.ConfigPath) {
		if abs, err := filepath.Abs(opts.ConfigPath); err == nil {
			opts.ConfigPath = abs
		}
	}
	if opts.Baseline == "" {
		opts.Baseline = filepath.Join(root, report.DefaultBaselineFile)
	}

	switch {
	case r.Bool("sarif", nil):
		opts.Format = formatSARIF
	case r.Bool("json", nil):
		opts.Format = formatJSON
	case r.Bool("text", nil):
		opts.Format = formatText
	default:
		opts.Format = strings.ToLower(r.String("format", prefs.Format))
	}
	switch opts.Format {
	case "":
		opts.Format = formatTable
	case formatTable, formatText, formatJSON, formatSARIF:
	default:
		return scanOptions{}, fmt.Errorf("unknown output format %q (want table, text, json or sarif)", opts.Format)
	}
	if opts.CI {
		opts.NoColor = true
	}
	return opts, nil
}

// commandOptions resolves options for cmd against the global preferences.
func commandOptions(cmd *cobra.Command) (scanOptions, error) {
	prefs, _ := config.LoadGlobal()
	return resolveOptions(cmd.Flags(), prefs)
}

func (o scanOptions) human() bool {
	return o.Format == formatTable || o.Format == formatText
}
