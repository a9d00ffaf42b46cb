package codeguardian

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	flagConfig          string
	flagPath            string
	flagStaged          bool
	flagVerbose         bool
	flagCI              bool
	flagJSON            bool
	flagSARIF           bool
	flagText            bool
	flagNoColor         bool
	flagNoCache         bool
	flagNoUnused        bool
	flagDefaultExcludes bool
	flagInclude         string
	flagExclude         string
	flagMaxBytes        string
	flagMetricsFile     string
	flagBaseline        string

	version = "0.1.0"
)

const logo = `
█▀▀ █▀█ █▀▄ █▀▀ █▀▀ █░█ ▄▀█ █▀█ █▀▄ █ ▄▀█ █▄░█
█▄▄ █▄█ █▄▀ ██▄ █▄█ █▄█ █▀█ █▀▄ █▄▀ █ █▀█ █░▀█
`

var logoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

// rootCmd scans by default, like the scan subcommand.
var rootCmd = &cobra.Command{
	Use:           "codeguardian",
	Short:         "Scan project files for sensitive secrets before you push",
	Long:          "codeguardian scans your working tree or staged files for secret-like patterns, unused imports and unused modules.",
	Version:       version,
	Args:          cobra.NoArgs,
	RunE:          runScan,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries a process exit code without an error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// Execute runs the codeguardian CLI. It should be called by the main package.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "path to config file (JSON). Default: .codeguardianrc.json")
	pf.StringVarP(&flagPath, "path", "p", ".", "path to scan")
	pf.BoolVarP(&flagStaged, "staged", "s", false, "only scan staged files (git staged)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
	pf.BoolVar(&flagCI, "ci", false, "CI mode: exit 2 on findings, no colour or banner")
	pf.BoolVar(&flagJSON, "json", false, "emit JSON")
	pf.BoolVar(&flagSARIF, "sarif", false, "emit SARIF 2.1.0")
	pf.BoolVar(&flagText, "text", false, "output grouped plain text instead of a table")
	pf.BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	pf.BoolVar(&flagNoCache, "no-cache", false, "disable incremental scan cache")
	pf.BoolVar(&flagNoUnused, "no-unused", false, "skip unused import and unused module detection")
	pf.BoolVar(&flagDefaultExcludes, "default-excludes", false, "also skip build output and minified bundles (dist, vendor, *.min.js, ...)")
	pf.StringVar(&flagInclude, "include", "", "comma-separated include globs")
	pf.StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	pf.StringVar(&flagMaxBytes, "max-bytes", "1MiB", "skip files larger than this (e.g. 512KiB, 2MB, 0 = no limit)")
	pf.StringVar(&flagMetricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	pf.StringVar(&flagBaseline, "baseline", "", "baseline file of accepted findings (default codeguardian.baseline.json in the scan root)")
}

func printBanner(w io.Writer, noColor bool) {
	if noColor {
		fmt.Fprint(w, logo)
		return
	}
	fmt.Fprintln(w, logoStyle.Render(logo))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
