package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/shivarm/code-guardian/internal/types"
)

// Results is everything a scan reports.
type Results struct {
	Findings      []types.FileFindings
	UnusedImports []types.UnusedImports
	UnusedModules []string
}

// FindingCount returns the number of individual secret findings.
func (r Results) FindingCount() int {
	n := 0
	for _, ff := range r.Findings {
		n += len(ff.Matches)
	}
	return n
}

// Clean reports whether there is nothing to show.
func (r Results) Clean() bool {
	return len(r.Findings) == 0 && len(r.UnusedImports) == 0 && len(r.UnusedModules) == 0
}

type PrintOptions struct {
	NoColor      bool
	Root         string
	Duration     time.Duration
	FilesScanned int
	MemDelta     int64
	// Suppressed counts findings hidden by the baseline.
	Suppressed int
}

// PrintText writes a human-readable report: secrets grouped per file with
// rule name, line number and the trimmed line, then hygiene issues and the
// run statistics.
func PrintText(w io.Writer, res Results, opts PrintOptions) {
	printSecretsHeader(w, res, opts)
	for _, ff := range res.Findings {
		fmt.Fprintf(w, "\n%s\n", paint(fileStyle, "File: "+ff.File, opts.NoColor))
		for _, m := range ff.Matches {
			line := m.Line
			if !opts.NoColor {
				line = highlightLine(line, ff.File)
			}
			fmt.Fprintf(w, "  %s %s %s\n    %s\n",
				paint(labelStyle, "Rule:", opts.NoColor),
				m.Rule,
				paint(dimStyle, fmt.Sprintf("(line %d)", m.LineNumber), opts.NoColor),
				line)
		}
	}
	printHygiene(w, res, opts)
	printFooter(w, res, opts)
}

// PrintTable writes secret findings as a table followed by hygiene issues
// and the run statistics.
func PrintTable(w io.Writer, res Results, opts PrintOptions) {
	printSecretsHeader(w, res, opts)
	if len(res.Findings) > 0 {
		table := tablewriter.NewTable(w, tablewriter.WithRowAutoWrap(tw.WrapNone))
		table.Header("FILE", "LINE", "RULE", "MATCH")
		for _, ff := range res.Findings {
			for _, m := range ff.Matches {
				_ = table.Append([]string{ff.File, strconv.Itoa(m.LineNumber), m.Rule, m.Line})
			}
		}
		_ = table.Render()
	}
	printHygiene(w, res, opts)
	printFooter(w, res, opts)
}

func printSecretsHeader(w io.Writer, res Results, opts PrintOptions) {
	if len(res.Findings) == 0 {
		root := opts.Root
		if root == "" {
			root = "."
		}
		fmt.Fprintln(w, paint(okStyle, "Scan successful but no secrets found in "+root, opts.NoColor))
		return
	}
	fmt.Fprintln(w, paint(alertStyle, fmt.Sprintf("Found %d file(s) with potential secrets:", len(res.Findings)), opts.NoColor))
}

func printHygiene(w io.Writer, res Results, opts PrintOptions) {
	if len(res.UnusedImports) > 0 {
		fmt.Fprintf(w, "\n%s\n", paint(warnStyle, "Unused imports:", opts.NoColor))
		for _, u := range res.UnusedImports {
			fmt.Fprintf(w, "  %s: %s\n", paint(fileStyle, u.File, opts.NoColor), strings.Join(u.Identifiers, ", "))
		}
	}
	if len(res.UnusedModules) > 0 {
		fmt.Fprintf(w, "\n%s\n", paint(warnStyle, "Unused modules:", opts.NoColor))
		for _, m := range res.UnusedModules {
			fmt.Fprintf(w, "  %s\n", m)
		}
	}
	if res.Clean() {
		fmt.Fprintln(w, paint(okStyle, "No issues found ✅", opts.NoColor))
	}
}

func printFooter(w io.Writer, res Results, opts PrintOptions) {
	if opts.Duration <= 0 && opts.FilesScanned <= 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Findings: %d (unused imports: %d, unused modules: %d)\n",
		res.FindingCount(), countIdentifiers(res.UnusedImports), len(res.UnusedModules))
	if opts.Suppressed > 0 {
		fmt.Fprintf(w, "Suppressed by baseline: %d\n", opts.Suppressed)
	}
	if opts.FilesScanned > 0 {
		fmt.Fprintf(w, "Files scanned: %d\n", opts.FilesScanned)
	}
	if opts.Duration > 0 {
		fmt.Fprintf(w, "Scan duration: %.2fs\n", opts.Duration.Seconds())
	}
	if opts.MemDelta != 0 {
		fmt.Fprintf(w, "Memory delta: %s\n", formatMemDelta(opts.MemDelta))
	}
}

func formatMemDelta(d int64) string {
	if d < 0 {
		return "-" + humanize.IBytes(uint64(-d))
	}
	return "+" + humanize.IBytes(uint64(d))
}

func countIdentifiers(us []types.UnusedImports) int {
	n := 0
	for _, u := range us {
		n += len(u.Identifiers)
	}
	return n
}
