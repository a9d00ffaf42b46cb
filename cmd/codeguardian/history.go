package codeguardian

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/shivarm/code-guardian/internal/audit"
	"github.com/spf13/cobra"
)

var flagHistoryLimit int

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent scans recorded in the audit log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := commandOptions(cmd)
			if err != nil {
				return err
			}
			records, err := audit.New(opts.Root).LoadHistory()
			if err != nil {
				return err
			}
			if flagHistoryLimit > 0 && len(records) > flagHistoryLimit {
				records = records[:flagHistoryLimit]
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("WHEN", "FILES", "FINDINGS", "NEW", "BASELINED", "UNUSED IMPORTS", "UNUSED MODULES", "DURATION")
			for _, r := range records {
				_ = table.Append([]string{
					r.Timestamp.Format("2006-01-02 15:04:05"),
					strconv.Itoa(r.FilesScanned),
					strconv.Itoa(r.TotalFindings),
					strconv.Itoa(r.NewFindings),
					strconv.Itoa(r.Baselined),
					strconv.Itoa(r.UnusedImports),
					strconv.Itoa(r.UnusedModules),
					r.Duration,
				})
			}
			if err := table.Render(); err != nil {
				return fmt.Errorf("render history: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 10, "number of scans to show (0 = all)")
	rootCmd.AddCommand(cmd)
}
