package codeguardian

import (
	"fmt"

	"github.com/shivarm/code-guardian/internal/cache"
	"github.com/shivarm/code-guardian/internal/engine"
	"github.com/shivarm/code-guardian/internal/report"
	"github.com/shivarm/code-guardian/internal/types"
	"github.com/spf13/cobra"
)

var flagFromLast bool

func init() {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage baselines",
	}

	update := &cobra.Command{
		Use:   "update",
		Short: "Record the current secret findings as accepted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := commandOptions(cmd)
			if err != nil {
				return err
			}
			var findings []types.FileFindings
			if flagFromLast {
				last, err := cache.LoadResults(opts.Root)
				if err != nil {
					return fmt.Errorf("no previous scan results: %w", err)
				}
				findings = last.Findings
			} else {
				log := newLogger(cmd.ErrOrStderr(), opts.Verbose, true)
				cfg, err := engineConfig(opts, &log)
				if err != nil {
					return err
				}
				cfg.Unused = false
				findings, err = engine.Scan(cmd.Context(), cfg)
				if err != nil {
					return err
				}
			}
			if err := report.SaveBaseline(opts.Baseline, findings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Baseline updated: %s\n", opts.Baseline)
			return nil
		},
	}
	update.Flags().BoolVar(&flagFromLast, "from-last", false, "use the findings of the last scan instead of rescanning")

	rootCmd.AddCommand(cmd)
	cmd.AddCommand(update)
}
