package codeguardian

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/shivarm/code-guardian/internal/config"
	"github.com/shivarm/code-guardian/internal/detectors"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the active rules and whether each pattern compiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := commandOptions(cmd)
			if err != nil {
				return err
			}
			cfg, source, err := config.Load(opts.ConfigPath, opts.Root)
			if err != nil {
				return err
			}
			set := detectors.Compile(cfg.Rules)
			invalid := set.Invalid()

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Rules from %s\n", source)
			table := tablewriter.NewWriter(w)
			table.Header("NAME", "FLAGS", "PATTERN", "STATUS")
			for i, r := range set.Rules() {
				status := "ok"
				if err := invalid[i]; err != nil {
					status = "invalid: " + err.Error()
				}
				_ = table.Append([]string{r.DisplayName(), r.EffectiveFlags(), r.Pattern, status})
			}
			return table.Render()
		},
	}
	rootCmd.AddCommand(cmd)
}
