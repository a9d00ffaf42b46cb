package codeguardian

import (
	"fmt"
	"path/filepath"

	"github.com/shivarm/code-guardian/internal/config"
	"github.com/shivarm/code-guardian/internal/files"
	"github.com/spf13/cobra"
)

var flagInitForce bool

func init() {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default rule set to .codeguardianrc.json and ignore cache files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := commandOptions(cmd)
			if err != nil {
				return err
			}
			out := filepath.Join(opts.Root, config.LocalFiles[0])
			if err := files.WriteNew(out, config.DefaultJSON(), flagInitForce); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			added, err := files.AppendIgnore(opts.Root, files.GeneratedIgnores()...)
			if err != nil {
				return fmt.Errorf("update .gitignore: %w", err)
			}
			for _, p := range added {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to .gitignore\n", p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagInitForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(cmd)
}
