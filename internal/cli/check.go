package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tarrenq/spawnkit/internal/config"
)

func newCheckCmd(manifestFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a job manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := config.Load(*manifestFile)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d job(s) OK\n", *manifestFile, len(doc.Jobs))
			return nil
		},
	}
	return cmd
}
