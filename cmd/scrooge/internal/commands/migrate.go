package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(backend Backend) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := backend.Migrate(cmd.Context())
			if err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s).\n", n)

			return nil
		},
	}
}
