package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newImportCommand(backend Backend) *cobra.Command {
	return &cobra.Command{
		Use:   "import <format> <source>",
		Short: "Import a bank statement",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, source := args[0], args[1]

			info, err := os.Stat(source)
			if err != nil || info.IsDir() {
				return fmt.Errorf("source %s does not exist", source)
			}

			svc, err := backend.Services(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Open(source)
			if err != nil {
				return fmt.Errorf("opening source: %w", err)
			}
			defer f.Close()

			res, err := svc.Import.Ingest(cmd.Context(), format, f)
			if res != nil && res.Imported > 0 && err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Imported %d transaction(s) before the failure.\n", res.Imported)
			}

			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transaction(s).\n", res.Imported)

			if res.Skipped > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d already imported transaction(s).\n", res.Skipped)
			}

			return nil
		},
	}
}
