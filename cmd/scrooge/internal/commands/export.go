package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/scrooge/internal/export"
)

func newExportCommand(backend Backend) *cobra.Command {
	var (
		flags  filterFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write transactions as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}

			svc, err := backend.Services(cmd.Context())
			if err != nil {
				return err
			}

			var n int

			write := func(w io.Writer) (werr error) {
				n, werr = svc.Export.Export(cmd.Context(), filter, w)
				return werr
			}

			if output == "" || output == "-" {
				err = write(cmd.OutOrStdout())
			} else {
				err = export.WriteFile(output, write)
			}

			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d transaction(s).\n", n)

			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, stdout when empty")

	return cmd
}
