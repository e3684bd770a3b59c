package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReprocessCommand(backend Backend) *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "reprocess",
		Short: "Run the processor chain again over stored transactions",
		Long: "Runs the built-in processors and learned rules over stored transactions. " +
			"Tags are only ever added, so running it twice changes nothing the second time.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}

			svc, err := backend.Services(cmd.Context())
			if err != nil {
				return err
			}

			txs, err := svc.Transactions.List(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("listing transactions: %w", err)
			}

			var tagged int

			for _, tx := range txs {
				before := len(tx.Tags)

				if err := svc.Runner.Run(cmd.Context(), tx); err != nil {
					return fmt.Errorf("processing transaction %s: %w", tx.ID, err)
				}

				if len(tx.Tags) > before {
					tagged++
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Processed %d transaction(s), %d gained tags.\n", len(txs), tagged)

			return nil
		},
	}

	flags.register(cmd)

	return cmd
}
