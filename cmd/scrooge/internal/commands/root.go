package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(backend Backend) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "scrooge",
		Short: "Import bank statements and tag transactions",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newImportCommand(backend),
		newFormatsCommand(),
		newMigrateCommand(backend),
		newReprocessCommand(backend),
		newExportCommand(backend),
	)

	return rootCmd
}
