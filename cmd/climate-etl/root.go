package main

import "github.com/spf13/cobra"

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "climate-etl",
		Short: "Extract monthly climate series from Wikipedia climate tables",
		Long: "climate-etl fetches Wikipedia pages, finds the climate table on each\n" +
			"(wikitable, irregular wikitable or infobox) and stores the average\n" +
			"high and low temperatures and sunshine hours per month.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.AddCommand(newRunCmd(), newParseCmd(), newValidateCmd())
	return root
}
