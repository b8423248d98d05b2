// cmd/hookforge/root.go
package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hookforge",
		Short:         "Turn a book into marketing hooks and short video scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.dataDir, "data-dir", "", "Data directory (defaults to DATA_DIR or ./data)")
	rootCmd.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Show service logs")

	rootCmd.AddCommand(newFormatsCommand())
	rootCmd.AddCommand(newAnglesCommand(ctx))
	rootCmd.AddCommand(newAnalyzeCommand(ctx))
	rootCmd.AddCommand(newHooksCommand(ctx))
	rootCmd.AddCommand(newScriptCommand(ctx))
	rootCmd.AddCommand(newThemeCommand(ctx))

	return rootCmd
}
