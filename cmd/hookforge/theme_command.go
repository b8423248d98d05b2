// cmd/hookforge/theme_command.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Corphon/HookForge/internal/app"
	"github.com/Corphon/HookForge/internal/models"
)

func newThemeCommand(ctx *commandContext) *cobra.Command {
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Read or change the stored theme",
	}

	themeCmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the current theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), svc.Store.State().Theme)
			return nil
		},
	})

	themeCmd.AddCommand(&cobra.Command{
		Use:       "set <light|dark>",
		Short:     "Store a theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(models.ThemeLight), string(models.ThemeDark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(cmd.ErrOrStderr(), func(svc *app.Services) error {
				if err := svc.Wizard.SetTheme(models.Theme(args[0])); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s\n", args[0])
				return nil
			})
		},
	})

	return themeCmd
}
