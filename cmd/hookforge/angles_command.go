// cmd/hookforge/angles_command.go
package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Corphon/HookForge/internal/app"
	"github.com/Corphon/HookForge/internal/models"
	"github.com/Corphon/HookForge/internal/parser"
)

func newAnglesCommand(ctx *commandContext) *cobra.Command {
	anglesCmd := &cobra.Command{
		Use:   "angles",
		Short: "Show or clear the stored book angles",
	}

	var plain bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored book angles",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.ensureServices()
			if err != nil {
				return err
			}
			angles := svc.Store.State().Angles
			if angles == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No book angles stored. Run `hookforge analyze` first.")
				return nil
			}
			if plain {
				fmt.Fprint(cmd.OutOrStdout(), parser.FormatAngles(angles))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderAngles(angles))
			return nil
		},
	}
	showCmd.Flags().BoolVar(&plain, "plain", false, "Print LABEL: value lines for manual editing")
	anglesCmd.AddCommand(showCmd)

	anglesCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored book angles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(cmd.ErrOrStderr(), func(svc *app.Services) error {
				svc.Wizard.ClearAngles()
				return nil
			})
		},
	})

	return anglesCmd
}

func renderAngles(angles models.AngleSet) string {
	rows := make([][]string, 0, len(models.AngleCatalog))
	for _, def := range models.AngleCatalog {
		value := strings.TrimSpace(angles[def.Key])
		if value == "" {
			value = "-"
		}
		rows = append(rows, []string{def.Emoji + " " + def.Name, value})
	}
	return renderTable([]string{"Angle", "Value"}, rows, nil, 70)
}
