// cmd/hookforge/formats_command.go
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Corphon/HookForge/internal/models"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the hook formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), renderFormats(models.FormatCatalog))
			return nil
		},
	}
}

func renderFormats(formats []models.ContentFormat) string {
	rows := make([][]string, 0, len(formats))
	for _, f := range formats {
		rows = append(rows, []string{strconv.Itoa(f.ID), f.Name, f.Category, f.Example})
	}
	return renderTable(
		[]string{"ID", "Format", "Category", "Example"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
		60,
	)
}
