// cmd/hookforge/hooks_command.go
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Corphon/HookForge/internal/app"
	"github.com/Corphon/HookForge/internal/models"
	"github.com/Corphon/HookForge/internal/services"
)

func newHooksCommand(ctx *commandContext) *cobra.Command {
	var (
		formatIDs []int
		text      string
		filePath  string
		exportFmt string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Generate hooks for the stored angles and the chosen formats",
		Example: "  hookforge hooks --formats 1,4 --file book.txt\n" +
			"  hookforge hooks --formats 2 --export csv --out hooks.csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			if text != "" && filePath != "" {
				return errors.New("use either --text or --file, not both")
			}
			if exportFmt != "" && exportFmt != services.HookExportText && exportFmt != services.HookExportCSV && exportFmt != services.HookExportCopy {
				return fmt.Errorf("unknown export format %q (txt, csv or copy)", exportFmt)
			}

			return ctx.withServices(cmd.ErrOrStderr(), func(svc *app.Services) error {
				if _, err := svc.Wizard.SetSelection(formatIDs); err != nil {
					return err
				}

				switch {
				case filePath != "":
					data, err := os.ReadFile(filePath)
					if err != nil {
						return fmt.Errorf("read %s: %w", filePath, err)
					}
					svc.Wizard.SetSourceText(string(data))
				case text != "":
					svc.Wizard.SetSourceText(text)
				}

				hooks, err := svc.Wizard.GenerateHooks(cmd.Context())
				if err != nil {
					return err
				}

				if exportFmt == "" {
					fmt.Fprintln(cmd.OutOrStdout(), renderHooks(hooks))
					return nil
				}
				return writeHooksExport(cmd, svc, hooks, exportFmt, outPath)
			})
		},
	}

	cmd.Flags().IntSliceVar(&formatIDs, "formats", nil, "Format ids, comma separated (see `hookforge formats`)")
	cmd.Flags().StringVarP(&text, "text", "t", "", "Book text used as excerpt")
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Plain text book file used as excerpt")
	cmd.Flags().StringVar(&exportFmt, "export", "", "Export format: txt, csv or copy")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Export destination (defaults to stdout)")
	_ = cmd.MarkFlagRequired("formats")
	return cmd
}

func writeHooksExport(cmd *cobra.Command, svc *app.Services, hooks []models.Hook, format, outPath string) error {
	result, err := svc.Export.ExportHooks(hooks, format, false)
	if err != nil {
		return err
	}
	if outPath == "" {
		fmt.Fprint(cmd.OutOrStdout(), result.Content)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(result.Content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d hooks to %s\n", result.ItemCount, outPath)
	return nil
}

func renderHooks(hooks []models.Hook) string {
	rows := make([][]string, 0, len(hooks))
	for i, h := range hooks {
		rows = append(rows, []string{strconv.Itoa(i + 1), h.FormatName, strconv.Itoa(h.Variation), h.Category, h.HookText})
	}
	return renderTable(
		[]string{"#", "Format", "Var", "Category", "Hook"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignLeft},
		60,
	)
}
