// cmd/hookforge/analyze_command.go
package main

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Corphon/HookForge/internal/app"
	"github.com/Corphon/HookForge/internal/models"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var filePath string
	var text string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Extract book angles from a .txt/.pdf file or pasted text",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (filePath == "") == (text == "") {
				return errors.New("provide exactly one of --file or --text")
			}

			return ctx.withServices(cmd.ErrOrStderr(), func(svc *app.Services) error {
				var (
					angles models.AngleSet
					err    error
				)
				if filePath != "" {
					data, rerr := os.ReadFile(filePath)
					if rerr != nil {
						return fmt.Errorf("read %s: %w", filePath, rerr)
					}
					name := filepath.Base(filePath)
					angles, err = svc.Wizard.AnalyzeFile(cmd.Context(), name, mime.TypeByExtension(filepath.Ext(name)), data)
				} else {
					angles, err = svc.Wizard.AnalyzeText(cmd.Context(), text)
				}
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), renderAngles(angles))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Book file (.txt or .pdf)")
	cmd.Flags().StringVarP(&text, "text", "t", "", "Book text")
	return cmd
}
