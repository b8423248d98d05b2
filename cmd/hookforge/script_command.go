// cmd/hookforge/script_command.go
package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Corphon/HookForge/internal/app"
	"github.com/Corphon/HookForge/internal/models"
	"github.com/Corphon/HookForge/internal/services"
)

func newScriptCommand(ctx *commandContext) *cobra.Command {
	var (
		hook     string
		length   string
		platform string
		part     string
	)

	cmd := &cobra.Command{
		Use:   "script",
		Short: "Generate a shot-by-shot video script for a hook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withServices(cmd.ErrOrStderr(), func(svc *app.Services) error {
				doc, err := svc.Wizard.GenerateScript(cmd.Context(), services.ScriptOptions{
					CustomHook: hook,
					Length:     length,
					Platform:   platform,
				})
				if err != nil {
					return err
				}

				if part == "shots" {
					fmt.Fprintln(cmd.OutOrStdout(), renderShots(doc.Shots))
					return nil
				}
				result, err := svc.Export.ExportScript(doc, part, false)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), result.Content)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&hook, "hook", "", "Hook text the video is built around")
	cmd.Flags().StringVar(&length, "length", services.DefaultScriptLength, "Video length in seconds")
	cmd.Flags().StringVar(&platform, "platform", services.DefaultScriptPlatform, "Target platform")
	cmd.Flags().StringVar(&part, "part", services.ScriptExportFull, "Output: full, prompts, voiceover, json or shots")
	_ = cmd.MarkFlagRequired("hook")
	return cmd
}

func renderShots(shots []models.Shot) string {
	rows := make([][]string, 0, len(shots))
	for _, s := range shots {
		rows = append(rows, []string{strconv.Itoa(s.ShotNumber), s.Name, s.Timing, s.Voiceover, s.Visual})
	}
	return renderTable(
		[]string{"Shot", "Name", "Timing", "Voiceover", "Visual"},
		rows,
		[]columnAlignment{alignRight},
		40,
	)
}
