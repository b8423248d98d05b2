// internal/services/export_service.go
package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/Corphon/HookForge/internal/errors"
	"github.com/Corphon/HookForge/internal/models"
	"github.com/Corphon/HookForge/internal/storage"
	"github.com/Corphon/HookForge/internal/utils"
)

const exportsDir = "exports"

// Hook export formats
const (
	HookExportText = "txt"
	HookExportCSV  = "csv"
	HookExportCopy = "copy"
)

// Script export parts
const (
	ScriptExportFull      = "full"
	ScriptExportPrompts   = "prompts"
	ScriptExportVoiceover = "voiceover"
	ScriptExportJSON      = "json"
)

// ExportService renders hooks and scripts for download and optionally keeps a copy on disk.
type ExportService struct {
	files  *storage.FileStorage
	logger *utils.Logger
}

// NewExportService creates the service. files may be nil, in which case nothing is saved.
func NewExportService(files *storage.FileStorage) *ExportService {
	return &ExportService{
		files:  files,
		logger: utils.GetLogger(),
	}
}

// ExportHooks renders hooks in format (txt, csv or copy).
func (s *ExportService) ExportHooks(hooks []models.Hook, format string, save bool) (*models.ExportResult, error) {
	result := &models.ExportResult{
		Kind:        "hooks",
		Format:      strings.ToLower(format),
		ItemCount:   len(hooks),
		GeneratedAt: time.Now(),
	}

	switch result.Format {
	case HookExportText:
		result.Content = FormatHooksText(hooks)
		result.ContentType = "text/plain; charset=utf-8"
		result.FileName = "hooks.txt"
	case HookExportCSV:
		result.Content = FormatHooksCSV(hooks)
		result.ContentType = "text/csv; charset=utf-8"
		result.FileName = "hooks.csv"
	case HookExportCopy:
		result.Content = FormatHooksCopy(hooks)
		result.ContentType = "text/plain; charset=utf-8"
		result.FileName = "hooks-copy.txt"
	default:
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unsupported hook export format %q, supported: txt, csv, copy", format), nil)
	}

	return s.finish(result, save)
}

// ExportScript renders one part of doc (full, prompts, voiceover or json).
func (s *ExportService) ExportScript(doc *models.ScriptDocument, part string, save bool) (*models.ExportResult, error) {
	if doc == nil {
		return nil, apperrors.NewNotFoundError("no script has been generated yet", nil)
	}

	result := &models.ExportResult{
		Kind:        "script",
		Format:      strings.ToLower(part),
		ItemCount:   len(doc.Shots),
		ContentType: "text/plain; charset=utf-8",
		GeneratedAt: time.Now(),
	}

	switch result.Format {
	case ScriptExportFull:
		result.Content = FormatScriptFull(doc)
		result.FileName = "script.txt"
	case ScriptExportPrompts:
		result.Content = FormatScriptPrompts(doc)
		result.FileName = "script-prompts.txt"
	case ScriptExportVoiceover:
		result.Content = FormatScriptVoiceover(doc)
		result.FileName = "script-voiceover.txt"
	case ScriptExportJSON:
		content, err := FormatScriptJSON(doc)
		if err != nil {
			return nil, apperrors.NewServiceError("failed to encode script", err)
		}
		result.Content = content
		result.ContentType = "application/json"
		result.FileName = "script.json"
	default:
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unsupported script export part %q, supported: full, prompts, voiceover, json", part), nil)
	}

	return s.finish(result, save)
}

func (s *ExportService) finish(result *models.ExportResult, save bool) (*models.ExportResult, error) {
	result.FileSize = int64(len(result.Content))
	if !save || s.files == nil {
		return result, nil
	}

	fileName := fmt.Sprintf("%s_%s_%s", result.Kind, uuid.NewString(), result.FileName)
	if err := s.files.SaveTextFile(exportsDir, fileName, []byte(result.Content)); err != nil {
		return nil, apperrors.NewServiceError("failed to save export", err)
	}
	result.FilePath = s.files.Path(exportsDir, fileName)

	s.logger.Info("Export saved", map[string]interface{}{
		"kind":   result.Kind,
		"format": result.Format,
		"path":   result.FilePath,
		"items":  result.ItemCount,
	})
	return result, nil
}

// ListSaved returns the exports written to disk, newest first.
func (s *ExportService) ListSaved() ([]models.SavedExport, error) {
	if s.files == nil {
		return []models.SavedExport{}, nil
	}

	infos, err := s.files.ListFiles(exportsDir)
	if err != nil {
		return nil, apperrors.NewServiceError("failed to list exports", err)
	}

	saved := make([]models.SavedExport, 0, len(infos))
	for _, info := range infos {
		saved = append(saved, models.SavedExport{
			Name:       info.Name(),
			Path:       s.files.Path(exportsDir, info.Name()),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	return saved, nil
}

// FormatHooksText renders each hook as its format name and text, blocks separated by a --- line.
func FormatHooksText(hooks []models.Hook) string {
	blocks := make([]string, 0, len(hooks))
	for _, h := range hooks {
		blocks = append(blocks, h.FormatName+"\n"+h.HookText+"\n")
	}
	return strings.Join(blocks, "\n---\n")
}

// FormatHooksCSV renders a Format,Category,Hook table with every field quoted.
func FormatHooksCSV(hooks []models.Hook) string {
	rows := make([]string, 0, len(hooks))
	for _, h := range hooks {
		rows = append(rows, strings.Join([]string{
			csvQuote(h.FormatName),
			csvQuote(h.Category),
			csvQuote(h.HookText),
		}, ","))
	}
	return "Format,Category,Hook\n" + strings.Join(rows, "\n")
}

func csvQuote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// FormatHooksCopy joins the hook texts with blank lines.
func FormatHooksCopy(hooks []models.Hook) string {
	texts := make([]string, 0, len(hooks))
	for _, h := range hooks {
		texts = append(texts, h.HookText)
	}
	return strings.Join(texts, "\n\n")
}

// FormatScriptFull renders the whole script as plain text.
func FormatScriptFull(doc *models.ScriptDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\nSubtitle: %s\n\n", doc.Title, doc.Subtitle)
	fmt.Fprintf(&b, "CHARACTER GUIDE:\n%s\n\n", doc.CharacterGuide)
	fmt.Fprintf(&b, "SETTING GUIDE:\n%s\n\n", doc.SettingGuide)
	b.WriteString("COMPLETE VIDEO SCRIPT:\n")
	for _, shot := range doc.Shots {
		fmt.Fprintf(&b, "\nSHOT %d - %s (%s)\n", shot.ShotNumber, shot.Name, shot.Timing)
		fmt.Fprintf(&b, "VOICEOVER/DIALOGUE: %s\n", shot.Voiceover)
		fmt.Fprintf(&b, "VISUAL DESCRIPTION: %s\n", shot.Visual)
		fmt.Fprintf(&b, "AI GENERATION PROMPT: \"%s\"\n", shot.AIPrompt)
	}
	fmt.Fprintf(&b, "\nPRODUCTION NOTES:\n%s", doc.ProductionNotes)
	return b.String()
}

// FormatScriptPrompts joins the AI generation prompts with blank lines.
func FormatScriptPrompts(doc *models.ScriptDocument) string {
	prompts := make([]string, 0, len(doc.Shots))
	for _, shot := range doc.Shots {
		prompts = append(prompts, shot.AIPrompt)
	}
	return strings.Join(prompts, "\n\n")
}

// FormatScriptVoiceover joins the voiceover lines.
func FormatScriptVoiceover(doc *models.ScriptDocument) string {
	lines := make([]string, 0, len(doc.Shots))
	for _, shot := range doc.Shots {
		lines = append(lines, shot.Voiceover)
	}
	return strings.Join(lines, "\n")
}

// FormatScriptJSON renders doc as indented JSON.
func FormatScriptJSON(doc *models.ScriptDocument) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
