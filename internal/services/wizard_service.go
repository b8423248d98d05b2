// internal/services/wizard_service.go
package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Corphon/HookForge/internal/config"
	apperrors "github.com/Corphon/HookForge/internal/errors"
	"github.com/Corphon/HookForge/internal/llm"
	"github.com/Corphon/HookForge/internal/models"
	"github.com/Corphon/HookForge/internal/parser"
	"github.com/Corphon/HookForge/internal/utils"
	"github.com/Corphon/HookForge/internal/wizard"
)

const (
	DefaultScriptLength   = "30"
	DefaultScriptPlatform = "TikTok"
)

// ScriptOptions selects the hook and shape of a video script.
// A non-blank CustomHook wins over SelectedHook.
type ScriptOptions struct {
	SelectedHook string `json:"selected_hook"`
	CustomHook   string `json:"custom_hook"`
	Length       string `json:"length"`
	Platform     string `json:"platform"`
}

// WizardService drives the four wizard stages against the session store.
type WizardService struct {
	store     *wizard.Store
	generator Generator
	metrics   *utils.AppMetrics
	logger    *utils.Logger

	maxUploadBytes int64

	// serializes read-modify-write edits of the format selection
	selectionMu sync.Mutex

	mu     sync.RWMutex
	stage  models.Stage
	script *models.ScriptDocument
}

// WizardOption configures a WizardService.
type WizardOption func(*WizardService)

// WithMetrics sets the metrics sink.
func WithMetrics(metrics *utils.AppMetrics) WizardOption {
	return func(s *WizardService) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithMaxUploadBytes overrides the upload limit.
func WithMaxUploadBytes(n int64) WizardOption {
	return func(s *WizardService) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// NewWizardService creates the service. store and generator are required.
func NewWizardService(store *wizard.Store, generator Generator, opts ...WizardOption) *WizardService {
	s := &WizardService{
		store:          store,
		generator:      generator,
		metrics:        utils.NewAppMetrics(),
		logger:         utils.GetLogger(),
		maxUploadBytes: config.DefaultMaxUploadBytes,
		stage:          models.StageAngles,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store exposes the session store.
func (s *WizardService) Store() *wizard.Store {
	return s.store
}

// State returns the current session snapshot.
func (s *WizardService) State() wizard.State {
	return s.store.State()
}

// Restore reloads persisted angles and theme.
func (s *WizardService) Restore() wizard.State {
	return s.store.Dispatch(wizard.RestoreFromStorage{})
}

// notify enqueues a notification and counts it.
func (s *WizardService) notify(message string, severity models.Severity) uint64 {
	s.metrics.RecordNotification(string(severity))
	return s.store.Notify(message, severity)
}

// reject surfaces err as a notification and returns it.
func (s *WizardService) reject(err *apperrors.AppError, severity models.Severity) error {
	s.notify(err.Message, severity)
	return err
}

// begin claims the busy flag of op or reports a conflict.
func (s *WizardService) begin(op models.Operation, label string) error {
	if s.store.BeginOperation(op) {
		return nil
	}
	s.metrics.RecordRejectedOperation(string(op))
	s.logger.Warn("Operation already in progress", map[string]interface{}{"operation": string(op)})
	return s.reject(apperrors.NewConflictError(label+" is already in progress.", nil), models.SeverityWarning)
}

// fail records a generator failure on the session.
func (s *WizardService) fail(prefix string, err error) error {
	msg := fmt.Sprintf("%s: %s", prefix, errorMessage(err))
	s.store.Dispatch(wizard.ErrorMessage(msg))
	s.notify(msg, models.SeverityError)
	return err
}

func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}

// AnalyzeText extracts angles from pasted book text.
func (s *WizardService) AnalyzeText(ctx context.Context, text string) (models.AngleSet, error) {
	if strings.TrimSpace(text) == "" {
		return nil, s.reject(apperrors.NewValidationError("Please paste some text.", nil), models.SeverityWarning)
	}
	return s.analyze(ctx, BuildAnglePrompt(text), nil, text)
}

// AnalyzeFile extracts angles from an uploaded .txt or .pdf book.
func (s *WizardService) AnalyzeFile(ctx context.Context, name, declaredType string, data []byte) (models.AngleSet, error) {
	payload, err := ValidateUpload(name, declaredType, data, s.maxUploadBytes)
	if err != nil {
		var appErr *apperrors.AppError
		if stderrors.As(err, &appErr) {
			return nil, s.reject(appErr, models.SeverityError)
		}
		return nil, err
	}

	sourceText := string(data)
	if payload.MIMEType == MIMEPDF {
		sourceText = fmt.Sprintf("PDF file uploaded: %s", name)
	}
	return s.analyze(ctx, BuildAnglePrompt(""), payload, sourceText)
}

func (s *WizardService) analyze(ctx context.Context, prompt string, file *llm.FilePayload, sourceText string) (models.AngleSet, error) {
	if err := s.begin(models.OperationAnalyzing, "Book analysis"); err != nil {
		return nil, err
	}
	defer s.store.EndOperation(models.OperationAnalyzing)

	s.store.Dispatch(wizard.ClearError())
	start := time.Now()

	text, err := s.generator.Generate(ctx, prompt, file)
	if err != nil {
		return nil, s.fail("Analysis failed", err)
	}

	angles := parser.ParseAngles(text)
	s.store.Dispatch(wizard.SetAngles{Angles: angles})
	s.store.Dispatch(wizard.SetSourceText{Text: sourceText})
	s.notify("Book analysis complete! Fields have been auto-filled.", models.SeveritySuccess)

	s.logger.Info("Book analysis completed", map[string]interface{}{
		"operation":   string(models.OperationAnalyzing),
		"duration_ms": time.Since(start).Milliseconds(),
		"with_file":   file != nil,
	})
	return angles, nil
}

// SaveAngles stores manually edited angles and moves on to format selection.
func (s *WizardService) SaveAngles(angles models.AngleSet) models.AngleSet {
	normalized := angles.Normalize()
	s.store.Dispatch(wizard.SetAngles{Angles: normalized})
	s.notify("Book angles saved!", models.SeveritySuccess)
	s.setStage(models.StageFormats)
	return normalized
}

// ClearAngles removes the angles from the session and from storage.
func (s *WizardService) ClearAngles() {
	s.store.Dispatch(wizard.SetAngles{Angles: nil})
	s.notify("Book angles cleared.", models.SeveritySuccess)
}

// SetSourceText replaces the book text used as prompt context.
func (s *WizardService) SetSourceText(text string) {
	s.store.Dispatch(wizard.SetSourceText{Text: text})
}

// ToggleFormat adds or removes one format from the selection.
func (s *WizardService) ToggleFormat(id int) ([]int, error) {
	if _, ok := models.FormatByID(id); !ok {
		return nil, s.reject(apperrors.NewValidationError(fmt.Sprintf("Unknown format %d.", id), nil), models.SeverityError)
	}

	s.selectionMu.Lock()
	defer s.selectionMu.Unlock()

	current := s.store.State()
	next := make([]int, 0, len(current.SelectedFormatIDs)+1)
	for _, selected := range current.SelectedFormatIDs {
		if selected != id {
			next = append(next, selected)
		}
	}
	if !current.IsFormatSelected(id) {
		next = append(next, id)
	}
	return s.store.Dispatch(wizard.SetSelectedFormats{IDs: next}).SelectedFormatIDs, nil
}

// ToggleAllFormats selects every format, or none when all are selected.
func (s *WizardService) ToggleAllFormats() []int {
	s.selectionMu.Lock()
	defer s.selectionMu.Unlock()

	if len(s.store.State().SelectedFormatIDs) == len(models.FormatCatalog) {
		return s.store.Dispatch(wizard.SetSelectedFormats{IDs: []int{}}).SelectedFormatIDs
	}

	all := make([]int, 0, len(models.FormatCatalog))
	for _, f := range models.FormatCatalog {
		all = append(all, f.ID)
	}
	return s.store.Dispatch(wizard.SetSelectedFormats{IDs: all}).SelectedFormatIDs
}

// SetSelection replaces the selection. Unknown ids are rejected.
func (s *WizardService) SetSelection(ids []int) ([]int, error) {
	for _, id := range ids {
		if _, ok := models.FormatByID(id); !ok {
			return nil, s.reject(apperrors.NewValidationError(fmt.Sprintf("Unknown format %d.", id), nil), models.SeverityError)
		}
	}

	s.selectionMu.Lock()
	defer s.selectionMu.Unlock()
	return s.store.Dispatch(wizard.SetSelectedFormats{IDs: ids}).SelectedFormatIDs, nil
}

// ConfirmFormats moves on to hook generation when at least one format is selected.
func (s *WizardService) ConfirmFormats() error {
	if len(s.store.State().SelectedFormatIDs) == 0 {
		return s.reject(apperrors.NewValidationError("Please select at least one format.", nil), models.SeverityWarning)
	}
	s.setStage(models.StageGenerator)
	return nil
}

// GenerateHooks asks for three hooks per selected format and replaces the hook list.
func (s *WizardService) GenerateHooks(ctx context.Context) ([]models.Hook, error) {
	state := s.store.State()
	if state.Angles == nil {
		return nil, s.reject(apperrors.NewValidationError("Please fill out your book angles first!", nil), models.SeverityError)
	}
	if len(state.SelectedFormatIDs) == 0 {
		return nil, s.reject(apperrors.NewValidationError("Please select at least one format first!", nil), models.SeverityError)
	}
	if strings.TrimSpace(state.SourceText) == "" {
		s.notify("For best results, please upload or paste your book text first!", models.SeverityWarning)
	}

	if err := s.begin(models.OperationGeneratingHooks, "Hook generation"); err != nil {
		return nil, err
	}
	defer s.store.EndOperation(models.OperationGeneratingHooks)

	s.store.Dispatch(wizard.ClearError())
	start := time.Now()

	formats := models.FormatsByIDs(state.SelectedFormatIDs)
	text, err := s.generator.Generate(ctx, BuildHooksPrompt(state.Angles, formats, state.SourceText), nil)
	if err != nil {
		return nil, s.fail("Generation failed", err)
	}

	hooks := parser.ParseHooks(text)
	dropped := parser.HookBlockCount(text) - len(hooks)
	s.metrics.RecordHookParse(len(hooks), dropped)
	s.store.Dispatch(wizard.SetHooks{Hooks: hooks})

	if len(hooks) == 0 {
		s.notify("0 hooks parsed. The response did not contain any complete hook.", models.SeverityWarning)
	} else {
		s.notify(fmt.Sprintf("%d hooks generated!", len(hooks)), models.SeveritySuccess)
	}

	s.logger.Info("Hooks generated", map[string]interface{}{
		"operation":      string(models.OperationGeneratingHooks),
		"duration_ms":    time.Since(start).Milliseconds(),
		"formats":        len(formats),
		"hooks":          len(hooks),
		"blocks_dropped": dropped,
	})
	return hooks, nil
}

// GenerateScript turns one hook into a shot-by-shot script.
func (s *WizardService) GenerateScript(ctx context.Context, opts ScriptOptions) (*models.ScriptDocument, error) {
	hookText := strings.TrimSpace(opts.CustomHook)
	if hookText == "" {
		hookText = opts.SelectedHook
	}
	if strings.TrimSpace(hookText) == "" {
		return nil, s.reject(apperrors.NewValidationError("Please select a hook or write a custom one.", nil), models.SeverityError)
	}

	state := s.store.State()
	if state.Angles == nil {
		return nil, s.reject(apperrors.NewValidationError("Book angles are missing. Please complete Step 1.", nil), models.SeverityError)
	}

	if err := s.begin(models.OperationGeneratingScript, "Script generation"); err != nil {
		return nil, err
	}
	defer s.store.EndOperation(models.OperationGeneratingScript)

	s.setScript(nil)
	start := time.Now()

	req := ScriptRequest{
		HookText:   hookText,
		FormatName: models.CustomCategory,
		Category:   models.CustomCategory,
		Length:     valueOr(opts.Length, DefaultScriptLength),
		Platform:   valueOr(opts.Platform, DefaultScriptPlatform),
	}
	if hook, ok := models.FindHookByText(state.Hooks, hookText); ok {
		req.FormatName = valueOr(hook.FormatName, models.CustomCategory)
		req.Category = valueOr(hook.Category, models.CustomCategory)
	}

	text, err := s.generator.Generate(ctx, BuildScriptPrompt(state.Angles, state.SourceText, req), nil)
	if err != nil {
		return nil, s.fail("Script generation failed", err)
	}

	doc := parser.ParseScript(text, parser.ScriptContext{
		HookText:   req.HookText,
		FormatName: req.FormatName,
		Category:   req.Category,
		Length:     req.Length,
		Platform:   req.Platform,
	})
	dropped := parser.DroppedShots(text)
	missing := doc.MissingSections()
	s.metrics.RecordScriptParse(len(doc.Shots), dropped, len(missing))
	s.setScript(&doc)

	if dropped > 0 {
		s.notify(fmt.Sprintf("%d incomplete shots were skipped.", dropped), models.SeverityWarning)
	}
	if len(doc.Shots) == 0 {
		s.notify("The script contains no complete shots.", models.SeverityWarning)
	}

	s.logger.Info("Script generated", map[string]interface{}{
		"operation":        string(models.OperationGeneratingScript),
		"duration_ms":      time.Since(start).Milliseconds(),
		"shots":            len(doc.Shots),
		"shots_dropped":    dropped,
		"missing_sections": missing,
	})
	return &doc, nil
}

// LastScript returns the most recently generated script.
func (s *WizardService) LastScript() (*models.ScriptDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.script == nil {
		return nil, false
	}
	doc := *s.script
	doc.Shots = append([]models.Shot{}, s.script.Shots...)
	return &doc, true
}

func (s *WizardService) setScript(doc *models.ScriptDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = doc
}

// ReachableStages lists the stages the session allows.
func (s *WizardService) ReachableStages() []models.Stage {
	return wizard.ReachableStages(s.store.State())
}

// CurrentStage returns the active stage, falling back to the first stage
// when the active one is no longer reachable.
func (s *WizardService) CurrentStage() models.Stage {
	s.mu.RLock()
	stage := s.stage
	s.mu.RUnlock()

	if !wizard.CanEnter(s.store.State(), stage) {
		return models.StageAngles
	}
	return stage
}

// Navigate switches to stage when its prerequisites are met.
func (s *WizardService) Navigate(raw string) (models.Stage, error) {
	stage, ok := models.ParseStage(raw)
	if !ok {
		return "", apperrors.NewValidationError(fmt.Sprintf("Unknown stage %q.", raw), nil)
	}
	if !wizard.CanEnter(s.store.State(), stage) {
		return "", s.reject(apperrors.NewValidationError(
			fmt.Sprintf("The %s stage is not available yet.", stage), nil), models.SeverityWarning)
	}
	s.setStage(stage)
	return stage, nil
}

func (s *WizardService) setStage(stage models.Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = stage
}

// SetTheme switches and persists the theme.
func (s *WizardService) SetTheme(theme models.Theme) error {
	if !theme.Valid() {
		return apperrors.NewValidationError(fmt.Sprintf("Unknown theme %q.", theme), nil)
	}
	s.store.Dispatch(wizard.SetTheme{Theme: theme})
	return nil
}

// DismissNotification removes a queued notification.
func (s *WizardService) DismissNotification(id uint64) {
	s.store.Dispatch(wizard.DismissNotification{ID: id})
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}
