package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Corphon/HookForge/internal/errors"
	"github.com/Corphon/HookForge/internal/llm"
	"github.com/Corphon/HookForge/internal/models"
	"github.com/Corphon/HookForge/internal/utils"
	"github.com/Corphon/HookForge/internal/wizard"
)

type generateCall struct {
	prompt string
	file   *llm.FilePayload
}

type fakeGenerator struct {
	mu    sync.Mutex
	text  string
	err   error
	calls []generateCall

	// when set, Generate signals started and waits for release
	started chan struct{}
	release chan struct{}
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string, file *llm.FilePayload) (string, error) {
	g.mu.Lock()
	g.calls = append(g.calls, generateCall{prompt: prompt, file: file})
	started, release := g.started, g.release
	g.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *fakeGenerator) lastPrompt() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.calls) == 0 {
		return ""
	}
	return g.calls[len(g.calls)-1].prompt
}

func newTestWizard(t *testing.T, gen Generator) *WizardService {
	t.Helper()
	store := wizard.NewStore(nil, wizard.WithLogger(utils.NewNopLogger()))
	t.Cleanup(store.Close)
	return NewWizardService(store, gen, WithMetrics(newTestMetrics()))
}

func lastNotification(t *testing.T, s *WizardService) models.Notification {
	t.Helper()
	notes := s.State().Notifications
	require.NotEmpty(t, notes)
	return notes[len(notes)-1]
}

func withAnglesAndFormats(s *WizardService, ids ...int) {
	angles := models.NewAngleSet()
	angles[models.AngleTitle] = "Dune"
	s.Store().Dispatch(wizard.SetAngles{Angles: angles})
	s.Store().Dispatch(wizard.SetSelectedFormats{IDs: ids})
}

func TestAnalyzeTextStoresAngles(t *testing.T) {
	gen := &fakeGenerator{text: "BOOK_TITLE: Dune\nSHOCK_FACTOR: the spice is alive"}
	s := newTestWizard(t, gen)

	angles, err := s.AnalyzeText(context.Background(), "In the beginning...")
	require.NoError(t, err)
	assert.Equal(t, "Dune", angles[models.AngleTitle])
	assert.Len(t, angles, len(models.AngleCatalog))

	state := s.State()
	assert.Equal(t, "the spice is alive", state.Angles[models.AngleShockFactor])
	assert.Equal(t, "In the beginning...", state.SourceText)
	assert.False(t, state.IsBusy(models.OperationAnalyzing))
	assert.Contains(t, gen.lastPrompt(), "[BOOK TEXT FOLLOWS]\n\nIn the beginning...")

	note := lastNotification(t, s)
	assert.Equal(t, models.SeveritySuccess, note.Severity)
	assert.Equal(t, "Book analysis complete! Fields have been auto-filled.", note.Message)
}

func TestAnalyzeTextRejectsBlankInput(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestWizard(t, gen)

	_, err := s.AnalyzeText(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
	assert.Zero(t, gen.callCount())

	note := lastNotification(t, s)
	assert.Equal(t, models.SeverityWarning, note.Severity)
	assert.Equal(t, "Please paste some text.", note.Message)
}

func TestAnalyzeFilePDFStoresPlaceholder(t *testing.T) {
	gen := &fakeGenerator{text: "BOOK_TITLE: Dune"}
	s := newTestWizard(t, gen)

	data := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	_, err := s.AnalyzeFile(context.Background(), "dune.pdf", "application/pdf", data)
	require.NoError(t, err)

	assert.Equal(t, "PDF file uploaded: dune.pdf", s.State().SourceText)
	require.Equal(t, 1, gen.callCount())
	assert.Equal(t, MIMEPDF, gen.calls[0].file.MIMEType)
	assert.NotContains(t, gen.calls[0].prompt, "[BOOK TEXT FOLLOWS]")
}

func TestAnalyzeFileRejectsUnsupportedType(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestWizard(t, gen)

	_, err := s.AnalyzeFile(context.Background(), "cover.png", "image/png", []byte("\x89PNG\r\n\x1a\n\x00\x00"))
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
	assert.Zero(t, gen.callCount())
	assert.Equal(t, models.SeverityError, lastNotification(t, s).Severity)
}

func TestAnalyzeFailureSetsErrorAndClearsBusy(t *testing.T) {
	gen := &fakeGenerator{err: apperrors.NewServiceError("boom", errors.New("boom"))}
	s := newTestWizard(t, gen)

	_, err := s.AnalyzeText(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, apperrors.IsServiceError(err))

	state := s.State()
	assert.False(t, state.IsBusy(models.OperationAnalyzing))
	assert.Equal(t, "Analysis failed: boom", state.ErrorMessage())
	assert.Nil(t, state.Angles)

	note := lastNotification(t, s)
	assert.Equal(t, models.SeverityError, note.Severity)
	assert.Equal(t, "Analysis failed: boom", note.Message)
}

func TestSecondAnalysisWhileInFlightIsRejected(t *testing.T) {
	gen := &fakeGenerator{
		text:    "BOOK_TITLE: Dune",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newTestWizard(t, gen)

	done := make(chan error, 1)
	go func() {
		_, err := s.AnalyzeText(context.Background(), "first")
		done <- err
	}()
	<-gen.started

	_, err := s.AnalyzeText(context.Background(), "second")
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
	assert.Equal(t, models.SeverityWarning, lastNotification(t, s).Severity)
	assert.True(t, s.State().IsBusy(models.OperationAnalyzing))

	close(gen.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, gen.callCount())
	assert.False(t, s.State().IsBusy(models.OperationAnalyzing))
}

func TestGenerateHooksPreconditions(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestWizard(t, gen)

	_, err := s.GenerateHooks(context.Background())
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, "Please fill out your book angles first!", lastNotification(t, s).Message)

	s.Store().Dispatch(wizard.SetAngles{Angles: models.NewAngleSet()})
	_, err = s.GenerateHooks(context.Background())
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, "Please select at least one format first!", lastNotification(t, s).Message)

	assert.Zero(t, gen.callCount())
}

func TestGenerateHooksReplacesHooks(t *testing.T) {
	gen := &fakeGenerator{text: "FORMAT: POV Hook\nVARIATION: 1\nCATEGORY: Immersion\nHOOK: POV: you\n---\n" +
		"FORMAT: POV Hook\nVARIATION: 2\nCATEGORY: Immersion\nHOOK: POV: me\n---\nVARIATION: 3\nHOOK: orphan\n---"}
	s := newTestWizard(t, gen)
	withAnglesAndFormats(s, 1)
	s.SetSourceText("excerpt")

	hooks, err := s.GenerateHooks(context.Background())
	require.NoError(t, err)
	require.Len(t, hooks, 2)
	assert.Equal(t, models.Hook{FormatName: "POV Hook", Variation: 2, Category: "Immersion", HookText: "POV: me"}, hooks[1])

	state := s.State()
	assert.Equal(t, hooks, state.Hooks)
	assert.False(t, state.IsBusy(models.OperationGeneratingHooks))
	assert.Equal(t, "2 hooks generated!", lastNotification(t, s).Message)
	assert.Contains(t, gen.lastPrompt(), "- POV Hook")
	assert.Contains(t, wizard.ReachableStages(state), models.StageScripts)
}

func TestGenerateHooksWarnsWithoutSourceText(t *testing.T) {
	gen := &fakeGenerator{text: "FORMAT: POV Hook\nHOOK: hi"}
	s := newTestWizard(t, gen)
	withAnglesAndFormats(s, 1)

	_, err := s.GenerateHooks(context.Background())
	require.NoError(t, err)

	var warned bool
	for _, n := range s.State().Notifications {
		if n.Message == "For best results, please upload or paste your book text first!" {
			warned = n.Severity == models.SeverityWarning
		}
	}
	assert.True(t, warned)
	assert.Equal(t, 1, gen.callCount())
}

func TestGenerateHooksWithNoParsableBlocks(t *testing.T) {
	s := newTestWizard(t, &fakeGenerator{text: "Sorry, I cannot help with that."})
	withAnglesAndFormats(s, 2)

	hooks, err := s.GenerateHooks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, hooks)
	assert.Equal(t, models.SeverityWarning, lastNotification(t, s).Severity)
}

const scriptResponse = `### CHARACTER GUIDE ###
Paul, 15, dark hair.

### SETTING GUIDE ###
Arrakis at dawn.

### COMPLETE VIDEO SCRIPT ###
---
SHOT 1 - Opening (0-3s)
VOICEOVER/DIALOGUE: Fear is the mind-killer.
VISUAL DESCRIPTION: Dunes.
AI GENERATION PROMPT: "Wide shot of dunes"
---
SHOT 2 - Broken (3-6s)
VOICEOVER/DIALOGUE: Missing visual.
AI GENERATION PROMPT: "Nothing"
---

### PRODUCTION NOTES ###
- Music/Sound: drums`

func TestGenerateScriptUsesHookContext(t *testing.T) {
	gen := &fakeGenerator{text: scriptResponse}
	s := newTestWizard(t, gen)
	withAnglesAndFormats(s, 1)
	s.Store().Dispatch(wizard.SetHooks{Hooks: []models.Hook{
		{FormatName: "POV Hook", Variation: 1, Category: "Immersion", HookText: "POV: you"},
	}})

	doc, err := s.GenerateScript(context.Background(), ScriptOptions{SelectedHook: "POV: you"})
	require.NoError(t, err)

	assert.Equal(t, "30-Second Video Script", doc.Title)
	assert.Equal(t, "TikTok", doc.Metadata.Platform)
	assert.Equal(t, "Immersion", doc.Metadata.Category)
	assert.Equal(t, "POV Hook", doc.Metadata.FormatName)
	require.Len(t, doc.Shots, 1)
	assert.Equal(t, "Wide shot of dunes", doc.Shots[0].AIPrompt)

	prompt := gen.lastPrompt()
	assert.Contains(t, prompt, "FORMAT: POV Hook\nCATEGORY: Immersion")
	assert.Contains(t, prompt, "30-second video script for TikTok")

	last, ok := s.LastScript()
	require.True(t, ok)
	assert.Equal(t, doc.Title, last.Title)
	assert.False(t, s.State().IsBusy(models.OperationGeneratingScript))
	assert.Equal(t, "1 incomplete shots were skipped.", lastNotification(t, s).Message)
}

func TestGenerateScriptCustomHookWins(t *testing.T) {
	gen := &fakeGenerator{text: scriptResponse}
	s := newTestWizard(t, gen)
	withAnglesAndFormats(s, 1)

	doc, err := s.GenerateScript(context.Background(), ScriptOptions{
		SelectedHook: "POV: you",
		CustomHook:   "  My own hook  ",
		Length:       "60",
		Platform:     "YouTube Shorts",
	})
	require.NoError(t, err)
	assert.Equal(t, models.CustomCategory, doc.Metadata.Category)
	assert.Equal(t, "60", doc.Metadata.Duration)
	assert.Contains(t, gen.lastPrompt(), "\"My own hook\"")
}

func TestGenerateScriptPreconditions(t *testing.T) {
	gen := &fakeGenerator{}
	s := newTestWizard(t, gen)

	_, err := s.GenerateScript(context.Background(), ScriptOptions{})
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, "Please select a hook or write a custom one.", lastNotification(t, s).Message)

	_, err = s.GenerateScript(context.Background(), ScriptOptions{CustomHook: "hook"})
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, "Book angles are missing. Please complete Step 1.", lastNotification(t, s).Message)
	assert.Zero(t, gen.callCount())
}

func TestToggleFormats(t *testing.T) {
	s := newTestWizard(t, &fakeGenerator{})

	ids, err := s.ToggleFormat(3)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, ids)

	ids, err = s.ToggleFormat(1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, ids)

	ids, err = s.ToggleFormat(3)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids)

	_, err = s.ToggleFormat(999)
	assert.True(t, apperrors.IsValidationError(err))

	all := s.ToggleAllFormats()
	assert.Len(t, all, len(models.FormatCatalog))
	assert.Empty(t, s.ToggleAllFormats())
}

func TestConfirmFormatsRequiresSelection(t *testing.T) {
	s := newTestWizard(t, &fakeGenerator{})

	err := s.ConfirmFormats()
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, "Please select at least one format.", lastNotification(t, s).Message)

	withAnglesAndFormats(s, 2)
	require.NoError(t, s.ConfirmFormats())
	assert.Equal(t, models.StageGenerator, s.CurrentStage())
}

func TestNavigateHonorsGates(t *testing.T) {
	s := newTestWizard(t, &fakeGenerator{})

	_, err := s.Navigate("formats")
	assert.True(t, apperrors.IsValidationError(err))

	_, err = s.Navigate("nowhere")
	assert.True(t, apperrors.IsValidationError(err))

	s.SaveAngles(models.AngleSet{models.AngleTitle: "Dune"})
	assert.Equal(t, models.StageFormats, s.CurrentStage())

	stage, err := s.Navigate("generator")
	require.NoError(t, err)
	assert.Equal(t, models.StageGenerator, stage)

	s.ClearAngles()
	assert.Equal(t, models.StageAngles, s.CurrentStage())
}

func TestSaveAnglesNormalizes(t *testing.T) {
	s := newTestWizard(t, &fakeGenerator{})

	saved := s.SaveAngles(models.AngleSet{models.AngleTitle: "Dune", "bogus": "x"})
	assert.Len(t, saved, len(models.AngleCatalog))
	assert.NotContains(t, saved, models.AngleKey("bogus"))
	assert.Equal(t, "Book angles saved!", lastNotification(t, s).Message)
}

func TestSetThemeValidates(t *testing.T) {
	s := newTestWizard(t, &fakeGenerator{})

	require.NoError(t, s.SetTheme(models.ThemeDark))
	assert.Equal(t, models.ThemeDark, s.State().Theme)
	assert.True(t, apperrors.IsValidationError(s.SetTheme("neon")))
}

func TestDismissNotification(t *testing.T) {
	s := newTestWizard(t, &fakeGenerator{})
	s.SaveAngles(models.NewAngleSet())

	id := lastNotification(t, s).ID
	s.DismissNotification(id)
	assert.Empty(t, s.State().Notifications)
}
