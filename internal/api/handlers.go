// internal/api/handlers.go
package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Corphon/HookForge/internal/config"
	"github.com/Corphon/HookForge/internal/llm"
	"github.com/Corphon/HookForge/internal/models"
	"github.com/Corphon/HookForge/internal/services"
	"github.com/Corphon/HookForge/internal/utils"
	"github.com/Corphon/HookForge/internal/wizard"
)

// Handler serves the HookForge HTTP API
type Handler struct {
	Wizard         *services.WizardService
	Export         *services.ExportService
	LLM            *services.LLMService
	Metrics        *utils.AppMetrics
	WS             *WebSocketManager
	Response       *ResponseHelper
	MaxUploadBytes int64

	limiter     *RateLimiter
	unsubscribe func()
	logger      *utils.Logger
}

// Close detaches the websocket feed and stops background loops.
func (h *Handler) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
	if h.WS != nil {
		h.WS.Close()
	}
	if h.limiter != nil {
		h.limiter.Stop()
	}
}

// SessionView is the session as the API shows it. The source text is
// summarized, not echoed.
type SessionView struct {
	Angles            models.AngleSet           `json:"angles"`
	HasSourceText     bool                      `json:"has_source_text"`
	SourceTextLength  int                       `json:"source_text_length"`
	SelectedFormatIDs []int                     `json:"selected_format_ids"`
	PotentialHooks    int                       `json:"potential_hooks"`
	Hooks             []models.Hook             `json:"hooks"`
	Busy              map[models.Operation]bool `json:"busy"`
	Error             *string                   `json:"error"`
	Notifications     []models.Notification     `json:"notifications"`
	Theme             models.Theme              `json:"theme"`
	ReachableStages   []models.Stage            `json:"reachable_stages"`
	CurrentStage      models.Stage              `json:"current_stage,omitempty"`
}

func newSessionView(state wizard.State) SessionView {
	return SessionView{
		Angles:            state.Angles,
		HasSourceText:     state.SourceText != "",
		SourceTextLength:  len([]rune(state.SourceText)),
		SelectedFormatIDs: state.SelectedFormatIDs,
		PotentialHooks:    len(state.SelectedFormatIDs) * models.HooksPerFormat,
		Hooks:             state.Hooks,
		Busy:              state.Busy,
		Error:             state.Error,
		Notifications:     state.Notifications,
		Theme:             state.Theme,
		ReachableStages:   wizard.ReachableStages(state),
	}
}

func (h *Handler) sessionView() SessionView {
	view := newSessionView(h.Wizard.State())
	view.CurrentStage = h.Wizard.CurrentStage()
	return view
}

// ---------- session & stages ----------

// GetSession returns the whole session.
func (h *Handler) GetSession(c *gin.Context) {
	h.Response.Success(c, h.sessionView())
}

// RestoreSession reloads stored angles and theme.
func (h *Handler) RestoreSession(c *gin.Context) {
	h.Wizard.Restore()
	h.Response.Success(c, h.sessionView())
}

// GetStages returns the current and reachable stages.
func (h *Handler) GetStages(c *gin.Context) {
	h.Response.Success(c, gin.H{
		"current":   h.Wizard.CurrentStage(),
		"reachable": h.Wizard.ReachableStages(),
	})
}

// NavigateStage moves the wizard to :stage when it is reachable.
func (h *Handler) NavigateStage(c *gin.Context) {
	stage, err := h.Wizard.Navigate(c.Param("stage"))
	if err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, gin.H{
		"current":   stage,
		"reachable": h.Wizard.ReachableStages(),
	})
}

// ---------- angles ----------

// GetAngleCatalog lists the angle definitions.
func (h *Handler) GetAngleCatalog(c *gin.Context) {
	h.Response.Success(c, models.AngleCatalog)
}

type analyzeRequest struct {
	Text string `json:"text"`
}

// AnalyzeBook extracts angles from pasted text (JSON) or an uploaded file (multipart "file").
func (h *Handler) AnalyzeBook(c *gin.Context) {
	var (
		angles models.AngleSet
		err    error
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fileHeader, ferr := c.FormFile("file")
		if ferr != nil {
			h.Response.Error(c, http.StatusBadRequest, ErrorFileUploadFailed, "No file uploaded", ferr.Error())
			return
		}
		file, ferr := fileHeader.Open()
		if ferr != nil {
			h.Response.Error(c, http.StatusBadRequest, ErrorFileUploadFailed, "Failed to open uploaded file", ferr.Error())
			return
		}
		defer file.Close()

		// one byte over the limit is enough for the size check
		data, ferr := io.ReadAll(io.LimitReader(file, h.MaxUploadBytes+1))
		if ferr != nil {
			h.Response.Error(c, http.StatusBadRequest, ErrorFileUploadFailed, "Failed to read uploaded file", ferr.Error())
			return
		}
		angles, err = h.Wizard.AnalyzeFile(c.Request.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	} else {
		var req analyzeRequest
		if berr := c.ShouldBindJSON(&req); berr != nil {
			h.Response.BadRequest(c, "Invalid request body", berr.Error())
			return
		}
		angles, err = h.Wizard.AnalyzeText(c.Request.Context(), req.Text)
	}

	if err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, angles, "Book analysis complete")
}

type saveAnglesRequest struct {
	Angles models.AngleSet `json:"angles" binding:"required"`
}

// SaveAngles replaces the stored angles with the edited set.
func (h *Handler) SaveAngles(c *gin.Context) {
	var req saveAnglesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "Invalid request body", err.Error())
		return
	}
	h.Response.Success(c, h.Wizard.SaveAngles(req.Angles))
}

// ClearAngles removes the angles.
func (h *Handler) ClearAngles(c *gin.Context) {
	h.Wizard.ClearAngles()
	h.Response.Success(c, h.sessionView())
}

// ---------- formats ----------

// GetFormats lists the catalog with the current selection.
func (h *Handler) GetFormats(c *gin.Context) {
	selected := h.Wizard.State().SelectedFormatIDs
	h.Response.Success(c, gin.H{
		"formats":         models.FormatCatalog,
		"selected_ids":    selected,
		"potential_hooks": len(selected) * models.HooksPerFormat,
	})
}

type selectionRequest struct {
	IDs []int `json:"ids"`
}

func (h *Handler) selectionResponse(c *gin.Context, ids []int) {
	h.Response.Success(c, gin.H{
		"selected_ids":    ids,
		"potential_hooks": len(ids) * models.HooksPerFormat,
	})
}

// SetFormatSelection replaces the selection.
func (h *Handler) SetFormatSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "Invalid request body", err.Error())
		return
	}
	ids, err := h.Wizard.SetSelection(req.IDs)
	if err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.selectionResponse(c, ids)
}

// ToggleFormat flips one format.
func (h *Handler) ToggleFormat(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.Response.Error(c, http.StatusBadRequest, ErrorFormatNotFound, "Format id must be a number")
		return
	}
	ids, err := h.Wizard.ToggleFormat(id)
	if err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.selectionResponse(c, ids)
}

// ToggleAllFormats selects everything, or nothing when everything is selected.
func (h *Handler) ToggleAllFormats(c *gin.Context) {
	h.selectionResponse(c, h.Wizard.ToggleAllFormats())
}

// ConfirmFormats moves on to generation.
func (h *Handler) ConfirmFormats(c *gin.Context) {
	if err := h.Wizard.ConfirmFormats(); err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, gin.H{"current": h.Wizard.CurrentStage()})
}

// ---------- hooks ----------

type generateHooksRequest struct {
	SourceText *string `json:"source_text"`
}

// GenerateHooks runs the generator for the selected formats.
func (h *Handler) GenerateHooks(c *gin.Context) {
	var req generateHooksRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.Response.BadRequest(c, "Invalid request body", err.Error())
			return
		}
	}
	if req.SourceText != nil {
		h.Wizard.SetSourceText(*req.SourceText)
	}

	hooks, err := h.Wizard.GenerateHooks(c.Request.Context())
	if err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, hooks)
}

// GetHooks returns the last generated hooks.
func (h *Handler) GetHooks(c *gin.Context) {
	h.Response.Success(c, h.Wizard.State().Hooks)
}

// ExportHooks renders the hooks as txt, csv or copy text.
func (h *Handler) ExportHooks(c *gin.Context) {
	result, err := h.Export.ExportHooks(h.Wizard.State().Hooks, c.DefaultQuery("format", services.HookExportText), c.Query("save") == "true")
	if err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.ExportResponse(c, result)
}

// ---------- scripts ----------

// GenerateScript builds a video script for the chosen hook.
func (h *Handler) GenerateScript(c *gin.Context) {
	var opts services.ScriptOptions
	if err := c.ShouldBindJSON(&opts); err != nil {
		h.Response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	doc, err := h.Wizard.GenerateScript(c.Request.Context(), opts)
	if err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, doc)
}

// GetCurrentScript returns the last generated script.
func (h *Handler) GetCurrentScript(c *gin.Context) {
	doc, ok := h.Wizard.LastScript()
	if !ok {
		h.Response.NotFound(c, ErrorScriptNotFound, "No script has been generated yet")
		return
	}
	h.Response.Success(c, doc)
}

// ExportScript renders the last script as full text, prompts, voiceover or JSON.
func (h *Handler) ExportScript(c *gin.Context) {
	doc, _ := h.Wizard.LastScript()
	result, err := h.Export.ExportScript(doc, c.DefaultQuery("part", services.ScriptExportFull), c.Query("save") == "true")
	if err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.ExportResponse(c, result)
}

// ListExports lists the exports saved with save=true.
func (h *Handler) ListExports(c *gin.Context) {
	saved, err := h.Export.ListSaved()
	if err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, saved)
}

// ---------- notifications & theme ----------

// GetNotifications lists the queued notifications.
func (h *Handler) GetNotifications(c *gin.Context) {
	h.Response.Success(c, h.Wizard.State().Notifications)
}

// DismissNotification removes one notification.
func (h *Handler) DismissNotification(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		h.Response.Error(c, http.StatusBadRequest, ErrorNotificationInvalid, "Notification id must be a positive number")
		return
	}
	h.Wizard.DismissNotification(id)
	h.Response.Success(c, h.Wizard.State().Notifications)
}

type themeRequest struct {
	Theme models.Theme `json:"theme" binding:"required"`
}

// SetTheme switches the theme.
func (h *Handler) SetTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "Invalid request body", err.Error())
		return
	}
	if err := h.Wizard.SetTheme(req.Theme); err != nil {
		h.Response.FromError(c, err)
		return
	}
	h.Response.Success(c, gin.H{"theme": req.Theme})
}

// ---------- generator & metrics ----------

// GetLLMStatus reports generator readiness.
func (h *Handler) GetLLMStatus(c *gin.Context) {
	ready, state := h.LLM.GetProviderStatus()
	provider := h.LLM.GetProviderName()
	h.Response.Success(c, gin.H{
		"ready":     ready,
		"status":    state,
		"provider":  provider,
		"model":     h.LLM.GetDefaultModel(),
		"models":    llm.GetSupportedModelsForProvider(provider),
		"providers": llm.ListProviders(),
	})
}

type updateProviderRequest struct {
	Provider string `json:"provider" binding:"required"`
	Model    string `json:"model"`
	APIKey   string `json:"api_key"`
}

// UpdateLLMProvider switches the generator provider. The key is kept in memory only.
func (h *Handler) UpdateLLMProvider(c *gin.Context) {
	var req updateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Response.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	providerConfig := map[string]string{"default_model": strings.TrimSpace(req.Model)}
	if req.APIKey != "" {
		providerConfig["api_key"] = req.APIKey
	}
	if err := h.LLM.UpdateProvider(req.Provider, providerConfig); err != nil {
		h.Response.Error(c, http.StatusBadRequest, ErrorLLMConfigInvalid, "Failed to configure provider", err.Error())
		return
	}

	if err := config.UpdateLLMConfig(req.Provider, map[string]string{"default_model": providerConfig["default_model"]}); err != nil {
		h.logger.Warn("Provider switched but config not saved", map[string]interface{}{"error": err})
	}

	h.GetLLMStatus(c)
}

// GetMetrics returns the collected metrics.
func (h *Handler) GetMetrics(c *gin.Context) {
	h.Response.Success(c, h.Metrics.Collector().GetMetrics())
}

// GetWebSocketStatus lists connected websocket clients.
func (h *Handler) GetWebSocketStatus(c *gin.Context) {
	h.Response.Success(c, h.WS.GetStatus())
}

// Health answers liveness probes.
func (h *Handler) Health(c *gin.Context) {
	ready, _ := h.LLM.GetProviderStatus()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "generator_ready": ready})
}
