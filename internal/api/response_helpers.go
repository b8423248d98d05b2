// internal/api/response_helpers.go
package api

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Corphon/HookForge/internal/errors"
	"github.com/Corphon/HookForge/internal/models"
)

// APIResponse is the JSON envelope of every API reply
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIError is the error part of an APIResponse
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ResponseHelper writes APIResponse envelopes
type ResponseHelper struct{}

// NewResponseHelper creates a ResponseHelper.
func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{}
}

// Success writes a 200 response.
func (rh *ResponseHelper) Success(c *gin.Context, data interface{}, message ...string) {
	response := &APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
		RequestID: rh.getRequestID(c),
	}

	if len(message) > 0 {
		response.Message = message[0]
	}

	c.JSON(http.StatusOK, response)
}

// sanitizeErrorMessage hides messages that may carry credentials.
func sanitizeErrorMessage(message string) string {
	lower := strings.ToLower(message)
	for _, pattern := range []string{"api_key", "apikey", "x-goog-api-key", "x-api-key", "secret", "token="} {
		if strings.Contains(lower, pattern) {
			return "An internal error occurred"
		}
	}
	return message
}

// Error writes an error response.
func (rh *ResponseHelper) Error(c *gin.Context, statusCode int, errorCode, message string, details ...string) {
	apiError := &APIError{
		Code:    errorCode,
		Message: sanitizeErrorMessage(message),
	}
	if len(details) > 0 {
		apiError.Details = sanitizeErrorMessage(details[0])
	}

	c.JSON(statusCode, &APIResponse{
		Success:   false,
		Error:     apiError,
		Timestamp: time.Now(),
		RequestID: rh.getRequestID(c),
	})
}

// BadRequest writes a 400 response.
func (rh *ResponseHelper) BadRequest(c *gin.Context, message string, details ...string) {
	rh.Error(c, http.StatusBadRequest, ErrorBadRequest, message, details...)
}

// NotFound writes a 404 response.
func (rh *ResponseHelper) NotFound(c *gin.Context, code, message string) {
	rh.Error(c, http.StatusNotFound, code, message)
}

// InternalError writes a 500 response.
func (rh *ResponseHelper) InternalError(c *gin.Context, message string, details ...string) {
	rh.Error(c, http.StatusInternalServerError, ErrorInternalError, message, details...)
}

// FromError maps an application error onto its HTTP status and code.
func (rh *ResponseHelper) FromError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		rh.InternalError(c, err.Error())
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		rh.Error(c, http.StatusBadRequest, ErrorValidationFailed, appErr.Message)
	case apperrors.ErrorTypeNotFound:
		rh.Error(c, http.StatusNotFound, ErrorNotFound, appErr.Message)
	case apperrors.ErrorTypeConflict:
		rh.Error(c, http.StatusConflict, ErrorOperationInProgress, appErr.Message)
	case apperrors.ErrorTypeService:
		rh.Error(c, http.StatusBadGateway, ErrorGeneratorFailed, appErr.Message)
	case apperrors.ErrorTypeUnavailable:
		rh.Error(c, http.StatusServiceUnavailable, ErrorLLMServiceUnavailable, appErr.Message)
	default:
		rh.InternalError(c, appErr.Message)
	}
}

// DownloadResponse writes content as an attachment.
func (rh *ResponseHelper) DownloadResponse(c *gin.Context, content string, filename string, contentType string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Length", fmt.Sprintf("%d", len(content)))
	c.String(http.StatusOK, content)
}

// ExportResponse writes an export as a download, or as JSON when asked to.
func (rh *ResponseHelper) ExportResponse(c *gin.Context, result *models.ExportResult) {
	if c.Query("envelope") == "true" {
		rh.Success(c, result)
		return
	}
	if result.FilePath != "" {
		c.Header("X-Export-Path", result.FilePath)
	}
	rh.DownloadResponse(c, result.Content, result.FileName, result.ContentType)
}

func (rh *ResponseHelper) getRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
