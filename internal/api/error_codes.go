// internal/api/error_codes.go
package api

// API error codes
const (
	// generic
	ErrorBadRequest         = "BAD_REQUEST"
	ErrorNotFound           = "NOT_FOUND"
	ErrorInternalError      = "INTERNAL_ERROR"
	ErrorConflict           = "CONFLICT"
	ErrorRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrorValidationFailed   = "VALIDATION_ERROR"
	ErrorServiceUnavailable = "SERVICE_UNAVAILABLE"

	// generator
	ErrorGeneratorFailed       = "GENERATOR_FAILED"
	ErrorLLMServiceUnavailable = "LLM_SERVICE_UNAVAILABLE"
	ErrorLLMConfigInvalid      = "LLM_CONFIG_INVALID"

	// uploads
	ErrorFileUploadFailed = "FILE_UPLOAD_FAILED"
	ErrorFileTooLarge     = "FILE_TOO_LARGE"

	// wizard
	ErrorOperationInProgress = "OPERATION_IN_PROGRESS"
	ErrorFormatNotFound      = "FORMAT_NOT_FOUND"
	ErrorNotificationInvalid = "NOTIFICATION_INVALID"

	// exports
	ErrorExportFailed        = "EXPORT_FAILED"
	ErrorExportFormatInvalid = "EXPORT_FORMAT_INVALID"
	ErrorScriptNotFound      = "SCRIPT_NOT_FOUND"
)
