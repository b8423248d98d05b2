// internal/services/upload.go
package services

import (
	"fmt"
	"mime"

	"github.com/gabriel-vasile/mimetype"

	apperrors "github.com/Corphon/HookForge/internal/errors"
	"github.com/Corphon/HookForge/internal/llm"
)

const (
	MIMETextPlain = "text/plain"
	MIMEPDF       = "application/pdf"
)

var acceptedUploadTypes = []string{MIMETextPlain, MIMEPDF}

// ValidateUpload checks size and type of an uploaded book and returns the
// payload to send to the generator. The type is sniffed from the content; the
// declared type is only consulted when sniffing is inconclusive.
func ValidateUpload(name, declaredType string, data []byte, maxBytes int64) (*llm.FilePayload, error) {
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("File too large. Please upload a file smaller than %dMB.", maxBytes>>20), nil)
	}
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("Uploaded file is empty.", nil)
	}

	mimeType, ok := detectUploadType(declaredType, data)
	if !ok {
		return nil, apperrors.NewValidationError("Unsupported file type. Please upload a .txt or .pdf file.", nil)
	}

	return &llm.FilePayload{
		Name:     name,
		MIMEType: mimeType,
		Data:     data,
	}, nil
}

func detectUploadType(declaredType string, data []byte) (string, bool) {
	detected := mimetype.Detect(data)
	if !detected.Is("application/octet-stream") {
		for m := detected; m != nil; m = m.Parent() {
			for _, accepted := range acceptedUploadTypes {
				if m.Is(accepted) {
					return accepted, true
				}
			}
		}
		return "", false
	}

	declared, _, err := mime.ParseMediaType(declaredType)
	if err != nil {
		return "", false
	}
	for _, accepted := range acceptedUploadTypes {
		if declared == accepted {
			return accepted, true
		}
	}
	return "", false
}
