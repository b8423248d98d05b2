package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Corphon/HookForge/internal/errors"
)

func TestValidateUploadAcceptsText(t *testing.T) {
	payload, err := ValidateUpload("book.txt", "", []byte("Chapter one\nIt was a dark night."), 1<<20)
	require.NoError(t, err)
	assert.Equal(t, MIMETextPlain, payload.MIMEType)
	assert.Equal(t, "book.txt", payload.Name)
}

func TestValidateUploadAcceptsPDF(t *testing.T) {
	data := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n<<>>\nendobj\n")
	payload, err := ValidateUpload("book.pdf", "application/pdf", data, 1<<20)
	require.NoError(t, err)
	assert.Equal(t, MIMEPDF, payload.MIMEType)
}

func TestValidateUploadRejectsLargeFiles(t *testing.T) {
	_, err := ValidateUpload("book.txt", "text/plain", make([]byte, 11<<20), 10<<20)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, "File too large. Please upload a file smaller than 10MB.", errorMessage(err))
}

func TestValidateUploadRejectsOtherTypes(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")
	_, err := ValidateUpload("cover.png", "text/plain", png, 1<<20)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
	assert.Equal(t, "Unsupported file type. Please upload a .txt or .pdf file.", errorMessage(err))
}

func TestValidateUploadRejectsEmpty(t *testing.T) {
	_, err := ValidateUpload("empty.txt", "text/plain", nil, 1<<20)
	assert.True(t, apperrors.IsValidationError(err))
}
