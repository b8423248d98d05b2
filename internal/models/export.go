// internal/models/export.go
package models

import (
	"time"
)

// ExportResult is a rendered export ready for download
type ExportResult struct {
	Kind        string    `json:"kind"`   // hooks | script
	Format      string    `json:"format"` // txt | csv | copy | full | prompts | voiceover | json
	Content     string    `json:"content"`
	ContentType string    `json:"content_type"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path,omitempty"` // set when the export was also written to disk
	FileSize    int64     `json:"file_size"`
	ItemCount   int       `json:"item_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// SavedExport describes an export kept under the data directory
type SavedExport struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}
