package models

import (
	"time"

	"github.com/BerylCAtieno/umrah-docs-api/internal/ingest"
	"github.com/BerylCAtieno/umrah-docs-api/internal/inspect"
)

// Upload presets select the image target width and starting quality.
const (
	PresetDocument = "document"
	PresetPhoto    = "photo"
)

// Record is a profile record as held by the record store. Fields is a free
// form JSON tree addressed by dot-separated paths.
type Record struct {
	ID        string                 `json:"id" db:"id"`
	Fields    map[string]interface{} `json:"fields" db:"fields"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt time.Time              `json:"updated_at" db:"updated_at"`
}

// StoredDocument is what gets written under a record field after a
// successful upload.
type StoredDocument struct {
	ingest.ProcessedDocument
	Info       *inspect.Info `json:"info,omitempty"`
	ArchiveKey string        `json:"archiveKey,omitempty"`
	UploadedAt time.Time     `json:"uploadedAt"`
}

type UploadRequest struct {
	RecordID    string
	Field       string
	Preset      string
	File        []byte
	Filename    string
	ContentType string
}

type UploadResponse struct {
	RecordID    string        `json:"record_id"`
	Field       string        `json:"field"`
	Filename    string        `json:"filename"`
	FileSize    int64         `json:"file_size"`
	ContentType string        `json:"content_type"`
	Category    string        `json:"category"`
	EncodedSize int           `json:"encoded_size"`
	Image       *ImageSummary `json:"image,omitempty"`
	Info        *inspect.Info `json:"info,omitempty"`
	ArchiveKey  string        `json:"archive_key,omitempty"`
	UploadedAt  time.Time     `json:"uploaded_at"`
	Message     string        `json:"message"`
}

// Original is an archived upload as the user sent it.
type Original struct {
	Data        []byte
	Filename    string
	ContentType string
}

// ImageSummary reports how an image upload was compressed.
type ImageSummary struct {
	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`
	Width        int `json:"width"`
	Height       int `json:"height"`
	Quality      int `json:"quality"`
	Attempts     int `json:"attempts"`
}
