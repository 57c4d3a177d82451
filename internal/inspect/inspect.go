// Package inspect reads lightweight facts out of accepted uploads so staff can
// see what a pilgrim sent without opening the file.
package inspect

import (
	"bytes"
	"fmt"
	"image"

	"github.com/BerylCAtieno/umrah-docs-api/internal/ingest"
)

// Info describes an uploaded file. Only the fields that apply to its
// category are set.
type Info struct {
	Category string `json:"category"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	Pages      int  `json:"pages,omitempty"`
	Searchable bool `json:"searchable,omitempty"`

	Paragraphs int `json:"paragraphs,omitempty"`
	Words      int `json:"words,omitempty"`

	Sheets []string `json:"sheets,omitempty"`
	Rows   int      `json:"rows,omitempty"`
}

// Inspect reports facts about data declared as mediaType. Legacy binary
// Word and Excel files are not parsed and yield an Info with only the
// category set.
func Inspect(mediaType string, data []byte) (*Info, error) {
	category := ingest.Classify(mediaType)
	info := &Info{Category: category.String()}

	switch {
	case category == ingest.CategoryImage:
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return info, fmt.Errorf("failed to read image header: %w", err)
		}
		info.Width, info.Height = cfg.Width, cfg.Height

	case category == ingest.CategoryPDF:
		pages, searchable, err := InspectPDF(data)
		if err != nil {
			return info, err
		}
		info.Pages, info.Searchable = pages, searchable

	case mediaType == ingest.MediaTypeDOCX:
		paragraphs, words, err := InspectDOCX(data)
		if err != nil {
			return info, err
		}
		info.Paragraphs, info.Words = paragraphs, words

	case mediaType == ingest.MediaTypeXLSX:
		sheets, rows, err := InspectXLSX(data)
		if err != nil {
			return info, err
		}
		info.Sheets, info.Rows = sheets, rows

	case category == ingest.CategoryUnknown:
		return info, fmt.Errorf("unsupported media type %q", mediaType)
	}

	return info, nil
}
