// Package ingest turns user-selected files into inline data-URL strings that
// fit the record store's size ceiling.
//
// Images (JPEG, PNG, WebP) are downscaled and re-encoded as JPEG with a
// falling quality until the result fits. PDF, Word and Excel files cannot be
// shrunk, so they are size-gated before encoding. Every result is checked
// against the ceiling once more before it is returned.
//
// Usage:
//
//	p := ingest.New(ingest.DefaultBudget())
//	doc, err := p.Process(candidate, ingest.DocumentImageOptions())
//	if ingest.KindOf(err) == ingest.KindFileTooLarge { ... }
//
// The package holds no state between calls and performs no I/O.
package ingest

// UploadCandidate is a file as picked by the user.
type UploadCandidate struct {
	Data      []byte
	MediaType string
	Name      string
}

// Size is the raw byte length of the candidate.
func (c UploadCandidate) Size() int64 {
	return int64(len(c.Data))
}

// ProcessedDocument is the storage-ready result of Process.
type ProcessedDocument struct {
	Embedded string `json:"embedded"`
	FileName string `json:"fileName"`
	// FileSize is the original byte length, for display only.
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`

	Category Category    `json:"-"`
	Image    *ImageStats `json:"-"`
}

// Pipeline validates and encodes upload candidates against a Budget.
type Pipeline struct {
	budget Budget
	encode EncodeFunc
}

// New creates a Pipeline. Zero fields in budget take their defaults.
func New(budget Budget) *Pipeline {
	budget.defaults()
	return &Pipeline{
		budget: budget,
		encode: EncodeJPEG,
	}
}

// Budget returns the limits the pipeline enforces.
func (p *Pipeline) Budget() Budget {
	return p.budget
}

// Process classifies, validates and encodes a candidate. opts only applies
// to images. Rejections are *Error values; anything else is an encoder
// failure.
func (p *Pipeline) Process(c UploadCandidate, opts ImageOptions) (*ProcessedDocument, error) {
	category := Classify(c.MediaType)
	size := c.Size()

	var (
		embedded string
		stats    *ImageStats
	)

	switch {
	case category == CategoryUnknown:
		return nil, unsupportedType(c.MediaType)

	case category.Compressible():
		if size > p.budget.MaxImageBytes {
			return nil, imageTooLarge(size, p.budget.MaxImageBytes)
		}
		out, s, err := p.compressImage(c.Data, opts)
		if err != nil {
			return nil, err
		}
		embedded, stats = out, &s

	default:
		// PDF, Word and Excel are stored as-is.
		if size > p.budget.MaxDocumentBytes {
			return nil, documentTooLarge(size, p.budget.MaxDocumentBytes)
		}
		if p.budget.EstimateEmbeddedLen(size) > int64(p.budget.MaxEmbeddedLen) {
			return nil, documentTooLarge(size, p.budget.MaxRawForEmbedding())
		}
		embedded = DataURL(c.MediaType, c.Data)
	}

	if len(embedded) > p.budget.MaxEmbeddedLen {
		return nil, encodedTooLarge(len(embedded), p.budget.MaxEmbeddedLen)
	}

	return &ProcessedDocument{
		Embedded: embedded,
		FileName: c.Name,
		FileSize: size,
		FileType: c.MediaType,
		Category: category,
		Image:    stats,
	}, nil
}
