package ingest

const (
	KiB = 1024
	MiB = 1024 * KiB
)

// Default storage budget. The backing record store rejects records above
// 1 MiB; the embedded ceiling leaves room for base64 overhead and the other
// fields stored in the same record.
const (
	DefaultMaxImageBytes       int64 = 3 * MiB
	DefaultMaxDocumentBytes    int64 = 500 * KiB
	DefaultMaxEmbeddedLen            = 700 * KiB
	DefaultEncodingOverheadPct int64 = 133
)

// Budget holds the size limits applied by the pipeline.
type Budget struct {
	// MaxImageBytes caps raw image uploads before compression.
	MaxImageBytes int64 `yaml:"max_image_bytes"`

	// MaxDocumentBytes caps raw PDF/Word/Excel uploads, which are stored
	// as-is.
	MaxDocumentBytes int64 `yaml:"max_document_bytes"`

	// MaxEmbeddedLen is the ceiling on the embedded string length in
	// characters.
	MaxEmbeddedLen int `yaml:"max_embedded_len"`

	// EncodingOverheadPct estimates embedded size from raw size, in percent.
	EncodingOverheadPct int64 `yaml:"encoding_overhead_pct"`
}

// DefaultBudget returns the production storage budget.
func DefaultBudget() Budget {
	return Budget{
		MaxImageBytes:       DefaultMaxImageBytes,
		MaxDocumentBytes:    DefaultMaxDocumentBytes,
		MaxEmbeddedLen:      DefaultMaxEmbeddedLen,
		EncodingOverheadPct: DefaultEncodingOverheadPct,
	}
}

// WithDefaults returns b with zero fields replaced by the defaults.
func (b Budget) WithDefaults() Budget {
	b.defaults()
	return b
}

func (b *Budget) defaults() {
	if b.MaxImageBytes <= 0 {
		b.MaxImageBytes = DefaultMaxImageBytes
	}
	if b.MaxDocumentBytes <= 0 {
		b.MaxDocumentBytes = DefaultMaxDocumentBytes
	}
	if b.MaxEmbeddedLen <= 0 {
		b.MaxEmbeddedLen = DefaultMaxEmbeddedLen
	}
	if b.EncodingOverheadPct <= 0 {
		b.EncodingOverheadPct = DefaultEncodingOverheadPct
	}
}

// EstimateEmbeddedLen predicts the embedded length of a raw payload.
func (b Budget) EstimateEmbeddedLen(rawBytes int64) int64 {
	return rawBytes * b.EncodingOverheadPct / 100
}

// MaxRawForEmbedding is the largest raw size whose estimate fits the ceiling.
func (b Budget) MaxRawForEmbedding() int64 {
	return int64(b.MaxEmbeddedLen) * 100 / b.EncodingOverheadPct
}

// ImageOptions controls image downscaling and the quality search. Qualities
// are percentages (70 means 0.7).
type ImageOptions struct {
	MaxWidth    int `yaml:"max_width"`
	Quality     int `yaml:"quality"`
	MinQuality  int `yaml:"min_quality"`
	QualityStep int `yaml:"quality_step"`
	MaxAttempts int `yaml:"max_attempts"`
}

const (
	DefaultMinQuality  = 30
	DefaultQualityStep = 10
	DefaultMaxAttempts = 5
)

// DocumentImageOptions is used for generic document scans.
func DocumentImageOptions() ImageOptions {
	return ImageOptions{
		MaxWidth:    800,
		Quality:     70,
		MinQuality:  DefaultMinQuality,
		QualityStep: DefaultQualityStep,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// ProfilePhotoOptions is used for avatars, which render small but should
// stay sharp.
func ProfilePhotoOptions() ImageOptions {
	return ImageOptions{
		MaxWidth:    400,
		Quality:     85,
		MinQuality:  DefaultMinQuality,
		QualityStep: DefaultQualityStep,
		MaxAttempts: DefaultMaxAttempts,
	}
}

func (o *ImageOptions) defaults() {
	d := DocumentImageOptions()
	if o.MaxWidth <= 0 {
		o.MaxWidth = d.MaxWidth
	}
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = d.Quality
	}
	if o.MinQuality <= 0 {
		o.MinQuality = d.MinQuality
	}
	if o.QualityStep <= 0 {
		o.QualityStep = d.QualityStep
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = d.MaxAttempts
	}
	if o.Quality < o.MinQuality {
		o.Quality = o.MinQuality
	}
}
