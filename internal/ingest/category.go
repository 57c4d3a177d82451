package ingest

// Category is the coarse kind of an uploaded file, derived from its declared
// media type. It selects the validation and encoding strategy.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryImage
	CategoryPDF
	CategoryWord
	CategoryExcel
)

// Media types accepted by the pipeline.
const (
	MediaTypeJPEG = "image/jpeg"
	MediaTypeJPG  = "image/jpg"
	MediaTypePNG  = "image/png"
	MediaTypeWebP = "image/webp"
	MediaTypePDF  = "application/pdf"
	MediaTypeDOC  = "application/msword"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeXLS  = "application/vnd.ms-excel"
	MediaTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var categories = map[string]Category{
	MediaTypeJPEG: CategoryImage,
	MediaTypeJPG:  CategoryImage,
	MediaTypePNG:  CategoryImage,
	MediaTypeWebP: CategoryImage,
	MediaTypePDF:  CategoryPDF,
	MediaTypeDOC:  CategoryWord,
	MediaTypeDOCX: CategoryWord,
	MediaTypeXLS:  CategoryExcel,
	MediaTypeXLSX: CategoryExcel,
}

// Classify maps a declared media type to its Category. Matching is exact;
// anything outside the allow-list is CategoryUnknown.
func Classify(mediaType string) Category {
	if c, ok := categories[mediaType]; ok {
		return c
	}
	return CategoryUnknown
}

// IsSupported reports whether the media type is on the allow-list.
func IsSupported(mediaType string) bool {
	return Classify(mediaType) != CategoryUnknown
}

func (c Category) String() string {
	switch c {
	case CategoryImage:
		return "image"
	case CategoryPDF:
		return "pdf"
	case CategoryWord:
		return "word"
	case CategoryExcel:
		return "excel"
	default:
		return "unknown"
	}
}

// Compressible reports whether the pipeline can shrink files of this category.
func (c Category) Compressible() bool {
	return c == CategoryImage
}
