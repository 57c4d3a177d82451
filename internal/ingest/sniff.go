package ingest

import "github.com/gabriel-vasile/mimetype"

// SniffMediaType detects the media type of data from its content. It returns
// the closest supported type in the detected type's ancestry, or the
// detected type itself so the caller can report what was sent.
func SniffMediaType(data []byte) string {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if IsSupported(m.String()) {
			return m.String()
		}
	}
	return detected.String()
}
