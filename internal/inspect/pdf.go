package inspect

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// InspectPDF returns the page count and whether any page carries extractable
// text. Scanned passports usually do not.
func InspectPDF(data []byte) (int, bool, error) {
	reader := bytes.NewReader(data)

	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return 0, false, fmt.Errorf("failed to create PDF reader: %w", err)
	}

	numPages := pdfReader.NumPage()
	searchable := false

	for i := 1; i <= numPages && !searchable; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable content streams do not make the document invalid
			continue
		}

		searchable = strings.TrimSpace(text) != ""
	}

	return numPages, searchable, nil
}
