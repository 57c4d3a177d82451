package inspect

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// InspectXLSX returns the sheet names and the row count of the first sheet,
// which is where manifest templates keep the passenger list.
func InspectXLSX(data []byte) ([]string, int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return sheets, 0, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	return sheets, len(rows), nil
}
