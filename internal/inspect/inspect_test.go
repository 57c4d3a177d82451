package inspect

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// buildPDF writes a minimal PDF with the given number of empty pages and a
// correct cross-reference table.
func buildPDF(pages int) []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, pages)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", i+3)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), pages))
	for i := 0; i < pages; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	for _, p := range paragraphs {
		fmt.Fprintf(&body, "<w:p><w:r><w:t>%s</w:t></w:r></w:p>", p)
	}
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() +
		`</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func buildXLSX(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Jamaah"); err != nil {
		t.Fatalf("SetSheetName: %v", err)
	}
	rows := [][]string{
		{"Nama", "Paspor"},
		{"Ahmad", "A1234567"},
		{"Siti", "B7654321"},
	}
	for i, row := range rows {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue("Jamaah", cell, v); err != nil {
				t.Fatalf("SetCellValue: %v", err)
			}
		}
	}
	if _, err := f.NewSheet("Hotel"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestInspectPDF(t *testing.T) {
	info, err := Inspect("application/pdf", buildPDF(2))
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}

	if info.Category != "pdf" {
		t.Errorf("Category = %q, want pdf", info.Category)
	}
	if info.Pages != 2 {
		t.Errorf("Pages = %d, want 2", info.Pages)
	}
	if info.Searchable {
		t.Errorf("empty pages reported as searchable")
	}
}

func TestInspectPDFRejectsGarbage(t *testing.T) {
	if _, err := Inspect("application/pdf", []byte("definitely not a pdf")); err == nil {
		t.Errorf("expected error for invalid PDF")
	}
}

func TestInspectDOCX(t *testing.T) {
	data := buildDOCX(t, "Itinerary Umrah Plus Turki", "", "Day 1 Jakarta to Madinah")

	info, err := Inspect("application/vnd.openxmlformats-officedocument.wordprocessingml.document", data)
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}

	if info.Paragraphs != 2 {
		t.Errorf("Paragraphs = %d, want 2", info.Paragraphs)
	}
	if info.Words != 9 {
		t.Errorf("Words = %d, want 9", info.Words)
	}
}

func TestInspectDOCXMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.Create("word/styles.xml")
	zw.Close()

	if _, _, err := InspectDOCX(buf.Bytes()); err == nil {
		t.Errorf("expected error when document.xml is missing")
	}
}

func TestInspectXLSX(t *testing.T) {
	info, err := Inspect("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buildXLSX(t))
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}

	if len(info.Sheets) != 2 || info.Sheets[0] != "Jamaah" || info.Sheets[1] != "Hotel" {
		t.Errorf("Sheets = %v, want [Jamaah Hotel]", info.Sheets)
	}
	if info.Rows != 3 {
		t.Errorf("Rows = %d, want 3", info.Rows)
	}
}

func TestInspectImage(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 30)), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}

	info, err := Inspect("image/jpeg", buf.Bytes())
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if info.Width != 40 || info.Height != 30 {
		t.Errorf("size = %dx%d, want 40x30", info.Width, info.Height)
	}
}

func TestInspectLegacyFormats(t *testing.T) {
	for _, mediaType := range []string{"application/msword", "application/vnd.ms-excel"} {
		info, err := Inspect(mediaType, []byte{0xD0, 0xCF, 0x11, 0xE0})
		if err != nil {
			t.Errorf("Inspect(%s) returned error: %v", mediaType, err)
			continue
		}
		if info.Pages != 0 || info.Words != 0 || len(info.Sheets) != 0 {
			t.Errorf("Inspect(%s) = %+v, want only category", mediaType, info)
		}
	}
}

func TestInspectUnsupported(t *testing.T) {
	if _, err := Inspect("text/plain", []byte("hello")); err == nil {
		t.Errorf("expected error for unsupported media type")
	}
}
