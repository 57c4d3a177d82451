package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArchiveKey(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"plain", "passport.jpg", "originals/r1/documents.passport/u1/passport.jpg"},
		{"unix path", "/home/siti/scan.pdf", "originals/r1/documents.passport/u1/scan.pdf"},
		{"windows path", `C:\Users\siti\scan.pdf`, "originals/r1/documents.passport/u1/scan.pdf"},
		{"traversal", "../../etc/passwd", "originals/r1/documents.passport/u1/passwd"},
		{"empty", "", "originals/r1/documents.passport/u1/upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ArchiveKey("r1", "documents.passport", "u1", tt.filename))
		})
	}
}
