package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/umrah-docs-api/internal/ingest"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 40, A: uint8(x + y)})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(dir, "scan.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestClassify(t *testing.T) {
	out, err := execute(t, "classify", "application/pdf")
	require.NoError(t, err)
	assert.Contains(t, out, "pdf")

	out, err = execute(t, "classify", "text/plain")
	require.Error(t, err)
	assert.Contains(t, out, "unknown")
}

func TestProcessImage(t *testing.T) {
	dir := t.TempDir()
	src := writePNG(t, dir, 1200, 600)
	dst := filepath.Join(dir, "scan.json")

	out, err := execute(t, "process", src, "--out", dst)
	require.NoError(t, err)

	var res processResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "scan.png", res.FileName)
	assert.Equal(t, ingest.MediaTypePNG, res.FileType)
	assert.Equal(t, "image", res.Category)
	require.NotNil(t, res.Image)
	assert.Equal(t, 800, res.Image.Width)
	assert.LessOrEqual(t, res.EmbeddedLen, res.Limit)

	stored, err := os.ReadFile(dst)
	require.NoError(t, err)
	var doc ingest.ProcessedDocument
	require.NoError(t, json.Unmarshal(stored, &doc))
	assert.Len(t, doc.Embedded, res.EmbeddedLen)
}

func TestProcessPhotoPreset(t *testing.T) {
	src := writePNG(t, t.TempDir(), 1000, 1000)

	out, err := execute(t, "process", src, "--preset", "photo")
	require.NoError(t, err)

	var res processResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 400, res.Image.Width)
}

func TestProcessRejections(t *testing.T) {
	dir := t.TempDir()
	big := filepath.Join(dir, "big.pdf")
	require.NoError(t, os.WriteFile(big, make([]byte, 600*1024), 0o644))

	_, err := execute(t, "process", big, "--type", ingest.MediaTypePDF)
	assert.Equal(t, ingest.KindFileTooLarge, ingest.KindOf(err))

	_, err = execute(t, "process", big, "--type", "text/plain")
	assert.Equal(t, ingest.KindUnsupportedType, ingest.KindOf(err))

	_, err = execute(t, "process", big, "--preset", "banner")
	assert.ErrorContains(t, err, "unknown preset")
}
