package ingest

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func noiseImage(w, h int) *image.RGBA {
	r := rand.New(rand.NewPCG(7, 11))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(r.IntN(256))
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func encodeJPEGFixture(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}))
	return buf.Bytes()
}

func encodePNGFixture(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// padTo appends zero bytes after the image's end marker. Both the JPEG and
// PNG decoders stop at their end marker, so the file stays decodable while
// reaching an exact byte length.
func padTo(t *testing.T, data []byte, size int) []byte {
	t.Helper()
	require.LessOrEqual(t, len(data), size, "fixture already larger than target size")
	out := make([]byte, size)
	copy(out, data)
	return out
}

func decodeEmbedded(t *testing.T, embedded string) image.Image {
	t.Helper()
	mediaType, data, err := ParseDataURL(embedded)
	require.NoError(t, err)
	require.Equal(t, MediaTypeJPEG, mediaType)
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

// recordingEncoder wraps an EncodeFunc and records each quality it is
// called with.
type recordingEncoder struct {
	qualities []int
	next      EncodeFunc
}

func (r *recordingEncoder) encode(w io.Writer, img image.Image, quality int) error {
	r.qualities = append(r.qualities, quality)
	return r.next(w, img, quality)
}

// sizedEncoder writes quality*perPoint bytes, ignoring the image.
func sizedEncoder(perPoint int) EncodeFunc {
	return func(w io.Writer, _ image.Image, quality int) error {
		_, err := w.Write(make([]byte, quality*perPoint))
		return err
	}
}

func docBytes(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}
