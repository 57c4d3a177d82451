package ingest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// maxPixels bounds the decoded canvas so a small, highly compressed upload
// cannot expand into gigabytes of pixels.
const maxPixels = 40_000_000

// EncodeFunc writes img in a lossy format at the given quality percentage.
type EncodeFunc func(w io.Writer, img image.Image, quality int) error

// EncodeJPEG is the default EncodeFunc.
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

// ImageStats reports what the compression loop did.
type ImageStats struct {
	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`
	Width        int `json:"width"`
	Height       int `json:"height"`
	Quality      int `json:"quality"`
	// Attempts counts re-encodes after the first encode.
	Attempts int `json:"attempts"`
}

func decodeImage(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, invalidImage(err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, invalidImage(fmt.Errorf("empty image %dx%d", cfg.Width, cfg.Height))
	}
	if cfg.Width*cfg.Height > maxPixels {
		return nil, invalidImage(fmt.Errorf("image dimensions %dx%d exceed %d pixels", cfg.Width, cfg.Height, maxPixels))
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, invalidImage(err)
	}
	return img, nil
}

// fitWidth scales src down so its width is at most maxWidth, preserving the
// aspect ratio. Images already narrow enough keep their size. Transparent
// pixels are flattened onto white since JPEG has no alpha channel.
func fitWidth(src image.Image, maxWidth int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	if w <= maxWidth {
		dst := whiteCanvas(w, h)
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
		return dst
	}

	scaledH := (h*maxWidth + w/2) / w
	if scaledH < 1 {
		scaledH = 1
	}
	dst := whiteCanvas(maxWidth, scaledH)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func whiteCanvas(w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return dst
}

// compressImage downscales the image once, then re-encodes it at falling
// quality until the data URL fits, the quality floor is reached or the
// attempt cap is hit. The caller still has to check the final length.
func (p *Pipeline) compressImage(data []byte, opts ImageOptions) (string, ImageStats, error) {
	opts.defaults()

	src, err := decodeImage(data)
	if err != nil {
		return "", ImageStats{}, err
	}

	canvas := fitWidth(src, opts.MaxWidth)
	stats := ImageStats{
		SourceWidth:  src.Bounds().Dx(),
		SourceHeight: src.Bounds().Dy(),
		Width:        canvas.Bounds().Dx(),
		Height:       canvas.Bounds().Dy(),
		Quality:      opts.Quality,
	}

	embedded, err := p.encodeImage(canvas, stats.Quality)
	if err != nil {
		return "", stats, err
	}

	done := func() bool {
		return len(embedded) <= p.budget.MaxEmbeddedLen ||
			stats.Quality <= opts.MinQuality ||
			stats.Attempts >= opts.MaxAttempts
	}
	for !done() {
		stats.Quality = max(stats.Quality-opts.QualityStep, opts.MinQuality)
		stats.Attempts++
		embedded, err = p.encodeImage(canvas, stats.Quality)
		if err != nil {
			return "", stats, err
		}
	}

	return embedded, stats, nil
}

func (p *Pipeline) encodeImage(img image.Image, quality int) (string, error) {
	var buf bytes.Buffer
	if err := p.encode(&buf, img, quality); err != nil {
		return "", fmt.Errorf("encode image at quality %d: %w", quality, err)
	}
	return DataURL(MediaTypeJPEG, buf.Bytes()), nil
}
