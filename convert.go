package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

type ColorMode int

const (
	ModeOther ColorMode = iota
	ModeRGB
	ModeRGBA
)

func (m ColorMode) String() string {
	switch m {
	case ModeRGB:
		return "RGB"
	case ModeRGBA:
		return "RGBA"
	default:
		return "other"
	}
}

// colorModeOf reports how an image would be written by the PNG encoder.
// 16-bit buffers count as RGBA only when they carry transparency.
func colorModeOf(img image.Image) ColorMode {
	switch m := img.(type) {
	case *image.RGBA:
		if m.Opaque() {
			return ModeRGB
		}
		return ModeRGBA
	case *image.NRGBA:
		if m.Opaque() {
			return ModeRGB
		}
		return ModeRGBA
	case *image.RGBA64:
		if !m.Opaque() {
			return ModeRGBA
		}
	case *image.NRGBA64:
		if !m.Opaque() {
			return ModeRGBA
		}
	}
	return ModeOther
}

func is8Bit(img image.Image) bool {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		return true
	}
	return false
}

// normalize returns 8-bit RGB and RGBA images as is. 16-bit images with
// transparency are reduced to 8-bit NRGBA; everything else (gray, paletted,
// CMYK, YCbCr, opaque 16-bit) is flattened onto an opaque 8-bit RGB buffer.
func normalize(img image.Image) image.Image {
	b := img.Bounds()
	r := image.Rect(0, 0, b.Dx(), b.Dy())

	switch colorModeOf(img) {
	case ModeRGB:
		return img
	case ModeRGBA:
		if is8Bit(img) {
			return img
		}
		dst := image.NewNRGBA(r)
		draw.Draw(dst, r, img, b.Min, draw.Src)
		return dst
	}

	dst := image.NewRGBA(r)
	draw.Draw(dst, r, image.Black, image.Point{}, draw.Src)
	draw.Draw(dst, r, img, b.Min, draw.Over)
	return dst
}

// convertOne writes the first page of the TIFF at src to dst as PNG.
// A failed encode may leave a partial file at dst.
func (p *Processor) convertOne(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("error creating output dir: %w", err)
	}

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	// tiff.Decode only reads the first IFD, so multi-page files yield page one.
	img, err := tiff.Decode(f)
	if err != nil {
		return fmt.Errorf("error decoding TIFF: %w", err)
	}

	img = normalize(img)

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("error creating PNG file: %w", err)
	}

	if err := p.Encoder.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("error encoding to PNG: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("error closing PNG file: %w", err)
	}

	return nil
}

func newEncoder() png.Encoder {
	return png.Encoder{CompressionLevel: png.BestCompression}
}
