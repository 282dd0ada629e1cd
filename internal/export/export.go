// Package export writes single animation frames to disk.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
)

// ErrEncodeFailure means the destination file could not be written.
var ErrEncodeFailure = errors.New("encode failure")

// Save writes img to path, picking the format from the extension: a .gif
// destination is re-quantized to an adaptive indexed palette and written as
// a single-frame GIF, a .png destination is encoded directly. Any other
// extension fails rather than writing mislabeled bytes.
func Save(img image.Image, path string) error {
	ext := filepath.Ext(path)
	switch {
	case strings.EqualFold(ext, ".gif"):
		return SaveGIF(img, path)
	case strings.EqualFold(ext, ".png"):
		return SavePNG(img, path)
	default:
		return fmt.Errorf("%w: unsupported destination extension %q", ErrEncodeFailure, ext)
	}
}

// SavePNG encodes img to path as PNG.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}
	return nil
}

// SaveGIF quantizes img to an adaptive palette of at most 256 colors and
// encodes it to path as a single-frame GIF.
func SaveGIF(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}
	defer f.Close()

	if err := gif.Encode(f, Quantize(img), nil); err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeFailure, err)
	}
	return nil
}

// Quantize converts img to an indexed-palette image using median-cut color
// selection with error-diffusion dithering.
func Quantize(img image.Image) *image.Paletted {
	q := quantize.MedianCutQuantizer{}
	pal := q.Quantize(make(color.Palette, 0, 256), img)

	b := img.Bounds()
	paletted := image.NewPaletted(b, pal)
	draw.FloydSteinberg.Draw(paletted, b, img, b.Min)
	return paletted
}
