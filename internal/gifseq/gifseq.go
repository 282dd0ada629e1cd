// Package gifseq decodes animated GIF files into fully composited frame sequences.
package gifseq

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"os"
	"time"
)

// Error kinds surfaced to the controller boundary.
var (
	// ErrUnsupportedContainer means the file does not carry a GIF signature.
	ErrUnsupportedContainer = errors.New("not a GIF container")

	// ErrNoFramesDecoded means decoding produced zero usable frames.
	ErrNoFramesDecoded = errors.New("no frames decoded")
)

const (
	// MinFrameDuration is the floor applied to every frame delay so a
	// zero-delay frame cannot collapse the playback timer into a busy loop.
	MinFrameDuration = 20 * time.Millisecond

	// DefaultFrameDuration is used when a frame carries no explicit delay.
	DefaultFrameDuration = 100 * time.Millisecond
)

// Sequence is an ordered list of composited frames with index-aligned
// display durations. Frames and Durations always have equal, non-zero length.
type Sequence struct {
	Frames    []*image.RGBA
	Durations []time.Duration

	// Logical screen size of the source container.
	Width  int
	Height int
}

// Len returns the number of frames.
func (s *Sequence) Len() int {
	return len(s.Frames)
}

// ClampIndex bounds i to [0, Len-1].
func (s *Sequence) ClampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(s.Frames) {
		return len(s.Frames) - 1
	}
	return i
}

// Frame returns the composited frame at i, clamping out-of-range indices.
func (s *Sequence) Frame(i int) *image.RGBA {
	return s.Frames[s.ClampIndex(i)]
}

// Duration returns the display duration of frame i, clamping out-of-range
// indices.
func (s *Sequence) Duration(i int) time.Duration {
	return s.Durations[s.ClampIndex(i)]
}

// Load reads and decodes an animated GIF from disk. The full sequence is
// decoded eagerly; there is no streaming path.
func Load(path string) (*Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Decode(data)
}

// Decode decodes an animated GIF from memory.
func Decode(data []byte) (*Sequence, error) {
	if !hasGIFSignature(data) {
		return nil, ErrUnsupportedContainer
	}

	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		// The signature was valid, so treat decode failure the same as an
		// empty animation rather than a wrong container.
		return nil, fmt.Errorf("%w: %v", ErrNoFramesDecoded, err)
	}
	if len(g.Image) == 0 {
		return nil, ErrNoFramesDecoded
	}

	width, height := g.Config.Width, g.Config.Height
	if width == 0 || height == 0 {
		b := g.Image[0].Bounds()
		width, height = b.Dx(), b.Dy()
	}

	seq := &Sequence{
		Frames:    make([]*image.RGBA, 0, len(g.Image)),
		Durations: make([]time.Duration, 0, len(g.Image)),
		Width:     width,
		Height:    height,
	}

	// Composite each frame onto a persistent canvas honoring the GIF
	// disposal methods, so every stored frame is the full logical screen.
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, src := range g.Image {
		var restore *image.RGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			restore = cloneRGBA(canvas)
		}

		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)
		seq.Frames = append(seq.Frames, cloneRGBA(canvas))
		seq.Durations = append(seq.Durations, frameDuration(g.Delay, i))

		switch disposal {
		case gif.DisposalBackground:
			clearRect(canvas, src.Bounds())
		case gif.DisposalPrevious:
			canvas = restore
		}
	}

	return seq, nil
}

// frameDuration converts a GIF delay (hundredths of a second) to a clamped
// duration. A missing or zero delay inherits the 100ms default.
func frameDuration(delays []int, i int) time.Duration {
	d := DefaultFrameDuration
	if i < len(delays) && delays[i] > 0 {
		d = time.Duration(delays[i]) * 10 * time.Millisecond
	}
	if d < MinFrameDuration {
		d = MinFrameDuration
	}
	return d
}

// hasGIFSignature reports whether data starts with a GIF87a or GIF89a header.
func hasGIFSignature(data []byte) bool {
	if len(data) < 6 {
		return false
	}
	sig := string(data[:6])
	return sig == "GIF87a" || sig == "GIF89a"
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

func clearRect(img *image.RGBA, r image.Rectangle) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := img.PixOffset(r.Min.X, y)
		row := img.Pix[i : i+r.Dx()*4]
		for j := range row {
			row[j] = 0
		}
	}
}
