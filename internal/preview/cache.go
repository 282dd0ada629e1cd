// Package preview caches viewport-fitted renders of animation frames.
package preview

import (
	"image"

	lru "github.com/hashicorp/golang-lru/v2"
	xdraw "golang.org/x/image/draw"

	"github.com/Faultbox/gif-animator/internal/gifseq"
)

const (
	// DefaultCapacity bounds the number of cached renders.
	DefaultCapacity = 120

	// ResizeTolerancePx absorbs sub-pixel layout jitter: viewport changes
	// of at most this many pixels per axis are ignored entirely.
	ResizeTolerancePx = 2
)

// Key identifies one cached render.
type Key struct {
	Frame  int
	Width  int
	Height int
}

// Cache holds viewport-fitted frame renders with LRU eviction. Entries are
// derived data only; dropping any of them costs a re-render, never
// correctness. Not safe for concurrent use; all access happens on the GUI
// thread.
type Cache struct {
	entries  *lru.Cache[Key, *image.RGBA]
	viewport image.Point
	renders  int
}

// New creates a cache bounded to capacity entries. Non-positive capacities
// fall back to DefaultCapacity.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, _ := lru.New[Key, *image.RGBA](capacity)
	return &Cache{entries: entries}
}

// ViewportChanged reports whether size differs from the current viewport by
// more than ResizeTolerancePx on either axis. The check does not touch
// cached entries, so callers can defer the actual switch.
func (c *Cache) ViewportChanged(size image.Point) bool {
	if c.viewport == (image.Point{}) {
		return size != (image.Point{})
	}
	dx := abs(size.X - c.viewport.X)
	dy := abs(size.Y - c.viewport.Y)
	return dx > ResizeTolerancePx || dy > ResizeTolerancePx
}

// SetViewport records a new viewport size. Changes within ResizeTolerancePx
// on both axes are ignored. A real change invalidates every cached render
// and reports true.
func (c *Cache) SetViewport(size image.Point) bool {
	if !c.ViewportChanged(size) {
		return false
	}
	c.viewport = size
	c.entries.Purge()
	return true
}

// Viewport returns the current viewport size.
func (c *Cache) Viewport() image.Point {
	return c.viewport
}

// Render returns a display-ready bitmap for the given frame, fitted to the
// current viewport. Cache hits refresh recency and skip the resample path.
func (c *Cache) Render(seq *gifseq.Sequence, index int) *image.RGBA {
	index = seq.ClampIndex(index)
	key := Key{Frame: index, Width: c.viewport.X, Height: c.viewport.Y}

	if img, ok := c.entries.Get(key); ok {
		return img
	}

	img := fitToViewport(seq.Frame(index), c.viewport)
	c.renders++
	c.entries.Add(key, img)
	return img
}

// Invalidate drops every cached render.
func (c *Cache) Invalidate() {
	c.entries.Purge()
}

// Len returns the number of cached renders.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// RenderCount returns how many cache misses have gone through the resample
// path since creation.
func (c *Cache) RenderCount() int {
	return c.renders
}

// fitToViewport scales src down (or up) uniformly so it fits the viewport
// while preserving aspect ratio. A zero viewport or an exact fit returns src
// unchanged.
func fitToViewport(src *image.RGBA, viewport image.Point) *image.RGBA {
	sw := src.Bounds().Dx()
	sh := src.Bounds().Dy()
	if viewport.X <= 0 || viewport.Y <= 0 || sw <= 0 || sh <= 0 {
		return src
	}

	scale := min(float64(viewport.X)/float64(sw), float64(viewport.Y)/float64(sh))
	tw := max(1, int(float64(sw)*scale))
	th := max(1, int(float64(sh)*scale))
	if tw == sw && th == sh {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
