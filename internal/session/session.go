// Package session owns the mutable viewer state and applies user commands.
package session

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/gif-animator/internal/catalog"
	"github.com/Faultbox/gif-animator/internal/export"
	"github.com/Faultbox/gif-animator/internal/gifseq"
	"github.com/Faultbox/gif-animator/internal/playback"
	"github.com/Faultbox/gif-animator/internal/preview"
)

// Error kinds surfaced to the user.
var (
	// ErrFileNotFound means the selected path did not exist at load time.
	ErrFileNotFound = errors.New("file not found")

	// ErrNoFrameLoaded means a frame operation ran with no active sequence.
	ErrNoFrameLoaded = errors.New("no frame loaded")
)

// ResizeDebounce collapses a burst of viewport resize notifications into a
// single re-render using only the final size.
const ResizeDebounce = 80 * time.Millisecond

// Command names a parameterless user action. Parameterized actions (open,
// scrub, speed, sort, save) have dedicated Controller methods.
type Command int

const (
	CmdPlay Command = iota
	CmdPause
	CmdTogglePlay
	CmdStepBack
	CmdStepForward
	CmdPrevFile
	CmdNextFile
)

// Controller owns the session state and serializes every mutation onto the
// GUI thread. Exactly one Controller exists per running application.
type Controller struct {
	log *zap.Logger

	file  string
	dir   string
	seq   *gifseq.Sequence
	index int

	cache   *preview.Cache
	sched   *playback.Scheduler
	cat     *catalog.Catalog
	sortKey catalog.SortKey

	status string

	resizeArmed    bool
	resizeDeadline time.Time
	resizePending  image.Point
}

// New creates a controller with an empty session. A nil logger disables
// logging.
func New(log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		log:     log,
		cache:   preview.New(preview.DefaultCapacity),
		sched:   playback.New(1.0),
		cat:     catalog.New(),
		sortKey: catalog.SortNameAsc,
		status:  "Open a GIF file to begin",
	}
}

// Do applies a named command.
func (c *Controller) Do(cmd Command, now time.Time) {
	switch cmd {
	case CmdPlay:
		c.Play(now)
	case CmdPause:
		c.Pause()
	case CmdTogglePlay:
		if c.sched.Playing() {
			c.Pause()
		} else {
			c.Play(now)
		}
	case CmdStepBack:
		c.Step(-1)
	case CmdStepForward:
		c.Step(1)
	case CmdPrevFile:
		_ = c.Navigate(-1, now)
	case CmdNextFile:
		_ = c.Navigate(1, now)
	}
}

// Load replaces the session with the animation at path. On any failure the
// prior session state is left untouched and the error is returned for the
// notification surface; the status line records the outcome either way.
func (c *Controller) Load(path string, now time.Time) error {
	if _, err := os.Stat(path); err != nil {
		err = fmt.Errorf("%w: %s", ErrFileNotFound, path)
		c.status = "Load failed: " + err.Error()
		return err
	}

	seq, err := gifseq.Load(path)
	if err != nil {
		c.status = "Load failed: " + err.Error()
		c.log.Warn("load failed", zap.String("path", path), zap.Error(err))
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	c.sched.Pause()
	c.seq = seq
	c.file = abs
	c.dir = filepath.Dir(abs)
	c.index = 0
	c.cache.Invalidate()

	if err := c.cat.Refresh(c.dir, c.sortKey); err != nil {
		// The animation itself loaded fine; a failed directory scan only
		// costs sidebar navigation.
		c.log.Warn("catalog refresh failed", zap.String("dir", c.dir), zap.Error(err))
	}

	c.status = "Loaded: " + abs
	c.log.Info("loaded animation",
		zap.String("path", abs),
		zap.Int("frames", seq.Len()),
		zap.Int("width", seq.Width),
		zap.Int("height", seq.Height))
	return nil
}

// Play starts playback from the current frame.
func (c *Controller) Play(now time.Time) {
	if c.seq == nil {
		return
	}
	c.sched.Play(now, c.seq.Duration(c.index))
}

// Pause stops playback.
func (c *Controller) Pause() {
	c.sched.Pause()
}

// Step moves the current frame by delta, wrapping at both ends. Stepping
// while playing leaves the armed timer running; playback picks up from the
// new index when it next fires.
func (c *Controller) Step(delta int) {
	if c.seq == nil {
		return
	}
	n := c.seq.Len()
	c.index = ((c.index+delta)%n + n) % n
}

// Scrub jumps to the given frame index, clamped to the sequence bounds.
func (c *Controller) Scrub(index int) {
	if c.seq == nil {
		return
	}
	c.index = c.seq.ClampIndex(index)
}

// SetSpeed selects a playback multiplier from the fixed set.
func (c *Controller) SetSpeed(speed float64) bool {
	return c.sched.SetSpeed(speed)
}

// SetSortKey reorders the catalog.
func (c *Controller) SetSortKey(key catalog.SortKey) {
	c.sortKey = key
	if c.dir == "" {
		return
	}
	if err := c.cat.Refresh(c.dir, key); err != nil {
		c.log.Warn("catalog refresh failed", zap.String("dir", c.dir), zap.Error(err))
	}
}

// RefreshCatalog rescans the current directory, keeping the sort order.
func (c *Controller) RefreshCatalog() {
	if c.dir == "" {
		return
	}
	if err := c.cat.Refresh(c.dir, c.sortKey); err != nil {
		c.log.Warn("catalog refresh failed", zap.String("dir", c.dir), zap.Error(err))
	}
}

// OpenEntry loads a catalog entry unless it is already the current file.
// Re-opening the current selection would only pause playback and reset the
// frame index.
func (c *Controller) OpenEntry(path string, now time.Time) error {
	if path == c.file {
		return nil
	}
	return c.Load(path, now)
}

// Navigate loads the catalog entry adjacent to the current file.
func (c *Controller) Navigate(direction int, now time.Time) error {
	entry, ok := c.cat.Next(c.file, direction)
	if !ok {
		return nil
	}
	return c.Load(entry.Path, now)
}

// Resize records a viewport size change. Sub-tolerance jitter is ignored; a
// real change only arms the debounce, replacing any previously armed
// deadline. The cache keeps serving renders at the old size until the
// deadline fires, so a burst collapses to a single re-render at the final
// size. The host reports the size every frame, so a repeat of the pending
// size keeps the original deadline rather than pushing it forward, and a
// revert to the applied size cancels the pending re-render.
func (c *Controller) Resize(size image.Point, now time.Time) {
	if !c.cache.ViewportChanged(size) {
		c.resizeArmed = false
		return
	}
	if c.resizeArmed && withinResizeTolerance(size, c.resizePending) {
		return
	}
	c.resizePending = size
	c.resizeArmed = true
	c.resizeDeadline = now.Add(ResizeDebounce)
}

func withinResizeTolerance(a, b image.Point) bool {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx <= preview.ResizeTolerancePx && dy <= preview.ResizeTolerancePx
}

// Tick services the playback and resize-debounce deadlines. It reports
// whether the displayed frame must be re-rendered.
func (c *Controller) Tick(now time.Time) bool {
	redraw := false

	if c.resizeArmed && !now.Before(c.resizeDeadline) {
		c.resizeArmed = false
		if c.cache.SetViewport(c.resizePending) {
			redraw = c.seq != nil
		}
	}

	if c.seq != nil && c.sched.Due(now) {
		c.index = (c.index + 1) % c.seq.Len()
		c.sched.Advance(now, c.seq.Duration(c.index))
		redraw = true
	}

	return redraw
}

// SaveFrame exports the current frame to path. Format follows the extension:
// .gif re-quantizes to an indexed palette, everything else encodes as PNG.
func (c *Controller) SaveFrame(path string) error {
	if c.seq == nil {
		return ErrNoFrameLoaded
	}
	if err := export.Save(c.seq.Frame(c.index), path); err != nil {
		c.status = "Save failed: " + err.Error()
		c.log.Warn("save failed", zap.String("path", path), zap.Error(err))
		return err
	}
	c.status = "Saved frame: " + path
	c.log.Info("saved frame", zap.String("path", path), zap.Int("frame", c.index))
	return nil
}

// DefaultSaveName suggests an export filename for the current frame.
func (c *Controller) DefaultSaveName() string {
	if c.seq == nil || c.file == "" {
		return "frame.png"
	}
	base := filepath.Base(c.file)
	stem := base[:len(base)-len(filepath.Ext(base))]
	return fmt.Sprintf("%s_frame_%04d.png", stem, c.index+1)
}

// Render returns the display-ready bitmap for the current frame fitted to
// the current viewport, or nil when nothing is loaded. Cached renders are
// returned as-is, so callers may compare pointers to detect changes.
func (c *Controller) Render() *image.RGBA {
	if c.seq == nil {
		return nil
	}
	return c.cache.Render(c.seq, c.index)
}

// Loaded reports whether a sequence is active.
func (c *Controller) Loaded() bool {
	return c.seq != nil
}

// File returns the absolute path of the loaded file, or "".
func (c *Controller) File() string {
	return c.file
}

// Dir returns the directory of the loaded file, or "".
func (c *Controller) Dir() string {
	return c.dir
}

// Index returns the current frame index.
func (c *Controller) Index() int {
	return c.index
}

// FrameCount returns the number of frames, 0 when nothing is loaded.
func (c *Controller) FrameCount() int {
	if c.seq == nil {
		return 0
	}
	return c.seq.Len()
}

// Playing reports whether playback is active.
func (c *Controller) Playing() bool {
	return c.sched.Playing()
}

// Speed returns the current playback multiplier.
func (c *Controller) Speed() float64 {
	return c.sched.Speed()
}

// SortKey returns the current catalog ordering.
func (c *Controller) SortKey() catalog.SortKey {
	return c.sortKey
}

// Entries returns the catalog listing in sort order.
func (c *Controller) Entries() []catalog.Entry {
	return c.cat.Entries()
}

// Status returns the last load/save outcome for the status line.
func (c *Controller) Status() string {
	return c.status
}
