// GIF Animator - a desktop viewer and frame inspector for animated GIF files.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/gif-animator/internal/catalog"
	"github.com/Faultbox/gif-animator/internal/config"
	"github.com/Faultbox/gif-animator/internal/logger"
	"github.com/Faultbox/gif-animator/internal/playback"
	"github.com/Faultbox/gif-animator/internal/session"
)

func main() {
	runtime.LockOSThread()

	config.ParseFlags()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		cfg = config.Default()
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
	}
	defer logger.Sync()

	app := NewApp(cfg)
	defer app.Close()

	// Open a file passed on the command line.
	if path := flag.Arg(0); path != "" {
		app.pendingOpen.Set(path)
	}

	app.Run()
}

// App represents the GIF Animator application state.
type App struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	cfg     *config.Config
	ctrl    *session.Controller
	watcher *catalog.Watcher
	scale   float32

	// Displayed frame texture. Re-uploaded only when the controller hands
	// back a different bitmap than the one currently on the GPU.
	frameTex  *backend.Texture
	lastFrame *image.RGBA

	// File dialog results, drained on the main thread in render()
	pendingOpen pendingPath
	pendingSave pendingPath

	// File list selection, distinct from the loaded file until opened
	selectedEntry string

	// Screenshot / notification state
	screenshotDir       string
	screenshotRequested bool
	notifyMsg           string
	showNotify          bool
	notifyTime          time.Time
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config) *App {
	app := &App{
		cfg:           cfg,
		ctrl:          session.New(logger.Log),
		scale:         detectUIScale(cfg),
		screenshotDir: filepath.Join(os.TempDir(), "gifanimator"),
	}

	app.ctrl.SetSpeed(cfg.Playback.Speed)
	app.ctrl.SetSortKey(catalog.ParseSortKey(cfg.Browser.SortKey))

	if err := os.MkdirAll(app.screenshotDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create screenshot dir: %v\n", err)
	}

	watcher, err := catalog.NewWatcher()
	if err != nil {
		logger.Warn("directory watcher unavailable", zap.Error(err))
	} else {
		app.watcher = watcher
	}

	var berr error
	app.backend, berr = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if berr != nil {
		panic(fmt.Sprintf("failed to create backend: %v", berr))
	}

	// Font and style scaling must happen after the ImGui context exists.
	app.backend.SetAfterCreateContextHook(func() {
		app.loadFonts()
	})

	app.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	app.backend.CreateWindow("GIF Animator", cfg.Window.Width, cfg.Window.Height)

	// OpenGL function pointers are needed for screenshot capture.
	if err := gl.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: OpenGL init failed (screenshots disabled): %v\n", err)
	}

	return app
}

// Close persists user-adjusted settings and cleans up resources.
func (app *App) Close() {
	app.cfg.Playback.Speed = app.ctrl.Speed()
	app.cfg.Browser.SortKey = app.ctrl.SortKey().String()
	if err := app.cfg.Save(); err != nil {
		logger.Warn("config save failed", zap.Error(err))
	}

	if app.frameTex != nil {
		app.frameTex.Release()
		app.frameTex = nil
	}
	if app.watcher != nil {
		_ = app.watcher.Close()
		app.watcher = nil
	}
}

// Run starts the main application loop.
func (app *App) Run() {
	app.backend.Run(app.render)
}

// openFileDialog shows a native file dialog to select a GIF file.
func (app *App) openFileDialog() {
	// Run in goroutine to not block the UI; the result is queued and
	// processed on the main thread in render().
	go func() {
		filename, err := dialog.File().
			Filter("GIF Images", "gif").
			Filter("All Files", "*").
			Title("Open GIF").
			Load()

		if err != nil {
			if err != dialog.ErrCancelled {
				logger.Error("open dialog failed", zap.Error(err))
			}
			return
		}

		app.pendingOpen.Set(filename)
	}()
}

// saveFileDialog shows a native save dialog for the current frame.
func (app *App) saveFileDialog() {
	startDir := app.ctrl.Dir()
	startFile := app.ctrl.DefaultSaveName()

	go func() {
		filename, err := dialog.File().
			Filter("PNG Image", "png").
			Filter("GIF Image", "gif").
			Title("Save Frame").
			SetStartDir(startDir).
			SetStartFile(startFile).
			Save()

		if err != nil {
			if err != dialog.ErrCancelled {
				logger.Error("save dialog failed", zap.Error(err))
			}
			return
		}

		app.pendingSave.Set(filename)
	}()
}

// openPath loads an animation and points the directory watcher at its
// folder. Re-opening the already-current file is a no-op in the controller.
func (app *App) openPath(path string) {
	if err := app.ctrl.OpenEntry(path, time.Now()); err != nil {
		logger.Error("open failed", zap.String("path", path), zap.Error(err))
		dialog.Message("%v", err).Title("Open failed").Error()
		return
	}

	app.backend.SetWindowTitle(fmt.Sprintf("GIF Animator - %s", filepath.Base(path)))

	if app.watcher != nil {
		if err := app.watcher.SetDir(app.ctrl.Dir()); err != nil {
			logger.Warn("directory watch failed", zap.String("dir", app.ctrl.Dir()), zap.Error(err))
		}
	}
}

// savePath exports the current frame to the chosen destination.
func (app *App) savePath(path string) {
	if err := app.ctrl.SaveFrame(path); err != nil {
		dialog.Message("%v", err).Title("Save failed").Error()
		return
	}
	app.showNotification("Saved: " + filepath.Base(path))
}

// render is called each frame to draw the UI.
func (app *App) render() {
	now := time.Now()

	// Deferred screenshot capture: grab at frame start so the previous
	// frame's rendered content is what ends up in the file.
	if app.screenshotRequested {
		app.screenshotRequested = false
		app.captureScreenshot()
	}

	// Process pending dialog results on the main thread.
	if path := app.pendingOpen.Take(); path != "" {
		app.openPath(path)
	}
	if path := app.pendingSave.Take(); path != "" {
		app.savePath(path)
	}

	// Pick up filesystem changes in the watched directory.
	if app.watcher != nil && app.watcher.ConsumeDirty() {
		app.ctrl.RefreshCatalog()
	}

	app.handleKeyboard(now)

	// Drive playback and the resize debounce.
	app.ctrl.Tick(now)

	// Main menu bar
	if imgui.BeginMainMenuBar() {
		if imgui.BeginMenu("File") {
			if imgui.MenuItemBool("Open GIF...") {
				app.openFileDialog()
			}
			if imgui.MenuItemBool("Save Frame...") && app.ctrl.Loaded() {
				app.saveFileDialog()
			}
			imgui.Separator()
			if imgui.MenuItemBool("Exit") {
				os.Exit(0)
			}
			imgui.EndMenu()
		}
		imgui.EndMainMenuBar()
	}

	// Get viewport work area (excludes menu bar)
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()

	// Layout dimensions
	sidebarWidth := float32(280) * app.scale
	transportHeight := float32(44) * app.scale
	statusBarHeight := float32(30) * app.scale
	contentHeight := workSize.Y - transportHeight - statusBarHeight

	// Window flags for fixed panels
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

	// Left panel - directory browser
	imgui.SetNextWindowPos(workPos)
	imgui.SetNextWindowSize(imgui.NewVec2(sidebarWidth, contentHeight))
	if imgui.BeginV("Files", nil, flags) {
		app.renderSidebar(now)
	}
	imgui.End()

	// Center panel - frame preview
	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+sidebarWidth, workPos.Y))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X-sidebarWidth, contentHeight))
	if imgui.BeginV("Preview", nil, flags) {
		app.renderPreview(now)
	}
	imgui.End()

	// Transport row above the status bar
	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X, workPos.Y+contentHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X, transportHeight))
	barFlags := flags | imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoScrollbar
	if imgui.BeginV("##Transport", nil, barFlags) {
		app.renderTransport(now)
	}
	imgui.End()

	// Status bar at bottom
	imgui.SetNextWindowPos(imgui.NewVec2(workPos.X, workPos.Y+contentHeight+transportHeight))
	imgui.SetNextWindowSize(imgui.NewVec2(workSize.X, statusBarHeight))
	if imgui.BeginV("##StatusBar", nil, barFlags) {
		app.renderStatusBar()
	}
	imgui.End()

	// Notification overlay, shown for 2 seconds
	if app.showNotify && time.Since(app.notifyTime) < 2*time.Second {
		notifyFlags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
			imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
			imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoFocusOnAppearing
		imgui.SetNextWindowPos(imgui.NewVec2(workPos.X+10, workPos.Y+10))
		imgui.SetNextWindowBgAlpha(0.85)
		if imgui.BeginV("##Notify", nil, notifyFlags) {
			imgui.Text(app.notifyMsg)
		}
		imgui.End()
	} else if app.showNotify {
		app.showNotify = false
	}
}

// handleKeyboard processes global shortcuts. Transport keys are suppressed
// while a text input or slider is active.
func (app *App) handleKeyboard(now time.Time) {
	// F12 = request screenshot (captured next frame)
	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyF12)) {
		app.screenshotRequested = true
	}

	if !app.ctrl.Loaded() || imgui.IsAnyItemActive() {
		return
	}

	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeySpace)) {
		app.ctrl.Do(session.CmdTogglePlay, now)
	}
	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyLeftArrow)) {
		app.ctrl.Do(session.CmdStepBack, now)
	}
	if imgui.IsKeyChordPressed(imgui.KeyChord(imgui.KeyRightArrow)) {
		app.ctrl.Do(session.CmdStepForward, now)
	}
}

// renderSidebar renders the open button, navigation, sort order and file list.
func (app *App) renderSidebar(now time.Time) {
	if imgui.ButtonV("Open GIF...", imgui.NewVec2(-1, 0)) {
		app.openFileDialog()
	}

	if imgui.Button("< Prev") {
		app.ctrl.Do(session.CmdPrevFile, now)
	}
	imgui.SameLine()
	if imgui.Button("Next >") {
		app.ctrl.Do(session.CmdNextFile, now)
	}

	imgui.Separator()

	if imgui.TreeNodeExStrV("Sort", imgui.TreeNodeFlagsDefaultOpen) {
		for _, key := range catalog.SortKeys {
			if imgui.SelectableBoolV(key.Label(), app.ctrl.SortKey() == key, 0, imgui.NewVec2(0, 0)) {
				app.ctrl.SetSortKey(key)
			}
		}
		imgui.TreePop()
	}

	imgui.Separator()
	app.renderFileList()
}

// renderFileList renders the directory catalog. Single click selects an
// entry, double click opens it.
func (app *App) renderFileList() {
	entries := app.ctrl.Entries()
	if len(entries) == 0 {
		imgui.TextDisabled("No GIF files")
		imgui.TextDisabled("Use File > Open GIF...")
		return
	}

	if imgui.BeginChildStrV("FileList", imgui.NewVec2(0, 0), imgui.ChildFlagsBorders, 0) {
		if imgui.BeginTable("fileTable", 3) {
			for _, entry := range entries {
				imgui.TableNextRow()
				imgui.TableNextColumn()

				name := filepath.Base(entry.Path)
				selected := entry.Path == app.selectedEntry || entry.Path == app.ctrl.File()
				if imgui.SelectableBoolV(name, selected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
					app.selectedEntry = entry.Path
				}
				if imgui.IsItemHovered() && imgui.IsMouseDoubleClicked(imgui.MouseButtonLeft) {
					app.pendingOpen.Set(entry.Path)
				}

				imgui.TableNextColumn()
				imgui.Text(entry.ModTime.Format("2006-01-02 15:04"))
				imgui.TableNextColumn()
				imgui.Text(formatSize(entry.Size))
			}
			imgui.EndTable()
		}
	}
	imgui.EndChild()
}

// renderPreview renders the current frame centered in the panel.
func (app *App) renderPreview(now time.Time) {
	if !app.ctrl.Loaded() {
		imgui.TextDisabled("No animation loaded")
		return
	}

	avail := imgui.ContentRegionAvail()
	app.ctrl.Resize(image.Pt(int(avail.X), int(avail.Y)), now)

	img := app.ctrl.Render()
	if img == nil {
		return
	}

	if img != app.lastFrame {
		if app.frameTex != nil {
			app.frameTex.Release()
		}
		app.frameTex = backend.NewTextureFromRgba(img)
		app.lastFrame = img
	}
	if app.frameTex == nil {
		return
	}

	w := float32(img.Bounds().Dx())
	h := float32(img.Bounds().Dy())

	// Center the frame both horizontally and vertically
	startX := imgui.CursorPosX()
	startY := imgui.CursorPosY()
	if w < avail.X {
		imgui.SetCursorPosX(startX + (avail.X-w)/2)
	}
	if h < avail.Y {
		imgui.SetCursorPosY(startY + (avail.Y-h)/2)
	}

	// Dark background behind transparent regions
	imgui.ImageWithBgV(
		app.frameTex.ID,
		imgui.NewVec2(w, h),
		imgui.NewVec2(0, 0),
		imgui.NewVec2(1, 1),
		imgui.NewVec4(0.2, 0.2, 0.2, 1.0),
		imgui.NewVec4(1, 1, 1, 1),
	)
}

// renderTransport renders the playback controls, timeline and save button.
func (app *App) renderTransport(now time.Time) {
	if !app.ctrl.Loaded() {
		imgui.TextDisabled("Open a GIF to enable playback")
		return
	}

	label := "Play"
	if app.ctrl.Playing() {
		label = "Pause"
	}
	if imgui.ButtonV(label+"##transport", imgui.NewVec2(60*app.scale, 0)) {
		app.ctrl.Do(session.CmdTogglePlay, now)
	}

	imgui.SameLine()
	if imgui.Button("<##step") {
		app.ctrl.Do(session.CmdStepBack, now)
	}
	imgui.SameLine()
	if imgui.Button(">##step") {
		app.ctrl.Do(session.CmdStepForward, now)
	}

	imgui.SameLine()
	imgui.Text(fmt.Sprintf("Frame: %d / %d", app.ctrl.Index()+1, app.ctrl.FrameCount()))

	// Timeline slider
	if app.ctrl.FrameCount() > 1 {
		imgui.SameLine()
		frame := int32(app.ctrl.Index())
		imgui.SetNextItemWidth(220 * app.scale)
		if imgui.SliderIntV("##Timeline", &frame, 0, int32(app.ctrl.FrameCount()-1), "%d", imgui.SliderFlagsNone) {
			app.ctrl.Scrub(int(frame))
		}
	}

	imgui.SameLine()
	imgui.Text("Speed:")
	for _, speed := range playback.Speeds {
		imgui.SameLine()
		selected := app.ctrl.Speed() == speed
		if imgui.SelectableBoolV(fmt.Sprintf("%gx", speed), selected, 0, imgui.NewVec2(38*app.scale, 0)) {
			app.ctrl.SetSpeed(speed)
		}
	}

	imgui.SameLine()
	if imgui.Button("Save Frame...") {
		app.saveFileDialog()
	}
}

// renderStatusBar renders the status bar at the bottom.
func (app *App) renderStatusBar() {
	if app.ctrl.Loaded() {
		imgui.Text(fmt.Sprintf("%s | %d frames | %s",
			app.ctrl.Status(), app.ctrl.FrameCount(), app.ctrl.File()))
	} else {
		imgui.Text(app.ctrl.Status())
	}
}

// showNotification displays a brief overlay notification message.
func (app *App) showNotification(msg string) {
	app.notifyMsg = msg
	app.showNotify = true
	app.notifyTime = time.Now()
}
