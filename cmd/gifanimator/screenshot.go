// Screenshot capture for GIF Animator (F12).
package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/gif-animator/internal/logger"
)

// captureScreenshot captures the current window contents to a PNG file.
func (app *App) captureScreenshot() {
	// Use the actual framebuffer size (DisplaySize is logical pixels,
	// DisplayFramebufferScale is the HiDPI multiplier).
	io := imgui.CurrentIO()
	displaySize := io.DisplaySize()
	fbScale := io.DisplayFramebufferScale()
	width := int(displaySize.X * fbScale.X)
	height := int(displaySize.Y * fbScale.Y)

	if width <= 0 || height <= 0 {
		app.showNotification("Screenshot failed: invalid viewport")
		return
	}

	// Read from the front buffer: capture happens at frame start, so the
	// previous frame is what is currently displayed.
	gl.ReadBuffer(gl.FRONT)
	pixels := make([]byte, width*height*4)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.ReadBuffer(gl.BACK)

	// Flip vertically; OpenGL's origin is bottom-left.
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		srcRow := (height - 1 - y) * width * 4
		dstRow := y * width * 4
		copy(img.Pix[dstRow:dstRow+width*4], pixels[srcRow:srcRow+width*4])
	}

	filename := fmt.Sprintf("screenshot-%s.png", time.Now().Format("20060102-150405"))
	savePath := filepath.Join(app.screenshotDir, filename)

	file, err := os.Create(savePath)
	if err != nil {
		app.showNotification(fmt.Sprintf("Screenshot failed: %v", err))
		return
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		app.showNotification(fmt.Sprintf("Screenshot failed: %v", err))
		return
	}

	app.showNotification("Saved: " + filename)
	logger.Info("screenshot saved", zap.String("path", savePath))
}
