// Font loading for GIF Animator.
package main

import (
	"os"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/gif-animator/internal/logger"
)

// baseFontSize is the UI font size at 1.0 scale.
const baseFontSize = 16.0

// fontCandidates lists font files tried in order (cross-platform support).
var fontCandidates = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",                 // Debian/Ubuntu
	"/usr/share/fonts/TTF/DejaVuSans.ttf",                             // Arch
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf", // Linux alt
	"/System/Library/Fonts/Helvetica.ttc",                             // macOS
	"/Library/Fonts/Arial.ttf",                                        // macOS alt
	"C:\\Windows\\Fonts\\segoeui.ttf",                                 // Windows
	"C:\\Windows\\Fonts\\arial.ttf",                                   // Windows alt
}

// loadFonts applies the UI scale to the style and loads the first available
// font candidate at the scaled size. GIF_ANIMATOR_FONT_FAMILY prepends an
// explicit font file path to the candidate list.
// Called from SetAfterCreateContextHook after the ImGui context is created.
func (app *App) loadFonts() {
	if app.scale != 1.0 {
		imgui.CurrentStyle().ScaleAllSizes(app.scale)
	}

	candidates := fontCandidates
	if cfgFont := app.cfg.UI.FontFamily; cfgFont != "" {
		candidates = append([]string{cfgFont}, candidates...)
	}
	if envFont := os.Getenv("GIF_ANIMATOR_FONT_FAMILY"); envFont != "" {
		candidates = append([]string{envFont}, candidates...)
	}

	var fontPath string
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			fontPath = path
			break
		}
	}

	if fontPath == "" {
		// ImGui's built-in bitmap font still works, it just scales poorly.
		return
	}

	fonts := imgui.CurrentIO().Fonts()
	font := fonts.AddFontFromFileTTF(fontPath, baseFontSize*app.scale)
	if font == nil {
		logger.Warn("font load failed", zap.String("path", fontPath))
		return
	}

	logger.Debug("loaded font",
		zap.String("path", fontPath),
		zap.Float32("scale", app.scale))
}
