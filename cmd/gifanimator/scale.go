// UI scale detection for HiDPI displays.
package main

import (
	"os"
	"strconv"

	"github.com/Faultbox/gif-animator/internal/config"
)

// Scale factors outside this range are almost certainly misconfigured
// environment variables, not real displays.
const (
	minUIScale = 0.75
	maxUIScale = 3.0
)

// detectUIScale resolves the UI scale factor. An explicit config value wins;
// otherwise GIF_ANIMATOR_UI_SCALE, then the desktop environment's own scale
// variables (GTK, then Qt), are consulted.
func detectUIScale(cfg *config.Config) float32 {
	if cfg.UI.Scale > 0 {
		return clampScale(float32(cfg.UI.Scale))
	}

	if v := scaleFromEnv("GIF_ANIMATOR_UI_SCALE"); v > 0 {
		return clampScale(v)
	}

	if v := scaleFromEnv("GDK_SCALE"); v > 0 {
		// GDK splits integer scaling and fractional DPI scaling.
		if dpi := scaleFromEnv("GDK_DPI_SCALE"); dpi > 0 {
			v *= dpi
		}
		return clampScale(v)
	}

	if v := scaleFromEnv("QT_SCALE_FACTOR"); v > 0 {
		return clampScale(v)
	}

	return 1.0
}

// scaleFromEnv parses a scale variable, returning 0 when unset or invalid.
func scaleFromEnv(name string) float32 {
	raw := os.Getenv(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return float32(v)
}

func clampScale(v float32) float32 {
	if v < minUIScale {
		return minUIScale
	}
	if v > maxUIScale {
		return maxUIScale
	}
	return v
}
