package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1200 {
		t.Errorf("expected width 1200, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 760 {
		t.Errorf("expected height 760, got %d", cfg.Window.Height)
	}

	if cfg.Playback.Speed != 1.0 {
		t.Errorf("expected speed 1.0, got %f", cfg.Playback.Speed)
	}

	if cfg.Browser.SortKey != "name_asc" {
		t.Errorf("expected sort key 'name_asc', got %s", cfg.Browser.SortKey)
	}

	if cfg.UI.Scale != 0 {
		t.Errorf("expected auto UI scale (0), got %f", cfg.UI.Scale)
	}
	if cfg.UI.FontFamily != "" {
		t.Errorf("expected empty font family, got %s", cfg.UI.FontFamily)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080

playback:
  speed: 2.0

browser:
  sort_key: "time_desc"

ui:
  scale: 1.5
  font_family: "Noto Sans"

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Window.Height)
	}

	if cfg.Playback.Speed != 2.0 {
		t.Errorf("expected speed 2.0, got %f", cfg.Playback.Speed)
	}

	if cfg.Browser.SortKey != "time_desc" {
		t.Errorf("expected sort key 'time_desc', got %s", cfg.Browser.SortKey)
	}

	if cfg.UI.Scale != 1.5 {
		t.Errorf("expected UI scale 1.5, got %f", cfg.UI.Scale)
	}
	if cfg.UI.FontFamily != "Noto Sans" {
		t.Errorf("expected font family 'Noto Sans', got %s", cfg.UI.FontFamily)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty absolute path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 1600
				*flagHeight = 900
			},
			verify: func(cfg *Config) {
				if cfg.Window.Width != 1600 {
					t.Errorf("expected width 1600, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 900 {
					t.Errorf("expected height 900, got %d", cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "speed flag",
			setup: func() {
				*flagSpeed = 0.5
			},
			verify: func(cfg *Config) {
				if cfg.Playback.Speed != 0.5 {
					t.Errorf("expected speed 0.5, got %f", cfg.Playback.Speed)
				}
			},
			teardown: func() {
				*flagSpeed = 0
			},
		},
		{
			name: "sort flag",
			setup: func() {
				*flagSort = "time_asc"
			},
			verify: func(cfg *Config) {
				if cfg.Browser.SortKey != "time_asc" {
					t.Errorf("expected sort key 'time_asc', got %s", cfg.Browser.SortKey)
				}
			},
			teardown: func() {
				*flagSort = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Flag overrides config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestSaveTo(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := Default()
	cfg.Window.Width = 800
	cfg.Browser.SortKey = "name_desc"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}

	if loaded.Window.Width != 800 {
		t.Errorf("expected width 800 after round trip, got %d", loaded.Window.Width)
	}
	if loaded.Browser.SortKey != "name_desc" {
		t.Errorf("expected sort key 'name_desc' after round trip, got %s", loaded.Browser.SortKey)
	}
}
