// Package config handles application configuration loading and management.
package config

// Config holds all application settings.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Playback PlaybackConfig `yaml:"playback"`
	Browser  BrowserConfig  `yaml:"browser"`
	UI       UIConfig       `yaml:"ui"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowConfig holds window geometry settings.
type WindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PlaybackConfig holds animation playback settings.
type PlaybackConfig struct {
	Speed float64 `yaml:"speed"` // Startup speed multiplier: 0.5, 1.0 or 2.0
}

// BrowserConfig holds directory browser settings.
type BrowserConfig struct {
	SortKey string `yaml:"sort_key"` // name_asc, name_desc, time_asc, time_desc
}

// UIConfig holds cosmetic display adaptation settings.
// Scale 0 means auto-detect from the environment.
type UIConfig struct {
	Scale      float64 `yaml:"scale"`
	FontFamily string  `yaml:"font_family"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1200,
			Height: 760,
		},
		Playback: PlaybackConfig{
			Speed: 1.0,
		},
		Browser: BrowserConfig{
			SortKey: "name_asc",
		},
		UI: UIConfig{
			Scale:      0,
			FontFamily: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
