package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	configDir  = ".config/sidenote"
	configFile = "config.json"
)

// rawConfig is the JSON-unmarshaling intermediary.
// Pointer fields distinguish "unset" from an explicit zero value.
type rawConfig struct {
	Store   rawStoreConfig   `json:"store"`
	Search  rawSearchConfig  `json:"search"`
	Sidebar rawSidebarConfig `json:"sidebar"`
	Cloud   rawCloudConfig   `json:"cloud"`
	UI      rawUIConfig      `json:"ui"`
	Keymap  KeymapConfig     `json:"keymap"`
}

type rawStoreConfig struct {
	Path   string `json:"path"`
	Driver string `json:"driver"`
}

type rawSearchConfig struct {
	Debounce string `json:"debounce"`
	Limit    *int   `json:"limit"`
}

type rawSidebarConfig struct {
	DefaultWidth  *int `json:"defaultWidth"`
	MinWidth      *int `json:"minWidth"`
	MaxWidth      *int `json:"maxWidth"`
	TimelineLimit *int `json:"timelineLimit"`
	HistoryLimit  *int `json:"historyLimit"`
}

type rawCloudConfig struct {
	BaseURL string `json:"baseURL"`
	Timeout string `json:"timeout"`
}

type rawUIConfig struct {
	Locale        string `json:"locale"`
	ShowPreview   *bool  `json:"showPreview"`
	MarkdownTheme string `json:"markdownTheme"`
}

// Load loads configuration from the default location.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from a specific path.
// If path is empty, uses ~/.config/sidenote/config.json
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = ConfigPath()
		if path == "" {
			cfg.Store.Path = ExpandPath(cfg.Store.Path)
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.Store.Path = ExpandPath(cfg.Store.Path)
			return cfg, nil
		}
		return nil, err
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	mergeConfig(cfg, &raw)

	cfg.Store.Path = ExpandPath(cfg.Store.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeConfig merges raw config values into the config.
func mergeConfig(cfg *Config, raw *rawConfig) {
	// Store
	if raw.Store.Path != "" {
		cfg.Store.Path = raw.Store.Path
	}
	if raw.Store.Driver != "" {
		cfg.Store.Driver = raw.Store.Driver
	}

	// Search
	if raw.Search.Debounce != "" {
		if d, err := time.ParseDuration(raw.Search.Debounce); err == nil {
			cfg.Search.Debounce = d
		} else {
			slog.Warn("invalid search debounce, using default", "value", raw.Search.Debounce)
		}
	}
	if raw.Search.Limit != nil {
		cfg.Search.Limit = *raw.Search.Limit
	}

	// Sidebar
	if raw.Sidebar.DefaultWidth != nil {
		cfg.Sidebar.DefaultWidth = *raw.Sidebar.DefaultWidth
	}
	if raw.Sidebar.MinWidth != nil {
		cfg.Sidebar.MinWidth = *raw.Sidebar.MinWidth
	}
	if raw.Sidebar.MaxWidth != nil {
		cfg.Sidebar.MaxWidth = *raw.Sidebar.MaxWidth
	}
	if raw.Sidebar.TimelineLimit != nil {
		cfg.Sidebar.TimelineLimit = *raw.Sidebar.TimelineLimit
	}
	if raw.Sidebar.HistoryLimit != nil {
		cfg.Sidebar.HistoryLimit = *raw.Sidebar.HistoryLimit
	}

	// Cloud
	if raw.Cloud.BaseURL != "" {
		cfg.Cloud.BaseURL = strings.TrimRight(raw.Cloud.BaseURL, "/")
	}
	if raw.Cloud.Timeout != "" {
		if d, err := time.ParseDuration(raw.Cloud.Timeout); err == nil {
			cfg.Cloud.Timeout = d
		}
	}

	// UI
	if raw.UI.Locale != "" {
		cfg.UI.Locale = raw.UI.Locale
	}
	if raw.UI.ShowPreview != nil {
		cfg.UI.ShowPreview = *raw.UI.ShowPreview
	}
	if raw.UI.MarkdownTheme != "" {
		cfg.UI.MarkdownTheme = raw.UI.MarkdownTheme
	}

	// Keymap
	if raw.Keymap.Overrides != nil {
		for k, v := range raw.Keymap.Overrides {
			cfg.Keymap.Overrides[k] = v
		}
	}
}

// ExpandPath expands ~ to home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	if testConfigPath != "" {
		return testConfigPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, configDir, configFile)
}

// Dir returns the directory holding config.json and state.json.
func Dir() string {
	p := ConfigPath()
	if p == "" {
		return ""
	}
	return filepath.Dir(p)
}
