package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// testConfigPath overrides ConfigPath in tests.
var testConfigPath string

// SetTestConfigPath points ConfigPath at a temporary file.
func SetTestConfigPath(path string) { testConfigPath = path }

// ResetTestConfigPath restores the default config location.
func ResetTestConfigPath() { testConfigPath = "" }

// saveConfig is the JSON-marshaling intermediary that uses string durations.
type saveConfig struct {
	Store   StoreConfig      `json:"store"`
	Search  saveSearchConfig `json:"search"`
	Sidebar SidebarConfig    `json:"sidebar"`
	Cloud   saveCloudConfig  `json:"cloud"`
	UI      saveUIConfig     `json:"ui"`
	Keymap  KeymapConfig     `json:"keymap"`
}

type saveSearchConfig struct {
	Debounce string `json:"debounce,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

type saveCloudConfig struct {
	BaseURL string `json:"baseURL,omitempty"`
	Timeout string `json:"timeout,omitempty"`
}

type saveUIConfig struct {
	Locale        string `json:"locale,omitempty"`
	ShowPreview   *bool  `json:"showPreview,omitempty"`
	MarkdownTheme string `json:"markdownTheme,omitempty"`
}

// toSaveConfig converts Config to the JSON-serializable format.
func toSaveConfig(cfg *Config) saveConfig {
	return saveConfig{
		Store: cfg.Store,
		Search: saveSearchConfig{
			Debounce: cfg.Search.Debounce.String(),
			Limit:    cfg.Search.Limit,
		},
		Sidebar: cfg.Sidebar,
		Cloud: saveCloudConfig{
			BaseURL: cfg.Cloud.BaseURL,
			Timeout: cfg.Cloud.Timeout.String(),
		},
		UI: saveUIConfig{
			Locale:        cfg.UI.Locale,
			ShowPreview:   &cfg.UI.ShowPreview,
			MarkdownTheme: cfg.UI.MarkdownTheme,
		},
		Keymap: cfg.Keymap,
	}
}

// Save writes the config to ~/.config/sidenote/config.json.
// Top-level keys this package does not manage are preserved.
func Save(cfg *Config) error {
	path := ConfigPath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	merged := make(map[string]json.RawMessage)
	if existing, err := os.ReadFile(path); err == nil {
		// A corrupt file is overwritten.
		_ = json.Unmarshal(existing, &merged)
	}

	data, err := json.Marshal(toSaveConfig(cfg))
	if err != nil {
		return err
	}
	var managed map[string]json.RawMessage
	if err := json.Unmarshal(data, &managed); err != nil {
		return err
	}
	for k, v := range managed {
		merged[k] = v
	}

	out, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, out, 0644)
}

// SaveLocale updates only the UI locale in config and saves.
func SaveLocale(locale string) error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.UI.Locale = locale
	return Save(cfg)
}
