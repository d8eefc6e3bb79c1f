package config

import "time"

// Config is the root configuration structure.
type Config struct {
	Store   StoreConfig   `json:"store"`
	Search  SearchConfig  `json:"search"`
	Sidebar SidebarConfig `json:"sidebar"`
	Cloud   CloudConfig   `json:"cloud"`
	UI      UIConfig      `json:"ui"`
	Keymap  KeymapConfig  `json:"keymap"`
}

// StoreConfig configures the local notes database.
type StoreConfig struct {
	Path   string `json:"path"`   // sqlite file (supports ~ expansion)
	Driver string `json:"driver"` // "sqlite3" (cgo) or "sqlite" (pure Go)
}

// SearchConfig configures sidebar search.
type SearchConfig struct {
	Debounce time.Duration `json:"debounce"` // quiet period after the last keystroke
	Limit    int           `json:"limit"`    // max results per query
}

// SidebarConfig configures sidebar layout defaults.
type SidebarConfig struct {
	DefaultWidth  int `json:"defaultWidth"`
	MinWidth      int `json:"minWidth"`
	MaxWidth      int `json:"maxWidth"`
	TimelineLimit int `json:"timelineLimit"`
	HistoryLimit  int `json:"historyLimit"`
}

// CloudConfig configures the remote account service.
type CloudConfig struct {
	BaseURL string        `json:"baseURL"`
	Timeout time.Duration `json:"timeout"`
}

// UIConfig configures UI appearance.
type UIConfig struct {
	Locale        string `json:"locale"` // empty = derive from $LANG
	ShowPreview   bool   `json:"showPreview"`
	MarkdownTheme string `json:"markdownTheme"` // glamour style name
}

// KeymapConfig holds key binding overrides.
type KeymapConfig struct {
	Overrides map[string]string `json:"overrides"`
}

const (
	DriverCgo  = "sqlite3"
	DriverPure = "sqlite"

	defaultDebounce = 600 * time.Millisecond
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Path:   "~/.config/sidenote/notes.db",
			Driver: DriverCgo,
		},
		Search: SearchConfig{
			Debounce: defaultDebounce,
			Limit:    50,
		},
		Sidebar: SidebarConfig{
			DefaultWidth:  32,
			MinWidth:      20,
			MaxWidth:      80,
			TimelineLimit: 10,
			HistoryLimit:  10,
		},
		Cloud: CloudConfig{
			BaseURL: "https://boostnote.io",
			Timeout: 10 * time.Second,
		},
		UI: UIConfig{
			ShowPreview:   true,
			MarkdownTheme: "dark",
		},
		Keymap: KeymapConfig{
			Overrides: make(map[string]string),
		},
	}
}

// Validate checks the configuration for errors.
// Out-of-range values are reset to defaults rather than rejected.
func (c *Config) Validate() error {
	if c.Store.Driver != DriverCgo && c.Store.Driver != DriverPure {
		c.Store.Driver = DriverCgo
	}
	if c.Search.Debounce <= 0 {
		c.Search.Debounce = defaultDebounce
	}
	if c.Search.Limit <= 0 {
		c.Search.Limit = 50
	}
	if c.Sidebar.MinWidth <= 0 {
		c.Sidebar.MinWidth = 20
	}
	if c.Sidebar.MaxWidth < c.Sidebar.MinWidth {
		c.Sidebar.MaxWidth = c.Sidebar.MinWidth
	}
	if c.Sidebar.DefaultWidth < c.Sidebar.MinWidth || c.Sidebar.DefaultWidth > c.Sidebar.MaxWidth {
		c.Sidebar.DefaultWidth = c.Sidebar.MinWidth
	}
	if c.Sidebar.TimelineLimit < 0 {
		c.Sidebar.TimelineLimit = 10
	}
	if c.Sidebar.HistoryLimit < 0 {
		c.Sidebar.HistoryLimit = 10
	}
	if c.Cloud.Timeout <= 0 {
		c.Cloud.Timeout = 10 * time.Second
	}
	return nil
}

// ClampWidth keeps a sidebar width inside the configured bounds.
func (c *Config) ClampWidth(w int) int {
	if w <= 0 {
		return c.Sidebar.DefaultWidth
	}
	if w < c.Sidebar.MinWidth {
		return c.Sidebar.MinWidth
	}
	if w > c.Sidebar.MaxWidth {
		return c.Sidebar.MaxWidth
	}
	return w
}
