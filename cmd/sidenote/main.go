package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/sidenote/internal/app"
	"github.com/marcus/sidenote/internal/auth"
	"github.com/marcus/sidenote/internal/config"
	"github.com/marcus/sidenote/internal/keymap"
	"github.com/marcus/sidenote/internal/state"
	"github.com/marcus/sidenote/internal/store"
)

// Version is set at build time via ldflags
var Version = ""

const tokenEnv = "SIDENOTE_CLOUD_TOKEN"

var (
	configPath   = flag.String("config", "", "path to config file")
	dbPath       = flag.String("db", "", "path to the notes database (overrides config)")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
	versionFlag  = flag.Bool("version", false, "print version and exit")
	shortVersion = flag.Bool("v", false, "print version and exit (short)")
)

func main() {
	flag.Parse()

	if *versionFlag || *shortVersion {
		fmt.Printf("sidenote version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	// The TUI owns the terminal: debug logs go to a file, otherwise only
	// warnings reach stderr.
	logOut := os.Stderr
	logLevel := slog.LevelWarn
	if *debugFlag {
		logLevel = slog.LevelDebug
		f, err := openDebugLog()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	path := config.ExpandPath(cfg.Store.Path)
	st, err := store.Open(path, cfg.Store.Driver)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if err := ensureSpace(st); err != nil {
		return err
	}

	// Missing or corrupt state falls back to defaults.
	ui := state.New(config.Dir(), logger)
	if err := ui.Load(); err != nil {
		logger.Warn("load state", "path", ui.Path(), "err", err)
	}
	defer ui.Close()

	watcher, err := store.Watch(path, 0, logger)
	if err != nil {
		logger.Warn("watch store", "path", filepath.Dir(path), "err", err)
		watcher = nil
	} else {
		defer watcher.Close()
	}

	km := keymap.NewRegistry()
	for key, cmdID := range cfg.Keymap.Overrides {
		km.SetUserOverride(key, keymap.Command(cmdID))
	}

	model, err := app.New(app.Deps{
		Config:   cfg,
		Store:    st,
		State:    ui,
		Auth:     auth.NewClient(cfg.Cloud.BaseURL, cfg.Cloud.Timeout, ui, logger),
		Watcher:  watcher,
		Keymap:   km,
		Logger:   logger,
		Token:    os.Getenv(tokenEnv),
		Platform: runtime.GOOS,
		Version:  effectiveVersion(Version),
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// ensureSpace creates a first space in an empty database.
func ensureSpace(st *store.Store) error {
	spaces, err := st.Spaces()
	if err != nil {
		return fmt.Errorf("list spaces: %w", err)
	}
	if len(spaces) > 0 {
		return nil
	}
	if _, err := st.CreateSpace("Personal"); err != nil {
		return fmt.Errorf("create space: %w", err)
	}
	return nil
}

func openDebugLog() (*os.File, error) {
	dir := config.Dir()
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	if revision != "" {
		ver := "devel+" + revision
		if len(ver) > 20 {
			ver = ver[:20]
		}
		if dirty {
			ver += "+dirty"
		}
		return ver
	}
	return "devel"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sidenote [options]\n\n")
		fmt.Fprintf(os.Stderr, "A terminal sidebar for your notes.\n")
		fmt.Fprintf(os.Stderr, "Set %s to sign in to the cloud account.\n\n", tokenEnv)
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
