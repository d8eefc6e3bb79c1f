// Package app wires the sidebar view model to a Bubble Tea program: it owns
// the stateful sidebar components, turns key presses into row commands and
// renders the composed snapshot next to a markdown preview.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/sidenote/internal/auth"
	"github.com/marcus/sidenote/internal/config"
	"github.com/marcus/sidenote/internal/i18n"
	"github.com/marcus/sidenote/internal/keymap"
	"github.com/marcus/sidenote/internal/mouse"
	appmsg "github.com/marcus/sidenote/internal/msg"
	"github.com/marcus/sidenote/internal/nav"
	"github.com/marcus/sidenote/internal/sidebar"
	"github.com/marcus/sidenote/internal/state"
	"github.com/marcus/sidenote/internal/store"
)

// Deps are the collaborators a Model is built from. Store and State are
// required; Auth and Watcher may be nil.
type Deps struct {
	Config   *config.Config
	Store    *store.Store
	State    *state.Store
	Auth     *auth.Client
	Watcher  *store.Watcher
	Keymap   *keymap.Registry
	Logger   *slog.Logger
	Token    string // cloud API token, empty when signed out
	Platform string // runtime.GOOS, selects shortcut labels
	Version  string
}

// focus is the part of the UI receiving key presses.
type focus int

const (
	focusSidebar focus = iota
	focusSearch
	focusPrompt
	focusConfirm
	focusHelp
)

type promptKind int

const (
	promptRename promptKind = iota
	promptRenameSpace
	promptNewFolder
	promptNewSpace
	promptTitle
)

// prompt is an open single-line text dialog.
type prompt struct {
	kind     promptKind
	title    string
	input    textinput.Model
	commands sidebar.RowCommands // rename, new folder
	id       string              // space or note ID
}

// confirmation is an open yes/no dialog.
type confirmation struct {
	title string
	body  string
	run   func() error
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg     *config.Config
	store   *store.Store
	state   *state.Store
	auth    *auth.Client
	watcher *store.Watcher
	keys    *keymap.Registry
	logger  *slog.Logger
	tr      *i18n.Translator

	router   *nav.Router
	collapse *sidebar.CollapseStore
	search   *sidebar.Debouncer
	drag     *sidebar.DragReducer
	actions  *sidebar.Actions
	composer *sidebar.Composer
	preview  *previewCache
	mouse    *mouse.Handler

	// Unsubscribes the collapse persistence hook.
	unsubscribe func()

	spaces       []store.Space
	snapshot     *store.Snapshot
	revision     int64
	currentSpace string
	panel        sidebar.Panel
	spacesOpen   bool
	sort         sidebar.SortOrder
	sidebarWidth int
	showPreview  bool

	view   *sidebar.Snapshot
	items  []item
	cursor int
	scroll int

	focus       focus
	searchInput textinput.Model
	prompt      *prompt
	confirm     *confirmation

	token    string
	platform string
	version  string

	toast      string
	toastIsErr bool
	toastSeq   int
	width      int
	height     int
	ready      bool
	quitting   bool
}

// New builds the model and restores the persisted sidebar state.
func New(d Deps) (Model, error) {
	if d.Store == nil || d.State == nil {
		return Model{}, errors.New("app: store and state are required")
	}
	cfg := d.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	keys := d.Keymap
	if keys == nil {
		keys = keymap.NewRegistry()
	}

	locale := cfg.UI.Locale
	if locale == "" {
		locale = os.Getenv("LANG")
	}
	tr, err := i18n.New(locale)
	if err != nil {
		return Model{}, fmt.Errorf("load translations: %w", err)
	}

	m := Model{
		cfg:         cfg,
		store:       d.Store,
		state:       d.State,
		auth:        d.Auth,
		watcher:     d.Watcher,
		keys:        keys,
		logger:      logger,
		tr:          tr,
		collapse:    sidebar.NewCollapseStore(),
		composer:    &sidebar.Composer{},
		preview:     newPreviewCache(cfg.UI.MarkdownTheme),
		mouse:       mouse.NewHandler(),
		showPreview: cfg.UI.ShowPreview,
		token:       d.Token,
		platform:    d.Platform,
		version:     d.Version,
	}
	m.drag = sidebar.NewDragReducer(d.Store, logger)
	m.actions = sidebar.NewActions(d.Store, m.collapse, m.drag, logger)

	st := d.State.Get()
	m.collapse.Restore(sidebar.CollapseSets{
		Folders:  st.OpenedFolders,
		Links:    st.OpenedLinks,
		Storages: st.OpenedStorages,
	})
	m.unsubscribe = m.collapse.Subscribe(persistCollapse(m.collapse, d.State, logger))
	m.panel = sidebar.ParsePanel(st.LastSidebarState)
	m.sort = sidebar.ParseSortOrder(st.SidebarTreeSortingOrder)
	m.sidebarWidth = cfg.ClampWidth(st.SideBarWidth)

	if err := m.loadSpaces(); err != nil {
		return Model{}, err
	}
	m.currentSpace = st.CurrentSpace
	if !m.hasSpace(m.currentSpace) {
		m.currentSpace = ""
		if len(m.spaces) > 0 {
			m.currentSpace = m.spaces[0].ID
		}
	}

	start := ""
	if m.currentSpace != "" {
		start = nav.FolderHref(m.currentSpace, store.RootPathname)
	}
	m.router = nav.NewRouter(start, 0)
	m.search = sidebar.NewDebouncer(cfg.Search.Debounce, m.searchFunc(m.currentSpace), logger)

	m.searchInput = textinput.New()
	m.searchInput.Prompt = "/ "
	m.searchInput.Placeholder = tr.T(i18n.SidebarSearch)
	m.searchInput.CharLimit = 200

	if err := m.loadSnapshot(); err != nil {
		return Model{}, err
	}
	m.refresh()
	return m, nil
}

// Init starts the store listener and the background profile sync.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if cmd := m.listenStore(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.auth != nil {
		if cmd := m.auth.SyncCmd(m.token); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// listenStore waits for the next out-of-band write to the database.
func (m Model) listenStore() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	w := m.watcher
	return func() tea.Msg {
		select {
		case <-w.Events():
			return appmsg.StoreChangedMsg{}
		case <-w.Done():
			return nil
		}
	}
}

// searchFunc runs sidebar searches against spaceID.
func (m *Model) searchFunc(spaceID string) sidebar.SearchFunc {
	if spaceID == "" {
		return nil
	}
	st, limit := m.store, m.cfg.Search.Limit
	return func(ctx context.Context, q sidebar.ParsedQuery) ([]sidebar.SearchResult, error) {
		hits, err := st.Search(ctx, spaceID, q.StoreQuery(), limit)
		if err != nil {
			return nil, err
		}
		results := make([]sidebar.SearchResult, 0, len(hits))
		for _, h := range hits {
			results = append(results, sidebar.SearchResult{
				NoteID:  h.NoteID,
				Label:   h.Title,
				Href:    nav.NoteHref(h.SpaceID, h.FolderPathname, h.NoteID),
				Preview: h.Preview,
			})
		}
		return results, nil
	}
}

// persistCollapse writes the opened sets to the UI state after every
// change.
func persistCollapse(c *sidebar.CollapseStore, st *state.Store, logger *slog.Logger) func(sidebar.CollapsableType) {
	return func(sidebar.CollapsableType) {
		sets := c.Snapshot()
		err := st.Update(func(s *state.State) {
			s.OpenedFolders = sets.Folders
			s.OpenedLinks = sets.Links
			s.OpenedStorages = sets.Storages
		})
		if err != nil {
			logger.Warn("persist collapse state", "err", err)
		}
	}
}

// updateState persists a preference change. Failures are logged; the
// in-memory state is kept either way.
func (m *Model) updateState(fn func(*state.State)) {
	if err := m.state.Update(fn); err != nil {
		m.logger.Warn("persist state", "err", err)
	}
}

func (m *Model) loadSpaces() error {
	spaces, err := m.store.Spaces()
	if err != nil {
		return fmt.Errorf("list spaces: %w", err)
	}
	m.spaces = spaces
	return nil
}

func (m *Model) hasSpace(id string) bool {
	return id != "" && slices.ContainsFunc(m.spaces, func(sp store.Space) bool { return sp.ID == id })
}

func (m *Model) loadSnapshot() error {
	rev, err := m.store.Revision()
	if err != nil {
		return fmt.Errorf("read revision: %w", err)
	}
	m.revision = rev
	if m.currentSpace == "" {
		m.snapshot = nil
		return nil
	}
	snap, err := m.store.Snapshot(m.currentSpace)
	if err != nil {
		return fmt.Errorf("load space %s: %w", m.currentSpace, err)
	}
	m.snapshot = snap
	return nil
}

// reload re-reads spaces and the current space when the store revision
// moved. force skips the revision check.
func (m *Model) reload(force bool) error {
	if !force {
		rev, err := m.store.Revision()
		if err != nil {
			return err
		}
		if rev == m.revision {
			return nil
		}
	}
	if err := m.loadSpaces(); err != nil {
		return err
	}
	if !m.hasSpace(m.currentSpace) {
		next := ""
		if len(m.spaces) > 0 {
			next = m.spaces[0].ID
		}
		m.setSpace(next)
	}
	if err := m.loadSnapshot(); err != nil {
		return err
	}
	m.forgetMissing()
	m.refresh()
	return nil
}

// forgetMissing drops history entries of notes that no longer exist.
func (m *Model) forgetMissing() {
	if m.snapshot == nil {
		return
	}
	spaceID := m.snapshot.Space.ID
	m.router.Forget(func(p string) bool {
		r := nav.ParseRoute(p)
		if r.Kind != nav.RouteNote || r.SpaceID != spaceID {
			return false
		}
		_, ok := m.snapshot.Notes[r.NoteID]
		return !ok
	})
}

// setSpace switches the current space without loading it.
func (m *Model) setSpace(id string) {
	if id == m.currentSpace {
		return
	}
	m.drag.Cancel()
	m.currentSpace = id
	m.search.Retarget(m.searchFunc(id))
	m.searchInput.SetValue("")
	if id != "" {
		m.router.Push(nav.FolderHref(id, store.RootPathname))
	}
	m.updateState(func(st *state.State) { st.CurrentSpace = id })
}

// switchSpace makes id current and loads it.
func (m *Model) switchSpace(id string) error {
	m.setSpace(id)
	if err := m.loadSnapshot(); err != nil {
		return err
	}
	m.cursor, m.scroll = 0, 0
	m.refresh()
	return nil
}

// inputs gathers everything the composer reads.
func (m *Model) inputs() sidebar.Inputs {
	st := m.state.Get()
	return sidebar.Inputs{
		Snapshot:      m.snapshot,
		Spaces:        m.spaces,
		Teams:         st.BoostHubTeams,
		CloudUser:     st.CloudUser,
		CurrentSpace:  m.currentSpace,
		CurrentPath:   m.router.Pathname(),
		History:       m.router.History(),
		Panel:         m.panel,
		SpacesOpen:    m.spacesOpen,
		Sort:          m.sort,
		Collapse:      m.collapse,
		Search:        m.search,
		Drag:          m.drag,
		Commands:      m.actions,
		Translator:    m.tr,
		TimelineLimit: m.cfg.Sidebar.TimelineLimit,
		HistoryLimit:  m.cfg.Sidebar.HistoryLimit,
		Platform:      m.platform,
	}
}

// refresh recomposes the sidebar and rebuilds the selectable items,
// keeping the cursor on the same item when it still exists.
func (m *Model) refresh() {
	var prev string
	if m.cursor >= 0 && m.cursor < len(m.items) {
		prev = m.items[m.cursor].key()
	}
	m.view = m.composer.Compose(m.inputs())
	m.items = buildItems(m.view)

	if prev != "" {
		for i, it := range m.items {
			if it.key() == prev {
				m.cursor = i
				break
			}
		}
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.items) {
		m.cursor = len(m.items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	h := m.listHeight()
	if h <= 0 {
		return
	}
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+h {
		m.scroll = m.cursor - h + 1
	}
	if maxScroll := max(len(m.items)-h, 0); m.scroll > maxScroll {
		m.scroll = maxScroll
	}
}

// selected returns the item under the cursor.
func (m *Model) selected() (item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return item{}, false
	}
	return m.items[m.cursor], true
}

// showToast sets the footer status and schedules its expiry.
func (m *Model) showToast(t appmsg.ToastMsg) tea.Cmd {
	m.toastSeq++
	m.toast = t.Message
	m.toastIsErr = t.IsError
	seq := m.toastSeq
	d := t.Duration
	if d <= 0 {
		d = 2 * time.Second
	}
	return tea.Tick(d, func(time.Time) tea.Msg { return toastExpiredMsg{seq: seq} })
}

type toastExpiredMsg struct{ seq int }
