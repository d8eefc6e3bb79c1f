package app

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/sidenote/internal/auth"
	"github.com/marcus/sidenote/internal/i18n"
	"github.com/marcus/sidenote/internal/keymap"
	appmsg "github.com/marcus/sidenote/internal/msg"
	"github.com/marcus/sidenote/internal/nav"
	"github.com/marcus/sidenote/internal/sidebar"
	"github.com/marcus/sidenote/internal/state"
	"github.com/marcus/sidenote/internal/store"
	"github.com/marcus/sidenote/internal/ui"
)

const widthStep = 2

// editorDoneMsg reports that the external editor exited.
type editorDoneMsg struct {
	noteID   string
	path     string
	original string
	err      error
}

// Update handles all messages and routes them appropriately.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case appmsg.ToastMsg:
		return m, m.showToast(msg)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
			m.toastIsErr = false
		}
		return m, nil

	case appmsg.StoreChangedMsg:
		if err := m.reload(false); err != nil {
			m.logger.Warn("reload after store change", "err", err)
		}
		return m, m.listenStore()

	case sidebar.SearchDebounceMsg:
		cmd := m.search.Fire(msg)
		m.refresh()
		return m, cmd

	case sidebar.SearchResultsMsg:
		cmd := m.search.Resolve(msg)
		m.refresh()
		return m, cmd

	case auth.ProfileMsg:
		return m.handleProfile(msg)

	case appmsg.FocusTitleMsg:
		return m, m.openTitlePrompt(msg.NoteID)

	case editorDoneMsg:
		return m.handleEditorDone(msg)
	}
	return m, nil
}

// handleKeyMsg routes a key press to the focused part of the UI.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusHelp:
		if cmd, ok := m.keys.Lookup(msg, keymap.ContextGlobal); ok && cmd == keymap.CmdQuit {
			return m.quit()
		}
		m.focus = focusSidebar
		return m, nil
	case focusConfirm:
		return m.handleConfirmKey(msg)
	case focusPrompt:
		return m.handlePromptKey(msg)
	case focusSearch:
		return m.handleSearchKey(msg)
	}

	cmd, ok := m.keys.Lookup(msg, keymap.ContextSidebar)
	if !ok {
		return m, nil
	}
	return m.runCommand(cmd)
}

func (m Model) runCommand(cmd keymap.Command) (tea.Model, tea.Cmd) {
	switch cmd {
	case keymap.CmdQuit:
		return m.quit()
	case keymap.CmdHelp:
		m.focus = focusHelp
	case keymap.CmdRefresh:
		var cmds []tea.Cmd
		if err := m.reload(true); err != nil {
			cmds = append(cmds, appmsg.ShowError(err))
		}
		if m.auth != nil {
			cmds = append(cmds, m.auth.SyncCmd(m.token))
		}
		return m, tea.Batch(cmds...)
	case keymap.CmdBack:
		if _, dragging := m.drag.Dragging(); dragging {
			m.drag.Cancel()
		} else if m.spacesOpen {
			m.spacesOpen = false
		}
		m.refresh()

	case keymap.CmdCursorDown:
		m.moveCursor(1)
	case keymap.CmdCursorUp:
		m.moveCursor(-1)
	case keymap.CmdCursorTop:
		m.cursor = 0
		m.clampCursor()
	case keymap.CmdCursorEnd:
		m.cursor = len(m.items) - 1
		m.clampCursor()
	case keymap.CmdSelect:
		return m.selectItem()

	case keymap.CmdToggleFold:
		m.toggleFold()
	case keymap.CmdFold:
		m.fold()
	case keymap.CmdUnfold:
		m.unfold()

	case keymap.CmdSpaces:
		m.spacesOpen = !m.spacesOpen
		m.refresh()
	case keymap.CmdTree:
		m.setPanel(sidebar.OpenPanel(m.panel, sidebar.PanelTree))
	case keymap.CmdTimeline:
		m.setPanel(sidebar.OpenPanel(m.panel, sidebar.PanelTimeline))
	case keymap.CmdSearch:
		if m.panel != sidebar.PanelSearch {
			m.setPanel(sidebar.PanelSearch)
		}
		m.focus = focusSearch
		return m, m.searchInput.Focus()
	case keymap.CmdNextPanel:
		m.setPanel(nextPanel(m.panel))
	case keymap.CmdCycleSort:
		m.cycleSort()

	case keymap.CmdNewNote:
		return m.newNote()
	case keymap.CmdNewFolder:
		return m, m.openNewFolderPrompt()
	case keymap.CmdRename:
		return m, m.openRenamePrompt()
	case keymap.CmdDelete:
		return m, m.confirmDelete()
	case keymap.CmdBookmark:
		return m, m.rowCommand(sidebar.RowCommands.ToggleBookmark)
	case keymap.CmdArchive:
		return m, m.rowCommand(sidebar.RowCommands.ToggleArchive)
	case keymap.CmdMove:
		return m, m.move()
	case keymap.CmdCopyLink:
		return m, m.copyLink()
	case keymap.CmdEdit:
		return m, m.editNote()
	case keymap.CmdPreview:
		m.showPreview = !m.showPreview
	case keymap.CmdNarrow:
		m.resize(-widthStep)
	case keymap.CmdWiden:
		m.resize(widthStep)

	default:
		if i, ok := keymap.SpaceIndex(cmd); ok {
			return m, m.switchToSpaceIndex(i)
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.search.Close()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

// focusKey moves the cursor to the item with key, if listed.
func (m *Model) focusKey(key string) {
	for i, it := range m.items {
		if it.key() == key {
			m.cursor = i
			m.clampCursor()
			return
		}
	}
}

// applied reloads after a store write and reports err as a toast.
func (m *Model) applied(err error) tea.Cmd {
	if rerr := m.reload(true); rerr != nil {
		m.logger.Error("reload after write", "err", rerr)
		if err == nil {
			err = rerr
		}
	}
	if err != nil {
		return appmsg.ShowError(err)
	}
	return nil
}

// dropped is applied for drag-and-drop results. Rejected drops (a cycle,
// a drop onto itself or a name collision) are silent: the reducer has
// already logged them and cleared the drag.
func (m *Model) dropped(err error) tea.Cmd {
	if errors.Is(err, store.ErrCycle) || errors.Is(err, sidebar.ErrSelfDrop) || errors.Is(err, store.ErrExists) {
		err = nil
	}
	return m.applied(err)
}

// navigate moves the router to href. A "new" hash is consumed right away
// and turned into a request to focus the note title.
func (m *Model) navigate(href string) tea.Cmd {
	if href == "" {
		return nil
	}
	m.router.Push(href)
	if m.router.Hash() != nav.NewHash {
		return nil
	}
	m.router.PushHash("")
	if id, ok := routeNoteID(m.router.Pathname()); ok {
		return appmsg.FocusTitle(id)
	}
	return nil
}

func (m Model) selectItem() (tea.Model, tea.Cmd) {
	it, ok := m.selected()
	if !ok {
		return m, nil
	}
	_, dragging := m.drag.Dragging()

	switch it.kind {
	case itemSpace:
		if it.space.Remote {
			m.navigate(it.space.Href)
			m.refresh()
			return m, nil
		}
		if dragging {
			return m, m.dropped(m.drag.DropInWorkspace(it.space.ID))
		}
		if err := m.switchSpace(it.space.ID); err != nil {
			return m, appmsg.ShowError(err)
		}
		// Switching to the current space from another route still navigates.
		m.navigate(it.space.Href)
		m.refresh()
		return m, nil

	case itemTree:
		r := it.row
		if r.Kind == sidebar.RowSection {
			m.collapse.Toggle(r.CollapseKey.Type, r.CollapseKey.Key)
			m.refresh()
			return m, nil
		}
		if dragging && r.Commands != nil {
			return m, m.dropped(r.Commands.AcceptDrop())
		}
		cmd := m.navigate(r.Href)
		if r.Kind == sidebar.RowFolder && r.Expandable && !r.Expanded {
			m.collapse.Unfold(r.CollapseKey.Type, r.CollapseKey.Key)
		}
		m.refresh()
		return m, cmd

	case itemResult, itemLink:
		cmd := m.navigate(it.href())
		m.refresh()
		return m, cmd

	case itemAction:
		return m.runAction(it.action.Action)
	}
	return m, nil
}

func (m Model) runAction(a sidebar.Action) (tea.Model, tea.Cmd) {
	switch a {
	case sidebar.ActionCreateSpace:
		return m, m.openPrompt(&prompt{kind: promptNewSpace, title: m.tr.T(i18n.StorageNew)}, "")
	case sidebar.ActionSignIn:
		if m.auth == nil || m.token == "" {
			return m, appmsg.ShowError(errors.New("set SIDENOTE_CLOUD_TOKEN to sign in"))
		}
		m.navigate(nav.LoginPath)
		m.refresh()
		return m, m.auth.SyncCmd(m.token)
	case sidebar.ActionSignOut:
		var err error
		if m.auth != nil {
			err = m.auth.SignOut()
		} else {
			err = m.state.Update(func(st *state.State) {
				st.CloudUser = nil
				st.BoostHubTeams = nil
			})
		}
		m.token = ""
		m.refresh()
		if err != nil {
			return m, appmsg.ShowError(err)
		}
		return m, appmsg.ShowToast(m.tr.T(i18n.GeneralSignout), 2*time.Second)
	}
	return m, nil
}

func (m Model) handleProfile(msg auth.ProfileMsg) (tea.Model, tea.Cmd) {
	if m.router.Route().Kind == nav.RouteLogin && m.currentSpace != "" {
		m.navigate(nav.FolderHref(m.currentSpace, store.RootPathname))
	}
	if msg.Err != nil {
		if errors.Is(msg.Err, auth.ErrUnauthorized) && m.auth != nil {
			if err := m.auth.SignOut(); err != nil {
				m.logger.Warn("sign out", "err", err)
			}
			m.token = ""
		}
		m.refresh()
		return m, appmsg.ShowError(fmt.Errorf("cloud sign-in: %w", msg.Err))
	}
	m.refresh()
	if msg.Profile == nil || msg.Profile.User == nil {
		return m, nil
	}
	return m, appmsg.ShowToast("Signed in as "+msg.Profile.User.DisplayName, 2*time.Second)
}

// Fold handling

func (m *Model) toggleFold() {
	it, ok := m.selected()
	if !ok || it.kind != itemTree || !it.row.Expandable {
		return
	}
	if it.row.Commands != nil {
		it.row.Commands.ToggleFold()
	} else {
		m.collapse.Toggle(it.row.CollapseKey.Type, it.row.CollapseKey.Key)
	}
	m.refresh()
}

// fold closes the row under the cursor, or moves to its parent when the
// row is already closed.
func (m *Model) fold() {
	it, ok := m.selected()
	if !ok || it.kind != itemTree {
		return
	}
	if it.row.Expandable && it.row.Expanded {
		m.collapse.Fold(it.row.CollapseKey.Type, it.row.CollapseKey.Key)
		m.refresh()
		return
	}
	if i, ok := parentIndex(m.items, m.cursor); ok {
		m.cursor = i
		m.clampCursor()
	}
}

// unfold opens the row under the cursor, or steps onto its first child
// when it is already open.
func (m *Model) unfold() {
	it, ok := m.selected()
	if !ok || it.kind != itemTree || !it.row.Expandable {
		return
	}
	if !it.row.Expanded {
		m.collapse.Unfold(it.row.CollapseKey.Type, it.row.CollapseKey.Key)
		m.refresh()
		return
	}
	m.moveCursor(1)
}

// Panels and layout

func (m *Model) setPanel(p sidebar.Panel) {
	m.panel = p
	if p != sidebar.PanelSearch && m.focus == focusSearch {
		m.focus = focusSidebar
		m.searchInput.Blur()
	}
	m.updateState(func(st *state.State) { st.LastSidebarState = string(p) })
	m.refresh()
}

// nextPanel cycles tree, search, timeline and no panel.
func nextPanel(p sidebar.Panel) sidebar.Panel {
	switch p {
	case sidebar.PanelTree:
		return sidebar.PanelSearch
	case sidebar.PanelSearch:
		return sidebar.PanelTimeline
	case sidebar.PanelTimeline:
		return sidebar.PanelNone
	}
	return sidebar.PanelTree
}

func (m *Model) cycleSort() {
	next := sidebar.SortOrders[0]
	for i, o := range sidebar.SortOrders {
		if o == m.sort {
			next = sidebar.SortOrders[(i+1)%len(sidebar.SortOrders)]
			break
		}
	}
	m.sort = next
	m.updateState(func(st *state.State) { st.SidebarTreeSortingOrder = string(next) })
	m.refresh()
}

func (m *Model) resize(delta int) {
	w := m.cfg.ClampWidth(m.sidebarWidth + delta)
	if w == m.sidebarWidth {
		return
	}
	m.sidebarWidth = w
	m.updateState(func(st *state.State) { st.SideBarWidth = w })
}

func (m *Model) switchToSpaceIndex(i int) tea.Cmd {
	if m.view == nil || i >= len(m.view.Spaces) {
		return nil
	}
	row := m.view.Spaces[i]
	if row.Remote {
		m.navigate(row.Href)
		m.refresh()
		return nil
	}
	if err := m.switchSpace(row.ID); err != nil {
		return appmsg.ShowError(err)
	}
	return nil
}

// Search box

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.keys.Lookup(msg, keymap.ContextSearch); ok {
		switch cmd {
		case keymap.CmdQuit:
			return m.quit()
		case keymap.CmdBack, keymap.CmdCursorUp:
			m.blurSearch()
			return m, nil
		case keymap.CmdCursorDown:
			m.blurSearch()
			m.focusFirstResult()
			return m, nil
		case keymap.CmdSelect:
			m.blurSearch()
			if m.focusFirstResult() {
				return m.selectItem()
			}
			return m, nil
		}
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if v := m.searchInput.Value(); v != before {
		cmd = tea.Batch(cmd, m.search.Input(v))
		m.refresh()
	}
	return m, cmd
}

func (m *Model) blurSearch() {
	m.focus = focusSidebar
	m.searchInput.Blur()
}

func (m *Model) focusFirstResult() bool {
	for i, it := range m.items {
		if it.kind == itemResult {
			m.cursor = i
			m.clampCursor()
			return true
		}
	}
	return false
}

// Prompts

func (m *Model) openPrompt(p *prompt, value string) tea.Cmd {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 200
	in.Width = ui.DefaultDialogWidth - 1
	in.Placeholder = m.tr.T(i18n.SidebarUntitled)
	in.SetValue(value)
	in.CursorEnd()
	p.input = in
	m.prompt = p
	m.focus = focusPrompt
	return m.prompt.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = nil
	m.focus = focusSidebar
}

func (m *Model) openTitlePrompt(noteID string) tea.Cmd {
	n, err := m.store.Note(noteID)
	if err != nil {
		return appmsg.ShowError(err)
	}
	return m.openPrompt(&prompt{kind: promptTitle, title: m.tr.T(i18n.SidebarCreateDoc), id: noteID}, n.Title)
}

// targetFolder returns the commands of the folder new items go into: the
// row under the cursor, or the root folder of the current space.
func (m *Model) targetFolder() (sidebar.RowCommands, error) {
	if it, ok := m.selected(); ok && it.kind == itemTree && it.row.Commands != nil &&
		(it.row.Kind == sidebar.RowFolder || it.row.Kind == sidebar.RowNote) {
		return it.row.Commands, nil
	}
	if m.snapshot == nil {
		return nil, errors.New(m.tr.T(i18n.SidebarNoSpace))
	}
	root, ok := m.snapshot.Root()
	if !ok {
		return nil, fmt.Errorf("space %s has no root folder", m.currentSpace)
	}
	key := sidebar.CollapseKey{Type: sidebar.CollapseFolder, Key: root.ID}
	return m.actions.For(sidebar.RowFolder, root.ID, m.currentSpace, key), nil
}

func (m *Model) openNewFolderPrompt() tea.Cmd {
	target, err := m.targetFolder()
	if err != nil {
		return appmsg.ShowError(err)
	}
	return m.openPrompt(&prompt{kind: promptNewFolder, title: m.tr.T(i18n.SidebarCreateFolder), commands: target}, "")
}

// isSpaceRoot reports whether a tree item is the root folder of the space.
func isSpaceRoot(it item) bool {
	return it.kind == itemTree && it.section == "" && it.row.Kind == sidebar.RowFolder && it.row.Depth == 0
}

func (m *Model) openRenamePrompt() tea.Cmd {
	it, ok := m.selected()
	if !ok {
		return nil
	}
	switch {
	case it.kind == itemSpace && !it.space.Remote:
		return m.openPrompt(&prompt{kind: promptRenameSpace, title: m.tr.T(i18n.StorageRename), id: it.space.ID}, it.space.Label)
	case isSpaceRoot(it):
		return m.openPrompt(&prompt{kind: promptRenameSpace, title: m.tr.T(i18n.StorageRename), id: m.currentSpace}, it.row.Label)
	case it.kind == itemTree && it.row.Commands != nil && (it.row.Kind == sidebar.RowFolder || it.row.Kind == sidebar.RowNote):
		value := it.row.Label
		if it.row.Kind == sidebar.RowNote && m.snapshot != nil {
			if n, ok := m.snapshot.Notes[it.row.ID]; ok {
				value = n.Title
			}
		}
		return m.openPrompt(&prompt{kind: promptRename, title: m.tr.T(i18n.SidebarRename), commands: it.row.Commands}, value)
	}
	return appmsg.ShowError(sidebar.ErrUnsupported)
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.keys.Lookup(msg, keymap.ContextPrompt); ok {
		switch cmd {
		case keymap.CmdQuit:
			return m.quit()
		case keymap.CmdCancel:
			m.closePrompt()
			return m, nil
		case keymap.CmdConfirm:
			return m.submitPrompt()
		}
	}
	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	return m, cmd
}

func (m Model) submitPrompt() (tea.Model, tea.Cmd) {
	p := m.prompt
	value := strings.TrimSpace(p.input.Value())
	m.closePrompt()
	if value == "" {
		return m, nil
	}

	var err error
	switch p.kind {
	case promptRename:
		err = p.commands.Rename(value)
	case promptRenameSpace:
		err = m.store.RenameSpace(p.id, value)
	case promptNewFolder:
		var f *store.Folder
		if f, err = p.commands.CreateFolder(value); err == nil {
			cmd := m.applied(nil)
			m.focusKey("tree:/" + f.ID)
			return m, cmd
		}
	case promptNewSpace:
		var sp *store.Space
		if sp, err = m.store.CreateSpace(value); err == nil {
			cmd := m.applied(nil)
			if serr := m.switchSpace(sp.ID); serr != nil {
				return m, appmsg.ShowError(serr)
			}
			return m, cmd
		}
	case promptTitle:
		_, err = m.store.UpdateNote(p.id, store.NoteUpdate{Title: &value})
	}
	return m, m.applied(err)
}

// Row commands

func (m Model) newNote() (tea.Model, tea.Cmd) {
	if m.currentSpace == "" {
		return m, appmsg.ShowError(errors.New(m.tr.T(i18n.SidebarNoSpace)))
	}

	var (
		n    *store.Note
		href string
		err  error
	)
	if it, ok := m.selected(); ok && it.kind == itemTree && it.row.Commands != nil &&
		(it.row.Kind == sidebar.RowFolder || it.row.Kind == sidebar.RowNote) {
		if n, err = it.row.Commands.CreateNote(""); err == nil {
			href = nav.NoteHref(n.SpaceID, n.FolderPathname, n.ID) + "#" + nav.NewHash
		}
	} else {
		n, href, err = m.actions.CreateNoteForRoute(m.currentSpace, m.router.Route(), "")
	}
	if err != nil {
		return m, m.applied(err)
	}

	focus := m.navigate(href)
	cmd := m.applied(nil)
	m.reveal(n.FolderID)
	m.focusKey("tree:/" + n.ID)
	return m, tea.Batch(cmd, focus)
}

// reveal unfolds a folder and all of its ancestors.
func (m *Model) reveal(folderID string) {
	if m.snapshot == nil {
		return
	}
	changed := false
	for id := folderID; id != ""; {
		f, ok := m.snapshot.Folders[id]
		if !ok {
			break
		}
		if !m.collapse.IsOpened(sidebar.CollapseFolder, f.ID) {
			m.collapse.Unfold(sidebar.CollapseFolder, f.ID)
			changed = true
		}
		id = f.ParentID
	}
	if changed {
		m.refresh()
	}
}

func (m *Model) confirmDelete() tea.Cmd {
	it, ok := m.selected()
	if !ok {
		return nil
	}
	switch {
	case it.kind == itemSpace && !it.space.Remote:
		m.askSpaceRemoval(it.space.ID, it.space.Label)
	case isSpaceRoot(it):
		m.askSpaceRemoval(m.currentSpace, it.row.Label)
	case it.kind == itemTree && it.row.Commands != nil && (it.row.Kind == sidebar.RowFolder || it.row.Kind == sidebar.RowNote):
		c := &confirmation{
			title: m.tr.Tf(i18n.SidebarConfirmDelete, it.row.Label),
			run:   it.row.Commands.Delete,
		}
		if it.row.Kind == sidebar.RowFolder {
			c.body = "Its subfolders and notes are deleted too."
		}
		m.confirm = c
		m.focus = focusConfirm
	default:
		return appmsg.ShowError(sidebar.ErrUnsupported)
	}
	return nil
}

func (m *Model) askSpaceRemoval(id, name string) {
	st := m.store
	m.confirm = &confirmation{
		title: m.tr.Tf(i18n.SidebarConfirmDelete, name),
		body:  "Every folder and note in this space is deleted.",
		run:   func() error { return st.RemoveSpace(id) },
	}
	m.focus = focusConfirm
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd, ok := m.keys.Lookup(msg, keymap.ContextConfirm)
	if !ok {
		return m, nil
	}
	switch cmd {
	case keymap.CmdQuit:
		return m.quit()
	case keymap.CmdCancel:
		m.confirm = nil
		m.focus = focusSidebar
	case keymap.CmdConfirm:
		c := m.confirm
		m.confirm = nil
		m.focus = focusSidebar
		if c != nil && c.run != nil {
			return m, m.applied(c.run())
		}
	}
	return m, nil
}

// rowCommand runs fn on the commands of the tree row under the cursor.
func (m *Model) rowCommand(fn func(sidebar.RowCommands) error) tea.Cmd {
	it, ok := m.selected()
	if !ok || it.kind != itemTree || it.row.Commands == nil {
		return appmsg.ShowError(sidebar.ErrUnsupported)
	}
	return m.applied(fn(it.row.Commands))
}

// move starts a drag on the row under the cursor, or drops the current
// drag onto it.
func (m *Model) move() tea.Cmd {
	it, ok := m.selected()
	if _, dragging := m.drag.Dragging(); dragging {
		switch {
		case ok && it.kind == itemSpace && !it.space.Remote:
			return m.dropped(m.drag.DropInWorkspace(it.space.ID))
		case ok && it.kind == itemTree && it.row.Commands != nil && it.row.Kind != sidebar.RowSection:
			return m.dropped(it.row.Commands.AcceptDrop())
		}
		m.drag.Cancel()
		m.refresh()
		return nil
	}

	if !ok || it.kind != itemTree || it.row.Commands == nil || isSpaceRoot(it) ||
		(it.row.Kind != sidebar.RowFolder && it.row.Kind != sidebar.RowNote) {
		return appmsg.ShowError(sidebar.ErrUnsupported)
	}
	it.row.Commands.StartDrag()
	m.refresh()
	return appmsg.ShowToast(m.tr.Tf(i18n.SidebarDragging, it.row.Label), 2*time.Second)
}

func (m *Model) copyLink() tea.Cmd {
	href := m.router.Pathname()
	if it, ok := m.selected(); ok && it.href() != "" {
		href = it.href()
	}
	if href == "" {
		return nil
	}
	if err := clipboard.WriteAll(href); err != nil {
		return func() tea.Msg {
			return appmsg.ToastMsg{Message: "Copy failed: " + err.Error(), Duration: 2 * time.Second, IsError: true}
		}
	}
	return appmsg.ShowToast(m.tr.T(i18n.Copied)+": "+href, 2*time.Second)
}

// previewNoteID is the note shown in the preview pane and opened by edit:
// the note under the cursor, else the routed note.
func (m *Model) previewNoteID() (string, bool) {
	if it, ok := m.selected(); ok {
		if id, ok := it.noteID(); ok {
			return id, true
		}
	}
	return routeNoteID(m.router.Pathname())
}

// editNote opens the note body in $EDITOR and saves it on exit.
func (m *Model) editNote() tea.Cmd {
	id, ok := m.previewNoteID()
	if !ok {
		return nil
	}
	n, err := m.store.Note(id)
	if err != nil {
		return appmsg.ShowError(err)
	}

	f, err := os.CreateTemp("", "sidenote-*.md")
	if err != nil {
		return appmsg.ShowError(err)
	}
	path := f.Name()
	_, err = f.WriteString(n.Content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return appmsg.ShowError(err)
	}

	args := strings.Fields(editorCommand())
	c := exec.Command(args[0], append(args[1:], path)...)
	original := n.Content
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorDoneMsg{noteID: id, path: path, original: original, err: err}
	})
}

func editorCommand() string {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if strings.TrimSpace(editor) == "" {
		editor = "vim"
	}
	return editor
}

func (m Model) handleEditorDone(msg editorDoneMsg) (tea.Model, tea.Cmd) {
	defer os.Remove(msg.path)
	if msg.err != nil {
		return m, appmsg.ShowError(fmt.Errorf("editor: %w", msg.err))
	}
	data, err := os.ReadFile(msg.path)
	if err != nil {
		return m, appmsg.ShowError(err)
	}
	content := string(data)
	if content == msg.original {
		return m, nil
	}
	_, err = m.store.UpdateNote(msg.noteID, store.NoteUpdate{Content: &content})
	return m, m.applied(err)
}
