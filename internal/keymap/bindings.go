package keymap

// Command identifies an action a key can trigger.
type Command string

const (
	CmdQuit       Command = "quit"
	CmdHelp       Command = "toggle-help"
	CmdRefresh    Command = "refresh"
	CmdBack       Command = "back"
	CmdCursorDown Command = "cursor-down"
	CmdCursorUp   Command = "cursor-up"
	CmdCursorTop  Command = "cursor-top"
	CmdCursorEnd  Command = "cursor-bottom"
	CmdSelect     Command = "select"

	CmdToggleFold Command = "toggle-fold"
	CmdFold       Command = "fold"
	CmdUnfold     Command = "unfold"

	CmdSpaces    Command = "toggle-spaces"
	CmdTree      Command = "panel-tree"
	CmdSearch    Command = "panel-search"
	CmdTimeline  Command = "panel-timeline"
	CmdNextPanel Command = "next-panel"
	CmdCycleSort Command = "cycle-sort"

	CmdNewNote    Command = "new-note"
	CmdNewFolder  Command = "new-folder"
	CmdRename     Command = "rename"
	CmdDelete     Command = "delete"
	CmdBookmark   Command = "toggle-bookmark"
	CmdArchive    Command = "toggle-archive"
	CmdMove       Command = "move"
	CmdCopyLink   Command = "copy-link"
	CmdEdit       Command = "edit"
	CmdPreview    Command = "toggle-preview"
	CmdNarrow     Command = "narrow-sidebar"
	CmdWiden      Command = "widen-sidebar"
	CmdSpace1     Command = "switch-space-1"
	CmdSpace9     Command = "switch-space-9"
	CmdConfirm    Command = "confirm"
	CmdCancel     Command = "cancel"
)

// Contexts a binding can apply in.
const (
	ContextGlobal  = "global"
	ContextSidebar = "sidebar"
	ContextSearch  = "search"
	ContextPrompt  = "prompt"
	ContextConfirm = "confirm"
)

// Binding maps a key to a command within a context.
type Binding struct {
	Key     string
	Command Command
	Context string
	Help    string // empty hides the binding from the help overlay
}

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	b := []Binding{
		// Global bindings
		{Key: "ctrl+c", Command: CmdQuit, Context: ContextGlobal, Help: "quit"},

		// Sidebar
		{Key: "q", Command: CmdQuit, Context: ContextSidebar, Help: "quit"},
		{Key: "?", Command: CmdHelp, Context: ContextSidebar, Help: "help"},
		{Key: "R", Command: CmdRefresh, Context: ContextSidebar, Help: "reload"},
		{Key: "esc", Command: CmdBack, Context: ContextSidebar, Help: "cancel move"},
		{Key: "j", Command: CmdCursorDown, Context: ContextSidebar, Help: "down"},
		{Key: "down", Command: CmdCursorDown, Context: ContextSidebar},
		{Key: "k", Command: CmdCursorUp, Context: ContextSidebar, Help: "up"},
		{Key: "up", Command: CmdCursorUp, Context: ContextSidebar},
		{Key: "g", Command: CmdCursorTop, Context: ContextSidebar, Help: "top"},
		{Key: "home", Command: CmdCursorTop, Context: ContextSidebar},
		{Key: "G", Command: CmdCursorEnd, Context: ContextSidebar, Help: "bottom"},
		{Key: "end", Command: CmdCursorEnd, Context: ContextSidebar},
		{Key: "enter", Command: CmdSelect, Context: ContextSidebar, Help: "open"},
		{Key: " ", Command: CmdToggleFold, Context: ContextSidebar, Help: "fold/unfold"},
		{Key: "h", Command: CmdFold, Context: ContextSidebar, Help: "fold"},
		{Key: "left", Command: CmdFold, Context: ContextSidebar},
		{Key: "l", Command: CmdUnfold, Context: ContextSidebar, Help: "unfold"},
		{Key: "right", Command: CmdUnfold, Context: ContextSidebar},
		{Key: "s", Command: CmdSpaces, Context: ContextSidebar, Help: "spaces"},
		{Key: "t", Command: CmdTree, Context: ContextSidebar, Help: "tree"},
		{Key: "/", Command: CmdSearch, Context: ContextSidebar, Help: "search"},
		{Key: "T", Command: CmdTimeline, Context: ContextSidebar, Help: "timeline"},
		{Key: "tab", Command: CmdNextPanel, Context: ContextSidebar, Help: "next panel"},
		{Key: "S", Command: CmdCycleSort, Context: ContextSidebar, Help: "sort order"},
		{Key: "n", Command: CmdNewNote, Context: ContextSidebar, Help: "new doc"},
		{Key: "N", Command: CmdNewFolder, Context: ContextSidebar, Help: "new folder"},
		{Key: "r", Command: CmdRename, Context: ContextSidebar, Help: "rename"},
		{Key: "D", Command: CmdDelete, Context: ContextSidebar, Help: "delete"},
		{Key: "b", Command: CmdBookmark, Context: ContextSidebar, Help: "bookmark"},
		{Key: "a", Command: CmdArchive, Context: ContextSidebar, Help: "archive"},
		{Key: "m", Command: CmdMove, Context: ContextSidebar, Help: "move / drop"},
		{Key: "y", Command: CmdCopyLink, Context: ContextSidebar, Help: "copy link"},
		{Key: "e", Command: CmdEdit, Context: ContextSidebar, Help: "edit in $EDITOR"},
		{Key: "p", Command: CmdPreview, Context: ContextSidebar, Help: "preview"},
		{Key: "[", Command: CmdNarrow, Context: ContextSidebar, Help: "narrow"},
		{Key: "]", Command: CmdWiden, Context: ContextSidebar, Help: "widen"},

		// Search box
		{Key: "esc", Command: CmdBack, Context: ContextSearch, Help: "leave search"},
		{Key: "enter", Command: CmdSelect, Context: ContextSearch, Help: "open first result"},
		{Key: "down", Command: CmdCursorDown, Context: ContextSearch},
		{Key: "up", Command: CmdCursorUp, Context: ContextSearch},

		// Text prompts (rename, new doc, new folder, new space)
		{Key: "enter", Command: CmdConfirm, Context: ContextPrompt, Help: "save"},
		{Key: "esc", Command: CmdCancel, Context: ContextPrompt, Help: "cancel"},

		// Confirmation dialog
		{Key: "y", Command: CmdConfirm, Context: ContextConfirm, Help: "confirm"},
		{Key: "enter", Command: CmdConfirm, Context: ContextConfirm},
		{Key: "n", Command: CmdCancel, Context: ContextConfirm, Help: "cancel"},
		{Key: "esc", Command: CmdCancel, Context: ContextConfirm},
	}
	for i := 1; i <= 9; i++ {
		b = append(b, Binding{Key: string(rune('0' + i)), Command: SpaceShortcut(i), Context: ContextSidebar})
	}
	return b
}

// SpaceShortcut is the command switching to the n-th space (1-9).
func SpaceShortcut(n int) Command {
	return Command("switch-space-" + string(rune('0'+n)))
}

// SpaceIndex returns the zero-based space index of a SpaceShortcut command.
func SpaceIndex(c Command) (int, bool) {
	if len(c) != len(CmdSpace1) || c[:len(c)-1] != CmdSpace1[:len(CmdSpace1)-1] {
		return 0, false
	}
	n := int(c[len(c)-1] - '1')
	if n < 0 || n > 8 {
		return 0, false
	}
	return n, true
}
