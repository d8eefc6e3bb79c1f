package sidebar

import (
	"strconv"

	"github.com/marcus/sidenote/internal/i18n"
	"github.com/marcus/sidenote/internal/nav"
	"github.com/marcus/sidenote/internal/state"
	"github.com/marcus/sidenote/internal/store"
)

// Panel is the sidebar content shown below the toolbar.
type Panel string

const (
	PanelNone     Panel = ""
	PanelTree     Panel = "tree"
	PanelSearch   Panel = "search"
	PanelTimeline Panel = "timeline"
)

// ParsePanel maps a persisted value to a Panel; unknown values close the
// panel.
func ParsePanel(s string) Panel {
	switch p := Panel(s); p {
	case PanelTree, PanelSearch, PanelTimeline:
		return p
	}
	return PanelNone
}

// OpenPanel returns the panel after selecting p: the active panel closes,
// any other opens.
func OpenPanel(current, p Panel) Panel {
	if current == p {
		return PanelNone
	}
	return p
}

// ToolbarItem is one toolbar button.
type ToolbarItem int

const (
	ToolbarSpaces ToolbarItem = iota
	ToolbarTree
	ToolbarSearch
	ToolbarTimeline
)

// Panel returns the panel the item opens; ToolbarSpaces opens none.
func (t ToolbarItem) Panel() Panel {
	switch t {
	case ToolbarTree:
		return PanelTree
	case ToolbarSearch:
		return PanelSearch
	case ToolbarTimeline:
		return PanelTimeline
	}
	return PanelNone
}

type ToolbarRow struct {
	Item   ToolbarItem
	Label  string
	Active bool
}

// SpaceRow is a local space or a remote team in the space list.
type SpaceRow struct {
	ID       string
	Label    string
	Href     string
	IconURL  string
	Shortcut string
	Remote   bool
	Active   bool
}

// LinkRow is a history or timeline entry.
type LinkRow struct {
	ID     string
	Label  string
	Href   string
	Detail string
	Active bool
}

type SortOption struct {
	Order  SortOrder
	Label  string
	Active bool
}

// Action is a bottom-row command.
type Action int

const (
	ActionCreateSpace Action = iota
	ActionSignIn
	ActionSignOut
)

type ActionRow struct {
	Action Action
	Label  string
}

// Section is a collapsible group of rows under a header.
type Section struct {
	Header TreeRow
	Rows   []TreeRow // empty while the header is folded
}

// SearchState is the search box as rendered.
type SearchState struct {
	Raw        string
	Query      ParsedQuery
	Pending    bool
	Debouncing bool
	Results    []SearchResult
}

func toolbarRows(tr *i18n.Translator, panel Panel, spacesOpen bool) []ToolbarRow {
	return []ToolbarRow{
		{Item: ToolbarSpaces, Label: tr.T(i18n.SidebarSpaces), Active: spacesOpen},
		{Item: ToolbarTree, Label: tr.T(i18n.SidebarTree), Active: panel == PanelTree},
		{Item: ToolbarSearch, Label: tr.T(i18n.SidebarSearch), Active: panel == PanelSearch},
		{Item: ToolbarTimeline, Label: tr.T(i18n.SidebarTimeline), Active: panel == PanelTimeline},
	}
}

func shortcutModifier(platform string) string {
	if platform == "darwin" {
		return "⌘"
	}
	return "Ctrl"
}

// spaceRows lists local spaces then remote teams, numbering shortcuts 1-9
// across both.
func spaceRows(spaces []store.Space, teams []state.Team, currentSpace, currentPath, platform string) []SpaceRow {
	route := nav.ParseRoute(currentPath)
	localRoute := route.Kind != nav.RouteTeam && route.Kind != nav.RouteLogin
	mod := shortcutModifier(platform)

	rows := make([]SpaceRow, 0, len(spaces)+len(teams))
	shortcut := func() string {
		n := len(rows) + 1
		if n > 9 {
			return ""
		}
		return mod + " " + strconv.Itoa(n)
	}
	for _, sp := range spaces {
		rows = append(rows, SpaceRow{
			ID:       sp.ID,
			Label:    sp.Name,
			Href:     nav.FolderHref(sp.ID, store.RootPathname),
			Shortcut: shortcut(),
			Active:   localRoute && sp.ID == currentSpace,
		})
	}
	for _, t := range teams {
		href := nav.TeamHref(t.Domain)
		rows = append(rows, SpaceRow{
			ID:       t.ID,
			Label:    t.Name,
			Href:     href,
			IconURL:  t.IconURL,
			Shortcut: shortcut(),
			Remote:   true,
			Active:   currentPath == href,
		})
	}
	return rows
}

func sortOptions(tr *i18n.Translator, current SortOrder) []SortOption {
	labels := map[SortOrder]i18n.Key{
		SortLastUpdated: i18n.SortLastUpdated,
		SortAZ:          i18n.SortAZ,
		SortZA:          i18n.SortZA,
		SortDragDrop:    i18n.SortDragDrop,
	}
	opts := make([]SortOption, 0, len(SortOrders))
	for _, o := range SortOrders {
		opts = append(opts, SortOption{Order: o, Label: tr.T(labels[o]), Active: o == current})
	}
	return opts
}

func bottomRows(tr *i18n.Translator, user *state.CloudUser) []ActionRow {
	rows := []ActionRow{{Action: ActionCreateSpace, Label: tr.T(i18n.SidebarCreateSpace)}}
	if user == nil {
		return append(rows, ActionRow{Action: ActionSignIn, Label: tr.T(i18n.GeneralSignin)})
	}
	return append(rows, ActionRow{Action: ActionSignOut, Label: tr.T(i18n.SidebarSignOutTeam)})
}

func sectionHeader(key, label string, collapse CollapseReader) TreeRow {
	ck := CollapseKey{Type: CollapseLink, Key: key}
	return TreeRow{
		ID:          key,
		Kind:        RowSection,
		Label:       label,
		CollapseKey: ck,
		Expandable:  true,
		Expanded:    collapse != nil && collapse.IsOpened(ck.Type, ck.Key),
	}
}
