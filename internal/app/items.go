package app

import (
	"strconv"

	"github.com/marcus/sidenote/internal/nav"
	"github.com/marcus/sidenote/internal/sidebar"
)

type itemKind int

const (
	itemSpace itemKind = iota
	itemTree
	itemResult
	itemLink
	itemAction
)

// item is one selectable sidebar line.
type item struct {
	kind    itemKind
	section string // section key of bookmark and label rows
	space   sidebar.SpaceRow
	row     sidebar.TreeRow
	result  sidebar.SearchResult
	link    sidebar.LinkRow
	action  sidebar.ActionRow
}

// key identifies the item across recomposes.
func (it item) key() string {
	switch it.kind {
	case itemSpace:
		return "space:" + it.space.ID
	case itemTree:
		return "tree:" + it.section + "/" + it.row.ID
	case itemResult:
		return "result:" + it.result.NoteID
	case itemLink:
		return "link:" + it.link.ID
	default:
		return "action:" + strconv.Itoa(int(it.action.Action))
	}
}

// href is where selecting the item navigates, if anywhere.
func (it item) href() string {
	switch it.kind {
	case itemSpace:
		return it.space.Href
	case itemTree:
		return it.row.Href
	case itemResult:
		return it.result.Href
	case itemLink:
		return it.link.Href
	}
	return ""
}

// noteID returns the note the item addresses.
func (it item) noteID() (string, bool) {
	switch it.kind {
	case itemTree:
		if it.row.Kind == sidebar.RowNote {
			return it.row.ID, true
		}
	case itemResult:
		return it.result.NoteID, true
	case itemLink:
		return it.link.ID, true
	}
	return "", false
}

// buildItems flattens a snapshot into the selectable lines: the space list
// when open, the open panel's rows, then the bottom actions. Without an
// open panel the history rows are listed.
func buildItems(s *sidebar.Snapshot) []item {
	var items []item
	if s.SpacesOpen {
		for _, sp := range s.Spaces {
			items = append(items, item{kind: itemSpace, space: sp})
		}
	}

	switch s.Panel {
	case sidebar.PanelTree:
		for _, r := range s.Tree {
			items = append(items, item{kind: itemTree, row: r})
		}
		for _, sec := range s.Sections {
			items = append(items, item{kind: itemTree, row: sec.Header})
			for _, r := range sec.Rows {
				items = append(items, item{kind: itemTree, section: sec.Header.ID, row: r})
			}
		}
	case sidebar.PanelSearch:
		for _, r := range s.Search.Results {
			items = append(items, item{kind: itemResult, result: r})
		}
	case sidebar.PanelTimeline:
		for _, l := range s.Timeline {
			items = append(items, item{kind: itemLink, link: l})
		}
	default:
		for _, l := range s.History {
			items = append(items, item{kind: itemLink, link: l})
		}
	}

	for _, a := range s.BottomRows {
		items = append(items, item{kind: itemAction, action: a})
	}
	return items
}

// parentIndex returns the closest preceding tree item with a smaller depth.
func parentIndex(items []item, i int) (int, bool) {
	if i < 0 || i >= len(items) || items[i].kind != itemTree {
		return 0, false
	}
	depth := items[i].row.Depth
	for j := i - 1; j >= 0; j-- {
		if items[j].kind != itemTree {
			return 0, false
		}
		if items[j].row.Depth < depth {
			return j, true
		}
	}
	return 0, false
}

// routeNoteID extracts the note a pathname points at.
func routeNoteID(pathname string) (string, bool) {
	r := nav.ParseRoute(pathname)
	if r.Kind != nav.RouteNote {
		return "", false
	}
	return r.NoteID, true
}
