// Package sidebar derives the sidebar view model: the toolbar, the space
// list, the folder tree with its bookmark and label sections, the search
// box and the history and timeline rows.
//
// The expand state (CollapseStore), the search box (Debouncer) and the
// current drag (DragReducer) own their state. Everything else is derived by
// Composer.Compose, a pure function of Inputs that never writes to them.
// Mutations go through the owning component or a row's RowCommands, and the
// next Compose reflects them.
package sidebar

import (
	"fmt"
	"slices"

	"github.com/marcus/sidenote/internal/i18n"
	"github.com/marcus/sidenote/internal/nav"
	"github.com/marcus/sidenote/internal/state"
	"github.com/marcus/sidenote/internal/store"
)

const (
	defaultTimelineLimit = 10
	defaultHistoryLimit  = 10
)

// Inputs is everything a compose reads. Snapshot.Revision must change
// whenever the snapshot's contents do; the components report their own
// versions.
type Inputs struct {
	Snapshot     *store.Snapshot // nil when no space is selected
	Spaces       []store.Space
	Teams        []state.Team
	CloudUser    *state.CloudUser
	CurrentSpace string
	CurrentPath  string
	History      []string

	Panel      Panel
	SpacesOpen bool
	Sort       SortOrder

	Collapse *CollapseStore
	Search   *Debouncer
	Drag     *DragReducer
	Commands CommandBinder

	Translator    *i18n.Translator
	TimelineLimit int
	HistoryLimit  int
	Platform      string
}

// Snapshot is the immutable view model handed to the render layer.
type Snapshot struct {
	Panel      Panel
	SpacesOpen bool

	Toolbar      []ToolbarRow
	Spaces       []SpaceRow
	Tree         []TreeRow
	Sections     []Section // bookmarks then labels, each only when non-empty
	TreeControls []SortOption
	Search       SearchState
	History      []LinkRow
	Timeline     []LinkRow
	BottomRows   []ActionRow

	Fingerprint uint64
}

// Composer memoizes the last snapshot by input fingerprint.
type Composer struct {
	last *Snapshot
}

// Compose returns the snapshot for in. When no input version changed since
// the previous call, the previous snapshot is returned as is.
func (c *Composer) Compose(in Inputs) *Snapshot {
	fp := inputFingerprint(in)
	if c.last != nil && c.last.Fingerprint == fp {
		return c.last
	}
	snap := compose(in)
	snap.Fingerprint = fp
	c.last = snap
	return snap
}

// Invalidate drops the memoized snapshot.
func (c *Composer) Invalidate() { c.last = nil }

func compose(in Inputs) *Snapshot {
	tr := in.Translator
	var drag *DragPayload
	if in.Drag != nil {
		drag = in.Drag.Payload()
	}
	var collapse CollapseReader
	if in.Collapse != nil {
		collapse = in.Collapse
	}

	treeIn := TreeInput{
		Snapshot:    in.Snapshot,
		Collapse:    collapse,
		Sort:        in.Sort,
		CurrentPath: in.CurrentPath,
		Drag:        drag,
		Commands:    in.Commands,
		Untitled:    tr.T(i18n.SidebarUntitled),
	}

	snap := &Snapshot{
		Panel:        in.Panel,
		SpacesOpen:   in.SpacesOpen,
		Toolbar:      toolbarRows(tr, in.Panel, in.SpacesOpen),
		Spaces:       spaceRows(in.Spaces, in.Teams, in.CurrentSpace, in.CurrentPath, in.Platform),
		Tree:         BuildTree(treeIn),
		TreeControls: sortOptions(tr, in.Sort),
		History:      historyRows(in, treeIn.Untitled),
		Timeline:     timelineRows(in, treeIn.Untitled),
		BottomRows:   bottomRows(tr, in.CloudUser),
	}

	if rows := BuildBookmarks(treeIn); len(rows) > 0 {
		snap.Sections = append(snap.Sections, section(SectionBookmarks, tr.T(i18n.SidebarBookmarks), rows, collapse))
	}
	if rows := BuildLabels(treeIn); len(rows) > 0 {
		snap.Sections = append(snap.Sections, section(SectionLabels, tr.T(i18n.SidebarLabels), rows, collapse))
	}

	if in.Search != nil {
		snap.Search = SearchState{
			Raw:        in.Search.Raw(),
			Query:      in.Search.Query(),
			Pending:    in.Search.Pending(),
			Debouncing: in.Search.Debouncing(),
			Results:    slices.Clone(in.Search.Results()),
		}
		for i := range snap.Search.Results {
			snap.Search.Results[i].Label = orUntitled(snap.Search.Results[i].Label, treeIn.Untitled)
		}
	}
	return snap
}

func section(key, label string, rows []TreeRow, collapse CollapseReader) Section {
	s := Section{Header: sectionHeader(key, label, collapse)}
	if s.Header.Expanded {
		s.Rows = rows
	}
	return s
}

func orUntitled(label, untitled string) string {
	if label == "" {
		return untitled
	}
	return label
}

// timelineRows lists non-archived notes, most recently updated first.
func timelineRows(in Inputs, untitled string) []LinkRow {
	rows := []LinkRow{}
	if in.Snapshot == nil {
		return rows
	}
	limit := in.TimelineLimit
	if limit <= 0 {
		limit = defaultTimelineLimit
	}

	notes := make([]store.Note, 0, len(in.Snapshot.Notes))
	for _, n := range in.Snapshot.Notes {
		if !n.Archived {
			notes = append(notes, n)
		}
	}
	sortItems(notes, SortLastUpdated, func(n store.Note) sortItem {
		return sortItem{updatedAt: n.UpdatedAt, seq: n.Seq}
	})
	if len(notes) > limit {
		notes = notes[:limit]
	}

	spaceID := in.Snapshot.Space.ID
	for _, n := range notes {
		href := nav.NoteHref(spaceID, n.FolderPathname, n.ID)
		rows = append(rows, LinkRow{
			ID:     n.ID,
			Label:  noteLabel(n, untitled),
			Href:   href,
			Detail: n.UpdatedAt.Local().Format("2006-01-02 15:04"),
			Active: href == in.CurrentPath,
		})
	}
	return rows
}

// historyRows maps visited note routes of the current space to rows,
// skipping notes that no longer exist or are archived.
func historyRows(in Inputs, untitled string) []LinkRow {
	rows := []LinkRow{}
	if in.Snapshot == nil {
		return rows
	}
	limit := in.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	seen := make(map[string]bool)
	for _, p := range in.History {
		if len(rows) >= limit {
			break
		}
		r := nav.ParseRoute(p)
		if r.Kind != nav.RouteNote || r.SpaceID != in.Snapshot.Space.ID || seen[r.NoteID] {
			continue
		}
		n, ok := in.Snapshot.Notes[r.NoteID]
		if !ok || n.Archived {
			continue
		}
		seen[r.NoteID] = true
		href := nav.NoteHref(n.SpaceID, n.FolderPathname, n.ID)
		rows = append(rows, LinkRow{
			ID:     n.ID,
			Label:  noteLabel(n, untitled),
			Href:   href,
			Detail: n.FolderPathname,
			Active: href == in.CurrentPath,
		})
	}
	return rows
}

func inputFingerprint(in Inputs) uint64 {
	fp := newFingerprint()

	if in.Snapshot != nil {
		fp.str(fmt.Sprintf("%p", in.Snapshot))
		fp.str(in.Snapshot.Space.ID)
		fp.int(in.Snapshot.Revision)
	} else {
		fp.str("")
	}
	fp.uint(uint64(len(in.Spaces)))
	for _, sp := range in.Spaces {
		fp.str(sp.ID)
		fp.str(sp.Name)
	}
	fp.uint(uint64(len(in.Teams)))
	for _, t := range in.Teams {
		fp.str(t.ID)
		fp.str(t.Name)
		fp.str(t.Domain)
		fp.str(t.IconURL)
	}
	fp.bool(in.CloudUser != nil)
	fp.str(in.CurrentSpace)
	fp.str(in.CurrentPath)
	fp.uint(uint64(len(in.History)))
	for _, h := range in.History {
		fp.str(h)
	}

	fp.str(string(in.Panel))
	fp.bool(in.SpacesOpen)
	fp.str(string(in.Sort))

	if in.Collapse != nil {
		fp.str(fmt.Sprintf("%p", in.Collapse))
		fp.uint(in.Collapse.Version())
	}
	if in.Search != nil {
		fp.str(fmt.Sprintf("%p", in.Search))
		fp.uint(in.Search.Generation())
	}
	if in.Drag != nil {
		fp.str(fmt.Sprintf("%p", in.Drag))
		fp.uint(in.Drag.Generation())
	}
	if in.Commands != nil {
		fp.str(fmt.Sprintf("%T %p", in.Commands, in.Commands))
	}

	if in.Translator != nil {
		fp.str(in.Translator.Tag().String())
	}
	fp.int(int64(in.TimelineLimit))
	fp.int(int64(in.HistoryLimit))
	fp.str(in.Platform)
	return fp.sum()
}
