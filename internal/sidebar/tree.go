package sidebar

import (
	"github.com/marcus/sidenote/internal/nav"
	"github.com/marcus/sidenote/internal/store"
)

// RowKind identifies what a row addresses.
type RowKind int

const (
	RowFolder RowKind = iota
	RowNote
	RowTag
	RowSection
)

// Section keys, in the link collapse namespace.
const (
	SectionBookmarks = "bookmarks"
	SectionLabels    = "labels"
)

// TreeRow is one rendered line of the tree. Rows are rebuilt on every
// compose and never stored.
type TreeRow struct {
	ID          string
	Kind        RowKind
	Depth       int
	Label       string
	Href        string
	CollapseKey CollapseKey

	Active     bool
	Expandable bool
	Expanded   bool
	Bookmarked bool
	Archived   bool
	Dragging   bool
	DropTarget bool

	Commands RowCommands
}

// CollapseReader answers expand state queries.
type CollapseReader interface {
	IsOpened(t CollapsableType, key string) bool
}

// TreeInput is everything BuildTree reads.
type TreeInput struct {
	Snapshot    *store.Snapshot
	Collapse    CollapseReader
	Sort        SortOrder
	CurrentPath string
	Drag        *DragPayload
	Commands    CommandBinder
	Untitled    string
}

type treeIndex struct {
	folders map[string][]store.Folder // by parent ID
	notes   map[string][]store.Note   // by folder ID, archived excluded
	roots   []store.Folder
}

func indexSnapshot(snap *store.Snapshot, order SortOrder, untitled string) treeIndex {
	idx := treeIndex{
		folders: make(map[string][]store.Folder),
		notes:   make(map[string][]store.Note),
	}
	for _, f := range snap.Folders {
		if f.IsRoot() {
			idx.roots = append(idx.roots, f)
			continue
		}
		idx.folders[f.ParentID] = append(idx.folders[f.ParentID], f)
	}
	for _, n := range snap.Notes {
		if n.Archived {
			continue
		}
		idx.notes[n.FolderID] = append(idx.notes[n.FolderID], n)
	}

	folderKey := func(f store.Folder) sortItem {
		return sortItem{label: f.Name, updatedAt: f.UpdatedAt, position: f.Position, seq: f.Seq}
	}
	noteKey := func(n store.Note) sortItem {
		return sortItem{label: noteLabel(n, untitled), updatedAt: n.UpdatedAt, position: n.Position, seq: n.Seq}
	}
	sortItems(idx.roots, order, folderKey)
	for _, fs := range idx.folders {
		sortItems(fs, order, folderKey)
	}
	for _, ns := range idx.notes {
		sortItems(ns, order, noteKey)
	}
	return idx
}

func noteLabel(n store.Note, untitled string) string {
	if n.Title != "" {
		return n.Title
	}
	if untitled != "" {
		return untitled
	}
	return "Untitled"
}

// BuildTree flattens the folder hierarchy of a space into rows, depth
// first, folders before notes at each level. A folder's children are
// emitted only when the folder is opened, so a closed ancestor hides its
// whole subtree. Archived notes are left out.
func BuildTree(in TreeInput) []TreeRow {
	rows := []TreeRow{}
	if in.Snapshot == nil || len(in.Snapshot.Folders) == 0 {
		return rows
	}

	b := treeBuilder{
		in:      in,
		idx:     indexSnapshot(in.Snapshot, in.Sort, in.Untitled),
		visited: make(map[string]bool),
	}
	if in.Drag != nil && in.Drag.Kind == DragFolder {
		b.dragPath = folderPath(in.Snapshot, in.Drag.ID)
	}
	for _, root := range b.idx.roots {
		b.folder(&rows, root, 0)
	}
	return rows
}

type treeBuilder struct {
	in       TreeInput
	idx      treeIndex
	visited  map[string]bool
	dragPath string
}

func (b *treeBuilder) folder(rows *[]TreeRow, f store.Folder, depth int) {
	if b.visited[f.ID] {
		return
	}
	b.visited[f.ID] = true

	spaceID := b.in.Snapshot.Space.ID
	label := f.Name
	if f.IsRoot() {
		label = b.in.Snapshot.Space.Name
	}
	key := CollapseKey{Type: CollapseFolder, Key: f.ID}
	opened := b.in.Collapse != nil && b.in.Collapse.IsOpened(key.Type, key.Key)
	href := nav.FolderHref(spaceID, f.Pathname)

	row := TreeRow{
		ID:          f.ID,
		Kind:        RowFolder,
		Depth:       depth,
		Label:       label,
		Href:        href,
		CollapseKey: key,
		Active:      href == b.in.CurrentPath,
		Expandable:  len(b.idx.folders[f.ID]) > 0 || len(b.idx.notes[f.ID]) > 0,
		Expanded:    opened,
	}
	b.decorateDrag(&row, f.Pathname)
	if b.in.Commands != nil {
		row.Commands = b.in.Commands.For(RowFolder, f.ID, spaceID, key)
	}
	*rows = append(*rows, row)

	if !opened {
		return
	}
	for _, child := range b.idx.folders[f.ID] {
		b.folder(rows, child, depth+1)
	}
	for _, n := range b.idx.notes[f.ID] {
		*rows = append(*rows, b.note(n, depth+1))
	}
}

func (b *treeBuilder) note(n store.Note, depth int) TreeRow {
	spaceID := b.in.Snapshot.Space.ID
	key := CollapseKey{Type: CollapseLink, Key: n.ID}
	href := nav.NoteHref(spaceID, n.FolderPathname, n.ID)
	row := TreeRow{
		ID:          n.ID,
		Kind:        RowNote,
		Depth:       depth,
		Label:       noteLabel(n, b.in.Untitled),
		Href:        href,
		CollapseKey: key,
		Active:      href == b.in.CurrentPath,
		Bookmarked:  n.Bookmarked,
		Archived:    n.Archived,
	}
	b.decorateDrag(&row, n.FolderPathname)
	if b.in.Commands != nil {
		row.Commands = b.in.Commands.For(RowNote, n.ID, spaceID, key)
	}
	return row
}

// decorateDrag marks the dragged row and the rows that would accept it.
// pathname is the folder a drop on this row would land in.
func (b *treeBuilder) decorateDrag(row *TreeRow, pathname string) {
	d := b.in.Drag
	if d == nil {
		return
	}
	if row.ID == d.ID {
		row.Dragging = true
		return
	}
	if d.Kind == DragFolder && b.dragPath != "" && d.SpaceID == b.in.Snapshot.Space.ID &&
		(pathname == b.dragPath || store.IsDescendantPath(pathname, b.dragPath)) {
		return
	}
	row.DropTarget = true
}

func folderPath(snap *store.Snapshot, id string) string {
	if f, ok := snap.Folders[id]; ok {
		return f.Pathname
	}
	return ""
}

// BuildBookmarks returns rows for bookmarked, non-archived notes at depth 1,
// in the tree's sort order.
func BuildBookmarks(in TreeInput) []TreeRow {
	rows := []TreeRow{}
	if in.Snapshot == nil {
		return rows
	}
	var notes []store.Note
	for _, n := range in.Snapshot.Notes {
		if n.Bookmarked && !n.Archived {
			notes = append(notes, n)
		}
	}
	sortItems(notes, in.Sort, func(n store.Note) sortItem {
		return sortItem{label: noteLabel(n, in.Untitled), updatedAt: n.UpdatedAt, position: n.Position, seq: n.Seq}
	})

	b := treeBuilder{in: in}
	for _, n := range notes {
		row := b.note(n, 1)
		row.DropTarget = false
		row.Dragging = false
		rows = append(rows, row)
	}
	return rows
}

// BuildLabels returns one row per tag at depth 1, alphabetically.
func BuildLabels(in TreeInput) []TreeRow {
	rows := []TreeRow{}
	if in.Snapshot == nil {
		return rows
	}
	tags := make([]store.Tag, 0, len(in.Snapshot.Tags))
	for _, t := range in.Snapshot.Tags {
		tags = append(tags, t)
	}
	sortItems(tags, SortAZ, func(t store.Tag) sortItem {
		return sortItem{label: t.Name, seq: t.Seq}
	})

	spaceID := in.Snapshot.Space.ID
	for _, t := range tags {
		href := nav.TagHref(spaceID, t.Name)
		key := CollapseKey{Type: CollapseLink, Key: t.ID}
		row := TreeRow{
			ID:          t.ID,
			Kind:        RowTag,
			Depth:       1,
			Label:       t.Name,
			Href:        href,
			CollapseKey: key,
			Active:      href == in.CurrentPath,
		}
		if in.Commands != nil {
			row.Commands = in.Commands.For(RowTag, t.ID, spaceID, key)
		}
		rows = append(rows, row)
	}
	return rows
}
