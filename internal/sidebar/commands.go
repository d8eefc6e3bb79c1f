package sidebar

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/marcus/sidenote/internal/nav"
	"github.com/marcus/sidenote/internal/store"
)

// ErrUnsupported is returned by row commands that do not apply to a row's
// kind, e.g. archiving a folder.
var ErrUnsupported = errors.New("not supported for this row")

// RowCommands is the capability object carried by every tree row. The
// render layer invokes these instead of touching the store.
type RowCommands interface {
	Rename(name string) error
	Delete() error
	ToggleBookmark() error
	ToggleArchive() error
	StartDrag()
	AcceptDrop() error
	ToggleFold()
	CreateNote(title string) (*store.Note, error)
	CreateFolder(name string) (*store.Folder, error)
}

// CommandBinder produces the commands of one row.
type CommandBinder interface {
	For(kind RowKind, id, spaceID string, key CollapseKey) RowCommands
}

// Mutator is the slice of the store the row commands write through.
type Mutator interface {
	Folder(id string) (*store.Folder, error)
	Note(id string) (*store.Note, error)
	CreateFolder(spaceID, parentID, name string) (*store.Folder, error)
	UpdateFolder(id string, u store.FolderUpdate) (*store.Folder, error)
	DeleteFolder(id string) error
	CreateNote(spaceID string, props store.NoteProps) (*store.Note, error)
	UpdateNote(id string, u store.NoteUpdate) (*store.Note, error)
	DeleteNote(id string) error
	ToggleBookmark(id string) (*store.Note, error)
	ToggleArchived(id string) (*store.Note, error)
}

// Actions binds row commands to the store, the collapse store and the drag
// reducer. Missing entities are treated as already handled: another window
// may have deleted them first.
type Actions struct {
	store    Mutator
	collapse *CollapseStore
	drag     *DragReducer
	logger   *slog.Logger
}

// NewActions creates the command hub.
func NewActions(m Mutator, collapse *CollapseStore, drag *DragReducer, logger *slog.Logger) *Actions {
	if logger == nil {
		logger = slog.Default()
	}
	return &Actions{store: m, collapse: collapse, drag: drag, logger: logger}
}

// For implements CommandBinder.
func (a *Actions) For(kind RowKind, id, spaceID string, key CollapseKey) RowCommands {
	return rowCommands{a: a, kind: kind, id: id, spaceID: spaceID, key: key}
}

// CreateNoteForRoute creates a note where the route points: in the routed
// folder, tagged with the routed tag, or at the space root. It returns the
// note and the href to navigate to, carrying the "new" hash.
func (a *Actions) CreateNoteForRoute(spaceID string, r nav.Route, title string) (*store.Note, string, error) {
	props := store.NoteProps{Title: title, FolderPathname: store.RootPathname}
	switch r.Kind {
	case nav.RouteFolder, nav.RouteNote:
		if r.SpaceID == spaceID {
			props.FolderPathname = r.FolderPathname
		}
	case nav.RouteTag:
		if r.SpaceID == spaceID {
			props.Tags = []string{r.TagName}
		}
	}
	n, err := a.store.CreateNote(spaceID, props)
	if err != nil {
		return nil, "", fmt.Errorf("create note: %w", err)
	}
	return n, nav.NoteHref(spaceID, n.FolderPathname, n.ID) + "#" + nav.NewHash, nil
}

// idempotent swallows ErrNotFound.
func (a *Actions) idempotent(op, id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		a.logger.Debug("row target already gone", "op", op, "id", id)
		return nil
	}
	return err
}

type rowCommands struct {
	a       *Actions
	kind    RowKind
	id      string
	spaceID string
	key     CollapseKey
}

func (c rowCommands) Rename(name string) error {
	var err error
	switch c.kind {
	case RowFolder:
		_, err = c.a.store.UpdateFolder(c.id, store.FolderUpdate{Name: &name})
	case RowNote:
		_, err = c.a.store.UpdateNote(c.id, store.NoteUpdate{Title: &name})
	default:
		return ErrUnsupported
	}
	return c.a.idempotent("rename", c.id, err)
}

func (c rowCommands) Delete() error {
	var err error
	switch c.kind {
	case RowFolder:
		err = c.a.store.DeleteFolder(c.id)
		if err == nil && c.a.collapse != nil {
			c.a.collapse.Fold(CollapseFolder, c.id)
		}
	case RowNote:
		err = c.a.store.DeleteNote(c.id)
	default:
		return ErrUnsupported
	}
	return c.a.idempotent("delete", c.id, err)
}

func (c rowCommands) ToggleBookmark() error {
	if c.kind != RowNote {
		return ErrUnsupported
	}
	_, err := c.a.store.ToggleBookmark(c.id)
	return c.a.idempotent("bookmark", c.id, err)
}

func (c rowCommands) ToggleArchive() error {
	if c.kind != RowNote {
		return ErrUnsupported
	}
	_, err := c.a.store.ToggleArchived(c.id)
	return c.a.idempotent("archive", c.id, err)
}

func (c rowCommands) StartDrag() {
	if c.a.drag == nil {
		return
	}
	switch c.kind {
	case RowFolder:
		c.a.drag.StartDrag(DragPayload{Kind: DragFolder, ID: c.id, SpaceID: c.spaceID})
	case RowNote:
		c.a.drag.StartDrag(DragPayload{Kind: DragNote, ID: c.id, SpaceID: c.spaceID})
	}
}

func (c rowCommands) AcceptDrop() error {
	if c.a.drag == nil {
		return ErrNoDrag
	}
	if c.kind != RowFolder && c.kind != RowNote {
		c.a.drag.Cancel()
		return ErrUnsupported
	}
	return c.a.drag.DropInDocOrFolder(c.id)
}

func (c rowCommands) ToggleFold() {
	if c.a.collapse != nil {
		c.a.collapse.Toggle(c.key.Type, c.key.Key)
	}
}

// CreateNote adds a note inside the row's folder (or the folder holding
// the row's note).
func (c rowCommands) CreateNote(title string) (*store.Note, error) {
	folder, err := c.folder()
	if err != nil {
		return nil, err
	}
	n, err := c.a.store.CreateNote(c.spaceID, store.NoteProps{Title: title, FolderPathname: folder.Pathname})
	if err == nil && c.a.collapse != nil {
		c.a.collapse.Unfold(CollapseFolder, folder.ID)
	}
	return n, err
}

// CreateFolder adds a subfolder under the row's folder.
func (c rowCommands) CreateFolder(name string) (*store.Folder, error) {
	folder, err := c.folder()
	if err != nil {
		return nil, err
	}
	f, err := c.a.store.CreateFolder(c.spaceID, folder.ID, name)
	if err == nil && c.a.collapse != nil {
		c.a.collapse.Unfold(CollapseFolder, folder.ID)
	}
	return f, err
}

func (c rowCommands) folder() (*store.Folder, error) {
	switch c.kind {
	case RowFolder:
		return c.a.store.Folder(c.id)
	case RowNote:
		n, err := c.a.store.Note(c.id)
		if err != nil {
			return nil, err
		}
		return c.a.store.Folder(n.FolderID)
	default:
		return nil, ErrUnsupported
	}
}
