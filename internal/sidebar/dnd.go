package sidebar

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/marcus/sidenote/internal/store"
)

// DragKind is the kind of the dragged resource.
type DragKind int

const (
	DragNote DragKind = iota
	DragFolder
)

// DragPayload identifies the resource being dragged and its origin space.
type DragPayload struct {
	Kind    DragKind
	ID      string
	SpaceID string
}

var (
	ErrNoDrag        = errors.New("no drag in progress")
	ErrSelfDrop      = errors.New("dropped onto itself")
	ErrUnknownDrop   = errors.New("drop target not found")
	errNameExhausted = errors.New("no free folder name")
)

// Mover is the slice of the store the drag reducer needs.
type Mover interface {
	Folder(id string) (*store.Folder, error)
	Note(id string) (*store.Note, error)
	RootFolder(spaceID string) (*store.Folder, error)
	Snapshot(spaceID string) (*store.Snapshot, error)
	UpdateFolder(id string, u store.FolderUpdate) (*store.Folder, error)
	MoveNote(id, folderID string) (*store.Note, error)
}

// DragReducer holds at most one drag at a time and applies drops.
type DragReducer struct {
	mover   Mover
	logger  *slog.Logger
	payload *DragPayload
	gen     uint64
}

// NewDragReducer creates a reducer that moves resources through m.
func NewDragReducer(m Mover, logger *slog.Logger) *DragReducer {
	if logger == nil {
		logger = slog.Default()
	}
	return &DragReducer{mover: m, logger: logger}
}

// StartDrag begins dragging p, replacing any unfinished drag.
func (r *DragReducer) StartDrag(p DragPayload) {
	r.payload = &p
	r.gen++
}

// Cancel ends the drag without moving anything.
func (r *DragReducer) Cancel() {
	if r.payload != nil {
		r.payload = nil
		r.gen++
	}
}

// Dragging returns the current payload.
func (r *DragReducer) Dragging() (DragPayload, bool) {
	if r.payload == nil {
		return DragPayload{}, false
	}
	return *r.payload, true
}

// Payload returns the current payload or nil.
func (r *DragReducer) Payload() *DragPayload {
	if r.payload == nil {
		return nil
	}
	p := *r.payload
	return &p
}

// Generation changes whenever the payload changes.
func (r *DragReducer) Generation() uint64 { return r.gen }

// take clears the payload and returns it.
func (r *DragReducer) take() (DragPayload, error) {
	if r.payload == nil {
		return DragPayload{}, ErrNoDrag
	}
	p := *r.payload
	r.payload = nil
	r.gen++
	return p, nil
}

// DropInDocOrFolder moves the dragged resource into targetID. A note target
// stands for the folder containing it. Dropping a folder onto itself or a
// descendant fails with store.ErrCycle and changes nothing. The payload is
// cleared either way.
func (r *DragReducer) DropInDocOrFolder(targetID string) error {
	p, err := r.take()
	if err != nil {
		return err
	}

	target, err := r.resolveTarget(targetID)
	if err != nil {
		return r.logged(p, err)
	}

	switch p.Kind {
	case DragNote:
		if targetID == p.ID {
			return r.logged(p, ErrSelfDrop)
		}
		_, err = r.mover.MoveNote(p.ID, target.ID)
	case DragFolder:
		if err := r.checkCycle(p.ID, target); err != nil {
			return r.logged(p, err)
		}
		err = r.moveFolder(p.ID, target)
	}
	return r.logged(p, err)
}

// DropInWorkspace moves the dragged resource to the root folder of spaceID.
// A folder whose name is taken there is renamed "name (n)" with the
// smallest free n.
func (r *DragReducer) DropInWorkspace(spaceID string) error {
	p, err := r.take()
	if err != nil {
		return err
	}

	root, err := r.mover.RootFolder(spaceID)
	if err != nil {
		return r.logged(p, err)
	}
	switch p.Kind {
	case DragNote:
		_, err = r.mover.MoveNote(p.ID, root.ID)
	case DragFolder:
		err = r.moveFolder(p.ID, root)
	}
	return r.logged(p, err)
}

func (r *DragReducer) resolveTarget(id string) (*store.Folder, error) {
	f, err := r.mover.Folder(id)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	n, err := r.mover.Note(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", id, ErrUnknownDrop)
	}
	if err != nil {
		return nil, err
	}
	return r.mover.Folder(n.FolderID)
}

// checkCycle walks the target's parent chain looking for the dragged folder.
func (r *DragReducer) checkCycle(draggedID string, target *store.Folder) error {
	seen := make(map[string]bool)
	for f := target; f != nil; {
		if f.ID == draggedID {
			return fmt.Errorf("drop %s into %s: %w", draggedID, target.Pathname, store.ErrCycle)
		}
		if f.IsRoot() || seen[f.ID] {
			return nil
		}
		seen[f.ID] = true
		parent, err := r.mover.Folder(f.ParentID)
		if err != nil {
			return err
		}
		f = parent
	}
	return nil
}

// moveFolder reparents id under parent, picking a free name on collision.
func (r *DragReducer) moveFolder(id string, parent *store.Folder) error {
	f, err := r.mover.Folder(id)
	if err != nil {
		return err
	}
	if f.ParentID == parent.ID {
		return nil
	}

	snap, err := r.mover.Snapshot(parent.SpaceID)
	if err != nil {
		return err
	}
	taken := make(map[string]bool, len(snap.Folders))
	for _, sf := range snap.Folders {
		taken[sf.Pathname] = true
	}
	name, err := freeName(taken, parent.Pathname, f.Name)
	if err != nil {
		return err
	}

	u := store.FolderUpdate{ParentID: &parent.ID}
	if name != f.Name {
		u.Name = &name
	}
	_, err = r.mover.UpdateFolder(id, u)
	return err
}

// freeName returns name, or "name (n)" for the smallest n >= 1 whose
// pathname under parent is not taken.
func freeName(taken map[string]bool, parent, name string) (string, error) {
	if !taken[store.JoinPath(parent, name)] {
		return name, nil
	}
	for n := 1; n <= len(taken)+1; n++ {
		candidate := name + " (" + strconv.Itoa(n) + ")"
		if !taken[store.JoinPath(parent, candidate)] {
			return candidate, nil
		}
	}
	return "", errNameExhausted
}

func (r *DragReducer) logged(p DragPayload, err error) error {
	if err != nil {
		r.logger.Debug("drop rejected", "id", p.ID, "err", err)
	}
	return err
}
