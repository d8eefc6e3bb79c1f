package sidebar

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/marcus/sidenote/internal/store"
)

func newTestStore(t *testing.T) (*store.Store, *store.Space) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "notes.db"), store.DriverPure)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	sp, err := s.CreateSpace("Personal")
	if err != nil {
		t.Fatalf("CreateSpace() failed: %v", err)
	}
	return s, sp
}

func mustFolder(t *testing.T, s *store.Store, spaceID, parentID, name string) *store.Folder {
	t.Helper()
	f, err := s.CreateFolder(spaceID, parentID, name)
	if err != nil {
		t.Fatalf("CreateFolder(%s) failed: %v", name, err)
	}
	return f
}

func mustNote(t *testing.T, s *store.Store, spaceID, pathname, title string) *store.Note {
	t.Helper()
	n, err := s.CreateNote(spaceID, store.NoteProps{FolderPathname: pathname, Title: title})
	if err != nil {
		t.Fatalf("CreateNote(%s) failed: %v", title, err)
	}
	return n
}

func mustRoot(t *testing.T, s *store.Store, spaceID string) *store.Folder {
	t.Helper()
	root, err := s.RootFolder(spaceID)
	if err != nil {
		t.Fatalf("RootFolder() failed: %v", err)
	}
	return root
}

func TestDropInDocOrFolder_RejectsCycle(t *testing.T) {
	s, sp := newTestStore(t)
	root := mustRoot(t, s, sp.ID)
	a := mustFolder(t, s, sp.ID, root.ID, "a")
	b := mustFolder(t, s, sp.ID, a.ID, "b")
	c := mustFolder(t, s, sp.ID, b.ID, "c")
	rev, _ := s.Revision()

	r := NewDragReducer(s, nil)
	for _, target := range []string{a.ID, c.ID} {
		r.StartDrag(DragPayload{Kind: DragFolder, ID: a.ID, SpaceID: sp.ID})
		if err := r.DropInDocOrFolder(target); !errors.Is(err, store.ErrCycle) {
			t.Errorf("drop a onto %s: err = %v, want ErrCycle", target, err)
		}
		if _, ok := r.Dragging(); ok {
			t.Error("payload not cleared after rejected drop")
		}
	}

	if got, _ := s.Revision(); got != rev {
		t.Errorf("revision %d -> %d, store changed", rev, got)
	}
	if f, _ := s.Folder(c.ID); f.Pathname != "/a/b/c" {
		t.Errorf("c pathname = %q", f.Pathname)
	}
}

func TestDropInDocOrFolder_NoteTargetMeansItsFolder(t *testing.T) {
	s, sp := newTestStore(t)
	root := mustRoot(t, s, sp.ID)
	mustFolder(t, s, sp.ID, root.ID, "docs")
	target := mustNote(t, s, sp.ID, "/docs", "target")
	moving := mustNote(t, s, sp.ID, "/", "moving")

	r := NewDragReducer(s, nil)
	r.StartDrag(DragPayload{Kind: DragNote, ID: moving.ID, SpaceID: sp.ID})
	if err := r.DropInDocOrFolder(target.ID); err != nil {
		t.Fatalf("DropInDocOrFolder() failed: %v", err)
	}

	n, err := s.Note(moving.ID)
	if err != nil {
		t.Fatal(err)
	}
	if n.FolderPathname != "/docs" || n.FolderID != target.FolderID {
		t.Errorf("note landed in %q (%s), want /docs", n.FolderPathname, n.FolderID)
	}
}

func TestDropInDocOrFolder_MovesFolderSubtree(t *testing.T) {
	s, sp := newTestStore(t)
	root := mustRoot(t, s, sp.ID)
	a := mustFolder(t, s, sp.ID, root.ID, "a")
	dest := mustFolder(t, s, sp.ID, root.ID, "dest")
	mustFolder(t, s, sp.ID, a.ID, "inner")
	n := mustNote(t, s, sp.ID, "/a/inner", "deep")

	r := NewDragReducer(s, nil)
	r.StartDrag(DragPayload{Kind: DragFolder, ID: a.ID, SpaceID: sp.ID})
	if err := r.DropInDocOrFolder(dest.ID); err != nil {
		t.Fatalf("DropInDocOrFolder() failed: %v", err)
	}

	got, _ := s.Note(n.ID)
	if got.FolderPathname != "/dest/a/inner" {
		t.Errorf("note pathname = %q, want /dest/a/inner", got.FolderPathname)
	}
	if err := s.ValidatePathnames(sp.ID); err != nil {
		t.Errorf("ValidatePathnames() = %v", err)
	}
}

func TestDropInWorkspace_RenamesOnCollision(t *testing.T) {
	s, sp := newTestStore(t)
	other, err := s.CreateSpace("Work")
	if err != nil {
		t.Fatal(err)
	}
	mustFolder(t, s, other.ID, mustRoot(t, s, other.ID).ID, "proj")
	mustFolder(t, s, other.ID, mustRoot(t, s, other.ID).ID, "proj (1)")
	proj := mustFolder(t, s, sp.ID, mustRoot(t, s, sp.ID).ID, "proj")

	r := NewDragReducer(s, nil)
	r.StartDrag(DragPayload{Kind: DragFolder, ID: proj.ID, SpaceID: sp.ID})
	if err := r.DropInWorkspace(other.ID); err != nil {
		t.Fatalf("DropInWorkspace() failed: %v", err)
	}

	moved, err := s.Folder(proj.ID)
	if err != nil {
		t.Fatal(err)
	}
	if moved.SpaceID != other.ID || moved.Pathname != "/proj (2)" {
		t.Errorf("moved = %s %q, want %s /proj (2)", moved.SpaceID, moved.Pathname, other.ID)
	}
}

func TestDropInWorkspace_Note(t *testing.T) {
	s, sp := newTestStore(t)
	root := mustRoot(t, s, sp.ID)
	mustFolder(t, s, sp.ID, root.ID, "a")
	n := mustNote(t, s, sp.ID, "/a", "up")

	r := NewDragReducer(s, nil)
	r.StartDrag(DragPayload{Kind: DragNote, ID: n.ID, SpaceID: sp.ID})
	if err := r.DropInWorkspace(sp.ID); err != nil {
		t.Fatalf("DropInWorkspace() failed: %v", err)
	}
	if got, _ := s.Note(n.ID); got.FolderID != root.ID {
		t.Errorf("note folder = %s, want root", got.FolderID)
	}
}

func TestDragReducer_Lifecycle(t *testing.T) {
	s, sp := newTestStore(t)
	r := NewDragReducer(s, nil)

	if err := r.DropInDocOrFolder("anything"); !errors.Is(err, ErrNoDrag) {
		t.Errorf("drop without drag: err = %v, want ErrNoDrag", err)
	}
	if err := r.DropInWorkspace(sp.ID); !errors.Is(err, ErrNoDrag) {
		t.Errorf("workspace drop without drag: err = %v, want ErrNoDrag", err)
	}

	g := r.Generation()
	r.StartDrag(DragPayload{Kind: DragNote, ID: "nt-1", SpaceID: sp.ID})
	r.StartDrag(DragPayload{Kind: DragNote, ID: "nt-2", SpaceID: sp.ID})
	if p, ok := r.Dragging(); !ok || p.ID != "nt-2" {
		t.Errorf("Dragging() = %+v %v, want nt-2", p, ok)
	}
	if r.Generation() == g {
		t.Error("StartDrag did not bump generation")
	}

	r.Cancel()
	if r.Payload() != nil {
		t.Error("Cancel() kept the payload")
	}
	g = r.Generation()
	r.Cancel()
	if r.Generation() != g {
		t.Error("second Cancel() bumped generation")
	}
}

func TestDropInDocOrFolder_UnknownTarget(t *testing.T) {
	s, sp := newTestStore(t)
	n := mustNote(t, s, sp.ID, "/", "x")

	r := NewDragReducer(s, nil)
	r.StartDrag(DragPayload{Kind: DragNote, ID: n.ID, SpaceID: sp.ID})
	if err := r.DropInDocOrFolder("fd-missing"); !errors.Is(err, ErrUnknownDrop) {
		t.Errorf("err = %v, want ErrUnknownDrop", err)
	}
	if _, ok := r.Dragging(); ok {
		t.Error("payload kept after failed drop")
	}
}

func TestFreeName(t *testing.T) {
	tests := []struct {
		taken []string
		want  string
	}{
		{nil, "proj"},
		{[]string{"/proj"}, "proj (1)"},
		{[]string{"/proj", "/proj (1)", "/proj (3)"}, "proj (2)"},
	}
	for _, tt := range tests {
		taken := map[string]bool{}
		for _, p := range tt.taken {
			taken[p] = true
		}
		got, err := freeName(taken, "/", "proj")
		if err != nil || got != tt.want {
			t.Errorf("freeName(%v) = %q, %v; want %q", tt.taken, got, err, tt.want)
		}
	}
}
