package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "notes.db"), DriverPure)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestSpace(t *testing.T, s *Store) *Space {
	t.Helper()
	sp, err := s.CreateSpace("Personal")
	if err != nil {
		t.Fatalf("CreateSpace() failed: %v", err)
	}
	return sp
}

func strPtr(s string) *string { return &s }

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "x.db"), "postgres"); err == nil {
		t.Error("Open() with unknown driver should fail")
	}
}

func TestCreateSpace_CreatesRoot(t *testing.T) {
	s := newTestStore(t)
	sp := newTestSpace(t, s)

	if len(sp.ID) != 11 || sp.ID[:3] != "sp-" {
		t.Errorf("space ID = %q, want sp- prefix and 8 hex chars", sp.ID)
	}
	root, err := s.RootFolder(sp.ID)
	if err != nil {
		t.Fatalf("RootFolder() failed: %v", err)
	}
	if root.Pathname != RootPathname || !root.IsRoot() {
		t.Errorf("root = %+v, want pathname / and no parent", root)
	}

	spaces, err := s.Spaces()
	if err != nil {
		t.Fatal(err)
	}
	if len(spaces) != 1 || spaces[0].Name != "Personal" {
		t.Errorf("Spaces() = %+v", spaces)
	}

	if _, err := s.CreateSpace("   "); !errors.Is(err, ErrInvalidName) {
		t.Errorf("CreateSpace(blank) error = %v, want ErrInvalidName", err)
	}
}

func TestRenameAndRemoveSpace(t *testing.T) {
	s := newTestStore(t)
	sp := newTestSpace(t, s)
	if _, err := s.CreateNote(sp.ID, NoteProps{FolderPathname: "/a", Title: "n", Tags: []string{"x"}}); err != nil {
		t.Fatal(err)
	}

	if err := s.RenameSpace(sp.ID, "Work"); err != nil {
		t.Fatalf("RenameSpace() failed: %v", err)
	}
	got, err := s.Space(sp.ID)
	if err != nil || got.Name != "Work" {
		t.Fatalf("Space() = %+v, %v", got, err)
	}

	if err := s.RemoveSpace(sp.ID); err != nil {
		t.Fatalf("RemoveSpace() failed: %v", err)
	}
	if _, err := s.Space(sp.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Space() after remove error = %v, want ErrNotFound", err)
	}
	if err := s.RemoveSpace(sp.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second RemoveSpace() error = %v, want ErrNotFound", err)
	}
	tags, _ := s.Tags(sp.ID)
	if len(tags) != 0 {
		t.Errorf("tags survived space removal: %+v", tags)
	}
}

func TestCreateFolder(t *testing.T) {
	s := newTestStore(t)
	sp := newTestSpace(t, s)

	a, err := s.CreateFolder(sp.ID, "", "a")
	if err != nil {
		t.Fatalf("CreateFolder(a) failed: %v", err)
	}
	if a.Pathname != "/a" {
		t.Errorf("a.Pathname = %q, want /a", a.Pathname)
	}
	b, err := s.CreateFolder(sp.ID, a.ID, "b")
	if err != nil {
		t.Fatalf("CreateFolder(b) failed: %v", err)
	}
	if b.Pathname != "/a/b" || b.ParentID != a.ID {
		t.Errorf("b = %+v, want /a/b under a", b)
	}

	if _, err := s.CreateFolder(sp.ID, "", "a"); !errors.Is(err, ErrExists) {
		t.Errorf("duplicate CreateFolder error = %v, want ErrExists", err)
	}
	if _, err := s.CreateFolder(sp.ID, "", "x/y"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("slash name error = %v, want ErrInvalidName", err)
	}
	if _, err := s.CreateFolder(sp.ID, "fd-missing", "z"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing parent error = %v, want ErrNotFound", err)
	}
}

func TestCreateNote_EnsuresFolderPath(t *testing.T) {
	s := newTestStore(t)
	sp := newTestSpace(t, s)

	n, err := s.CreateNote(sp.ID, NoteProps{
		FolderPathname: "/work/meetings",
		Title:          "Standup",
		Content:        "notes",
		Tags:           []string{"daily", " daily ", ""},
	})
	if err != nil {
		t.Fatalf("CreateNote() failed: %v", err)
	}
	if n.FolderPathname != "/work/meetings" {
		t.Errorf("FolderPathname = %q", n.FolderPathname)
	}
	if len(n.Tags) != 1 || n.Tags[0] != "daily" {
		t.Errorf("Tags = %v, want [daily]", n.Tags)
	}

	f, err := s.Folder(n.FolderID)
	if err != nil {
		t.Fatal(err)
	}
	if f.Pathname != "/work/meetings" {
		t.Errorf("folder pathname = %q", f.Pathname)
	}
	if err := s.ValidatePathnames(sp.ID); err != nil {
		t.Errorf("ValidatePathnames() = %v", err)
	}

	tags, err := s.Tags(sp.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 || tags[0].Name != "daily" {
		t.Errorf("Tags() = %+v", tags)
	}
}

func TestUpdateFolder_MoveRewritesDescendants(t *testing.T) {
	s := newTestStore(t)
	sp := newTestSpace(t, s)

	n, err := s.CreateNote(sp.ID, NoteProps{FolderPathname: "/a/b/c", Title: "deep"})
	if err != nil {
		t.Fatal(err)
	}
	dest, err := s.CreateFolder(sp.ID, "", "dest")
	if err != nil {
		t.Fatal(err)
	}
	snap, _ := s.Snapshot(sp.ID)
	b, _ := snap.FolderByPath("/a/b")

	moved, err := s.UpdateFolder(b.ID, FolderUpdate{ParentID: &dest.ID})
	if err != nil {
		t.Fatalf("UpdateFolder() failed: %v", err)
	}
	if moved.Pathname != "/dest/b" {
		t.Errorf("moved pathname = %q, want /dest/b", moved.Pathname)
	}

	got, err := s.Note(n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.FolderPathname != "/dest/b/c" {
		t.Errorf("note pathname = %q, want /dest/b/c", got.FolderPathname)
	}
	if err := s.ValidatePathnames(sp.ID); err != nil {
		t.Errorf("ValidatePathnames() after move = %v", err)
	}

	renamed, err := s.UpdateFolder(dest.ID, FolderUpdate{Name: strPtr("archive")})
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if renamed.Pathname != "/archive" {
		t.Errorf("renamed pathname = %q", renamed.Pathname)
	}
	got, _ = s.Note(n.ID)
	if got.FolderPathname != "/archive/b/c" {
		t.Errorf("note pathname after rename = %q", got.FolderPathname)
	}
	if err := s.ValidatePathnames(sp.ID); err != nil {
		t.Errorf("ValidatePathnames() after rename = %v", err)
	}
}

func TestUpdateFolder_Rejections(t *testing.T) {
	s := newTestStore(t)
	sp := newTestSpace(t, s)

	a, _ := s.CreateFolder(sp.ID, "", "a")
	b, _ := s.CreateFolder(sp.ID, a.ID, "b")
	c, _ := s.CreateFolder(sp.ID, "", "c")
	root, _ := s.RootFolder(sp.ID)
	before, _ := s.Snapshot(sp.ID)

	tests := []struct {
		name string
		id   string
		u    FolderUpdate
		want error
	}{
		{"onto itself", a.ID, FolderUpdate{ParentID: &a.ID}, ErrCycle},
		{"onto descendant", a.ID, FolderUpdate{ParentID: &b.ID}, ErrCycle},
		{"rename root", root.ID, FolderUpdate{Name: strPtr("x")}, ErrRootFolder},
		{"collision", c.ID, FolderUpdate{Name: strPtr("a")}, ErrExists},
		{"missing", "fd-missing", FolderUpdate{Name: strPtr("x")}, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.UpdateFolder(tt.id, tt.u); !errors.Is(err, tt.want) {
				t.Errorf("UpdateFolder() error = %v, want %v", err, tt.want)
			}
		})
	}

	after, _ := s.Snapshot(sp.ID)
	for id, f := range before.Folders {
		g := after.Folders[id]
		if g.ParentID != f.ParentID || g.Pathname != f.Pathname {
			t.Errorf("folder %s changed: %+v -> %+v", id, f, g)
		}
	}
	if after.Revision != before.Revision {
		t.Errorf("revision bumped by rejected updates: %d -> %d", before.Revision, after.Revision)
	}
}

func TestUpdateFolder_CrossSpace(t *testing.T) {
	s := newTestStore(t)
	src := newTestSpace(t, s)
	dst, _ := s.CreateSpace("Work")

	n, _ := s.CreateNote(src.ID, NoteProps{FolderPathname: "/proj/sub", Title: "x", Tags: []string{"t1"}})
	snap, _ := s.Snapshot(src.ID)
	proj, _ := snap.FolderByPath("/proj")
	dstRoot, _ := s.RootFolder(dst.ID)

	moved, err := s.UpdateFolder(proj.ID, FolderUpdate{ParentID: &dstRoot.ID})
	if err != nil {
		t.Fatalf("UpdateFolder() failed: %v", err)
	}
	if moved.SpaceID != dst.ID || moved.Pathname != "/proj" {
		t.Errorf("moved = %+v", moved)
	}
	got, _ := s.Note(n.ID)
	if got.SpaceID != dst.ID || got.FolderPathname != "/proj/sub" {
		t.Errorf("note = %+v", got)
	}
	tags, _ := s.Tags(dst.ID)
	if len(tags) != 1 || tags[0].Name != "t1" {
		t.Errorf("destination tags = %+v", tags)
	}
	for _, id := range []string{src.ID, dst.ID} {
		if err := s.ValidatePathnames(id); err != nil {
			t.Errorf("ValidatePathnames(%s) = %v", id, err)
		}
	}
}

func TestDeleteFolder_RemovesSubtree(t *testing.T) {
	s := newTestStore(t)
	sp := newTestSpace(t, s)

	n, _ := s.CreateNote(sp.ID, NoteProps{FolderPathname: "/a/b", Title: "x"})
	keep, _ := s.CreateNote(sp.ID, NoteProps{FolderPathname: "/ab", Title: "y"})
	snap, _ := s.Snapshot(sp.ID)
	a, _ := snap.FolderByPath("/a")

	if err := s.DeleteFolder(a.ID); err != nil {
		t.Fatalf("DeleteFolder() failed: %v", err)
	}
	if _, err := s.Note(n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("note in deleted folder still exists: %v", err)
	}
	if _, err := s.Note(keep.ID); err != nil {
		t.Errorf("sibling with shared prefix was deleted: %v", err)
	}
	if err := s.DeleteFolder(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteFolder() error = %v, want ErrNotFound", err)
	}

	root, _ := s.RootFolder(sp.ID)
	if err := s.DeleteFolder(root.ID); !errors.Is(err, ErrRootFolder) {
		t.Errorf("DeleteFolder(root) error = %v, want ErrRootFolder", err)
	}
}

func TestNoteMutations(t *testing.T) {
	s := newTestStore(t)
	sp := newTestSpace(t, s)
	n, _ := s.CreateNote(sp.ID, NoteProps{Title: "first"})
	if n.FolderPathname != RootPathname {
		t.Errorf("default folder = %q, want /", n.FolderPathname)
	}

	got, err := s.ToggleBookmark(n.ID)
	if err != nil || !got.Bookmarked {
		t.Fatalf("ToggleBookmark() = %+v, %v", got, err)
	}
	got, _ = s.ToggleBookmark(n.ID)
	if got.Bookmarked {
		t.Error("second ToggleBookmark() should clear the flag")
	}
	got, _ = s.ToggleArchived(n.ID)
	if !got.Archived {
		t.Error("ToggleArchived() should set the flag")
	}

	tags := []string{"go"}
	got, err = s.UpdateNote(n.ID, NoteUpdate{Title: strPtr("renamed"), Tags: &tags})
	if err != nil {
		t.Fatalf("UpdateNote() failed: %v", err)
	}
	if got.Title != "renamed" || len(got.Tags) != 1 {
		t.Errorf("UpdateNote() = %+v", got)
	}

	f, _ := s.CreateFolder(sp.ID, "", "dest")
	got, err = s.MoveNote(n.ID, f.ID)
	if err != nil {
		t.Fatalf("MoveNote() failed: %v", err)
	}
	if got.FolderID != f.ID || got.FolderPathname != "/dest" {
		t.Errorf("MoveNote() = %+v", got)
	}

	if err := s.DeleteNote(n.ID); err != nil {
		t.Fatalf("DeleteNote() failed: %v", err)
	}
	if err := s.DeleteNote(n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteNote() error = %v, want ErrNotFound", err)
	}
	if _, err := s.ToggleBookmark(n.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleBookmark(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestRevision_BumpsOnMutation(t *testing.T) {
	s := newTestStore(t)
	r0, err := s.Revision()
	if err != nil {
		t.Fatal(err)
	}
	sp := newTestSpace(t, s)
	r1, _ := s.Revision()
	if r1 <= r0 {
		t.Errorf("revision %d -> %d after CreateSpace", r0, r1)
	}
	_, _ = s.CreateFolder(sp.ID, "", "a")
	r2, _ := s.Revision()
	if r2 <= r1 {
		t.Errorf("revision %d -> %d after CreateFolder", r1, r2)
	}
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	sp := newTestSpace(t, s)

	_, _ = s.CreateNote(sp.ID, NoteProps{Title: "Go tips", Content: "intro\nuse gofmt always"})
	_, _ = s.CreateNote(sp.ID, NoteProps{Title: "Groceries", Content: "eggs"})
	_, _ = s.CreateNote(sp.ID, NoteProps{Title: "Über den Wolken", Content: "Straße\nÉTÉ à Paris"})
	archived, _ := s.CreateNote(sp.ID, NoteProps{Title: "gofmt old", Content: "gofmt"})
	_, _ = s.ToggleArchived(archived.ID)

	tests := []struct {
		name  string
		q     SearchQuery
		want  int
		line  int
		title string
	}{
		{"both scopes", SearchQuery{Text: "GOFMT"}, 1, 2, "Go tips"},
		{"title only", SearchQuery{Text: "gofmt", Title: true}, 0, 0, ""},
		{"body only", SearchQuery{Text: "eggs", Body: true}, 1, 1, "Groceries"},
		{"title match", SearchQuery{Text: "groc", Title: true}, 1, 0, "Groceries"},
		{"blank", SearchQuery{Text: "  "}, 0, 0, ""},
		{"non-ascii title folds case", SearchQuery{Text: "über", Title: true}, 1, 0, "Über den Wolken"},
		{"non-ascii body folds case", SearchQuery{Text: "été", Body: true}, 1, 2, "Über den Wolken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := s.Search(context.Background(), sp.ID, tt.q, 10)
			if err != nil {
				t.Fatalf("Search() failed: %v", err)
			}
			if len(hits) != tt.want {
				t.Fatalf("Search() returned %d hits, want %d: %+v", len(hits), tt.want, hits)
			}
			if tt.want > 0 {
				if hits[0].Title != tt.title || hits[0].Line != tt.line {
					t.Errorf("hit = %+v, want title %q line %d", hits[0], tt.title, tt.line)
				}
			}
		})
	}
}

func TestSearch_Limit(t *testing.T) {
	s := newTestStore(t)
	sp := newTestSpace(t, s)
	for _, title := range []string{"plan a", "plan b", "plan c"} {
		if _, err := s.CreateNote(sp.ID, NoteProps{Title: title}); err != nil {
			t.Fatalf("CreateNote() failed: %v", err)
		}
	}

	hits, err := s.Search(context.Background(), sp.ID, SearchQuery{Text: "PLAN"}, 2)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("Search() returned %d hits, want the limit of 2", len(hits))
	}
}

func TestSearch_CancelledContext(t *testing.T) {
	s := newTestStore(t)
	sp := newTestSpace(t, s)
	_, _ = s.CreateNote(sp.ID, NoteProps{Title: "hello"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Search(ctx, sp.ID, SearchQuery{Text: "hello"}, 10); err == nil {
		t.Error("Search() with cancelled context should fail")
	}
}

func TestPathHelpers(t *testing.T) {
	tests := []struct {
		path, parent, base string
	}{
		{"/", "", ""},
		{"/a", "/", "a"},
		{"/a/b", "/a", "b"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := ParentPath(tt.path); got != tt.parent {
				t.Errorf("ParentPath(%q) = %q, want %q", tt.path, got, tt.parent)
			}
			if got := BaseName(tt.path); got != tt.base {
				t.Errorf("BaseName(%q) = %q, want %q", tt.path, got, tt.base)
			}
		})
	}

	if !IsDescendantPath("/a/b", "/a") || IsDescendantPath("/ab", "/a") || IsDescendantPath("/a", "/a") {
		t.Error("IsDescendantPath() misclassified")
	}
	if JoinPath("/", "a") != "/a" || JoinPath("/a", "b") != "/a/b" {
		t.Error("JoinPath() wrong")
	}
}

func TestWalkPathname(t *testing.T) {
	folders := map[string]Folder{
		"r": {ID: "r", Pathname: "/"},
		"a": {ID: "a", ParentID: "r", Name: "a"},
		"b": {ID: "b", ParentID: "a", Name: "b"},
		"x": {ID: "x", ParentID: "y", Name: "x"},
		"y": {ID: "y", ParentID: "x", Name: "y"},
	}
	if got := WalkPathname(folders, "b"); got != "/a/b" {
		t.Errorf("WalkPathname(b) = %q", got)
	}
	if got := WalkPathname(folders, "x"); got != "" {
		t.Errorf("WalkPathname(cycle) = %q, want empty", got)
	}
}

func TestWatch_ReportsWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.db")
	s, err := Open(path, DriverPure)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	w, err := Watch(path, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}
	defer w.Close()

	if _, err := s.CreateSpace("Watched"); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Events():
	case <-time.After(5 * time.Second):
		t.Fatal("no watch event after write")
	}
}
