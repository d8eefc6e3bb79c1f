package sidebar

import (
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/marcus/sidenote/internal/i18n"
	"github.com/marcus/sidenote/internal/nav"
	"github.com/marcus/sidenote/internal/state"
	"github.com/marcus/sidenote/internal/store"
)

func testInputs(t *testing.T) Inputs {
	t.Helper()
	tr, err := i18n.New("en")
	if err != nil {
		t.Fatalf("i18n.New() failed: %v", err)
	}
	snap := newSnapshot().
		folder("a", "root", "a").
		note("n1", "a", "one", func(n *store.Note) { n.UpdatedAt = baseTime.Add(time.Hour) }).
		note("n2", "root", "two", func(n *store.Note) { n.UpdatedAt = baseTime.Add(2 * time.Hour) }).
		snap
	snap.Revision = 1
	return Inputs{
		Snapshot:     snap,
		Spaces:       []store.Space{{ID: "sp-1", Name: "Personal"}},
		CurrentSpace: "sp-1",
		Panel:        PanelTree,
		Sort:         SortAZ,
		Collapse:     opened("root"),
		Translator:   tr,
	}
}

func TestCompose_MemoizesUntilAnInputChanges(t *testing.T) {
	in := testInputs(t)
	var c Composer

	first := c.Compose(in)
	if second := c.Compose(in); second != first {
		t.Error("Compose() rebuilt with unchanged inputs")
	}

	in.Collapse.Unfold(CollapseFolder, "a")
	third := c.Compose(in)
	if third == first {
		t.Fatal("Compose() reused snapshot after a collapse change")
	}
	if len(third.Tree) != len(first.Tree)+1 {
		t.Errorf("tree rows %d -> %d, want one more", len(first.Tree), len(third.Tree))
	}

	c.Invalidate()
	if c.Compose(in) == third {
		t.Error("Invalidate() did not drop the memo")
	}
}

// countingBinder hands out no commands and records how often rows asked.
type countingBinder struct{ calls int }

func (b *countingBinder) For(RowKind, string, string, CollapseKey) RowCommands {
	b.calls++
	return nil
}

func TestCompose_RebuildsWhenCommandBinderChanges(t *testing.T) {
	in := testInputs(t)
	var c Composer

	first := &countingBinder{}
	in.Commands = first
	snap := c.Compose(in)
	if first.calls == 0 {
		t.Fatal("tree rows were built without asking the binder")
	}

	second := &countingBinder{}
	in.Commands = second
	if c.Compose(in) == snap {
		t.Error("Compose() reused a snapshot bound to the previous binder")
	}
	if second.calls == 0 {
		t.Error("rows not rebound to the new binder")
	}
}

func TestCompose_DoesNotMutateInputs(t *testing.T) {
	in := testInputs(t)
	in.History = []string{nav.NoteHref("sp-1", "/a", "n1")}
	collapse := in.Collapse.Snapshot()
	history := slices.Clone(in.History)
	notes := len(in.Snapshot.Notes)

	var c Composer
	c.Compose(in)

	if !reflect.DeepEqual(in.Collapse.Snapshot(), collapse) {
		t.Error("Compose() changed the collapse store")
	}
	if !slices.Equal(in.History, history) || len(in.Snapshot.Notes) != notes {
		t.Error("Compose() changed its inputs")
	}
}

func TestCompose_BottomRows(t *testing.T) {
	in := testInputs(t)
	var c Composer

	rows := c.Compose(in).BottomRows
	if len(rows) != 2 || rows[0].Action != ActionCreateSpace || rows[1].Action != ActionSignIn || rows[1].Label != "Sign in" {
		t.Errorf("signed out rows = %+v", rows)
	}

	in.CloudUser = &state.CloudUser{ID: "u1", DisplayName: "Ann"}
	rows = c.Compose(in).BottomRows
	if len(rows) != 2 || rows[1].Action != ActionSignOut {
		t.Errorf("signed in rows = %+v", rows)
	}
}

func TestCompose_Toolbar(t *testing.T) {
	in := testInputs(t)
	in.Panel = PanelSearch
	in.SpacesOpen = true
	var c Composer

	snap := c.Compose(in)
	active := map[ToolbarItem]bool{}
	for _, r := range snap.Toolbar {
		active[r.Item] = r.Active
	}
	want := map[ToolbarItem]bool{ToolbarSpaces: true, ToolbarTree: false, ToolbarSearch: true, ToolbarTimeline: false}
	if !reflect.DeepEqual(active, want) {
		t.Errorf("toolbar active = %v, want %v", active, want)
	}
}

func TestOpenPanel(t *testing.T) {
	tests := []struct {
		current, open, want Panel
	}{
		{PanelNone, PanelTree, PanelTree},
		{PanelTree, PanelTree, PanelNone},
		{PanelTree, PanelSearch, PanelSearch},
		{PanelTimeline, ToolbarSpaces.Panel(), PanelNone},
	}
	for _, tt := range tests {
		if got := OpenPanel(tt.current, tt.open); got != tt.want {
			t.Errorf("OpenPanel(%q, %q) = %q, want %q", tt.current, tt.open, got, tt.want)
		}
	}
	if ParsePanel("bogus") != PanelNone || ParsePanel("timeline") != PanelTimeline {
		t.Error("ParsePanel() mismatch")
	}
}

func TestCompose_SpaceRows(t *testing.T) {
	in := testInputs(t)
	for i := 2; i <= 8; i++ {
		in.Spaces = append(in.Spaces, store.Space{ID: "sp-" + string(rune('0'+i)), Name: "s"})
	}
	in.Teams = []state.Team{
		{ID: "t1", Name: "Team One", Domain: "one", IconURL: "https://cdn/one.png"},
		{ID: "t2", Name: "Team Two", Domain: "two"},
	}
	in.Platform = "darwin"
	var c Composer

	rows := c.Compose(in).Spaces
	if len(rows) != 10 {
		t.Fatalf("got %d space rows, want 10", len(rows))
	}
	if rows[0].Shortcut != "⌘ 1" || !rows[0].Active {
		t.Errorf("first row = %+v", rows[0])
	}
	if rows[8].ID != "t1" || rows[8].Shortcut != "⌘ 9" || !rows[8].Remote || rows[8].IconURL == "" {
		t.Errorf("ninth row = %+v", rows[8])
	}
	if rows[9].Shortcut != "" {
		t.Errorf("tenth row shortcut = %q, want none", rows[9].Shortcut)
	}

	in.Platform = "linux"
	in.CurrentPath = nav.TeamHref("two")
	rows = c.Compose(in).Spaces
	if rows[0].Shortcut != "Ctrl 1" {
		t.Errorf("linux shortcut = %q", rows[0].Shortcut)
	}
	if rows[0].Active || !rows[9].Active {
		t.Error("team route should activate only the team row")
	}
}

func TestCompose_Sections(t *testing.T) {
	in := testInputs(t)
	var c Composer

	if got := c.Compose(in).Sections; len(got) != 0 {
		t.Errorf("sections = %+v, want none without bookmarks or tags", got)
	}

	n := in.Snapshot.Notes["n1"]
	n.Bookmarked = true
	in.Snapshot.Notes["n1"] = n
	in.Snapshot.Tags["tg-1"] = store.Tag{ID: "tg-1", SpaceID: "sp-1", Name: "todo"}
	in.Snapshot.Revision++

	sections := c.Compose(in).Sections
	if len(sections) != 2 || sections[0].Header.ID != SectionBookmarks || sections[1].Header.ID != SectionLabels {
		t.Fatalf("sections = %+v", sections)
	}
	if sections[0].Header.Expanded || len(sections[0].Rows) != 0 {
		t.Error("folded section exposed rows")
	}

	in.Collapse.Unfold(CollapseLink, SectionBookmarks)
	sections = c.Compose(in).Sections
	if !sections[0].Header.Expanded || len(sections[0].Rows) != 1 || sections[0].Rows[0].ID != "n1" {
		t.Errorf("bookmarks = %+v", sections[0])
	}
	if sections[0].Header.Label != "Bookmarks" {
		t.Errorf("header label = %q", sections[0].Header.Label)
	}
}

func TestCompose_TimelineAndHistory(t *testing.T) {
	in := testInputs(t)
	in.TimelineLimit = 1
	in.History = []string{
		nav.NoteHref("sp-1", "/a", "n1"),
		nav.NoteHref("sp-1", "/a", "n1"),
		nav.NoteHref("sp-1", "/", "nt-deleted"),
		nav.FolderHref("sp-1", "/a"),
		nav.NoteHref("sp-2", "/", "n2"),
		nav.NoteHref("sp-1", "/", "n2"),
	}
	in.CurrentPath = nav.NoteHref("sp-1", "/", "n2")
	var c Composer

	snap := c.Compose(in)
	if len(snap.Timeline) != 1 || snap.Timeline[0].ID != "n2" || !snap.Timeline[0].Active {
		t.Errorf("timeline = %+v, want only n2 (active)", snap.Timeline)
	}

	var ids []string
	for _, r := range snap.History {
		ids = append(ids, r.ID)
	}
	if !slices.Equal(ids, []string{"n1", "n2"}) {
		t.Errorf("history = %v, want [n1 n2]", ids)
	}
}

func TestCompose_NoSpace(t *testing.T) {
	in := testInputs(t)
	in.Snapshot = nil
	var c Composer

	snap := c.Compose(in)
	if snap.Tree == nil || len(snap.Tree) != 0 || len(snap.Timeline) != 0 || len(snap.History) != 0 {
		t.Errorf("no-space snapshot = %+v", snap)
	}
	if len(snap.TreeControls) != len(SortOrders) {
		t.Errorf("tree controls = %d", len(snap.TreeControls))
	}
}

func TestCompose_SearchState(t *testing.T) {
	in := testInputs(t)
	rec := &recorder{}
	in.Search = NewDebouncer(time.Millisecond, rec.search, nil)
	var c Composer

	tick := in.Search.Input("one")
	if s := c.Compose(in).Search; s.Raw != "one" || !s.Debouncing {
		t.Errorf("debouncing state = %+v", s)
	}
	resolve(t, in.Search, fire(t, in.Search, tick))
	s := c.Compose(in).Search
	if s.Pending || len(s.Results) != 1 || s.Query.Query != "one" {
		t.Errorf("resolved state = %+v", s)
	}
}
