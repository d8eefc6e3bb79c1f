package nav

import (
	"slices"
	"testing"
)

func TestParseRoute(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Route
	}{
		{"root folder", "/app/storages/sp-1/notes", Route{Kind: RouteFolder, SpaceID: "sp-1", FolderPathname: "/"}},
		{"nested folder", "/app/storages/sp-1/notes/a/b", Route{Kind: RouteFolder, SpaceID: "sp-1", FolderPathname: "/a/b"}},
		{"note in root", "/app/storages/sp-1/notes/nt-abc", Route{Kind: RouteNote, SpaceID: "sp-1", FolderPathname: "/", NoteID: "nt-abc"}},
		{"note in folder", "/app/storages/sp-1/notes/a/nt-abc", Route{Kind: RouteNote, SpaceID: "sp-1", FolderPathname: "/a", NoteID: "nt-abc"}},
		{"tag", "/app/storages/sp-1/tags/to%20do", Route{Kind: RouteTag, SpaceID: "sp-1", TagName: "to do"}},
		{"team", "/app/boosthub/teams/acme", Route{Kind: RouteTeam, TeamDomain: "acme"}},
		{"login", "/app/boosthub/login", Route{Kind: RouteLogin}},
		{"unknown", "/settings", Route{}},
		{"no space", "/app/storages/", Route{}},
		{"other section", "/app/storages/sp-1/archive", Route{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRoute(tt.path); got != tt.want {
				t.Errorf("ParseRoute(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestHrefsRoundTrip(t *testing.T) {
	if got := ParseRoute(FolderHref("sp-1", "/a")); got.Kind != RouteFolder || got.FolderPathname != "/a" {
		t.Errorf("folder href parsed as %+v", got)
	}
	if got := ParseRoute(NoteHref("sp-1", "/", "nt-1")); got.Kind != RouteNote || got.NoteID != "nt-1" {
		t.Errorf("note href parsed as %+v", got)
	}
	if got := ParseRoute(TagHref("sp-1", "a/b")); got.Kind != RouteTag || got.TagName != "a/b" {
		t.Errorf("tag href parsed as %+v", got)
	}
	if FolderHref("sp-1", "/") != "/app/storages/sp-1/notes" {
		t.Errorf("root folder href = %q", FolderHref("sp-1", "/"))
	}
}

func TestRouter_PushAndHash(t *testing.T) {
	r := NewRouter("/app/storages/sp-1/notes", 0)

	r.Push("/app/storages/sp-1/notes/nt-1#new")
	if r.Pathname() != "/app/storages/sp-1/notes/nt-1" || r.Hash() != "new" {
		t.Errorf("after push: %q #%q", r.Pathname(), r.Hash())
	}

	r.PushHash("")
	if r.Hash() != "" || r.Pathname() != "/app/storages/sp-1/notes/nt-1" {
		t.Errorf("after PushHash: %q #%q", r.Pathname(), r.Hash())
	}

	r.Push("#top")
	if r.Hash() != "top" || r.Pathname() != "/app/storages/sp-1/notes/nt-1" {
		t.Errorf("hash-only push changed pathname: %q #%q", r.Pathname(), r.Hash())
	}
	if r.Route().NoteID != "nt-1" {
		t.Errorf("Route() = %+v", r.Route())
	}
}

func TestRouter_History(t *testing.T) {
	r := NewRouter("", 3)
	for _, p := range []string{"/a", "/b", "/a", "/c", "/d"} {
		r.Push(p)
	}

	want := []string{"/d", "/c", "/a"}
	if got := r.History(); !slices.Equal(got, want) {
		t.Errorf("History() = %v, want %v", got, want)
	}

	r.Forget(func(p string) bool { return p == "/c" })
	if got := r.History(); !slices.Equal(got, []string{"/d", "/a"}) {
		t.Errorf("History() after Forget = %v", got)
	}
}
