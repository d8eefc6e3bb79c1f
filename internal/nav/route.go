// Package nav tracks the current location inside the app and maps between
// routes and the resources they address.
package nav

import (
	"net/url"
	"strings"
)

const (
	storagesPrefix = "/app/storages/"
	teamsPrefix    = "/app/boosthub/teams/"

	// LoginPath is the route of the cloud sign-in screen.
	LoginPath = "/app/boosthub/login"

	// NewHash marks a freshly created note whose title should take focus.
	NewHash = "new"
)

// RouteKind classifies a pathname.
type RouteKind int

const (
	RouteUnknown RouteKind = iota
	RouteFolder
	RouteNote
	RouteTag
	RouteTeam
	RouteLogin
)

// Route is a parsed pathname.
type Route struct {
	Kind           RouteKind
	SpaceID        string
	FolderPathname string // folder and note routes
	NoteID         string
	TagName        string
	TeamDomain     string
}

// FolderHref is the route of a folder; the root folder maps to the notes
// base of its space.
func FolderHref(spaceID, pathname string) string {
	base := storagesPrefix + spaceID + "/notes"
	if pathname == "/" || pathname == "" {
		return base
	}
	return base + pathname
}

// NoteHref is the route of a note inside its folder.
func NoteHref(spaceID, folderPathname, noteID string) string {
	return FolderHref(spaceID, folderPathname) + "/" + noteID
}

// TagHref is the route listing notes with a tag.
func TagHref(spaceID, tag string) string {
	return storagesPrefix + spaceID + "/tags/" + url.PathEscape(tag)
}

// TeamHref is the route of a remote team space.
func TeamHref(domain string) string {
	return teamsPrefix + domain
}

// ParseRoute classifies pathname. Note IDs are recognized by their "nt-"
// prefix as the final segment of a notes route.
func ParseRoute(pathname string) Route {
	if pathname == LoginPath {
		return Route{Kind: RouteLogin}
	}
	if domain, ok := strings.CutPrefix(pathname, teamsPrefix); ok && domain != "" && !strings.Contains(domain, "/") {
		return Route{Kind: RouteTeam, TeamDomain: domain}
	}

	rest, ok := strings.CutPrefix(pathname, storagesPrefix)
	if !ok {
		return Route{}
	}
	spaceID, rest, _ := strings.Cut(rest, "/")
	if spaceID == "" {
		return Route{}
	}

	if tag, ok := strings.CutPrefix(rest, "tags/"); ok {
		name, err := url.PathUnescape(tag)
		if err != nil || name == "" {
			return Route{}
		}
		return Route{Kind: RouteTag, SpaceID: spaceID, TagName: name}
	}

	if rest != "notes" && !strings.HasPrefix(rest, "notes/") {
		return Route{}
	}
	path := strings.TrimSuffix(strings.TrimPrefix(rest, "notes"), "/")
	if path == "" {
		return Route{Kind: RouteFolder, SpaceID: spaceID, FolderPathname: "/"}
	}

	last := path[strings.LastIndexByte(path, '/')+1:]
	if strings.HasPrefix(last, "nt-") {
		folder := strings.TrimSuffix(path, "/"+last)
		if folder == "" {
			folder = "/"
		}
		return Route{Kind: RouteNote, SpaceID: spaceID, FolderPathname: folder, NoteID: last}
	}
	return Route{Kind: RouteFolder, SpaceID: spaceID, FolderPathname: path}
}
