package nav

import (
	"slices"
	"strings"
)

const defaultHistoryLimit = 20

// Router holds the current pathname and hash plus a most-recent-first list
// of visited pathnames. It is owned by the update loop and is not safe for
// concurrent use.
type Router struct {
	pathname string
	hash     string
	history  []string
	limit    int
}

// NewRouter creates a router positioned at start. limit caps History; a
// non-positive limit uses the default.
func NewRouter(start string, limit int) *Router {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	r := &Router{limit: limit}
	if start != "" {
		r.Push(start)
	}
	return r
}

// Push navigates to target, which may carry a "#hash" suffix.
func (r *Router) Push(target string) {
	path, hash, _ := strings.Cut(target, "#")
	if path == "" {
		r.hash = hash
		return
	}
	r.pathname = path
	r.hash = hash

	if i := slices.Index(r.history, path); i >= 0 {
		r.history = slices.Delete(r.history, i, i+1)
	}
	r.history = slices.Insert(r.history, 0, path)
	if len(r.history) > r.limit {
		r.history = r.history[:r.limit]
	}
}

// PushHash replaces the hash and keeps the pathname.
func (r *Router) PushHash(hash string) {
	r.hash = strings.TrimPrefix(hash, "#")
}

// Pathname returns the current pathname.
func (r *Router) Pathname() string { return r.pathname }

// Hash returns the current hash without the leading '#'.
func (r *Router) Hash() string { return r.hash }

// Route parses the current pathname.
func (r *Router) Route() Route { return ParseRoute(r.pathname) }

// History returns visited pathnames, most recent first.
func (r *Router) History() []string { return slices.Clone(r.history) }

// Forget drops pathnames for which drop returns true, e.g. after a note is
// deleted.
func (r *Router) Forget(drop func(string) bool) {
	r.history = slices.DeleteFunc(r.history, drop)
}
