package sidebar

import (
	"slices"
)

// CollapsableType partitions the collapse key space so that a folder and a
// link sharing a key never collide.
type CollapsableType int

const (
	CollapseFolder CollapsableType = iota
	CollapseLink
	CollapseStorage

	numCollapsableTypes = 3
)

func (t CollapsableType) String() string {
	switch t {
	case CollapseFolder:
		return "folder"
	case CollapseLink:
		return "link"
	case CollapseStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// CollapseKey addresses one expandable node.
type CollapseKey struct {
	Type CollapsableType
	Key  string
}

// CollapseSets is the persisted form of a CollapseStore.
type CollapseSets struct {
	Folders  []string
	Links    []string
	Storages []string
}

// CollapseStore remembers which tree nodes are expanded. Membership in a
// type's opened set means the node renders expanded. Operations are total
// and idempotent; subscribers are notified only when membership changes.
//
// The store is owned by the update loop and is not safe for concurrent use.
type CollapseStore struct {
	opened   [numCollapsableTypes]map[string]struct{}
	versions [numCollapsableTypes]uint64

	subs    map[int]func(CollapsableType)
	nextSub int
}

// NewCollapseStore returns a store with every node folded.
func NewCollapseStore() *CollapseStore {
	c := &CollapseStore{subs: make(map[int]func(CollapsableType))}
	for i := range c.opened {
		c.opened[i] = make(map[string]struct{})
	}
	return c
}

func (c *CollapseStore) set(t CollapsableType) map[string]struct{} {
	if t < 0 || t >= numCollapsableTypes {
		return nil
	}
	return c.opened[t]
}

// Fold removes key from the opened set of t.
func (c *CollapseStore) Fold(t CollapsableType, key string) {
	s := c.set(t)
	if s == nil {
		return
	}
	if _, ok := s[key]; !ok {
		return
	}
	delete(s, key)
	c.changed(t)
}

// Unfold adds key to the opened set of t.
func (c *CollapseStore) Unfold(t CollapsableType, key string) {
	s := c.set(t)
	if s == nil {
		return
	}
	if _, ok := s[key]; ok {
		return
	}
	s[key] = struct{}{}
	c.changed(t)
}

// Toggle unfolds a folded key and folds an opened one.
func (c *CollapseStore) Toggle(t CollapsableType, key string) {
	if c.IsOpened(t, key) {
		c.Fold(t, key)
	} else {
		c.Unfold(t, key)
	}
}

// IsOpened reports whether key is expanded.
func (c *CollapseStore) IsOpened(t CollapsableType, key string) bool {
	_, ok := c.set(t)[key]
	return ok
}

// Version changes whenever any set changes.
func (c *CollapseStore) Version() uint64 {
	var v uint64
	for _, tv := range c.versions {
		v += tv
	}
	return v
}

// TypeVersion changes whenever the set of t changes.
func (c *CollapseStore) TypeVersion(t CollapsableType) uint64 {
	if t < 0 || t >= numCollapsableTypes {
		return 0
	}
	return c.versions[t]
}

// Subscribe registers fn to run after a set changes. The returned func
// removes it.
func (c *CollapseStore) Subscribe(fn func(CollapsableType)) func() {
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

// Snapshot returns the opened keys of every type, sorted.
func (c *CollapseStore) Snapshot() CollapseSets {
	return CollapseSets{
		Folders:  c.keys(CollapseFolder),
		Links:    c.keys(CollapseLink),
		Storages: c.keys(CollapseStorage),
	}
}

// Restore replaces all sets and notifies subscribers once per type.
func (c *CollapseStore) Restore(sets CollapseSets) {
	for t, keys := range map[CollapsableType][]string{
		CollapseFolder:  sets.Folders,
		CollapseLink:    sets.Links,
		CollapseStorage: sets.Storages,
	} {
		m := make(map[string]struct{}, len(keys))
		for _, k := range keys {
			m[k] = struct{}{}
		}
		c.opened[t] = m
		c.versions[t]++
	}
	for t := CollapsableType(0); t < numCollapsableTypes; t++ {
		c.notify(t)
	}
}

func (c *CollapseStore) keys(t CollapsableType) []string {
	out := make([]string, 0, len(c.opened[t]))
	for k := range c.opened[t] {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (c *CollapseStore) changed(t CollapsableType) {
	c.versions[t]++
	c.notify(t)
}

func (c *CollapseStore) notify(t CollapsableType) {
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := c.subs[id]; ok {
			fn(t)
		}
	}
}
