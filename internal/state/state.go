// Package state persists UI preferences between runs: the last sidebar panel,
// sidebar width, tree sort order, opened tree nodes and the cached cloud
// account. Unlike a package-level singleton, a *Store is created at startup,
// passed to whoever needs it, and closed at shutdown.
package state

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// State holds persistent user preferences as a flat record.
type State struct {
	LastSidebarState        string `json:"lastSidebarState,omitempty"` // "", "tree", "search", "timeline"
	SideBarWidth            int    `json:"sideBarWidth,omitempty"`     // 0 = use default
	SidebarTreeSortingOrder string `json:"sidebarTreeSortingOrder,omitempty"`
	CurrentSpace            string `json:"currentSpace,omitempty"`

	// Opened (expanded) tree nodes, one list per collapse namespace.
	OpenedLinks    []string `json:"openedLinks,omitempty"`
	OpenedFolders  []string `json:"openedFolders,omitempty"`
	OpenedStorages []string `json:"openedStorages,omitempty"`

	// Cloud account, cleared on sign out.
	CloudUser     *CloudUser `json:"cloudUser,omitempty"`
	BoostHubTeams []Team     `json:"boostHubTeams,omitempty"`
}

// CloudUser is the signed-in remote account.
type CloudUser struct {
	ID          string `json:"id"`
	UniqueName  string `json:"uniqueName,omitempty"`
	DisplayName string `json:"displayName"`
}

// Team is a remote space the cloud user belongs to.
type Team struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Domain  string `json:"domain"`
	IconURL string `json:"iconUrl,omitempty"`
}

// Store owns the State record and its file.
type Store struct {
	mu      sync.RWMutex
	path    string
	current State
	logger  *slog.Logger

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int
}

// New creates a store backed by dir/state.json. Call Load before use.
func New(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   filepath.Join(dir, "state.json"),
		logger: logger,
		subs:   make(map[int]func(State)),
	}
}

// Path returns the state file location.
func (s *Store) Path() string { return s.path }

// Load reads state from disk. A missing file leaves the defaults in place.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = State{}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, &s.current)
}

// Save writes state to disk.
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.current, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Get returns a copy of the current state.
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Update applies fn to the state, persists it and notifies subscribers.
// A failed save is returned but the in-memory update is kept.
func (s *Store) Update(fn func(*State)) error {
	s.mu.Lock()
	fn(&s.current)
	snapshot := s.current.clone()
	s.mu.Unlock()

	err := s.Save()
	if err != nil {
		s.logger.Warn("state save failed", "path", s.path, "err", err)
	}

	s.subMu.Lock()
	subs := make([]func(State), 0, len(s.subs))
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		subs = append(subs, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}
	return err
}

// Subscribe registers fn to be called after every Update, in registration
// order. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Close persists the final state and drops all subscribers.
func (s *Store) Close() error {
	s.subMu.Lock()
	s.subs = make(map[int]func(State))
	s.subMu.Unlock()
	return s.Save()
}

func (st State) clone() State {
	out := st
	out.OpenedLinks = slices.Clone(st.OpenedLinks)
	out.OpenedFolders = slices.Clone(st.OpenedFolders)
	out.OpenedStorages = slices.Clone(st.OpenedStorages)
	out.BoostHubTeams = slices.Clone(st.BoostHubTeams)
	if st.CloudUser != nil {
		u := *st.CloudUser
		out.CloudUser = &u
	}
	return out
}
