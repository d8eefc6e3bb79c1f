package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RootPathname is the pathname of every space's root folder.
const RootPathname = "/"

// Folder is a node of a space's folder hierarchy.
type Folder struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	SpaceID   string    `json:"spaceId"`
	ParentID  string    `json:"parentId,omitempty"` // empty for the root folder
	Name      string    `json:"name"`
	Pathname  string    `json:"pathname"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsRoot reports whether f is its space's root folder.
func (f Folder) IsRoot() bool { return f.ParentID == "" }

// FolderUpdate lists the fields UpdateFolder changes; nil fields are kept.
// A ParentID in another space moves the folder (and its subtree) there.
type FolderUpdate struct {
	Name     *string
	ParentID *string
	Position *int
}

// JoinPath appends name to a folder pathname.
func JoinPath(parent, name string) string {
	if parent == RootPathname || parent == "" {
		return RootPathname + name
	}
	return parent + "/" + name
}

// ParentPath returns the pathname of the folder containing pathname.
// The root has no parent and yields "".
func ParentPath(pathname string) string {
	if pathname == RootPathname || pathname == "" {
		return ""
	}
	i := strings.LastIndexByte(pathname, '/')
	if i <= 0 {
		return RootPathname
	}
	return pathname[:i]
}

// BaseName returns the last segment of pathname.
func BaseName(pathname string) string {
	return pathname[strings.LastIndexByte(pathname, '/')+1:]
}

// IsDescendantPath reports whether pathname lies strictly below ancestor.
func IsDescendantPath(pathname, ancestor string) bool {
	if ancestor == RootPathname {
		return pathname != RootPathname && strings.HasPrefix(pathname, RootPathname)
	}
	return strings.HasPrefix(pathname, ancestor+"/")
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.Contains(name, "/") {
		return "", fmt.Errorf("folder name %q: %w", name, ErrInvalidName)
	}
	return name, nil
}

const folderColumns = `id, seq, space_id, parent_id, name, pathname, position, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanFolder(sc scanner) (Folder, error) {
	var f Folder
	var createdAt, updatedAt string
	err := sc.Scan(&f.ID, &f.Seq, &f.SpaceID, &f.ParentID, &f.Name, &f.Pathname,
		&f.Position, &createdAt, &updatedAt)
	if err != nil {
		return f, err
	}
	f.CreatedAt = parseTime(createdAt)
	f.UpdatedAt = parseTime(updatedAt)
	return f, nil
}

func queryFolders(q querier, query string, args ...any) ([]Folder, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query folders: %w", err)
	}
	defer rows.Close()

	var folders []Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func getFolder(q querier, id string) (*Folder, error) {
	f, err := scanFolder(q.QueryRow(`SELECT `+folderColumns+` FROM folders WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("folder %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query folder: %w", err)
	}
	return &f, nil
}

func folderByPath(q querier, spaceID, pathname string) (*Folder, error) {
	f, err := scanFolder(q.QueryRow(`
		SELECT `+folderColumns+` FROM folders WHERE space_id = ? AND pathname = ?
	`, spaceID, pathname))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("folder %s%s: %w", spaceID, pathname, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query folder: %w", err)
	}
	return &f, nil
}

func pathExists(q querier, spaceID, pathname string) (bool, error) {
	var n int
	err := q.QueryRow(`SELECT COUNT(*) FROM folders WHERE space_id = ? AND pathname = ?`,
		spaceID, pathname).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query pathname: %w", err)
	}
	return n > 0, nil
}

func nextPosition(q querier, table, parentColumn, parentID string) (int, error) {
	var pos int
	err := q.QueryRow(`SELECT COALESCE(MAX(position), -1) + 1 FROM `+table+` WHERE `+parentColumn+` = ?`,
		parentID).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("query position: %w", err)
	}
	return pos, nil
}

func insertFolder(q querier, spaceID, parentID, name, pathname string) (*Folder, error) {
	exists, err := pathExists(q, spaceID, pathname)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("folder %s: %w", pathname, ErrExists)
	}

	id, err := generateID("fd-")
	if err != nil {
		return nil, fmt.Errorf("generate ID: %w", err)
	}
	pos := 0
	if parentID != "" {
		if pos, err = nextPosition(q, "folders", "parent_id", parentID); err != nil {
			return nil, err
		}
	}

	t := now()
	f := &Folder{
		ID:        id,
		SpaceID:   spaceID,
		ParentID:  parentID,
		Name:      name,
		Pathname:  pathname,
		Position:  pos,
		CreatedAt: t,
		UpdatedAt: t,
	}
	res, err := q.Exec(`
		INSERT INTO folders (id, space_id, parent_id, name, pathname, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, f.ID, f.SpaceID, f.ParentID, f.Name, f.Pathname, f.Position, formatTime(t), formatTime(t))
	if err != nil {
		return nil, fmt.Errorf("insert folder: %w", err)
	}
	f.Seq, _ = res.LastInsertId()
	return f, nil
}

// ensureFolderPath returns the folder at pathname, creating missing
// ancestors from the root down.
func ensureFolderPath(q querier, spaceID, pathname string) (*Folder, error) {
	if pathname == "" {
		pathname = RootPathname
	}
	current, err := folderByPath(q, spaceID, RootPathname)
	if err != nil {
		return nil, err
	}
	for _, seg := range strings.Split(strings.Trim(pathname, "/"), "/") {
		if seg == "" {
			continue
		}
		name, err := validName(seg)
		if err != nil {
			return nil, err
		}
		next, err := folderByPath(q, spaceID, JoinPath(current.Pathname, name))
		if err == nil {
			current = next
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		current, err = insertFolder(q, spaceID, current.ID, name, JoinPath(current.Pathname, name))
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

func descendantFolders(q querier, f *Folder) ([]Folder, error) {
	prefix := f.Pathname + "/"
	if f.IsRoot() {
		prefix = RootPathname
	}
	return queryFolders(q, `
		SELECT `+folderColumns+` FROM folders
		WHERE space_id = ? AND pathname != ? AND substr(pathname, 1, length(?)) = ?
		ORDER BY seq
	`, f.SpaceID, f.Pathname, prefix, prefix)
}

// Folder retrieves a folder by ID.
func (s *Store) Folder(id string) (*Folder, error) {
	return getFolder(s.db, id)
}

// RootFolder returns the "/" folder of a space.
func (s *Store) RootFolder(spaceID string) (*Folder, error) {
	return folderByPath(s.db, spaceID, RootPathname)
}

// CreateFolder adds a folder named name under parentID. An empty parentID
// means the space's root folder.
func (s *Store) CreateFolder(spaceID, parentID, name string) (*Folder, error) {
	name, err := validName(name)
	if err != nil {
		return nil, err
	}

	var folder *Folder
	err = s.withTx(func(tx *sql.Tx) error {
		var parent *Folder
		var err error
		if parentID == "" {
			parent, err = folderByPath(tx, spaceID, RootPathname)
		} else {
			parent, err = getFolder(tx, parentID)
		}
		if err != nil {
			return err
		}
		if parent.SpaceID != spaceID {
			return fmt.Errorf("folder %s in space %s: %w", parent.ID, spaceID, ErrNotFound)
		}
		folder, err = insertFolder(tx, spaceID, parent.ID, name, JoinPath(parent.Pathname, name))
		return err
	})
	if err != nil {
		return nil, err
	}
	return folder, nil
}

// EnsureFolderPath returns the folder at pathname, creating it and any
// missing ancestors.
func (s *Store) EnsureFolderPath(spaceID, pathname string) (*Folder, error) {
	var folder *Folder
	err := s.withTx(func(tx *sql.Tx) error {
		var err error
		folder, err = ensureFolderPath(tx, spaceID, pathname)
		return err
	})
	return folder, err
}

// UpdateFolder renames, moves or repositions a folder. Moving or renaming
// rewrites the pathnames of every descendant folder and note.
func (s *Store) UpdateFolder(id string, u FolderUpdate) (*Folder, error) {
	var updated *Folder
	err := s.withTx(func(tx *sql.Tx) error {
		f, err := getFolder(tx, id)
		if err != nil {
			return err
		}
		if f.IsRoot() && (u.Name != nil || u.ParentID != nil) {
			return ErrRootFolder
		}

		name := f.Name
		if u.Name != nil {
			if name, err = validName(*u.Name); err != nil {
				return err
			}
		}

		parentPath := ParentPath(f.Pathname)
		parentID, spaceID := f.ParentID, f.SpaceID
		position := f.Position
		if u.ParentID != nil && *u.ParentID != f.ParentID {
			parent, err := getFolder(tx, *u.ParentID)
			if err != nil {
				return err
			}
			if parent.ID == f.ID || (parent.SpaceID == f.SpaceID && IsDescendantPath(parent.Pathname, f.Pathname)) {
				return fmt.Errorf("move %s under %s: %w", f.Pathname, parent.Pathname, ErrCycle)
			}
			parentPath, parentID, spaceID = parent.Pathname, parent.ID, parent.SpaceID
			if position, err = nextPosition(tx, "folders", "parent_id", parentID); err != nil {
				return err
			}
		}
		if u.Position != nil {
			position = *u.Position
		}

		newPath := JoinPath(parentPath, name)
		moved := newPath != f.Pathname || spaceID != f.SpaceID
		if moved {
			exists, err := pathExists(tx, spaceID, newPath)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("folder %s: %w", newPath, ErrExists)
			}
		}

		var descendants []Folder
		if moved {
			if descendants, err = descendantFolders(tx, f); err != nil {
				return err
			}
		}

		t := formatTime(now())
		_, err = tx.Exec(`
			UPDATE folders SET space_id = ?, parent_id = ?, name = ?, pathname = ?, position = ?, updated_at = ?
			WHERE id = ?
		`, spaceID, parentID, name, newPath, position, t, f.ID)
		if err != nil {
			return fmt.Errorf("update folder: %w", err)
		}

		if moved {
			oldPath := f.Pathname
			if err := rehomeNotes(tx, f.ID, spaceID, newPath); err != nil {
				return err
			}
			for _, d := range descendants {
				p := newPath + d.Pathname[len(oldPath):]
				_, err := tx.Exec(`UPDATE folders SET space_id = ?, pathname = ?, updated_at = ? WHERE id = ?`,
					spaceID, p, t, d.ID)
				if err != nil {
					return fmt.Errorf("update descendant folder: %w", err)
				}
				if err := rehomeNotes(tx, d.ID, spaceID, p); err != nil {
					return err
				}
			}
		}

		updated, err = getFolder(tx, f.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// rehomeNotes points the notes of folderID at a new pathname and space,
// creating their tags in the destination space when it changed.
func rehomeNotes(tx *sql.Tx, folderID, spaceID, pathname string) error {
	notes, err := queryNotes(tx, `SELECT `+noteColumns+` FROM notes WHERE folder_id = ?`, folderID)
	if err != nil {
		return err
	}
	for _, n := range notes {
		if n.SpaceID != spaceID {
			if err := ensureTags(tx, spaceID, n.Tags); err != nil {
				return err
			}
		}
	}
	_, err = tx.Exec(`UPDATE notes SET space_id = ?, folder_pathname = ? WHERE folder_id = ?`,
		spaceID, pathname, folderID)
	if err != nil {
		return fmt.Errorf("update note pathnames: %w", err)
	}
	return nil
}

// DeleteFolder removes a folder, its descendants and all of their notes.
func (s *Store) DeleteFolder(id string) error {
	return s.withTx(func(tx *sql.Tx) error {
		f, err := getFolder(tx, id)
		if err != nil {
			return err
		}
		if f.IsRoot() {
			return ErrRootFolder
		}
		descendants, err := descendantFolders(tx, f)
		if err != nil {
			return err
		}
		for _, d := range append(descendants, *f) {
			if _, err := tx.Exec(`DELETE FROM notes WHERE folder_id = ?`, d.ID); err != nil {
				return fmt.Errorf("delete folder notes: %w", err)
			}
			if _, err := tx.Exec(`DELETE FROM folders WHERE id = ?`, d.ID); err != nil {
				return fmt.Errorf("delete folder: %w", err)
			}
		}
		return nil
	})
}

// ValidatePathnames checks that every folder's pathname matches the chain
// of its parent IDs and every note's cached pathname matches its folder.
func (s *Store) ValidatePathnames(spaceID string) error {
	folders, err := queryFolders(s.db, `SELECT `+folderColumns+` FROM folders WHERE space_id = ?`, spaceID)
	if err != nil {
		return err
	}
	byID := make(map[string]Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}
	for _, f := range folders {
		if got := WalkPathname(byID, f.ID); got != f.Pathname {
			return fmt.Errorf("folder %s: pathname %q, parent chain gives %q", f.ID, f.Pathname, got)
		}
	}

	notes, err := queryNotes(s.db, `SELECT `+noteColumns+` FROM notes WHERE space_id = ?`, spaceID)
	if err != nil {
		return err
	}
	for _, n := range notes {
		f, ok := byID[n.FolderID]
		if !ok {
			return fmt.Errorf("note %s: folder %s missing", n.ID, n.FolderID)
		}
		if n.FolderPathname != f.Pathname {
			return fmt.Errorf("note %s: pathname %q, folder has %q", n.ID, n.FolderPathname, f.Pathname)
		}
	}
	return nil
}

// WalkPathname rebuilds a folder's pathname by following ParentID links.
// A missing or cyclic chain yields "".
func WalkPathname(folders map[string]Folder, id string) string {
	var names []string
	seen := make(map[string]bool)
	for {
		f, ok := folders[id]
		if !ok || seen[id] {
			return ""
		}
		seen[id] = true
		if f.IsRoot() {
			break
		}
		names = append(names, f.Name)
		id = f.ParentID
	}
	path := RootPathname
	for i := len(names) - 1; i >= 0; i-- {
		path = JoinPath(path, names[i])
	}
	return path
}
