package store

import (
	"database/sql"
	"fmt"
)

// Snapshot is a consistent read of one space, keyed by ID.
type Snapshot struct {
	Space    Space
	Folders  map[string]Folder
	Notes    map[string]Note
	Tags     map[string]Tag
	Revision int64
}

// Snapshot reads every folder, note and tag of a space in one transaction.
func (s *Store) Snapshot(spaceID string) (*Snapshot, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	snap := &Snapshot{
		Folders: make(map[string]Folder),
		Notes:   make(map[string]Note),
		Tags:    make(map[string]Tag),
	}

	var createdAt, updatedAt string
	err = tx.QueryRow(`SELECT id, seq, name, created_at, updated_at FROM spaces WHERE id = ?`, spaceID).
		Scan(&snap.Space.ID, &snap.Space.Seq, &snap.Space.Name, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("space %s: %w", spaceID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query space: %w", err)
	}
	snap.Space.CreatedAt = parseTime(createdAt)
	snap.Space.UpdatedAt = parseTime(updatedAt)

	folders, err := queryFolders(tx, `SELECT `+folderColumns+` FROM folders WHERE space_id = ?`, spaceID)
	if err != nil {
		return nil, err
	}
	for _, f := range folders {
		snap.Folders[f.ID] = f
	}

	notes, err := queryNotes(tx, `SELECT `+noteColumns+` FROM notes WHERE space_id = ?`, spaceID)
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		snap.Notes[n.ID] = n
	}

	rows, err := tx.Query(`SELECT id, seq, space_id, name, created_at FROM tags WHERE space_id = ?`, spaceID)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Seq, &t.SpaceID, &t.Name, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		t.CreatedAt = parseTime(createdAt)
		snap.Tags[t.ID] = t
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}

	err = tx.QueryRow(`SELECT value FROM meta WHERE key = 'revision'`).Scan(&snap.Revision)
	if err != nil {
		return nil, fmt.Errorf("query revision: %w", err)
	}
	return snap, nil
}

// FolderByPath looks up a folder of the snapshot by pathname.
func (snap *Snapshot) FolderByPath(pathname string) (Folder, bool) {
	for _, f := range snap.Folders {
		if f.Pathname == pathname {
			return f, true
		}
	}
	return Folder{}, false
}

// Root returns the snapshot's root folder.
func (snap *Snapshot) Root() (Folder, bool) {
	return snap.FolderByPath(RootPathname)
}
