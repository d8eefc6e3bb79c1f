package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Note is a document stored in a folder.
type Note struct {
	ID             string    `json:"id"`
	Seq            int64     `json:"seq"`
	SpaceID        string    `json:"spaceId"`
	FolderID       string    `json:"folderId"`
	FolderPathname string    `json:"folderPathname"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Tags           []string  `json:"tags"`
	Bookmarked     bool      `json:"bookmarked"`
	Archived       bool      `json:"archived"`
	Position       int       `json:"position"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NoteProps describes a note to create. An empty FolderPathname means the
// root folder; missing folders along the path are created.
type NoteProps struct {
	FolderPathname string
	Title          string
	Content        string
	Tags           []string
}

// NoteUpdate lists the fields UpdateNote changes; nil fields are kept.
type NoteUpdate struct {
	Title    *string
	Content  *string
	Tags     *[]string
	Position *int
}

// Tag is a label attached to notes by name.
type Tag struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	SpaceID   string    `json:"spaceId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

const noteColumns = `id, seq, space_id, folder_id, folder_pathname, title, content, tags,
	bookmarked, archived, position, created_at, updated_at`

func scanNote(sc scanner) (Note, error) {
	var n Note
	var tags, createdAt, updatedAt string
	var bookmarked, archived int
	err := sc.Scan(&n.ID, &n.Seq, &n.SpaceID, &n.FolderID, &n.FolderPathname, &n.Title,
		&n.Content, &tags, &bookmarked, &archived, &n.Position, &createdAt, &updatedAt)
	if err != nil {
		return n, err
	}
	if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
		n.Tags = nil
	}
	n.Bookmarked = bookmarked == 1
	n.Archived = archived == 1
	n.CreatedAt = parseTime(createdAt)
	n.UpdatedAt = parseTime(updatedAt)
	return n, nil
}

func queryNotes(q querier, query string, args ...any) ([]Note, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func getNote(q querier, id string) (*Note, error) {
	n, err := scanNote(q.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query note: %w", err)
	}
	return &n, nil
}

// normalizeTags trims, drops blanks and duplicates, keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func encodeTags(tags []string) (string, error) {
	b, err := json.Marshal(normalizeTags(tags))
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(b), nil
}

func ensureTags(q querier, spaceID string, tags []string) error {
	for _, name := range normalizeTags(tags) {
		id, err := generateID("tg-")
		if err != nil {
			return fmt.Errorf("generate ID: %w", err)
		}
		_, err = q.Exec(`
			INSERT OR IGNORE INTO tags (id, space_id, name, created_at) VALUES (?, ?, ?, ?)
		`, id, spaceID, name, formatTime(now()))
		if err != nil {
			return fmt.Errorf("insert tag: %w", err)
		}
	}
	return nil
}

// Note retrieves a note by ID.
func (s *Store) Note(id string) (*Note, error) {
	return getNote(s.db, id)
}

// CreateNote inserts a note into spaceID at props.FolderPathname.
func (s *Store) CreateNote(spaceID string, props NoteProps) (*Note, error) {
	var note *Note
	err := s.withTx(func(tx *sql.Tx) error {
		folder, err := ensureFolderPath(tx, spaceID, props.FolderPathname)
		if err != nil {
			return err
		}
		tags, err := encodeTags(props.Tags)
		if err != nil {
			return err
		}
		if err := ensureTags(tx, spaceID, props.Tags); err != nil {
			return err
		}
		id, err := generateID("nt-")
		if err != nil {
			return fmt.Errorf("generate ID: %w", err)
		}
		pos, err := nextPosition(tx, "notes", "folder_id", folder.ID)
		if err != nil {
			return err
		}

		t := formatTime(now())
		_, err = tx.Exec(`
			INSERT INTO notes (id, space_id, folder_id, folder_pathname, title, content, tags, position, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, id, spaceID, folder.ID, folder.Pathname, props.Title, props.Content, tags, pos, t, t)
		if err != nil {
			return fmt.Errorf("insert note: %w", err)
		}
		note, err = getNote(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// UpdateNote changes a note's title, content, tags or position.
func (s *Store) UpdateNote(id string, u NoteUpdate) (*Note, error) {
	var note *Note
	err := s.withTx(func(tx *sql.Tx) error {
		n, err := getNote(tx, id)
		if err != nil {
			return err
		}
		if u.Title != nil {
			n.Title = *u.Title
		}
		if u.Content != nil {
			n.Content = *u.Content
		}
		if u.Tags != nil {
			n.Tags = *u.Tags
			if err := ensureTags(tx, n.SpaceID, n.Tags); err != nil {
				return err
			}
		}
		if u.Position != nil {
			n.Position = *u.Position
		}
		tags, err := encodeTags(n.Tags)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			UPDATE notes SET title = ?, content = ?, tags = ?, position = ?, updated_at = ? WHERE id = ?
		`, n.Title, n.Content, tags, n.Position, formatTime(now()), id)
		if err != nil {
			return fmt.Errorf("update note: %w", err)
		}
		note, err = getNote(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// MoveNote places a note at the end of folderID, which may belong to
// another space.
func (s *Store) MoveNote(id, folderID string) (*Note, error) {
	var note *Note
	err := s.withTx(func(tx *sql.Tx) error {
		n, err := getNote(tx, id)
		if err != nil {
			return err
		}
		folder, err := getFolder(tx, folderID)
		if err != nil {
			return err
		}
		if folder.SpaceID != n.SpaceID {
			if err := ensureTags(tx, folder.SpaceID, n.Tags); err != nil {
				return err
			}
		}
		pos := n.Position
		if folder.ID != n.FolderID {
			if pos, err = nextPosition(tx, "notes", "folder_id", folder.ID); err != nil {
				return err
			}
		}
		_, err = tx.Exec(`
			UPDATE notes SET space_id = ?, folder_id = ?, folder_pathname = ?, position = ?, updated_at = ?
			WHERE id = ?
		`, folder.SpaceID, folder.ID, folder.Pathname, pos, formatTime(now()), id)
		if err != nil {
			return fmt.Errorf("move note: %w", err)
		}
		note, err = getNote(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteNote removes a note permanently.
func (s *Store) DeleteNote(id string) error {
	return s.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM notes WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete note: %w", err)
		}
		return expectRow(res, "note", id)
	})
}

// ToggleArchived flips the archived flag of a note.
func (s *Store) ToggleArchived(id string) (*Note, error) {
	return s.toggle(id, "archived")
}

// ToggleBookmark flips the bookmarked flag of a note.
func (s *Store) ToggleBookmark(id string) (*Note, error) {
	return s.toggle(id, "bookmarked")
}

func (s *Store) toggle(id, column string) (*Note, error) {
	var note *Note
	err := s.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`UPDATE notes SET `+column+` = 1 - `+column+`, updated_at = ? WHERE id = ?`,
			formatTime(now()), id)
		if err != nil {
			return fmt.Errorf("toggle %s: %w", column, err)
		}
		if err := expectRow(res, "note", id); err != nil {
			return err
		}
		note, err = getNote(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// Tags lists the tags of a space in creation order.
func (s *Store) Tags(spaceID string) ([]Tag, error) {
	rows, err := s.db.Query(`
		SELECT id, seq, space_id, name, created_at FROM tags WHERE space_id = ? ORDER BY seq
	`, spaceID)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		var createdAt string
		if err := rows.Scan(&t.ID, &t.Seq, &t.SpaceID, &t.Name, &createdAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		t.CreatedAt = parseTime(createdAt)
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
