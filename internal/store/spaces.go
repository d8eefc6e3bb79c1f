package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Space is a top-level container of folders and notes.
type Space struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateSpace inserts a space together with its root folder.
func (s *Store) CreateSpace(name string) (*Space, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("space name: %w", ErrInvalidName)
	}

	id, err := generateID("sp-")
	if err != nil {
		return nil, fmt.Errorf("generate ID: %w", err)
	}
	t := now()
	space := &Space{ID: id, Name: name, CreatedAt: t, UpdatedAt: t}

	err = s.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO spaces (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)
		`, space.ID, space.Name, formatTime(t), formatTime(t))
		if err != nil {
			return fmt.Errorf("insert space: %w", err)
		}
		space.Seq, _ = res.LastInsertId()

		_, err = insertFolder(tx, space.ID, "", "", RootPathname)
		return err
	})
	if err != nil {
		return nil, err
	}
	return space, nil
}

// RenameSpace changes a space's display name.
func (s *Store) RenameSpace(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("space name: %w", ErrInvalidName)
	}
	return s.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`UPDATE spaces SET name = ?, updated_at = ? WHERE id = ?`,
			name, formatTime(now()), id)
		if err != nil {
			return fmt.Errorf("rename space: %w", err)
		}
		return expectRow(res, "space", id)
	})
}

// RemoveSpace deletes a space and everything in it.
func (s *Store) RemoveSpace(id string) error {
	return s.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM spaces WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete space: %w", err)
		}
		if err := expectRow(res, "space", id); err != nil {
			return err
		}
		for _, table := range []string{"notes", "folders", "tags"} {
			if _, err := tx.Exec(`DELETE FROM `+table+` WHERE space_id = ?`, id); err != nil {
				return fmt.Errorf("delete %s: %w", table, err)
			}
		}
		return nil
	})
}

// Space retrieves a space by ID.
func (s *Store) Space(id string) (*Space, error) {
	var sp Space
	var createdAt, updatedAt string
	err := s.db.QueryRow(`
		SELECT id, seq, name, created_at, updated_at FROM spaces WHERE id = ?
	`, id).Scan(&sp.ID, &sp.Seq, &sp.Name, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("space %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query space: %w", err)
	}
	sp.CreatedAt = parseTime(createdAt)
	sp.UpdatedAt = parseTime(updatedAt)
	return &sp, nil
}

// Spaces lists all spaces in creation order.
func (s *Store) Spaces() ([]Space, error) {
	rows, err := s.db.Query(`SELECT id, seq, name, created_at, updated_at FROM spaces ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query spaces: %w", err)
	}
	defer rows.Close()

	var spaces []Space
	for rows.Next() {
		var sp Space
		var createdAt, updatedAt string
		if err := rows.Scan(&sp.ID, &sp.Seq, &sp.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan space: %w", err)
		}
		sp.CreatedAt = parseTime(createdAt)
		sp.UpdatedAt = parseTime(updatedAt)
		spaces = append(spaces, sp)
	}
	return spaces, rows.Err()
}

func expectRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}
