package store

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

const previewRadius = 40

// SearchQuery is a parsed search request. With neither scope flag set, both
// title and body are searched.
type SearchQuery struct {
	Text  string
	Title bool
	Body  bool
}

// Hit is one search match.
type Hit struct {
	NoteID         string
	SpaceID        string
	FolderPathname string
	Title          string
	Preview        string
	Line           int // 1-based line of the body match, 0 for title-only matches
}

// Search finds non-archived notes of a space matching q, most recently
// updated first. A limit <= 0 means no limit.
func (s *Store) Search(ctx context.Context, spaceID string, q SearchQuery, limit int) ([]Hit, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, nil
	}
	inTitle, inBody := q.Title, q.Body
	if !inTitle && !inBody {
		inTitle, inBody = true, true
	}

	// SQLite's lower() folds ASCII only, so matching happens here.
	rows, err := s.db.QueryContext(ctx, `SELECT `+noteColumns+` FROM notes
		WHERE space_id = ? AND archived = 0
		ORDER BY updated_at DESC, seq ASC`, spaceID)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	defer rows.Close()

	needle := strings.ToLower(text)
	var hits []Hit
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		if !(inTitle && containsFold(n.Title, needle)) && !(inBody && containsFold(n.Content, needle)) {
			continue
		}
		hit := Hit{
			NoteID:         n.ID,
			SpaceID:        n.SpaceID,
			FolderPathname: n.FolderPathname,
			Title:          n.Title,
		}
		if inBody {
			hit.Preview, hit.Line = matchPreview(n.Content, text)
		}
		if hit.Line == 0 {
			hit.Preview = firstLine(n.Content)
		}
		hits = append(hits, hit)
		if limit > 0 && len(hits) == limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	return hits, nil
}

// containsFold reports whether s contains the lowercased needle, ignoring
// case.
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

// matchPreview returns a snippet of the first line containing text
// (case-insensitive) and its 1-based line number, or 0 when absent.
func matchPreview(content, text string) (string, int) {
	needle := strings.ToLower(text)
	for i, line := range strings.Split(content, "\n") {
		lower := strings.ToLower(line)
		idx := strings.Index(lower, needle)
		if idx < 0 {
			continue
		}
		if len(lower) != len(line) {
			// lowercasing changed byte offsets
			idx = 0
		}
		return snippet(line, idx, len(needle)), i + 1
	}
	return "", 0
}

func snippet(line string, start, length int) string {
	from := start - previewRadius
	prefix := "..."
	if from <= 0 {
		from, prefix = 0, ""
	}
	to := start + length + previewRadius
	suffix := "..."
	if to >= len(line) {
		to, suffix = len(line), ""
	}
	for from > 0 && !utf8.RuneStart(line[from]) {
		from--
	}
	for to < len(line) && !utf8.RuneStart(line[to]) {
		to++
	}
	return prefix + strings.TrimSpace(line[from:to]) + suffix
}

func firstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			if utf8.RuneCountInString(line) > 2*previewRadius {
				r := []rune(line)
				return string(r[:2*previewRadius]) + "..."
			}
			return line
		}
	}
	return ""
}
