package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/sidenote/internal/styles"
)

// Dialog is a bordered box with a title, a body and a hint line.
type Dialog struct {
	Title  string
	Body   string
	Hints  []string // e.g. "enter save", "esc cancel"
	Danger bool
	Width  int // inner width; 0 uses DefaultDialogWidth
}

// DefaultDialogWidth is the inner width of dialogs that set none.
const DefaultDialogWidth = 44

// Render draws the dialog.
func (d Dialog) Render() string {
	w := d.Width
	if w <= 0 {
		w = DefaultDialogWidth
	}
	box := styles.ModalBox
	if d.Danger {
		box = styles.ModalDanger
	}

	parts := []string{styles.ModalTitle.Render(Truncate(d.Title, w))}
	if d.Body != "" {
		parts = append(parts, lipgloss.NewStyle().Width(w).Render(d.Body))
	}
	if len(d.Hints) > 0 {
		hints := make([]string, len(d.Hints))
		for i, h := range d.Hints {
			k, desc, _ := strings.Cut(h, " ")
			hints[i] = styles.KeyHint.Render(k) + " " + styles.Muted.Render(desc)
		}
		parts = append(parts, "", strings.Join(hints, "  "))
	}
	return box.Width(w + 4).Render(strings.Join(parts, "\n"))
}
