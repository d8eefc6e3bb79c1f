// Package msg holds the bubbletea messages shared between the app and the
// components it hosts.
package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastMsg displays a temporary message.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool // true for error toasts (red), false for success (green)
}

// ShowToast returns a command to show a toast message.
func ShowToast(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{
			Message:  message,
			Duration: duration,
		}
	}
}

// ShowError returns a command to show err as an error toast.
func ShowError(err error) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Message: err.Error(), Duration: 4 * time.Second, IsError: true}
	}
}

// StoreChangedMsg reports that the notes database was written, possibly by
// another process.
type StoreChangedMsg struct{}

// FocusTitleMsg asks the editor to focus the title of a freshly created
// note.
type FocusTitleMsg struct {
	NoteID string
}

// FocusTitle returns a command that emits FocusTitleMsg.
func FocusTitle(noteID string) tea.Cmd {
	return func() tea.Msg { return FocusTitleMsg{NoteID: noteID} }
}
