// Package styles defines the lipgloss styles of the sidebar, the preview
// pane, the footer and the modals.
package styles

import "github.com/charmbracelet/lipgloss"

// Color palette - default dark theme
var (
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#3B82F6") // Blue
	Accent    = lipgloss.Color("#F59E0B") // Amber

	Success = lipgloss.Color("#10B981")
	Warning = lipgloss.Color("#F59E0B")
	Error   = lipgloss.Color("#EF4444")

	TextPrimary   = lipgloss.Color("#F9FAFB")
	TextSecondary = lipgloss.Color("#9CA3AF")
	TextMuted     = lipgloss.Color("#6B7280")
	TextSubtle    = lipgloss.Color("#4B5563")

	BgSecondary = lipgloss.Color("#1F2937")
	BgTertiary  = lipgloss.Color("#374151")

	BorderNormal = lipgloss.Color("#374151")
	BorderActive = lipgloss.Color("#7C3AED")

	// Markdown style handed to glamour for the preview pane.
	CurrentMarkdownTheme = "dark"
)

// Pane styles
var (
	SidebarPane = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(BorderNormal)

	PreviewPane = lipgloss.NewStyle().
			Padding(0, 1)

	PaneTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextPrimary)
)

// Toolbar styles
var (
	ToolbarItem = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1)

	ToolbarItemActive = lipgloss.NewStyle().
				Foreground(TextPrimary).
				Background(Primary).
				Padding(0, 1).
				Bold(true)
)

// Sidebar row styles
var (
	Row = lipgloss.NewStyle().
		Foreground(TextPrimary)

	RowCursor = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(BgTertiary)

	RowActive = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	RowFolder = lipgloss.NewStyle().
			Foreground(Secondary)

	RowMuted = lipgloss.NewStyle().
			Foreground(TextMuted)

	RowDragging = lipgloss.NewStyle().
			Foreground(Accent).
			Italic(true)

	RowDropTarget = lipgloss.NewStyle().
			Foreground(Success)

	SectionHeader = lipgloss.NewStyle().
			Foreground(TextSecondary).
			Bold(true)

	Icon = lipgloss.NewStyle().
		Foreground(TextMuted)

	Shortcut = lipgloss.NewStyle().
			Foreground(TextSubtle)

	Bookmark = lipgloss.NewStyle().
			Foreground(Accent)
)

// Text styles
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgTertiary).
		Padding(0, 1)
)

// Footer and toasts
var (
	Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgSecondary)

	ToastSuccess = lipgloss.NewStyle().
			Background(Success).
			Foreground(lipgloss.Color("#000000")).
			Bold(true).
			Padding(0, 1)

	ToastError = lipgloss.NewStyle().
			Background(Error).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)
)

// Modal styles
var (
	ModalBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	ModalDanger = ModalBox.
			BorderForeground(Error)

	ModalTitle = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Bold(true).
			MarginBottom(1)
)
