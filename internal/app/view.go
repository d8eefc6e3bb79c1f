package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/sidenote/internal/i18n"
	"github.com/marcus/sidenote/internal/keymap"
	"github.com/marcus/sidenote/internal/sidebar"
	"github.com/marcus/sidenote/internal/styles"
	"github.com/marcus/sidenote/internal/ui"
)

const footerHeight = 1

// View renders the entire application UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	contentHeight := max(m.height-footerHeight, 1)
	sw := min(m.sidebarWidth, m.width)

	body := styles.SidebarPane.Render(m.renderSidebar(max(sw-1, 1), contentHeight))
	if pw := m.width - sw; m.showPreview && pw >= minPreviewWidth {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.renderPreview(pw, contentHeight))
	}
	bg := body + "\n" + m.renderFooter()

	switch m.focus {
	case focusPrompt:
		return ui.Overlay(bg, m.renderPrompt(), m.width, m.height)
	case focusConfirm:
		return ui.Overlay(bg, m.renderConfirm(), m.width, m.height)
	case focusHelp:
		return ui.Overlay(bg, m.renderHelp(), m.width, m.height)
	}
	return bg
}

// headerLines is the number of sidebar lines above the item list.
func (m Model) headerLines() int {
	if m.panel == sidebar.PanelSearch {
		return 3 // toolbar, search box, status
	}
	return 2 // toolbar, panel title
}

// listHeight is the number of item lines the sidebar can show.
func (m Model) listHeight() int {
	return m.height - footerHeight - m.headerLines()
}

func (m Model) renderSidebar(width, height int) string {
	lines := []string{m.renderToolbar(width)}
	lines = append(lines, m.renderPanelHeader(width)...)

	end := min(m.scroll+max(height-len(lines), 0), len(m.items))
	for i := m.scroll; i < end; i++ {
		lines = append(lines, m.renderItem(m.items[i], i == m.cursor, width))
	}
	// Height() only pads short content; MaxHeight() also truncates tall content.
	return lipgloss.NewStyle().Width(width).Height(height).MaxHeight(height).Render(strings.Join(lines, "\n"))
}

func (m Model) renderToolbar(width int) string {
	var b strings.Builder
	for _, t := range m.view.Toolbar {
		if t.Active {
			b.WriteString(styles.ToolbarItemActive.Render(t.Label))
		} else {
			b.WriteString(styles.ToolbarItem.Render(t.Label))
		}
	}
	return ansi.Truncate(b.String(), width, "")
}

func (m Model) renderPanelHeader(width int) []string {
	switch m.panel {
	case sidebar.PanelTree:
		if m.snapshot == nil {
			return []string{styles.Muted.Render(ui.Truncate(m.tr.T(i18n.SidebarNoSpace), width))}
		}
		var order string
		for _, o := range m.view.TreeControls {
			if o.Active {
				order = o.Label
			}
		}
		return []string{styles.SectionHeader.Render(ui.Columns(m.snapshot.Space.Name, "↕ "+order, width))}

	case sidebar.PanelSearch:
		in := m.searchInput
		in.Width = max(width-3, 1)
		return []string{ansi.Truncate(in.View(), width, ""), styles.Muted.Render(ui.Truncate(m.searchStatus(), width))}

	case sidebar.PanelTimeline:
		return []string{styles.SectionHeader.Render(ui.Truncate(m.tr.T(i18n.SidebarTimeline), width))}
	}
	return []string{styles.SectionHeader.Render(ui.Truncate(m.tr.T(i18n.SidebarRecent), width))}
}

func (m Model) searchStatus() string {
	s := m.view.Search
	switch {
	case m.snapshot == nil:
		return m.tr.T(i18n.SidebarNoSpace)
	case s.Pending:
		return m.tr.T(i18n.SidebarSearching)
	case s.Debouncing:
		return "…"
	case s.Query.Query != "" && len(s.Results) == 0:
		return m.tr.T(i18n.SidebarNoResults)
	case s.Query.Query != "":
		scope := ""
		if s.Query.Title && !s.Query.Body {
			scope = " " + sidebar.FlagTitle
		} else if s.Query.Body && !s.Query.Title {
			scope = " " + sidebar.FlagBody
		}
		return fmt.Sprintf("%d × %q%s", len(s.Results), s.Query.Query, scope)
	}
	return ""
}

func foldGlyph(r sidebar.TreeRow) string {
	switch {
	case !r.Expandable:
		return " "
	case r.Expanded:
		return "▾"
	default:
		return "▸"
	}
}

func (m Model) renderItem(it item, cursor bool, width int) string {
	var left, right string
	style := styles.Row
	_, dragging := m.drag.Dragging()

	switch it.kind {
	case itemSpace:
		icon := "◆"
		if it.space.Remote {
			icon = "☁"
		}
		left = icon + " " + it.space.Label
		right = it.space.Shortcut
		if it.space.Active {
			style = styles.RowActive
		}

	case itemTree:
		r := it.row
		indent := ui.Indent(r.Depth)
		switch r.Kind {
		case sidebar.RowSection:
			left = foldGlyph(r) + " " + r.Label
			style = styles.SectionHeader
		case sidebar.RowFolder:
			left = indent + foldGlyph(r) + " " + r.Label
			style = styles.RowFolder
		case sidebar.RowTag:
			left = indent + "# " + r.Label
		default:
			left = indent + "  " + r.Label
		}
		if r.Bookmarked {
			right = styles.Bookmark.Render("★")
		}
		switch {
		case r.Dragging:
			style = styles.RowDragging
		case r.Active:
			style = styles.RowActive
		case r.Archived:
			style = styles.RowMuted
		}
		if cursor && dragging && r.DropTarget {
			right = m.tr.T(i18n.SidebarDropHere)
		}

	case itemResult:
		left = it.result.Label
		right = styles.Muted.Render(ui.Truncate(it.result.Preview, width/2))

	case itemLink:
		left = it.link.Label
		right = styles.Muted.Render(it.link.Detail)
		if it.link.Active {
			style = styles.RowActive
		}

	case itemAction:
		left = "+ " + it.action.Label
		style = styles.RowMuted
	}

	line := columns(left, right, width)
	if cursor {
		if dragging {
			return styles.RowDropTarget.Inherit(styles.RowCursor).Render(ansi.Strip(line))
		}
		return styles.RowCursor.Render(ansi.Strip(line))
	}
	return style.Render(line)
}

// columns is ui.Columns for a right part that may carry ANSI styling.
func columns(left, right string, width int) string {
	rw := ansi.StringWidth(right)
	if right == "" || rw >= width {
		return ui.Fit(left, width)
	}
	return ui.Fit(left, width-rw-1) + " " + right
}

func (m Model) renderPreview(width, height int) string {
	var content string
	id, ok := m.previewNoteID()
	if ok && m.snapshot != nil {
		if n, found := m.snapshot.Notes[id]; found {
			inner := max(width-2, 1)
			title := n.Title
			if title == "" {
				title = m.tr.T(i18n.SidebarUntitled)
			}
			content = styles.PaneTitle.Render(ui.Truncate(title, inner)) + "\n\n" + m.preview.render(n, inner)
		}
	}
	if content == "" {
		content = styles.Muted.Render(m.tr.T(i18n.Preview))
	}
	return styles.PreviewPane.Width(width).Height(height).MaxHeight(height).Render(content)
}

// renderFooter renders the bottom bar with key hints and the toast.
func (m Model) renderFooter() string {
	var status string
	if m.toast != "" {
		toastStyle := styles.ToastSuccess
		if m.toastIsErr {
			toastStyle = styles.ToastError
		}
		status = toastStyle.Render(ui.Truncate(m.toast, max(m.width/2, 1)))
	}

	available := m.width - lipgloss.Width(status) - 2
	hints := renderHintLineTruncated(m.footerHints(), available)

	spacing := max(m.width-lipgloss.Width(hints)-lipgloss.Width(status), 0)
	footer := hints + strings.Repeat(" ", spacing) + status

	// Use MaxWidth to prevent wrapping and ensure single line
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(footer)
}

func (m Model) footerContext() string {
	switch m.focus {
	case focusSearch:
		return keymap.ContextSearch
	case focusPrompt:
		return keymap.ContextPrompt
	case focusConfirm:
		return keymap.ContextConfirm
	}
	return keymap.ContextSidebar
}

func (m Model) footerHints() []key.Binding {
	return m.keys.Help(m.footerContext())
}

// renderHintLineTruncated renders hints but stops adding when maxWidth is exceeded.
func renderHintLineTruncated(hints []key.Binding, maxWidth int) string {
	if len(hints) == 0 || maxWidth <= 0 {
		return ""
	}
	var result string
	for _, h := range hints {
		help := h.Help()
		if help.Key == "" || help.Desc == "" {
			continue
		}
		part := styles.KeyHint.Render(help.Key) + " " + help.Desc
		candidate := part
		if result != "" {
			candidate = result + "  " + part
		}
		if lipgloss.Width(candidate) > maxWidth {
			break
		}
		result = candidate
	}
	return result
}

func (m Model) renderPrompt() string {
	if m.prompt == nil {
		return ""
	}
	return ui.Dialog{
		Title: m.prompt.title,
		Body:  m.prompt.input.View(),
		Hints: m.hintStrings(keymap.ContextPrompt),
	}.Render()
}

func (m Model) renderConfirm() string {
	if m.confirm == nil {
		return ""
	}
	return ui.Dialog{
		Title:  m.confirm.title,
		Body:   m.confirm.body,
		Hints:  m.hintStrings(keymap.ContextConfirm),
		Danger: true,
	}.Render()
}

func (m Model) hintStrings(context string) []string {
	var out []string
	for _, h := range m.keys.Help(context) {
		out = append(out, h.Help().Key+" "+h.Help().Desc)
	}
	return out
}

// renderHelp lists the sidebar bindings in two columns.
func (m Model) renderHelp() string {
	bindings := m.keys.Help(keymap.ContextSidebar)
	half := (len(bindings) + 1) / 2

	col := func(bs []key.Binding) string {
		var b strings.Builder
		for i, kb := range bs {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "%s %s", styles.Muted.Render(fmt.Sprintf("%-7s", kb.Help().Key)), kb.Help().Desc)
		}
		return b.String()
	}
	cols := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(26).Render(col(bindings[:half])),
		col(bindings[half:]),
	)

	title := m.tr.T(i18n.Help)
	if m.version != "" {
		title += " · sidenote " + m.version
	}
	return ui.Dialog{
		Title: title,
		Body:  cols,
		Hints: []string{"esc close"},
		Width: 52,
	}.Render()
}
