package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/sidenote/internal/keymap"
	"github.com/marcus/sidenote/internal/mouse"
	"github.com/marcus/sidenote/internal/sidebar"
	"github.com/marcus/sidenote/internal/state"
	"github.com/marcus/sidenote/internal/styles"
)

const (
	regionToolbar = "toolbar"
	regionRow     = "row:"
	regionDivider = "divider"
)

// toolbarCommands maps toolbar buttons to the key commands they mirror.
var toolbarCommands = map[sidebar.ToolbarItem]keymap.Command{
	sidebar.ToolbarSpaces:   keymap.CmdSpaces,
	sidebar.ToolbarTree:     keymap.CmdTree,
	sidebar.ToolbarSearch:   keymap.CmdSearch,
	sidebar.ToolbarTimeline: keymap.CmdTimeline,
}

// layoutRegions registers the clickable regions of the frame View draws.
func (m *Model) layoutRegions() {
	hm := m.mouse.HitMap
	hm.Clear()
	if m.view == nil {
		return
	}
	sw := min(m.sidebarWidth, m.width)

	x := 0
	for _, t := range m.view.Toolbar {
		style := styles.ToolbarItem
		if t.Active {
			style = styles.ToolbarItemActive
		}
		w := lipgloss.Width(style.Render(t.Label))
		hm.AddRect(regionToolbar, x, 0, w, 1, t.Item)
		x += w
	}

	top := m.headerLines()
	end := min(m.scroll+max(m.listHeight(), 0), len(m.items))
	for i := m.scroll; i < end; i++ {
		hm.AddRect(regionRow+m.items[i].key(), 0, top+i-m.scroll, max(sw-1, 1), 1, i)
	}

	// The pane border is the last sidebar column.
	hm.AddRect(regionDivider, sw-1, 0, 1, max(m.height-footerHeight, 1), nil)
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.focus != focusSidebar && m.focus != focusSearch {
		return m, nil
	}
	m.layoutRegions()
	action := m.mouse.HandleMouse(msg)

	switch action.Type {
	case mouse.ActionClick, mouse.ActionDoubleClick:
		if action.Region == nil {
			return m, nil
		}
		switch {
		case action.Region.ID == regionToolbar:
			item, _ := action.Region.Data.(sidebar.ToolbarItem)
			return m.runCommand(toolbarCommands[item])

		case action.Region.ID == regionDivider:
			m.mouse.StartDrag(action.X, action.Y, regionDivider, m.sidebarWidth)

		case strings.HasPrefix(action.Region.ID, regionRow):
			i, _ := action.Region.Data.(int)
			if m.focus == focusSearch {
				m.blurSearch()
			}
			m.cursor = i
			m.clampCursor()
			if action.Type == mouse.ActionDoubleClick {
				return m.selectItem()
			}
		}

	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		m.moveCursor(action.Delta)

	case mouse.ActionDrag:
		if m.mouse.DragRegion() == regionDivider {
			m.sidebarWidth = m.cfg.ClampWidth(m.mouse.DragStartValue() + action.DragDX)
		}

	case mouse.ActionDragEnd:
		w := m.sidebarWidth
		m.updateState(func(st *state.State) { st.SideBarWidth = w })
	}
	return m, nil
}
