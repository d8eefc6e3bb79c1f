package mouse

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// sidebarFrame lays out a 32-column sidebar: a toolbar of three buttons on
// line 0, two header lines, list rows from line 2 and the pane border in
// the last column.
func sidebarFrame() *Handler {
	h := NewHandler()
	h.HitMap.AddRect("toolbar", 0, 0, 8, 1, "spaces")
	h.HitMap.AddRect("toolbar", 8, 0, 6, 1, "tree")
	h.HitMap.AddRect("toolbar", 14, 0, 8, 1, "search")
	for i, key := range []string{"tree:/fd-root", "tree:/fd-1", "tree:/nt-1"} {
		h.HitMap.AddRect("row:"+key, 0, 2+i, 31, 1, i)
	}
	h.HitMap.AddRect("divider", 31, 0, 1, 29, nil)
	return h
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestRect_ContainsIsHalfOpen(t *testing.T) {
	row := Rect{X: 0, Y: 3, W: 31, H: 1}
	tests := []struct {
		x, y int
		want bool
	}{
		{0, 3, true},
		{30, 3, true},
		{31, 3, false}, // border column
		{5, 2, false},
		{5, 4, false},
	}
	for _, tt := range tests {
		if got := row.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
	if (Rect{X: 4, Y: 4}).Contains(4, 4) {
		t.Error("empty rect contains its origin")
	}
}

func TestHitMap_ToolbarButtonsCarryTheirItem(t *testing.T) {
	h := sidebarFrame()
	tests := []struct {
		x    int
		want string
	}{
		{0, "spaces"},
		{7, "spaces"},
		{8, "tree"},
		{21, "search"},
	}
	for _, tt := range tests {
		r := h.HitMap.Test(tt.x, 0)
		if r == nil || r.ID != "toolbar" {
			t.Fatalf("Test(%d, 0) = %v, want a toolbar button", tt.x, r)
		}
		if r.Data != tt.want {
			t.Errorf("Test(%d, 0) data = %v, want %q", tt.x, r.Data, tt.want)
		}
	}
	if r := h.HitMap.Test(25, 0); r != nil {
		t.Errorf("empty toolbar space hit %q", r.ID)
	}
}

func TestHitMap_RowsCarryTheirIndex(t *testing.T) {
	h := sidebarFrame()
	r := h.HitMap.Test(10, 3)
	if r == nil || r.ID != "row:tree:/fd-1" || r.Data != 1 {
		t.Fatalf("Test(10, 3) = %+v, want the second row", r)
	}
	if r := h.HitMap.Test(10, 1); r != nil {
		t.Errorf("header line hit %q", r.ID)
	}
}

func TestHitMap_DividerSitsOnTop(t *testing.T) {
	h := NewHandler()
	h.HitMap.AddRect("row:tree:/fd-1", 0, 2, 32, 1, 0)
	h.HitMap.AddRect("divider", 31, 0, 1, 29, nil)

	if r := h.HitMap.Test(31, 2); r == nil || r.ID != "divider" {
		t.Errorf("border cell hit %v, want the divider", r)
	}
	if r := h.HitMap.Test(30, 2); r == nil || r.ID != "row:tree:/fd-1" {
		t.Errorf("row cell hit %v, want the row", r)
	}
}

func TestHitMap_ClearBetweenFrames(t *testing.T) {
	h := sidebarFrame()
	regions := h.HitMap.Regions()
	regions[0].ID = "changed"
	if h.HitMap.Regions()[0].ID != "toolbar" {
		t.Error("Regions() exposed the hit map's storage")
	}

	h.Clear()
	if len(h.HitMap.Regions()) != 0 || h.HitMap.Test(10, 3) != nil {
		t.Error("regions survived Clear()")
	}
}

func TestHandleMouse_DoubleClickNeedsTheSameRow(t *testing.T) {
	h := sidebarFrame()
	steps := []struct {
		y    int
		want ActionType
	}{
		{2, ActionClick},
		{3, ActionClick}, // a different row starts over
		{3, ActionDoubleClick},
		{3, ActionClick}, // a double click resets
	}
	for i, s := range steps {
		if got := h.HandleMouse(press(5, s.y)).Type; got != s.want {
			t.Errorf("press %d on line %d = %d, want %d", i, s.y, got, s.want)
		}
	}
}

func TestHandleMouse_ClickOutsideRegions(t *testing.T) {
	h := sidebarFrame()
	if a := h.HandleMouse(press(50, 10)); a.Type != ActionNone || a.Region != nil {
		t.Errorf("click in the preview pane = %+v, want none", a)
	}
}

func TestHandleMouse_Wheel(t *testing.T) {
	tests := []struct {
		name   string
		button tea.MouseButton
		shift  bool
		want   ActionType
		delta  int
	}{
		{"up", tea.MouseButtonWheelUp, false, ActionScrollUp, -3},
		{"down", tea.MouseButtonWheelDown, false, ActionScrollDown, 3},
		{"shift up", tea.MouseButtonWheelUp, true, ActionScrollLeft, -3},
		{"shift down", tea.MouseButtonWheelDown, true, ActionScrollRight, 3},
		{"natural left", tea.MouseButtonWheelLeft, false, ActionScrollRight, 3},
		{"natural right", tea.MouseButtonWheelRight, false, ActionScrollLeft, -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := sidebarFrame()
			a := h.HandleMouse(tea.MouseMsg{X: 4, Y: 3, Shift: tt.shift, Action: tea.MouseActionPress, Button: tt.button})
			if a.Type != tt.want || a.Delta != tt.delta {
				t.Errorf("got type %d delta %d, want %d %d", a.Type, a.Delta, tt.want, tt.delta)
			}
			if a.Region == nil || a.Region.Data != 1 {
				t.Errorf("wheel region = %+v, want the row under the pointer", a.Region)
			}
		})
	}
}

func TestHandleMouse_DividerDragResizes(t *testing.T) {
	h := sidebarFrame()
	width := 32

	a := h.HandleMouse(press(31, 10))
	if a.Region == nil || a.Region.ID != "divider" {
		t.Fatalf("press on the border hit %v", a.Region)
	}
	h.StartDrag(a.X, a.Y, a.Region.ID, width)

	for _, x := range []int{36, 27, 43} {
		a = h.HandleMouse(tea.MouseMsg{X: x, Y: 12, Action: tea.MouseActionMotion})
		if a.Type != ActionDrag {
			t.Fatalf("motion to %d = %d, want a drag", x, a.Type)
		}
		if got := h.DragStartValue() + a.DragDX; got != x+1 {
			t.Errorf("width at x=%d is %d, want %d", x, got, x+1)
		}
		if a.DragDY != 2 {
			t.Errorf("DragDY = %d, want 2", a.DragDY)
		}
	}
	if h.DragRegion() != "divider" {
		t.Errorf("DragRegion() = %q during the drag", h.DragRegion())
	}

	a = h.HandleMouse(tea.MouseMsg{X: 43, Y: 12, Action: tea.MouseActionRelease})
	if a.Type != ActionDragEnd || a.DragDX != 12 {
		t.Errorf("release = %+v, want drag end with DragDX 12", a)
	}
	if h.IsDragging() || h.DragRegion() != "" || h.DragStartValue() != 0 {
		t.Error("drag state survived the release")
	}

	// Without a drag, motion is a hover and release does nothing.
	if a := h.HandleMouse(tea.MouseMsg{X: 4, Y: 4, Action: tea.MouseActionMotion}); a.Type != ActionHover || a.Region == nil || a.Region.Data != 2 {
		t.Errorf("hover = %+v, want the third row", a)
	}
	if a := h.HandleMouse(tea.MouseMsg{X: 4, Y: 4, Action: tea.MouseActionRelease}); a.Type != ActionNone {
		t.Errorf("stray release = %d, want none", a.Type)
	}
}
