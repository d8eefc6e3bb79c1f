// Package mouse maps terminal mouse events onto rectangular screen regions.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	doubleClickThreshold = 400 * time.Millisecond
	scrollDelta          = 3
)

// Rect is a screen rectangle in cells. X and Y are inclusive, X+W and Y+H
// exclusive.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named clickable area with caller data attached.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap holds the regions of the last rendered frame.
type HitMap struct {
	regions []Region
}

func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add registers a region. Later regions sit on top of earlier ones.
func (h *HitMap) Add(id string, r Rect, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: r, Data: data})
}

func (h *HitMap) AddRect(id string, x, y, w, height int, data any) {
	h.Add(id, Rect{X: x, Y: y, W: w, H: height}, data)
}

// Test returns the topmost region containing (x, y), or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			r := h.regions[i]
			return &r
		}
	}
	return nil
}

func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Regions returns a copy of the registered regions.
func (h *HitMap) Regions() []Region {
	out := make([]Region, len(h.regions))
	copy(out, h.regions)
	return out
}

// ActionType classifies a mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
	ActionDrag
	ActionDragEnd
	ActionHover
)

// MouseAction is the interpreted form of a tea.MouseMsg.
type MouseAction struct {
	Type   ActionType
	Region *Region
	X, Y   int
	Delta  int // scroll amount, negative for up and left
	DragDX int
	DragDY int
}

// ClickResult is the outcome of a single press.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler tracks clicks and drags across events.
type Handler struct {
	HitMap *HitMap

	lastClickAt     time.Time
	lastClickRegion string

	dragging       bool
	dragStartX     int
	dragStartY     int
	dragRegion     string
	dragStartValue int
}

func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// HandleClick resolves a press at (x, y). A second press on the same region
// within the threshold is a double click; the one after starts over.
func (h *Handler) HandleClick(x, y int) ClickResult {
	r := h.HitMap.Test(x, y)
	if r == nil {
		h.lastClickRegion = ""
		return ClickResult{}
	}

	now := time.Now()
	double := r.ID == h.lastClickRegion && now.Sub(h.lastClickAt) <= doubleClickThreshold
	if double {
		h.lastClickRegion = ""
		h.lastClickAt = time.Time{}
	} else {
		h.lastClickRegion = r.ID
		h.lastClickAt = now
	}
	return ClickResult{Region: r, IsDoubleClick: double}
}

// StartDrag begins a drag at (x, y). value is whatever the drag adjusts,
// such as a pane width, as it was when the drag started.
func (h *Handler) StartDrag(x, y int, region string, value int) {
	h.dragging = true
	h.dragStartX, h.dragStartY = x, y
	h.dragRegion = region
	h.dragStartValue = value
}

func (h *Handler) DragDelta(x, y int) (dx, dy int) {
	return x - h.dragStartX, y - h.dragStartY
}

func (h *Handler) EndDrag() {
	h.dragging = false
	h.dragRegion = ""
	h.dragStartValue = 0
}

func (h *Handler) IsDragging() bool { return h.dragging }
func (h *Handler) DragRegion() string { return h.dragRegion }
func (h *Handler) DragStartValue() int { return h.dragStartValue }

// Clear drops all regions, ready for the next frame.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}

// HandleMouse interprets msg against the current regions.
func (h *Handler) HandleMouse(msg tea.MouseMsg) MouseAction {
	action := MouseAction{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			res := h.HandleClick(msg.X, msg.Y)
			if res.Region == nil {
				return action
			}
			action.Region = res.Region
			action.Type = ActionClick
			if res.IsDoubleClick {
				action.Type = ActionDoubleClick
			}
		case tea.MouseButtonWheelUp:
			action.Region = h.HitMap.Test(msg.X, msg.Y)
			action.Type, action.Delta = ActionScrollUp, -scrollDelta
			if msg.Shift {
				action.Type = ActionScrollLeft
			}
		case tea.MouseButtonWheelDown:
			action.Region = h.HitMap.Test(msg.X, msg.Y)
			action.Type, action.Delta = ActionScrollDown, scrollDelta
			if msg.Shift {
				action.Type = ActionScrollRight
			}
		// Natural scrolling reports horizontal wheels inverted.
		case tea.MouseButtonWheelLeft:
			action.Region = h.HitMap.Test(msg.X, msg.Y)
			action.Type, action.Delta = ActionScrollRight, scrollDelta
		case tea.MouseButtonWheelRight:
			action.Region = h.HitMap.Test(msg.X, msg.Y)
			action.Type, action.Delta = ActionScrollLeft, -scrollDelta
		}

	case tea.MouseActionMotion:
		if h.dragging {
			action.Type = ActionDrag
			action.DragDX, action.DragDY = h.DragDelta(msg.X, msg.Y)
			return action
		}
		action.Type = ActionHover
		action.Region = h.HitMap.Test(msg.X, msg.Y)

	case tea.MouseActionRelease:
		if h.dragging {
			action.Type = ActionDragEnd
			action.DragDX, action.DragDY = h.DragDelta(msg.X, msg.Y)
			h.EndDrag()
		}
	}
	return action
}
