// Package overlaypane hosts a single modal overlay above a background view.
package overlaypane

import (
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/neodash/pkg/tui/events"
	"tableflip.dev/neodash/pkg/tui/ui"
	overlaymgr "tableflip.dev/neodash/pkg/tui/ui/overlay"
)

// Placement controls where the overlay is rendered relative to the pane.
type Placement struct {
	Width      int
	Height     int
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
	MarginX    int
	MarginY    int
	Fullscreen bool
}

// Centered returns a placement covering the given fraction of the pane.
func Centered(width, height int) Placement {
	return Placement{Width: width, Height: height, Horizontal: lipgloss.Center, Vertical: lipgloss.Center}
}

type identified interface {
	ID() events.ComponentID
}

// Model composes a background surface with an optional overlay.
type Model struct {
	width  int
	height int

	background string
	bgCursor   *tea.Cursor

	overlay   ui.Overlay
	placement Placement
}

// New constructs a container sized to width x height.
func New(width, height int) *Model {
	m := &Model{}
	m.SetSize(width, height)
	return m
}

// Init implements tea.Model for embedding convenience.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize updates the container bounds.
func (m *Model) SetSize(width, height int) {
	m.width = max(width, 1)
	m.height = max(height, 1)
	if m.overlay != nil {
		m.overlay.SetSize(m.overlaySize())
	}
}

// SetBackground records the background view and cursor.
func (m *Model) SetBackground(view string, cursor *tea.Cursor) {
	m.background = view
	m.bgCursor = nil
	if cursor != nil {
		c := *cursor
		m.bgCursor = &c
	}
}

// SetOverlay mounts an overlay, replacing any current one.
func (m *Model) SetOverlay(overlay ui.Overlay, placement Placement) tea.Cmd {
	if overlay == nil {
		return nil
	}
	m.overlay = overlay
	m.placement = placement
	m.overlay.SetSize(m.overlaySize())
	return m.overlay.Init()
}

// ClearOverlay removes any active overlay.
func (m *Model) ClearOverlay() { m.overlay = nil }

// HasOverlay reports if an overlay is currently mounted.
func (m *Model) HasOverlay() bool { return m.overlay != nil }

// Overlay returns the mounted overlay.
func (m *Model) Overlay() ui.Overlay { return m.overlay }

// OverlayID returns the mounted overlay's component id when it has one.
func (m *Model) OverlayID() events.ComponentID {
	if o, ok := m.overlay.(identified); ok {
		return o.ID()
	}
	return ""
}

// Update forwards messages to the overlay. An overlay returning nil from
// Update is unmounted.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m.overlay == nil {
		return nil
	}
	next, cmd := m.overlay.Update(msg)
	m.overlay = next
	return cmd
}

// View renders the composed view.
func (m *Model) View() (string, *tea.Cursor) {
	if m.overlay == nil {
		return overlaymgr.Compose(m.background, m.width, m.height, "", overlaymgr.Placement{}), m.backgroundCursor()
	}
	fg, cur := m.overlay.View()
	p := m.composePlacement(fg)
	view := overlaymgr.Compose(m.background, m.width, m.height, fg, p)
	if cur == nil {
		return view, nil
	}
	x, y := overlaymgr.Offsets(m.width, m.height, p.Width, p.Height, p)
	c := *cur
	c.X += x
	c.Y += y
	return view, &c
}

func (m *Model) backgroundCursor() *tea.Cursor {
	if m.bgCursor != nil {
		c := *m.bgCursor
		return &c
	}
	return nil
}

func (m *Model) overlaySize() (int, int) {
	if m.placement.Fullscreen {
		return m.width, m.height
	}
	w := m.placement.Width
	if w <= 0 || w > m.width {
		w = m.width
	}
	h := m.placement.Height
	if h <= 0 || h > m.height {
		h = m.height
	}
	return w, h
}

// composePlacement sizes the overlay box. Without an explicit height the box
// shrinks to the rendered view so the background stays visible below it.
func (m *Model) composePlacement(fg string) overlaymgr.Placement {
	w, h := m.overlaySize()
	if m.placement.Height <= 0 && !m.placement.Fullscreen {
		h = min(lipgloss.Height(fg), m.height)
	}
	if m.placement.Fullscreen {
		return overlaymgr.Placement{Horizontal: overlaymgr.Start, Vertical: overlaymgr.Start, Width: w, Height: h}
	}
	return overlaymgr.Placement{
		Horizontal: m.placement.Horizontal,
		Vertical:   m.placement.Vertical,
		MarginX:    m.placement.MarginX,
		MarginY:    m.placement.MarginY,
		Width:      w,
		Height:     h,
	}
}
