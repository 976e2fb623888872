// Package cardheader renders the action bar shown above every report card.
package cardheader

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/neodash/pkg/tui/events"
	"tableflip.dev/neodash/pkg/tui/theme"
	"tableflip.dev/neodash/pkg/tui/ui"
)

// Handlers are supplied by the owning card. A nil handler is a no-op.
type Handlers struct {
	OnRemove         func() tea.Cmd
	OnToggleSettings func() tea.Cmd
	OnToggleExpand   func() tea.Cmd
	OnHelp           func() tea.Cmd
	OnClone          func() tea.Cmd
}

// Props is everything the header renders from.
type Props struct {
	ReportID          string
	Title             string
	Expanded          bool
	FullscreenEnabled bool
	Handlers          Handlers
}

// Action is one control in the header.
type Action struct {
	Name    events.CardAction
	Key     string
	Glyph   string
	Enabled bool
	handler func() tea.Cmd
}

// Actions resolves the ordered action set for props: drag, help, remove,
// clone, maximize or shrink, save.
func Actions(p Props) []Action {
	h := p.Handlers
	actions := []Action{
		{Name: events.CardDrag, Glyph: "⠿", Enabled: true},
		{Name: events.CardHelp, Key: "?", Glyph: "?", Enabled: true, handler: h.OnHelp},
		{Name: events.CardRemove, Key: "d", Glyph: "✕", Enabled: true, handler: h.OnRemove},
		{Name: events.CardClone, Key: "c", Glyph: "⧉", Enabled: true, handler: h.OnClone},
	}
	if p.FullscreenEnabled {
		if p.Expanded {
			actions = append(actions, Action{Name: events.CardShrink, Key: "f", Glyph: "⤡", Enabled: true, handler: h.OnToggleExpand})
		} else {
			actions = append(actions, Action{Name: events.CardMaximize, Key: "f", Glyph: "⤢", Enabled: true, handler: h.OnToggleExpand})
		}
	}
	actions = append(actions, Action{Name: events.CardSave, Key: "s", Glyph: "✓", Enabled: true, handler: h.OnToggleSettings})
	return actions
}

// Model is the card action bar.
type Model struct {
	id      events.ComponentID
	props   Props
	actions []Action
	cursor  int
	focused bool
	width   int
	styles  theme.CardTheme
}

// New constructs a header for props.
func New(id events.ComponentID, props Props) *Model {
	if id == "" {
		id = events.ComponentID("cardheader")
	}
	m := &Model{id: id, styles: theme.Default().Card}
	m.SetProps(props)
	return m
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// SetProps replaces the props and re-derives the action set.
func (m *Model) SetProps(p Props) {
	m.props = p
	m.actions = Actions(p)
	if m.cursor >= len(m.actions) {
		m.cursor = len(m.actions) - 1
	}
}

// Props returns the current props.
func (m *Model) Props() Props { return m.props }

// Actions returns the resolved action set.
func (m *Model) Actions() []Action {
	return append([]Action(nil), m.actions...)
}

// Has reports whether an action is present.
func (m *Model) Has(name events.CardAction) bool {
	for _, a := range m.actions {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Focus marks the header as receiving keys.
func (m *Model) Focus() { m.focused = true }

// Blur releases focus.
func (m *Model) Blur() { m.focused = false }

// Focused reports focus.
func (m *Model) Focused() bool { return m.focused }

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize implements ui.Component.
func (m *Model) SetSize(width, _ int) { m.width = width }

// Update implements ui.Component.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		cmd, _ := m.HandleKey(key)
		return m, cmd
	}
	return m, nil
}

// HandleKey runs the action bound to key. The bool reports whether the key
// was consumed and must not reach any enclosing component.
func (m *Model) HandleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	if !m.focused {
		return nil, false
	}
	switch msg.String() {
	case "left", "h":
		m.moveCursor(-1)
		return nil, true
	case "right", "l":
		m.moveCursor(1)
		return nil, true
	case "enter":
		if m.cursor >= 0 && m.cursor < len(m.actions) {
			return m.Activate(m.actions[m.cursor].Name), true
		}
		return nil, true
	}
	for _, a := range m.actions {
		if a.Key != "" && a.Key == msg.String() {
			return m.Activate(a.Name), true
		}
	}
	return nil, false
}

// Activate runs the named action. Unknown or absent actions are ignored.
func (m *Model) Activate(name events.CardAction) tea.Cmd {
	for _, a := range m.actions {
		if a.Name != name || !a.Enabled {
			continue
		}
		if a.handler == nil {
			return nil
		}
		return tea.Batch(a.handler(), events.CardActionCmd(m.id, m.props.ReportID, a.Name))
	}
	return nil
}

func (m *Model) moveCursor(delta int) {
	if len(m.actions) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.actions)) % len(m.actions)
}

// View renders the title on the left and the action glyphs on the right.
func (m *Model) View() string {
	parts := make([]string, 0, len(m.actions))
	for i, a := range m.actions {
		label := a.Glyph
		if a.Key != "" && a.Key != a.Glyph {
			label = a.Key + ":" + a.Glyph
		}
		style := m.styles.Action
		if m.focused && i == m.cursor {
			style = m.styles.ActiveAction
		}
		parts = append(parts, style.Render(label))
	}
	actions := strings.Join(parts, " ")

	title := m.props.Title
	if title == "" {
		title = "Untitled report"
	}
	avail := m.width - lipgloss.Width(actions) - 1
	if avail > 0 {
		title = truncate.StringWithTail(title, uint(avail), "…")
	}
	title = m.styles.Title.Render(title)
	if m.width <= 0 {
		return title + " " + actions
	}
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(actions)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + actions
}
