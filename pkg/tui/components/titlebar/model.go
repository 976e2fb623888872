// Package titlebar renders the dashboard title together with the dashboard
// menu and the buttons contributed by enabled extensions.
package titlebar

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/neodash/pkg/extension"
	"tableflip.dev/neodash/pkg/tui/events"
	"tableflip.dev/neodash/pkg/tui/theme"
	"tableflip.dev/neodash/pkg/tui/ui"
)

// Params are the collaborators the title bar is built from. Accessors are
// read on demand; hooks dispatch intents back to the owner of the state.
type Params struct {
	ID            events.ComponentID
	Title         func() string
	Editable      bool
	Settings      func() map[string]any
	Extensions    map[extension.Kind]bool
	Database      string
	UpdateSetting func(key string, value any)
	SetTitle      func(title string)
}

// Item is one row in the open menu: either a fixed entry or an extension
// button.
type Item struct {
	Entry     events.MenuEntry
	Extension extension.Button
}

// Label returns the text rendered for the item.
func (i Item) Label() string {
	if i.Extension != nil {
		return i.Extension.Label()
	}
	return string(i.Entry)
}

// Model is the dashboard title bar.
type Model struct {
	id     events.ComponentID
	params Params

	title   string
	buttons []extension.Button

	open   bool
	anchor events.ComponentID
	cursor int

	width  int
	styles theme.Theme
}

// New constructs the title bar and resolves the extension buttons once.
func New(p Params) *Model {
	id := p.ID
	if id == "" {
		id = events.ComponentID("titlebar")
	}
	m := &Model{
		id:     id,
		params: p,
		styles: theme.Default(),
	}
	if p.Title != nil {
		m.title = p.Title()
	}
	m.buttons = extension.DrawerButtons(p.Extensions, p.Database)
	return m
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// ButtonID identifies the menu action button, recorded as the menu anchor.
func (m *Model) ButtonID() events.ComponentID { return m.id + "/menu" }

// Title returns the displayed title.
func (m *Model) Title() string { return m.title }

// SyncTitle adopts the external title when it differs from the local copy.
// It reports whether the local copy changed.
func (m *Model) SyncTitle(external string) bool {
	if external == m.title {
		return false
	}
	m.title = external
	return true
}

// Editable reports whether the menu is available.
func (m *Model) Editable() bool { return m.params.Editable }

// Buttons returns the resolved extension buttons.
func (m *Model) Buttons() []extension.Button {
	return append([]extension.Button(nil), m.buttons...)
}

// SetExtensions re-resolves the extension buttons after the enabled set
// changed.
func (m *Model) SetExtensions(enabled map[extension.Kind]bool) {
	m.params.Extensions = enabled
	m.buttons = extension.DrawerButtons(enabled, m.params.Database)
	if m.cursor >= len(m.Items()) {
		m.cursor = 0
	}
}

// Settings reads the current dashboard settings.
func (m *Model) Settings() map[string]any {
	if m.params.Settings == nil {
		return nil
	}
	return m.params.Settings()
}

// UpdateSetting dispatches a setting change through the injected hook.
func (m *Model) UpdateSetting(key string, value any) {
	if !m.params.Editable || m.params.UpdateSetting == nil {
		return
	}
	m.params.UpdateSetting(key, value)
}

// RequestTitle dispatches a title change. The displayed title only follows
// once the new value comes back through SyncTitle.
func (m *Model) RequestTitle(title string) {
	if !m.params.Editable || m.params.SetTitle == nil {
		return
	}
	m.params.SetTitle(title)
}

// Items returns the menu rows in display order.
func (m *Model) Items() []Item {
	if !m.params.Editable {
		return nil
	}
	entries := events.MenuEntries()
	items := make([]Item, 0, len(entries)+len(m.buttons))
	for _, e := range entries {
		items = append(items, Item{Entry: e})
	}
	for _, b := range m.buttons {
		items = append(items, Item{Entry: events.MenuExtension, Extension: b})
	}
	return items
}

// MenuOpen reports the menu state.
func (m *Model) MenuOpen() bool { return m.open }

// Anchor returns the component that opened the menu, empty when closed.
func (m *Model) Anchor() events.ComponentID { return m.anchor }

// OpenMenu transitions Closed to Open. It is a no-op when the bar is not
// editable or the menu is already open.
func (m *Model) OpenMenu(anchor events.ComponentID) tea.Cmd {
	if !m.params.Editable || m.open {
		return nil
	}
	if anchor == "" {
		anchor = m.ButtonID()
	}
	m.open = true
	m.anchor = anchor
	m.cursor = 0
	return events.MenuStateCmd(m.id, events.MenuOpen, anchor)
}

// CloseMenu transitions Open to Closed. Closing a closed menu does nothing.
func (m *Model) CloseMenu() tea.Cmd {
	if !m.open {
		return nil
	}
	m.open = false
	m.anchor = ""
	return events.MenuStateCmd(m.id, events.MenuClosed, "")
}

// Select closes the menu and emits the selection for the item at index.
func (m *Model) Select(index int) tea.Cmd {
	items := m.Items()
	if !m.open || index < 0 || index >= len(items) {
		return nil
	}
	item := items[index]
	return tea.Batch(m.CloseMenu(), events.MenuSelectCmd(m.id, item.Entry, item.Extension))
}

// Init implements ui.Component.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize implements ui.Component.
func (m *Model) SetSize(width, _ int) { m.width = width }

// Update implements ui.Component.
func (m *Model) Update(msg tea.Msg) (ui.Component, tea.Cmd) {
	switch msg := msg.(type) {
	case events.TitleChangedMsg:
		m.SyncTitle(msg.Title)
	case tea.KeyPressMsg:
		cmd, _ := m.HandleKey(msg)
		return m, cmd
	}
	return m, nil
}

// HandleKey drives the menu. The bool reports whether the key was consumed.
func (m *Model) HandleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	if !m.open {
		if msg.String() == "m" && m.params.Editable {
			return m.OpenMenu(m.ButtonID()), true
		}
		return nil, false
	}
	items := m.Items()
	switch msg.String() {
	case "esc", "m":
		return m.CloseMenu(), true
	case "up", "k", "shift+tab":
		if len(items) > 0 {
			m.cursor = (m.cursor - 1 + len(items)) % len(items)
		}
	case "down", "j", "tab":
		if len(items) > 0 {
			m.cursor = (m.cursor + 1) % len(items)
		}
	case "enter":
		return m.Select(m.cursor), true
	}
	// An open menu swallows every key, the way a modal drawer would.
	return nil, true
}

// View renders the one-line title bar.
func (m *Model) View() string {
	button := ""
	if m.params.Editable {
		button = m.styles.Title.Button.Render("≡ m:menu")
	}
	avail := m.width - lipgloss.Width(button) - 3
	title := m.title
	if title == "" {
		title = "Untitled dashboard"
	}
	if avail > 0 {
		title = truncate.StringWithTail(title, uint(avail), "…")
	}
	title = m.styles.Title.Text.Render(title)
	if m.width <= 0 || button == "" {
		return m.styles.Title.Bar.Render(strings.TrimSpace(title + " " + button))
	}
	gap := max(1, m.width-lipgloss.Width(title)-lipgloss.Width(button)-2)
	return m.styles.Title.Bar.Render(title + strings.Repeat(" ", gap) + button)
}

// MenuView renders the open menu drawer, or an empty string when closed.
func (m *Model) MenuView() string {
	if !m.open {
		return ""
	}
	st := m.styles.Menu
	items := m.Items()
	rows := make([]string, 0, len(items)+1)
	width := 0
	for _, it := range items {
		width = max(width, lipgloss.Width(it.Label())+2)
	}
	for i, it := range items {
		if it.Extension != nil && (i == 0 || items[i-1].Extension == nil) {
			rows = append(rows, st.Separator.Render(strings.Repeat("─", width)))
		}
		style := st.Item
		if it.Extension != nil {
			style = st.Extension
		}
		if i == m.cursor {
			style = st.Selected
		}
		rows = append(rows, style.Width(width).Render(it.Label()))
	}
	return st.Frame.Render(strings.Join(rows, "\n"))
}
