// Package picker renders a filterable list overlay used by the settings,
// load and extension modals.
package picker

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/neodash/pkg/tui/events"
	"tableflip.dev/neodash/pkg/tui/theme"
	"tableflip.dev/neodash/pkg/tui/ui"
)

// Item is a selectable row.
type Item struct {
	Key    string
	Label  string
	Detail string
}

// Options configures a picker.
type Options struct {
	ID    events.ComponentID
	Title string
	Items []Item
	// KeepOpen leaves the picker mounted after a pick so several rows can be
	// toggled in one session.
	KeepOpen bool
	Empty    string
}

// Model is the picker overlay.
type Model struct {
	id       events.ComponentID
	title    string
	keepOpen bool
	empty    string

	items    []Item
	filtered []Item
	query    string
	cursor   int
	closed   bool

	width  int
	height int
	styles theme.ModalTheme
}

// New constructs a picker.
func New(opts Options) *Model {
	if opts.ID == "" {
		opts.ID = events.ComponentID("picker")
	}
	if opts.Empty == "" {
		opts.Empty = "Nothing to pick"
	}
	m := &Model{
		id:       opts.ID,
		title:    opts.Title,
		keepOpen: opts.KeepOpen,
		empty:    opts.Empty,
		styles:   theme.Default().Modal,
	}
	m.SetItems(opts.Items)
	m.SetSize(48, 14)
	return m
}

// ID exposes the component identifier.
func (m *Model) ID() events.ComponentID { return m.id }

// SetItems replaces the rows, keeping the cursor on the same key when it
// survives.
func (m *Model) SetItems(items []Item) {
	current := ""
	if it, ok := m.Current(); ok {
		current = it.Key
	}
	m.items = append([]Item(nil), items...)
	m.refilter()
	for i, it := range m.filtered {
		if it.Key == current {
			m.cursor = i
			break
		}
	}
}

// SetQuery filters rows by case-insensitive substring on the label.
func (m *Model) SetQuery(q string) {
	m.query = q
	m.cursor = 0
	m.refilter()
}

// Visible returns the rows that match the query.
func (m *Model) Visible() []Item { return append([]Item(nil), m.filtered...) }

// Current returns the highlighted row.
func (m *Model) Current() (Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return Item{}, false
	}
	return m.filtered[m.cursor], true
}

func (m *Model) refilter() {
	q := strings.ToLower(strings.TrimSpace(m.query))
	m.filtered = m.filtered[:0]
	for _, it := range m.items {
		if q == "" || strings.Contains(strings.ToLower(it.Label), q) {
			m.filtered = append(m.filtered, it)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

// Init implements ui.Overlay.
func (m *Model) Init() tea.Cmd { return events.FocusCmd(m.id) }

// SetSize implements ui.Overlay.
func (m *Model) SetSize(width, height int) {
	m.width = max(width, 24)
	m.height = max(height, 6)
}

// Update implements ui.Overlay.
func (m *Model) Update(msg tea.Msg) (ui.Overlay, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	switch key.String() {
	case "esc":
		m.closed = true
		cmd = events.DialogClosedCmd(m.id, false)
	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "ctrl+n":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case "enter":
		it, ok := m.Current()
		if !ok {
			break
		}
		cmd = events.PickCmd(m.id, it.Key, it.Label)
		if !m.keepOpen {
			m.closed = true
			cmd = tea.Batch(cmd, events.DialogClosedCmd(m.id, true))
		}
	case "backspace":
		if m.query != "" {
			r := []rune(m.query)
			m.SetQuery(string(r[:len(r)-1]))
		}
	default:
		if key.Text != "" {
			m.SetQuery(m.query + key.Text)
		}
	}
	if m.closed {
		return nil, cmd
	}
	return m, cmd
}

// View implements ui.Overlay.
func (m *Model) View() (string, *tea.Cursor) {
	st := m.styles
	inner := max(m.width-st.Frame.GetHorizontalFrameSize(), 10)
	lines := []string{st.Title.Render(m.title)}
	if m.query != "" {
		lines = append(lines, st.Muted.Render("filter: "+m.query))
	}
	lines = append(lines, "")

	rows := max(m.height-st.Frame.GetVerticalFrameSize()-len(lines)-2, 1)
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	if len(m.filtered) == 0 {
		lines = append(lines, st.Muted.Render(m.empty))
	}
	for i := start; i < len(m.filtered) && i < start+rows; i++ {
		it := m.filtered[i]
		text := it.Label
		if it.Detail != "" {
			text += "  " + st.Muted.Render(it.Detail)
		}
		text = truncate.StringWithTail(text, uint(inner-2), "…")
		if i == m.cursor {
			lines = append(lines, st.Selected.Render("› "+text))
		} else {
			lines = append(lines, st.Label.Render("  "+text))
		}
	}
	lines = append(lines, "", st.Muted.Render("enter select • type to filter • esc close"))
	body := lipgloss.NewStyle().Width(inner).Render(strings.Join(lines, "\n"))
	return st.Frame.Width(m.width).Render(body), nil
}
