package help

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"tableflip.dev/neodash/pkg/dashboard"
	"tableflip.dev/neodash/pkg/tui/events"
	"tableflip.dev/neodash/pkg/tui/ui"
)

//go:embed help.md
var helpMarkdown string

// Markdown returns the general key reference.
func Markdown() string { return helpMarkdown }

// CardMarkdown describes a single report card.
func CardMarkdown(r dashboard.Report) string {
	var b strings.Builder
	title := r.Title
	if title == "" {
		title = "Untitled report"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Type: **%s**\n\n", r.Type)
	if q := strings.TrimSpace(r.Query); q != "" {
		fmt.Fprintf(&b, "```cypher\n%s\n```\n\n", q)
	}
	if len(r.Settings) > 0 {
		b.WriteString("| Setting | Value |\n| --- | --- |\n")
		for _, k := range sortedKeys(r.Settings) {
			fmt.Fprintf(&b, "| %s | %v |\n", k, r.Settings[k])
		}
		b.WriteString("\n")
	}
	b.WriteString("Press `?` on a card to show this help, `esc` to close it.\n")
	return b.String()
}

// Model renders the Glamour-based help overlay inside a bordered viewport.
type Model struct {
	id       events.ComponentID
	markdown string
	viewport viewport.Model
	width    int
	height   int

	frame   lipgloss.Style
	content string
	err     error
}

// New constructs a help overlay for markdown sized to the provided bounds.
func New(width, height int, markdown string) *Model {
	vp := viewport.New(
		viewport.WithWidth(max(width, 1)),
		viewport.WithHeight(max(height, 1)),
	)
	vp.MouseWheelEnabled = true
	m := &Model{
		id:       events.ComponentID("help"),
		markdown: markdown,
		viewport: vp,
		frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()),
	}
	m.SetSize(width, height)
	return m
}

// Init implements ui.Overlay.
func (m *Model) Init() tea.Cmd { return nil }

// Update scrolls the viewport and closes on esc or q.
func (m *Model) Update(msg tea.Msg) (ui.Overlay, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "esc", "q", "?":
			return nil, events.DialogClosedCmd(m.id, false)
		}
	}
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return m, cmd
}

// View renders the help content inside a rounded frame.
func (m *Model) View() (string, *tea.Cursor) {
	body := m.viewport.View()
	if body == "" && m.err != nil {
		body = "help unavailable: " + m.err.Error()
	}
	return m.frame.Width(m.width).Height(m.height).Render(body), nil
}

// SetSize configures the overlay dimensions and re-renders the markdown to fit.
func (m *Model) SetSize(width, height int) {
	width = max(width, 32)
	height = max(height, 8)
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height

	innerWidth := max(width-m.frame.GetHorizontalFrameSize(), 1)
	innerHeight := max(height-m.frame.GetVerticalFrameSize(), 1)
	m.viewport.SetWidth(innerWidth)
	m.viewport.SetHeight(innerHeight)
	m.render(innerWidth)
}

// Content returns the rendered help text.
func (m *Model) Content() string { return m.content }

func (m *Model) render(wrap int) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(wrap, 10)),
	)
	if err != nil {
		m.err = err
		m.viewport.SetContent("help unavailable: " + err.Error())
		return
	}
	content, err := renderer.Render(strings.TrimSpace(m.markdown))
	if err != nil {
		m.err = err
		m.viewport.SetContent("help unavailable: " + err.Error())
		return
	}
	m.err = nil
	m.content = ansi.Strip(content)
	m.viewport.SetContent(m.content)
	m.viewport.SetYOffset(0)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
