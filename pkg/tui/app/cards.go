package app

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/neodash/pkg/dashboard"
	"tableflip.dev/neodash/pkg/tui/components/cardheader"
	"tableflip.dev/neodash/pkg/tui/components/help"
	"tableflip.dev/neodash/pkg/tui/components/overlaypane"
	"tableflip.dev/neodash/pkg/tui/events"
	"tableflip.dev/neodash/pkg/tui/ui"
	"tableflip.dev/neodash/pkg/tui/uiutil"
)

// card pairs a report with its header.
type card struct {
	report dashboard.Report
	header *cardheader.Model
}

func (m *Model) fullscreenEnabled() bool {
	if !m.fullscreen {
		return false
	}
	if v, ok := m.state.Settings()["fullscreenEnabled"].(bool); ok {
		return v
	}
	return true
}

// syncCards rebuilds the card list from the state, keeping focus, the
// expanded card and open settings on reports that survived.
func (m *Model) syncCards() {
	focusedID := ""
	if c := m.focusedCard(); c != nil {
		focusedID = c.report.ID
	}
	reports := m.state.Reports()
	present := make(map[string]bool, len(reports))
	for _, r := range reports {
		present[r.ID] = true
	}
	fullscreen := m.fullscreenEnabled()
	if !present[m.expanded] || !fullscreen {
		m.expanded = ""
	}
	for id := range m.settings {
		if !present[id] {
			delete(m.settings, id)
		}
	}

	existing := make(map[string]*card, len(m.cards))
	for _, c := range m.cards {
		existing[c.report.ID] = c
	}
	cards := make([]*card, 0, len(reports))
	m.focus = -1
	for i, r := range reports {
		props := cardheader.Props{
			ReportID:          r.ID,
			Title:             r.Title,
			Expanded:          m.expanded == r.ID,
			FullscreenEnabled: fullscreen,
			Handlers:          m.handlers(r.ID),
		}
		c, ok := existing[r.ID]
		if ok {
			c.report = r
			c.header.SetProps(props)
		} else {
			c = &card{report: r, header: cardheader.New(events.ComponentID("card/"+r.ID), props)}
		}
		if r.ID == focusedID {
			m.focus = i
			c.header.Focus()
		} else {
			c.header.Blur()
		}
		cards = append(cards, c)
	}
	m.cards = cards
}

func (m *Model) handlers(id string) cardheader.Handlers {
	return cardheader.Handlers{
		OnRemove: func() tea.Cmd {
			m.removeReport(id)
			return nil
		},
		OnClone: func() tea.Cmd {
			m.cloneReport(id)
			return nil
		},
		OnToggleExpand: func() tea.Cmd {
			m.toggleExpand(id)
			return nil
		},
		OnHelp: func() tea.Cmd {
			return m.openCardHelp(id)
		},
		OnToggleSettings: func() tea.Cmd {
			m.settings[id] = !m.settings[id]
			return nil
		},
	}
}

func (m *Model) removeReport(id string) {
	if err := m.state.RemoveReport(id); err != nil {
		m.command.SetError(err.Error())
		return
	}
	idx := m.focus
	m.syncCards()
	if len(m.cards) > 0 && idx >= 0 {
		m.setFocus(min(idx, len(m.cards)-1))
	}
	m.command.SetStatus("Report removed")
}

func (m *Model) cloneReport(id string) {
	cloneID, err := m.state.CloneReport(id)
	if err != nil {
		m.command.SetError(err.Error())
		return
	}
	m.syncCards()
	for i, c := range m.cards {
		if c.report.ID == cloneID {
			m.setFocus(i)
			break
		}
	}
	m.command.SetStatus("Report cloned")
}

func (m *Model) toggleExpand(id string) {
	if m.expanded == id {
		m.expanded = ""
	} else {
		m.expanded = id
	}
	m.syncCards()
}

func (m *Model) openCardHelp(id string) tea.Cmd {
	c := m.cardByID(id)
	if c == nil {
		return nil
	}
	return m.openHelp(help.CardMarkdown(c.report))
}

func (m *Model) openHelp(markdown string) tea.Cmd {
	w := uiutil.Clamp(m.width*4/5, 32, max(m.width-2, 32))
	h := uiutil.Clamp(m.command.ContentHeight()*4/5, 8, max(m.command.ContentHeight(), 8))
	return m.mount(help.New(w, h, markdown), overlaypane.Centered(w, h))
}

func (m *Model) mount(o ui.Overlay, placement overlaypane.Placement) tea.Cmd {
	m.titlebar.CloseMenu()
	cmd := m.pane.SetOverlay(o, placement)
	m.layout()
	return cmd
}

func (m *Model) focusedCard() *card {
	if m.focus < 0 || m.focus >= len(m.cards) {
		return nil
	}
	return m.cards[m.focus]
}

func (m *Model) cardByID(id string) *card {
	for _, c := range m.cards {
		if c.report.ID == id {
			return c
		}
	}
	return nil
}

func (m *Model) setFocus(idx int) {
	if idx >= len(m.cards) {
		idx = -1
	}
	m.focus = idx
	for i, c := range m.cards {
		if i == idx {
			c.header.Focus()
		} else {
			c.header.Blur()
		}
	}
}

func (m *Model) moveFocus(delta int) {
	n := len(m.cards)
	if n == 0 {
		return
	}
	if m.focus < 0 {
		if delta > 0 {
			m.setFocus(0)
		} else {
			m.setFocus(n - 1)
		}
		return
	}
	m.setFocus((m.focus + delta + n) % n)
}

func (m *Model) renderCards(height int) string {
	if len(m.cards) == 0 {
		return m.styles.Footer.Help.Render(" No reports on this page")
	}
	if c := m.cardByID(m.expanded); c != nil {
		return m.renderCard(c, height, m.focusedCard() == c)
	}
	views := make([]string, len(m.cards))
	for i, c := range m.cards {
		views[i] = m.renderCard(c, 0, i == m.focus)
	}
	// Scroll just far enough that the focused card is on screen.
	start := 0
	for start < m.focus && lipgloss.Height(strings.Join(views[start:m.focus+1], "\n")) > height {
		start++
	}
	return strings.Join(views[start:], "\n")
}

// renderCard draws a framed card. A positive height stretches the body to
// fill it; otherwise the body is limited to a short preview.
func (m *Model) renderCard(c *card, height int, focused bool) string {
	frame := m.styles.Card.Frame
	if focused {
		frame = m.styles.Card.FocusedFrame
	}
	inner := max(m.width-frame.GetHorizontalFrameSize(), 8)
	c.header.SetSize(inner, 1)

	rows := 3
	if height > 0 {
		rows = max(height-frame.GetVerticalFrameSize()-1, 1)
	}
	lines := []string{c.header.View()}
	lines = append(lines, m.cardBody(c, inner, rows)...)
	for i, l := range lines {
		lines[i] = uiutil.FitWidth(l, inner)
	}
	return frame.Render(strings.Join(lines, "\n"))
}

func (m *Model) cardBody(c *card, width, rows int) []string {
	var text string
	if m.settings[c.report.ID] {
		text = settingsText(c.report)
	} else {
		text = strings.TrimSpace(c.report.Query)
		if text == "" {
			text = "(no query)"
		}
	}
	kind := c.report.Type
	if kind == "" {
		kind = "table"
	}
	out := []string{m.styles.Card.Action.Render("[" + kind + "]")}
	wrapped := strings.Split(wordwrap.String(text, width), "\n")
	budget := rows - 1
	if budget < len(wrapped) && budget > 0 {
		wrapped = append(wrapped[:budget-1], "…")
	}
	for _, l := range wrapped {
		if len(out) >= rows {
			break
		}
		out = append(out, m.styles.Card.Body.Render(l))
	}
	return out
}

func settingsText(r dashboard.Report) string {
	if len(r.Settings) == 0 {
		return "No custom settings. Press s to close."
	}
	keys := make([]string, 0, len(r.Settings))
	for k := range r.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, r.Settings[k]))
	}
	return strings.Join(lines, "\n")
}
