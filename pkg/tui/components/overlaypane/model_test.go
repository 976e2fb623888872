package overlaypane

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/neodash/pkg/tui/ui"
	overlaymgr "tableflip.dev/neodash/pkg/tui/ui/overlay"
)

type stubOverlay struct {
	view   string
	closed bool
}

func (s *stubOverlay) Init() tea.Cmd { return nil }
func (s *stubOverlay) Update(msg tea.Msg) (ui.Overlay, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && k.String() == "esc" {
		s.closed = true
		return nil, nil
	}
	return s, nil
}
func (s *stubOverlay) View() (string, *tea.Cursor) {
	c := tea.NewCursor(1, 0)
	return s.view, c
}
func (s *stubOverlay) SetSize(int, int) {}

func TestOverlayComposedAndUnmounted(t *testing.T) {
	m := New(10, 3)
	m.SetBackground("aaaaaaaaaa\nbbbbbbbbbb\ncccccccccc", nil)
	m.SetOverlay(&stubOverlay{view: "XX"}, Placement{Horizontal: lipgloss.Right, Vertical: overlaymgr.Start})

	view, cur := m.View()
	lines := strings.Split(view, "\n")
	if lines[0] != "aaaaaaaaXX" || lines[1] != "bbbbbbbbbb" {
		t.Fatalf("unexpected composition %q", lines)
	}
	if cur == nil || cur.X != 9 || cur.Y != 0 {
		t.Fatalf("expected cursor offset into the overlay, got %+v", cur)
	}

	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.HasOverlay() {
		t.Fatal("expected overlay unmounted after returning nil")
	}
	view, _ = m.View()
	if !strings.HasPrefix(view, "aaaaaaaaaa") {
		t.Fatalf("expected plain background, got %q", view)
	}
}
