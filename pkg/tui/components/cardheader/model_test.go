package cardheader

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"tableflip.dev/neodash/pkg/tui/events"
)

func names(actions []Action) []events.CardAction {
	out := make([]events.CardAction, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Name)
	}
	return out
}

func TestExpandControlHiddenWithoutFullscreen(t *testing.T) {
	for _, expanded := range []bool{false, true} {
		m := New("card", Props{Expanded: expanded})
		if m.Has(events.CardMaximize) || m.Has(events.CardShrink) {
			t.Fatalf("expanded=%v: expected no expand control, got %v", expanded, names(m.Actions()))
		}
	}
}

func TestExactlyOneExpandControlWithFullscreen(t *testing.T) {
	m := New("card", Props{FullscreenEnabled: true})
	if !m.Has(events.CardMaximize) || m.Has(events.CardShrink) {
		t.Fatalf("collapsed card: expected maximize only, got %v", names(m.Actions()))
	}
	m.SetProps(Props{FullscreenEnabled: true, Expanded: true})
	if m.Has(events.CardMaximize) || !m.Has(events.CardShrink) {
		t.Fatalf("expanded card: expected shrink only, got %v", names(m.Actions()))
	}
}

func TestActionOrder(t *testing.T) {
	got := names(Actions(Props{FullscreenEnabled: true}))
	want := []events.CardAction{events.CardDrag, events.CardHelp, events.CardRemove, events.CardClone, events.CardMaximize, events.CardSave}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestKeysInvokeHandlers(t *testing.T) {
	calls := map[string]int{}
	record := func(name string) func() tea.Cmd {
		return func() tea.Cmd {
			calls[name]++
			return nil
		}
	}
	m := New("card", Props{
		ReportID:          "r1",
		FullscreenEnabled: true,
		Handlers: Handlers{
			OnRemove:         record("remove"),
			OnToggleSettings: record("settings"),
			OnToggleExpand:   record("expand"),
			OnHelp:           record("help"),
			OnClone:          record("clone"),
		},
	})
	m.Focus()

	for _, key := range []rune{'?', 'd', 'c', 'f', 's'} {
		cmd, consumed := m.HandleKey(tea.KeyPressMsg{Code: key, Text: string(key)})
		if !consumed {
			t.Fatalf("key %q not consumed", key)
		}
		if cmd == nil {
			t.Fatalf("key %q produced no command", key)
		}
	}
	for _, name := range []string{"remove", "settings", "expand", "help", "clone"} {
		if calls[name] != 1 {
			t.Fatalf("expected %s handler once, got %d", name, calls[name])
		}
	}
}

func TestSaveConsumesKeyAndTogglesSettings(t *testing.T) {
	toggled := false
	m := New("card", Props{Handlers: Handlers{OnToggleSettings: func() tea.Cmd {
		toggled = true
		return nil
	}}})
	m.Focus()
	_, consumed := m.HandleKey(tea.KeyPressMsg{Code: 's', Text: "s"})
	if !consumed || !toggled {
		t.Fatalf("expected save to consume the key and toggle settings, consumed=%v toggled=%v", consumed, toggled)
	}
}

func TestNilHandlersAreNoOps(t *testing.T) {
	m := New("card", Props{FullscreenEnabled: true})
	m.Focus()
	for _, a := range m.Actions() {
		if cmd := m.Activate(a.Name); cmd != nil {
			t.Fatalf("expected nil command for %s without handler", a.Name)
		}
	}
	if cmd := m.Activate(events.CardShrink); cmd != nil {
		t.Fatal("absent action must be ignored")
	}
}

func TestUnfocusedIgnoresKeys(t *testing.T) {
	called := false
	m := New("card", Props{Handlers: Handlers{OnRemove: func() tea.Cmd { called = true; return nil }}})
	if _, consumed := m.HandleKey(tea.KeyPressMsg{Code: 'd', Text: "d"}); consumed || called {
		t.Fatal("unfocused header must not handle keys")
	}
}

func TestViewShowsTitleAndControls(t *testing.T) {
	m := New("card", Props{Title: "Movies by year", FullscreenEnabled: true, Expanded: true})
	m.SetSize(60, 1)
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "Movies by year") {
		t.Fatalf("expected title in view, got %q", view)
	}
	if !strings.Contains(view, "f:⤡") || strings.Contains(view, "⤢") {
		t.Fatalf("expected shrink control only, got %q", view)
	}
}
