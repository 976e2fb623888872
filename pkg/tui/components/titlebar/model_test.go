package titlebar

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"tableflip.dev/neodash/pkg/extension"
	"tableflip.dev/neodash/pkg/tui/events"
)

func newBar(editable bool, enabled map[extension.Kind]bool) *Model {
	return New(Params{
		ID:         "tb",
		Title:      func() string { return "Movies" },
		Editable:   editable,
		Extensions: enabled,
		Database:   "neo4j",
	})
}

func runCmd(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestTitleFollowsLatestExternalValue(t *testing.T) {
	m := newBar(true, nil)
	if m.Title() != "Movies" {
		t.Fatalf("expected initial title from source, got %q", m.Title())
	}
	for _, title := range []string{"A", "B", "B", "C"} {
		m.Update(events.TitleChangedMsg{Title: title})
	}
	if m.Title() != "C" {
		t.Fatalf("expected latest title C, got %q", m.Title())
	}
	if m.SyncTitle("C") {
		t.Fatal("syncing an equal title must not report a change")
	}
}

func TestMenuStateMachine(t *testing.T) {
	m := newBar(true, nil)
	if m.MenuOpen() {
		t.Fatal("menu must start closed")
	}
	m.OpenMenu("")
	if !m.MenuOpen() || m.Anchor() != m.ButtonID() {
		t.Fatalf("expected open menu anchored at %q, got open=%v anchor=%q", m.ButtonID(), m.MenuOpen(), m.Anchor())
	}
	if cmd := m.OpenMenu("other"); cmd != nil || m.Anchor() != m.ButtonID() {
		t.Fatal("reopening an open menu must be a no-op")
	}
	m.CloseMenu()
	if m.MenuOpen() || m.Anchor() != "" {
		t.Fatal("expected menu closed with no anchor")
	}
	if cmd := m.CloseMenu(); cmd != nil || m.MenuOpen() {
		t.Fatal("repeated close must be idempotent")
	}
}

func TestMenuKeysAndSelection(t *testing.T) {
	m := newBar(true, map[extension.Kind]bool{extension.SolutionsHive: true})
	if _, consumed := m.HandleKey(tea.KeyPressMsg{Code: 'm', Text: "m"}); !consumed || !m.MenuOpen() {
		t.Fatal("expected m to open the menu")
	}
	m.HandleKey(tea.KeyPressMsg{Code: tea.KeyDown})
	cmd, _ := m.HandleKey(tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.MenuOpen() {
		t.Fatal("selection must close the menu")
	}
	var sel *events.MenuSelectMsg
	for _, msg := range runCmd(t, cmd) {
		if v, ok := msg.(events.MenuSelectMsg); ok {
			sel = &v
		}
	}
	if sel == nil || sel.Entry != events.MenuSave {
		t.Fatalf("expected Save selection, got %+v", sel)
	}

	m.OpenMenu("")
	last := len(m.Items()) - 1
	var ext *events.MenuSelectMsg
	for _, msg := range runCmd(t, m.Select(last)) {
		if v, ok := msg.(events.MenuSelectMsg); ok {
			ext = &v
		}
	}
	if ext == nil || ext.Entry != events.MenuExtension {
		t.Fatalf("expected extension selection, got %+v", ext)
	}
	if b, ok := ext.Extension.(extension.HiveExportButton); !ok || b.Database != "neo4j" {
		t.Fatalf("expected hive button on neo4j, got %#v", ext.Extension)
	}
}

func TestEscClosesMenu(t *testing.T) {
	m := newBar(true, nil)
	m.OpenMenu("")
	m.HandleKey(tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.MenuOpen() {
		t.Fatal("expected esc to close the menu")
	}
}

func TestMenuOrderAndExtensionButtons(t *testing.T) {
	m := newBar(true, map[extension.Kind]bool{
		extension.QueryTranslator: true,
		extension.SolutionsHive:   true,
		extension.NodeSidebar:     false,
	})
	items := m.Items()
	want := []string{"Settings", "Save", "Load", "Share", "Manage extensions", "Query Translator", "Save to Hive"}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, label := range want {
		if items[i].Label() != label {
			t.Fatalf("item %d: expected %q, got %q", i, label, items[i].Label())
		}
	}

	m.SetExtensions(nil)
	if len(m.Buttons()) != 0 {
		t.Fatalf("expected no buttons with nothing enabled, got %v", m.Buttons())
	}
}

func TestReadOnlyHasNoMenu(t *testing.T) {
	m := newBar(false, map[extension.Kind]bool{extension.SolutionsHive: true})
	if cmd := m.OpenMenu(""); cmd != nil || m.MenuOpen() {
		t.Fatal("read-only bar must not open a menu")
	}
	if _, consumed := m.HandleKey(tea.KeyPressMsg{Code: 'm', Text: "m"}); consumed {
		t.Fatal("read-only bar must not consume m")
	}
	m.SetSize(40, 1)
	if view := ansi.Strip(m.View()); strings.Contains(view, "menu") {
		t.Fatalf("read-only bar must not render the action button, got %q", view)
	}
}

func TestHooksDispatch(t *testing.T) {
	var gotKey string
	var gotValue any
	var requested string
	m := New(Params{
		Title:         func() string { return "x" },
		Editable:      true,
		UpdateSetting: func(k string, v any) { gotKey, gotValue = k, v },
		SetTitle:      func(s string) { requested = s },
	})
	m.UpdateSetting("fullscreenEnabled", false)
	m.RequestTitle("y")
	if gotKey != "fullscreenEnabled" || gotValue != false {
		t.Fatalf("unexpected setting dispatch %q=%v", gotKey, gotValue)
	}
	if requested != "y" || m.Title() != "x" {
		t.Fatalf("title request must dispatch without local edit, requested=%q title=%q", requested, m.Title())
	}
}
