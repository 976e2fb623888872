package eventviewer

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"tableflip.dev/neodash/pkg/tui/events"
)

func TestEntryForClassifiesLevels(t *testing.T) {
	failed, ok := EntryFor(events.ExportDoneMsg{Component: "export", Title: "x", Err: errors.New("boom")})
	if !ok || failed.Level != LevelError || failed.Source != "export" {
		t.Fatalf("expected error entry from export, got %+v", failed)
	}
	saved, ok := EntryFor(events.ExportDoneMsg{Component: "export", Title: "x"})
	if !ok || saved.Level != LevelInfo {
		t.Fatalf("expected info entry, got %+v", saved)
	}
	if _, ok := EntryFor(events.ExportProgressMsg{Percent: 0.4}); ok {
		t.Fatal("expected mid-upload progress to be skipped")
	}
	if _, ok := EntryFor(struct{}{}); ok {
		t.Fatal("expected undescribed messages to be skipped")
	}
}

func TestAppendNewestFirstAndCapped(t *testing.T) {
	m := NewModel(2)
	m.SetSize(60, 8)
	for _, s := range []string{"one", "two", "three"} {
		m.Append(Entry{Summary: s})
	}
	entries := m.Entries()
	if len(entries) != 2 || entries[0].Summary != "three" || entries[1].Summary != "two" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "three") || strings.Contains(view, "one") {
		t.Fatalf("unexpected view %q", view)
	}
}
