package help

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/neodash/pkg/dashboard"
)

func TestCardMarkdownIncludesQueryAndSettings(t *testing.T) {
	md := CardMarkdown(dashboard.Report{
		Title:    "Top actors",
		Type:     "bar",
		Query:    "MATCH (n) RETURN n",
		Settings: map[string]any{"b": 2, "a": 1},
	})
	for _, want := range []string{"# Top actors", "**bar**", "MATCH (n) RETURN n", "| a | 1 |"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
	if strings.Index(md, "| a |") > strings.Index(md, "| b |") {
		t.Fatal("expected settings sorted by key")
	}
}

func TestRendersPlainText(t *testing.T) {
	m := New(60, 20, Markdown())
	content := m.Content()
	if !strings.Contains(content, "Save to Hive") {
		t.Fatalf("expected rendered help, got %q", content)
	}
	if strings.Contains(content, "\x1b[") {
		t.Fatal("expected ANSI sequences stripped")
	}
}

func TestEscCloses(t *testing.T) {
	m := New(40, 10, "# hi")
	if next, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); next != nil || cmd == nil {
		t.Fatal("expected esc to close the help overlay")
	}
}
