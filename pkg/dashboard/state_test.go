package dashboard

import (
	"errors"
	"testing"

	"tableflip.dev/neodash/pkg/extension"
)

func newTestDashboard() *Dashboard {
	d := New("Movies")
	d.Pages[0].Reports = []Report{
		{ID: "r1", Title: "Actors", Type: "table", Settings: map[string]any{"limit": 10.0}},
		{ID: "r2", Title: "Count", Type: "value"},
	}
	return d
}

func TestStateSetTitleNotifiesOnce(t *testing.T) {
	s := NewState(newTestDashboard(), Connection{Database: "neo4j"}, true)
	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	s.SetTitle("Films")
	s.SetTitle("Films")

	if got := s.Title(); got != "Films" {
		t.Fatalf("expected title Films, got %q", got)
	}
	if len(changes) != 1 || changes[0] != ChangeTitle {
		t.Fatalf("expected one title change, got %v", changes)
	}
}

func TestStateUpdateSetting(t *testing.T) {
	s := NewState(newTestDashboard(), Connection{}, true)
	s.UpdateSetting("fullscreenEnabled", true)
	if v, _ := s.Settings()["fullscreenEnabled"].(bool); !v {
		t.Fatalf("expected setting to be stored, got %v", s.Settings())
	}

	// Returned map is a copy.
	s.Settings()["fullscreenEnabled"] = false
	if v, _ := s.Settings()["fullscreenEnabled"].(bool); !v {
		t.Fatal("settings copy leaked into state")
	}

	s.UpdateSetting("fullscreenEnabled", nil)
	if _, ok := s.Settings()["fullscreenEnabled"]; ok {
		t.Fatal("expected nil value to remove the setting")
	}
}

func TestStateExtensions(t *testing.T) {
	d := newTestDashboard()
	d.Extensions = map[string]any{
		"node-sidebar":     true,
		"query-translator": map[string]any{"active": false},
		"solutionsHive":    map[string]any{"dbName": "movies"},
		"styling":          true,
	}
	s := NewState(d, Connection{}, true)

	got := s.Extensions()
	if !got[extension.NodeSidebar] {
		t.Fatal("expected node-sidebar enabled")
	}
	if got[extension.QueryTranslator] {
		t.Fatal("expected query-translator disabled")
	}
	if !got[extension.SolutionsHive] {
		t.Fatal("expected solutionsHive enabled when active is absent")
	}

	s.SetExtensionEnabled(extension.SolutionsHive, false)
	if s.Extensions()[extension.SolutionsHive] {
		t.Fatal("expected solutionsHive disabled")
	}
	if name := s.Snapshot().SolutionsHiveDBName(); name != "movies" {
		t.Fatalf("expected extension config to survive toggle, got %q", name)
	}

	s.SetExtensionEnabled(extension.QueryTranslator, true)
	if !s.Extensions()[extension.QueryTranslator] {
		t.Fatal("expected query-translator enabled")
	}
}

func TestStateCloneAndRemoveReport(t *testing.T) {
	s := NewState(newTestDashboard(), Connection{}, true)

	id, err := s.CloneReport("r1")
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	reports := s.Reports()
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	if reports[1].ID != id || reports[1].Title != "Actors" {
		t.Fatalf("expected clone right after source, got %+v", reports[1])
	}
	reports[1].Settings["limit"] = 99.0
	if s.Reports()[0].Settings["limit"] != 10.0 {
		t.Fatal("clone shares settings with source")
	}

	if err := s.RemoveReport("r1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := s.Reports(); len(got) != 2 || got[0].ID != id {
		t.Fatalf("unexpected reports after remove: %+v", got)
	}

	if err := s.RemoveReport("missing"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
	if _, err := s.CloneReport("missing"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := NewState(newTestDashboard(), Connection{}, true)
	snap := s.Snapshot()
	snap.Title = "changed"
	snap.Pages[0].Reports[0].Title = "changed"
	if s.Title() != "Movies" || s.Reports()[0].Title != "Actors" {
		t.Fatal("snapshot mutation leaked into state")
	}
}

func TestReplaceNotifies(t *testing.T) {
	s := NewState(newTestDashboard(), Connection{}, true)
	var got Change
	s.Subscribe(func(c Change) { got = c })

	next := New("Other")
	next.Settings = nil
	s.Replace(next)

	if got != ChangeReplace {
		t.Fatalf("expected replace change, got %q", got)
	}
	if s.Title() != "Other" {
		t.Fatalf("expected replaced title, got %q", s.Title())
	}
	s.UpdateSetting("x", 1)
}

func TestBoolSettingDefault(t *testing.T) {
	d := New("x")
	if !d.BoolSetting("fullscreenEnabled", true) {
		t.Fatal("expected default")
	}
	d.Settings["fullscreenEnabled"] = false
	if d.BoolSetting("fullscreenEnabled", true) {
		t.Fatal("expected stored value")
	}
}
