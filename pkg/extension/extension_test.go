package extension

import "testing"

func TestDrawerButtonsOnlyForEnabledRegisteredKinds(t *testing.T) {
	enabled := map[Kind]bool{NodeSidebar: true, QueryTranslator: false}

	buttons := DrawerButtons(enabled, "movies")
	if len(buttons) != 1 {
		t.Fatalf("expected one button, got %d", len(buttons))
	}
	b, ok := buttons[0].(NodeSidebarButton)
	if !ok {
		t.Fatalf("expected NodeSidebarButton, got %T", buttons[0])
	}
	if b.Database != "movies" {
		t.Fatalf("expected database movies, got %q", b.Database)
	}
}

func TestDrawerButtonsFollowRegistryOrder(t *testing.T) {
	enabled := map[Kind]bool{SolutionsHive: true, NodeSidebar: true, QueryTranslator: true}

	buttons := DrawerButtons(enabled, "neo4j")
	want := []Kind{NodeSidebar, QueryTranslator, SolutionsHive}
	if len(buttons) != len(want) {
		t.Fatalf("expected %d buttons, got %d", len(want), len(buttons))
	}
	for i, k := range want {
		if buttons[i].Kind() != k {
			t.Fatalf("button %d: expected %s, got %s", i, k, buttons[i].Kind())
		}
		if Database(buttons[i]) != "neo4j" {
			t.Fatalf("button %d: database not threaded through", i)
		}
	}
}

func TestDrawerButtonsNoneEnabled(t *testing.T) {
	if got := DrawerButtons(nil, "neo4j"); len(got) != 0 {
		t.Fatalf("expected no buttons, got %v", got)
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("parse %s: %v", k, err)
		}
		if got != k {
			t.Fatalf("expected %s, got %s", k, got)
		}
	}
	if got, err := ParseKind("SOLUTIONSHIVE"); err != nil || got != SolutionsHive {
		t.Fatalf("expected case-insensitive match, got %v %v", got, err)
	}
	if _, err := ParseKind("styling"); err == nil {
		t.Fatal("expected error for unknown extension")
	}
}
