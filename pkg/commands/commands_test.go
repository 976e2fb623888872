package commands

import (
	"context"
	"errors"
	"testing"

	"tableflip.dev/neodash/pkg/dashboard"
	"tableflip.dev/neodash/pkg/store"
)

func TestDecodeDashboardFillsDefaults(t *testing.T) {
	d, err := decodeDashboard([]byte(`{"title":"Movies"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.UUID == "" || d.Version != dashboard.CurrentVersion || len(d.Pages) != 1 {
		t.Fatalf("expected defaults, got %+v", d)
	}
	if _, err := decodeDashboard([]byte(`{`)); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestStartDashboardCreatesSample(t *testing.T) {
	p, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	d, err := startDashboard(ctx, p, nil, "")
	if err != nil {
		t.Fatalf("startDashboard: %v", err)
	}
	if len(p.List(ctx)) != 1 {
		t.Fatal("expected the sample dashboard to be stored")
	}
	again, err := startDashboard(ctx, p, nil, "")
	if err != nil || again.UUID != d.UUID {
		t.Fatalf("expected the stored dashboard on the second launch, got %v, %v", again, err)
	}

	byTitle, err := startDashboard(ctx, p, nil, d.Title)
	if err != nil || byTitle.UUID != d.UUID {
		t.Fatalf("expected lookup by title, got %v, %v", byTitle, err)
	}
	if _, err := startDashboard(ctx, p, []string{"missing"}, ""); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCommandTree(t *testing.T) {
	root := New()
	for _, path := range [][]string{{"ui"}, {"list"}, {"import"}, {"export-json"}, {"title"}, {"extensions"}, {"hive", "save"}, {"hive", "list"}, {"version"}} {
		cmd, _, err := root.Find(path)
		if err != nil || cmd == root {
			t.Fatalf("expected command %v, got %v", path, err)
		}
	}
}
