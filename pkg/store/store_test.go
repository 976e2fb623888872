package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tableflip.dev/neodash/pkg/dashboard"
)

func TestSaveLoadListDelete(t *testing.T) {
	p, err := Load(StaticConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	ctx := context.Background()

	b := dashboard.New("beta")
	a := dashboard.New("Alpha")
	for _, d := range []*dashboard.Dashboard{b, a} {
		if err := p.Save(d); err != nil {
			t.Fatalf("save %s: %v", d.Title, err)
		}
	}

	got, err := p.Load(a.UUID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Title != "Alpha" || got.Version != dashboard.CurrentVersion {
		t.Fatalf("unexpected dashboard: %+v", got)
	}

	list := p.List(ctx)
	if len(list) != 2 || list[0].Title != "Alpha" || list[1].Title != "beta" {
		t.Fatalf("expected case-insensitive title order, got %v", titles(list))
	}

	found, err := p.FindByTitle(ctx, "beta")
	if err != nil || found.UUID != b.UUID {
		t.Fatalf("find by title: %v %v", found, err)
	}

	if err := p.Delete(a.UUID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := p.Load(a.UUID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := p.Delete(a.UUID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
	if _, err := p.FindByTitle(ctx, "Alpha"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRejectsMissingID(t *testing.T) {
	p, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := p.Save(&dashboard.Dashboard{Title: "x"}); err == nil {
		t.Fatal("expected error for dashboard without uuid")
	}
	if err := p.Save(nil); err == nil {
		t.Fatal("expected error for nil dashboard")
	}
}

func TestListSkipsCorruptFiles(t *testing.T) {
	base := t.TempDir()
	p, err := Open(base)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	good := dashboard.New("good")
	if err := p.Save(good); err != nil {
		t.Fatalf("save: %v", err)
	}
	dir := filepath.Join(base, "zz")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "zzbroken.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if list := p.List(context.Background()); len(list) != 1 || list[0].UUID != good.UUID {
		t.Fatalf("expected only the good dashboard, got %v", titles(list))
	}
}

func TestPersistenceWatchEmitsDashboardChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(StaticConfig{Path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	d := dashboard.New("Watched")
	if err := p.Save(d); err != nil {
		t.Fatalf("seed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before writing.
	time.Sleep(50 * time.Millisecond)

	d.Title = "Renamed elsewhere"
	if err := p.Save(d); err != nil {
		t.Fatalf("save: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventInvalidated {
				continue
			}
			if evt.ID != d.UUID {
				t.Fatalf("expected id %q, got %q", d.UUID, evt.ID)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for dashboard change event")
		}
	}
}

func titles(list []*dashboard.Dashboard) []string {
	out := make([]string, len(list))
	for i, d := range list {
		out[i] = d.Title
	}
	return out
}
