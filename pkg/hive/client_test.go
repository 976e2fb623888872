package hive

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tableflip.dev/neodash/pkg/dashboard"
)

type recordingVerifier struct {
	calls [][3]string
	err   error
}

func (r *recordingVerifier) Verify(_ context.Context, url, user, pass string) error {
	r.calls = append(r.calls, [3]string{url, user, pass})
	return r.err
}

func newTestClient(t *testing.T, v Verifier) *Client {
	t.Helper()
	c, err := NewClient(filepath.Join(t.TempDir(), "hive"), WithVerifier(v))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func writeDump(t *testing.T, size int) *FileDescriptor {
	t.Helper()
	path := filepath.Join(t.TempDir(), "movies.dump")
	if err := os.WriteFile(path, bytes.Repeat([]byte{'x'}, size), 0o644); err != nil {
		t.Fatal(err)
	}
	fd, err := Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	return fd
}

func TestSaveDumpUploadsFileAndReportsProgress(t *testing.T) {
	c := newTestClient(t, &recordingVerifier{})
	fd := writeDump(t, 256*1024)

	var progress []float64
	req := Request{
		File:      fd,
		Dashboard: dashboard.New("Movies"),
		Timestamp: "2026-10-18T10:00:00Z",
		Username:  "alice",
		Target:    TargetDump,
	}
	if err := c.Save(context.Background(), req, func(p float64) { progress = append(progress, p) }); err != nil {
		t.Fatalf("save: %v", err)
	}

	if len(progress) < 3 {
		t.Fatalf("expected start, upload and finish progress, got %v", progress)
	}
	if progress[0] != 0 || progress[len(progress)-1] != 1 {
		t.Fatalf("expected progress from 0 to 1, got %v", progress)
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] < progress[i-1] {
			t.Fatalf("progress went backwards: %v", progress)
		}
	}

	recs, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Title != "Movies" || rec.Owner != "alice" || rec.DumpName != "movies.dump" || rec.DumpSize != fd.Size {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !c.HasDump(rec) {
		t.Fatal("expected dump to be stored")
	}
}

func TestSaveDumpWithoutFileStoresDashboardOnly(t *testing.T) {
	c := newTestClient(t, &recordingVerifier{})
	req := Request{Dashboard: dashboard.New("No file"), Target: TargetDump}
	if err := c.Save(context.Background(), req, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	recs, _ := c.List(context.Background())
	if len(recs) != 1 || recs[0].DumpKey != "" {
		t.Fatalf("expected dashboard-only record, got %+v", recs)
	}
}

func TestSaveRespectsOverwrite(t *testing.T) {
	c := newTestClient(t, &recordingVerifier{})
	ctx := context.Background()
	first := Request{Dashboard: dashboard.New("Same"), Timestamp: "2026-01-01T00:00:00Z", Target: TargetDump, File: writeDump(t, 10)}
	if err := c.Save(ctx, first, nil); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second := Request{Dashboard: dashboard.New("Same"), Timestamp: "2026-02-01T00:00:00Z"}
	if err := c.Save(ctx, second, nil); !errors.Is(err, ErrDashboardExists) {
		t.Fatalf("expected ErrDashboardExists, got %v", err)
	}

	before, _ := c.List(ctx)
	second.Overwrite = true
	if err := c.Save(ctx, second, nil); err != nil {
		t.Fatalf("overwrite save: %v", err)
	}
	after, _ := c.List(ctx)
	if len(after) != 1 {
		t.Fatalf("expected overwrite in place, got %d records", len(after))
	}
	if after[0].ID != before[0].ID || after[0].Published != "2026-02-01T00:00:00Z" {
		t.Fatalf("expected record %s replaced, got %+v", before[0].ID, after[0])
	}
	if c.HasDump(before[0]) {
		t.Fatal("expected stale dump to be removed")
	}
}

func TestFailedOverwriteKeepsPublishedDump(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "hive")
	c, err := NewClient(dir, WithVerifier(&recordingVerifier{}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	first := Request{Dashboard: dashboard.New("Movies"), Timestamp: "2026-01-01T00:00:00Z", Target: TargetDump, File: writeDump(t, 1024*1024)}
	if err := c.Save(context.Background(), first, nil); err != nil {
		t.Fatalf("first save: %v", err)
	}
	before, _ := c.List(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	second := first
	second.Timestamp = "2026-02-01T00:00:00Z"
	second.Overwrite = true
	second.File = writeDump(t, 1024*1024)
	err = c.Save(ctx, second, func(p float64) {
		if p > 0 {
			cancel()
		}
	})
	if err == nil || !strings.Contains(err.Error(), context.Canceled.Error()) {
		t.Fatalf("expected cancelled upload, got %v", err)
	}

	after, _ := c.List(context.Background())
	if len(after) != 1 || after[0].Published != "2026-01-01T00:00:00Z" || after[0].DumpKey != before[0].DumpKey {
		t.Fatalf("expected published record untouched, got %+v", after)
	}
	if !c.HasDump(after[0]) {
		t.Fatal("expected published dump to survive a failed overwrite")
	}
	dumps, err := os.ReadDir(filepath.Join(dir, dumpsDir))
	if err != nil {
		t.Fatalf("read dumps: %v", err)
	}
	if len(dumps) != 1 {
		t.Fatalf("expected the partial upload removed, got %d dump files", len(dumps))
	}
}

func TestOverwriteReplacesDump(t *testing.T) {
	c := newTestClient(t, &recordingVerifier{})
	ctx := context.Background()
	first := Request{Dashboard: dashboard.New("Movies"), Target: TargetDump, File: writeDump(t, 64)}
	if err := c.Save(ctx, first, nil); err != nil {
		t.Fatalf("first save: %v", err)
	}
	before, _ := c.List(ctx)

	second := first
	second.Overwrite = true
	second.File = writeDump(t, 128)
	if err := c.Save(ctx, second, nil); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	after, _ := c.List(ctx)
	if len(after) != 1 || after[0].ID != before[0].ID || after[0].DumpSize != 128 {
		t.Fatalf("unexpected record after overwrite: %+v", after)
	}
	if !c.HasDump(after[0]) || c.HasDump(before[0]) {
		t.Fatal("expected the new dump stored and the old one erased")
	}
}

func TestSaveAuraVerifiesConnection(t *testing.T) {
	v := &recordingVerifier{}
	c := newTestClient(t, v)
	req := Request{
		Dashboard:    dashboard.New("Aura"),
		Target:       TargetAura,
		AuraURL:      "neo4j+s://abc.databases.neo4j.io",
		AuraUsername: "neo4j",
		AuraPassword: "secret",
	}
	if err := c.Save(context.Background(), req, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(v.calls) != 1 || v.calls[0] != [3]string{req.AuraURL, "neo4j", "secret"} {
		t.Fatalf("unexpected verifier calls: %v", v.calls)
	}
	recs, _ := c.List(context.Background())
	if recs[0].AuraURL != req.AuraURL || recs[0].AuraUser != "neo4j" {
		t.Fatalf("unexpected record: %+v", recs[0])
	}
}

func TestSaveAuraFailures(t *testing.T) {
	calls := 0
	v := VerifierFunc(func(context.Context, string, string, string) error {
		calls++
		return errors.New("unauthorized")
	})
	c := newTestClient(t, v)

	missing := Request{Dashboard: dashboard.New("Aura"), Target: TargetAura, AuraURL: "neo4j://host"}
	if err := c.Save(context.Background(), missing, nil); !errors.Is(err, ErrConnectionRequired) {
		t.Fatalf("expected ErrConnectionRequired, got %v", err)
	}
	if calls != 0 {
		t.Fatal("verifier must not run on an incomplete request")
	}

	full := missing
	full.AuraUsername, full.AuraPassword = "u", "p"
	if err := c.Save(context.Background(), full, nil); err == nil || calls != 1 {
		t.Fatalf("expected verifier error to surface, got %v after %d calls", err, calls)
	}
	if recs, _ := c.List(context.Background()); len(recs) != 0 {
		t.Fatalf("expected nothing stored, got %+v", recs)
	}
}

func TestSaveRequiresDashboard(t *testing.T) {
	c := newTestClient(t, &recordingVerifier{})
	if err := c.Save(context.Background(), Request{}, nil); !errors.Is(err, ErrNoDashboard) {
		t.Fatalf("expected ErrNoDashboard, got %v", err)
	}
}

func TestParseTargetAndDescribe(t *testing.T) {
	for in, want := range map[string]Target{"": TargetNone, "dump": TargetDump, " AURA ": TargetAura} {
		got, err := ParseTarget(in)
		if err != nil || got != want {
			t.Fatalf("ParseTarget(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseTarget("s3"); err == nil {
		t.Fatal("expected error for unknown target")
	}

	var nilFD *FileDescriptor
	if nilFD.Describe() != "" {
		t.Fatal("expected empty description for nil descriptor")
	}
	fd := &FileDescriptor{Name: "x.dump", Size: 3 * 1024 * 1024}
	if got := fd.Describe(); got[:len("x.dump (3.00 MB")] != "x.dump (3.00 MB" {
		t.Fatalf("unexpected description %q", got)
	}
}
