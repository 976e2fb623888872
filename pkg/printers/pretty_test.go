package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/neodash/pkg/dashboard"
	"tableflip.dev/neodash/pkg/extension"
	"tableflip.dev/neodash/pkg/hive"
)

func TestDashboardsTable(t *testing.T) {
	color.NoColor = true
	d := dashboard.Sample()
	d.Extensions[extension.SolutionsHive.String()] = true

	var buf bytes.Buffer
	pp := PrettyPrint{ShowID: true, Out: &buf}
	pp.Dashboards([]*dashboard.Dashboard{d})
	out := buf.String()
	for _, want := range []string{"Title", d.UUID, "New dashboard", "solutionsHive"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestRecordsTable(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Records([]hive.Record{
		{Title: "Movies", Owner: "ada", Target: hive.TargetAura, AuraURL: "neo4j+s://db.example"},
		{Title: "Fraud", Owner: "bob", Target: hive.TargetDump, DumpName: "fraud.dump"},
	}, func(hive.Record) bool { return true })
	out := buf.String()
	for _, want := range []string{"neo4j+s://db.example", "fraud.dump", "aura", "dump"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}
