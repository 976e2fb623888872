package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/neodash/pkg/dashboard"
	"tableflip.dev/neodash/pkg/extension"
	"tableflip.dev/neodash/pkg/hive"
)

const timeLayout = "2006-01-02 15:04"

// PrettyPrint writes human readable tables to Out, color.Output by default.
type PrettyPrint struct {
	ShowID bool
	Out    io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	switch count {
	case 1:
		_, _ = c.Fprintf(pp.out(), " - %d dashboard\n", count)
	default:
		_, _ = c.Fprintf(pp.out(), " - %d dashboards\n", count)
	}
}

// Dashboards prints one row per stored dashboard.
func (pp *PrettyPrint) Dashboards(all []*dashboard.Dashboard) {
	if len(all) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.FgHiYellow, color.Faint).SprintFunc()

	tbl := uitable.New()
	tbl.Separator = "  "
	header := []interface{}{bold("Title"), bold("Reports"), bold("Extensions"), bold("Updated")}
	if pp.ShowID {
		header = append([]interface{}{bold("ID")}, header...)
	}
	tbl.AddRow(header...)
	for _, d := range all {
		reports := 0
		for _, p := range d.Pages {
			reports += len(p.Reports)
		}
		updated := "-"
		if !d.Updated.IsZero() {
			updated = d.Updated.Local().Format(timeLayout)
		}
		row := []interface{}{d.Title, reports, enabledNames(d), updated}
		if pp.ShowID {
			row = append([]interface{}{faint(d.UUID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Extensions prints the enabled state of every known extension.
func (pp *PrettyPrint) Extensions(d *dashboard.Dashboard) {
	enabled := d.EnabledExtensions()
	on := color.New(color.FgGreen).SprintFunc()
	off := color.New(color.Faint).SprintFunc()

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, k := range extension.Kinds() {
		state := off("off")
		if enabled[k] {
			state = on("on")
		}
		tbl.AddRow(k.String(), k.Label(), state)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Records prints the dashboards published to Hive.
func (pp *PrettyPrint) Records(recs []hive.Record, hasDump func(hive.Record) bool) {
	if len(recs) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}
	bold := color.New(color.Bold).SprintFunc()

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	tbl.AddRow(bold("Title"), bold("Owner"), bold("Target"), bold("Database"), bold("Published"))
	for _, r := range recs {
		target := string(r.Target)
		if target == "" {
			target = "none"
		}
		db := "-"
		switch {
		case r.Target == hive.TargetAura:
			db = r.AuraURL
		case hasDump != nil && hasDump(r):
			db = r.DumpName
		}
		tbl.AddRow(r.Title, r.Owner, target, db, r.Published)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

func enabledNames(d *dashboard.Dashboard) string {
	enabled := d.EnabledExtensions()
	var names []string
	for _, k := range extension.Kinds() {
		if enabled[k] {
			names = append(names, k.String())
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
