package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/neodash/pkg/dashboard"
)

func addTitle(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "title <id> <title>",
		Short: "Rename a stored dashboard",
		Long: `Rename a stored dashboard. A running neodash ui showing the same
dashboard picks the new title up from disk.`,
		Example: `
neodash title 0b6f6f8e-3c1d-4a43-9d4e-0e7c1c3a9f11 "Movie graph"
`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: dashboardCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, p, err := open()
			if err != nil {
				return err
			}
			if !cfg.Editable() {
				return errors.New("dashboards are read-only, set editable: true to rename")
			}
			d, err := resolve(context.Background(), p, args[:1], "")
			if err != nil {
				return err
			}
			state := dashboard.NewState(d, dashboard.Connection{}, true)
			state.SetTitle(args[1])
			if err := p.Save(state.Snapshot()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(color.Output, "renamed %s to %q\n", d.UUID, state.Title())
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
