package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/neodash/pkg/commands/options"
	"tableflip.dev/neodash/pkg/dashboard"
	"tableflip.dev/neodash/pkg/printers"
)

func addExtensions(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	eo := &options.ExtensionOptions{}
	cmd := &cobra.Command{
		Use:   "extensions [id]",
		Short: "Show or change the extensions enabled on a dashboard",
		Example: `
neodash extensions 0b6f6f8e-3c1d-4a43-9d4e-0e7c1c3a9f11
neodash extensions --title "Movies" --enable solutionsHive
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: dashboardCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := open()
			if err != nil {
				return err
			}
			changes, err := eo.Changes()
			if err != nil {
				return err
			}
			d, err := resolve(context.Background(), p, args, io.Title)
			if err != nil {
				return err
			}
			if len(changes) > 0 {
				state := dashboard.NewState(d, dashboard.Connection{}, true)
				for k, enabled := range changes {
					state.SetExtensionEnabled(k, enabled)
				}
				d = state.Snapshot()
				if err := p.Save(d); err != nil {
					return err
				}
			}
			pp := printers.PrettyPrint{}
			pp.Extensions(d)
			return nil
		},
	}
	options.AddTitleArgs(cmd, io)
	options.AddExtensionArgs(cmd, eo)

	topLevel.AddCommand(cmd)
}
