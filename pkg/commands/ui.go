package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/neodash/pkg/commands/options"
	"tableflip.dev/neodash/pkg/dashboard"
	"tableflip.dev/neodash/pkg/hive"
	"tableflip.dev/neodash/pkg/store"
	"tableflip.dev/neodash/pkg/tui/app"
)

func addUI(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	cmd := &cobra.Command{
		Use:   "ui [id]",
		Short: "open the text-based user interface",
		Example: `
neodash ui
neodash ui 0b6f6f8e-3c1d-4a43-9d4e-0e7c1c3a9f11
neodash ui --title "Movies"
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: dashboardCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return errors.New("neodash ui needs an interactive terminal")
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			cfg, p, err := open()
			if err != nil {
				return err
			}
			d, err := startDashboard(ctx, p, args, io.Title)
			if err != nil {
				return err
			}
			client, err := hive.NewClient(cfg.HivePath())
			if err != nil {
				return err
			}
			state := dashboard.NewState(d, dashboard.Connection{
				Database: cfg.Database(),
				Username: cfg.User(),
			}, cfg.Editable())
			return app.Run(app.Options{
				State:      state,
				Store:      p,
				Hive:       client,
				Fullscreen: cfg.Fullscreen(),
				Context:    ctx,
			})
		},
	}
	options.AddTitleArgs(cmd, io)

	topLevel.AddCommand(cmd)
}

// startDashboard picks the dashboard to open. Without a selector it opens the
// first stored dashboard by title, creating the sample one on first launch.
func startDashboard(ctx context.Context, p store.Persistence, args []string, title string) (*dashboard.Dashboard, error) {
	if len(args) > 0 || title != "" {
		return resolve(ctx, p, args, title)
	}
	if all := p.List(ctx); len(all) > 0 {
		return all[0], nil
	}
	d := dashboard.Sample()
	if err := p.Save(d); err != nil {
		return nil, fmt.Errorf("save sample dashboard: %w", err)
	}
	return d, nil
}
