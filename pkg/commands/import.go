package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tableflip.dev/neodash/pkg/commands/options"
	"tableflip.dev/neodash/pkg/dashboard"
)

func addImport(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a dashboard JSON file into the store",
		Example: `
neodash import movies.json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := open()
			if err != nil {
				return err
			}
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			d, err := decodeDashboard(b)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err := p.Save(d); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(color.Output, "imported %q as %s\n", d.Title, d.UUID)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

// decodeDashboard parses a dashboard document, filling in what an exported
// file may leave out.
func decodeDashboard(b []byte) (*dashboard.Dashboard, error) {
	d := &dashboard.Dashboard{}
	if err := json.Unmarshal(b, d); err != nil {
		return nil, err
	}
	if d.UUID == "" {
		d.UUID = uuid.NewString()
	}
	if d.Version == "" {
		d.Version = dashboard.CurrentVersion
	}
	if len(d.Pages) == 0 {
		d.Pages = []dashboard.Page{{Title: "Main Page"}}
	}
	return d, nil
}

func addExportJSON(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	out := ""
	cmd := &cobra.Command{
		Use:   "export-json [id]",
		Short: "Write a stored dashboard as JSON",
		Example: `
neodash export-json 0b6f6f8e-3c1d-4a43-9d4e-0e7c1c3a9f11
neodash export-json --title "Movies" -o movies.json
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: dashboardCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := open()
			if err != nil {
				return err
			}
			d, err := resolve(context.Background(), p, args, io.Title)
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(d, "", "  ")
			if err != nil {
				return err
			}
			if out == "" {
				_, err = fmt.Fprintln(os.Stdout, string(b))
				return err
			}
			return os.WriteFile(out, append(b, '\n'), 0o644)
		},
	}
	options.AddTitleArgs(cmd, io)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout.")

	topLevel.AddCommand(cmd)
}
