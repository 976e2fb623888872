package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/neodash/pkg/commands/options"
	"tableflip.dev/neodash/pkg/printers"
)

func addList(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored dashboards",
		Example: `
neodash list
neodash list --show-id
neodash list --json
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := open()
			if err != nil {
				return oo.HandleError(err)
			}
			all := p.List(context.Background())
			if oo.JSON {
				b, err := json.MarshalIndent(all, "", "  ")
				if err != nil {
					return oo.HandleError(err)
				}
				_, _ = fmt.Fprintln(color.Output, string(b))
				return nil
			}
			pp := printers.PrettyPrint{ShowID: io.ShowID}
			pp.TitleWithCount("Dashboards", len(all))
			pp.Dashboards(all)
			return nil
		},
	}
	options.AddShowIDArgs(cmd, io)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
