package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/neodash/pkg/commands/options"
	"tableflip.dev/neodash/pkg/hive"
	"tableflip.dev/neodash/pkg/printers"
	"tableflip.dev/neodash/pkg/store"
)

func addHive(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "hive",
		Short: "Publish dashboards to Hive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	addHiveSave(cmd)
	addHiveList(cmd)

	topLevel.AddCommand(cmd)
}

func addHiveSave(parent *cobra.Command) {
	io := &options.IDOptions{}
	ho := &options.HiveOptions{}
	cmd := &cobra.Command{
		Use:   "save [id]",
		Short: "Save a dashboard to Hive",
		Example: `
neodash hive save --title "Movies"
neodash hive save --title "Movies" --file movies.dump --overwrite
neodash hive save --title "Movies" --target aura --aura-url neo4j+s://xxxxxxxx.databases.neo4j.io --aura-user neo4j
`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: dashboardCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, p, err := open()
			if err != nil {
				return oo.HandleError(err)
			}
			d, err := resolve(ctx, p, args, io.Title)
			if err != nil {
				return oo.HandleError(err)
			}
			if ho.AuraPassword == "" {
				ho.AuraPassword = os.Getenv("NEODASH_AURA_PASSWORD")
			}
			req, err := ho.Request(d, cfg.User(), time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			client, err := hive.NewClient(cfg.HivePath())
			if err != nil {
				return oo.HandleError(err)
			}
			faint := color.New(color.Faint)
			last := -1
			err = client.Save(ctx, req, func(pct float64) {
				if oo.JSON {
					return
				}
				if step := int(pct * 10); step != last {
					last = step
					_, _ = faint.Fprintf(color.Output, "\ruploading %3.0f%%", pct*100)
				}
			})
			if !oo.JSON && last >= 0 {
				_, _ = fmt.Fprintln(color.Output)
			}
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				b, err := json.Marshal(map[string]string{"title": d.Title, "target": string(req.Target), "published": req.Timestamp})
				if err != nil {
					return oo.HandleError(err)
				}
				_, _ = fmt.Fprintln(color.Output, string(b))
				return nil
			}
			_, _ = fmt.Fprintf(color.Output, "saved %q to Hive\n", d.Title)
			return nil
		},
	}
	options.AddTitleArgs(cmd, io)
	options.AddHiveArgs(cmd, ho)
	base.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}

func addHiveList(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dashboards published to Hive",
		Example: `
neodash hive list
neodash hive list --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return oo.HandleError(err)
			}
			client, err := hive.NewClient(cfg.HivePath())
			if err != nil {
				return oo.HandleError(err)
			}
			recs, err := client.List(context.Background())
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				b, err := json.MarshalIndent(recs, "", "  ")
				if err != nil {
					return oo.HandleError(err)
				}
				_, _ = fmt.Fprintln(color.Output, string(b))
				return nil
			}
			pp := printers.PrettyPrint{}
			pp.Records(recs, client.HasDump)
			return nil
		},
	}
	base.AddOutputArg(cmd, oo)

	parent.AddCommand(cmd)
}
