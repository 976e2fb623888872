package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/neodash/pkg/dashboard"
	"tableflip.dev/neodash/pkg/store"
)

var (
	oo = &base.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "neodash",
		Short: base.Wrap80("Neo4j dashboards in the terminal, with Save to Hive."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addList(topLevel)
	addImport(topLevel)
	addExportJSON(topLevel)
	addTitle(topLevel)
	addExtensions(topLevel)
	addHive(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// open loads the config and the dashboard store.
func open() (store.Config, store.Persistence, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, p, nil
}

// resolve finds the dashboard named by id, or by title when title is set.
func resolve(ctx context.Context, p store.Persistence, args []string, title string) (*dashboard.Dashboard, error) {
	if title != "" {
		return p.FindByTitle(ctx, title)
	}
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return nil, fmt.Errorf("dashboard id or --title required")
	}
	return p.Load(args[0])
}

func dashboardCompletions(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	_, p, err := open()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var ids []string
	for _, d := range p.List(context.Background()) {
		if strings.HasPrefix(d.UUID, toComplete) {
			ids = append(ids, d.UUID+"\t"+d.Title)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
