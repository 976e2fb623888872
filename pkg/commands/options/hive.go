package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/neodash/pkg/dashboard"
	"tableflip.dev/neodash/pkg/hive"
)

// HiveOptions mirror the fields of the Save to Hive dialog.
type HiveOptions struct {
	File         string
	Target       string
	Overwrite    bool
	AuraURL      string
	AuraUsername string
	AuraPassword string
}

func AddHiveArgs(cmd *cobra.Command, o *HiveOptions) {
	cmd.Flags().StringVarP(&o.File, "file", "f", "",
		"Path to a Neo4j .dump file to upload with the dashboard.")
	cmd.Flags().StringVar(&o.Target, "target", "",
		`Database source, one of "dump" or "aura". Defaults to "dump" when --file is set.`)
	cmd.Flags().BoolVar(&o.Overwrite, "overwrite", false,
		"Replace a published dashboard with the same title.")
	cmd.Flags().StringVar(&o.AuraURL, "aura-url", "",
		"Aura connection URL, e.g. neo4j+s://xxxxxxxx.databases.neo4j.io.")
	cmd.Flags().StringVar(&o.AuraUsername, "aura-user", "",
		"Aura username.")
	cmd.Flags().StringVar(&o.AuraPassword, "aura-password", "",
		"Aura password. Falls back to $NEODASH_AURA_PASSWORD.")
}

// Request builds the export request for d.
func (o *HiveOptions) Request(d *dashboard.Dashboard, username string, now time.Time) (hive.Request, error) {
	target, err := hive.ParseTarget(o.Target)
	if err != nil {
		return hive.Request{}, err
	}
	if target == hive.TargetNone && o.File != "" {
		target = hive.TargetDump
	}
	req := hive.Request{
		Dashboard: d,
		Timestamp: now.UTC().Format(time.RFC3339),
		Username:  username,
		Overwrite: o.Overwrite,
		Target:    target,
	}
	if o.File != "" {
		fd, err := hive.Stat(o.File)
		if err != nil {
			return hive.Request{}, err
		}
		req.File = fd
	}
	if target == hive.TargetAura {
		req.AuraURL = o.AuraURL
		req.AuraUsername = o.AuraUsername
		req.AuraPassword = o.AuraPassword
	}
	return req, req.Validate()
}
