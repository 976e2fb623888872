package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/neodash/pkg/extension"
)

// ExtensionOptions
type ExtensionOptions struct {
	Enable  []string
	Disable []string
}

func AddExtensionArgs(cmd *cobra.Command, o *ExtensionOptions) {
	cmd.Flags().StringSliceVar(&o.Enable, "enable", nil,
		`Enable an extension, one of "node-sidebar", "query-translator" or "solutionsHive".`)
	cmd.Flags().StringSliceVar(&o.Disable, "disable", nil,
		"Disable an extension.")
}

// Changes resolves the flags to the requested extension states. Disable wins
// when a kind is named by both flags.
func (o *ExtensionOptions) Changes() (map[extension.Kind]bool, error) {
	out := make(map[extension.Kind]bool, len(o.Enable)+len(o.Disable))
	for _, name := range o.Enable {
		k, err := extension.ParseKind(name)
		if err != nil {
			return nil, err
		}
		out[k] = true
	}
	for _, name := range o.Disable {
		k, err := extension.ParseKind(name)
		if err != nil {
			return nil, err
		}
		out[k] = false
	}
	return out, nil
}
